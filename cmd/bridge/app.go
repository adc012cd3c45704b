package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/accessory"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/auth"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/automode"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/cloudapi"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/config"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/coordinator"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/device"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/plugin"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/protolog"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/retry"
)

// app bundles every subsystem the bridge wires together. Its
// construction order follows the dependency graph from spec.md §5: auth
// first (everything else needs a token source), then the cloud client,
// then the plugin dispatcher and the auto-mode handler (whose device
// lookups are filled in once the coordinator exists), then the accessory
// cache, then the coordinator (which binds itself into the dispatcher),
// then the display-light monitor, which enumerates the coordinator's
// devices.
type app struct {
	cfg        *config.Config
	logger     protolog.Logger
	authMgr    *auth.Manager
	cloud      *cloudapi.Client
	dispatcher *plugin.Dispatcher
	automode   *automode.Controller
	cache      *accessory.Cache
	coord      *coordinator.Coordinator
	lightMon   *plugin.DisplayLightMonitor
}

func newApp(cfg *config.Config) (*app, error) {
	logger := buildLogger(cfg.LogLevel)

	authMgr := auth.NewManager(auth.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenPath:    cfg.TokenPath,
		Policy:       retry.NewPolicy(),
		Logger:       logger,
	})
	if err := authMgr.Load(); err != nil {
		return nil, fmt.Errorf("loading token: %w", err)
	}

	cloud := cloudapi.NewClient(cloudapi.Config{
		Tokens: authMgr,
		Policy: retry.NewPolicy(),
		Logger: logger,
	})

	dispatcher := plugin.NewDispatcher(logger)
	dispatcher.Register(plugin.CorePassthroughHandler{})

	autoModeCtrl := automode.NewController(automode.DefaultConfig(), cfg.AutoModeStatePath, logger)
	if err := autoModeCtrl.Load(); err != nil {
		return nil, fmt.Errorf("loading auto-mode state: %w", err)
	}
	// Access and Devices are filled in below once the coordinator exists:
	// the coordinator is the DeviceAccess/device-enumeration dependency
	// and is itself built using the dispatcher this handler registers
	// into, so the wiring is necessarily late-bound.
	autoModeHandler := plugin.NewHVACAutoModeHandler(autoModeCtrl, cloud, nil, nil, logger)
	dispatcher.Register(autoModeHandler)

	cache := accessory.NewCache(cfg.DeviceStatePath)
	if err := cache.Load(); err != nil {
		return nil, fmt.Errorf("loading accessory cache: %w", err)
	}

	coord := coordinator.New(coordinator.Config{
		Cloud:          cloud,
		Dispatcher:     dispatcher,
		AccessoryCache: cache,
		StatePath:      cfg.PersistPath,
		DeviceFilter:   func(d *device.Device) bool { return true },
		Logger:         logger,
	})

	autoModeHandler.Devices = coord.DeviceIDs
	autoModeHandler.Access = coord

	lightMon := plugin.NewDisplayLightMonitor(cloud, cfg.DisplayLightScanInterval(), coord.DeviceIDs, logger)
	dispatcher.Register(lightMon)

	return &app{
		cfg:        cfg,
		logger:     logger,
		authMgr:    authMgr,
		cloud:      cloud,
		dispatcher: dispatcher,
		automode:   autoModeCtrl,
		cache:      cache,
		coord:      coord,
		lightMon:   lightMon,
	}, nil
}

func buildLogger(level string) protolog.Logger {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel})
	return protolog.NewSlogAdapter(slog.New(handler))
}
