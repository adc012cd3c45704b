package cloudapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/protolog"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/retry"
)

const baseURL = "https://api.smartthings.com/v1"

// TokenSource supplies a bearer token for authenticated calls. auth.Manager
// satisfies this interface. The client is built once and holds no token
// of its own: every authenticated request re-checks auth and reads the
// current access token from the TokenSource, so a refreshed token is
// used from the next call on.
type TokenSource interface {
	EnsureValidToken(ctx context.Context) error
	HasAuth() bool
	AccessToken() string
}

// Client is a typed wrapper over the cloud device API.
type Client struct {
	tokens     TokenSource
	httpClient *http.Client
	policy     *retry.Policy
	logger     protolog.Logger
}

// Config configures a Client.
type Config struct {
	Tokens     TokenSource
	HTTPClient *http.Client
	Policy     *retry.Policy
	Logger     protolog.Logger
}

// NewClient creates a cloud API client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	policy := cfg.Policy
	if policy == nil {
		policy = retry.NewPolicy()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = protolog.NoopLogger{}
	}
	return &Client{tokens: cfg.Tokens, httpClient: httpClient, policy: policy, logger: logger}
}

// httpStatusError adapts a non-2xx response for retry classification.
type httpStatusError struct {
	code int
	body string
}

func (e *httpStatusError) Error() string  { return fmt.Sprintf("cloud API returned %d: %s", e.code, e.body) }
func (e *httpStatusError) StatusCode() int { return e.code }

func (c *Client) doJSON(ctx context.Context, method, path string, reqBody any, out any) error {
	if err := c.tokens.EnsureValidToken(ctx); err != nil || !c.tokens.HasAuth() {
		return ErrUnauthenticated
	}

	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.tokens.AccessToken())
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &httpStatusError{code: resp.StatusCode, body: string(respBody)}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

// listDevicesResponse mirrors the cloud's device-list envelope.
type listDevicesResponse struct {
	Items []struct {
		DeviceID     string `json:"deviceId"`
		Label        string `json:"label"`
		Name         string `json:"name"`
		Manufacturer string `json:"manufacturerName"`
	} `json:"items"`
}

// ListDevices returns device summaries. Read paths return a nil/empty
// result (rather than an error) when there is no authenticated client, per
// spec.md §4.3.
func (c *Client) ListDevices(ctx context.Context) ([]Summary, error) {
	if !c.tokens.HasAuth() {
		return nil, nil
	}

	var resp listDevicesResponse
	err := c.policy.Do(ctx, "cloudapi.listDevices", func(ctx context.Context) error {
		return c.doJSON(ctx, http.MethodGet, "/devices", nil, &resp)
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(resp.Items))
	for _, item := range resp.Items {
		name := item.Label
		if name == "" {
			name = item.Name
		}
		summaries = append(summaries, Summary{ID: item.DeviceID, Name: name, Manufacturer: item.Manufacturer})
	}
	return summaries, nil
}

// deviceDetailResponse mirrors the cloud's per-device detail envelope.
type deviceDetailResponse struct {
	DeviceID         string   `json:"deviceId"`
	Label            string   `json:"label"`
	Name             string   `json:"name"`
	ManufacturerName string   `json:"manufacturerName"`
	Capabilities     []string `json:"capabilities"`
	Components       []struct {
		Capabilities []struct {
			ID string `json:"id"`
		} `json:"capabilities"`
	} `json:"components"`
}

// GetDevice fetches full detail for a single device, wrapped in the retry
// policy.
func (c *Client) GetDevice(ctx context.Context, id string) (*DeviceDetail, error) {
	if !c.tokens.HasAuth() {
		return nil, nil
	}

	var resp deviceDetailResponse
	err := c.policy.Do(ctx, "cloudapi.getDevice", func(ctx context.Context) error {
		return c.doJSON(ctx, http.MethodGet, "/devices/"+id, nil, &resp)
	})
	if err != nil {
		return nil, err
	}

	name := resp.Label
	if name == "" {
		name = resp.Name
	}

	componentCaps := make([][]string, 0, len(resp.Components))
	for _, comp := range resp.Components {
		ids := make([]string, 0, len(comp.Capabilities))
		for _, c := range comp.Capabilities {
			ids = append(ids, c.ID)
		}
		componentCaps = append(componentCaps, ids)
	}

	return &DeviceDetail{
		Summary:               Summary{ID: resp.DeviceID, Name: name, Manufacturer: resp.ManufacturerName},
		TopLevelCapabilities:  resp.Capabilities,
		ComponentCapabilities: componentCaps,
	}, nil
}

// ListDeviceDetails fetches full detail for every summary concurrently,
// each wrapped in the retry primitive. On a per-device fetch failure, the
// summary-level fallback is retained (a DeviceDetail with no capability
// information) rather than dropping the device, per spec.md §4.3.
func (c *Client) ListDeviceDetails(ctx context.Context, summaries []Summary) []DeviceDetail {
	details := make([]DeviceDetail, len(summaries))

	var wg sync.WaitGroup
	for i, s := range summaries {
		wg.Add(1)
		go func(i int, s Summary) {
			defer wg.Done()
			detail, err := c.GetDevice(ctx, s.ID)
			if err != nil || detail == nil {
				c.logger.Log(protolog.Event{Component: protolog.ComponentCloudAPI, Operation: "getDevice", DeviceID: s.ID, Outcome: protolog.OutcomeFailure})
				details[i] = DeviceDetail{Summary: s}
				return
			}
			details[i] = *detail
		}(i, s)
	}
	wg.Wait()

	return details
}

// statusResponse mirrors the cloud's device-status envelope for the
// attributes this bridge cares about.
type statusResponse struct {
	Components map[string]struct {
		TemperatureMeasurement struct {
			Temperature struct {
				Value float64 `json:"value"`
			} `json:"temperature"`
		} `json:"temperatureMeasurement"`
		ThermostatHeatingSetpoint struct {
			HeatingSetpoint struct {
				Value *float64 `json:"value"`
			} `json:"heatingSetpoint"`
		} `json:"thermostatHeatingSetpoint"`
		ThermostatCoolingSetpoint struct {
			CoolingSetpoint struct {
				Value *float64 `json:"value"`
			} `json:"coolingSetpoint"`
		} `json:"thermostatCoolingSetpoint"`
		ThermostatMode struct {
			ThermostatMode struct {
				Value string `json:"value"`
			} `json:"thermostatMode"`
		} `json:"thermostatMode"`
		AirConditionerMode struct {
			AirConditionerMode struct {
				Value string `json:"value"`
			} `json:"airConditionerMode"`
		} `json:"airConditionerMode"`
		Switch struct {
			Switch struct {
				Value string `json:"value"`
			} `json:"switch"`
		} `json:"switch"`
	} `json:"components"`
}

// GetStatus fetches the current status for a device, wrapped in retry.
func (c *Client) GetStatus(ctx context.Context, id string) (*Status, error) {
	if !c.tokens.HasAuth() {
		return nil, nil
	}

	var resp statusResponse
	err := c.policy.Do(ctx, "cloudapi.getStatus", func(ctx context.Context) error {
		return c.doJSON(ctx, http.MethodGet, "/devices/"+id+"/status", nil, &resp)
	})
	if err != nil {
		return nil, err
	}

	main, ok := resp.Components["main"]
	if !ok {
		return &Status{}, nil
	}

	rawMode := main.ThermostatMode.ThermostatMode.Value
	if rawMode == "" {
		rawMode = main.AirConditionerMode.AirConditionerMode.Value
	}

	return &Status{
		Temperature:     main.TemperatureMeasurement.Temperature.Value,
		HeatingSetpoint: main.ThermostatHeatingSetpoint.HeatingSetpoint.Value,
		CoolingSetpoint: main.ThermostatCoolingSetpoint.CoolingSetpoint.Value,
		Mode:            rawMode,
		SwitchOn:        main.Switch.Switch.Value == "on",
	}, nil
}

// executeCommandsRequest mirrors the cloud's command envelope.
type executeCommandsRequest struct {
	Commands []wireCommand `json:"commands"`
}

type wireCommand struct {
	Component  string `json:"component"`
	Capability string `json:"capability"`
	Command    string `json:"command"`
	Arguments  []any  `json:"arguments"`
}

// ExecuteCommands sends one or more commands to a device. Write paths fail
// with ErrUnauthenticated (no retry) rather than silently no-oping, per
// spec.md §4.3/§7.
func (c *Client) ExecuteCommands(ctx context.Context, deviceID string, commands ...Command) error {
	if !c.tokens.HasAuth() {
		return ErrUnauthenticated
	}
	if len(commands) == 0 {
		return nil
	}

	wire := make([]wireCommand, len(commands))
	for i, cmd := range commands {
		args := cmd.Arguments
		if args == nil {
			args = []any{}
		}
		wire[i] = wireCommand{Component: cmd.Component, Capability: cmd.Capability, Command: cmd.Command, Arguments: args}
	}

	err := c.policy.Do(ctx, "cloudapi.executeCommands", func(ctx context.Context) error {
		return c.doJSON(ctx, http.MethodPost, "/devices/"+deviceID+"/commands", executeCommandsRequest{Commands: wire}, nil)
	})
	if err != nil {
		c.logger.Log(protolog.Event{Component: protolog.ComponentCloudAPI, Operation: "executeCommands", DeviceID: deviceID, Outcome: protolog.OutcomeFailure, Err: err.Error()})
		return fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}
	c.logger.Log(protolog.Event{Component: protolog.ComponentCloudAPI, Operation: "executeCommands", DeviceID: deviceID, Outcome: protolog.OutcomeSuccess})
	return nil
}

// SetDisplayLight turns the display light on the named device on or off,
// translating to the inverted vendor token internally.
func (c *Client) SetDisplayLight(ctx context.Context, deviceID string, on bool) error {
	return c.ExecuteCommands(ctx, deviceID, SetDisplayLightCommand(on))
}

// SilentDisplayLightOff is the best-effort display-light-off issued after
// any write command that changes temperature or mode. Failures are logged
// and swallowed: this is a courtesy action, not part of the requested
// state change.
func (c *Client) SilentDisplayLightOff(ctx context.Context, deviceID string) {
	if err := c.SetDisplayLight(ctx, deviceID, false); err != nil {
		c.logger.Log(protolog.Event{Component: protolog.ComponentCloudAPI, Operation: "silentDisplayLightOff", DeviceID: deviceID, Outcome: protolog.OutcomeFailure, Err: err.Error()})
	}
}
