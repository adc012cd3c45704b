package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/auth"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/config"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/retry"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the cloud OAuth session",
}

var authCode, authRedirectURI string

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Exchange an authorization code obtained from the cloud consent page for a token",
	RunE:  runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a valid token is present and when it expires",
	RunE:  runAuthStatus,
}

func init() {
	authLoginCmd.Flags().StringVar(&authCode, "code", "", "authorization code from the cloud consent redirect")
	authLoginCmd.Flags().StringVar(&authRedirectURI, "redirect-uri", "", "redirect URI registered with the cloud app (overrides config)")
	authLoginCmd.MarkFlagRequired("code")
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
}

func newAuthManager(cfg *config.Config) *auth.Manager {
	return auth.NewManager(auth.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenPath:    cfg.TokenPath,
		Policy:       retry.NewPolicy(),
	})
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	redirectURI := authRedirectURI
	if redirectURI == "" {
		redirectURI = cfg.RedirectURI
	}

	mgr := newAuthManager(cfg)
	if err := mgr.Load(); err != nil {
		return err
	}
	if err := mgr.ExchangeAuthorizationCode(context.Background(), authCode, redirectURI); err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}
	fmt.Println("authentication succeeded; token saved to", cfg.TokenPath)
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	mgr := newAuthManager(cfg)
	if err := mgr.Load(); err != nil {
		return err
	}
	if !mgr.HasAuth() {
		fmt.Println("not authenticated")
		return nil
	}
	t := mgr.Token()
	fmt.Printf("authenticated, token expires at %s\n", t.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"))
	return nil
}
