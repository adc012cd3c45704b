package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/cloudapi"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/config"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/retry"
)

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Inspect devices visible to the configured cloud account",
}

var deviceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List devices and whether the bridge treats them as thermostat-like",
	RunE:  runDeviceList,
}

func init() {
	deviceCmd.AddCommand(deviceListCmd)
}

func runDeviceList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	authMgr := newAuthManager(cfg)
	if err := authMgr.Load(); err != nil {
		return err
	}
	client := cloudapi.NewClient(cloudapi.Config{Tokens: authMgr, Policy: retry.NewPolicy()})

	ctx := context.Background()
	summaries, err := client.ListDevices(ctx)
	if err != nil {
		return fmt.Errorf("listing devices: %w", err)
	}
	details := client.ListDeviceDetails(ctx, summaries)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMANUFACTURER\tTHERMOSTAT-LIKE")
	for _, d := range details {
		dev := d.ToDevice()
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", dev.ID, dev.Name, dev.Manufacturer, dev.IsThermostatLike())
	}
	return w.Flush()
}
