package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mehyar500/spavevisionapp/internal/config"
	"github.com/mehyar500/spavevisionapp/internal/logger"
	"github.com/mehyar500/spavevisionapp/internal/metrics"
	"github.com/mehyar500/spavevisionapp/internal/provider/cloudflare"
	"github.com/mehyar500/spavevisionapp/internal/reconcile"
)

var (
	configPath  string
	autoFix     bool
	environment string
)

var rootCmd = &cobra.Command{
	Use:           "spavectl",
	Short:         "Manage the spavevision Cloudflare infrastructure",
	Long:          "spavectl reconciles DNS records, validates infrastructure health and gates deployments for the spavevision application",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "spavectl.yaml", "Config file path")

	registerDNSCommand(rootCmd)
	registerInfraCommand(rootCmd)
	registerDeployCommands(rootCmd)
	registerServeCommand(rootCmd)
}

// app bundles the wired dependencies every command needs.
type app struct {
	cfg     *config.Config
	metrics *metrics.Metrics
	client  *cloudflare.CloudflareClient
	engine  *reconcile.Engine
}

func setup() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Env)

	m := metrics.New()
	client, err := cloudflare.New(cfg.Cloudflare, m)
	if err != nil {
		return nil, fmt.Errorf("init cloudflare client: %w", err)
	}
	engine := reconcile.NewEngine(client, cfg.Cloudflare.Zone, m)

	return &app{cfg: cfg, metrics: m, client: client, engine: engine}, nil
}

// printReport writes an indented JSON report to stdout. Logs go to
// stderr, so stdout stays parseable.
func printReport(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
