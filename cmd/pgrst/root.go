package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/edgeflare/pgrst/pkg/config"
	"github.com/edgeflare/pgrst/pkg/metrics"
	"github.com/edgeflare/pgrst/pkg/postgrest"
	"github.com/edgeflare/pgrst/pkg/transport"
)

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pgrst",
	Short: "pgrst queries PostgREST-compatible APIs",
	Long:  `pgrst builds and executes queries against a PostgREST-style HTTP data API`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Mostly useful when pgrst runs in a loop from scripts; one-shot
		// invocations exit before a scrape happens.
		if cfg != nil && cfg.MetricsAddr != "" {
			metrics.StartServer(context.Background(), &sync.WaitGroup{}, &metrics.ServerOpts{Addr: cfg.MetricsAddr, Logger: logger})
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			fmt.Println(config.Version)
			return
		}
		cmd.Help()
	},
}

func main() {
	defer func() {
		if logger != nil {
			logger.Sync()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/pgrst.yaml)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "L", "info", "log at this level (debug, info, warn, error, none)")
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Print the version number")

	rootCmd.PersistentFlags().StringP("base-url", "u", "", "PostgREST base URL")
	rootCmd.PersistentFlags().String("schema", "", "PostgreSQL schema (Accept-Profile/Content-Profile)")
	rootCmd.PersistentFlags().String("token", "", "Bearer token")
	viper.BindPFlag("baseURL", rootCmd.PersistentFlags().Lookup("base-url"))
	viper.BindPFlag("schema", rootCmd.PersistentFlags().Lookup("schema"))
	viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	if v := viper.GetString("baseURL"); v != "" {
		cfg.BaseURL = v
	}
	if v := viper.GetString("schema"); v != "" {
		cfg.Schema = v
	}
	if v := viper.GetString("token"); v != "" {
		cfg.Token = v
	}
}

func initLogger() {
	if logLevel == "none" {
		logger = zap.NewNop()
		return
	}
	zcfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(logLevel); err == nil {
		zcfg.Level = lvl
	}
	var err error
	logger, err = zcfg.Build()
	if err != nil {
		fmt.Println("Error building logger:", err)
		os.Exit(1)
	}
}

// newClient wires config into a postgrest client.
func newClient() *postgrest.Client {
	tcfg := &transport.Config{
		Timeout: cfg.Timeout,
		Retry: transport.RetryConfig{
			Enabled:        cfg.Retry.Enabled,
			MaxRetries:     cfg.Retry.MaxRetries,
			InitialBackoff: cfg.Retry.InitialBackoff,
			MaxBackoff:     cfg.Retry.MaxBackoff,
		},
		RequestID: true,
		Metrics:   cfg.MetricsAddr != "",
	}

	client := postgrest.NewClient(cfg.BaseURL, &postgrest.ClientOptions{
		Schema:    cfg.Schema,
		Headers:   cfg.Headers,
		Transport: tcfg,
		Logger:    logger,
	})
	if cfg.Token != "" {
		client.TokenAuth(cfg.Token)
	} else if cfg.BasicAuth.Username != "" {
		client.BasicAuth(cfg.BasicAuth.Username, cfg.BasicAuth.Password)
	}
	return client
}

// printResponse writes response data to stdout and the count, when the
// server reported one, to stderr.
func printResponse(res *postgrest.APIResponse) {
	if res.Data != nil {
		fmt.Println(string(res.Data))
	}
	if res.Count != nil {
		fmt.Fprintf(os.Stderr, "count: %d\n", *res.Count)
	}
}

func exitOnError(err error) {
	if err == nil {
		return
	}
	var apiErr *postgrest.APIError
	if errors.As(err, &apiErr) {
		fields := []zap.Field{}
		if apiErr.Message != nil {
			fields = append(fields, zap.String("message", *apiErr.Message))
		}
		if apiErr.Code != nil {
			fields = append(fields, zap.String("code", *apiErr.Code))
		}
		if apiErr.Details != nil {
			fields = append(fields, zap.String("details", *apiErr.Details))
		}
		if apiErr.Hint != nil {
			fields = append(fields, zap.String("hint", *apiErr.Hint))
		}
		logger.Error("API error", fields...)
	} else {
		logger.Error("request failed", zap.Error(err))
	}
	logger.Sync()
	os.Exit(1)
}
