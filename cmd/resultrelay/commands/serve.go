package commands

import (
	"context"
	"time"

	"resultrelay/lib/serviceutil"
	"resultrelay/lib/telemetry"
	"resultrelay/services/gradesheet"
	"resultrelay/services/gradesheet/server"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newGradesheetClient(cfg Config) (*gradesheet.Client, error) {
	return gradesheet.NewClient(gradesheet.ClientOptions{
		BaseUrl:          cfg.UpstreamUrl,
		UserAgent:        cfg.UserAgent,
		Timeout:          time.Second * time.Duration(cfg.RequestTimeoutSeconds),
		InsecureTls:      cfg.InsecureTls,
		CloudflareBypass: cfg.CloudflareBypass,
	})
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the result relay HTTP API.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		telemetry.InitSlog(cfg.LogLevel)

		tel, err := telemetry.SetupFromEnv(ctx, "resultrelay")
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		defer tel.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)

		client, err := newGradesheetClient(cfg)
		if err != nil {
			serviceutil.Fatal("failed to initialize upstream client", err)
		}

		handler := server.New(ctx, server.Options{
			Service:        gradesheet.NewService(client),
			AllowedOrigins: cfg.AllowedOrigins,
			RateLimitMax:   cfg.RateLimitMax,
			RequestTimeout: time.Second * time.Duration(cfg.RequestTimeoutSeconds),
		})

		err = serviceutil.StartHttpServer(ctx, cfg.Port, handler)
		if err != nil {
			serviceutil.Fatal("http server failed", err)
		}
	},
}
