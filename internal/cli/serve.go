package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sheetgate/sheetgate/internal/audit"
	"github.com/sheetgate/sheetgate/internal/config"
	"github.com/sheetgate/sheetgate/internal/gateway"
	"github.com/sheetgate/sheetgate/internal/mcp"
	"github.com/sheetgate/sheetgate/internal/ratelimit"
	"github.com/sheetgate/sheetgate/internal/registry"
	"github.com/sheetgate/sheetgate/internal/session"
	"github.com/sheetgate/sheetgate/internal/sheets"
)

var serveConfig string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to config YAML")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP gateway server on stdio",
	Long:  "Runs sheetgate as an MCP (Model Context Protocol) server over stdio.\nEvery tool call passes through validation, admission, and the audit record.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfig)
	if err != nil {
		return err
	}
	token, err := cfg.Token()
	if err != nil {
		return err
	}

	client := sheets.NewClient(sheets.ClientConfig{
		SheetsURL: cfg.Backend.SheetsURL,
		DriveURL:  cfg.Backend.DriveURL,
		Token:     token,
		Timeout:   cfg.Backend.Timeout,
	})
	sess := session.New(client, client, cfg.Backend.ScopeID)

	reg := registry.New()
	if err := sheets.Register(reg); err != nil {
		return fmt.Errorf("register operations: %w", err)
	}

	log := audit.NewLog(cfg.Audit.Retention)
	if cfg.Audit.File != "" {
		sink, err := audit.OpenSink(cfg.Audit.File)
		if err != nil {
			return fmt.Errorf("open audit sink: %w", err)
		}
		defer sink.Close()
		log = log.WithSink(sink)
	}

	gw := gateway.New(gateway.Config{
		Registry: reg,
		Limits:   ratelimit.NewSet(cfg.RateLimits.Global, cfg.RateLimits.PerOperation),
		Audit:    log,
		Session:  sess,
		Strict:   cfg.Validation.Strict,
	})
	srv := mcp.New(gw)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down gateway...")
		cancel()
	}()

	fmt.Fprintf(os.Stderr, "sheetgate MCP server running on stdio (%d operations)\n", len(reg.Names()))
	if cfg.Backend.ScopeID != "" {
		fmt.Fprintf(os.Stderr, "Scope: %s\n", cfg.Backend.ScopeID)
	}
	fmt.Fprintln(os.Stderr)

	err = srv.Run(ctx)

	fmt.Fprintf(os.Stderr, "\n%d calls recorded this session\n", log.Len())
	return err
}
