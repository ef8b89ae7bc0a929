// Command quizdrill is the exam-practice engine.
//
// Usage:
//
//	quizdrill -config quizdrill.yaml              # run with config file
//	quizdrill -db quizdrill.db file.xlsx ...      # import files and exit
//	quizdrill -db quizdrill.db -serve :8080       # HTTP API daemon
//	quizdrill -db quizdrill.db -mcp               # MCP server on stdio
//	quizdrill -db quizdrill.db -stats             # show stats and exit
//	quizdrill -db quizdrill.db -export            # dump state as JSON
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	_ "modernc.org/sqlite"

	"github.com/quizdrill/quizdrill/drill"
)

func main() {
	configPath := flag.String("config", "", "path to quizdrill.yaml config file")
	dbPath := flag.String("db", "", "path to SQLite database")
	serveAddr := flag.String("serve", "", "HTTP listen address (e.g. :8080)")
	mcpMode := flag.Bool("mcp", false, "serve MCP tools on stdio")
	showStats := flag.Bool("stats", false, "show stats and exit")
	exportState := flag.Bool("export", false, "dump full state as JSON and exit")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *dbPath, *serveAddr, *mcpMode, *showStats, *exportState, flag.Args()); err != nil {
		logger.Error("quizdrill: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, dbPath, serveAddr string, mcpMode, showStats, exportState bool, importPaths []string) error {
	cfg, err := resolveConfig(configPath, dbPath)
	if err != nil {
		return err
	}

	svc, err := drill.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer svc.Close()

	// One-shot: import files given as arguments.
	if len(importPaths) > 0 {
		reports := svc.ImportFiles(ctx, importPaths)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
		for _, r := range reports {
			if !r.Result.Success {
				return fmt.Errorf("import failed for %s", r.Path)
			}
		}
		return nil
	}

	// One-shot: stats.
	if showStats {
		stats, err := svc.Stats(ctx)
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	// One-shot: state export.
	if exportState {
		snap, err := svc.Export(ctx)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	// MCP server on stdio.
	if mcpMode {
		srv := mcp.NewServer(&mcp.Implementation{Name: "quizdrill", Version: "0.1.0"}, nil)
		svc.RegisterMCP(srv)
		logger.Info("quizdrill: MCP server on stdio", "db", cfg.DBPath)
		return srv.Run(ctx, &mcp.StdioTransport{})
	}

	// HTTP daemon.
	if serveAddr != "" {
		httpSrv := &http.Server{Addr: serveAddr, Handler: svc.Routes()}
		go func() {
			<-ctx.Done()
			httpSrv.Shutdown(context.Background())
		}()
		logger.Info("quizdrill: serving HTTP", "addr", serveAddr, "db", cfg.DBPath)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		logger.Info("quizdrill: shutting down")
		return nil
	}

	fmt.Fprintln(os.Stderr, "nothing to do: give files to import, or -serve, -mcp, -stats, -export")
	return nil
}

func resolveConfig(configPath, dbPath string) (*drill.Config, error) {
	if configPath != "" {
		return drill.LoadConfigFile(configPath)
	}

	cfg := &drill.Config{}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	if cfg.DBPath == "" {
		fmt.Fprintln(os.Stderr, "usage: quizdrill -config <file> | -db <path> [files...] [-serve <addr>] [-mcp] [-stats] [-export]")
		os.Exit(1)
	}
	return cfg, nil
}
