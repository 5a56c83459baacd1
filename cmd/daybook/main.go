// ABOUTME: Entry point for the daybook MCP server
// ABOUTME: Bridges reminder/event tools to MCP clients over stdio or HTTP

package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/daybook/daybook/internal/config"
	"github.com/daybook/daybook/internal/mcp"
	"github.com/daybook/daybook/internal/store"
	"github.com/daybook/daybook/internal/tools"
	"github.com/daybook/daybook/internal/transport"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
     _             _                 _
  __| | __ _ _   _| |__   ___   ___ | | __
 / _' |/ _' | | | | '_ \ / _ \ / _ \| |/ /
| (_| | (_| | |_| | |_) | (_) | (_) |   <
 \__,_|\__,_|\__, |_.__/ \___/ \___/|_|\_\
             |___/
`

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: daybook <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  stdio     Serve MCP over stdin/stdout")
		fmt.Println("  serve     Serve MCP over HTTP")
		fmt.Println("  init      Create a starter config file with a generated API key")
		fmt.Println("  health    Check server health")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "stdio":
		err = runStdio(ctx)
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "health":
		err = runHealth(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the config file, falling back to defaults when none
// exists. Stdio mode should work out of the box without one.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &config.Config{
				Database: config.DatabaseConfig{Path: config.DefaultDatabasePath()},
			}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// buildDispatcher wires the store, tool registry, and dispatcher. The
// store handle is acquired once here and held for the process lifetime.
func buildDispatcher(cfg *config.Config, logger *slog.Logger) (*mcp.Dispatcher, *store.SQLiteStore, error) {
	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	registry := tools.NewRegistry(st, logger)
	dispatcher, err := mcp.NewDispatcher(mcp.Config{
		Toolset:       registry,
		Logger:        logger,
		ServerName:    "daybook",
		ServerVersion: version,
		Instructions:  tools.Instructions,
	})
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("creating dispatcher: %w", err)
	}
	return dispatcher, st, nil
}

func runStdio(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// stdout is the protocol stream; everything else goes to stderr.
	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	dispatcher, st, err := buildDispatcher(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	srv, err := transport.NewStdioServer(dispatcher, os.Stdin, os.Stdout, logger)
	if err != nil {
		return fmt.Errorf("creating stdio server: %w", err)
	}

	logger.Info("daybook serving MCP over stdio", "version", version, "database", cfg.Database.Path)
	return srv.Serve(ctx)
}

func runServe(ctx context.Context) error {
	configPath := config.DefaultPath()

	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ValidateServe(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Database:  %s\n", cfg.Database.Path)
	fmt.Println()

	dispatcher, st, err := buildDispatcher(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	httpServer, err := transport.NewHTTPServer(dispatcher, cfg.Server.APIKey, logger)
	if err != nil {
		return fmt.Errorf("creating HTTP server: %w", err)
	}

	mux := http.NewServeMux()
	httpServer.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("daybook serving MCP over HTTP", "addr", cfg.Server.HTTPAddr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}
	return nil
}

// runInit writes a starter config file with a freshly generated API key.
// It refuses to overwrite an existing config.
func runInit() error {
	configPath := config.DefaultPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config already exists at %s", configPath)
	}

	keyBytes := make([]byte, 32)
	if _, err := rand.Read(keyBytes); err != nil {
		return fmt.Errorf("generating API key: %w", err)
	}
	apiKey := base64.RawURLEncoding.EncodeToString(keyBytes)

	content := fmt.Sprintf(`server:
  http_addr: "127.0.0.1:8220"
  api_key: "%s"

database:
  path: "%s"

logging:
  level: "info"
  format: "text"
`, apiKey, config.DefaultDatabasePath())

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Print("✓ ")
	fmt.Printf("Config written to %s\n", configPath)
	fmt.Printf("MCP endpoint: http://127.0.0.1:8220/%s/mcp\n", apiKey)
	return nil
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	url := fmt.Sprintf("http://%s/health", cfg.Server.HTTPAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = &colorHandler{
			level: level,
			out:   os.Stderr,
		}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
// Logs always go to stderr so stdio mode keeps stdout as a clean
// protocol stream.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	out    io.Writer
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	// Format timestamp
	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	// Colorize level
	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	// Print message
	buf.WriteString(r.Message)

	// Print handler-level attrs first (from WithAttrs)
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	// Print record attrs
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Fprint(h.out, buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		out:    h.out,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		out:    h.out,
		attrs:  h.attrs,
		groups: newGroups,
	}
}
