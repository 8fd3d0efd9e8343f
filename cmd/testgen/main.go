package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/curza/testgen/internal/expand"
	"github.com/curza/testgen/internal/handler"
	"github.com/curza/testgen/internal/llm"
	"github.com/curza/testgen/internal/reconcile"
	"github.com/curza/testgen/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "testgen",
		Short: "Curriculum-aligned test paper generation and scoring service",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `testgen --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP test generation server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "testgen.db", "SQLite database path")
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "ollama", "API key for LLM")
	f.String("llm-model", "llama3.2", "LLM model name")
	f.Duration("llm-timeout", 60*time.Second, "Deadline for a single content expansion call (0 = none)")
	f.Int("llm-retries", 1, "Attempts per LLM call (1 = no retry)")
	f.String("auth-secret", "", "HMAC secret for bearer tokens (empty disables auth)")
	f.StringSlice("cors-origins", nil, "Allowed CORS origins (empty disables CORS)")
	f.String("residual", "last", "Rounding residual placement during mark reconciliation (last, largest)")
	f.String("deployment", "", "Deployment label recorded in the archive")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export archived papers and score reports as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "testgen.db", "SQLite database path")
	f.Int("limit", 0, "Maximum papers to export (0 = all)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("CURZA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("testgen")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/testgen")
	v.AddConfigPath("/etc/testgen")
	v.AddConfigPath("/data")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if label := v.GetString("deployment"); label != "" {
		if err := db.SetMetadata("deployment", label); err != nil {
			return fmt.Errorf("record deployment label: %w", err)
		}
	}

	openai, err := llm.NewOpenAIProvider(llm.OpenAIConfig{
		BaseURL: v.GetString("llm-url"),
		APIKey:  v.GetString("llm-key"),
		Model:   v.GetString("llm-model"),
	})
	if err != nil {
		return fmt.Errorf("create LLM provider: %w", err)
	}
	if err := openai.Ping(context.Background()); err != nil {
		return fmt.Errorf("LLM health check: %w", err)
	}
	slog.Info("LLM endpoint OK", "url", v.GetString("llm-url"), "model", v.GetString("llm-model"))

	var provider llm.Provider = openai
	if retries := v.GetInt("llm-retries"); retries > 1 {
		provider = llm.WithRetry(provider, llm.DefaultRetryConfig(retries))
	}

	residual, err := parseResidual(v.GetString("residual"))
	if err != nil {
		return err
	}

	h := handler.New(db, expand.New(provider), handler.Config{
		AuthSecret: v.GetString("auth-secret"),
		LLMTimeout: v.GetDuration("llm-timeout"),
		Residual:   residual,
	})

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if origins := v.GetStringSlice("cors-origins"); len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"model", v.GetString("llm-model"),
		"llm_url", v.GetString("llm-url"),
		"llm_timeout", v.GetDuration("llm-timeout"),
		"llm_retries", v.GetInt("llm-retries"),
		"auth", v.GetString("auth-secret") != "",
		"residual", v.GetString("residual"),
	)
	return http.ListenAndServe(addr, r)
}

func parseResidual(name string) (reconcile.ResidualStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "last":
		return reconcile.ResidualLast, nil
	case "largest":
		return reconcile.ResidualLargest, nil
	default:
		return 0, fmt.Errorf("unknown residual strategy %q (want last or largest)", name)
	}
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	export, err := db.ExportArchive(v.GetInt("limit"))
	if err != nil {
		return fmt.Errorf("export archive: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}
