package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"portfolio-engine/internal/config"
	"portfolio-engine/internal/llm"
	"portfolio-engine/internal/logging"
	"portfolio-engine/internal/pipeline"
	"portfolio-engine/internal/scheduler"

	"github.com/joho/godotenv"
)

type flags struct {
	configPath   string
	out          string
	useMock      bool
	noFilter     bool
	offline      bool
	healthcheck  bool
	setAPIKey    bool
	deleteAPIKey bool
	listRuns     int
	showRun      string
	logLevel     string
	logFormat    string
	every        time.Duration
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("engine", flag.ContinueOnError)
	fs.SetOutput(stderr)

	defaultCfg := os.Getenv("PORTFOLIO_CONFIG")
	if defaultCfg == "" {
		defaultCfg = filepath.Join("config", "config.yml")
	}

	fs.StringVar(&f.configPath, "config", defaultCfg, "path to config.yml (created with defaults if missing)")
	fs.StringVar(&f.out, "out", "", "CSV output path (default report.output_path)")
	fs.BoolVar(&f.useMock, "use-mock", false, "skip scraping and use the built-in demo dataset")
	fs.BoolVar(&f.noFilter, "no-filter", false, "write every enriched company, no round or relevance filter")
	fs.BoolVar(&f.offline, "offline", false, "classify by keyword match instead of the remote model")
	fs.BoolVar(&f.healthcheck, "healthcheck", false, "check the model connection and exit")
	fs.BoolVar(&f.setAPIKey, "set-api-key", false, "read an API key from stdin and store it in the OS keychain")
	fs.BoolVar(&f.deleteAPIKey, "delete-api-key", false, "remove the stored API key from the OS keychain")
	fs.IntVar(&f.listRuns, "runs", 0, "list the N most recent runs from the history database and exit")
	fs.StringVar(&f.showRun, "show-run", "", "print the stored rows of one run as CSV and exit")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn, error (default $"+config.EnvLogLevel+" or config)")
	fs.StringVar(&f.logFormat, "log-format", "", "text or json (default config)")
	fs.DurationVar(&f.every, "every", 0, "re-run the report at this interval until interrupted (0 runs once)")

	err := fs.Parse(args)
	return f, err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	// .env is optional
	_ = godotenv.Load()

	cfgPath, err := config.EnsureUserConfig(f.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "config bootstrap failed: %v\n", err)
		return 1
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "config load failed (%s): %v\n", cfgPath, err)
		return 1
	}
	cfg, res := config.NormalizeAndValidate(cfg)
	if !res.OK() {
		fmt.Fprintf(stderr, "config invalid (%s):\n- %s\n", cfgPath, strings.Join(res.Errors, "\n- "))
		return 1
	}

	log := logging.InitWriter(logging.Config{
		Level:  logLevel(f.logLevel, cfg.Log.Level),
		Format: firstNonEmpty(f.logFormat, cfg.Log.Format),
	}, stderr)
	for _, w := range res.Warnings {
		log.Warn("[config] " + w)
	}

	switch {
	case f.setAPIKey:
		return setAPIKey(cfg, stdin, stdout, stderr)
	case f.deleteAPIKey:
		return deleteAPIKey(cfg, stdout, stderr)
	case f.healthcheck:
		return healthcheck(ctx, cfg, stdout)
	case f.listRuns > 0:
		return listRuns(ctx, cfg, f.listRuns, stdout, stderr)
	case f.showRun != "":
		return showRun(ctx, cfg, f.showRun, stdout, stderr)
	}

	defer func() { _ = llm.CloseDefault() }()

	opts := pipeline.Options{
		UseMock:    f.useMock,
		NoFilter:   f.noFilter,
		Offline:    f.offline,
		OutputPath: f.out,
	}
	report := func(ctx context.Context) error {
		result, err := pipeline.Run(ctx, cfg, opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote %d relevant companies to %s\n", result.Relevant, result.OutputPath)
		if result.Relevant == 0 {
			fmt.Fprintln(stdout, "No companies matched the filters. Try --use-mock for demo data.")
		}
		return nil
	}

	if f.every > 0 {
		log.Info("[engine] scheduled", "every", f.every.String())
		scheduler.Every(ctx, f.every, "report", report)
		return 0
	}

	if err := report(ctx); err != nil {
		log.Error("[engine] run failed", "err", err)
		return 1
	}
	return 0
}

// logLevel picks the flag, then $HITACHI_LOG_LEVEL, then the config value.
func logLevel(flagVal, cfgVal string) string {
	return firstNonEmpty(flagVal, os.Getenv(config.EnvLogLevel), cfgVal, config.DefaultLogLevel)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
