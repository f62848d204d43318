package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"portfolio-engine/internal/config"
	"portfolio-engine/internal/llm"
	"portfolio-engine/internal/pipeline"
	"portfolio-engine/internal/report"
	"portfolio-engine/internal/secrets"
	"portfolio-engine/internal/store"
)

func setAPIKey(cfg config.Config, stdin io.Reader, stdout, stderr io.Writer) int {
	fmt.Fprintf(stdout, "Paste the API key for %q and press Enter: ", cfg.LLM.KeyringAccount)
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		fmt.Fprintf(stderr, "read key: %v\n", err)
		return 1
	}
	if err := secrets.SetAPIKey(cfg.LLM.KeyringAccount, strings.TrimSpace(line)); err != nil {
		fmt.Fprintf(stderr, "store key: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "\nAPI key stored in the OS keychain.")
	return 0
}

func healthcheck(ctx context.Context, cfg config.Config, stdout io.Writer) int {
	client := llm.Default(ctx, pipeline.LLMOptions(cfg))
	defer func() { _ = llm.CloseDefault() }()

	if client.Healthcheck(ctx) {
		fmt.Fprintln(stdout, "LLM healthcheck: OK")
		return 0
	}
	fmt.Fprintln(stdout, "LLM healthcheck: FAILED")
	return 1
}

func deleteAPIKey(cfg config.Config, stdout, stderr io.Writer) int {
	if err := secrets.DeleteAPIKey(cfg.LLM.KeyringAccount); err != nil {
		fmt.Fprintf(stderr, "delete key: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "API key removed from the OS keychain.")
	return 0
}

func openHistory(ctx context.Context, cfg config.Config, stderr io.Writer) (*store.DB, bool) {
	if cfg.Report.SQLitePath == "" {
		fmt.Fprintln(stderr, "run history is disabled (report.sqlite_path is empty)")
		return nil, false
	}
	db, err := store.Open(ctx, cfg.Report.SQLitePath)
	if err != nil {
		fmt.Fprintf(stderr, "open history: %v\n", err)
		return nil, false
	}
	return db, true
}

func listRuns(ctx context.Context, cfg config.Config, limit int, stdout, stderr io.Writer) int {
	db, ok := openHistory(ctx, cfg, stderr)
	if !ok {
		return 1
	}
	defer db.Close()

	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		fmt.Fprintf(stderr, "list runs: %v\n", err)
		return 1
	}
	if len(runs) == 0 {
		fmt.Fprintln(stdout, "No runs recorded.")
		return 0
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tSCRAPED\tRELEVANT\tMODE\tOUTPUT")
	for _, r := range runs {
		mode := "scrape"
		if r.UseMock {
			mode = "mock"
		}
		if r.NoFilter {
			mode += ",no-filter"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Scraped, r.Relevant, mode, r.OutputPath)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(stderr, "write: %v\n", err)
		return 1
	}
	return 0
}

func showRun(ctx context.Context, cfg config.Config, runID string, stdout, stderr io.Writer) int {
	db, ok := openHistory(ctx, cfg, stderr)
	if !ok {
		return 1
	}
	defer db.Close()

	rows, err := db.RunRows(ctx, runID)
	if err != nil {
		fmt.Fprintf(stderr, "load run: %v\n", err)
		return 1
	}

	w := csv.NewWriter(stdout)
	_ = w.Write(report.Header)
	for _, r := range rows {
		_ = w.Write([]string{r.CompanyName, r.Website, r.Description, r.Source, r.LastRound})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		fmt.Fprintf(stderr, "write: %v\n", err)
		return 1
	}
	return 0
}
