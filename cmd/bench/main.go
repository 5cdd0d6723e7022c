// Command bench sweeps a set of language models over a fixed question
// list and writes the timed answers to a spreadsheet.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raglab/docchat/internal/bootstrap"
	"github.com/raglab/docchat/internal/config"
	"github.com/raglab/docchat/internal/infrastructure/report"
	"github.com/raglab/docchat/internal/observability/logging"
)

func main() {
	planPath := flag.String("plan", "bench.yaml", "benchmark plan file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	log := logging.NewJSONLogger(os.Stderr, "bench", cfg.LogLevel)

	plan, err := config.LoadBenchPlan(*planPath)
	if err != nil {
		log.Error("benchmark plan invalid", "path", *planPath, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, log, "bench")
	if err != nil {
		log.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: app.Metrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting benchmark sweep",
		"models", len(plan.Models), "questions", len(plan.Questions), "output", plan.Output)

	start := time.Now()
	results := app.NewBenchmarkHarness().Run(ctx, plan.Models, plan.Questions)
	failed := 0
	for _, cell := range results {
		app.Metrics.CountBenchCell("bench", cell.Err != "")
		if cell.Err != "" {
			failed++
		}
	}

	if err := report.NewExcelWriter().Write(plan.Output, results); err != nil {
		log.Error("write results failed", "path", plan.Output, "error", err)
		os.Exit(1)
	}

	log.Info("benchmark sweep finished",
		"cells", len(results), "failed", failed,
		"duration_seconds", time.Since(start).Seconds(), "output", plan.Output)
}
