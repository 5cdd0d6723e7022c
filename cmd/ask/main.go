// Command ask answers a single question against the document corpus
// and prints the answer with its cited sources.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raglab/docchat/internal/bootstrap"
	"github.com/raglab/docchat/internal/config"
	"github.com/raglab/docchat/internal/observability/logging"
)

func main() {
	question := flag.String("q", "", "question to answer")
	flag.Parse()
	if *question == "" {
		fmt.Fprintln(os.Stderr, "usage: ask -q \"your question\"")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	log := logging.NewJSONLogger(os.Stderr, "ask", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, log, "ask")
	if err != nil {
		log.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	start := time.Now()
	answer, err := app.Query.Answer(ctx, *question)
	app.Metrics.ObserveAnswer("ask", "single", time.Since(start), err)
	if err != nil {
		log.Error("answer failed", "error", err)
		os.Exit(1)
	}
	app.Metrics.ObserveRetrieval(len(answer.Sources))

	fmt.Println(answer.Text)
	if len(answer.Citations) > 0 {
		fmt.Println("\nSources:")
		for i := 1; i <= len(answer.Citations); i++ {
			citation := answer.Citations[i]
			if citation.Page > 0 {
				fmt.Printf("  [doc%d] %s (page %d)\n", i, citation.Source, citation.Page)
			} else {
				fmt.Printf("  [doc%d] %s\n", i, citation.Source)
			}
		}
	}
}
