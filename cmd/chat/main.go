// Command chat runs an interactive conversational session over the
// document corpus. Type "exit" or "quit" to leave.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/raglab/docchat/internal/bootstrap"
	"github.com/raglab/docchat/internal/config"
	"github.com/raglab/docchat/internal/observability/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	log := logging.NewJSONLogger(os.Stderr, "chat", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, log, "chat")
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

	session := app.NewChatSession()
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Println("Ask a question (exit/quit to leave):")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		start := time.Now()
		turn, err := session.Ask(ctx, question)
		app.Metrics.ObserveAnswer("chat", "session", time.Since(start), err)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Error("turn failed", "error", err)
			fmt.Println("Something went wrong, try again.")
			continue
		}
		app.Metrics.ObserveRetrieval(len(turn.Citations))

		fmt.Println(turn.Answer)
		for i := 1; i <= len(turn.Citations); i++ {
			citation := turn.Citations[i]
			if citation.Page > 0 {
				fmt.Printf("  [source%d] %s (page %d)\n", i, citation.Source, citation.Page)
			} else {
				fmt.Printf("  [source%d] %s\n", i, citation.Source)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error("stdin read failed", "error", err)
	}
}
