package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kanchNaik/AiMockInterviewer/internal/config"
	"github.com/kanchNaik/AiMockInterviewer/internal/httpapi"
	"github.com/kanchNaik/AiMockInterviewer/internal/interview"
	"github.com/kanchNaik/AiMockInterviewer/internal/llm"
	"github.com/kanchNaik/AiMockInterviewer/internal/observability"
	"github.com/kanchNaik/AiMockInterviewer/internal/slots"
	"github.com/kanchNaik/AiMockInterviewer/internal/transcript"
)

func main() {
	// A missing .env is fine; the environment may be set by the runtime.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	store, err := transcript.NewStore(ctx, cfg.DatabaseURL, cfg.SessionIdleTimeout)
	if err != nil {
		log.Fatalf("transcript store init failed: %v", err)
	}
	defer store.Close()

	gateway, err := llm.New(cfg.LLMMode, llm.OpenAIConfig{
		APIKey:         cfg.OpenAIAPIKey,
		BaseURL:        cfg.OpenAIBaseURL,
		Model:          cfg.OpenAIModel,
		Timeout:        cfg.LLMRequestTimeout,
		MaxRetries:     cfg.LLMMaxRetries,
		ObserveLatency: metrics.ObserveGatewayLatency,
		OnRetry:        metrics.GatewayRetries.Inc,
	})
	if err != nil {
		log.Fatalf("llm gateway init failed: %v", err)
	}
	if _, isMock := gateway.(*llm.MockClient); isMock {
		log.Printf("llm gateway: mock (no OPENAI_API_KEY configured)")
	} else {
		log.Printf("llm gateway: openai model %s", cfg.OpenAIModel)
	}

	controller := interview.NewController(store, gateway)

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	if mem, ok := store.(*transcript.InMemoryStore); ok {
		mem.SetExpireHook(func(string) {
			metrics.SessionEvents.WithLabelValues("expired").Inc()
			metrics.ActiveSessions.Set(float64(mem.ActiveCount()))
		})
		mem.StartJanitor(runCtx, 30*time.Second)
	}

	api := httpapi.New(cfg, controller, slots.NewExtractor(), store, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
