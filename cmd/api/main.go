package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dvloznov/dompet-cerdas/internal/advisor"
	"github.com/dvloznov/dompet-cerdas/internal/api/handlers"
	"github.com/dvloznov/dompet-cerdas/internal/api/middleware"
	"github.com/dvloznov/dompet-cerdas/internal/config"
	"github.com/dvloznov/dompet-cerdas/internal/ledger"
	"github.com/dvloznov/dompet-cerdas/internal/logger"
	"github.com/dvloznov/dompet-cerdas/internal/storage"
	"github.com/dvloznov/dompet-cerdas/internal/tracker"
)

func main() {
	log := logger.New()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	port := flag.String("port", cfg.Port, "HTTP server port")
	flag.Parse()

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	// Durable key-value substrate for the ledger.
	var kv storage.KV
	switch cfg.StorageBackend {
	case "memory":
		log.Warn().Msg("Using in-memory storage - ledger is lost on restart")
		kv = storage.NewMemoryKV()
	default:
		sqliteKV, err := storage.NewSQLiteKV(cfg.SQLiteDBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.SQLiteDBPath).Msg("Failed to open ledger database")
		}
		kv = sqliteKV
	}
	defer kv.Close()

	// Hydrate the ledger once; every later mutation persists synchronously.
	tr := tracker.New(ledger.NewStore(), storage.NewAdapter(kv, log), log)
	tr.Hydrate(ctx)

	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("No Gemini API key configured - advisory endpoints return fallback text")
	}
	gateway := advisor.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel, log)

	ledgerHandler := handlers.NewLedgerHandler(tr)
	categoriesHandler := handlers.NewCategoriesHandler()
	advisorHandler := handlers.NewAdvisorHandler(tr, gateway)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ledgerHandler.ListTransactions(w, r)
		case http.MethodPost:
			ledgerHandler.CreateTransaction(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
		if id == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Transaction ID is required")
			return
		}
		ledgerHandler.DeleteTransaction(w, r, id)
	})

	mux.HandleFunc("/api/summary", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			ledgerHandler.GetSummary(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/distribution", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			ledgerHandler.GetDistribution(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/balance", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			ledgerHandler.UpdateBalance(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/amount/preview", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			ledgerHandler.PreviewAmount(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			categoriesHandler.ListCategories(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/suggest", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			advisorHandler.SuggestCategory(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/advice", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			advisorHandler.GetAdvice(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(log)(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // advice calls wait on the model
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
}
