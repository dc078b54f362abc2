package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/web3-frozen/defi-radar/internal/cache"
	"github.com/web3-frozen/defi-radar/internal/config"
	"github.com/web3-frozen/defi-radar/internal/handler"
	"github.com/web3-frozen/defi-radar/internal/middleware"
	"github.com/web3-frozen/defi-radar/internal/source"
	"github.com/web3-frozen/defi-radar/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database connected and migrated")

	// Redis response cache (retry up to 30s for ExternalSecret to sync)
	var rc *cache.Cache
	for i := 0; i < 6; i++ {
		rc, err = cache.New(cfg.RedisURL, cfg.RedisPassword)
		if err == nil {
			break
		}
		logger.Warn("redis not ready, retrying...", "attempt", i+1, "error", err)
		time.Sleep(5 * time.Second)
	}
	if err != nil {
		logger.Error("failed to connect to redis after retries", "error", err)
		os.Exit(1)
	}
	defer rc.Close()
	logger.Info("redis connected for response cache")

	// Upstream clients share one bounded-timeout http.Client.
	httpClient := source.NewHTTPClient()
	llama := source.NewDefiLlama(httpClient)
	hub := source.NewSnapshotHub(httpClient)
	scan := source.NewEtherscan(httpClient, cfg.EtherscanAPIKey, cfg.EtherscanAddress)
	dune := source.NewDune(httpClient, cfg.DuneAPIKey, cfg.DuneQueryID)
	graph := source.NewGraph(httpClient)
	tenderly := source.NewTenderly(httpClient, cfg.TenderlyAccessKey)

	// Ingestion pipelines
	yieldPipe := handler.NewYieldPipeline(httpClient, llama.PoolsURL, db.ReplaceYieldPools, rc, logger)
	riskPipe := handler.NewRiskMetricPipeline(httpClient, llama.ProtocolsURL, db.ReplaceRiskMetrics, rc, logger)
	scorePipe := handler.NewRiskScorePipeline(httpClient, llama.ProtocolsURL, db.ReplaceRiskScores, rc, logger)

	// HTTP routes
	r := chi.NewRouter()
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.FrontendOrigin))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", handler.Health())
	r.Get("/readyz", handler.Ready(db))

	r.Get("/fetch-yield/", handler.FetchYield(yieldPipe))
	r.Get("/yield-data/", handler.GetYieldData(db, rc))
	r.Get("/fetch-governance/", handler.FetchGovernance(hub, db, rc, logger))
	r.Get("/governance-data/", handler.GetGovernanceData(db, rc))
	r.Get("/fetch-risk/", handler.FetchRiskMetrics(riskPipe))
	r.Get("/risk-metrics/", handler.GetRiskMetrics(db, rc))
	r.Get("/fetch-risk-scores/", handler.FetchRiskScores(scorePipe))
	r.Get("/risk-scores/", handler.GetRiskScores(db, rc))
	r.Get("/fetch-on-chain/", handler.FetchOnChain(dune, llama, scan, db, rc, logger))
	r.Get("/on-chain-data/", handler.GetOnChainData(db, rc))
	r.Get("/fetch-technical/", handler.FetchTechnical(graph, scan, tenderly, cfg.EtherscanAddress, db, rc, logger))
	r.Get("/technical-data/", handler.GetTechnicalData(db, rc))
	r.Post("/simulate-vote/", handler.SimulateVote(db))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down gracefully")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
