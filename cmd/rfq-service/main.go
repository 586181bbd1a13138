package main

import (
	"context"
	"fmt"
	"os"
	"time"

	rd "github.com/redis/go-redis/v9"

	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/auth"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/config"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/db"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/excel"
	httphandler "github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/http"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/http/middleware"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/logger"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/pdf"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/repository"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	store := repository.NewStore(database)
	directory := repository.NewDirectoryRepository(database)
	policy := service.OwnershipPolicy{}

	rfqService := service.NewRFQService(store, directory, policy, cfg, log)
	quoteService := service.NewQuoteService(store, directory, policy, cfg, log)
	reportService := service.NewReportService(store, policy, excel.NewGenerator(), pdf.NewGenerator())

	var rdb *rd.Client
	if cfg.Redis.Addr != "" {
		rdb = rd.NewClient(&rd.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, quote rate limiting degraded")
		}
		cancel()
		defer rdb.Close()
	}

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(rfqService, quoteService, reportService, log)
	authMiddleware := middleware.Auth(tokenParser)
	quoteLimiter := middleware.RateLimit(rdb, "quotes", cfg.RateLimit.QuoteLimit, cfg.RateLimit.QuoteWindow, log)
	router := httphandler.NewRouter(handler, authMiddleware, quoteLimiter, cfg, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting rfq service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
