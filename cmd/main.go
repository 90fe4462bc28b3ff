package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"shopchat/backend/internal/api/handler"
	"shopchat/backend/internal/chathub"
	"shopchat/backend/internal/config"
	"shopchat/backend/internal/history"
	"shopchat/backend/internal/storage"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

func main() {
	log.Println("Starting shop support chat backend...")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. БД та присутність у Redis
	db, err := storage.OpenDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	rdb, err := storage.OpenRedis(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}
	if rdb == nil {
		log.Println("INFO: REDIS_ADDR not set, presence mirror disabled")
	}

	s := storage.NewStorageService(db, rdb)
	if err := s.ClearPresence(ctx); err != nil {
		log.Printf("WARN: could not reset presence mirror: %v", err)
	}
	log.Printf("Database (%s) ready, migrations complete.", cfg.DBDriver)

	// 2. Relay (реєстр з'єднань + маршрутизатор)
	registry := chathub.NewRegistry()
	registry.SetOnChange(func(key chathub.Key, online bool) {
		pctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.SetPresence(pctx, key.Role, key.ConversationID, online); err != nil {
			log.Printf("WARN: presence update for %s failed: %v", key, err)
		}
	})

	router := chathub.NewRouter(registry, s)
	router.StoreTimeout = cfg.StoreTimeout

	// 3. Налаштування Gin та роутингу
	h := handler.NewHandler(registry, router, history.NewService(s), s, cfg.AllowedOrigins, cfg.AdminTokenSecret)
	if cfg.AdminTokenSecret == "" {
		log.Println("WARN: ADMIN_TOKEN_SECRET not set, admin connections are not authenticated")
	}

	r := gin.Default()
	h.RegisterRoutes(r)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	// Без WriteTimeout: WebSocket-з'єднання довготривалі й мають власні дедлайни.
	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           corsHandler.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		log.Printf("Listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: graceful shutdown failed: %v", err)
	}
	if rdb != nil {
		if err := s.ClearPresence(shutdownCtx); err != nil {
			log.Printf("WARN: could not clear presence mirror: %v", err)
		}
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
