package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"quizfit/docs"
	"quizfit/internal/auth"
	"quizfit/internal/cache"
	"quizfit/internal/config"
	"quizfit/internal/db"
	"quizfit/internal/handler"
	"quizfit/internal/logger"
	"quizfit/internal/repository"
	"quizfit/internal/router"
	"quizfit/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Quizfit API
// @version 1.0
// @description Quizzes, registration and token-guarded member check-ins.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey TokenAuth
// @in header
// @name Authorization
// @description The access token returned by /register or /login, sent as-is.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFile)
	slog.SetDefault(log)

	gormDB, err := db.New(cfg)
	if err != nil {
		log.Error("database init", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		log.Error("auto-migrate", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if cacheClient == nil {
		log.Info("redis not configured, caching disabled")
	} else if err := cacheClient.Ping(ctx); err != nil {
		log.Warn("redis unreachable, continuing without cache hits", "addr", cfg.RedisAddr, "error", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	memberRepo := repository.NewMemberRepository(gormDB)
	quizRepo := repository.NewQuizRepository(gormDB)

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		auth.NewBcryptHasher(cfg.BcryptCost),
		auth.NewTokenIssuer(),
		auth.NewTokenStore(cacheClient),
	)
	memberService := service.NewMemberService(memberRepo, cfg.MembersLimit)
	quizService := service.NewQuizService(quizRepo, cacheClient)

	e := echo.New()
	router.Register(
		e,
		log,
		handler.NewGuard(authService),
		handler.NewAuthHandler(authService),
		handler.NewMemberHandler(memberService),
		handler.NewQuizHandler(quizService),
	)

	if cfg.SwaggerHost != "" {
		host := strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
		docs.SwaggerInfo.Host = host
		if strings.HasPrefix(cfg.SwaggerHost, "https://") {
			docs.SwaggerInfo.Schemes = []string{"https"}
		}
	} else {
		docs.SwaggerInfo.Host = "localhost:" + cfg.ServerPort
	}
	log.Info("swagger documentation available", "url", docs.SwaggerInfo.Schemes[0]+"://"+docs.SwaggerInfo.Host+"/swagger/index.html")

	e.Server.ReadTimeout = cfg.ServerReadTimeout
	e.Server.WriteTimeout = cfg.ServerWriteTimeout

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("server starting", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server start", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}
}
