package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "luxera/docs"
	"luxera/internal/config"
	"luxera/internal/handlers"
	"luxera/internal/logger"
	"luxera/internal/middleware"
	"luxera/internal/pdf"
	"luxera/internal/repositories"
	"luxera/internal/routes"
	"luxera/internal/services"
	"luxera/internal/session"
	"luxera/migrations"
)

func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.NewLogger("luxera-api", cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === DB ===
	db, err := repositories.Open(ctx, cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()
	if cfg.Database.AutoMigrate {
		if err := migrations.Migrate(db.DB); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
	}

	// === Sessions ===
	store, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	sessions := session.NewManager(store, session.Options{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	}, log)

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	resetRepo := repositories.NewPasswordResetRepository(db)

	// === Delivery ===
	mailer, err := services.NewMailer(ctx, cfg.Email, log)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	sms, err := services.NewSMSSender(cfg.SMS, cfg.Reset.DeliveryTimeout, log)
	if err != nil {
		return fmt.Errorf("sms sender: %w", err)
	}

	// Telegram-алерты опциональны
	var alerts services.Alerter = services.NopAlerter{}
	if cfg.Telegram.BotToken != "" && cfg.Telegram.OpsChatID != 0 {
		tg, err := services.NewTelegramAlerter(cfg.Telegram.BotToken, cfg.Telegram.OpsChatID, log)
		if err != nil {
			log.Warn().Err(err).Msg("telegram alerts disabled")
		} else {
			alerts = tg
			defer tg.Wait()
		}
	}

	// === Services ===
	authService := services.NewAuthService()
	userService := services.NewUserService(userRepo, authService, mailer,
		services.TokenOptions{
			Secret:     []byte(cfg.Auth.JWTSecret),
			AccessTTL:  cfg.Auth.AccessTTL,
			RefreshTTL: cfg.Auth.RefreshTTL,
		},
		services.UserOptions{Brand: cfg.Brand, DefaultCountryCode: cfg.Reset.DefaultCountryCode},
		log)
	resetService := services.NewPasswordResetService(userRepo, resetRepo, authService,
		services.CodeSenders{
			Email: services.NewEmailCodeSender(mailer, cfg.Brand),
			SMS:   services.NewSMSCodeSender(sms, cfg.Brand),
		},
		alerts,
		services.ResetOptions{
			Cooldown:               cfg.Reset.Cooldown,
			CodeTTL:                cfg.Reset.CodeTTL,
			DeliveryTimeout:        cfg.Reset.DeliveryTimeout,
			CodePepper:             cfg.Reset.CodePepper,
			DefaultCountryCode:     cfg.Reset.DefaultCountryCode,
			ConcealUnknownAccounts: cfg.Reset.ConcealUnknownAccounts,
		},
		log)
	reportService := services.NewReportService(resetRepo, pdf.NewReportGenerator(cfg.Reports.FontPath), cfg.Brand)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService)
	resetHandler := handlers.NewPasswordResetHandler(resetService, sessions)
	userHandler := handlers.NewUserHandler(userService)
	reportHandler := handlers.NewReportHandler(reportService)
	systemHandler := handlers.NewSystemHandler(db, sessions)

	// === Gin ===
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(log))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg.Server.AllowOrigins))

	// Swagger
	if !cfg.IsProduction() {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	routes.SetupRoutes(
		router,
		[]byte(cfg.Auth.JWTSecret),
		sessions,
		userService,
		authHandler,
		resetHandler,
		userHandler,
		reportHandler,
		systemHandler,
	)

	// === Background ===
	var wg sync.WaitGroup
	if cfg.Reaper.Enabled {
		reaper := services.NewReaper(resetRepo, cfg.Reaper.Interval, cfg.Reaper.Retention, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			reaper.Run(ctx)
		}()
	}

	// === Run ===
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			stop()
			wg.Wait()
			return fmt.Errorf("listen: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	wg.Wait()
	log.Info().Msg("server stopped")
	return nil
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	if cfg.Session.Store == "memory" {
		return session.NewMemoryStore(), func() {}, nil
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{cfg.Redis.Addr},
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	store, err := session.NewRedisStore(client)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return store, func() { _ = client.Close() }, nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: len(origins) > 0,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return cors.New(c)
}
