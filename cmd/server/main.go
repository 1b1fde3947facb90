package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/lepaiper/pos/internal/audit"
	audithttp "github.com/lepaiper/pos/internal/audit/delivery/http"
	auditrepo "github.com/lepaiper/pos/internal/audit/repository"
	cataloghttp "github.com/lepaiper/pos/internal/catalog/delivery/http"
	catalogrepo "github.com/lepaiper/pos/internal/catalog/repository"
	clienthttp "github.com/lepaiper/pos/internal/client/delivery/http"
	clientrepo "github.com/lepaiper/pos/internal/client/repository"
	reporthttp "github.com/lepaiper/pos/internal/report/delivery/http"
	salehttp "github.com/lepaiper/pos/internal/sale/delivery/http"
	salerepo "github.com/lepaiper/pos/internal/sale/repository"
	"github.com/lepaiper/pos/internal/sale/usecase/command"
	settingshttp "github.com/lepaiper/pos/internal/settings/delivery/http"
	settingsrepo "github.com/lepaiper/pos/internal/settings/repository"
	userhttp "github.com/lepaiper/pos/internal/user/delivery/http"
	userdomain "github.com/lepaiper/pos/internal/user/domain"
	userrepo "github.com/lepaiper/pos/internal/user/repository"
	usercommand "github.com/lepaiper/pos/internal/user/usecase/command"
	"github.com/lepaiper/pos/kafka"
	"github.com/lepaiper/pos/pkg/database"
	"github.com/lepaiper/pos/pkg/logger"
	"github.com/lepaiper/pos/pkg/ratelimit"
	"github.com/lepaiper/pos/pkg/tracing"
)

const (
	loginMaxAttempts = 5
	loginWindow      = 15 * time.Minute
)

func main() {
	serviceName := getEnv("OTEL_SERVICE_NAME", "pos-backend")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"

	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		tracing.Shutdown(ctx, tp)
	}()

	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "posdb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	defer sqlDB.Close()

	// Repositories and migrations
	userRepo := userrepo.NewGormUserRepository(db)
	productRepo := catalogrepo.NewGormProductRepository(db)
	clientRepo := clientrepo.NewGormClientRepository(db)
	saleRepo := salerepo.NewGormSaleRepository(db)
	auditRepo := auditrepo.NewGormAuditRepository(db)
	settingsRepo := settingsrepo.NewGormSettingRepository(db)

	for _, migrate := range []func() error{
		userRepo.AutoMigrate,
		productRepo.AutoMigrate,
		clientRepo.AutoMigrate,
		saleRepo.AutoMigrate,
		auditRepo.AutoMigrate,
		settingsRepo.AutoMigrate,
	} {
		if err := migrate(); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	seedAdmin(userRepo)

	// Login rate limiting: Redis when configured, per-process otherwise
	var limiter ratelimit.Limiter
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
		limiter = ratelimit.NewRedisLimiter(redisClient, loginMaxAttempts, loginWindow)
		logger.Logger.Info().Str("addr", redisAddr).Msg("Using Redis login rate limiter")
	} else {
		limiter = ratelimit.NewMemoryLimiter(loginMaxAttempts, loginWindow)
		logger.Logger.Info().Msg("Using in-memory login rate limiter (single instance only)")
	}

	// Optional sale event publisher
	var publisher command.EventPublisher
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		kafkaPublisher, err := kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			log.Fatalf("Failed to create Kafka publisher: %v", err)
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	recorder := audit.NewRecorder(auditRepo)
	defer recorder.Close()

	// HTTP handlers
	mw := userhttp.NewMiddleware(userRepo)
	router := mux.NewRouter()

	userhttp.NewUserHandler(userRepo, limiter).RegisterRoutes(router, mw)
	cataloghttp.NewProductHandler(productRepo).RegisterRoutes(router, mw)
	clienthttp.NewClientHandler(clientRepo).RegisterRoutes(router, mw)
	salehttp.NewSaleHandler(saleRepo, recorder, publisher).RegisterRoutes(router, mw)
	reporthttp.NewReportHandler(saleRepo, productRepo, clientRepo).RegisterRoutes(router, mw)
	settingshttp.NewSettingsHandler(settingsRepo).RegisterRoutes(router, mw)
	audithttp.NewAuditHandler(auditRepo).RegisterRoutes(router, mw)

	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	httpPort := getEnv("HTTP_PORT", "8080")
	server := &http.Server{
		Addr:    ":" + httpPort,
		Handler: c.Handler(router),
	}

	go func() {
		logger.Logger.Info().Str("port", httpPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server shutdown failed")
	}
}

// seedAdmin creates the initial admin account on an empty user table
func seedAdmin(repo *userrepo.GormUserRepository) {
	count, err := repo.Count()
	if err != nil || count > 0 {
		return
	}

	handler := usercommand.NewRegisterUserHandler(repo)
	_, err = handler.Handle(usercommand.RegisterUserCommand{
		Name:     getEnv("ADMIN_NAME", "Admin"),
		Email:    getEnv("ADMIN_EMAIL", "admin@lepaiper.com"),
		Password: getEnv("ADMIN_PASSWORD", "lepaiper123"),
		Role:     userdomain.RoleAdmin,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to seed admin user")
		return
	}
	logger.Logger.Info().Msg("Seeded initial admin user")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
