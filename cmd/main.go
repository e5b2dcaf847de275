package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-DeskBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-DeskBookingService/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/SMC-DeskBookingService/internal/api/handlers/delete_booking"
	getBookingHandler "github.com/m04kA/SMC-DeskBookingService/internal/api/handlers/get_booking"
	getDeskAvailabilityHandler "github.com/m04kA/SMC-DeskBookingService/internal/api/handlers/get_desk_availability"
	getPolicyHandler "github.com/m04kA/SMC-DeskBookingService/internal/api/handlers/get_policy"
	getUserBookingsHandler "github.com/m04kA/SMC-DeskBookingService/internal/api/handlers/get_user_bookings"
	updateBookingStatusHandler "github.com/m04kA/SMC-DeskBookingService/internal/api/handlers/update_booking_status"
	updatePolicyHandler "github.com/m04kA/SMC-DeskBookingService/internal/api/handlers/update_policy"
	"github.com/m04kA/SMC-DeskBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-DeskBookingService/internal/config"
	"github.com/m04kA/SMC-DeskBookingService/internal/infra/lock"
	bookingRepo "github.com/m04kA/SMC-DeskBookingService/internal/infra/storage/booking"
	deskRepo "github.com/m04kA/SMC-DeskBookingService/internal/infra/storage/desk"
	"github.com/m04kA/SMC-DeskBookingService/internal/infra/storage/migrations"
	policyRepo "github.com/m04kA/SMC-DeskBookingService/internal/infra/storage/policy"
	bookingsService "github.com/m04kA/SMC-DeskBookingService/internal/service/bookings"
	policyService "github.com/m04kA/SMC-DeskBookingService/internal/service/policy"
	"github.com/m04kA/SMC-DeskBookingService/internal/service/sweeper"
	createBookingUC "github.com/m04kA/SMC-DeskBookingService/internal/usecase/create_booking"
	getDeskAvailabilityUC "github.com/m04kA/SMC-DeskBookingService/internal/usecase/get_desk_availability"
	sweepStatusesUC "github.com/m04kA/SMC-DeskBookingService/internal/usecase/sweep_statuses"
	"github.com/m04kA/SMC-DeskBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DeskBookingService/pkg/logger"
	"github.com/m04kA/SMC-DeskBookingService/pkg/metrics"
	"github.com/m04kA/SMC-DeskBookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-DeskBookingService...")
	log.Info("Configuration loaded from config.toml (timezone=%s)", cfg.Booking.Location())

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции
	if cfg.Database.AutoMigrate {
		if err := migrations.Up(db, log); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	// Оборачиваем БД: с метриками запросов или без
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	policyRepository := policyRepo.NewRepository(wrappedDB)
	deskRepository := deskRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	clock := clockwork.NewRealClock()
	location := cfg.Booking.Location()

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		policyRepository,
		deskRepository,
		txMgr,
		clock,
		location,
		metricsCollector,
		log,
	)

	getDeskAvailabilityUseCase := getDeskAvailabilityUC.NewUseCase(
		bookingRepository,
		policyRepository,
		deskRepository,
		location,
		log,
	)

	sweepStatusesUseCase := sweepStatusesUC.NewUseCase(
		bookingRepository,
		txMgr,
		metricsCollector,
		log,
	)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		txMgr,
		clock,
		location,
		log,
	)
	policySvc := policyService.NewService(
		policyRepository,
		txMgr,
		log,
	)

	// Фоновый перевод статусов
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	var sweeperWG sync.WaitGroup

	var redisClient *redis.Client
	if cfg.Sweeper.Enabled {
		var opts []sweeper.Option

		if cfg.Sweeper.LockEnabled {
			redisClient, err = lock.NewRedisClient(sweeperCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				log.Fatal("Failed to connect to redis: %v", err)
			}
			opts = append(opts, sweeper.WithLocker(lock.NewRedisLocker(redisClient, cfg.Sweeper.LockKey)))
			log.Info("Sweeper lock enabled (redis=%s, key=%s)", cfg.Redis.Addr, cfg.Sweeper.LockKey)
		}

		statusSweeper := sweeper.NewSweeper(
			sweepStatusesUseCase,
			clock,
			cfg.Sweeper.Interval.Duration,
			metricsCollector,
			log,
			opts...,
		)

		sweeperWG.Add(1)
		go func() {
			defer sweeperWG.Done()
			statusSweeper.Run(sweeperCtx)
		}()
	} else {
		log.Warn("Sweeper disabled: statuses will not advance automatically")
	}

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getDeskAvailability := getDeskAvailabilityHandler.NewHandler(getDeskAvailabilityUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	getPolicy := getPolicyHandler.NewHandler(policySvc, log)
	updatePolicy := updatePolicyHandler.NewHandler(policySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Занятость стола на день
	api.HandleFunc("/desks/{deskId}/availability", getDeskAvailability.Handle).Methods(http.MethodGet)

	// Активная политика бронирования
	api.HandleFunc("/policy", getPolicy.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (требуют X-User-Role: admin)
	// ============================================================

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)

	// Ручная смена статуса
	admin.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// Удаление бронирования
	admin.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)

	// Обновление политики бронирования
	admin.HandleFunc("/policy", updatePolicy.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем sweeper и ждём завершения текущего прохода
	stopSweeper()
	sweeperWG.Wait()

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn("Failed to close redis client: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
