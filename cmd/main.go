package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	closeAllocationHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/close_allocation"
	getAllocationHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_allocation"
	getAllocationCostHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_allocation_cost"
	getFacilityAllocationsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_facility_allocations"
	getPricesHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_prices"
	getSpotsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_spots"
	openAllocationHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/open_allocation"
	updatePricesHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/update_prices"
	updateSpotsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/update_spots"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/config"
	allocationsService "github.com/m04kA/SMC-ParkingService/internal/service/allocations"
	capacityService "github.com/m04kA/SMC-ParkingService/internal/service/capacity"
	facilitiesService "github.com/m04kA/SMC-ParkingService/internal/service/facilities"
	closeAllocationUC "github.com/m04kA/SMC-ParkingService/internal/usecase/close_allocation"
	openAllocationUC "github.com/m04kA/SMC-ParkingService/internal/usecase/open_allocation"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
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

	log.Info("Starting SMC-ParkingService...")
	log.Info("Configuration loaded from config.toml")

	billingLocation, err := cfg.Billing.Location()
	if err != nil {
		log.Fatal("Invalid billing timezone %q: %v", cfg.Billing.Timezone, err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилище
	var repos *repositories

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		repos = newMemoryRepositories()
		log.Warn("Using in-memory storage: data is lost on restart")

	default:
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

		repos = newPostgresRepositories(cfg, db, metricsCollector, stopMetricsCh)
		if metricsCollector != nil {
			log.Info("Database metrics collection started")
		}
	}

	// Инициализируем сервисы
	capacitySvc := capacityService.NewService(
		repos.inventory,
		repos.reservations,
		repos.txManager,
		log,
	)
	facilitiesSvc := facilitiesService.NewService(
		repos.prices,
		repos.inventory,
		repos.txManager,
		log,
	)
	allocationsSvc := allocationsService.NewService(
		repos.allocations,
		repos.prices,
		billingLocation,
		cfg.Billing.CurrencySymbol,
		log,
	)

	// Инициализируем use cases
	openAllocationUseCase := openAllocationUC.NewUseCase(
		repos.allocations,
		repos.prices,
		capacitySvc,
		metricsCollector,
		log,
	)
	closeAllocationUseCase := closeAllocationUC.NewUseCase(
		repos.allocations,
		repos.prices,
		capacitySvc,
		repos.txManager,
		metricsCollector,
		billingLocation,
		log,
	)

	// Инициализируем handlers
	getPrices := getPricesHandler.NewHandler(facilitiesSvc, log)
	updatePrices := updatePricesHandler.NewHandler(facilitiesSvc, log)
	getSpots := getSpotsHandler.NewHandler(facilitiesSvc, log)
	updateSpots := updateSpotsHandler.NewHandler(facilitiesSvc, log)
	openAllocation := openAllocationHandler.NewHandler(openAllocationUseCase, log)
	closeAllocation := closeAllocationHandler.NewHandler(closeAllocationUseCase, cfg.Billing.CurrencySymbol, log)
	getAllocation := getAllocationHandler.NewHandler(allocationsSvc, log)
	getAllocationCost := getAllocationCostHandler.NewHandler(allocationsSvc, log)
	getFacilityAllocations := getFacilityAllocationsHandler.NewHandler(allocationsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
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

	// Тариф парковки
	api.HandleFunc("/facilities/{facilityId}/prices", getPrices.Handle).Methods(http.MethodGet)

	// Свободные места по категориям
	api.HandleFunc("/facilities/{facilityId}/spots", getSpots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Настройка парковки ---
	protected.HandleFunc("/facilities/{facilityId}/prices", updatePrices.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/facilities/{facilityId}/spots", updateSpots.Handle).Methods(http.MethodPut)

	// --- Аллокации ---
	// Въезд
	protected.HandleFunc("/allocations", openAllocation.Handle).Methods(http.MethodPost)

	// Аллокация с текущей стоимостью
	protected.HandleFunc("/allocations/{allocationId}", getAllocation.Handle).Methods(http.MethodGet)

	// Текущая стоимость
	protected.HandleFunc("/allocations/{allocationId}/cost", getAllocationCost.Handle).Methods(http.MethodGet)

	// Выезд
	protected.HandleFunc("/allocations/{allocationId}/close", closeAllocation.Handle).Methods(http.MethodPatch)

	// Аллокации парковки
	protected.HandleFunc("/facilities/{facilityId}/allocations", getFacilityAllocations.Handle).Methods(http.MethodGet)

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

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
