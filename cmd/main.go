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

	assignGateDateHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/assign_gate_date"
	assignGateSlotHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/assign_gate_slot"
	cancelReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/cancel_reservation"
	closureStatusHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/closure_status"
	createClosureHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_closure"
	createGateHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_gate"
	createReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_reservation"
	createSlotHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_slot"
	deleteClosureHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/delete_closure"
	deleteSlotHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/delete_slot"
	listClosuresHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/list_closures"
	listGatesHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/list_gates"
	listSlotsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/list_slots"
	previewPaymentHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/preview_payment"
	unassignGateDateHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/unassign_gate_date"
	unassignGateSlotHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/unassign_gate_slot"
	updateSlotHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_slot"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/config"
	closureRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/closure"
	gateRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/gate"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
	paymentServiceClient "github.com/m04kA/SMC-ReservationService/internal/integrations/paymentservice"
	closuresService "github.com/m04kA/SMC-ReservationService/internal/service/closures"
	gatesService "github.com/m04kA/SMC-ReservationService/internal/service/gates"
	reservationsService "github.com/m04kA/SMC-ReservationService/internal/service/reservations"
	slotsService "github.com/m04kA/SMC-ReservationService/internal/service/slots"
	createReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	previewPaymentUC "github.com/m04kA/SMC-ReservationService/internal/usecase/preview_payment"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// TxManager объединяет режимы транзакций, нужные сервисам и usecases.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

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

	log.Info("Starting SMC-ReservationService...")
	log.Info("Configuration loaded from config.toml")

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

	// Инициализируем клиента платёжного сервиса
	paymentClient := paymentServiceClient.NewClient(
		cfg.PaymentService.URL,
		time.Duration(cfg.PaymentService.Timeout)*time.Second,
		log,
	)
	log.Info("Payment service client initialized (url=%s, timeout=%ds)",
		cfg.PaymentService.URL, cfg.PaymentService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		slotRepository        *slotRepo.Repository
		closureRepository     *closureRepo.Repository
		gateRepository        *gateRepo.Repository
		reservationRepository *reservationRepo.Repository
		txMgr                 TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		slotRepository = slotRepo.NewRepository(wrappedDB)
		closureRepository = closureRepo.NewRepository(wrappedDB)
		gateRepository = gateRepo.NewRepository(wrappedDB)
		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		slotRepository = slotRepo.NewRepository(db)
		closureRepository = closureRepo.NewRepository(db)
		gateRepository = gateRepo.NewRepository(db)
		reservationRepository = reservationRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	slotSvc := slotsService.NewService(slotRepository, gateRepository, reservationRepository, txMgr, log)
	closureSvc := closuresService.NewService(closureRepository, log)
	gateSvc := gatesService.NewService(gateRepository, slotRepository, txMgr, log)
	reservationSvc := reservationsService.NewService(reservationRepository, log)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		slotSvc,
		gateSvc,
		paymentClient,
		txMgr,
		cfg.Reservations.MaxPeopleCount,
		log,
	)
	previewPaymentUseCase := previewPaymentUC.NewUseCase(slotSvc, gateSvc, log)

	// Инициализируем handlers
	createSlot := createSlotHandler.NewHandler(slotSvc, log)
	updateSlot := updateSlotHandler.NewHandler(slotSvc, log)
	deleteSlot := deleteSlotHandler.NewHandler(slotSvc, log)
	listSlots := listSlotsHandler.NewHandler(slotSvc, log)
	createClosure := createClosureHandler.NewHandler(closureSvc, log)
	listClosures := listClosuresHandler.NewHandler(closureSvc, log)
	deleteClosure := deleteClosureHandler.NewHandler(closureSvc, log)
	closureStatus := closureStatusHandler.NewHandler(closureSvc, log)
	createGate := createGateHandler.NewHandler(gateSvc, log)
	listGates := listGatesHandler.NewHandler(gateSvc, log)
	assignGateSlot := assignGateSlotHandler.NewHandler(gateSvc, log)
	assignGateDate := assignGateDateHandler.NewHandler(gateSvc, log)
	unassignGateSlot := unassignGateSlotHandler.NewHandler(gateSvc, log)
	unassignGateDate := unassignGateDateHandler.NewHandler(gateSvc, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	previewPayment := previewPaymentHandler.NewHandler(previewPaymentUseCase, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Расписание слотов
	api.HandleFunc("/slots", listSlots.Handle).Methods(http.MethodGet)

	// Статус закрытия заведения на момент времени
	api.HandleFunc("/closures/status", closureStatus.Handle).Methods(http.MethodGet)

	// Создание бронирования
	api.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// Предпросмотр платёжного шага
	api.HandleFunc("/reservations/payment-preview", previewPayment.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Слоты ---
	protected.HandleFunc("/slots", createSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{slotId}", updateSlot.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/slots/{slotId}", deleteSlot.Handle).Methods(http.MethodDelete)

	// --- Окна закрытия ---
	protected.HandleFunc("/closures", createClosure.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/closures", listClosures.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/closures/{closureId}", deleteClosure.Handle).Methods(http.MethodDelete)

	// --- Платёжные группы и их привязки ---
	protected.HandleFunc("/gates", createGate.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/gates", listGates.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/gates/{gateId}/slots", assignGateSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/gates/{gateId}/dates", assignGateDate.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{slotId}/gate", unassignGateSlot.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/slots/{slotId}/gate-dates/{date}", unassignGateDate.Handle).Methods(http.MethodDelete)

	// --- Бронирования ---
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Запускаем сервер в отдельной горутине
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
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed: %v", err)
	}

	log.Info("Server stopped")
}
