package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/itccompliance/order-inventory/internal/config"
	"github.com/itccompliance/order-inventory/internal/fulfilment"
	"github.com/itccompliance/order-inventory/internal/messaging"
	"github.com/itccompliance/order-inventory/internal/orders"
	"github.com/itccompliance/order-inventory/internal/products"
	"github.com/itccompliance/order-inventory/internal/telemetry"
)

const serviceVersion = "0.1.0"

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	if cfg.PostgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.ServiceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(cfg.ServiceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(time.Second)); err != nil {
		logger.Error("failed to start runtime instrumentation", "error", err)
		os.Exit(1)
	}

	db, err := telemetry.OpenDB("postgres", cfg.PostgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var createdProducer, fulfilledProducer *messaging.Producer
	if len(cfg.KafkaBrokers) > 0 {
		createdProducer = messaging.NewProducer(cfg.KafkaBrokers, messaging.TopicOrderCreated)
		defer func() { _ = createdProducer.Close() }()
		fulfilledProducer = messaging.NewProducer(cfg.KafkaBrokers, messaging.TopicOrderFulfilled)
		defer func() { _ = fulfilledProducer.Close() }()
	}

	productRepo := products.NewRepository(db)
	orderRepo := orders.NewRepository(db)

	worker, err := fulfilment.New(orderRepo, fulfilledProducer, logger,
		fulfilment.WithWorkerCount(cfg.FulfilmentWorkers),
		fulfilment.WithDelayRange(cfg.FulfilmentMinDelay, cfg.FulfilmentMaxDelay),
	)
	if err != nil {
		logger.Error("failed to create fulfilment worker", "error", err)
		os.Exit(1)
	}
	worker.Start(ctx)

	productService := products.NewService(productRepo)
	orderService, err := orders.NewService(orderRepo, worker, createdProducer, logger)
	if err != nil {
		logger.Error("failed to create order service", "error", err)
		os.Exit(1)
	}

	productHandler := products.NewHandler(productService, logger)
	orderHandler := orders.NewHandler(orderService, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /products", telemetry.WithHTTPRoute(productHandler.HandleCreate))
	mux.HandleFunc("GET /products/low-stock", telemetry.WithHTTPRoute(productHandler.HandleLowStock))
	mux.HandleFunc("GET /products/{sku}", telemetry.WithHTTPRoute(productHandler.HandleGet))
	mux.HandleFunc("PATCH /products/{sku}", telemetry.WithHTTPRoute(productHandler.HandleUpdate))
	mux.HandleFunc("POST /orders", telemetry.WithHTTPRoute(orderHandler.HandleCreate))
	mux.HandleFunc("GET /orders", telemetry.WithHTTPRoute(orderHandler.HandleList))
	mux.HandleFunc("GET /orders/{id}", telemetry.WithHTTPRoute(orderHandler.HandleGet))
	mux.Handle("GET /metrics", metricsHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: otelhttp.NewHandler(mux, cfg.ServiceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	// Let queued fulfilments finish before the process exits.
	worker.Close()
}
