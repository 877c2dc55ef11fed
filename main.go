package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lakecity/cart"
	"lakecity/checkout"
	"lakecity/config"
	"lakecity/db"
	"lakecity/logging"
	"lakecity/metrics"
	"lakecity/middleware"
	"lakecity/mq"
	"lakecity/notify"
	"lakecity/orders"
	"lakecity/products"
	"lakecity/ratelim"
	"lakecity/rdx"
	"lakecity/receipt"
	"lakecity/routes"
	"lakecity/telemetry"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const Version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}

	cmd := &cobra.Command{
		Use:   "lakecity",
		Short: "Lake City Fish menu, cart and pickup ordering server",
		RunE:  serve.RunE,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")

	cmd.AddCommand(serve)
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("lakecity version %s\n", Version)
		},
	})
	return cmd
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	shutdownTracing, err := telemetry.Setup(cfg.Trace.Stdout)
	if err != nil {
		return err
	}

	ctx := context.Background()

	var redisConn *redis.Client
	if cfg.Redis.Addr != "" {
		redisConn, err = rdx.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer redisConn.Close()
		log.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
	}

	var events mq.Emitter = mq.LogEmitter{Log: log}
	if redisConn != nil {
		events = mq.NewRedisEmitter(redisConn, log)
	}

	var store orders.Store
	switch cfg.Orders.Store {
	case config.StoreMongo:
		mongo, err := db.Connect(ctx, cfg.Orders.MongoURI, cfg.Orders.MongoDB)
		if err != nil {
			return err
		}
		defer func() { _ = mongo.Close(context.Background()) }()
		ms := orders.NewMongoStore(mongo.OrdersCollection)
		if err := ms.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("create order indexes: %w", err)
		}
		store = ms
	default:
		store = orders.NewFileStore(cfg.OrdersPath())
	}
	store = orders.Observed{Store: store, Events: events, Kind: cfg.Orders.Store}
	log.Info("order store ready", zap.String("store", cfg.Orders.Store))

	var catalog products.Catalog = products.NewFileReader(cfg.ProductsPath())
	if cfg.Catalog.Watch {
		cached, err := products.NewCachedReader(products.NewFileReader(cfg.ProductsPath()), log)
		if err != nil {
			log.Warn("catalog watch disabled", zap.Error(err))
		} else {
			defer cached.Close()
			catalog = cached
		}
	}

	var sessions cart.Sessions
	if cfg.Cart.Store == config.StoreRedis {
		sessions = cart.NewRedisSessions(redisConn, cfg.Cart.SessionTTL, log)
	} else {
		sessions = cart.NewMemorySessions(cfg.Cart.SessionTTL)
	}

	receipts, err := receipt.NewRenderer(cfg.ReceiptLogoPath())
	if err != nil {
		log.Warn("receipt logo disabled", zap.Error(err))
		receipts = &receipt.Renderer{}
	}
	orderHandler := orders.NewHandler(store, log)
	orderHandler.Receipts = receipts

	mailer := notify.NewLogSender(log)
	svc := checkout.NewService(store, mailer, log)

	router := routes.RoutesWrapper(routes.Handlers{
		Products: products.NewHandler(catalog, log),
		Cart:     cart.NewHandler(sessions, catalog, log),
		Orders:   orderHandler,
		Checkout: checkout.NewHandler(svc, sessions, log),
		Notify:   notify.NewHandler(mailer, log),
		Sessions: middleware.NewSessionIssuer([]byte(cfg.Session.Secret), cfg.Cart.SessionTTL, cfg.Session.SecureCookie, log),
		Limiter:  ratelim.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	}, cfg.Server.PublicDir)

	// apply middleware: CORS → security headers → tracing → metrics → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}).Handler(middleware.SecurityHeaders(telemetry.Middleware(metrics.Middleware(middleware.Logging(log)(router)))))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           corsHandler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("listen: %w", err)
	case <-sigCh:
	}

	log.Info("shutdown signal received; shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracer shutdown", zap.Error(err))
	}

	log.Info("server stopped cleanly")
	return nil
}
