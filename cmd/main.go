package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yusuketakei/tickets/internal/binary"
	"github.com/yusuketakei/tickets/internal/config"
	"github.com/yusuketakei/tickets/internal/handlers"
	"github.com/yusuketakei/tickets/internal/portfolio"
	"github.com/yusuketakei/tickets/internal/rates"
	"github.com/yusuketakei/tickets/internal/services"
	"github.com/yusuketakei/tickets/internal/session"
	"github.com/yusuketakei/tickets/internal/telemetry"
	"github.com/yusuketakei/tickets/internal/transaction"
)

func main() {
	// Load configuration
	cfgPath := config.Path()
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Server.Verbose {
		log.Printf("[MAIN] Ticket dashboard starting...")
		log.Printf("[MAIN] Configuration loaded from: %s", cfgPath)
		log.Printf("[MAIN] Directory driver: %s", cfg.Directory.Driver)
		log.Printf("[MAIN] Session max age: %v", cfg.SessionMaxAge)
	}

	ctx := context.Background()
	shutdownTracing := telemetry.Setup(cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.Insecure)

	codec := binary.NewCodec(cfg.Codec.RateDelimiter, cfg.Codec.DecimalScale)

	// Initialize services based on configuration (factory pattern)
	resolver, addresses, closeResolver, err := services.CreateResolver(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize user directory: %v", err)
	}
	defer closeResolver()

	contract, closeContract, err := services.CreateContract(ctx, cfg, codec, addresses)
	if err != nil {
		log.Fatalf("Failed to initialize contract client: %v", err)
	}
	defer closeContract()

	if cfg.Server.Verbose {
		if cfg.StandaloneMode {
			log.Printf("Initialized MOCK contract for standalone mode")
		} else {
			log.Printf("Initialized REAL contract at %s", cfg.Ethereum.ContractAddress)
		}
	}

	journal := transaction.NewManager(cfg.TransferRetention, cfg.Server.Verbose)
	transfer := portfolio.NewTransferExecutor(contract, cfg.Ethereum.FromAddress, cfg.Ethereum.Gas, journal, cfg.Server.Verbose)
	dashboard := portfolio.NewDashboard(contract, resolver, codec, rates.NewBook(cfg.Rates.Path), transfer, cfg.Server.Verbose)

	sessions := session.NewMemoryStore(cfg.SessionMaxAge, cfg.Server.Verbose)
	stopCleanup := make(chan struct{})
	sessions.StartCleanupRoutine(cfg.SessionCleanupInterval, stopCleanup)
	defer close(stopCleanup)

	// Start journal cleanup routine
	go func() {
		ticker := time.NewTicker(cfg.SessionCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				journal.CleanupExpired()
			case <-stopCleanup:
				return
			}
		}
	}()

	handler := handlers.NewDashboardHandler(dashboard, sessions, cfg)

	// Set up Gin router with logging based on verbose config
	var router *gin.Engine
	if cfg.Server.Verbose {
		gin.SetMode(gin.DebugMode)
		router = gin.Default()
		log.Printf("Verbose mode enabled - HTTP requests will be logged")
	} else {
		gin.SetMode(gin.ReleaseMode)
		router = gin.New()
		router.Use(gin.Recovery())
	}

	// Load HTML templates
	router.LoadHTMLGlob("web/templates/*")
	router.Static("/static", "./web/static")

	handler.Register(router)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      otelhttp.NewHandler(router, cfg.Telemetry.ServiceName),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("App listening on port %d", cfg.Server.Port)
		if cfg.StandaloneMode {
			log.Printf("Running in STANDALONE mode - no Ethereum node required")
		} else {
			log.Printf("Running in ONLINE mode - node %s", cfg.Ethereum.RPCURL)
		}
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("tracer shutdown error: %v", err)
	}
}
