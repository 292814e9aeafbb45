/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Logbook compliance server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize structured logger
  3. Initialize SQLite store
  4. Create API handler with dependencies
  5. Start compliance sweeper
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port            HTTP server port (default: 8080, PORT env overrides)
  -db              SQLite database path (default: logbook.db)
                   Use ":memory:" for an in-memory database
  -sweep-interval  How often the compliance sweep runs (default: 1h, 0 disables)
  -dev             Development logging (human-readable, debug level)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the compliance sweeper
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/logbook.db"

  # Run with in-memory database and a fast sweep
  ./server -db=":memory:" -sweep-interval=1m

  # Run on different port
  ./server -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - api/scheduler.go: Compliance sweeper
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/thegspiro/the-logbook-sub001/api"
	"github.com/thegspiro/the-logbook-sub001/logger"
	"github.com/thegspiro/the-logbook-sub001/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "logbook.db", "SQLite database path")
	sweepInterval := flag.Duration("sweep-interval", time.Hour, "compliance sweep interval (0 disables)")
	dev := flag.Bool("dev", false, "development logging")
	flag.Parse()

	// PORT env wins over the flag default, matching container platforms
	if env := os.Getenv("PORT"); env != "" {
		if p, err := strconv.Atoi(env); err == nil {
			*port = p
		}
	}

	mode := "prod"
	if *dev {
		mode = "dev"
	}
	log, err := logger.New(mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal("failed to initialize database", "error", err, "path", *dbPath)
	}
	defer store.Close()

	// Initialize handler and sweeper
	handler := api.NewHandler(store, log)

	sweeper := api.NewComplianceSweeper(store, handler, log)
	if *sweepInterval <= 0 {
		sweeper.Enabled = false
	} else {
		sweeper.CheckInterval = *sweepInterval
	}
	sweeper.Start()

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server starting", "addr", fmt.Sprintf("http://localhost:%d", *port), "db", *dbPath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", "error", err)
	}

	sweeper.Stop()

	log.Info("server stopped")
}
