package main

//
//  @title           marketpulse API
//  @version         1.0
//  @description     Multi-source market data aggregation with provider fallback.
//  @termsOfService  https://github.com/guttosm/marketpulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/marketpulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        quotes
//  @tag.description Quotes with provider fallback and the comprehensive fan-out view
//
//  @tag.name        timeseries
//  @tag.description Daily OHLCV history
//
//  @tag.name        news
//  @tag.description Market news, company news and social sentiment
//
//  @tag.name        health
//  @tag.description Liveness, readiness and provider probes

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/marketpulse/config"
	_ "github.com/guttosm/marketpulse/docs" // swagger docs
	"github.com/guttosm/marketpulse/internal/app"
	"github.com/guttosm/marketpulse/internal/logger"
	"github.com/guttosm/marketpulse/internal/service"
)

const cliTimeout = time.Minute

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// runProbe probes every provider and writes the report as JSON.
// It fails only when no provider is healthy.
func runProbe(ctx context.Context, svc service.MarketService, w io.Writer) error {
	report := svc.TestAllProviders(ctx)
	if err := writeJSON(w, report); err != nil {
		return err
	}
	if report.SuccessCount == 0 {
		return errors.New("no provider is healthy")
	}
	return nil
}

// runQuote fetches one symbol and writes it as JSON. With comprehensive set
// the record is written even when every provider failed.
func runQuote(ctx context.Context, svc service.MarketService, symbol string, comprehensive bool, w io.Writer) error {
	if comprehensive {
		rec, err := svc.GetComprehensive(ctx, symbol)
		if rec.Symbol != "" {
			if werr := writeJSON(w, rec); werr != nil {
				return werr
			}
		}
		return err
	}

	q, err := svc.GetQuote(ctx, symbol)
	if err != nil {
		return err
	}
	return writeJSON(w, q)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// main is the entry point of the marketpulse application.
//
// Modes (selected via --mode flag):
//   - api:   Starts the REST API.
//   - probe: Probes every configured provider once and prints the health report.
//   - quote: Prints the quote (or with --comprehensive, every provider's view) of --symbol.
//
// Flags:
//   - --mode: Execution mode ("api", "probe" or "quote"). Default: "api".
//   - --port: Port for the API server. Defaults to value from config (SERVER_PORT).
//   - --symbol: Ticker for quote mode.
//   - --comprehensive: Fan out to all providers in quote mode.
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	mode := flag.String("mode", "api", "Mode: api, probe or quote")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	symbol := flag.String("symbol", "", "Ticker for quote mode")
	comprehensive := flag.Bool("comprehensive", false, "Query every provider in quote mode")
	flag.Parse()

	switch *mode {
	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	case "probe", "quote":
		comps, cleanup, err := app.Build(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}
		defer cleanup()

		cctx, cancel := context.WithTimeout(ctx, cliTimeout)
		defer cancel()

		if *mode == "probe" {
			err = runProbe(cctx, comps.Service, os.Stdout)
		} else {
			err = runQuote(cctx, comps.Service, *symbol, *comprehensive, os.Stdout)
		}
		if err != nil {
			cancel()
			cleanup()
			logger.L().Fatal().Err(err).Str("mode", *mode).Msg("command failed")
		}

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
