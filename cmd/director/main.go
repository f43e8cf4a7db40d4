package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ccs-digital/login-director/adaptor"
	"github.com/ccs-digital/login-director/director"
	"github.com/ccs-digital/login-director/domain"
	"github.com/ccs-digital/login-director/entitlement"
	"github.com/ccs-digital/login-director/internal/config"
	"github.com/ccs-digital/login-director/internal/metrics"
	"github.com/ccs-digital/login-director/reconcile"
	"github.com/ccs-digital/login-director/server"
	"github.com/ccs-digital/login-director/sessions"
	"github.com/ccs-digital/login-director/tenders"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	logger := newLogger(c)

	m := metrics.New()
	directorService, err := buildDirector(c, m, logger)
	if err != nil {
		return errors.Wrap(err, "building director service")
	}

	srv, err := server.New(context.Background(), c, directorService, m, logger)
	if err != nil {
		return errors.Wrap(err, "building server")
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func buildDirector(c config.Config, m *metrics.Metrics, logger zerolog.Logger) (*director.Service, error) {
	cache := sessions.NewCache()
	evaluator := entitlement.NewEvaluator()
	reconciler := reconcile.New(logger)
	resolver := domain.Resolver{
		CatHost:     c.GetCatDomain(),
		JaeggerHost: c.GetJaeggerDomain(),
	}

	tendersClient := tenders.NewHTTPClient(c.GetTendersAPIDomain(), c.GetTendersUserPath(), logger)
	adaptorClient := adaptor.NewHTTPClient(c.GetAdaptorAPIDomain(), c.GetAdaptorAPIKey(), logger)

	return director.New(director.Deps{
		Cache:      cache,
		Evaluator:  evaluator,
		Reconciler: reconciler,
		Tenders:    tendersClient,
		Adaptor:    adaptorClient,
		Resolver:   resolver,
		Metrics:    m,
	}, logger)
}

func newLogger(c config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if c.GetEnv() == "DEV" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
