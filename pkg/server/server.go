package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/de-tools/takeoff/pkg/handlers/calculation"
	"github.com/de-tools/takeoff/pkg/services/availability"
	"github.com/de-tools/takeoff/pkg/services/mapping"
	"github.com/de-tools/takeoff/pkg/services/partition"
	"github.com/de-tools/takeoff/pkg/services/ventilation"

	takeoffmiddleware "github.com/de-tools/takeoff/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Mapping      mapping.Calculator
	Parameters   mapping.Registry
	Partition    partition.Calculator
	Ventilation  ventilation.Calculator
	Availability availability.Checker
	Logger       zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	deps := config.Dependencies
	h := handlers.NewHandler(handlers.Services{
		Mapping:      deps.Mapping,
		Parameters:   deps.Parameters,
		Partition:    deps.Partition,
		Ventilation:  deps.Ventilation,
		Availability: deps.Availability,
	})

	router := chi.NewRouter()

	router.Use(takeoffmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/proposal-types", h.ListProposalTypes)
		r.Get("/proposal-types/{type}/availability", h.GetAvailability)

		r.Post("/calculations/mapping", h.CalculateMapping)
		r.Post("/calculations/partition", h.CalculatePartition)
		r.Get("/calculations/partition/{type}/self-check", h.PartitionSelfCheck)
		r.Post("/calculations/ventilation", h.CalculateVentilation)

		r.Get("/ventilation/products", h.ListVentilationProducts)
	})

	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	config.Dependencies.Logger = logger
	router := ConfigureRouter(config)

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
