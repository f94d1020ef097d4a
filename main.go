package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"coursedeck/internal/catalog"
	"coursedeck/internal/config"
	"coursedeck/internal/domain"
	"coursedeck/internal/eventbus"
	"coursedeck/internal/filterstore"
	"coursedeck/internal/location"
	"coursedeck/internal/logging"
	"coursedeck/internal/query"
	"coursedeck/internal/telemetry"
	"coursedeck/internal/ui"
)

func main() {
	var (
		configPath string
		initial    string
		debug      bool
	)
	flag.StringVar(&configPath, "config", "", "Path to the configuration file")
	flag.StringVar(&initial, "location", "", "Start from this location (a link or query string)")
	flag.StringVar(&initial, "l", "", "Start from this location (shorthand)")
	flag.BoolVar(&debug, "d", false, "Enable debug logging")
	flag.Parse()

	if initial == "" && flag.NArg() > 0 {
		initial = flag.Arg(0)
	}

	if err := run(configPath, initial, debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, initial string, debug bool) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	configSvc := config.NewConfigService()
	if configPath != "" {
		configSvc = config.NewConfigServiceAt(configPath)
	}
	cfg, err := configSvc.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applied := config.ApplyEnv(cfg)
	if debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", config.Path(configSvc), err)
	}

	log, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()
	log.Info().Str("config", config.Path(configSvc)).Strs("env", applied).Msg("starting coursedeck")

	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bus := eventbus.New(log)
	defer bus.Close()
	configSvc = config.WithBus(configSvc, bus)

	metrics := telemetry.New()

	if initial == "" {
		initial = cfg.Session.Location
	}
	loc := location.New(initial, log,
		location.WithPersister(config.NewLocationSaver(configSvc, cfg)),
		location.WithAnomalyObserver(func(a location.Anomaly) {
			metrics.Anomaly(a.Key)
		}),
	)

	store := filterstore.New(loc.Current(),
		filterstore.WithDebounce(cfg.Search.Debounce()),
		filterstore.WithLogger(log),
	)
	defer store.Close()

	var client catalog.Client = catalog.NewHTTPClient(cfg.API.BaseURL,
		catalog.WithTimeout(cfg.API.Timeout()),
		catalog.WithRetryMax(cfg.API.RetryMax),
		catalog.WithLogger(log),
	)
	if cfg.Cache.Size > 0 {
		client = catalog.NewCachedClient(client, cfg.Cache.Size, cfg.Cache.TTL(), metrics)
	}

	ctrl := query.New(client,
		query.WithPageSize(cfg.API.PageSize),
		query.WithEventBus(bus),
		query.WithMetrics(metrics),
		query.WithLogger(log),
	)
	defer ctrl.Close()

	// Every filter write lands in the location, then the query
	store.Subscribe(func(m domain.FilterModel) {
		loc.Replace(m)
		bus.Publish(eventbus.FilterChangedEvent{Filter: m})
		ctrl.Observe(m)
	})
	loc.OnChange(func(raw string) {
		bus.Publish(eventbus.LocationChangedEvent{Location: raw})
	})

	bus.Subscribe(eventbus.EventConfigSaved, func(eventbus.DomainEvent) {
		log.Debug().Str("path", config.Path(configSvc)).Msg("config saved")
	})
	bus.Subscribe(eventbus.EventLocationChanged, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.LocationChangedEvent); ok {
			log.Debug().Str("location", event.Location).Msg("location changed")
		}
	})

	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr, metrics, log)
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	uiModel := ui.NewModel(ui.Deps{
		Store:      store,
		Controller: ctrl,
		Location:   loc,
		Bus:        bus,
		Config:     cfg,
		Log:        log,
	})
	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithContext(ctx))
	uiModel.SetProgram(p)

	// Forward domain events to the UI
	forwarder := ui.NewEventForwarder()
	for _, t := range []eventbus.EventType{
		eventbus.EventFilterChanged,
		eventbus.EventQueryStateChanged,
		eventbus.EventFetchFailed,
		eventbus.EventError,
	} {
		bus.Subscribe(t, forwarder.Push)
	}
	done := make(chan struct{})
	defer close(done)
	go forwarder.Run(done, p.Send)

	// Canonicalize the starting location and fetch what it describes
	loc.Replace(store.Current())
	ctrl.Observe(store.Current())

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Error().Err(err).Msg("error running program")
		return err
	}
	log.Info().Str("location", loc.Raw()).Msg("UI exited normally")
	return nil
}

// serveMetrics exposes the private Prometheus registry on addr
func serveMetrics(addr string, metrics *telemetry.Metrics, log zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()
	log.Info().Str("addr", addr).Msg("serving metrics")
	return srv
}
