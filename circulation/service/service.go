package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/api"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/config"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/notify"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/policy"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/shell"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore/memengine"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore/oteladapters"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore/postgresengine"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore/promadapters"
)

const instrumentationName = "github.com/hexs00si/LMS-Infy-T4-sub001/circulation"

var ErrUnknownDriver = errors.New("unknown driver")

// Service is the assembled circulation service. Close releases everything Build opened.
type Service struct {
	Config           *config.Config
	EventStore       shell.EventStore
	Policies         shell.PolicyStore
	Notifier         shell.Notifier
	Coordinator      *shell.Coordinator
	Handlers         api.Handlers
	Registry         *prometheus.Registry
	Telemetry        *config.TelemetryProviders
	Logger           *slog.Logger
	ContextualLogger shell.ContextualLogger

	migrators []func(context.Context) error
	closers   []func() error
}

// Build wires all components described by cfg. Logs are written to logOutput.
func Build(ctx context.Context, cfg *config.Config, version string, logOutput io.Writer) (*Service, error) {
	handler := config.NewLogHandler(cfg.Log, logOutput)

	svc := &Service{
		Config:           cfg,
		Logger:           slog.New(handler),
		ContextualLogger: oteladapters.NewSlogBridgeLoggerWithHandler(handler),
	}

	if err := svc.build(ctx, version); err != nil {
		return nil, errors.Join(err, svc.Close())
	}

	return svc, nil
}

func (s *Service) build(ctx context.Context, version string) error {
	var err error

	cfg := s.Config

	if s.Telemetry, err = config.NewTelemetryProviders(ctx, cfg.Telemetry, version); err != nil {
		return err
	}
	s.closers = append(s.closers, s.Telemetry.Shutdown)

	obs := s.observability()

	if s.EventStore, err = s.buildEventStore(ctx, obs); err != nil {
		return err
	}

	if s.Policies, err = s.buildPolicyStore(); err != nil {
		return err
	}

	if s.Notifier, err = s.buildNotifier(); err != nil {
		return err
	}

	s.Coordinator, err = shell.NewCoordinator(s.EventStore, s.Policies,
		shell.WithNotifier(s.Notifier),
		shell.WithContextualLogger(s.ContextualLogger),
		shell.WithCoordinatorMetrics(obs.Metrics),
	)
	if err != nil {
		return err
	}

	retry := []shell.RetryOption{
		shell.WithMaxAttempts(cfg.Retry.MaxAttempts),
		shell.WithBaseDelay(cfg.Retry.BaseDelay),
	}

	if s.Handlers, err = api.NewHandlers(s.Coordinator, obs, retry...); err != nil {
		return err
	}

	return nil
}

// observability picks Prometheus or the OpenTelemetry meter for metrics and enables tracing if configured.
func (s *Service) observability() api.Observability {
	obs := api.Observability{ContextualLogger: s.ContextualLogger}

	if s.Config.Telemetry.Prometheus {
		s.Registry = prometheus.NewRegistry()
		s.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		obs.Metrics = promadapters.NewMetricsCollector(s.Registry)
	} else {
		obs.Metrics = oteladapters.NewMetricsCollector(s.Telemetry.MeterProvider.Meter(instrumentationName))
	}

	if s.Config.Telemetry.Tracing {
		obs.Tracing = oteladapters.NewTracingCollector(s.Telemetry.TracerProvider.Tracer(instrumentationName))
	}

	return obs
}

func (s *Service) buildEventStore(ctx context.Context, obs api.Observability) (shell.EventStore, error) {
	store := s.Config.Store

	switch store.Driver {
	case config.StoreMemory:
		options := []memengine.Option{
			memengine.WithContextualLogger(obs.ContextualLogger),
			memengine.WithMetrics(obs.Metrics),
		}
		if obs.Tracing != nil {
			options = append(options, memengine.WithTracing(obs.Tracing))
		}

		return memengine.NewEventStore(options...)

	case config.StorePostgres:
		options := []postgresengine.Option{
			postgresengine.WithTableName(store.TableName),
			postgresengine.WithContextualLogger(obs.ContextualLogger),
			postgresengine.WithMetrics(obs.Metrics),
		}
		if obs.Tracing != nil {
			options = append(options, postgresengine.WithTracing(obs.Tracing))
		}

		eventStore, err := s.openPostgres(ctx, store, options)
		if err != nil {
			return nil, err
		}

		s.migrators = append(s.migrators, eventStore.CreateSchema)

		return eventStore, nil
	}

	return nil, fmt.Errorf("%w: store %q", ErrUnknownDriver, store.Driver)
}

func (s *Service) openPostgres(
	ctx context.Context,
	store config.StoreConfig,
	options []postgresengine.Option,
) (postgresengine.EventStore, error) {

	switch store.Adapter {
	case config.AdapterSQL:
		db, err := config.OpenSQLDB(ctx, store)
		if err != nil {
			return postgresengine.EventStore{}, err
		}
		s.closers = append(s.closers, db.Close)

		return postgresengine.NewEventStoreFromSQLDB(db, options...)

	case config.AdapterSQLX:
		db, err := config.OpenSQLX(ctx, store)
		if err != nil {
			return postgresengine.EventStore{}, err
		}
		s.closers = append(s.closers, db.Close)

		return postgresengine.NewEventStoreFromSQLX(db, options...)

	default:
		pool, err := config.OpenPGXPool(ctx, store)
		if err != nil {
			return postgresengine.EventStore{}, err
		}
		s.closers = append(s.closers, func() error { pool.Close(); return nil })

		return postgresengine.NewEventStoreFromPGXPool(pool, options...)
	}
}

func (s *Service) buildPolicyStore() (shell.PolicyStore, error) {
	policies, fallback, err := s.Config.LibraryPolicies()
	if err != nil {
		return nil, err
	}

	switch s.Config.PolicyStore.Driver {
	case config.PolicyStoreStatic:
		return policy.NewStaticStore(policies...).WithFallback(fallback), nil

	case config.PolicyStoreSQL:
		store, openErr := policy.OpenSQLStore(s.Config.PolicyStore.SQLDriver, s.Config.PolicyStore.DSN)
		if openErr != nil {
			return nil, openErr
		}
		s.closers = append(s.closers, store.Close)

		s.migrators = append(s.migrators, func(ctx context.Context) error {
			if migrateErr := store.Migrate(ctx); migrateErr != nil {
				return migrateErr
			}

			// configured policies are seeded, existing rows of other libraries stay untouched
			for _, p := range policies {
				if saveErr := store.Save(ctx, p); saveErr != nil {
					return saveErr
				}
			}

			return nil
		})

		return store.WithFallback(fallback), nil
	}

	return nil, fmt.Errorf("%w: policy store %q", ErrUnknownDriver, s.Config.PolicyStore.Driver)
}

func (s *Service) buildNotifier() (shell.Notifier, error) {
	switch s.Config.Notify.Driver {
	case config.NotifyLog:
		return notify.NewLogNotifier(s.Logger, s.ContextualLogger), nil

	case config.NotifyAMQP:
		publisher, err := notify.DialAMQP(s.Config.Notify.URL, s.Config.Notify.Exchange)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, publisher.Close)

		return publisher, nil

	case config.NotifyNone:
		return notify.Noop{}, nil
	}

	return nil, fmt.Errorf("%w: notify %q", ErrUnknownDriver, s.Config.Notify.Driver)
}

// Migrate creates the events table and the policy table, whichever the config uses.
// The memory engine and the static policy store need nothing.
func (s *Service) Migrate(ctx context.Context) error {
	for _, migrate := range s.migrators {
		if err := migrate(ctx); err != nil {
			return err
		}
	}

	return nil
}

// Server creates the HTTP server on top of the handlers.
func (s *Service) Server() *api.Server {
	opts := []api.Option{api.WithContextualLogger(s.ContextualLogger)}
	if s.Registry != nil {
		opts = append(opts, api.WithMetricsGatherer(s.Registry))
	}

	return api.NewServer(s.Handlers, opts...)
}

// Close releases connections and flushes telemetry, in reverse order of creation.
func (s *Service) Close() error {
	var errs []error

	for _, closeFn := range slices.Backward(s.closers) {
		errs = append(errs, closeFn())
	}

	s.closers = nil

	return errors.Join(errs...)
}
