package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/primeops/auth"
	"github.com/jonwraymond/primeops/cache"
	"github.com/jonwraymond/primeops/config"
	"github.com/jonwraymond/primeops/health"
	"github.com/jonwraymond/primeops/httpapi"
	"github.com/jonwraymond/primeops/lookup"
	"github.com/jonwraymond/primeops/observe"
	"github.com/jonwraymond/primeops/prime"
	"github.com/jonwraymond/primeops/resilience"
)

// newObserver is replaced in tests.
var newObserver = observe.NewObserver

// app is the fully wired service.
type app struct {
	cfg     *config.Config
	obs     observe.Observer
	logger  observe.Logger
	handler http.Handler
}

// newApp wires every component described by cfg. logOut receives the
// structured log stream; nil means stderr. On error the observer, if it was
// started, is shut down before returning.
func newApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (_ *app, err error) {
	reg := prometheus.NewRegistry()

	tcfg := cfg.Telemetry()
	if tcfg.Version == "" {
		tcfg.Version = version
	}
	tcfg.Logging.Output = logOut
	tcfg.Exporters.Registerer = reg

	obs, err := newObserver(ctx, tcfg)
	if err != nil {
		return nil, fmt.Errorf("observer: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, obs.Shutdown(context.WithoutCancel(ctx)))
		}
	}()
	logger := obs.Logger()

	engineOpts := []prime.Option{prime.WithMaxSieveBound(cfg.Engine.MaxSieveBound)}
	if cfg.Engine.Seed != 0 {
		engineOpts = append(engineOpts, prime.WithSeed(cfg.Engine.Seed))
	}
	engine := prime.NewEngine(engineOpts...)

	results := cache.NewMemoryCache()
	if err := observe.RegisterCacheGauge(obs.Meter(), results.Len); err != nil {
		return nil, fmt.Errorf("cache gauge: %w", err)
	}

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return nil, err
	}
	svc, err := lookup.NewService(engine, results,
		lookup.WithMiddleware(mw),
		lookup.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("lookup service: %w", err)
	}

	agg := health.NewAggregator(health.AggregatorConfig{})
	agg.Register(health.NewMemoryChecker(health.MemoryCheckerConfig{}))
	agg.Register(health.NewCacheChecker(results, cfg.Cache.WarnEntries))

	guard := resilience.NewGuard(
		resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Rate:    cfg.Limits.Rate,
			Burst:   cfg.Limits.Burst,
			MaxWait: cfg.Limits.MaxWait,
		})),
		resilience.WithBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: cfg.Limits.MaxConcurrent,
			MaxWait:       cfg.Limits.MaxWait,
		})),
	)

	rc := httpapi.RouterConfig{
		Primes: httpapi.NewHandler(svc,
			httpapi.WithGuard(guard),
			httpapi.WithLogger(logger),
		),
		Health: func(mux *http.ServeMux) { health.RegisterHandlers(mux, agg) },
		Logger: logger,
	}
	if cfg.Observe.Metrics.Enabled && cfg.Observe.Metrics.Exporter == "prometheus" {
		rc.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}
	if cfg.Auth.Enabled {
		authn, err := newAuthenticator(cfg.Auth)
		if err != nil {
			return nil, err
		}
		rc.Auth = auth.Middleware(authn, logger)
	}

	return &app{
		cfg:     cfg,
		obs:     obs,
		logger:  logger,
		handler: httpapi.NewRouter(rc),
	}, nil
}

func newAuthenticator(cfg config.AuthConfig) (auth.Authenticator, error) {
	var auths []auth.Authenticator

	keys, err := cfg.ParsedAPIKeys()
	if err != nil {
		return nil, err
	}
	if len(keys) > 0 {
		store := auth.NewMemoryAPIKeyStore()
		for _, k := range keys {
			if err := store.Add(k.Principal, k.Key); err != nil {
				return nil, fmt.Errorf("api key for %s: %w", k.Principal, err)
			}
		}
		auths = append(auths, auth.NewAPIKeyAuthenticator(store))
	}

	if cfg.JWTSecret != "" {
		jwtAuth, err := auth.NewJWTAuthenticator(auth.JWTConfig{
			Secret:   []byte(cfg.JWTSecret),
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
		})
		if err != nil {
			return nil, fmt.Errorf("jwt authenticator: %w", err)
		}
		auths = append(auths, jwtAuth)
	}

	if len(auths) == 0 {
		return nil, fmt.Errorf("%w: auth enabled without api keys or jwt secret", config.ErrInvalidConfig)
	}
	return auth.NewComposite(auths...), nil
}
