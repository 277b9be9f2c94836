package main

import (
	"fmt"
	"fuel-dispatch-dashboard/internal/adapters/places"
	"fuel-dispatch-dashboard/internal/adapters/session"
	"fuel-dispatch-dashboard/internal/adapters/transport"
	"fuel-dispatch-dashboard/internal/config"
	"fuel-dispatch-dashboard/internal/dashboard"
	"fuel-dispatch-dashboard/internal/domain"
	"fuel-dispatch-dashboard/internal/platform/logx"
	"fuel-dispatch-dashboard/internal/platform/metrics"
	"fuel-dispatch-dashboard/internal/ports"
	"fuel-dispatch-dashboard/internal/query"
	"fuel-dispatch-dashboard/internal/services"
	"fuel-dispatch-dashboard/internal/suggest"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app is the composition root shared by every subcommand.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	metrics  *metrics.Metrics
	tokens   ports.TokenStore
	dash     *dashboard.Dashboard
	provider *places.GoogleProvider
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		n := dashboard.Describe(err)
		fmt.Fprintf(os.Stderr, "%s: %s\n", n.Title, n.Message)
		switch {
		case n.Reauthenticate:
			fmt.Fprintln(os.Stderr, "run `dispatchctl login` to sign in")
		case n.ManualFallback:
			fmt.Fprintln(os.Stderr, "plan manually or retry later")
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "dispatchctl",
		Short:         "Operator CLI for the fuel dispatch backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	root.AddCommand(
		a.healthCmd(),
		a.loginCmd(),
		a.registerCmd(),
		a.logoutCmd(),
		a.meCmd(),
		a.trucksCmd(),
		a.stationsCmd(),
		a.tripsCmd(),
		a.routeCmd(),
		a.dispatchCmd(),
		a.recommendCmd(),
		a.filtersCmd(),
		a.weatherCmd(),
		a.suggestCmd(),
		a.metricsCmd(),
	)
	return root
}

// setup wires concrete adapters behind ports.
func (a *app) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logx.Init(logx.Options{Environment: cfg.Environment})
	a.metrics = metrics.New()

	a.tokens, err = openTokenStore(cfg.TokenFile)
	if err != nil {
		return err
	}

	client, err := transport.New(transport.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Tokens:  a.tokens,
		Logger:  a.log,
		Metrics: a.metrics,
	})
	if err != nil {
		return err
	}

	cache := query.NewClient(query.Policy{
		StaleTime:     cfg.Cache.StaleTime,
		GCTime:        cfg.Cache.GCTime,
		Retry:         cfg.Cache.Retry,
		RetryDelay:    cfg.Cache.RetryDelay,
		MaxRetryDelay: cfg.Cache.MaxRetryDelay,
	}, a.log, a.metrics)

	a.dash = dashboard.New(dashboard.Deps{
		Cache:   cache,
		Backend: client,
		Tokens:  a.tokens,
		Defaults: services.Defaults{
			Model:         cfg.DefaultLLMModel,
			DepotLocation: cfg.DepotLocation,
			TripsLimit:    cfg.TripsDefaultLimit,
		},
		Logger: a.log,
	})

	a.provider = places.NewGoogleProvider(places.Options{
		APIKey: cfg.Suggest.APIKey,
		Region: cfg.Suggest.Region,
		Logger: a.log,
	})

	a.log.Debug().Str("base_url", client.BaseURL()).Msg("dispatchctl ready")
	return nil
}

// Without TOKEN_FILE the login only lives as long as the process.
func openTokenStore(path string) (ports.TokenStore, error) {
	if path == "" {
		return session.NewMemoryStore(""), nil
	}
	return session.OpenFileStore(path)
}

func (a *app) newDebouncer(onChange func([]domain.Suggestion)) *suggest.Debouncer {
	return suggest.New(a.provider, suggest.Options{
		Delay:        a.cfg.Suggest.Delay,
		MinLength:    a.cfg.Suggest.MinLength,
		ReadyTimeout: a.cfg.Suggest.ReadyTimeout,
		PollInterval: a.cfg.Suggest.PollInterval,
		OnChange:     onChange,
		Logger:       a.log,
		Metrics:      a.metrics,
	})
}
