package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-dispatch-dashboard/internal/domain"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check backend health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.dash.Health().Get(cmd.Context())
			if err != nil {
				return err
			}
			if !h.Healthy() {
				a.log.Warn().Str("status", h.Status).Msg("backend reports degraded health")
			}
			return printJSON(cmd.OutOrStdout(), h)
		},
	}
}

func (a *app) loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				p, err := readLine(cmd.InOrStdin(), cmd.ErrOrStderr(), "password: ")
				if err != nil {
					return err
				}
				password = p
			}

			if _, err := a.dash.Login().Do(cmd.Context(), domain.Credentials{
				Username: username,
				Password: password,
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when empty)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func readLine(in io.Reader, prompt io.Writer, label string) (string, error) {
	fmt.Fprint(prompt, label)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (a *app) registerCmd() *cobra.Command {
	var r domain.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a dispatcher account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if r.Password == "" {
				p, err := readLine(cmd.InOrStdin(), cmd.ErrOrStderr(), "password: ")
				if err != nil {
					return err
				}
				r.Password = p
			}

			u, err := a.dash.Register().Do(cmd.Context(), r)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		},
	}

	cmd.Flags().StringVarP(&r.Username, "username", "u", "", "account username")
	cmd.Flags().StringVar(&r.Email, "email", "", "account email")
	cmd.Flags().StringVar(&r.FullName, "name", "", "full name")
	cmd.Flags().StringVarP(&r.Password, "password", "p", "", "account password (prompted when empty)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := a.dash.Logout().Do(cmd.Context(), struct{}{})
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			if err != nil {
				a.log.Warn().Err(err).Msg("backend logout failed")
			}
			return nil
		},
	}
}

func (a *app) meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.dash.Me().Get(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		},
	}
}

func (a *app) trucksCmd() *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "trucks [id]",
		Short: "List trucks or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				t, err := a.dash.Truck(args[0]).Get(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), t)
			}

			list, err := a.dash.Trucks().Get(cmd.Context())
			if err != nil {
				return err
			}
			if activeOnly {
				list.Trucks = domain.ActiveTrucks(list.Trucks)
				list.Count = len(list.Trucks)
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "only trucks available for dispatch")
	return cmd
}

func (a *app) stationsCmd() *cobra.Command {
	var needsFuel bool

	cmd := &cobra.Command{
		Use:   "stations [id]",
		Short: "List stations or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				s, err := a.dash.Station(args[0]).Get(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), s)
			}

			list, err := a.dash.Stations().Get(cmd.Context())
			if err != nil {
				return err
			}
			if needsFuel {
				list.Stations = domain.StationsNeedingFuel(list.Stations)
				list.Count = len(list.Stations)
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	}

	cmd.Flags().BoolVar(&needsFuel, "needs-fuel", false, "only stations below the low-fuel threshold")
	return cmd
}

func (a *app) tripsCmd() *cobra.Command {
	var f domain.TripFilter

	cmd := &cobra.Command{
		Use:   "trips [id]",
		Short: "List recent delivery trips or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				t, err := a.dash.Trip(args[0]).Get(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), t)
			}

			list, err := a.dash.Trips(f).Get(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	}

	cmd.Flags().IntVar(&f.Limit, "limit", 0, "maximum trips (default from TRIPS_DEFAULT_LIMIT)")
	cmd.Flags().BoolVar(&f.SuccessfulOnly, "successful-only", false, "only completed trips")
	return cmd
}

func (a *app) routeCmd() *cobra.Command {
	var (
		model string
		t     domain.TimeData
	)

	cmd := &cobra.Command{
		Use:   "route <from> <to>",
		Short: "Optimize a route between two locations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.dash.CalculateRoute(cmd.Context(), args[0], args[1], model, &t)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "LLM model (default from DEFAULT_LLM_MODEL)")
	cmd.Flags().StringVar(&t.TimeMode, "time-mode", domain.TimeModeDeparture, "departure or arrival")
	cmd.Flags().StringVar(&t.DepartureTime, "depart", "", "departure time (HH:MM)")
	cmd.Flags().StringVar(&t.ArrivalTime, "arrive", "", "arrival time (HH:MM)")
	cmd.Flags().StringVar(&t.DeliveryDate, "date", "", "delivery date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&t.VehicleType, "vehicle", domain.DefaultVehicleType, "vehicle type")
	cmd.Flags().StringVar(&t.Notes, "notes", "", "free-form notes for the optimizer")
	return cmd
}

func (a *app) dispatchCmd() *cobra.Command {
	var req domain.DispatchRequest

	cmd := &cobra.Command{
		Use:   "dispatch <truck-id>",
		Short: "Plan a dispatch run for one truck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.TruckID = args[0]
			res, err := a.dash.CalculateDispatch(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&req.DepotLocation, "depot", "", "depot location (default from DEFAULT_DEPOT_LOCATION)")
	cmd.Flags().StringVar(&req.Model, "model", "", "LLM model (default from DEFAULT_LLM_MODEL)")
	return cmd
}

func (a *app) recommendCmd() *cobra.Command {
	var req domain.RecommendationsRequest

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Ask for truck dispatch recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recs, err := a.dash.DispatchRecommendations(req, true).Get(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), recs)
		},
	}

	cmd.Flags().StringVar(&req.DepotLocation, "depot", "", "depot location")
	cmd.Flags().StringVar(&req.Model, "model", "", "LLM model")
	cmd.Flags().IntVar(&req.MaxRecommendations, "max", 0, "maximum recommendations")
	cmd.Flags().StringVar(&req.Region, "region", "", "only stations in this region")
	cmd.Flags().StringVar(&req.City, "city", "", "only stations in this city")
	return cmd
}

func (a *app) filtersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List the regions and cities recommendations can be filtered by",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := a.dash.DispatchFilters().Get(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), f)
		},
	}
}

func (a *app) weatherCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weather <city>",
		Short: "Show current weather for a city",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.dash.Weather(args[0]).Get(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), w)
		},
	}
}

// suggestCmd types each argument into the debouncer one keystroke at a time,
// the way an address field would, and prints the final list.
func (a *app) suggestCmd() *cobra.Command {
	var keystroke time.Duration

	cmd := &cobra.Command{
		Use:   "suggest <text>",
		Short: "Address suggestions for partial input",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := make(chan []domain.Suggestion, 16)
			d := a.newDebouncer(func(list []domain.Suggestion) {
				select {
				case changed <- list:
				default:
				}
			})
			defer d.Close()

			input := strings.Join(args, " ")
			typed := ""
			for _, r := range input {
				typed += string(r)
				d.Input(typed)
				time.Sleep(keystroke)
			}
			if utf8.RuneCountInString(strings.TrimSpace(input)) < a.cfg.Suggest.MinLength {
				return printJSON(cmd.OutOrStdout(), []domain.Suggestion{})
			}

			// Short prefixes notified synchronously while typing.
		drain:
			for {
				select {
				case <-changed:
				default:
					break drain
				}
			}

			wait := a.cfg.Suggest.Delay + a.cfg.Suggest.ReadyTimeout + a.cfg.APITimeout
			ctx, cancel := context.WithTimeout(cmd.Context(), wait)
			defer cancel()

			select {
			case list := <-changed:
				return printJSON(cmd.OutOrStdout(), list)
			case <-ctx.Done():
				return printJSON(cmd.OutOrStdout(), d.Suggestions())
			}
		},
	}

	cmd.Flags().DurationVar(&keystroke, "keystroke", 40*time.Millisecond, "delay between simulated keystrokes")
	return cmd
}

func (a *app) metricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics <command> [args...]",
		Short: "Run another subcommand and dump transport and cache metrics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, rest, err := cmd.Root().Find(args)
			if err != nil {
				return err
			}
			if sub == cmd || sub == cmd.Root() {
				return fmt.Errorf("metrics: unknown command %q", args[0])
			}
			if err := sub.ParseFlags(rest); err != nil {
				return err
			}
			sub.SetContext(cmd.Context())
			sub.SetOut(cmd.ErrOrStderr())

			runErr := sub.RunE(sub, sub.Flags().Args())
			if err := a.metrics.WriteText(cmd.OutOrStdout()); err != nil {
				return err
			}
			return runErr
		},
	}
}
