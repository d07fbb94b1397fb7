package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/agent"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "attendance-agent",
	Short: "Background location agent for the attendance tracker",
	Long: `attendance-agent samples the device position while an attendance session
is open, reports it to the attendance server, and raises a notification when
the position deviates from the HR-configured default location.`,
}

type deps struct {
	cfg      *config.AgentConfig
	store    *agent.Store
	client   *agent.Client
	provider agent.LocationProvider
	notifier agent.Notifier
}

func buildDeps() (*deps, error) {
	cfg, err := config.LoadAgent()
	if err != nil {
		return nil, err
	}

	store, err := agent.OpenStore(cfg.StatePath)
	if err != nil {
		return nil, err
	}

	if cfg.LocationFile == "" {
		store.Close()
		return nil, fmt.Errorf("AGENT_LOCATION_FILE is required")
	}

	var notifier agent.Notifier = agent.LogNotifier{}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		notifier, err = agent.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	return &deps{
		cfg:      cfg,
		store:    store,
		client:   agent.NewClient(cfg.APIBaseURL, cfg.AccessToken, cfg.CycleTimeout),
		provider: agent.NewFileProvider(cfg.LocationFile),
		notifier: notifier,
	}, nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the location sampling daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps()
		if err != nil {
			return err
		}
		defer d.store.Close()

		tracker := agent.NewTracker(d.cfg, d.store, d.client, d.provider, d.notifier)
		tracker.Start()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop

		tracker.Stop()
		return nil
	},
}

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Check in at the current position and enable tracking",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps()
		if err != nil {
			return err
		}
		defer d.store.Close()

		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.CycleTimeout)
		defer cancel()

		point, err := d.provider.Current(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire position: %w", err)
		}

		session, err := d.client.CheckIn(ctx, point)
		if err != nil {
			return err
		}

		// Activate persists the tracking flag and reports the first sample
		// right away, so the server sees a fresh location immediately.
		tracker := agent.NewTracker(d.cfg, d.store, d.client, d.provider, d.notifier)
		if err := tracker.Activate(ctx); err != nil {
			return err
		}

		fmt.Printf("Checked in at %s (%.5f, %.5f), tracking enabled\n",
			session.CheckInTime, point.Latitude, point.Longitude)
		return nil
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Check out and disable tracking",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps()
		if err != nil {
			return err
		}
		defer d.store.Close()

		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.CycleTimeout)
		defer cancel()

		session, err := d.client.CheckOut(ctx)
		if err != nil {
			return err
		}

		tracker := agent.NewTracker(d.cfg, d.store, d.client, d.provider, d.notifier)
		if err := tracker.Deactivate(); err != nil {
			return err
		}

		hours := 0.0
		if session.WorkingHours != nil {
			hours = *session.WorkingHours
		}
		fmt.Printf("Checked out, session lasted %.2f hours, tracking disabled\n", hours)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server-side attendance status and local tracking state",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps()
		if err != nil {
			return err
		}
		defer d.store.Close()

		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.CycleTimeout)
		defer cancel()

		status, err := d.client.Status(ctx)
		if err != nil {
			return err
		}
		active, err := d.store.TrackingActive()
		if err != nil {
			return err
		}
		pending, err := d.store.PendingSamples(100)
		if err != nil {
			return err
		}

		fmt.Printf("Server status:    %s\n", status.Status)
		if status.LastCheckIn != nil {
			fmt.Printf("Checked in since: %s\n", *status.LastCheckIn)
		}
		fmt.Printf("Tracking active:  %v\n", active)
		fmt.Printf("Buffered samples: %d\n", len(pending))
		return nil
	},
}

func main() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkinCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(statusCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
