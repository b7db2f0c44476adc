// Package app implements the headset-tray command.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/shelepuginivan/headset-tray/cmd/headset-tray/app/options"
	"github.com/shelepuginivan/headset-tray/internal/daemon"
	"github.com/shelepuginivan/headset-tray/internal/headset"
	"github.com/shelepuginivan/headset-tray/internal/icon"
	"github.com/shelepuginivan/headset-tray/internal/log"
	"github.com/shelepuginivan/headset-tray/systray"
)

const (
	commandName = "headset-tray"
	commandDesc = `headset-tray shows battery of your headset in the system tray.

It polls headsetcontrol twice a second and publishes an icon with the battery
level as a StatusNotifierItem on the session bus.`
)

// NewCommand returns the root command of headset-tray.
func NewCommand() *cobra.Command {
	opts := options.NewOptions()

	var configFile string

	cmd := &cobra.Command{
		Use:          commandName,
		Short:        "Show battery of your headset in the system tray",
		Long:         commandDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Load(cmd.Flags(), configFile); err != nil {
				return err
			}

			if err := opts.Validate(); err != nil {
				return fmt.Errorf("invalid options: %w", err)
			}

			return log.Init(opts.Log)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = log.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(cmd.Context(), opts); err != nil {
				log.Error(err, "headset-tray stopped")
				return err
			}

			return nil
		},
	}

	fs := cmd.PersistentFlags()
	fs.StringVar(&configFile, "config", "", "Path to a YAML configuration file.")
	opts.Flags(fs)

	cmd.AddCommand(newRenderCommand(), newConfigCommand(opts))

	return cmd
}

func run(ctx context.Context, opts *options.Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engine, err := icon.NewEngine(icon.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	loop, err := daemon.NewLoop(daemon.Config{
		Source:   headset.NewClient(opts.Tool),
		Renderer: icon.NewCache(engine, icon.DefaultCacheSize),
		Retries:  opts.Tool.Retries,
		Logger:   log.WithName("loop"),
	})
	if err != nil {
		return err
	}

	if err := loop.Init(ctx); err != nil {
		return err
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer conn.Close()

	tray := daemon.NewTray(loop, func() {
		log.Info("Quit requested from the tray menu")
		cancel()
	})

	item := systray.NewItem(conn, 1, tray)

	if err := item.Listen(); err != nil {
		if !errors.Is(err, systray.ErrNoWatcher) {
			return err
		}

		log.Warn("No system tray found, the icon appears once it starts", "error", err)
	} else {
		log.Info("Registered in the system tray", "name", item.Name())
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return loop.Run(ctx, item)
	})

	g.Go(func() error {
		<-ctx.Done()
		return item.Close()
	})

	return g.Wait()
}

func newConfigCommand(opts *options.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := opts.YAML()
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
