// File: cmd/run.go
package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nullmantle/pixelpilot/internal/bot"
	"github.com/nullmantle/pixelpilot/internal/config"
	"github.com/nullmantle/pixelpilot/internal/control"
	"github.com/nullmantle/pixelpilot/internal/controlplane"
	"github.com/nullmantle/pixelpilot/internal/itemdb"
	"github.com/nullmantle/pixelpilot/internal/observability"
	"github.com/nullmantle/pixelpilot/internal/params"
)

// newRunCmd creates the `run` command, which drives a routine under the
// execution controller with the key listener and control plane attached.
func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a bot routine under execution control",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("bot.profile_path", cmd.Flags().Lookup("profile")); err != nil {
				return err
			}
			if err := viper.BindPFlag("api.enabled", cmd.Flags().Lookup("api")); err != nil {
				return err
			}
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}
			return runBot(cmd.Context(), cfg)
		},
	}

	runCmd.Flags().String("profile", "", "path to a JSON bot profile")
	runCmd.Flags().Bool("api", true, "serve the local control-plane API")
	runCmd.Flags().Int("steps", 0, "stop after this many steps (0 = run until stopped)")
	return runCmd
}

func runBot(ctx context.Context, cfg *config.Config) error {
	logger := observability.GetLogger()

	// Item database is optional for routines that never resolve items.
	items, err := itemdb.Load(cfg.Bot.ItemDBPath, logger)
	if err != nil {
		logger.Warn("item database unavailable, item params disabled",
			zap.String("path", cfg.Bot.ItemDBPath), zap.Error(err))
	} else {
		params.SetResolver(items)
	}

	profile := bot.DefaultProfile()
	if cfg.Bot.ProfilePath != "" {
		profile, err = bot.LoadProfile(cfg.Bot.ProfilePath)
		if err != nil {
			return err
		}
	}

	ctrl := control.New(logger,
		control.WithPollInterval(cfg.Control.PollInterval),
		control.WithBreaks(profile.Breaks),
	)

	keys := control.NewLineKeySource(os.Stdin)
	defer keys.Close()
	listener := control.NewListener(ctrl, keys, control.ListenerConfig{
		TerminateKey:  cfg.Control.TerminateKey,
		PauseKey:      cfg.Control.PauseKey,
		PauseDebounce: cfg.Control.PauseDebounce,
	}, logger)

	runner := bot.NewRunner(bot.RunnerConfig{
		TickRate:    cfg.Bot.TickRate,
		MaxStepErrs: cfg.Bot.MaxStepErrs,
	}, ctrl, logger)
	routine := bot.NewIdle(logger, viper.GetInt("steps"))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	if cfg.API.Enabled {
		srv := controlplane.New(cfg.API, ctrl, items, logger)
		srv.SetProfile(profile)
		g.Go(func() error {
			return ignoreCancel(srv.Run(gctx))
		})
	}

	g.Go(func() error {
		return ignoreCancel(listener.Run(gctx))
	})

	g.Go(func() error {
		defer cancel()
		err := runner.Run(gctx, routine)
		// Make sure the listener detaches even when the routine finished
		// on its own.
		ctrl.SetTerminate(true)
		return ignoreCancel(err)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("run complete", zap.Duration("runtime", ctrl.Runtime()))
	return nil
}

// ignoreCancel treats context cancellation as a clean shutdown.
func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
