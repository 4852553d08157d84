package main

import (
	"context"
	"os"

	"league-history/internal/config"
	"league-history/internal/constants"
	fxmodules "league-history/internal/fx"
	"league-history/internal/runner"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.StopTimeout(constants.ShutdownTimeout),
		fx.Invoke(runReports),
	).Run()
}

// runReports builds the reports named on the command line, or REPORTS, once
// the app has started and then stops it with the run's exit code.
func runReports(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	r *runner.Runner,
	cfg *config.Config,
	logger zerolog.Logger,
) {
	names := cfg.Reports
	if len(os.Args) > 1 {
		names = os.Args[1:]
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)

				code := 1
				report, err := r.Run(ctx, names)
				if err != nil {
					logger.Error().Err(err).Msg("run failed")
				} else {
					code = report.ExitCode()
				}

				if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
					logger.Error().Err(err).Msg("failed to shut down")
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
				logger.Warn().Dur("timeout", constants.ShutdownTimeout).Msg("run did not stop in time")
			}
			return nil
		},
	})
}
