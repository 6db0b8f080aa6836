package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/aegistudio/shaft"
	"github.com/aegistudio/shaft/serpent"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aegistudio/shred"
)

var options []shaft.Option

var rootCmd = &cobra.Command{
	Use:   "shred [flags] files...",
	Short: "overwrite files with the Gutmann method and remove them",
	Long: strings.Trim(`
Shred overwrites the content of files with the 35 passes of
the Gutmann method, looping through them until the requested
number of passes has been made, with one file per worker.

With --unlink, the files are removed after every file has
been overwritten. Each entry is renamed through shorter and
shorter names before being unlinked, so that the directory
entry holding its original name is overwritten as well.
`, "\r\n"),
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	PreRunE: serpent.Executor(shaft.Module(
		shaft.Provide(func(
			cmd serpent.CommandObject, args serpent.CommandArgs,
		) (*config, error) {
			v, err := newViper((*cobra.Command)(cmd).Flags(), configFile)
			if err != nil {
				return nil, err
			}
			return readConfig(v, args)
		}),
		shaft.Stack(func(
			next func(*zap.Logger) error, cfg *config,
		) error {
			logger, err := newLogger(cfg.Verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return next(logger)
		}),
		shaft.Provide(func(
			fs afero.Fs, logger *zap.Logger, cfg *config,
		) (*shred.Shredder, error) {
			return shred.New(
				shred.WithFs(fs),
				shred.WithLogger(logger),
				shred.WithOptions(cfg.options()...),
			)
		}),
	)).PreRunE,
	RunE: serpent.Executor(shaft.Invoke(func(
		rootCtx serpent.CommandContext, s *shred.Shredder,
		logger *zap.Logger, cfg *config,
	) error {
		report, err := s.Run(rootCtx, cfg.Targets, cfg.Unlink)
		logger.Info("finished",
			zap.Int("shredded", report.Shredded),
			zap.Int("shredFailed", report.ShredFailed),
			zap.Int("removed", report.Removed),
			zap.Int("removeFailed", report.RemoveFailed))
		return err
	})).RunE,
}

func main() {
	rootCtx := context.Background()
	rootCtx, cancel := signal.NotifyContext(rootCtx, os.Interrupt)
	defer cancel()
	if err := serpent.ExecuteContext(
		rootCtx, rootCmd, options...); err != nil {
		os.Exit(1)
	}
}
