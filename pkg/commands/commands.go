package commands

import (
	"context"

	"github.com/fatih/color"
	"github.com/muesli/termenv"
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tableflip.dev/caltrack/pkg/app"
	"tableflip.dev/caltrack/pkg/commands/options"
	"tableflip.dev/caltrack/pkg/logging"
	"tableflip.dev/caltrack/pkg/store"
)

var (
	output = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "caltrack",
		Short: base.Wrap80("Track what you eat, one day at a time, against a daily calorie goal."),
		PersistentPreRun: func(*cobra.Command, []string) {
			if termenv.EnvNoColor() {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addAdd(topLevel)
	addDay(topLevel)
	addReport(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
}

// session is the configuration, logger and backend a verb runs against.
type session struct {
	Config  *store.Config
	Log     *logrus.Logger
	Backend *store.Backend

	closeLog func() error
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	log, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, err
	}
	backend, err := store.Open(ctx, cfg, log)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	log.WithField("backend", backend.Name).Debug("ledger opened")
	return &session{Config: cfg, Log: log, Backend: backend, closeLog: closeLog}, nil
}

func (s *session) Service() *app.Service {
	return &app.Service{Ledger: s.Backend.Ledger, Goal: s.Config.Goal}
}

func (s *session) Close() {
	if err := s.Backend.Close(); err != nil {
		s.Log.WithError(err).Warn("close ledger")
	}
	_ = s.closeLog()
}
