package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bjartek/mailprobe/pkg/config"
	"github.com/bjartek/mailprobe/pkg/history"
	"github.com/bjartek/mailprobe/pkg/logs"
	"github.com/bjartek/mailprobe/pkg/props"
	"github.com/bjartek/mailprobe/pkg/sampler"
	"github.com/bjartek/mailprobe/pkg/sender"
	"github.com/bjartek/mailprobe/pkg/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	flags := pflag.NewFlagSet("mailprobe", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "", "path to mailprobe.yaml")
	flags.StringP("plan", "p", "", "test plan file to load and save")
	_ = flags.Parse(os.Args[1:])

	v := viper.New()
	_ = v.BindPFlag("plan.path", flags.Lookup("plan"))

	// The program does not exist yet, log lines are queued until it starts
	ref := logs.NewProgramRef()
	bootLogger := logs.NewLogger(ref, logs.DefaultOptions())

	cfg, err := config.LoadWithViper(v, *configPath, bootLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closer, err := newLogger(ref, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	fs := afero.NewOsFs()
	outbox, err := sender.NewOutbox(fs, cfg.Outbox.Directory, cfg.Outbox.Mailbox)
	if err != nil {
		logger.Error().Err(err).Msg("failed to prepare outbox")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	senderLogger := logger.Level(config.ParseLevel(cfg.Logging.Level.Sender)).With().Str("component", "sender").Logger()
	s := sender.New(senderLogger,
		sender.WithHeloName(cfg.SMTP.HeloName),
		sender.WithTimeout(cfg.SMTP.Timeout),
		sender.WithOutbox(outbox),
		sender.WithComposeOptions(sender.WithFs(fs)),
	)
	store := history.NewStore(logger, cfg.UI.History.MaxEntries)

	opts := []ui.SamplerOption{ui.WithPlanFs(fs), ui.WithPlanPath(cfg.Plan.Path)}
	if plan, err := loadPlan(fs, cfg.Plan.Path); err != nil {
		if errors.Is(err, props.ErrPlanNotFound) {
			logger.Info().Str("path", cfg.Plan.Path).Msg("No test plan yet, starting from defaults")
		} else {
			logger.Warn().Err(err).Str("path", cfg.Plan.Path).Msg("Could not load test plan")
		}
	} else {
		logger.Info().Str("path", cfg.Plan.Path).Int("headers", len(plan.HeaderFields)).Msg("Test plan loaded")
		opts = append(opts, ui.WithSamplerConfig(plan))
	}

	p := tea.NewProgram(
		ui.NewModel(cfg, s, store, outbox, logger, opts...),
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
	)
	ref.Start(p)

	if _, err := p.Run(); err != nil {
		ref.Stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	ref.Stop()
}

func newLogger(ref *logs.ProgramRef, cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	opts := logs.Options{
		TimeFormat: cfg.Logging.TimestampFormat,
		NoColor:    !cfg.Logging.Color,
		Level:      config.ParseLevel(cfg.Logging.Level.Global),
	}
	if !cfg.Logging.File.Enabled {
		return logs.NewLogger(ref, opts), io.NopCloser(nil), nil
	}
	return logs.NewLoggerWithFile(ref, afero.NewOsFs(), cfg.Logging.File.Path, opts)
}

func loadPlan(fs afero.Fs, path string) (*sampler.Config, error) {
	store, err := props.LoadFile(fs, path)
	if err != nil {
		return nil, err
	}
	return sampler.Load(store)
}
