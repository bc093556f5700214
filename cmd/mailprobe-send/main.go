// Command mailprobe-send runs a saved test plan once without the terminal UI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/bjartek/mailprobe/pkg/config"
	"github.com/bjartek/mailprobe/pkg/logs"
	"github.com/bjartek/mailprobe/pkg/props"
	"github.com/bjartek/mailprobe/pkg/sampler"
	"github.com/bjartek/mailprobe/pkg/sender"
	"github.com/cockroachdb/errors"
	"github.com/enescakir/emoji"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%v Error: %v\n", emoji.CrossMark, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("mailprobe-send", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "path to mailprobe.yaml")
	flags.StringP("plan", "p", "", "test plan file to send")
	dryRun := flags.Bool("dry-run", false, "write the message to the outbox instead of sending it")
	if err := flags.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	if err := v.BindPFlag("plan.path", flags.Lookup("plan")); err != nil {
		return errors.Wrap(err, "binding plan flag")
	}

	cfg, err := config.LoadWithViper(v, *configPath, logs.NewConsoleLogger(os.Stderr, logs.Options{Level: config.ParseLevel("warn")}))
	if err != nil {
		return err
	}

	logger := logs.NewConsoleLogger(os.Stderr, logs.Options{
		TimeFormat: cfg.Logging.TimestampFormat,
		NoColor:    !cfg.Logging.Color,
		Level:      config.ParseLevel(cfg.Logging.Level.Sender),
	})

	fs := afero.NewOsFs()
	store, err := props.LoadFile(fs, cfg.Plan.Path)
	if err != nil {
		return err
	}
	plan, err := sampler.Load(store)
	if err != nil {
		return errors.Wrapf(err, "reading test plan %s", cfg.Plan.Path)
	}

	opts := []sender.Option{
		sender.WithHeloName(cfg.SMTP.HeloName),
		sender.WithTimeout(cfg.SMTP.Timeout),
		sender.WithComposeOptions(sender.WithFs(fs)),
	}
	if *dryRun {
		outbox, err := sender.NewOutbox(fs, cfg.Outbox.Directory, cfg.Outbox.Mailbox)
		if err != nil {
			return err
		}
		opts = append(opts, sender.WithOutbox(outbox))
	}
	s := sender.New(logger, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	deliver := s.Send
	if *dryRun {
		deliver = s.DryRun
	}
	res, err := deliver(ctx, plan)
	if err != nil {
		return err
	}

	fmt.Println(describe(res))
	return nil
}

func describe(res sender.Result) string {
	verb := "Sent"
	if res.DryRun {
		verb = "Wrote"
	}
	line := fmt.Sprintf("%v %s %q to %s in %s", emoji.CheckMarkButton, verb, res.Subject, strings.Join(res.Recipients, ", "), res.Duration)
	if res.Size > 0 {
		line += fmt.Sprintf(" (%d bytes)", res.Size)
	}
	return line
}
