package ui

import (
	"github.com/bjartek/mailprobe/pkg/config"
	"github.com/bjartek/mailprobe/pkg/history"
	"github.com/bjartek/mailprobe/pkg/sender"
	"github.com/bjartek/mailprobe/pkg/tabbedtui"
	"github.com/rs/zerolog"
)

// NewModel wires the sampler, outbox and logs tabs into one tabbed program model.
func NewModel(cfg *config.Config, s MessageSender, store *history.Store, outbox *sender.Outbox, logger zerolog.Logger, opts ...SamplerOption) tabbedtui.TabbedModel {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if store == nil {
		store = history.NewStore(logger, cfg.UI.History.MaxEntries)
	}

	uiLogger := logger.Level(config.ParseLevel(cfg.Logging.Level.UI))

	tabs := []tabbedtui.TabbedModelPage{
		NewSamplerView(cfg, s, store, uiLogger.With().Str("view", "sampler").Logger(), opts...),
		NewOutboxView(cfg, store, outbox, uiLogger.With().Str("view", "outbox").Logger()),
		NewLogsView(cfg),
	}

	return tabbedtui.NewModel(tabs,
		tabbedtui.WithStyles(GetTabbedStyles()),
		tabbedtui.WithActiveTab(cfg.UI.Layout.DefaultView),
	)
}
