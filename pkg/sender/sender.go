package sender

import (
	"context"
	"crypto/tls"
	"net"
	"strings"
	"time"

	"github.com/bjartek/mailprobe/pkg/sampler"
	"github.com/cockroachdb/errors"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/enescakir/emoji"
	"github.com/rs/zerolog"
)

// DefaultHeloName is announced in EHLO when none is configured.
const DefaultHeloName = "localhost"

// Result describes one delivered message.
type Result struct {
	Subject    string
	Recipients []string
	// Size is the message size in bytes, only filled when size statistics are enabled.
	Size     int
	Duration time.Duration
	Raw      []byte
	DryRun   bool
}

// Sender delivers messages built from a sampler configuration.
type Sender struct {
	logger   zerolog.Logger
	heloName string
	timeout  time.Duration
	outbox   *Outbox
	compose  []ComposeOption
	now      func() time.Time
}

// Option configures a Sender.
type Option func(*Sender)

// WithHeloName sets the name announced in EHLO.
func WithHeloName(name string) Option {
	return func(s *Sender) {
		if name != "" {
			s.heloName = name
		}
	}
}

// WithTimeout bounds a whole SMTP conversation. Zero means no limit beyond the context.
func WithTimeout(d time.Duration) Option {
	return func(s *Sender) {
		s.timeout = d
	}
}

// WithOutbox enables dry runs into the given outbox.
func WithOutbox(o *Outbox) Option {
	return func(s *Sender) {
		s.outbox = o
	}
}

// WithComposeOptions passes options through to Compose.
func WithComposeOptions(opts ...ComposeOption) Option {
	return func(s *Sender) {
		s.compose = append(s.compose, opts...)
	}
}

// New creates a Sender.
func New(logger zerolog.Logger, opts ...Option) *Sender {
	s := &Sender{
		logger:   logger,
		heloName: DefaultHeloName,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Outbox returns the configured outbox, or nil.
func (s *Sender) Outbox() *Outbox {
	return s.outbox
}

// Send composes the message and delivers it over SMTP.
func (s *Sender) Send(ctx context.Context, cfg *sampler.Config) (Result, error) {
	from, rcpts, err := envelope(cfg)
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(cfg.Server) == "" {
		return Result{}, ErrNoServer
	}

	start := s.now()
	raw, err := Compose(cfg, s.composeOptions(start)...)
	if err != nil {
		return Result{}, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	logger := s.logger.With().Str("server", cfg.Address()).Logger()
	if err := s.transmit(ctx, logger, cfg, from, rcpts, raw); err != nil {
		logger.Error().Err(err).Msgf("%v Sending failed", emoji.CrossMark)
		return Result{}, err
	}

	res := s.result(cfg, raw, rcpts, start)
	logger.Info().
		Strs("recipients", rcpts).
		Int("size", len(raw)).
		Dur("duration", res.Duration).
		Msgf("%v Message sent", emoji.Envelope)
	return res, nil
}

// DryRun composes the message and appends it to the outbox instead of sending it.
func (s *Sender) DryRun(ctx context.Context, cfg *sampler.Config) (Result, error) {
	if s.outbox == nil {
		return Result{}, ErrNoOutbox
	}
	from, rcpts, err := envelope(cfg)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start := s.now()
	raw, err := Compose(cfg, s.composeOptions(start)...)
	if err != nil {
		return Result{}, err
	}
	if err := s.outbox.Append(from, start, raw); err != nil {
		return Result{}, err
	}

	res := s.result(cfg, raw, rcpts, start)
	res.DryRun = true
	s.logger.Info().
		Str("outbox", s.outbox.Path()).
		Strs("recipients", rcpts).
		Msgf("%v Message written to outbox", emoji.Envelope)
	return res, nil
}

func (s *Sender) composeOptions(now time.Time) []ComposeOption {
	opts := []ComposeOption{WithClock(func() time.Time { return now })}
	return append(opts, s.compose...)
}

func (s *Sender) result(cfg *sampler.Config, raw []byte, rcpts []string, start time.Time) Result {
	res := Result{
		Recipients: rcpts,
		Duration:   s.now().Sub(start),
		Raw:        raw,
	}
	if !cfg.SuppressSubject {
		res.Subject = Subject(cfg, start)
	}
	if cfg.MessageSizeStatistics {
		res.Size = len(raw)
	}
	return res
}

// envelope returns the bare addresses for MAIL FROM and RCPT TO.
func envelope(cfg *sampler.Config) (string, []string, error) {
	if strings.TrimSpace(cfg.MailFrom) == "" {
		return "", nil, ErrNoSender
	}
	from, err := mail.ParseAddress(cfg.MailFrom)
	if err != nil {
		return "", nil, errors.Wrapf(err, "parsing sender %q", cfg.MailFrom)
	}

	var rcpts []string
	for _, field := range []string{cfg.ReceiverTo, cfg.ReceiverCC, cfg.ReceiverBCC} {
		if strings.TrimSpace(field) == "" {
			continue
		}
		list, err := mail.ParseAddressList(field)
		if err != nil {
			return "", nil, errors.Wrapf(err, "parsing recipients %q", field)
		}
		for _, a := range list {
			rcpts = append(rcpts, a.Address)
		}
	}
	if len(rcpts) == 0 {
		return "", nil, ErrNoRecipients
	}
	return from.Address, rcpts, nil
}

func (s *Sender) transmit(ctx context.Context, logger zerolog.Logger, cfg *sampler.Config, from string, rcpts []string, raw []byte) error {
	c, err := s.dial(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	if cfg.UseAuth {
		if err := c.Auth(sasl.NewPlainClient("", cfg.Username, cfg.Password)); err != nil {
			return errors.Wrap(err, "authenticating")
		}
	}

	if err := c.Mail(from, nil); err != nil {
		return errors.Wrapf(err, "MAIL FROM %s", from)
	}
	for _, r := range rcpts {
		if err := c.Rcpt(r, nil); err != nil {
			return errors.Wrapf(err, "RCPT TO %s", r)
		}
	}

	w, err := c.Data()
	if err != nil {
		return errors.Wrap(err, "DATA")
	}
	if _, err := w.Write(raw); err != nil {
		return errors.Wrap(err, "writing message")
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "finishing message")
	}
	if err := c.Quit(); err != nil {
		return errors.Wrap(err, "QUIT")
	}
	return nil
}

// dial returns a client that has greeted the server. With STARTTLS requested the
// connection is upgraded first; when the upgrade fails it is redialled in plain
// text unless STARTTLS is enforced.
func (s *Sender) dial(ctx context.Context, logger zerolog.Logger, cfg *sampler.Config) (*smtp.Client, error) {
	conn, err := s.connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sec := cfg.Security
	if sec.UseSSL || !(sec.UseStartTLS || sec.EnforceStartTLS) {
		return s.hello(logger, cfg, smtp.NewClient(conn))
	}

	c, err := smtp.NewClientStartTLS(conn, tlsConfig(cfg))
	if err == nil {
		c, err = s.hello(logger, cfg, c)
	}
	if err == nil {
		return c, nil
	}
	if sec.EnforceStartTLS {
		return nil, errors.Mark(errors.Wrapf(err, "STARTTLS with %s", cfg.Address()), ErrStartTLSUnavailable)
	}

	logger.Warn().Err(err).Msg("STARTTLS requested but not available, continuing in plain text")
	conn, err = s.connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return s.hello(logger, cfg, smtp.NewClient(conn))
}

// hello announces the HELO name, logging the conversation when debug is enabled.
func (s *Sender) hello(logger zerolog.Logger, cfg *sampler.Config, c *smtp.Client) (*smtp.Client, error) {
	if cfg.EnableDebug {
		c.DebugWriter = newTranscriptWriter(logger.Level(zerolog.DebugLevel))
	}
	if err := c.Hello(s.heloName); err != nil {
		c.Close()
		return nil, errors.Wrap(err, "EHLO")
	}
	return c, nil
}

// connect opens the TCP connection, wrapped in TLS for SSL. The connection is
// closed when ctx is done.
func (s *Sender) connect(ctx context.Context, cfg *sampler.Config) (net.Conn, error) {
	addr := cfg.Address()
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", addr)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})

	if cfg.Security.UseSSL {
		tlsConn := tls.Client(conn, tlsConfig(cfg))
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			stop()
			conn.Close()
			return nil, errors.Wrapf(err, "TLS handshake with %s", addr)
		}
		return tlsConn, nil
	}
	return conn, nil
}

func tlsConfig(cfg *sampler.Config) *tls.Config {
	return &tls.Config{
		ServerName:         strings.TrimSpace(cfg.Server),
		InsecureSkipVerify: cfg.Security.TrustAllCerts, //nolint:gosec // operator opt-in
	}
}
