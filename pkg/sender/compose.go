// Package sender turns a sampler configuration into an RFC 5322 message and delivers it,
// either over SMTP or into a local mbox outbox.
package sender

import (
	"bytes"
	"io"
	"mime"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bjartek/mailprobe/pkg/argument"
	"github.com/bjartek/mailprobe/pkg/sampler"
	"github.com/cockroachdb/errors"
	"github.com/emersion/go-message/mail"
	"github.com/spf13/afero"
)

type composeOptions struct {
	fs        afero.Fs
	now       func() time.Time
	messageID string
}

// ComposeOption configures Compose.
type ComposeOption func(*composeOptions)

// WithFs reads attachments and EML files from fs instead of the OS filesystem.
func WithFs(fs afero.Fs) ComposeOption {
	return func(o *composeOptions) {
		o.fs = fs
	}
}

// WithClock overrides the time used for the Date header and the subject timestamp.
func WithClock(now func() time.Time) ComposeOption {
	return func(o *composeOptions) {
		o.now = now
	}
}

// WithMessageID sets a fixed Message-ID instead of generating one.
func WithMessageID(id string) ComposeOption {
	return func(o *composeOptions) {
		o.messageID = id
	}
}

func newComposeOptions(opts []ComposeOption) *composeOptions {
	o := &composeOptions{
		fs:  afero.NewOsFs(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Compose builds the message that Send would transmit.
func Compose(cfg *sampler.Config, opts ...ComposeOption) ([]byte, error) {
	o := newComposeOptions(opts)
	if cfg.UseEML {
		return composeEML(cfg, o)
	}

	var h mail.Header
	now := o.now()
	h.SetDate(now)

	from, err := parseAddresses("From", cfg.MailFrom)
	if err != nil {
		return nil, err
	}
	h.SetAddressList("From", from)

	for _, field := range []struct {
		key   string
		value string
	}{
		{"To", cfg.ReceiverTo},
		{"Cc", cfg.ReceiverCC},
	} {
		if strings.TrimSpace(field.value) == "" {
			continue
		}
		list, err := parseAddresses(field.key, field.value)
		if err != nil {
			return nil, err
		}
		h.SetAddressList(field.key, list)
	}

	if o.messageID != "" {
		h.SetMessageID(o.messageID)
	} else if err := h.GenerateMessageID(); err != nil {
		return nil, errors.Wrap(err, "generating message id")
	}

	if !cfg.SuppressSubject {
		h.SetSubject(Subject(cfg, now))
	}

	addHeaderFields(&h, cfg.HeaderFields)

	var buf bytes.Buffer
	attachments := cfg.Attachments()
	if len(attachments) == 0 {
		h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
		w, err := mail.CreateSingleInlineWriter(&buf, h)
		if err != nil {
			return nil, errors.Wrap(err, "creating message")
		}
		if _, err := io.WriteString(w, cfg.Body); err != nil {
			return nil, errors.Wrap(err, "writing body")
		}
		if err := w.Close(); err != nil {
			return nil, errors.Wrap(err, "closing message")
		}
		return buf.Bytes(), nil
	}

	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, errors.Wrap(err, "creating message")
	}
	if err := writeBody(mw, cfg.Body); err != nil {
		return nil, err
	}
	for _, path := range attachments {
		if err := writeAttachment(mw, o.fs, path); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, errors.Wrap(err, "closing message")
	}
	return buf.Bytes(), nil
}

// Subject returns the subject line, with the millisecond timestamp appended when enabled.
func Subject(cfg *sampler.Config, now time.Time) string {
	if !cfg.IncludeTimestamp {
		return cfg.Subject
	}
	return cfg.Subject + " " + strconv.FormatInt(now.UnixMilli(), 10)
}

func parseAddresses(field, value string) ([]*mail.Address, error) {
	list, err := mail.ParseAddressList(value)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s addresses %q", field, value)
	}
	return list, nil
}

// addHeaderFields writes the extra header fields exactly as entered, in order.
// Names that cannot form a header line are skipped. The header writes its fields
// last-added first, so they are added in reverse.
func addHeaderFields(h *mail.Header, fields argument.Arguments) {
	for i := len(fields) - 1; i >= 0; i-- {
		f := fields[i]
		if f == nil || !ValidFieldName(f.Name()) {
			continue
		}
		h.AddRaw([]byte(headerLine(f.Name(), f.Value())))
	}
}

func headerLine(name, value string) string {
	return name + ": " + encodeValue(value) + "\r\n"
}

func encodeValue(value string) string {
	value = strings.NewReplacer("\r", " ", "\n", " ").Replace(value)
	return mime.QEncoding.Encode("utf-8", value)
}

// ValidFieldName reports whether name can be used as a header field name:
// printable ASCII except colon, at least one character.
func ValidFieldName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < 33 || c > 126 || c == ':' {
			return false
		}
	}
	return true
}

func writeBody(mw *mail.Writer, body string) error {
	iw, err := mw.CreateInline()
	if err != nil {
		return errors.Wrap(err, "creating inline part")
	}
	var ih mail.InlineHeader
	ih.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	pw, err := iw.CreatePart(ih)
	if err != nil {
		return errors.Wrap(err, "creating body part")
	}
	if _, err := io.WriteString(pw, body); err != nil {
		return errors.Wrap(err, "writing body")
	}
	if err := pw.Close(); err != nil {
		return errors.Wrap(err, "closing body part")
	}
	if err := iw.Close(); err != nil {
		return errors.Wrap(err, "closing inline part")
	}
	return nil
}

func writeAttachment(mw *mail.Writer, fs afero.Fs, path string) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return errors.Wrapf(err, "reading attachment %s", path)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, params = "application/octet-stream", nil
	}

	var ah mail.AttachmentHeader
	ah.SetContentType(mediaType, params)
	ah.SetFilename(filepath.Base(path))

	w, err := mw.CreateAttachment(ah)
	if err != nil {
		return errors.Wrapf(err, "creating attachment %s", path)
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrapf(err, "writing attachment %s", path)
	}
	if err := w.Close(); err != nil {
		return errors.Wrapf(err, "closing attachment %s", path)
	}
	return nil
}

// composeEML sends a stored message file as is, with the extra header fields in front.
func composeEML(cfg *sampler.Config, o *composeOptions) ([]byte, error) {
	path := strings.TrimSpace(cfg.EMLMessage)
	if path == "" {
		return nil, ErrNoEMLFile
	}
	data, err := afero.ReadFile(o.fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading EML message %s", path)
	}

	var buf bytes.Buffer
	for _, f := range cfg.HeaderFields {
		if f == nil || !ValidFieldName(f.Name()) {
			continue
		}
		buf.WriteString(headerLine(f.Name(), f.Value()))
	}
	buf.Write(data)
	return buf.Bytes(), nil
}
