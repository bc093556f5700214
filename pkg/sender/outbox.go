package sender

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/emersion/go-imap/utf7"
	"github.com/emersion/go-mbox"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-message/textproto"
	"github.com/spf13/afero"
)

// DefaultMailbox names the outbox file when no mailbox is configured.
const DefaultMailbox = "Outbox"

// Outbox is a local mbox file that receives dry-run deliveries.
type Outbox struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
}

// StoredMessage is one message read back from the outbox.
type StoredMessage struct {
	Subject string
	From    string
	Raw     []byte
}

// NewOutbox returns the outbox for mailbox inside dir. The file name is the
// IMAP UTF-7 encoding of the mailbox name.
func NewOutbox(fs afero.Fs, dir, mailbox string) (*Outbox, error) {
	if mailbox == "" {
		mailbox = DefaultMailbox
	}
	name, err := utf7.Encoding.NewEncoder().String(mailbox)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding mailbox name %q", mailbox)
	}
	return &Outbox{
		fs:   fs,
		path: filepath.Join(dir, name),
	}, nil
}

// Path returns the mbox file location.
func (o *Outbox) Path() string {
	return o.path
}

// Append adds raw as a new message at the end of the mbox file.
func (o *Outbox) Append(from string, t time.Time, raw []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.fs.MkdirAll(filepath.Dir(o.path), 0o755); err != nil {
		return errors.Wrapf(err, "creating outbox directory for %s", o.path)
	}
	f, err := o.fs.OpenFile(o.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o660)
	if err != nil {
		return errors.Wrapf(err, "opening outbox %s", o.path)
	}
	defer f.Close()

	mw := mbox.NewWriter(f)
	w, err := mw.CreateMessage(from, t)
	if err != nil {
		return errors.Wrapf(err, "starting message in %s", o.path)
	}
	if _, err := w.Write(bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))); err != nil {
		return errors.Wrapf(err, "writing message to %s", o.path)
	}
	if err := mw.Close(); err != nil {
		return errors.Wrapf(err, "finishing message in %s", o.path)
	}
	return nil
}

// Messages reads every message in the outbox, oldest first. A missing file is an empty outbox.
func (o *Outbox) Messages() ([]StoredMessage, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	f, err := o.fs.Open(o.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "opening outbox %s", o.path)
	}
	defer f.Close()

	var out []StoredMessage
	r := mbox.NewReader(f)
	for {
		mr, err := r.NextMessage()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, errors.Wrapf(err, "reading outbox %s", o.path)
		}
		raw, err := io.ReadAll(mr)
		if err != nil {
			return out, errors.Wrapf(err, "reading message %d in %s", len(out), o.path)
		}
		out = append(out, parseStored(raw))
	}
	return out, nil
}

func parseStored(raw []byte) StoredMessage {
	msg := StoredMessage{Raw: raw}
	th, err := textproto.ReadHeader(bufio.NewReader(bytes.NewReader(raw)))
	if err != nil {
		return msg
	}
	h := mail.Header{}
	h.Header.Header = th
	if subject, err := h.Subject(); err == nil {
		msg.Subject = subject
	}
	if from, err := h.AddressList("From"); err == nil && len(from) > 0 {
		msg.From = from[0].Address
	}
	return msg
}
