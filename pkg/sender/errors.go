package sender

import "github.com/cockroachdb/errors"

var (
	ErrNoServer            = errors.New("no SMTP server configured")
	ErrNoSender            = errors.New("no sender address configured")
	ErrNoRecipients        = errors.New("no recipients configured")
	ErrNoEMLFile           = errors.New("EML message enabled but no file selected")
	ErrNoOutbox            = errors.New("no outbox configured for dry runs")
	ErrStartTLSUnavailable = errors.New("STARTTLS unavailable")
)
