// Package sampler holds the configuration of the SMTP test action and its mapping
// to named string properties.
package sampler

import (
	"strings"

	"github.com/bjartek/mailprobe/pkg/argument"
)

// FilenameSeparator separates attachment paths in the attachments field.
const FilenameSeparator = ";"

// DefaultPort is shown next to the port field when it is left empty.
const DefaultPort = "25"

// SecuritySettings controls the transport security of the connection.
type SecuritySettings struct {
	UseSSL          bool
	UseStartTLS     bool
	EnforceStartTLS bool
	TrustAllCerts   bool
}

// Config is everything an operator can set for one SMTP test action.
type Config struct {
	Server string
	Port   string

	MailFrom    string
	ReceiverTo  string
	ReceiverCC  string
	ReceiverBCC string

	UseAuth  bool
	Username string
	Password string

	Security SecuritySettings

	Subject          string
	SuppressSubject  bool
	IncludeTimestamp bool
	Body             string
	AttachFiles      string
	UseEML           bool
	EMLMessage       string
	HeaderFields     argument.Arguments

	MessageSizeStatistics bool
	EnableDebug           bool
}

// DefaultConfig returns a blank configuration, the state of a freshly reset panel.
func DefaultConfig() *Config {
	return &Config{
		HeaderFields: argument.Arguments{},
	}
}

// Clear resets every field and drops all header fields.
func (c *Config) Clear() {
	*c = *DefaultConfig()
}

// AppendAttachment adds a path to the attachment list.
func (c *Config) AppendAttachment(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	current := strings.TrimSpace(c.AttachFiles)
	if current == "" {
		c.AttachFiles = path
		return
	}
	c.AttachFiles = current + FilenameSeparator + path
}

// Attachments splits the attachment list, skipping blank entries.
func (c *Config) Attachments() []string {
	var out []string
	for _, p := range strings.Split(c.AttachFiles, FilenameSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Address returns host:port, using DefaultPort when no port is set.
func (c *Config) Address() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = DefaultPort
	}
	return strings.TrimSpace(c.Server) + ":" + port
}

// Recipients returns every envelope recipient from To, CC and BCC in that order.
// Each field is a comma separated list.
func (c *Config) Recipients() []string {
	var out []string
	for _, field := range []string{c.ReceiverTo, c.ReceiverCC, c.ReceiverBCC} {
		out = append(out, SplitAddresses(field)...)
	}
	return out
}

// SplitAddresses splits a comma separated address field, skipping blanks.
func SplitAddresses(field string) []string {
	var out []string
	for _, a := range strings.Split(field, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Clone returns a deep copy, safe to hand to a sender goroutine.
func (c *Config) Clone() *Config {
	out := *c
	out.HeaderFields = make(argument.Arguments, 0, len(c.HeaderFields))
	for _, a := range c.HeaderFields {
		out.HeaderFields = append(out.HeaderFields, argument.NewArgumentWithMetadata(a.Name(), a.Value(), a.Metadata()))
	}
	return &out
}
