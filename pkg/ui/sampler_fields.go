package ui

import (
	"github.com/bjartek/mailprobe/pkg/sampler"
	"github.com/charmbracelet/bubbles/textinput"
)

type fieldKind int

const (
	textField fieldKind = iota
	checkField
	bodyField
	headersField
)

type fieldID int

const (
	fieldServer fieldID = iota
	fieldPort
	fieldMailFrom
	fieldReceiverTo
	fieldReceiverCC
	fieldReceiverBCC
	fieldUseAuth
	fieldUsername
	fieldPassword
	fieldUseSSL
	fieldUseStartTLS
	fieldEnforceStartTLS
	fieldTrustAllCerts
	fieldSubject
	fieldSuppressSubject
	fieldIncludeTimestamp
	fieldHeaders
	fieldBody
	fieldAttachments
	fieldUseEML
	fieldEMLMessage
	fieldSizeStatistics
	fieldEnableDebug
)

// samplerField is one focusable row of the sampler form. Text fields own an input,
// checkboxes read and write the config directly.
type samplerField struct {
	id      fieldID
	section string
	label   string
	kind    fieldKind
	input   textinput.Model
	text    func(*sampler.Config) *string
	flag    func(*sampler.Config) *bool
	enabled func(*sampler.Config) bool
}

func always(*sampler.Config) bool { return true }

func newSamplerFields() []samplerField {
	fields := []samplerField{
		{id: fieldServer, section: "Server settings", label: "Server", kind: textField,
			text: func(c *sampler.Config) *string { return &c.Server }},
		{id: fieldPort, section: "Server settings", label: "Port", kind: textField,
			text: func(c *sampler.Config) *string { return &c.Port }},

		{id: fieldMailFrom, section: "Mail settings", label: "Address from", kind: textField,
			text: func(c *sampler.Config) *string { return &c.MailFrom }},
		{id: fieldReceiverTo, section: "Mail settings", label: "Address to", kind: textField,
			text: func(c *sampler.Config) *string { return &c.ReceiverTo }},
		{id: fieldReceiverCC, section: "Mail settings", label: "Address to cc", kind: textField,
			text: func(c *sampler.Config) *string { return &c.ReceiverCC }},
		{id: fieldReceiverBCC, section: "Mail settings", label: "Address to bcc", kind: textField,
			text: func(c *sampler.Config) *string { return &c.ReceiverBCC }},

		{id: fieldUseAuth, section: "Auth settings", label: "Use auth", kind: checkField,
			flag: func(c *sampler.Config) *bool { return &c.UseAuth }},
		{id: fieldUsername, section: "Auth settings", label: "Username", kind: textField,
			text:    func(c *sampler.Config) *string { return &c.Username },
			enabled: func(c *sampler.Config) bool { return c.UseAuth }},
		{id: fieldPassword, section: "Auth settings", label: "Password", kind: textField,
			text:    func(c *sampler.Config) *string { return &c.Password },
			enabled: func(c *sampler.Config) bool { return c.UseAuth }},

		{id: fieldUseSSL, section: "Security settings", label: "Use SSL", kind: checkField,
			flag: func(c *sampler.Config) *bool { return &c.Security.UseSSL }},
		{id: fieldUseStartTLS, section: "Security settings", label: "Use StartTLS", kind: checkField,
			flag: func(c *sampler.Config) *bool { return &c.Security.UseStartTLS }},
		{id: fieldEnforceStartTLS, section: "Security settings", label: "Enforce StartTLS", kind: checkField,
			flag:    func(c *sampler.Config) *bool { return &c.Security.EnforceStartTLS },
			enabled: func(c *sampler.Config) bool { return c.Security.UseStartTLS }},
		{id: fieldTrustAllCerts, section: "Security settings", label: "Trust all certificates", kind: checkField,
			flag: func(c *sampler.Config) *bool { return &c.Security.TrustAllCerts },
			enabled: func(c *sampler.Config) bool {
				return c.Security.UseSSL || c.Security.UseStartTLS
			}},

		{id: fieldSubject, section: "Message settings", label: "Subject", kind: textField,
			text:    func(c *sampler.Config) *string { return &c.Subject },
			enabled: func(c *sampler.Config) bool { return !c.SuppressSubject }},
		{id: fieldSuppressSubject, section: "Message settings", label: "Suppress subject header", kind: checkField,
			flag: func(c *sampler.Config) *bool { return &c.SuppressSubject }},
		{id: fieldIncludeTimestamp, section: "Message settings", label: "Include timestamp in subject", kind: checkField,
			flag:    func(c *sampler.Config) *bool { return &c.IncludeTimestamp },
			enabled: func(c *sampler.Config) bool { return !c.SuppressSubject }},
		{id: fieldHeaders, section: "Message settings", label: "Header fields", kind: headersField},
		{id: fieldBody, section: "Message settings", label: "Message", kind: bodyField,
			enabled: func(c *sampler.Config) bool { return !c.UseEML }},
		{id: fieldAttachments, section: "Message settings", label: "Attach file(s)", kind: textField,
			text:    func(c *sampler.Config) *string { return &c.AttachFiles },
			enabled: func(c *sampler.Config) bool { return !c.UseEML }},
		{id: fieldUseEML, section: "Message settings", label: "Send .eml", kind: checkField,
			flag: func(c *sampler.Config) *bool { return &c.UseEML }},
		{id: fieldEMLMessage, section: "Message settings", label: ".eml file", kind: textField,
			text:    func(c *sampler.Config) *string { return &c.EMLMessage },
			enabled: func(c *sampler.Config) bool { return c.UseEML }},

		{id: fieldSizeStatistics, section: "Additional settings", label: "Calculate message size", kind: checkField,
			flag: func(c *sampler.Config) *bool { return &c.MessageSizeStatistics }},
		{id: fieldEnableDebug, section: "Additional settings", label: "Enable debug logging", kind: checkField,
			flag: func(c *sampler.Config) *bool { return &c.EnableDebug }},
	}

	for i := range fields {
		if fields[i].enabled == nil {
			fields[i].enabled = always
		}
		if fields[i].kind != textField {
			continue
		}
		in := textinput.New()
		in.Prompt = ""
		in.Width = 40
		switch fields[i].id {
		case fieldPort:
			in.Placeholder = sampler.DefaultPort
			in.Width = 6
		case fieldPassword:
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		case fieldAttachments:
			in.Placeholder = "file1" + sampler.FilenameSeparator + "file2"
		case fieldReceiverTo, fieldReceiverCC, fieldReceiverBCC:
			in.Placeholder = "a@example.com, b@example.com"
		}
		fields[i].input = in
	}
	return fields
}

// toggle flips a checkbox and keeps the security choices consistent
func toggle(f samplerField, cfg *sampler.Config) {
	p := f.flag(cfg)
	*p = !*p

	switch f.id {
	case fieldUseSSL:
		if cfg.Security.UseSSL {
			cfg.Security.UseStartTLS = false
			cfg.Security.EnforceStartTLS = false
		}
	case fieldUseStartTLS:
		if cfg.Security.UseStartTLS {
			cfg.Security.UseSSL = false
		} else {
			cfg.Security.EnforceStartTLS = false
		}
	}
	if !cfg.Security.UseSSL && !cfg.Security.UseStartTLS {
		cfg.Security.TrustAllCerts = false
	}
}
