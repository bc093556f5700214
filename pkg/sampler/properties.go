package sampler

import (
	"encoding/json"
	"strconv"

	"github.com/bjartek/mailprobe/pkg/argument"
	"github.com/bjartek/mailprobe/pkg/props"
	"github.com/cockroachdb/errors"
)

// Property names of a saved SMTP test action.
const (
	PropServer                = "SMTPSampler.server"
	PropPort                  = "SMTPSampler.port"
	PropMailFrom              = "SMTPSampler.mailFrom"
	PropReceiverTo            = "SMTPSampler.receiverTo"
	PropReceiverCC            = "SMTPSampler.receiverCC"
	PropReceiverBCC           = "SMTPSampler.receiverBCC"
	PropSubject               = "SMTPSampler.subject"
	PropSuppressSubject       = "SMTPSampler.suppressSubject"
	PropIncludeTimestamp      = "SMTPSampler.include_timestamp"
	PropMessage               = "SMTPSampler.message"
	PropAttachFile            = "SMTPSampler.attachFile"
	PropUseEML                = "SMTPSampler.use_eml"
	PropEMLMessage            = "SMTPSampler.emlMessageToSend"
	PropUseAuth               = "SMTPSampler.useAuth"
	PropUsername              = "SMTPSampler.username"
	PropPassword              = "SMTPSampler.password"
	PropUseSSL                = "SMTPSampler.useSSL"
	PropUseStartTLS           = "SMTPSampler.useStartTLS"
	PropEnforceStartTLS       = "SMTPSampler.enforceStartTLS"
	PropTrustAllCerts         = "SMTPSampler.trustAllCerts"
	PropMessageSizeStatistics = "SMTPSampler.messageSizeStatistics"
	PropEnableDebug           = "SMTPSampler.enableDebug"
	PropHeaderFields          = "SMTPSampler.headerFields"
)

// Save writes every field to the store.
func (c *Config) Save(store props.Store) error {
	headers := c.HeaderFields
	if headers == nil {
		headers = argument.Arguments{}
	}
	encoded, err := json.Marshal(headers)
	if err != nil {
		return errors.Wrap(err, "encoding header fields")
	}

	for name, value := range c.stringProps() {
		store.Set(name, *value)
	}
	for name, value := range c.boolProps() {
		store.Set(name, strconv.FormatBool(*value))
	}
	store.Set(PropHeaderFields, string(encoded))
	return nil
}

// Load reads a configuration from the store. Missing properties keep their
// defaults; unparsable booleans read as false.
func Load(store props.Store) (*Config, error) {
	c := DefaultConfig()
	for name, value := range c.stringProps() {
		*value = store.Get(name)
	}
	for name, value := range c.boolProps() {
		*value, _ = strconv.ParseBool(store.Get(name))
	}

	if raw := store.Get(PropHeaderFields); raw != "" {
		var headers argument.Arguments
		if err := json.Unmarshal([]byte(raw), &headers); err != nil {
			return nil, errors.Wrapf(err, "reading %s", PropHeaderFields)
		}
		c.HeaderFields = headers
	}
	return c, nil
}

func (c *Config) stringProps() map[string]*string {
	return map[string]*string{
		PropServer:      &c.Server,
		PropPort:        &c.Port,
		PropMailFrom:    &c.MailFrom,
		PropReceiverTo:  &c.ReceiverTo,
		PropReceiverCC:  &c.ReceiverCC,
		PropReceiverBCC: &c.ReceiverBCC,
		PropSubject:     &c.Subject,
		PropMessage:     &c.Body,
		PropAttachFile:  &c.AttachFiles,
		PropEMLMessage:  &c.EMLMessage,
		PropUsername:    &c.Username,
		PropPassword:    &c.Password,
	}
}

func (c *Config) boolProps() map[string]*bool {
	return map[string]*bool{
		PropSuppressSubject:       &c.SuppressSubject,
		PropIncludeTimestamp:      &c.IncludeTimestamp,
		PropUseEML:                &c.UseEML,
		PropUseAuth:               &c.UseAuth,
		PropUseSSL:                &c.Security.UseSSL,
		PropUseStartTLS:           &c.Security.UseStartTLS,
		PropEnforceStartTLS:       &c.Security.EnforceStartTLS,
		PropTrustAllCerts:         &c.Security.TrustAllCerts,
		PropMessageSizeStatistics: &c.MessageSizeStatistics,
		PropEnableDebug:           &c.EnableDebug,
	}
}
