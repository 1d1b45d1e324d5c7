package models

import (
	"regexp"
	"strings"
)

// Event kinds an inbound message can classify to. The conversation
// service dispatches on (state, kind) only.
const (
	EventDocument = "document"
	EventCommand  = "command"
	EventChoice   = "choice"
	EventEmail    = "email"
	EventGreeting = "greeting"
	EventText     = "text"
)

// Command keywords recognized across states.
const (
	CommandRestart = "restart"
	CommandNew     = "new"
	CommandSkip    = "skip"
	CommandCancel  = "cancel"
	CommandUpgrade = "upgrade"
	CommandView    = "view"
	CommandPaid    = "paid"
	CommandLink    = "link"
	CommandHelp    = "help"
	CommandAbout   = "about"
)

// InboundMessage is one classified webhook delivery from the messaging
// channel. Attachment fields are only set when MediaCount > 0.
type InboundMessage struct {
	From        string
	Body        string
	MediaCount  int
	MediaURL    string
	ContentType string

	Kind    string // one of the Event constants
	Command string // set when Kind == EventCommand
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var commandAliases = map[string]string{
	"restart":      CommandRestart,
	"start over":   CommandRestart,
	"new":          CommandNew,
	"skip":         CommandSkip,
	"cancel":       CommandCancel,
	"upgrade":      CommandUpgrade,
	"view":         CommandView,
	"show review":  CommandView,
	"paid":         CommandPaid,
	"done":         CommandPaid,
	"i have paid":  CommandPaid,
	"link":         CommandLink,
	"payment link": CommandLink,
	"help":         CommandHelp,
	"about":        CommandAbout,
}

var greetings = map[string]bool{
	"hi":           true,
	"hello":        true,
	"hey":          true,
	"start":        true,
	"good morning": true,
	"good evening": true,
}

// Classify fills Kind (and Command) from the raw payload. Classification
// is case-insensitive on the trimmed body; a media attachment wins over
// any text that came with it.
func (m *InboundMessage) Classify() {
	if m.MediaCount > 0 {
		m.Kind = EventDocument
		return
	}

	body := strings.ToLower(strings.TrimSpace(m.Body))

	if cmd, ok := commandAliases[body]; ok {
		m.Kind = EventCommand
		m.Command = cmd
		return
	}

	switch body {
	case "1", "2", "basic", "free", "basic review", "advanced", "advanced review":
		m.Kind = EventChoice
		return
	}

	if emailPattern.MatchString(strings.TrimSpace(m.Body)) {
		m.Kind = EventEmail
		return
	}

	if greetings[body] {
		m.Kind = EventGreeting
		return
	}

	m.Kind = EventText
}

// IsBasicChoice reports whether the body selects the basic review option.
func (m *InboundMessage) IsBasicChoice() bool {
	body := strings.ToLower(strings.TrimSpace(m.Body))
	return body == "1" || body == "basic" || body == "free" || body == "basic review"
}

// IsAdvancedChoice reports whether the body selects the advanced review option.
func (m *InboundMessage) IsAdvancedChoice() bool {
	body := strings.ToLower(strings.TrimSpace(m.Body))
	return body == "2" || body == "advanced" || body == "advanced review"
}

// AllowedContentTypes maps the accepted CV MIME types to file extensions.
// WhatsApp Business caps documents at 16MB.
var AllowedContentTypes = map[string]string{
	"application/pdf": "pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
	"application/msword": "doc",
}

// IsSupportedDocument reports whether the attachment is a CV format we accept.
func IsSupportedDocument(contentType string) bool {
	_, ok := AllowedContentTypes[contentType]
	return ok
}
