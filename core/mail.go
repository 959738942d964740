package core

import "net/mail"

type (
	// EmailMessage is a plain-text mail to be sent by an EmailService.
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Subject string
		BodyStr string
	}

	EmailService interface {
		// SendMessages sends the given messages asynchronously; delivery
		// failures are logged, not returned.
		SendMessages(messages ...*EmailMessage)
	}
)

func (m EmailMessage) HasRecipients() bool {
	return len(m.To) > 0 || len(m.Cc) > 0
}

func (m EmailMessage) HasContent() bool {
	return m.BodyStr != ""
}
