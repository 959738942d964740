// Package consolemail writes outgoing mail to the standard logger; the DEV
// default when no SendGrid key is configured.
package consolemail

import (
	"log"
	"net/mail"
	"strings"

	"github.com/kisanhq/kisan/core"
)

type service struct {
	subjPrefix string
}

var _ core.EmailService = (*service)(nil)

func NewService(appName string) core.EmailService {
	return &service{subjPrefix: "[" + appName + "] "}
}

func (svc service) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		if msg.HasRecipients() && msg.HasContent() {
			log.Printf(
				"email to %s | subject: %s%s\n%s",
				joinAddresses(msg.To), svc.subjPrefix, msg.Subject, msg.BodyStr,
			)
		}
	}
}

func joinAddresses(addrs []mail.Address) string {
	strs := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		strs = append(strs, addr.String())
	}
	return strings.Join(strs, ", ")
}
