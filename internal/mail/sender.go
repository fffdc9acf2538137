// Package mail defines the outbound email collaborator: the message
// shape, the Sender interface the services depend on, and the template
// constructors for the guardian-facing emails.  Delivery failures are
// always non-fatal to the caller's state changes; senders report them as
// plain errors and the owning service decides whether to log or retry.
package mail

import (
	"context"
	"fmt"
	"strings"
)

// Template names understood by the delivery pipeline.
const (
	TemplateInvitation   = "registration-invitation"
	TemplateReminder     = "registration-reminder"
	TemplateConfirmation = "registration-confirmation"
)

// Message is one outbound transactional email.  ID is a correlation id
// carried through the queue into delivery logs; Template names the email
// kind for downstream consumers that render their own bodies.
type Message struct {
	ID       string            `json:"id"`
	Template string            `json:"template"`
	To       string            `json:"to"`
	ToName   string            `json:"to_name,omitempty"`
	Subject  string            `json:"subject"`
	Text     string            `json:"text,omitempty"`
	HTML     string            `json:"html,omitempty"`
	Params   map[string]string `json:"params,omitempty"`
}

// Sender hands a message to the delivery pipeline.  Send returns once the
// message is durably accepted for delivery (not once it reaches the
// recipient); an error means the message was not accepted and the caller
// may retry on its own schedule.  Implementations must respect ctx.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// RegistrationLink builds the guardian-facing registration URL for a
// token.
func RegistrationLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/register/" + token
}

// NewInvitation builds the invitation email sent right after ingestion.
// One message covers all seats of the purchase; each link completes one
// seat's registration.
func NewInvitation(id, to, toName, campName string, links []string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", toName)
	fmt.Fprintf(&b, "Thank you for your purchase for %s.\n", campName)
	b.WriteString("Please complete registration for each seat using the links below:\n\n")
	for _, l := range links {
		fmt.Fprintf(&b, "  %s\n", l)
	}
	b.WriteString("\nSee you at camp!\n")
	return Message{
		ID:       id,
		Template: TemplateInvitation,
		To:       to,
		ToName:   toName,
		Subject:  fmt.Sprintf("Complete your registration for %s", campName),
		Text:     b.String(),
		Params:   map[string]string{"camp": campName},
	}
}

// NewReminder builds the cadence reminder email for one still-open seat.
func NewReminder(id, to, toName, campName, link string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", toName)
	fmt.Fprintf(&b, "This is a reminder that a registration for %s is still incomplete.\n", campName)
	fmt.Fprintf(&b, "Finish it here:\n\n  %s\n", link)
	return Message{
		ID:       id,
		Template: TemplateReminder,
		To:       to,
		ToName:   toName,
		Subject:  fmt.Sprintf("Reminder: finish your %s registration", campName),
		Text:     b.String(),
		Params:   map[string]string{"camp": campName},
	}
}

// NewConfirmation builds the email sent after a registration form is
// submitted.
func NewConfirmation(id, to, toName, campName string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", toName)
	fmt.Fprintf(&b, "Your registration for %s is complete. You're all set!\n", campName)
	return Message{
		ID:       id,
		Template: TemplateConfirmation,
		To:       to,
		ToName:   toName,
		Subject:  fmt.Sprintf("Registration confirmed for %s", campName),
		Text:     b.String(),
		Params:   map[string]string{"camp": campName},
	}
}
