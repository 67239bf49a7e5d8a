package notify

import (
	"fmt"
	"html"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

const inviteFileName = "invite.ics"

// Event carries everything the composer needs about a confirmed booking.
// Start is the absolute slot start instant in the booking page's time zone.
type Event struct {
	OwnerName    string
	OwnerEmail   string
	VisitorName  string
	VisitorEmail string
	Start        time.Time
	JoinURL      string
}

// Composer builds the calendar invite and the two notification messages for
// a confirmed booking. The same invite bytes are attached to both messages.
type Composer struct {
	eventDuration time.Duration

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

func NewComposer(eventDuration time.Duration) *Composer {
	return &Composer{
		eventDuration: eventDuration,
		now:           time.Now,
	}
}

// Compose returns the visitor-facing and owner-facing messages, both carrying
// the same calendar invite.
func (c *Composer) Compose(ev Event) (visitor Message, owner Message, err error) {
	invite, err := c.buildInvite(ev)
	if err != nil {
		return Message{}, Message{}, fmt.Errorf("build calendar invite: %w", err)
	}

	attachment := Attachment{Name: inviteFileName, Content: invite}
	when := humanWhen(ev.Start)

	visitor = Message{
		RecipientName:  ev.VisitorName,
		RecipientEmail: ev.VisitorEmail,
		Subject:        fmt.Sprintf("Your video call with %s is confirmed", ev.OwnerName),
		HTMLBody:       messageBody(ev.VisitorName, when, ev.JoinURL, fmt.Sprintf("Questions? Reach %s at %s.", html.EscapeString(ev.OwnerName), html.EscapeString(ev.OwnerEmail))),
		Attachments:    []Attachment{attachment},
	}

	owner = Message{
		RecipientName:  ev.OwnerName,
		RecipientEmail: ev.OwnerEmail,
		Subject:        fmt.Sprintf("New booking: %s on %s", ev.VisitorName, when),
		HTMLBody:       messageBody(ev.OwnerName, when, ev.JoinURL, fmt.Sprintf("Booked by %s (%s).", html.EscapeString(ev.VisitorName), html.EscapeString(ev.VisitorEmail))),
		Attachments:    []Attachment{attachment},
	}

	return visitor, owner, nil
}

// buildInvite renders the RFC 5545 payload. Start and end use the booked
// calendar date, emitted as UTC instants.
func (c *Composer) buildInvite(ev Event) ([]byte, error) {
	if ev.Start.IsZero() {
		return nil, fmt.Errorf("event start is required")
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodRequest)
	cal.SetCalscale("GREGORIAN")
	cal.SetProductId("-//CloseOS//Booking//EN")

	uid := uuid.NewString() + "@closeos"
	event := cal.AddEvent(uid)
	event.SetDtStampTime(c.now().UTC())
	event.SetStartAt(ev.Start.UTC())
	event.SetEndAt(ev.Start.Add(c.eventDuration).UTC())
	event.SetSummary(fmt.Sprintf("Video call: %s and %s", ev.VisitorName, ev.OwnerName))
	event.SetDescription("Join the call: " + ev.JoinURL)
	event.SetLocation(ev.JoinURL)
	event.SetStatus(ical.ObjectStatusConfirmed)
	event.SetSequence(0)

	return []byte(cal.Serialize()), nil
}

func humanWhen(start time.Time) string {
	return start.Format("Monday, January 2 2006 at 15:04")
}

func messageBody(recipientName, when, joinURL, footer string) string {
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <p>Hi %s,</p>
  <p>Your video call is scheduled for <strong>%s</strong>.</p>
  <div style="background: #f0f4f8; border-radius: 8px; padding: 16px; margin: 16px 0;">
    <p style="margin: 0;">Join link: <a href="%s">%s</a></p>
  </div>
  <p style="color: #52606d; font-size: 13px;">%s</p>
</body>
</html>`,
		html.EscapeString(recipientName), when, joinURL, joinURL, footer)
}
