package notify

import (
	"bytes"
	"fmt"
	"text/template"
	"time"
)

type emailTemplate struct {
	subject *template.Template
	body    *template.Template
}

var funcs = template.FuncMap{
	"money": func(v int64) string { return fmt.Sprintf("%d VND", v) },
	"date":  func(t time.Time) string { return t.Format("02/01/2006") },
}

var templates = map[string]emailTemplate{
	TypeBookingConfirmation: mustTemplate(
		`Booking confirmation - {{.BookingCode}}`,
		`Hello {{.CustomerName}},

Thank you for booking with TourBooking.

Booking code: {{.BookingCode}}
Tour: {{.TourName}}
Dates: {{date .StartDate}} - {{date .EndDate}}
Participants: {{.TotalParticipants}}
Total: {{money .Total}}
Deposit required: {{money .DepositRequired}}
Payment method: {{.PaymentMethod}}

Your booking is pending until the deposit is received.
`),
	TypePaymentConfirmation: mustTemplate(
		`Payment confirmation - {{.TransactionID}}`,
		`Hello {{.CustomerName}},

We received your payment for booking {{.BookingCode}}.

Transaction: {{.TransactionID}}
Amount: {{money .TransactionAmount}}
Paid so far: {{money .PaidAmount}}
Remaining: {{money .RemainingAmount}}
`),
	TypeBookingCancellation: mustTemplate(
		`Booking cancellation - {{.BookingCode}}`,
		`Hello {{.CustomerName}},

Your booking {{.BookingCode}} for {{.TourName}} has been cancelled.
{{if .Reason}}
Reason: {{.Reason}}{{end}}
Refund: {{money .RefundAmount}}{{if .RefundPolicy}} ({{.RefundPolicy}}){{end}}
`),
}

func mustTemplate(subject, body string) emailTemplate {
	return emailTemplate{
		subject: template.Must(template.New("subject").Funcs(funcs).Parse(subject)),
		body:    template.Must(template.New("body").Funcs(funcs).Parse(body)),
	}
}

// Render returns the subject and plain-text body for a task type.
func Render(taskType string, p EmailPayload) (string, string, error) {
	t, ok := templates[taskType]
	if !ok {
		return "", "", fmt.Errorf("no template for %q", taskType)
	}

	var subject, body bytes.Buffer
	if err := t.subject.Execute(&subject, p); err != nil {
		return "", "", err
	}
	if err := t.body.Execute(&body, p); err != nil {
		return "", "", err
	}
	return subject.String(), body.String(), nil
}
