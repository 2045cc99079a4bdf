package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"
)

var otpTemplate = template.Must(template.New("otp").Parse(`<div style="font-family:Arial,sans-serif;max-width:480px;margin:0 auto">
<h2 style="color:#2c3e50">GearGuard verification code</h2>
<p>Use the code below to finish creating your account.</p>
<p style="font-size:32px;font-weight:bold;letter-spacing:6px;color:#3498db">{{.Code}}</p>
<p>This code expires in {{.Minutes}} minutes. If you did not request it, ignore this email.</p>
</div>`))

// SendOTP queues the signup verification email.
func (c *Client) SendOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	minutes := int(ttl.Minutes())

	var html bytes.Buffer
	if err := otpTemplate.Execute(&html, struct {
		Code    string
		Minutes int
	}{code, minutes}); err != nil {
		return fmt.Errorf("failed to render otp mail: %w", err)
	}

	return c.Enqueue(Message{
		To:          []Recipient{{Email: email}},
		Subject:     "Your GearGuard verification code",
		HTMLContent: html.String(),
		TextContent: fmt.Sprintf("Your GearGuard verification code is %s. It expires in %d minutes.", code, minutes),
	})
}
