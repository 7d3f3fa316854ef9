// Package email sends transactional mail over SMTP.
package email

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"
)

type Client struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewClient(host string, port int, username, password, from string) *Client {
	return &Client{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Configured returns true if an SMTP host is set.
func (c *Client) Configured() bool {
	return c.host != ""
}

// Send delivers a plain-text message to a single recipient.
func (c *Client) Send(to, subject, body string) error {
	if !c.Configured() {
		return fmt.Errorf("email client not configured: missing SMTP host")
	}

	msg := strings.Join([]string{
		"From: " + c.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", c.host, c.port)
	var auth smtp.Auth
	if c.username != "" {
		auth = smtp.PlainAuth("", c.username, c.password, c.host)
	}

	if err := smtp.SendMail(addr, auth, c.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// SendSubscriptionConfirmation sends the welcome message for a new subscription.
func (c *Client) SendSubscriptionConfirmation(to, plan string, endDate *time.Time) error {
	subject := "Your Larder subscription is active"

	var sb strings.Builder
	fmt.Fprintf(&sb, "Thanks for subscribing to Larder!\n\nPlan: %s\n", plan)
	if endDate != nil {
		fmt.Fprintf(&sb, "Valid until: %s\n", endDate.Format("2006-01-02"))
	} else {
		sb.WriteString("Renews monthly until canceled.\n")
	}
	sb.WriteString("\nHappy shopping,\nThe Larder team\n")

	return c.Send(to, subject, sb.String())
}
