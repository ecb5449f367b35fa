package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"herald/internal/logging"
)

// Report describes the outcome of one pipeline run for the email body.
type Report struct {
	Topic      string
	Content    string
	Status     string
	RunDir     string
	Err        string
	FinishedAt time.Time
}

// Notifier emails run reports. When SMTP or the recipient is not configured
// it degrades to a warning so runs never fail over a missing mail server.
type Notifier struct {
	sender *Sender
	smtp   SMTPConfig
	to     string
	logger logging.Logger
}

func NewNotifier(smtpConfig SMTPConfig, to string, logger logging.Logger) *Notifier {
	return &Notifier{
		sender: NewSender(smtpConfig),
		smtp:   smtpConfig,
		to:     to,
		logger: logger,
	}
}

// PostPublished emails the content that went out, with its verification
// status. Returns nil when email is unconfigured.
func (n *Notifier) PostPublished(ctx context.Context, report Report) error {
	if !n.configured() {
		n.logger.Warn("Email not configured - skipping post notification")
		return nil
	}

	preview := report.Content
	if len(preview) > 60 {
		preview = preview[:57] + "..."
	}
	subject := fmt.Sprintf("[Herald] Post %s: %s", report.Status, preview)

	body, err := renderReportEmail(report)
	if err != nil {
		return fmt.Errorf("render email: %w", err)
	}

	if err := n.sender.SendMail(ctx, n.to, subject, body); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	n.logger.WithFields(logging.Fields{
		"to":     n.to,
		"status": report.Status,
	}).Info("Post notification sent")
	return nil
}

// RunFailed emails the failure with whatever context the run collected.
// Returns nil when email is unconfigured.
func (n *Notifier) RunFailed(ctx context.Context, report Report) error {
	if !n.configured() {
		n.logger.Warn("Email not configured - skipping failure notification")
		return nil
	}

	subject := fmt.Sprintf("[Herald] Run failed: %s", report.Topic)

	body, err := renderReportEmail(report)
	if err != nil {
		return fmt.Errorf("render email: %w", err)
	}

	if err := n.sender.SendMail(ctx, n.to, subject, body); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	n.logger.WithField("to", n.to).Info("Failure notification sent")
	return nil
}

func (n *Notifier) configured() bool {
	return n.smtp.Configured() && n.to != ""
}

type reportEmailData struct {
	Topic      string
	Content    string
	Status     string
	RunDir     string
	Err        string
	FinishedAt string
}

func renderReportEmail(report Report) (string, error) {
	data := reportEmailData{
		Topic:      report.Topic,
		Content:    report.Content,
		Status:     report.Status,
		RunDir:     report.RunDir,
		Err:        report.Err,
		FinishedAt: report.FinishedAt.UTC().Format("2006-01-02 15:04:05 UTC"),
	}

	var buf bytes.Buffer
	if err := reportEmailTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var reportEmailTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 640px; margin: 0 auto; padding: 20px; color: #1d2226;">
  <div style="background: #0a66c2; color: #ffffff; padding: 16px 20px; border-radius: 8px 8px 0 0;">
    <h2 style="margin: 0; font-size: 18px;">Herald Run Report</h2>
  </div>
  <div style="border: 1px solid #e0e0e0; border-top: none; padding: 20px; border-radius: 0 0 8px 8px;">
    <table style="width: 100%; font-size: 14px; border-collapse: collapse;">
      <tr><td style="padding: 4px 12px 4px 0; color: #666;">Topic</td><td style="padding: 4px 0;">{{.Topic}}</td></tr>
      <tr><td style="padding: 4px 12px 4px 0; color: #666;">Status</td><td style="padding: 4px 0;"><strong>{{.Status}}</strong></td></tr>
      <tr><td style="padding: 4px 12px 4px 0; color: #666;">Finished</td><td style="padding: 4px 0;">{{.FinishedAt}}</td></tr>
      {{if .RunDir}}<tr><td style="padding: 4px 12px 4px 0; color: #666;">Run dir</td><td style="padding: 4px 0;"><code>{{.RunDir}}</code></td></tr>{{end}}
    </table>
    {{if .Err}}
    <div style="background: #fdeded; border-left: 4px solid #d11124; padding: 12px; margin-top: 16px; font-size: 14px;">
      <strong>Error:</strong> {{.Err}}
    </div>
    {{end}}
    {{if .Content}}
    <div style="background: #f3f6f8; padding: 16px; margin-top: 16px; border-radius: 4px; white-space: pre-wrap; font-size: 14px; line-height: 1.5;">{{.Content}}</div>
    {{end}}
  </div>
  <p style="font-size: 12px; color: #999; margin-top: 16px;">Sent by Herald, your LinkedIn news agent.</p>
</body>
</html>`))
