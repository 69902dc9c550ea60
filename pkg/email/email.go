package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

type EmailService struct {
	apiKey    string
	from      string
	endpoint  string
	client    *http.Client
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

type DigestColumn struct {
	Label string
	Count int64
}

type PipelineDigestData struct {
	Date       time.Time
	TotalLeads int64
	Columns    []DigestColumn
}

var templates = template.Must(template.New("pipeline_digest.html").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif">
  <h2>PropHunter - funil de leads</h2>
  <p>{{.Date.Format "02/01/2006"}}: {{.TotalLeads}} leads no funil.</p>
  <table cellpadding="6">
    {{range .Columns}}<tr><td>{{.Label}}</td><td><strong>{{.Count}}</strong></td></tr>
    {{end}}
  </table>
</body>
</html>`))

func NewEmailService(apiKey string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      "PropHunter <noreply@prophunter.app>",
		endpoint:  resendEndpoint,
		client:    &http.Client{Timeout: 15 * time.Second},
		templates: templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(ctx context.Context, to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	jsonData, err := json.Marshal(EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	})
	if err != nil {
		return fmt.Errorf("error marshaling email data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error: status %d: %s", resp.StatusCode, string(respBody))
	}

	slog.Debug("email sent", "to", to, "subject", subject, "status", resp.StatusCode)
	return nil
}

func (s *EmailService) SendPipelineDigest(ctx context.Context, to string, data PipelineDigestData) error {
	subject := fmt.Sprintf("PropHunter: %d leads no funil", data.TotalLeads)
	return s.sendTemplateEmail(ctx, to, subject, "pipeline_digest.html", data)
}
