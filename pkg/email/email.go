// pkg/email/email.go
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"
)

type EmailService struct {
	apiKey    string
	from      string
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type BriefingReceivedData struct {
	LeadName   string
	ClinicName string
	Origem     string
	LeadID     uint
}

type PaymentApprovedData struct {
	LeadName string
	Valor    string
	LeadID   uint
}

type DeadlineWarningData struct {
	LeadName string
	SiteSlug string
	Deadline time.Time
	Overdue  bool
}

func NewEmailService(apiKey string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      "DentalSites <noreply@dentalsites.com.br>",
		templates: templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("Resend API error: Status: %d, Body: %s", resp.StatusCode, string(respBody))
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	return nil
}

// SendBriefingReceivedEmail avisa a equipe que um briefing completo chegou.
func (s *EmailService) SendBriefingReceivedEmail(to, leadName, clinicName, origem string, leadID uint) error {
	data := BriefingReceivedData{
		LeadName:   leadName,
		ClinicName: clinicName,
		Origem:     origem,
		LeadID:     leadID,
	}
	return s.sendTemplateEmail(to, "Novo briefing recebido 📋", "briefing_received.html", data)
}

// SendPaymentApprovedEmail avisa a equipe que o pagamento do lead confirmou.
func (s *EmailService) SendPaymentApprovedEmail(to, leadName string, valorCentavos int64, leadID uint) error {
	data := PaymentApprovedData{
		LeadName: leadName,
		Valor:    fmt.Sprintf("R$ %d,%02d", valorCentavos/100, valorCentavos%100),
		LeadID:   leadID,
	}
	return s.sendTemplateEmail(to, "Pagamento aprovado 💰", "payment_approved.html", data)
}

// SendPublicationDeadlineWarning avisa sobre prazo de publicação vencendo.
func (s *EmailService) SendPublicationDeadlineWarning(to, leadName, siteSlug string, deadline time.Time, overdue bool) error {
	data := DeadlineWarningData{
		LeadName: leadName,
		SiteSlug: siteSlug,
		Deadline: deadline,
		Overdue:  overdue,
	}
	subject := "Prazo de publicação se aproximando ⚠️"
	if overdue {
		subject = "Prazo de publicação vencido ⚠️"
	}
	return s.sendTemplateEmail(to, subject, "deadline_warning.html", data)
}
