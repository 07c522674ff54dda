package services

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	"agoge-backend/shared/config"
)

// Mailer is the outbound notification surface of the team workflow. The
// invitation flow only sends a message; no invitation record is persisted.
type Mailer interface {
	SendInvitation(to string) error
}

// EmailRequest represents a simple email request
type EmailRequest struct {
	To      []string `json:"to" binding:"required"`
	Subject string   `json:"subject" binding:"required"`
	Body    string   `json:"body"`
	IsHTML  bool     `json:"is_html"`
}

// EmailService handles sending emails over SMTP.
type EmailService struct {
	config *config.Config
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{config: cfg}
}

// SendInvitation mails a registration link to the invited address.
func (es *EmailService) SendInvitation(to string) error {
	inviteLink := fmt.Sprintf("%s/register?email=%s", strings.TrimSuffix(es.config.FrontendURL, "/"), url.QueryEscape(to))

	return es.Send(EmailRequest{
		To:      []string{to},
		Subject: "You have been invited!",
		Body:    fmt.Sprintf("Register here: %s", inviteLink),
	})
}

// Send sends an email immediately using SMTP
func (es *EmailService) Send(request EmailRequest) error {
	startTime := time.Now()

	if len(request.To) == 0 {
		return fmt.Errorf("recipient list cannot be empty")
	}
	if request.Subject == "" {
		return fmt.Errorf("subject cannot be empty")
	}
	if request.Body == "" {
		return fmt.Errorf("body cannot be empty")
	}

	if err := es.sendSMTPEmail(request); err != nil {
		log.Printf("Failed to send email to %v: %v", request.To, err)
		return err
	}

	log.Printf("Email sent successfully to %v (%s)", request.To, time.Since(startTime))
	return nil
}

// sendSMTPEmail sends email via SMTP
func (es *EmailService) sendSMTPEmail(request EmailRequest) error {
	message := es.buildEmailMessage(request)

	host := es.config.SMTPHost
	port := es.config.SMTPPort
	username := es.config.SMTPUsername
	password := es.config.SMTPPassword
	from := es.config.EmailFrom

	if host == "" || username == "" || password == "" {
		return fmt.Errorf("SMTP configuration is incomplete")
	}

	auth := smtp.PlainAuth("", username, password, host)
	addr := fmt.Sprintf("%s:%s", host, port)

	// Port 465 uses implicit TLS (SSL), other ports may use explicit TLS (STARTTLS)
	if port == "465" || es.config.SMTPUseTLS {
		return es.sendWithTLS(addr, auth, from, request.To, []byte(message))
	}

	return smtp.SendMail(addr, auth, from, request.To, []byte(message))
}

// sendWithTLS sends email with TLS
func (es *EmailService) sendWithTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         strings.Split(addr, ":")[0],
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, strings.Split(addr, ":")[0])
	if err != nil {
		return err
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return err
	}

	if err = client.Mail(from); err != nil {
		return err
	}

	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	defer w.Close()

	_, err = w.Write(msg)
	return err
}

// buildEmailMessage builds email message
func (es *EmailService) buildEmailMessage(request EmailRequest) string {
	from := es.config.EmailFrom
	fromName := es.config.EmailFromName

	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", fromName, from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(request.To, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", request.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if request.IsHTML {
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	} else {
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	}

	msg.WriteString("\r\n")
	msg.WriteString(request.Body)

	return msg.String()
}
