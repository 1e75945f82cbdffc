package utils

import (
	"fmt"
	"lms/config"
	"log"
	"net/smtp"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers an HTML email through Sendgrid when an API key is
// configured, otherwise over plain SMTP.
func SendEmail(to []string, subject string, htmlBody string) error {
	if config.AppConfig == nil {
		return fmt.Errorf("email: configuration not loaded")
	}

	if config.AppConfig.SendgridApiKey != "" {
		from := mail.NewEmail("Global QHSE", config.AppConfig.EmailSender)
		client := sendgrid.NewSendClient(config.AppConfig.SendgridApiKey)
		for _, recipient := range to {
			message := mail.NewSingleEmail(from, subject, mail.NewEmail("", recipient), "", htmlBody)
			resp, err := client.Send(message)
			if err != nil {
				log.Printf("Error sending email via sendgrid: %v", err)
				return err
			}
			if resp.StatusCode >= 400 {
				log.Printf("Sendgrid rejected email: %d %s", resp.StatusCode, resp.Body)
				return fmt.Errorf("sendgrid status %d", resp.StatusCode)
			}
		}
		return nil
	}

	from := config.AppConfig.EmailSender
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Global QHSE <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, config.AppConfig.SMTPPassword, config.AppConfig.SMTPHost)
	addr := config.AppConfig.SMTPHost + ":" + config.AppConfig.SMTPPort

	if err := smtp.SendMail(addr, auth, from, to, []byte(msg)); err != nil {
		log.Printf("Error sending email: %v", err)
		return err
	}
	return nil
}

// HTML wrapper shared by all outbound mail
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A2E6F; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A2E6F; line-height: 1.6; }
			.content h2 { color: #1A2E6F; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #C9A66B; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>GLOBAL QHSE</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Global QHSE. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// SendWelcomeEmail greets a freshly registered student
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to Global QHSE Training"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your student account has been created and you have been enrolled in your organization's training courses.</p>
		<p>Log in to see your courses and start learning. Your progress is tracked automatically as you complete each module.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

// SendCertificateIssuedEmail congratulates a student on a freshly issued
// certificate
func SendCertificateIssuedEmail(email, name, courseTitle string) {
	subject := "Your Certificate is Ready"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations! You have completed the course <strong>%s</strong> and your certificate has been issued.</p>
		<p>Log in to download it from your certificates page.</p>
	`, name, courseTitle)

	go SendEmail([]string{email}, subject, getEmailTemplate("Congratulations!", body))
}

// SendInstructorCredentialsEmail delivers the temporary password and the
// organization code an instructor hands out to their students
func SendInstructorCredentialsEmail(email, name, tempPassword string) {
	subject := "Your Global QHSE Instructor Account"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>An instructor account has been created for you.</p>
		<div class="info-box">
			<strong>Temporary password:</strong> %s
		</div>
		<p>You will be asked to change it on first login. Your contracts carry the organization codes to share with your students.</p>
	`, name, tempPassword)

	go SendEmail([]string{email}, subject, getEmailTemplate("Instructor Account Created", body))
}
