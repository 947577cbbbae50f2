package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendNewEnquiryNotification(toEmail, consultantName, agencyName string) error
	SendAssignmentNotification(toEmail, consultantName, askerUsername string) error
	SendFeedbackNotification(toEmail, consultantName string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	appBaseURL  string
}

func NewEmailService(host string, port int, username, password, senderEmail, appBaseURL string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		appBaseURL:  appBaseURL,
	}
}

func (s *emailService) SendNewEnquiryNotification(toEmail, consultantName, agencyName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "A new enquiry is waiting")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hello %s,</h2>
			<p>A new enquiry has arrived for the agency <strong>%s</strong>.</p>
			<p><a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open your enquiry list</a></p>
			<p>Please do not reply to this email.</p>
		</div>
	`, consultantName, agencyName, s.appBaseURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send enquiry notification to %s: %w", toEmail, err)
	}

	return nil
}

func (s *emailService) SendAssignmentNotification(toEmail, consultantName, askerUsername string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "A session was assigned to you")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hello %s,</h2>
			<p>The session of <strong>%s</strong> has been assigned to you.</p>
			<p><a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open your sessions</a></p>
			<p>Please do not reply to this email.</p>
		</div>
	`, consultantName, askerUsername, s.appBaseURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send assignment notification to %s: %w", toEmail, err)
	}

	return nil
}

func (s *emailService) SendFeedbackNotification(toEmail, consultantName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "New feedback on one of your sessions")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hello %s,</h2>
			<p>A team lead wrote feedback on one of your sessions.</p>
			<p><a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open the feedback</a></p>
			<p>Please do not reply to this email.</p>
		</div>
	`, consultantName, s.appBaseURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send feedback notification to %s: %w", toEmail, err)
	}

	return nil
}
