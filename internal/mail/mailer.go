package mail

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"gopkg.in/gomail.v2"

	"github.com/collabhub/collabhub-api/internal/config"
)

// Sender delivers the notification mails the auth flows produce.
type Sender interface {
	SendSignupVerification(to, code, ipAddress string) error
	SendWelcome(to string) error
}

// SMTPSender sends mail through a gomail dialer.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a Sender for the configured SMTP server.
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.MailFrom,
	}
}

// SendSignupVerification mails the verification code, noting the IP the
// registration request came from.
func (s *SMTPSender) SendSignupVerification(to, code, ipAddress string) error {
	body := fmt.Sprintf(`<div style="font-family:Arial,sans-serif">
<h1>CollabHub</h1>
<h2>Verify your email address</h2>
<p>Enter the following code to verify your email address:</p>
<p style="font-size:28px;font-weight:bold">%s</p>
<p>The request for this access originated from IP address %s.</p>
<p>If you were not trying to access your CollabHub account, reset your
password and review your account settings.</p>
</div>`, code, ipAddress)

	return s.send(to, "CollabHub - Verify Your Email Address", body)
}

// SendWelcome mails the post-verification welcome notification.
func (s *SMTPSender) SendWelcome(to string) error {
	return s.send(to, "Welcome to CollabHub",
		"<p>Congratulations! Your account has been successfully created.</p>")
}

func (s *SMTPSender) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

const (
	codeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeDigits  = "0123456789"
)

// GenerateVerificationCode returns a code of uppercase letters followed by
// digits, letters taking the extra position on odd lengths.
func GenerateVerificationCode(length int) (string, error) {
	if length < 6 {
		return "", fmt.Errorf("verification code length must be at least 6")
	}

	half := length / 2
	letters, err := randomFrom(codeLetters, half+length%2)
	if err != nil {
		return "", err
	}
	digits, err := randomFrom(codeDigits, half)
	if err != nil {
		return "", err
	}
	return letters + digits, nil
}

func randomFrom(alphabet string, n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(alphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random code: %w", err)
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}
