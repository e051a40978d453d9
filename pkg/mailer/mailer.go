package mailer

import (
	"fmt"

	"github.com/reelproof/reelproof-api/pkg/config"
	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Mailer delivers invite and password-reset emails over SMTP. A second dialer
// acts as a fallback transport when the primary fails; delivery failure is
// reported to the caller but must never fail the surrounding operation.
type Mailer struct {
	primary  *gomail.Dialer
	fallback *gomail.Dialer
	from     string
}

func New(cfg *config.Config) *Mailer {
	m := &Mailer{from: cfg.SMTPFrom}
	if cfg.SMTPHost != "" {
		m.primary = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}
	if cfg.SMTPFallbackHost != "" {
		m.fallback = gomail.NewDialer(cfg.SMTPFallbackHost, cfg.SMTPFallbackPort, cfg.SMTPFallbackUsername, cfg.SMTPFallbackPassword)
	}
	return m
}

// Enabled reports whether any SMTP transport is configured.
func (m *Mailer) Enabled() bool {
	return m != nil && m.primary != nil
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	if !m.Enabled() {
		return fmt.Errorf("no SMTP transport configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	err := m.primary.DialAndSend(msg)
	if err == nil {
		return nil
	}
	log.Warnf("Primary SMTP transport failed for %s: %v", to, err)

	if m.fallback == nil {
		return err
	}
	if ferr := m.fallback.DialAndSend(msg); ferr != nil {
		log.Errorf("Fallback SMTP transport failed for %s: %v", to, ferr)
		return ferr
	}
	log.Infof("Delivered mail to %s via fallback transport.", to)
	return nil
}

// SendSetupLink mails an invited user their account-setup link.
func (m *Mailer) SendSetupLink(to, name, link string) error {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You've been invited to review your videos. Set your password to activate your account:</p>
		<p><a href="%s">%s</a></p>
		<p>This link expires in one hour.</p>`, name, link, link)
	return m.send(to, "You're invited - set up your account", body)
}

// SendResetLink mails a password-reset link.
func (m *Mailer) SendResetLink(to, name, link string) error {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>A password reset was requested for your account. Choose a new password here:</p>
		<p><a href="%s">%s</a></p>
		<p>This link expires in one hour. If you didn't request this, you can ignore it.</p>`, name, link, link)
	return m.send(to, "Password reset", body)
}
