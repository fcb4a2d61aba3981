package mailer

import (
	"bankdash-api/config"
	"bankdash-api/logger"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
)

// Sender delivers one-time codes over SMTP.
type Sender struct {
	cfg *config.Config
}

func NewSender(cfg *config.Config) *Sender {
	return &Sender{cfg: cfg}
}

// SendTransferCode emails the verification code for an initiated transfer.
// The call is synchronous; the caller treats a failure as a failed issuance.
func (s *Sender) SendTransferCode(to, name, recipientName string, amount float64, code string) error {
	e := email.NewEmail()
	e.From = s.cfg.SMTP.Sender
	e.To = []string{to}
	e.Subject = "BankDash - Your Transfer Verification Code"

	e.HTML = []byte(fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto;">
			<h2>Verify your transfer</h2>
			<p>Hi %s,</p>
			<p>You are initiating a transfer of <strong>$%.2f</strong> to <strong>%s</strong>.</p>
			<div style="background: #f3f4f6; border-radius: 8px; padding: 16px; text-align: center;">
				<p style="margin: 0; font-size: 14px; color: #6b7280;">Your verification code:</p>
				<h1 style="margin: 10px 0; font-size: 36px; letter-spacing: 8px; color: #2563eb;">%s</h1>
			</div>
			<p style="font-size: 13px; color: #6b7280;">The code expires in %d minutes. If you did not request this transfer, ignore this email.</p>
		</div>`,
		name, amount, recipientName, code, s.cfg.OTP.ExpiryMinutes,
	))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTP.Host, s.cfg.SMTP.Port)
	var auth smtp.Auth
	if s.cfg.SMTP.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTP.Username, s.cfg.SMTP.Password, s.cfg.SMTP.Host)
	}

	if err := e.Send(addr, auth); err != nil {
		logger.Log.WithError(err).Errorf("Failed to send verification code to %s", to)
		return fmt.Errorf("failed to send verification code: %w", err)
	}

	logger.Log.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
