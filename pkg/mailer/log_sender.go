package mailer

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogSender writes emails to the log instead of delivering them. Used when
// Mailgun is unconfigured or sending is disabled, so OTP codes stay visible
// during local development.
type LogSender struct {
	Logger *logrus.Logger
}

func NewLogSender(logger *logrus.Logger) *LogSender {
	return &LogSender{Logger: logger}
}

func (l *LogSender) Send(_ context.Context, to, subject, text, _ string) error {
	if l.Logger != nil {
		l.Logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Infof("email (not sent): %s", text)
	}
	return nil
}

var _ Sender = (*LogSender)(nil)
