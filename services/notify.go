package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"

	"taskboard/model"
)

// InvitationMessage builds the subject and HTML body of an invitation.
func InvitationMessage(inviterName string, board model.Board, right model.AccessRight, appBaseURL string) (subject, body string) {
	subject = fmt.Sprintf("%s has invited you to collaborate with %s access right on %s board",
		inviterName, right, board.BoardName)
	link := InvitationLink(appBaseURL, board.BoardID)
	body = fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <p>%s has invited you to collaborate on the board <strong>%s</strong> with <strong>%s</strong> access.</p>
  <p><a href="%s" style="background-color: #007bff; color: #fff; padding: 10px 16px; text-decoration: none; border-radius: 4px;">View invitation</a></p>
  <p style="font-size: 12px; color: #888;">If you were not expecting this invitation you can ignore this email.</p>
</body>
</html>`,
		html.EscapeString(inviterName), html.EscapeString(board.BoardName), right, html.EscapeString(link))
	return subject, body
}

// InvitationLink is the page where the invitee answers the invitation.
func InvitationLink(appBaseURL, boardID string) string {
	return fmt.Sprintf("%s/board/%s/collab/invitations", appBaseURL, boardID)
}

// MultiNotifier sends through every channel. It fails only when no channel
// delivered the message; a channel that fails alongside a successful one is
// logged.
type MultiNotifier struct {
	channels []Notifier
	log      *slog.Logger
}

func NewMultiNotifier(log *slog.Logger, channels ...Notifier) *MultiNotifier {
	return &MultiNotifier{channels: channels, log: log}
}

func (m *MultiNotifier) Send(ctx context.Context, toEmail, subject, body string) error {
	if len(m.channels) == 0 {
		return nil
	}
	var errs []error
	for _, n := range m.channels {
		if err := n.Send(ctx, toEmail, subject, body); err != nil {
			m.log.Warn("notification channel failed", "channel", fmt.Sprintf("%T", n), "to", toEmail, "error", err)
			errs = append(errs, err)
		}
	}
	if len(errs) == len(m.channels) {
		return errors.Join(errs...)
	}
	return nil
}

// NopNotifier drops every message.
type NopNotifier struct{}

func (NopNotifier) Send(context.Context, string, string, string) error {
	return nil
}
