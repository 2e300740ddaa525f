package adapters

import (
	"context"

	msgsvc "maritime_portal_backend/internal/messages/service"
	"maritime_portal_backend/internal/notification/inapp"
)

// MessageReplyNotifier adapts the notification service to the messages
// module's ReplyNotifier port.
type MessageReplyNotifier struct {
	notifications *inapp.Service
}

// NewMessageReplyNotifier creates the adapter.
func NewMessageReplyNotifier(notifications *inapp.Service) *MessageReplyNotifier {
	return &MessageReplyNotifier{notifications: notifications}
}

// NotifyMessageReply records the in-app reply notification and reports
// whether the record was written.
func (a *MessageReplyNotifier) NotifyMessageReply(ctx context.Context, n msgsvc.ReplyNotice) bool {
	result := a.notifications.SendMessageReply(ctx, inapp.MessageReplyParams{
		MessageID:      n.MessageID,
		ParentID:       n.ParentID,
		RecipientEmail: n.RecipientEmail,
		Subject:        n.Subject,
		Body:           n.Body,
	})

	return result.NotificationRecorded
}

var _ msgsvc.ReplyNotifier = (*MessageReplyNotifier)(nil)
