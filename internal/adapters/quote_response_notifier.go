// Package adapters bridges consumer-side ports between modules without
// introducing package cycles. Wired in the composition root.
package adapters

import (
	"context"

	"maritime_portal_backend/internal/notification/inapp"
	quotesvc "maritime_portal_backend/internal/quotes/service"
)

// QuoteResponseNotifier adapts the notification service to the quotes
// module's ResponseNotifier port.
type QuoteResponseNotifier struct {
	notifications *inapp.Service
}

// NewQuoteResponseNotifier creates the adapter.
func NewQuoteResponseNotifier(notifications *inapp.Service) *QuoteResponseNotifier {
	return &QuoteResponseNotifier{notifications: notifications}
}

// NotifyQuoteResponse records the response notification and its best-effort
// email twin, translating the outcome into the quotes module's terms.
func (a *QuoteResponseNotifier) NotifyQuoteResponse(ctx context.Context, n quotesvc.ResponseNotice) quotesvc.NotifyResult {
	result := a.notifications.SendQuoteResponse(ctx, inapp.QuoteResponseParams{
		QuoteID:           n.QuoteID,
		RecipientEmail:    n.RecipientEmail,
		RecipientName:     n.RecipientName,
		ServiceName:       n.ServiceName,
		QuoteStatus:       n.QuoteStatus,
		AdminResponse:     n.AdminResponse,
		QuotedAmountCents: n.QuotedAmountCents,
		QuotedCurrency:    n.QuotedCurrency,
	})

	return quotesvc.NotifyResult{
		NotificationRecorded: result.NotificationRecorded,
		EmailSent:            result.EmailSent,
	}
}

var _ quotesvc.ResponseNotifier = (*QuoteResponseNotifier)(nil)
