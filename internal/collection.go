package internal

import (
	"context"
	"strings"

	"github.com/DrGermanius/ExpressWash/internal/model"
)

// MarkCollected moves an order from pending to collected exactly once.
// Only the caller that wins the transition notifies the customer, and a
// failed notification never undoes the transition.
func (s Service) MarkCollected(ctx context.Context, receiptNumber string) (model.CollectionResult, error) {
	receiptNumber = strings.TrimSpace(receiptNumber)

	o, err := s.Repository.MarkCollected(ctx, receiptNumber, s.now().UTC())
	if err != nil {
		return model.CollectionResult{}, err
	}
	s.invalidateReports(ctx)

	res := model.CollectionResult{Order: o}
	if o.MobileNumber == "" {
		return res, nil
	}

	res.NotificationAttempted = true
	res.NotificationSent = s.notifyCollected(ctx, o)
	return res, nil
}

func (s Service) notifyCollected(ctx context.Context, o model.Order) bool {
	if s.settings.NotifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.NotifyTimeout)
		defer cancel()
	}

	msg := CollectionMessage(o.CustomerName, o.ReceiptNumber, s.settings.BusinessName)
	if err := s.notifier.Notify(ctx, o.MobileNumber, msg); err != nil {
		s.logger.Errorf("order %s collected, notification failed: %s", o.ReceiptNumber, err.Error())
		return false
	}
	return true
}
