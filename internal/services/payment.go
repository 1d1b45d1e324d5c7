package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sherlockbot/cv-review-backend/internal/models"
	"github.com/sherlockbot/cv-review-backend/internal/storage"
)

// PaymentService applies confirmed gateway payments to conversation
// state. It is driven by the payment webhook, which arrives out of band
// and may be delivered more than once.
type PaymentService struct {
	sessions  *SessionService
	store     storage.Store
	payments  PaymentGateway
	messenger Messenger
}

// NewPaymentService wires the payment confirmation flow.
func NewPaymentService(sessions *SessionService, store storage.Store, payments PaymentGateway, messenger Messenger) *PaymentService {
	return &PaymentService{
		sessions:  sessions,
		store:     store,
		payments:  payments,
		messenger: messenger,
	}
}

// ConfirmPayment handles a charge.success notification. The charge is
// re-verified with the gateway before anything changes; a webhook body
// is never trusted on its own. Redeliveries are acknowledged without
// re-prompting the user.
func (p *PaymentService) ConfirmPayment(reference, phone string) error {
	verification, err := p.payments.Verify(reference)
	if err != nil {
		return fmt.Errorf("verify payment %s: %v", reference, err)
	}
	if !verification.Success {
		log.Printf("Payment %s reported success but did not verify, ignoring", reference)
		p.markPayment(reference, models.PaymentStatusFailed, nil)
		return nil
	}

	userID := models.NormalizePhone(phone)
	if userID == "" {
		if record, err := p.store.GetPayment(reference); err == nil {
			userID = record.UserID
		}
	}
	if userID == "" {
		return fmt.Errorf("payment %s has no associated user", reference)
	}

	paidAt := time.Now()
	if verification.PaidAt != "" {
		if t, err := time.Parse(time.RFC3339, verification.PaidAt); err == nil {
			paidAt = t
		}
	}
	p.markPayment(reference, models.PaymentStatusCompleted, &paidAt)

	session, err := p.sessions.GetOrCreate(userID)
	if err != nil {
		return fmt.Errorf("load session for %s: %v", userID, err)
	}

	// Already applied: the session has moved past the payment for this
	// reference. Acknowledge and stay silent.
	if session.PaymentRef == reference {
		switch session.State {
		case models.StateAwaitingEmail, models.StateProcessing, models.StateCompleted:
			log.Printf("Payment %s already applied to %s, ignoring redelivery", reference, userID)
			return nil
		}
	}

	// A late confirmation can land on a session that expired or was reset
	// and no longer holds a document. Ask for a re-upload instead of
	// parking the user in a state no review can run from.
	if session.DocumentRef == "" {
		session.ReviewType = models.ReviewTypeAdvanced
		session.PaymentRef = reference
		session.State = models.StateAwaitingCV
		if err := p.sessions.Save(session); err != nil {
			return fmt.Errorf("save session after payment %s: %v", reference, err)
		}
		log.Printf("Payment %s confirmed for %s but no document on session, requesting re-upload", reference, userID)
		return p.messenger.SendMessage(userID, paymentConfirmedNoDocumentCopy())
	}

	session.ReviewType = models.ReviewTypeAdvanced
	session.PaymentRef = reference
	session.State = models.StateAwaitingEmail
	if err := p.sessions.Save(session); err != nil {
		return fmt.Errorf("save session after payment %s: %v", reference, err)
	}

	log.Printf("Payment %s confirmed for %s", reference, userID)
	return p.messenger.SendMessage(userID, paymentConfirmedCopy())
}

// markPayment updates the audit record, creating one if the initiation
// write was lost.
func (p *PaymentService) markPayment(reference, status string, paidAt *time.Time) {
	record, err := p.store.GetPayment(reference)
	if errors.Is(err, storage.ErrNotFound) {
		record = &models.PaymentRecord{Reference: reference, Status: status, PaidAt: paidAt}
		if err := p.store.CreatePayment(record); err != nil {
			log.Printf("Failed to create payment record %s: %v", reference, err)
		}
		return
	}
	if err != nil {
		log.Printf("Failed to load payment record %s: %v", reference, err)
		return
	}

	record.Status = status
	if paidAt != nil {
		record.PaidAt = paidAt
	}
	if err := p.store.UpdatePayment(record); err != nil {
		log.Printf("Failed to update payment record %s: %v", reference, err)
	}
}
