package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sherlockbot/cv-review-backend/internal/models"
	"github.com/sherlockbot/cv-review-backend/internal/storage"
)

// ConversationService drives the WhatsApp conversation. Every inbound
// message resolves to exactly one dispatch decision against the stored
// session state; the session is persisted before any message that
// reports a state change is sent.
type ConversationService struct {
	sessions  *SessionService
	store     storage.Store
	messenger Messenger
	media     MediaFetcher
	files     FileStore
	payments  PaymentGateway
	reviews   *ReviewService
	price     int
	currency  string
}

// NewConversationService wires the conversation engine.
func NewConversationService(
	sessions *SessionService,
	store storage.Store,
	messenger Messenger,
	media MediaFetcher,
	files FileStore,
	payments PaymentGateway,
	reviews *ReviewService,
	price int,
	currency string,
) *ConversationService {
	return &ConversationService{
		sessions:  sessions,
		store:     store,
		messenger: messenger,
		media:     media,
		files:     files,
		payments:  payments,
		reviews:   reviews,
		price:     price,
		currency:  currency,
	}
}

// HandleMessage processes one inbound WhatsApp message end to end.
func (c *ConversationService) HandleMessage(ctx context.Context, msg *models.InboundMessage) error {
	userID := models.NormalizePhone(msg.From)
	msg.Classify()

	session, err := c.sessions.GetOrCreate(userID)
	if err != nil {
		return fmt.Errorf("load session for %s: %v", userID, err)
	}

	// A review is running for this user; duplicate deliveries and
	// impatient follow-ups are swallowed so they cannot double-trigger.
	if session.State == models.StateProcessing {
		log.Printf("Ignoring message from %s while review is processing", userID)
		return nil
	}

	// Documents are examined before state dispatch so a CV upload works
	// from any state that can accept one.
	if msg.Kind == models.EventDocument {
		return c.handleDocument(ctx, session, msg)
	}

	switch session.State {
	case models.StateWelcome:
		return c.handleWelcome(session, msg)
	case models.StateAwaitingCV:
		return c.handleAwaitingCV(session, msg)
	case models.StateAwaitingReviewType:
		return c.handleAwaitingReviewType(ctx, session, msg)
	case models.StateAwaitingPayment:
		return c.handleAwaitingPayment(ctx, session, msg)
	case models.StateAwaitingEmail:
		return c.handleAwaitingEmail(ctx, session, msg)
	case models.StateCompleted:
		return c.handleCompleted(ctx, session, msg)
	default:
		// Unknown state in storage; recover by restarting the flow.
		log.Printf("Session for %s in unknown state %q, resetting", session.UserID, session.State)
		fresh, err := c.sessions.Reset(session.UserID)
		if err != nil {
			return err
		}
		fresh.State = models.StateAwaitingCV
		if err := c.sessions.Save(fresh); err != nil {
			return err
		}
		return c.messenger.SendMessage(fresh.UserID, welcomeCopy())
	}
}

// handleDocument stores an uploaded CV and advances to review-type
// selection. States that are mid-flow reject the upload without
// touching the session, so a redelivered media webhook after the
// conversation has moved on changes nothing.
func (c *ConversationService) handleDocument(ctx context.Context, session *models.Session, msg *models.InboundMessage) error {
	switch session.State {
	case models.StateWelcome, models.StateAwaitingCV, models.StateCompleted:
	default:
		return c.messenger.SendMessage(session.UserID, unexpectedDocumentCopy())
	}

	if !models.IsSupportedDocument(msg.ContentType) {
		return c.messenger.SendMessage(session.UserID, unsupportedDocumentCopy())
	}

	data, err := c.media.FetchMedia(msg.MediaURL)
	if err != nil {
		log.Printf("Failed to download media for %s: %v", session.UserID, err)
		session.State = models.StateAwaitingCV
		if err := c.sessions.Save(session); err != nil {
			return err
		}
		return c.messenger.SendMessage(session.UserID, documentErrorCopy())
	}

	ref, err := c.files.Store(ctx, session.UserID, data, msg.ContentType)
	if err != nil {
		log.Printf("Failed to store document for %s: %v", session.UserID, err)
		session.State = models.StateAwaitingCV
		if err := c.sessions.Save(session); err != nil {
			return err
		}
		return c.messenger.SendMessage(session.UserID, documentErrorCopy())
	}

	// A new upload from a completed session starts a fresh review cycle.
	session.ReviewType = ""
	session.PaymentRef = ""
	session.PaymentURL = ""
	session.Email = ""

	session.DocumentRef = ref
	session.State = models.StateAwaitingReviewType
	if err := c.sessions.Save(session); err != nil {
		return fmt.Errorf("save session after upload: %v", err)
	}

	log.Printf("Stored CV %s for %s", ref, session.UserID)
	return c.messenger.SendMessage(session.UserID, reviewOptionsCopy(c.price, c.currency))
}

func (c *ConversationService) handleWelcome(session *models.Session, msg *models.InboundMessage) error {
	if msg.Kind == models.EventCommand {
		switch msg.Command {
		case models.CommandHelp:
			return c.messenger.SendMessage(session.UserID, helpCopy())
		case models.CommandAbout:
			return c.messenger.SendMessage(session.UserID, aboutCopy())
		}
	}

	session.State = models.StateAwaitingCV
	if err := c.sessions.Save(session); err != nil {
		return err
	}
	return c.messenger.SendMessage(session.UserID, welcomeCopy())
}

func (c *ConversationService) handleAwaitingCV(session *models.Session, msg *models.InboundMessage) error {
	if msg.Kind == models.EventCommand {
		switch msg.Command {
		case models.CommandRestart:
			fresh, err := c.sessions.Reset(session.UserID)
			if err != nil {
				return err
			}
			fresh.State = models.StateAwaitingCV
			if err := c.sessions.Save(fresh); err != nil {
				return err
			}
			return c.messenger.SendMessage(fresh.UserID, welcomeCopy())
		case models.CommandHelp:
			return c.messenger.SendMessage(session.UserID, helpCopy())
		case models.CommandAbout:
			return c.messenger.SendMessage(session.UserID, aboutCopy())
		}
	}

	return c.messenger.SendMessage(session.UserID, uploadReminderCopy())
}

func (c *ConversationService) handleAwaitingReviewType(ctx context.Context, session *models.Session, msg *models.InboundMessage) error {
	switch {
	case msg.IsBasicChoice():
		return c.runReview(ctx, session, models.ReviewTypeBasic)
	case msg.IsAdvancedChoice():
		return c.startPayment(session)
	default:
		return c.messenger.SendMessage(session.UserID, invalidOptionCopy(c.price, c.currency))
	}
}

func (c *ConversationService) handleAwaitingPayment(ctx context.Context, session *models.Session, msg *models.InboundMessage) error {
	if msg.IsBasicChoice() {
		// Downgrade to the free review; the unpaid payment session is
		// simply abandoned.
		session.PaymentRef = ""
		session.PaymentURL = ""
		return c.runReview(ctx, session, models.ReviewTypeBasic)
	}

	if msg.Kind == models.EventCommand {
		switch msg.Command {
		case models.CommandPaid:
			return c.messenger.SendMessage(session.UserID, paymentPendingCopy())
		case models.CommandCancel:
			session.State = models.StateAwaitingReviewType
			session.ReviewType = ""
			session.PaymentRef = ""
			session.PaymentURL = ""
			if err := c.sessions.Save(session); err != nil {
				return err
			}
			return c.messenger.SendMessage(session.UserID, paymentCancelledCopy())
		}
	}

	if session.PaymentURL != "" {
		return c.messenger.SendMessage(session.UserID, paymentReminderCopy(session.PaymentURL))
	}
	return c.startPayment(session)
}

func (c *ConversationService) handleAwaitingEmail(ctx context.Context, session *models.Session, msg *models.InboundMessage) error {
	if msg.Kind == models.EventCommand && msg.Command == models.CommandSkip {
		session.Email = ""
		return c.runReview(ctx, session, models.ReviewTypeAdvanced)
	}

	if msg.Kind == models.EventEmail {
		session.Email = strings.TrimSpace(msg.Body)
		return c.runReview(ctx, session, models.ReviewTypeAdvanced)
	}

	return c.messenger.SendMessage(session.UserID, invalidEmailCopy())
}

func (c *ConversationService) handleCompleted(ctx context.Context, session *models.Session, msg *models.InboundMessage) error {
	if msg.Kind == models.EventCommand {
		switch msg.Command {
		case models.CommandNew, models.CommandRestart:
			fresh, err := c.sessions.Reset(session.UserID)
			if err != nil {
				return err
			}
			fresh.State = models.StateAwaitingCV
			if err := c.sessions.Save(fresh); err != nil {
				return err
			}
			return c.messenger.SendMessage(fresh.UserID, newCVCopy())
		case models.CommandView:
			return c.sendStoredReview(session)
		case models.CommandUpgrade:
			if session.ReviewType == models.ReviewTypeBasic && session.DocumentRef != "" {
				return c.startPayment(session)
			}
		case models.CommandHelp:
			return c.messenger.SendMessage(session.UserID, helpCopy())
		}
	}

	return c.messenger.SendMessage(session.UserID, completedMenuCopy())
}

func (c *ConversationService) sendStoredReview(session *models.Session) error {
	if session.LastReviewID == "" {
		return c.messenger.SendMessage(session.UserID, reviewNotFoundCopy())
	}

	review, err := c.store.GetReview(session.LastReviewID)
	if err != nil {
		log.Printf("Stored review %s for %s not found: %v", session.LastReviewID, session.UserID, err)
		return c.messenger.SendMessage(session.UserID, reviewNotFoundCopy())
	}

	if review.ReviewType == models.ReviewTypeAdvanced {
		return c.messenger.SendMessage(session.UserID, advancedResultCopy(review))
	}
	return c.messenger.SendMessage(session.UserID, basicResultCopy(review.Insights))
}

// startPayment creates a gateway payment session and moves the user to
// awaiting_payment. A gateway failure leaves the session state alone so
// the user can retry their choice.
func (c *ConversationService) startPayment(session *models.Session) error {
	payment, err := c.payments.CreateSession(session.UserID, c.price, c.currency)
	if err != nil {
		log.Printf("Failed to create payment session for %s: %v", session.UserID, err)
		return c.messenger.SendMessage(session.UserID, paymentErrorCopy())
	}

	session.ReviewType = models.ReviewTypeAdvanced
	session.State = models.StateAwaitingPayment
	session.PaymentRef = payment.Reference
	session.PaymentURL = payment.PaymentURL
	if err := c.sessions.Save(session); err != nil {
		return fmt.Errorf("save session after payment init: %v", err)
	}

	record := &models.PaymentRecord{
		Reference:  payment.Reference,
		UserID:     session.UserID,
		Amount:     c.price,
		Currency:   c.currency,
		Status:     models.PaymentStatusPending,
		PaymentURL: payment.PaymentURL,
	}
	if err := c.store.CreatePayment(record); err != nil {
		log.Printf("Failed to record payment %s: %v", payment.Reference, err)
	}

	return c.messenger.SendMessage(session.UserID, paymentLinkCopy(c.price, c.currency, payment.PaymentURL))
}

// runReview executes a review synchronously. The session is parked in
// processing first so concurrent deliveries are suppressed, and the
// completed state is persisted before the result message goes out, so a
// webhook redelivery racing the send cannot restart the review.
func (c *ConversationService) runReview(ctx context.Context, session *models.Session, reviewType string) error {
	session.ReviewType = reviewType
	session.State = models.StateProcessing
	if err := c.sessions.Save(session); err != nil {
		return fmt.Errorf("save session before review: %v", err)
	}

	if err := c.messenger.SendMessage(session.UserID, processingCopy(reviewType)); err != nil {
		log.Printf("Failed to send processing notice to %s: %v", session.UserID, err)
	}

	result := c.reviews.Run(ctx, session.UserID, session.DocumentRef, reviewType, session.Email)

	if !result.Success {
		session.State = models.StateAwaitingCV
		if err := c.sessions.Save(session); err != nil {
			return fmt.Errorf("save session after failed review: %v", err)
		}
		return c.messenger.SendMessage(session.UserID, reviewErrorCopy())
	}

	session.LastReviewID = result.ID
	session.State = models.StateCompleted
	if err := c.sessions.Save(session); err != nil {
		return fmt.Errorf("save session after review: %v", err)
	}

	if reviewType == models.ReviewTypeAdvanced {
		return c.messenger.SendMessage(session.UserID, advancedResultCopy(result))
	}
	return c.messenger.SendMessage(session.UserID, basicResultCopy(result.Insights))
}
