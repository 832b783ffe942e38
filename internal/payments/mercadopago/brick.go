package mercadopago

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/orders"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/payments"
	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
)

const (
	// BrickReadyTimeout bounds how long the embedded widget may take to
	// report readiness before checkout falls back to the hosted redirect.
	BrickReadyTimeout = 15 * time.Second

	// BrickErrorGrace delays fallback after a widget error, giving a
	// late ready signal a chance to win.
	BrickErrorGrace = 2 * time.Second
)

// BrickSession tracks one embedded widget's lifecycle. The fallback fires
// at most once: whichever of the ready timeout or an error grace expiry
// arrives first claims the latch, and a ready or submit signal staged
// before either disarms both.
type BrickSession struct {
	mu         sync.Mutex
	ready      bool
	settled    bool
	fellBack   bool
	readyTimer *time.Timer
	graceTimer *time.Timer
	onFallback func()
}

// NewBrickSession arms the readiness timer immediately.
func NewBrickSession(readyTimeout time.Duration, onFallback func()) *BrickSession {
	s := &BrickSession{onFallback: onFallback}
	s.readyTimer = time.AfterFunc(readyTimeout, s.tryFallback)
	return s
}

// Ready records that the widget mounted. Cancels the readiness timer and
// any pending error grace.
func (s *BrickSession) Ready() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settled || s.fellBack {
		return
	}
	s.ready = true
	s.stopTimersLocked()
}

// Fail schedules the fallback after the grace window unless the widget
// recovers first.
func (s *BrickSession) Fail(grace time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settled || s.fellBack || s.graceTimer != nil {
		return
	}
	s.graceTimer = time.AfterFunc(grace, s.tryFallback)
}

// Settle marks the session as submitted or closed; all timers disarm and
// the fallback can no longer fire.
func (s *BrickSession) Settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settled = true
	s.stopTimersLocked()
}

// FellBack reports whether the fallback claimed the session.
func (s *BrickSession) FellBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fellBack
}

func (s *BrickSession) tryFallback() {
	s.mu.Lock()
	if s.settled || s.fellBack || s.ready {
		s.mu.Unlock()
		return
	}
	s.fellBack = true
	s.stopTimersLocked()
	fallback := s.onFallback
	s.mu.Unlock()

	if fallback != nil {
		fallback()
	}
}

func (s *BrickSession) stopTimersLocked() {
	if s.readyTimer != nil {
		s.readyTimer.Stop()
		s.readyTimer = nil
	}
	if s.graceTimer != nil {
		s.graceTimer.Stop()
		s.graceTimer = nil
	}
}

// FormData is the tokenized card payload posted by the widget.
type FormData struct {
	Token           string `json:"token"`
	Installments    int    `json:"installments"`
	PaymentMethodID string `json:"paymentMethodId"`
	IssuerID        string `json:"issuerId,omitempty"`
	PayerEmail      string `json:"payerEmail"`
}

// CardProcessor settles Brick submissions as direct payments.
type CardProcessor struct {
	api API
}

func NewCardProcessor(api API) (*CardProcessor, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "mercadopago api is required")
	}
	return &CardProcessor{api: api}, nil
}

// Process charges the tokenized card for the order total. Approved and
// in-flight statuses succeed; rejections surface as payment errors so
// the buyer can retry with a fresh order.
func (p *CardProcessor) Process(ctx context.Context, order *orders.Order, form FormData) (payments.Outcome, error) {
	if form.Token == "" {
		return payments.Outcome{}, pkgerrors.Invalid(pkgerrors.ReasonMethodRequired)
	}

	req := PaymentRequest{
		Token:             form.Token,
		TransactionAmount: order.Total.Round(2).InexactFloat64(),
		Installments:      max(form.Installments, 1),
		PaymentMethodID:   form.PaymentMethodID,
		IssuerID:          form.IssuerID,
		Description:       "Pedido " + order.OrderNumber,
		ExternalReference: order.ID,
	}
	req.Payer.Email = payerEmail(order, form)

	result, err := p.api.CreatePayment(ctx, req)
	if err != nil {
		return payments.Outcome{}, err
	}

	switch result.Status {
	case StatusApproved, StatusInProcess, StatusPending:
		return payments.Confirmed(formatPaymentID(result.ID), result.Status), nil
	default:
		return payments.Outcome{}, pkgerrors.New(pkgerrors.CodePayment,
			"payment rejected: "+result.StatusDetail)
	}
}

func payerEmail(order *orders.Order, form FormData) string {
	if form.PayerEmail != "" {
		return form.PayerEmail
	}
	return order.Customer.Email
}

func formatPaymentID(id int64) string {
	return "mp_" + strconv.FormatInt(id, 10)
}
