package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/cart"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/orders"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/payments"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/payments/mercadopago"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/config"
	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/logger"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/metrics"
	pkgredis "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/redis"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service drives a buyer's checkout from the customer step through
// confirmation.
type Service interface {
	Start(ctx context.Context, cartSessionID string) (*Session, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	UpdateData(ctx context.Context, sessionID string, updates types.CheckoutData) (*Session, error)
	Next(ctx context.Context, sessionID string) (*Session, error)
	Back(ctx context.Context, sessionID string) (*Session, error)
	SubmitPayment(ctx context.Context, sessionID string, method types.PaymentMethod) (*Session, error)
	BrickReady(ctx context.Context, sessionID string) (*Session, error)
	BrickError(ctx context.Context, sessionID string) (*Session, error)
	BrickSubmit(ctx context.Context, sessionID string, form mercadopago.FormData) (*Session, error)
	ConfirmCard(ctx context.Context, sessionID, intentID string) (*Session, error)
}

// BrickProcessor settles embedded-widget card submissions.
type BrickProcessor interface {
	Process(ctx context.Context, order *orders.Order, form mercadopago.FormData) (payments.Outcome, error)
}

// CardConfirmer settles payment intents after the buyer confirms.
type CardConfirmer interface {
	Confirm(ctx context.Context, storeID, orderID, intentID string) (payments.Outcome, error)
}

// SavedDataStore remembers customer and delivery data across sessions.
type SavedDataStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SavedCustomerKey(storeID, sessionID string) string
}

// Deps carries the service's collaborators. Sessions, Carts, Orders and
// Logger are required; the rest degrade gracefully when absent.
type Deps struct {
	Sessions Store
	Carts    cart.Service
	Orders   orders.Store
	Adapters []payments.Adapter
	Brick    BrickProcessor
	Cards    CardConfirmer
	Saved    SavedDataStore
	Metrics  *metrics.PaymentMetrics
	Logger   *logger.Logger
	Store    config.StoreConfig
	Shipping config.ShippingConfig
	MP       config.MercadoPagoConfig
	Checkout config.CheckoutConfig
}

type service struct {
	deps     Deps
	adapters map[types.PaymentMethod]payments.Adapter

	mu     sync.Mutex
	bricks map[string]*mercadopago.BrickSession
	locks  map[string]*sync.Mutex
}

func NewService(deps Deps) (Service, error) {
	switch {
	case deps.Sessions == nil:
		return nil, errors.New("checkout: session store is required")
	case deps.Carts == nil:
		return nil, errors.New("checkout: cart service is required")
	case deps.Orders == nil:
		return nil, errors.New("checkout: order store is required")
	case deps.Logger == nil:
		return nil, errors.New("checkout: logger is required")
	}

	adapters := make(map[types.PaymentMethod]payments.Adapter, len(deps.Adapters))
	for _, adapter := range deps.Adapters {
		adapters[adapter.Method()] = adapter
	}
	return &service{
		deps:     deps,
		adapters: adapters,
		bricks:   make(map[string]*mercadopago.BrickSession),
		locks:    make(map[string]*sync.Mutex),
	}, nil
}

// Start snapshots the cart into a new session. Previously saved customer
// data prefills the first steps.
func (s *service) Start(ctx context.Context, cartSessionID string) (*Session, error) {
	state, err := s.deps.Carts.Get(ctx, cartSessionID)
	if err != nil {
		return nil, err
	}
	if state.TotalItems() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot start checkout with an empty cart")
	}

	now := time.Now().UTC()
	session := &Session{
		ID:            uuid.NewString(),
		StoreID:       s.deps.Store.ID,
		CartSessionID: cartSessionID,
		Step:          StepCustomer,
		Cart:          *state,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.prefillSavedData(ctx, session)

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*Session, error) {
	return s.deps.Sessions.Load(ctx, s.deps.Store.ID, sessionID)
}

// UpdateData merges the provided fields into the session. Data only
// accumulates; a later step never wipes an earlier one.
func (s *service) UpdateData(ctx context.Context, sessionID string, updates types.CheckoutData) (*Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.Data.Merge(updates)
	session.ErrorCode = ""
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Next validates the current step's data and advances. Confirmation and
// the payment step never advance this way.
func (s *service) Next(ctx context.Context, sessionID string) (*Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.ErrorCode = ""

	target := session.Step.next()
	if target == "" {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "step does not advance from "+string(session.Step))
	}
	if vErr := validateStep(session.Step, session.Data, s.deps.Store.RequiresState()); vErr != nil {
		session.ErrorCode = vErr.Reason()
		if saveErr := s.save(ctx, session); saveErr != nil {
			return nil, saveErr
		}
		return session, vErr
	}

	session.Step = target
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Back allows exactly delivery→customer and payment→delivery.
func (s *service) Back(ctx context.Context, sessionID string) (*Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	target := session.Step.prev()
	if target == "" {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "step does not go back from "+string(session.Step))
	}
	session.Step = target
	session.ErrorCode = ""
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SubmitPayment creates the order and dispatches the chosen adapter. One
// attempt at a time per session; each retry builds a fresh order.
func (s *service) SubmitPayment(ctx context.Context, sessionID string, method types.PaymentMethod) (*Session, error) {
	lock := s.lockSession(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != StepPayment {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment can only be submitted from the payment step")
	}
	if session.Loading {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a payment attempt is already in flight")
	}

	adapter, ok := s.adapters[method]
	if !ok {
		return nil, pkgerrors.Invalid(pkgerrors.ReasonMethodRequired)
	}
	if err := adapter.Preflight(); err != nil {
		return nil, err
	}

	session.ErrorCode = ""
	session.Loading = true
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.deps.Metrics.IncAttempt(string(method))

	order, err := s.createOrder(ctx, session, method)
	if err != nil {
		return s.failAttempt(ctx, session, method, err)
	}
	session.Order = order

	if method == types.PaymentGatewayRedirect && s.deps.MP.BrickEnabled {
		s.armBrick(session)
		session.Loading = false
		session.Outcome = nil
		if err := s.save(ctx, session); err != nil {
			return nil, err
		}
		return session, nil
	}

	outcome, err := adapter.Attempt(ctx, order, session.Data)
	if err != nil {
		return s.failAttempt(ctx, session, method, err)
	}
	return s.applyOutcome(ctx, session, method, outcome)
}

// BrickReady marks the widget as mounted, disarming the fallback timer.
func (s *service) BrickReady(ctx context.Context, sessionID string) (*Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if brick := s.brickFor(sessionID); brick != nil {
		brick.Ready()
	}
	return session, nil
}

// BrickError gives the widget a short grace window, then falls back to
// the hosted redirect unless it recovers.
func (s *service) BrickError(ctx context.Context, sessionID string) (*Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if brick := s.brickFor(sessionID); brick != nil {
		brick.Fail(mercadopago.BrickErrorGrace)
	}
	return session, nil
}

// BrickSubmit settles the tokenized card posted by the widget.
func (s *service) BrickSubmit(ctx context.Context, sessionID string, form mercadopago.FormData) (*Session, error) {
	lock := s.lockSession(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != StepPayment || session.Order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no order awaiting payment on this session")
	}
	if s.deps.Brick == nil {
		return nil, pkgerrors.New(pkgerrors.CodeGatewayConfig, "mercadopago is not enabled for this store")
	}

	if brick := s.takeBrick(sessionID); brick != nil {
		brick.Settle()
		if brick.FellBack() {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already handed off to the hosted redirect")
		}
	}
	outcome, err := s.deps.Brick.Process(ctx, session.Order, form)
	if err != nil {
		return s.failAttempt(ctx, session, types.PaymentGatewayRedirect, err)
	}
	if outcome.Kind == payments.KindConfirmed && outcome.Status == mercadopago.StatusApproved {
		if err := s.deps.Orders.UpdatePayment(ctx, session.StoreID, session.Order.ID,
			orders.PaymentPaid, orders.StatusConfirmed, outcome.PaymentID); err != nil {
			return nil, err
		}
		session.Order.PaymentStatus = orders.PaymentPaid
		session.Order.Status = orders.StatusConfirmed
		session.Order.PaymentID = outcome.PaymentID
	}
	return s.applyOutcome(ctx, session, types.PaymentGatewayRedirect, outcome)
}

// ConfirmCard settles a payment intent the buyer just confirmed.
func (s *service) ConfirmCard(ctx context.Context, sessionID, intentID string) (*Session, error) {
	lock := s.lockSession(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != StepPayment || session.Order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no order awaiting payment on this session")
	}
	if s.deps.Cards == nil {
		return nil, pkgerrors.New(pkgerrors.CodeGatewayConfig, "stripe is not enabled for this store")
	}

	outcome, err := s.deps.Cards.Confirm(ctx, session.StoreID, session.Order.ID, intentID)
	if err != nil {
		return s.failAttempt(ctx, session, types.PaymentGatewayCard, err)
	}
	if outcome.Status == "succeeded" {
		session.Order.PaymentStatus = orders.PaymentPaid
		session.Order.Status = orders.StatusConfirmed
		session.Order.PaymentID = outcome.PaymentID
	}
	return s.applyOutcome(ctx, session, types.PaymentGatewayCard, outcome)
}

func (s *service) createOrder(ctx context.Context, session *Session, method types.PaymentMethod) (*orders.Order, error) {
	draft, err := orders.Assemble(&session.Cart, session.Data, method, session.StoreID, s.shippingCost(session))
	if err != nil {
		return nil, err
	}
	return s.deps.Orders.Create(ctx, session.StoreID, draft)
}

// shippingCost applies the flat configured rate for home delivery, waived
// above the free-shipping threshold.
func (s *service) shippingCost(session *Session) decimal.Decimal {
	cfg := s.deps.Shipping
	if !cfg.Enabled {
		return decimal.Zero
	}
	if session.Data.Delivery == nil || session.Data.Delivery.Method != types.DeliveryDelivery {
		return decimal.Zero
	}
	cost := decimal.NewFromFloat(cfg.Cost)
	if cfg.FreeAbove > 0 && session.Cart.TotalPrice().GreaterThanOrEqual(decimal.NewFromFloat(cfg.FreeAbove)) {
		return decimal.Zero
	}
	return cost
}

// applyOutcome maps an adapter outcome onto the session. Client-secret
// outcomes keep the session at the payment step while the embedded form
// collects the card.
func (s *service) applyOutcome(ctx context.Context, session *Session, method types.PaymentMethod, outcome payments.Outcome) (*Session, error) {
	session.Outcome = &outcome
	session.Loading = false
	session.ErrorCode = ""

	switch {
	case outcome.Kind == payments.KindRedirect:
		s.deps.Metrics.IncOutcome(string(method), "redirect")
	case outcome.ClientSecret != "":
		s.deps.Metrics.IncOutcome(string(method), "collecting")
	default:
		s.deps.Metrics.IncOutcome(string(method), string(outcome.Kind))
		session.Step = StepConfirmation
		s.finishConfirmation(ctx, session)
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// finishConfirmation clears the cart and remembers the buyer's data for
// future sessions. Both are best effort.
func (s *service) finishConfirmation(ctx context.Context, session *Session) {
	if err := s.deps.Carts.Clear(ctx, session.CartSessionID); err != nil {
		s.deps.Logger.Error(ctx, "cart not cleared after confirmation", err)
	}
	s.persistSavedData(ctx, session)
	s.settleBrick(session.ID)

	// Confirmation is terminal; later submits fail on the step check, so
	// the attempt lock can be dropped.
	s.mu.Lock()
	delete(s.locks, session.ID)
	s.mu.Unlock()
}

func (s *service) failAttempt(ctx context.Context, session *Session, method types.PaymentMethod, cause error) (*Session, error) {
	s.deps.Metrics.IncOutcome(string(method), "error")
	session.Loading = false
	session.ErrorCode = pkgerrors.ReasonOf(cause)
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, cause
}

func (s *service) save(ctx context.Context, session *Session) error {
	session.UpdatedAt = time.Now().UTC()
	return s.deps.Sessions.Save(ctx, s.deps.Store.ID, session)
}

// armBrick starts the widget lifecycle with a fallback to the hosted
// redirect.
func (s *service) armBrick(session *Session) {
	sessionID := session.ID
	brick := mercadopago.NewBrickSession(mercadopago.BrickReadyTimeout, func() {
		s.fallbackToRedirect(sessionID)
	})

	s.mu.Lock()
	s.bricks[sessionID] = brick
	s.mu.Unlock()
}

func (s *service) brickFor(sessionID string) *mercadopago.BrickSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bricks[sessionID]
}

func (s *service) takeBrick(sessionID string) *mercadopago.BrickSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	brick := s.bricks[sessionID]
	delete(s.bricks, sessionID)
	return brick
}

func (s *service) settleBrick(sessionID string) {
	if brick := s.takeBrick(sessionID); brick != nil {
		brick.Settle()
	}
}

// lockSession returns the mutex serializing payment attempts for one
// session; the load-check-set on the loading flag must happen under it.
func (s *service) lockSession(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

// fallbackToRedirect runs on the brick timer goroutine after the widget
// failed to come up; it swaps the session over to hosted Checkout Pro.
func (s *service) fallbackToRedirect(sessionID string) {
	lock := s.lockSession(sessionID)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	session, err := s.Get(ctx, sessionID)
	if err != nil || session.Order == nil {
		return
	}

	adapter, ok := s.adapters[types.PaymentGatewayRedirect]
	if !ok {
		return
	}
	outcome, err := adapter.Attempt(ctx, session.Order, session.Data)
	if err != nil {
		s.deps.Logger.Error(ctx, "brick fallback redirect failed", err)
		if _, failErr := s.failAttempt(ctx, session, types.PaymentGatewayRedirect, err); failErr != nil {
			return
		}
		return
	}

	s.deps.Metrics.IncFallback()
	session.Outcome = &outcome
	session.Loading = false
	if err := s.save(ctx, session); err != nil {
		s.deps.Logger.Error(ctx, "brick fallback session not saved", err)
	}
}

type savedData struct {
	Customer *types.Customer `json:"customer,omitempty"`
	Delivery *types.Delivery `json:"delivery,omitempty"`
}

func (s *service) prefillSavedData(ctx context.Context, session *Session) {
	if s.deps.Saved == nil {
		return
	}
	key := s.deps.Saved.SavedCustomerKey(session.StoreID, session.CartSessionID)
	raw, err := s.deps.Saved.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, pkgredis.Nil) {
			s.deps.Logger.Error(ctx, "saved customer data not loaded", err)
		}
		return
	}
	var saved savedData
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		return
	}
	session.Data.Customer = saved.Customer
	session.Data.Delivery = saved.Delivery
}

func (s *service) persistSavedData(ctx context.Context, session *Session) {
	if s.deps.Saved == nil || session.Data.Customer == nil {
		return
	}
	payload, err := json.Marshal(savedData{
		Customer: session.Data.Customer,
		Delivery: session.Data.Delivery,
	})
	if err != nil {
		return
	}
	key := s.deps.Saved.SavedCustomerKey(session.StoreID, session.CartSessionID)
	if err := s.deps.Saved.Set(ctx, key, payload, s.deps.Checkout.SavedCustomerTTL); err != nil {
		s.deps.Logger.Error(ctx, "saved customer data not stored", err)
	}
}
