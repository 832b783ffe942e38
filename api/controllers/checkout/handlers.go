package checkout

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	checkoutdto "github.com/GiacomoGonzales/shopifree-v2-sub002/api/controllers/checkout/dto"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/api/middleware"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/api/responses"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/api/validators"
	checkoutsvc "github.com/GiacomoGonzales/shopifree-v2-sub002/internal/checkout"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/config"
	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/logger"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/types"
)

// Handlers groups the checkout endpoints around their shared deps.
type Handlers struct {
	svc  checkoutsvc.Service
	mp   config.MercadoPagoConfig
	logg *logger.Logger
}

func NewHandlers(svc checkoutsvc.Service, mp config.MercadoPagoConfig, logg *logger.Logger) *Handlers {
	return &Handlers{svc: svc, mp: mp, logg: logg}
}

func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, status int, session *checkoutsvc.Session, err error) {
	if err != nil {
		responses.WriteError(r.Context(), h.logg, w, err)
		return
	}
	publicKey := ""
	if h.mp.Enabled && h.mp.BrickEnabled {
		publicKey = h.mp.PublicKey
	}
	responses.WriteSuccessStatus(w, status, checkoutdto.NewSessionResponse(session, publicKey))
}

// Start snapshots the session's cart into a new checkout.
func (h *Handlers) Start(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.Start(r.Context(), middleware.SessionID(r.Context()))
	h.respond(w, r, http.StatusCreated, session, err)
}

func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.Get(r.Context(), chi.URLParam(r, "checkoutId"))
	h.respond(w, r, http.StatusOK, session, err)
}

func (h *Handlers) UpdateData(w http.ResponseWriter, r *http.Request) {
	var payload checkoutdto.UpdateDataRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), h.logg, w, err)
		return
	}
	session, err := h.svc.UpdateData(r.Context(), chi.URLParam(r, "checkoutId"), payload.Data())
	h.respond(w, r, http.StatusOK, session, err)
}

func (h *Handlers) Next(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.Next(r.Context(), chi.URLParam(r, "checkoutId"))
	h.respond(w, r, http.StatusOK, session, err)
}

func (h *Handlers) Back(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.Back(r.Context(), chi.URLParam(r, "checkoutId"))
	h.respond(w, r, http.StatusOK, session, err)
}

// SubmitPayment creates the order and runs the selected adapter.
func (h *Handlers) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var payload checkoutdto.SubmitPaymentRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), h.logg, w, err)
		return
	}
	method, ok := types.ParsePaymentMethod(payload.Method)
	if !ok {
		responses.WriteError(r.Context(), h.logg, w, pkgerrors.Invalid(pkgerrors.ReasonMethodRequired))
		return
	}
	session, err := h.svc.SubmitPayment(r.Context(), chi.URLParam(r, "checkoutId"), method)
	h.respond(w, r, http.StatusOK, session, err)
}

func (h *Handlers) BrickReady(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.BrickReady(r.Context(), chi.URLParam(r, "checkoutId"))
	h.respond(w, r, http.StatusOK, session, err)
}

func (h *Handlers) BrickError(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.BrickError(r.Context(), chi.URLParam(r, "checkoutId"))
	h.respond(w, r, http.StatusOK, session, err)
}

func (h *Handlers) BrickSubmit(w http.ResponseWriter, r *http.Request) {
	var payload checkoutdto.BrickSubmitRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), h.logg, w, err)
		return
	}
	session, err := h.svc.BrickSubmit(r.Context(), chi.URLParam(r, "checkoutId"), payload.FormData())
	h.respond(w, r, http.StatusOK, session, err)
}

// ConfirmCard settles a Stripe payment intent after the buyer confirmed
// the embedded form.
func (h *Handlers) ConfirmCard(w http.ResponseWriter, r *http.Request) {
	var payload checkoutdto.ConfirmCardRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), h.logg, w, err)
		return
	}
	session, err := h.svc.ConfirmCard(r.Context(), chi.URLParam(r, "checkoutId"), payload.PaymentIntentID)
	h.respond(w, r, http.StatusOK, session, err)
}
