package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	cartdto "github.com/GiacomoGonzales/shopifree-v2-sub002/api/controllers/cart/dto"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/api/middleware"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/api/responses"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/api/validators"
	cartsvc "github.com/GiacomoGonzales/shopifree-v2-sub002/internal/cart"
	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/logger"
)

// Fetch returns the session's cart with derived totals.
func Fetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := svc.Get(r.Context(), middleware.SessionID(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartdto.NewCartResponse(state))
	}
}

// AddItem merges one unit into the cart, or appends a new line when the
// configuration differs.
func AddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartdto.AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.Add(r.Context(), middleware.SessionID(r.Context()), payload.CatalogProduct(), payload.Extras())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, cartdto.NewCartResponse(state))
	}
}

// UpdateQuantity sets the absolute quantity of a line.
func UpdateQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID := chi.URLParam(r, "lineId")
		if lineID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "line id is required"))
			return
		}

		var payload cartdto.UpdateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.UpdateQuantity(r.Context(), middleware.SessionID(r.Context()), lineID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartdto.NewCartResponse(state))
	}
}

// RemoveItem deletes one line.
func RemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID := chi.URLParam(r, "lineId")
		if lineID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "line id is required"))
			return
		}

		state, err := svc.Remove(r.Context(), middleware.SessionID(r.Context()), lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartdto.NewCartResponse(state))
	}
}

// Clear empties the session's cart.
func Clear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context(), middleware.SessionID(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
