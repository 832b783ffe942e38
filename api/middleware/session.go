package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/api/responses"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/config"
	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/logger"
)

const (
	sessionIDHeader = "X-Session-Id"
	storeIDHeader   = "X-Store-Id"
)

type sessionCtxKey struct{}

// SessionContext requires the storefront session identifier on every
// request; carts and checkouts are scoped to it.
func SessionContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(sessionIDHeader))
			if sessionID == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "missing "+sessionIDHeader+" header"))
				return
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey{}, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID returns the storefront session bound to the request context.
func SessionID(ctx context.Context) string {
	sessionID, _ := ctx.Value(sessionCtxKey{}).(string)
	return sessionID
}

// StoreContext rejects requests addressed to a store this deployment does
// not serve. The header is optional for same-origin storefront calls.
func StoreContext(store config.StoreConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if header := strings.TrimSpace(r.Header.Get(storeIDHeader)); header != "" && header != store.ID {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeNotFound, "store not found"))
				return
			}

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithStoreID(ctx, store.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
