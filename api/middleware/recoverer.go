package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/api/responses"
	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/logger"
)

// Recoverer converts handler panics into 500 envelopes so one broken
// checkout request cannot take down the storefront API. http.ErrAbortHandler
// propagates untouched; the server uses it to drop the connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				err := fmt.Errorf("panic: %v", rec)
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"panic":  fmt.Sprintf("%v", rec),
						"method": r.Method,
						"path":   r.URL.Path,
					})
					logg.Error(ctx, "panic.recovered", err)
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
