package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	domuser "example.com/shop-core/internal/domain/user"
	authuc "example.com/shop-core/internal/usecase/auth"
)

type ctxKey int

const ctxUserKey ctxKey = iota

func (a *API) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondError(w, http.StatusUnauthorized, domuser.ErrUnauthorized)
			return
		}

		claims, err := a.tokenSvc.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondError(w, http.StatusUnauthorized, domuser.ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *API) requireRoles(roles ...domuser.RoleCode) func(http.Handler) http.Handler {
	allowed := make(map[domuser.RoleCode]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := getAuthUser(r.Context())
			if !ok {
				respondError(w, http.StatusUnauthorized, domuser.ErrUnauthorized)
				return
			}
			if _, ok := allowed[claims.RoleCode]; !ok {
				respondError(w, http.StatusForbidden, domuser.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func getAuthUser(ctx context.Context) (*authuc.Claims, bool) {
	claims, ok := ctx.Value(ctxUserKey).(*authuc.Claims)
	return claims, ok
}

func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		a.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", chimw.GetReqID(r.Context())).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
