package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Beka01247/food-ordering/internal/domain"
)

type userKey string

const (
	userCtx  userKey = "user"
	guestCtx userKey = "guest"
)

// guestCookie carries the anonymous session of a visitor without a token.
// Guest carts and orders are owned by "guest_<id>".
const guestCookie = "guest_session"

func (app *application) RateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.config.rateLimiter.Enabled {
			if allow, retryAfter := app.rateLimiter.Allow(clientIP(r)); !allow {
				app.rateLimitExceededResponse(w, r, retryAfter.String())
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP is the host part of RemoteAddr, so every connection from one
// client shares a window. middleware.RealIP may already have stripped the port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// authenticate resolves an optional bearer token into the current user.
// Requests without a token continue as guests under their guest_session
// cookie, which is issued on first use; a bad token is rejected.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			ctx := context.WithValue(r.Context(), guestCtx, guestSession(w, r))
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			app.unauthorizedErrorResponse(w, r, errors.New("authorization header is malformed"))
			return
		}

		claims, err := app.authenticator.ValidateToken(parts[1])
		if err != nil {
			app.unauthorizedErrorResponse(w, r, err)
			return
		}

		// the account may have been deleted or demoted since the token was issued
		user, err := app.users.Get(r.Context(), claims.Subject)
		if err != nil {
			app.unauthorizedErrorResponse(w, r, fmt.Errorf("session user: %w", err))
			return
		}

		ctx := context.WithValue(r.Context(), userCtx, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := getUserFromContext(r)
		if user == nil {
			app.unauthorizedErrorResponse(w, r, errors.New("missing session"))
			return
		}
		if !user.IsAdmin() {
			app.forbiddenResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getUserFromContext returns nil for guests.
func getUserFromContext(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userCtx).(*domain.User)
	return user
}

// guestSession returns the caller's guest id, issuing a new cookie when the
// request carries none or a malformed one.
func guestSession(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(guestCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     guestCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// sessionUserID is the owner id of the caller: the user id for signed-in
// users, "guest_<id>" for guests.
func sessionUserID(r *http.Request) string {
	if user := getUserFromContext(r); user != nil {
		return user.ID
	}
	if id, ok := r.Context().Value(guestCtx).(string); ok && id != "" {
		return domain.GuestCartOwner + "_" + id
	}
	return ""
}
