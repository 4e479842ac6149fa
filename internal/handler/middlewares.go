package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("request handled", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				fmt.Print(string(debug.Stack())) // slog would mangle the trace
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return token
		}
		return ""
	}
	if cookie, err := r.Cookie(tokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// authenticate verifies the request token and returns a context carrying the caller.
// ok is false when the response has already been written.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request, token string) (context.Context, bool) {
	claims := &AuthClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(h.config.JWT.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		h.unauthorized(w, r, "invalid token")
		return nil, false
	}

	sub, err := uuid.Parse(claims.Subject)
	if err != nil {
		h.unauthorized(w, r, "invalid token")
		return nil, false
	}

	revoked, err := h.sessionCache.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return nil, false
	}
	if revoked {
		h.unauthorized(w, r, "session has been signed out")
		return nil, false
	}

	ctx := context.WithValue(r.Context(), SubCtxKey, sub)
	ctx = context.WithValue(ctx, ClaimsCtxKey, claims)
	return ctx, true
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			h.unauthorized(w, r, "not signed in")
			return
		}

		ctx, ok := h.authenticate(w, r, token)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// optionalAuth attaches the caller when a token is sent and lets anonymous requests through.
func (h *Handler) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx, ok := h.authenticate(w, r, token)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := callerID(r); !ok {
			h.unauthorized(w, r, "not signed in")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) myProfile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, _ := callerID(r)

		profile, err := h.store.GetProfile(r.Context(), sub)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.forbidden(w, r, "a profile is required")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), MyProfileCtx, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func callerID(r *http.Request) (uuid.UUID, bool) {
	sub, ok := r.Context().Value(SubCtxKey).(uuid.UUID)
	return sub, ok
}

func myProfileFrom(r *http.Request) *domain.Profile {
	return r.Context().Value(MyProfileCtx).(*domain.Profile)
}
