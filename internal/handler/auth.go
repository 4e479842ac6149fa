package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/repository"
	"github.com/gigboard-dev/gigboard/internal/utils"
)

const tokenCookieName = "__gigboard_token"

type AuthClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Session struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *domain.User `json:"user"`
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) readCredentials(w http.ResponseWriter, r *http.Request) (*credentials, bool) {
	var req credentials
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return nil, false
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return nil, false
	}
	return &req, true
}

func (h *Handler) issueSession(w http.ResponseWriter, r *http.Request, user *domain.User) (*Session, error) {
	now := time.Now()
	expiration := now.Add(time.Duration(h.config.JWT.Expiration) * time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID.String(),
		},
	})
	ss, err := token.SignedString([]byte(h.config.JWT.Secret))
	if err != nil {
		return nil, err
	}

	// browsers get the token as an http-only cookie as well
	cookie := &http.Cookie{
		Name:     tokenCookieName,
		Value:    ss,
		Expires:  expiration,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
	}
	if h.config.Environment == "production" {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}
	http.SetCookie(w, cookie)

	return &Session{
		AccessToken: ss,
		TokenType:   "bearer",
		ExpiresAt:   expiration.UTC().Truncate(time.Second),
		User:        user,
	}, nil
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readCredentials(w, r)
	if !ok {
		return
	}

	if !utils.ValidatePassword(req.Password) {
		h.errorResponse(w, r, http.StatusUnprocessableEntity, domain.CodeWeakPassword, domain.ErrWeakPassword.Error())
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		var constraintErr *repository.ConstraintError
		switch {
		case errors.As(err, &constraintErr) && constraintErr.Constraint == "users_email_key":
			h.errorResponse(w, r, http.StatusConflict, domain.CodeEmailTaken, "an account with this email already exists")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	session, err := h.issueSession(w, r, user)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusCreated, "signed up", session)
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readCredentials(w, r)
	if !ok {
		return
	}

	attempts, err := h.sessionCache.FailedAttempts(r.Context(), req.Email)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if attempts >= int64(h.config.SignIn.MaxAttempts) {
		h.errorResponse(w, r, http.StatusTooManyRequests, domain.CodeTooManyAttempts, "too many failed sign-in attempts, try again later")
		return
	}

	invalid := func() {
		if _, err := h.sessionCache.AddFailedAttempt(r.Context(), req.Email, time.Duration(h.config.SignIn.Window)*time.Second); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		h.errorResponse(w, r, http.StatusBadRequest, domain.CodeInvalidCredentials, "invalid email or password")
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			invalid()
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			invalid()
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.sessionCache.ResetAttempts(r.Context(), req.Email); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	session, err := h.issueSession(w, r, user)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusOK, "signed in", session)
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(ClaimsCtxKey).(*AuthClaims)

	if claims.ExpiresAt != nil {
		if err := h.sessionCache.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:    tokenCookieName,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
		Path:    "/",
	})

	h.successResponse(w, r, http.StatusOK, "signed out", nil)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	sub, _ := callerID(r)

	user, err := h.store.GetUserByID(r.Context(), sub)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.unauthorized(w, r, "user no longer exists")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, http.StatusOK, "user loaded", user)
}
