package view

import (
	"context"
	"errors"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/remote"
	"github.com/gigboard-dev/gigboard/internal/session"
	"github.com/gigboard-dev/gigboard/internal/utils"
)

type SignInForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type SignUpForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	FullName string `validate:"required,max=100"`
	Phone    string `validate:"omitempty,len=10,number"`
	Role     string `validate:"required,oneof=worker employer"`
}

// AuthMessage turns a sign-in or sign-up failure into a message for the user.
func AuthMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrWeakPassword):
		return "Password is too weak. Please use at least 8 characters with uppercase and lowercase letters and numbers."
	case errors.Is(err, session.ErrProfileCreation):
		return "Your account was created but the profile could not be saved. Please try again."
	}

	switch remote.CodeOf(err) {
	case domain.CodeEmailTaken:
		return "An account with this email already exists. Please log in instead."
	case domain.CodeInvalidCredentials:
		return "Invalid email or password. Please try again."
	case domain.CodeTooManyAttempts:
		return "Too many failed attempts. Please wait a few minutes and try again."
	case domain.CodeWeakPassword:
		return "Password is too weak. Please use at least 8 characters with uppercase and lowercase letters and numbers."
	case domain.CodeBadRequest:
		return "Please enter a valid email address."
	}
	return "An error occurred. Please try again."
}

type AuthView struct {
	env      *Env
	validate *validator.Validate
	trans    ut.Translator
}

func NewAuthView(env *Env) (*AuthView, error) {
	validate, trans, err := utils.NewValidator()
	if err != nil {
		return nil, err
	}
	return &AuthView{env: env, validate: validate, trans: trans}, nil
}

func (v *AuthView) Mount(context.Context) error {
	return nil
}

func (v *AuthView) check(form any) error {
	if err := v.validate.Struct(form); err != nil {
		msg := utils.FirstError(err, v.trans)
		v.env.Toasts.Error(msg)
		return errors.New(msg)
	}
	return nil
}

func (v *AuthView) SignIn(ctx context.Context, form SignInForm) error {
	form.Email = strings.TrimSpace(form.Email)
	if err := v.check(form); err != nil {
		return err
	}

	if err := v.env.Session.SignIn(ctx, form.Email, form.Password); err != nil {
		v.env.Toasts.Error(AuthMessage(err))
		return err
	}

	v.env.Toasts.Success("Logged in successfully!")
	v.env.navigate(PathJobs)
	return nil
}

func (v *AuthView) SignUp(ctx context.Context, form SignUpForm) error {
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)
	if err := v.check(form); err != nil {
		return err
	}

	err := v.env.Session.SignUp(ctx, session.SignUpInput{
		Email:    form.Email,
		Password: form.Password,
		FullName: form.FullName,
		Phone:    form.Phone,
		Role:     domain.Role(form.Role),
	})
	if err != nil {
		v.env.Toasts.Error(AuthMessage(err))
		return err
	}

	v.env.Toasts.Success("Account created successfully!")
	v.env.navigate(PathJobs)
	return nil
}

// SignOut clears the session even when the backend cannot be reached.
func (v *AuthView) SignOut(ctx context.Context) error {
	err := v.env.Session.SignOut(ctx)
	if err != nil {
		v.env.Toasts.Error("Signed out locally, the server could not be reached")
	} else {
		v.env.Toasts.Success("Signed out")
	}
	v.env.navigate(PathHome)
	return err
}
