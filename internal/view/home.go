package view

import (
	"context"
	"fmt"
)

type HomeView struct {
	env *Env
}

func NewHomeView(env *Env) *HomeView {
	return &HomeView{env: env}
}

func (v *HomeView) Mount(context.Context) error {
	return nil
}

func (v *HomeView) Greeting() string {
	me := v.env.Session.Snapshot().Identity()
	if me == nil {
		return "Find short-term work or hire help nearby. Sign in or create an account to get started."
	}
	return fmt.Sprintf("Welcome back, %s.", me.FullName)
}
