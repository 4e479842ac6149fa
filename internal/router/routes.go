package router

import (
	"github.com/gigboard-dev/gigboard/internal/view"
)

// Register adds the client screens. Profile and create-job need a signed-in user.
func Register(r *Router, env *view.Env) {
	r.Handle(view.PathHome, false, func() (view.View, error) {
		return view.NewHomeView(env), nil
	})
	r.Handle(view.PathLogin, false, func() (view.View, error) {
		return view.NewAuthView(env)
	})
	r.Handle(view.PathSignUp, false, func() (view.View, error) {
		return view.NewAuthView(env)
	})
	r.Handle(view.PathJobs, false, func() (view.View, error) {
		return view.NewJobsView(env), nil
	})
	r.Handle(view.PathProfile, true, func() (view.View, error) {
		return view.NewProfileView(env), nil
	})
	r.Handle(view.PathCreateJob, true, func() (view.View, error) {
		return view.NewCreateJobView(env)
	})
}
