package handler

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-chi/chi/v5"

	"github.com/gigboard-dev/gigboard/internal/config"
	"github.com/gigboard-dev/gigboard/internal/utils"
)

type Handler struct {
	validate     *validator.Validate
	config       *config.Config
	store        Store
	translator   ut.Translator
	sessionCache SessionCache
	events       EventPublisher

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, store Store, sessionCache SessionCache, events EventPublisher) (*Handler, error) {
	validate, trans, err := utils.NewValidator()
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:     validate,
		config:       cfg,
		store:        store,
		translator:   trans,
		sessionCache: sessionCache,
		events:       events,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth/v1", func(r chi.Router) {
		r.Post("/signup", h.SignUp)
		r.Post("/token", h.SignIn)
		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Post("/logout", h.SignOut)
			r.Get("/user", h.GetUser)
		})
	})

	h.Mux.Route("/rest/v1", func(r chi.Router) {
		r.Use(h.optionalAuth)

		// listing jobs and employer names is public
		r.Route("/profiles", func(r chi.Router) {
			r.With(h.tableQuery(tableProfiles)).Get("/", h.SelectProfiles)
			r.With(h.requireAuth).Post("/", h.InsertProfile)
			r.With(h.requireAuth, h.tableQuery(tableProfiles)).Patch("/", h.UpdateProfiles)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.With(h.tableQuery(tableJobs)).Get("/", h.SelectJobs)
			r.With(h.requireAuth, h.myProfile).Post("/", h.InsertJob)
			r.With(h.requireAuth, h.tableQuery(tableJobs)).Patch("/", h.UpdateJobs)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)

			r.Route("/applications", func(r chi.Router) {
				r.With(h.tableQuery(tableApplications)).Get("/", h.SelectApplications)
				r.With(h.myProfile).Post("/", h.InsertApplication)
				r.With(h.tableQuery(tableApplications)).Patch("/", h.UpdateApplications)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.With(h.tableQuery(tableNotifications)).Get("/", h.SelectNotifications)
				r.With(h.tableQuery(tableNotifications)).Patch("/", h.UpdateNotifications)
			})
		})
	})

	h.Mux.Route("/storage/v1/object", func(r chi.Router) {
		r.Get("/public/{bucket}/*", h.GetPublicObject)
		r.With(h.auth).Post("/{bucket}/*", h.UploadObject)
	})
}
