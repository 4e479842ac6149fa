// Package memory is an in-process implementation of the repository used by tests
// and local experiments. It honors the same constraints and error values as the
// Postgres repository.
package memory

import (
	"cmp"
	"context"
	"database/sql"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/repository"
)

type Repository struct {
	mu   sync.RWMutex
	last time.Time

	users         map[uuid.UUID]*domain.User
	profiles      map[uuid.UUID]*domain.Profile
	jobs          map[uuid.UUID]*domain.Job
	applications  map[uuid.UUID]*domain.Application
	notifications map[uuid.UUID]*domain.Notification
	objects       map[string]*domain.Object
}

func New() *Repository {
	return &Repository{
		users:         make(map[uuid.UUID]*domain.User),
		profiles:      make(map[uuid.UUID]*domain.Profile),
		jobs:          make(map[uuid.UUID]*domain.Job),
		applications:  make(map[uuid.UUID]*domain.Application),
		notifications: make(map[uuid.UUID]*domain.Notification),
		objects:       make(map[string]*domain.Object),
	}
}

// now hands out strictly increasing timestamps so "newest first" is total.
// The caller must hold mu.
func (r *Repository) now() time.Time {
	t := time.Now().UTC()
	if !t.After(r.last) {
		t = r.last.Add(time.Microsecond)
	}
	r.last = t
	return t
}

var profileFields = map[string]func(*domain.Profile) any{
	"id":    func(p *domain.Profile) any { return p.ID },
	"email": func(p *domain.Profile) any { return p.Email },
	"role":  func(p *domain.Profile) any { return string(p.Role) },
}

var profileOrders = map[string]func(a, b *domain.Profile) int{
	"created_at": func(a, b *domain.Profile) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"full_name":  func(a, b *domain.Profile) int { return cmp.Compare(a.FullName, b.FullName) },
}

var jobFields = map[string]func(*domain.Job) any{
	"id":          func(j *domain.Job) any { return j.ID },
	"status":      func(j *domain.Job) any { return string(j.Status) },
	"category":    func(j *domain.Job) any { return j.Category },
	"employer_id": func(j *domain.Job) any { return j.EmployerID },
	"worker_id": func(j *domain.Job) any {
		if j.WorkerID == nil {
			return nil
		}
		return *j.WorkerID
	},
}

var jobOrders = map[string]func(a, b *domain.Job) int{
	"created_at": func(a, b *domain.Job) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"date":       func(a, b *domain.Job) int { return a.Date.Compare(b.Date) },
	"payment":    func(a, b *domain.Job) int { return cmp.Compare(a.Payment, b.Payment) },
}

var applicationFields = map[string]func(*domain.Application) any{
	"id":        func(a *domain.Application) any { return a.ID },
	"job_id":    func(a *domain.Application) any { return a.JobID },
	"worker_id": func(a *domain.Application) any { return a.WorkerID },
	"status":    func(a *domain.Application) any { return string(a.Status) },
}

var applicationOrders = map[string]func(a, b *domain.Application) int{
	"created_at": func(a, b *domain.Application) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

var notificationFields = map[string]func(*domain.Notification) any{
	"id":      func(n *domain.Notification) any { return n.ID },
	"user_id": func(n *domain.Notification) any { return n.UserID },
	"type":    func(n *domain.Notification) any { return n.Type },
	"read":    func(n *domain.Notification) any { return n.Read },
}

var notificationOrders = map[string]func(a, b *domain.Notification) int{
	"created_at": func(a, b *domain.Notification) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

func matches[T any](row *T, q *repository.Query, fields map[string]func(*T) any) bool {
	for _, f := range q.Filters {
		field, ok := fields[f.Column]
		if !ok || field(row) != f.Value {
			return false
		}
	}
	return true
}

// query filters, orders and limits rows the way the SQL repository does.
func query[T any](all map[uuid.UUID]*T, q *repository.Query, fields map[string]func(*T) any, orders map[string]func(a, b *T) int, keep func(*T) bool) []*T {
	rows := make([]*T, 0)
	for _, row := range all {
		if matches(row, q, fields) && (keep == nil || keep(row)) {
			rows = append(rows, row)
		}
	}

	column, desc := q.OrderBy, q.Descending
	if column == "" {
		column, desc = "created_at", true
	}
	if order, ok := orders[column]; ok {
		slices.SortStableFunc(rows, func(a, b *T) int {
			if desc {
				return order(b, a)
			}
			return order(a, b)
		})
	}

	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return rows
}

func cloneProfile(p *domain.Profile) *domain.Profile {
	c := *p
	c.Skills = append(make([]string, 0, len(p.Skills)), p.Skills...)
	if p.Rating != nil {
		rating := *p.Rating
		c.Rating = &rating
	}
	return &c
}

func cloneJob(j *domain.Job) *domain.Job {
	c := *j
	if j.WorkerID != nil {
		id := *j.WorkerID
		c.WorkerID = &id
	}
	c.Employer = nil
	return &c
}

func cloneApplication(a *domain.Application) *domain.Application {
	c := *a
	if a.ProfileSnapshot != nil {
		c.ProfileSnapshot = cloneProfile(a.ProfileSnapshot)
	}
	return &c
}

func cloneNotification(n *domain.Notification) *domain.Notification {
	c := *n
	return &c
}

func (r *Repository) CreateUser(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return &repository.ConstraintError{Constraint: "users_email_key"}
		}
	}

	user.CreatedAt = r.now()
	c := *user
	r.users[user.ID] = &c
	return nil
}

func (r *Repository) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *Repository) GetUserByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := *u
	return &c, nil
}

func (r *Repository) SelectProfiles(_ context.Context, q *repository.Query) ([]*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := query(r.profiles, q, profileFields, profileOrders, nil)
	out := make([]*domain.Profile, 0, len(rows))
	for _, p := range rows {
		out = append(out, cloneProfile(p))
	}
	return out, nil
}

func (r *Repository) GetProfile(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return cloneProfile(p), nil
}

func (r *Repository) InsertProfile(_ context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[profile.ID]; !ok {
		return &repository.ConstraintError{Constraint: "profiles_id_fkey"}
	}
	if _, ok := r.profiles[profile.ID]; ok {
		return &repository.ConstraintError{Constraint: "profiles_pkey"}
	}

	if profile.Skills == nil {
		profile.Skills = make([]string, 0)
	}
	profile.CreatedAt = r.now()
	r.profiles[profile.ID] = cloneProfile(profile)
	return nil
}

func (r *Repository) UpdateProfile(_ context.Context, id uuid.UUID, patch *domain.ProfilePatch) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	patch.Apply(p)
	return cloneProfile(p), nil
}

func (r *Repository) withEmployer(j *domain.Job, embed bool) *domain.Job {
	c := cloneJob(j)
	if embed {
		c.Employer = &domain.Employer{}
		if p, ok := r.profiles[j.EmployerID]; ok {
			c.Employer.FullName = p.FullName
		}
	}
	return c
}

func (r *Repository) SelectJobs(_ context.Context, q *repository.Query) ([]*domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := query(r.jobs, q, jobFields, jobOrders, nil)
	embed := q.Embeds(repository.EmbedEmployer)
	out := make([]*domain.Job, 0, len(rows))
	for _, j := range rows {
		out = append(out, r.withEmployer(j, embed))
	}
	return out, nil
}

func (r *Repository) GetJob(_ context.Context, id uuid.UUID) (*domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return r.withEmployer(j, true), nil
}

func (r *Repository) InsertJob(_ context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[job.EmployerID]; !ok {
		return &repository.ConstraintError{Constraint: "jobs_employer_id_fkey"}
	}

	job.CreatedAt = r.now()
	r.jobs[job.ID] = cloneJob(job)
	return nil
}

func (r *Repository) UpdateJobs(_ context.Context, q *repository.Query, patch *domain.JobPatch) ([]*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := query(r.jobs, q, jobFields, jobOrders, nil)
	embed := q.Embeds(repository.EmbedEmployer)
	out := make([]*domain.Job, 0, len(rows))
	for _, j := range rows {
		if patch.Status != nil {
			j.Status = *patch.Status
		}
		if patch.WorkerID != nil {
			id := *patch.WorkerID
			j.WorkerID = &id
		}
		out = append(out, r.withEmployer(j, embed))
	}
	return out, nil
}

func (r *Repository) SelectApplications(_ context.Context, q *repository.Query) ([]*domain.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var keep func(*domain.Application) bool
	if q.Viewer != uuid.Nil {
		keep = func(a *domain.Application) bool {
			if a.WorkerID == q.Viewer {
				return true
			}
			j, ok := r.jobs[a.JobID]
			return ok && j.EmployerID == q.Viewer
		}
	}

	rows := query(r.applications, q, applicationFields, applicationOrders, keep)
	out := make([]*domain.Application, 0, len(rows))
	for _, a := range rows {
		out = append(out, cloneApplication(a))
	}
	return out, nil
}

func (r *Repository) GetApplication(_ context.Context, id uuid.UUID) (*domain.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.applications[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return cloneApplication(a), nil
}

func (r *Repository) InsertApplication(_ context.Context, application *domain.Application, notice *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[application.JobID]; !ok {
		return &repository.ConstraintError{Constraint: "applications_job_id_fkey"}
	}
	for _, a := range r.applications {
		if a.JobID == application.JobID && a.WorkerID == application.WorkerID {
			return &repository.ConstraintError{Constraint: domain.ApplicationUniqueConstraint}
		}
	}

	if application.Status == "" {
		application.Status = domain.ApplicationStatusPending
	}
	application.CreatedAt = r.now()
	r.applications[application.ID] = cloneApplication(application)

	if notice != nil {
		r.insertNotification(notice)
	}
	return nil
}

func (r *Repository) UpdateApplicationStatus(_ context.Context, id uuid.UUID, status domain.ApplicationStatus, notice *domain.Notification) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.applications[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	a.Status = status

	if notice != nil {
		r.insertNotification(notice)
	}
	return cloneApplication(a), nil
}

func (r *Repository) insertNotification(n *domain.Notification) {
	n.CreatedAt = r.now()
	r.notifications[n.ID] = cloneNotification(n)
}

func (r *Repository) InsertNotification(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[n.UserID]; !ok {
		return &repository.ConstraintError{Constraint: "notifications_user_id_fkey"}
	}
	r.insertNotification(n)
	return nil
}

func (r *Repository) SelectNotifications(_ context.Context, q *repository.Query) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := query(r.notifications, q, notificationFields, notificationOrders, nil)
	out := make([]*domain.Notification, 0, len(rows))
	for _, n := range rows {
		out = append(out, cloneNotification(n))
	}
	return out, nil
}

func (r *Repository) SetNotificationsRead(_ context.Context, q *repository.Query, read bool) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := query(r.notifications, q, notificationFields, notificationOrders, nil)
	out := make([]*domain.Notification, 0, len(rows))
	for _, n := range rows {
		n.Read = read
		out = append(out, cloneNotification(n))
	}
	return out, nil
}

func objectKey(bucket, path string) string {
	return bucket + "/" + path
}

func (r *Repository) PutObject(_ context.Context, obj *domain.Object) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := objectKey(obj.Bucket, obj.Path)
	if _, ok := r.objects[key]; ok {
		return &repository.ConstraintError{Constraint: "objects_pkey"}
	}

	obj.CreatedAt = r.now()
	c := *obj
	c.Data = append([]byte(nil), obj.Data...)
	r.objects[key] = &c
	return nil
}

func (r *Repository) GetObject(_ context.Context, bucket, path string) (*domain.Object, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obj, ok := r.objects[objectKey(bucket, path)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := *obj
	c.Data = append([]byte(nil), obj.Data...)
	return &c, nil
}
