package view

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/utils"
)

// DateLayout is the format the date field is entered in.
const DateLayout = "2006-01-02T15:04"

type CreateJobForm struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"required,max=5000"`
	Category    string `validate:"required,oneof=moving catering cleaning gardening other"`
	Location    string `validate:"required,max=200"`
	Payment     string `validate:"required,numeric"`
	Duration    string `validate:"required,number"`
	Date        string `validate:"required,datetime=2006-01-02T15:04"`
}

type CreateJobView struct {
	env      *Env
	validate *validator.Validate
	trans    ut.Translator
}

func NewCreateJobView(env *Env) (*CreateJobView, error) {
	validate, trans, err := utils.NewValidator()
	if err != nil {
		return nil, err
	}
	return &CreateJobView{env: env, validate: validate, trans: trans}, nil
}

func (v *CreateJobView) Mount(context.Context) error {
	return nil
}

// Allowed reports whether the signed-in user may post jobs.
func (v *CreateJobView) Allowed() bool {
	return v.env.Session.Snapshot().Identity().IsEmployer()
}

// Parse validates the form and turns it into a job.
func (v *CreateJobView) Parse(form CreateJobForm) (domain.NewJob, error) {
	form.Title = strings.TrimSpace(form.Title)
	form.Description = strings.TrimSpace(form.Description)
	form.Location = strings.TrimSpace(form.Location)
	form.Payment = strings.TrimSpace(form.Payment)
	form.Duration = strings.TrimSpace(form.Duration)
	form.Date = strings.TrimSpace(form.Date)

	if err := v.validate.Struct(form); err != nil {
		return domain.NewJob{}, errors.New(utils.FirstError(err, v.trans))
	}

	payment, err := strconv.ParseFloat(form.Payment, 64)
	if err != nil || payment < 0 {
		return domain.NewJob{}, errors.New("payment must not be negative")
	}
	duration, err := strconv.ParseInt(form.Duration, 10, 32)
	if err != nil || duration < 1 {
		return domain.NewJob{}, errors.New("duration must be at least 1 hour")
	}
	date, err := time.ParseInLocation(DateLayout, form.Date, time.Local)
	if err != nil {
		return domain.NewJob{}, err
	}

	return domain.NewJob{
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		Location:    form.Location,
		Payment:     payment,
		Duration:    int32(duration),
		Date:        date,
		Status:      domain.JobStatusOpen,
	}, nil
}

// Submit posts the job and goes back to the job list.
func (v *CreateJobView) Submit(ctx context.Context, form CreateJobForm) (*domain.Job, error) {
	if !v.Allowed() {
		v.env.Toasts.Error("Only employers can post jobs.")
		return nil, domain.ErrForbidden
	}

	newJob, err := v.Parse(form)
	if err != nil {
		v.env.Toasts.Error(err.Error())
		return nil, err
	}

	job, err := v.env.Jobs.Create(ctx, newJob)
	if err != nil {
		v.env.Toasts.Error("Error creating job")
		return nil, err
	}

	v.env.Toasts.Success("Job posted successfully!")
	v.env.navigate(PathJobs)
	return job, nil
}
