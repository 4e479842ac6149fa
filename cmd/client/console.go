package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/facade"
	"github.com/gigboard-dev/gigboard/internal/router"
	"github.com/gigboard-dev/gigboard/internal/session"
	"github.com/gigboard-dev/gigboard/internal/view"
)

const help = `commands:
  home | jobs | profile | post        go to a screen
  search <text>                       filter jobs by text
  category <value|all>                filter jobs by category
  apply <n> [message]                 apply for job n of the list
  login <email> <password>
  signup <email> <password> <worker|employer> <full name>
  logout
  set <full_name|phone|bio|location|skills> <value>
  avatar <file>
  posted                              list your posted jobs
  applicants <n>                      review applicants of posted job n
  accept <n> | reject <n>             decide applicant n
  notifications | read <n>
  help | quit`

type console struct {
	ctx    context.Context
	in     *bufio.Scanner
	out    io.Writer
	env    *view.Env
	router *router.Router
	facade *facade.Facade

	mu         sync.Mutex
	bell       *view.Bell
	bellScope  *view.Scope
	bellUser   uuid.UUID
	posted     []*domain.Job
	applicants *view.ApplicantsView
}

func newConsole(ctx context.Context, in io.Reader, out io.Writer, env *view.Env, r *router.Router, f *facade.Facade) *console {
	c := &console{
		ctx:    ctx,
		in:     bufio.NewScanner(in),
		out:    out,
		env:    env,
		router: r,
		facade: f,
	}
	env.Session.Subscribe(c.sessionChanged)
	return c
}

// sessionChanged keeps a notification bell polling for the signed-in user. A
// different user gets a fresh bell.
func (c *console) sessionChanged(snap session.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var user uuid.UUID
	if id := snap.Identity(); snap.State == session.Authenticated && id != nil {
		user = id.ID
	}
	if c.bell != nil && c.bellUser == user {
		return
	}

	if c.bell != nil {
		c.bellScope.Close()
		c.bell = nil
		c.bellScope = nil
		c.posted = nil
		c.applicants = nil
	}
	c.bellUser = user
	if user != uuid.Nil {
		c.bellScope = view.NewScope(c.ctx)
		c.bell = view.NewBell(c.env)
		_ = c.bell.Mount(c.bellScope.Context())
	}
}

func (c *console) currentBell() *view.Bell {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bell
}

func (c *console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *console) run() {
	c.printf("gigboard, type help for commands\n")
	for {
		c.prompt()
		if !c.in.Scan() {
			return
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}
		c.exec(line)
		c.flushToasts()
		if c.ctx.Err() != nil {
			return
		}
	}
}

func (c *console) prompt() {
	snap := c.env.Session.Snapshot()
	who := "guest"
	switch snap.State {
	case session.Loading:
		who = "..."
	case session.Authenticated:
		who = snap.Profile.FullName
	}
	if bell := c.currentBell(); bell != nil && bell.Unread() > 0 {
		who += fmt.Sprintf(" (%d new)", bell.Unread())
	}
	c.printf("%s %s> ", who, c.router.Path())
}

func (c *console) flushToasts() {
	for _, t := range c.env.Toasts.Drain() {
		c.printf("[%s] %s\n", t.Kind, t.Text)
	}
}

func (c *console) exec(line string) {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	ctx := c.router.Context()

	switch cmd {
	case "help":
		c.printf("%s\n", help)
	case "home":
		c.router.Navigate(view.PathHome)
	case "jobs":
		c.router.Navigate(view.PathJobs)
	case "profile":
		c.router.Navigate(view.PathProfile)
	case "post":
		c.router.Navigate(view.PathCreateJob)
		if v, ok := c.router.Current().(*view.CreateJobView); ok {
			c.post(ctx, v)
		}
	case "search", "category":
		v, ok := c.jobsView()
		if !ok {
			return
		}
		if cmd == "search" {
			v.SetQuery(rest)
		} else if rest == "all" {
			v.SetCategory("")
		} else {
			v.SetCategory(rest)
		}
		c.renderJobs(v)
	case "apply":
		v, ok := c.jobsView()
		if !ok {
			return
		}
		n, message, _ := strings.Cut(rest, " ")
		job, ok := pick(c, v.Visible(), n)
		if !ok {
			return
		}
		_, _ = v.Apply(ctx, job.ID, strings.TrimSpace(message))
	case "login":
		email, password, _ := strings.Cut(rest, " ")
		c.router.Navigate(view.PathLogin)
		if v, ok := c.router.Current().(*view.AuthView); ok {
			_ = v.SignIn(c.router.Context(), view.SignInForm{Email: email, Password: password})
		}
	case "signup":
		fields := strings.SplitN(rest, " ", 4)
		if len(fields) < 4 {
			c.printf("usage: signup <email> <password> <worker|employer> <full name>\n")
			return
		}
		c.router.Navigate(view.PathSignUp)
		if v, ok := c.router.Current().(*view.AuthView); ok {
			_ = v.SignUp(c.router.Context(), view.SignUpForm{Email: fields[0], Password: fields[1], Role: fields[2], FullName: fields[3]})
		}
	case "logout":
		if v, err := view.NewAuthView(c.env); err == nil {
			_ = v.SignOut(ctx)
		}
	case "set":
		c.setField(ctx, rest)
	case "avatar":
		c.avatar(ctx, rest)
	case "posted":
		c.listPosted(ctx)
	case "applicants":
		c.openApplicants(rest)
	case "accept", "reject":
		c.decide(cmd, rest)
	case "notifications":
		c.renderNotifications()
	case "read":
		bell := c.currentBell()
		if bell == nil {
			c.printf("sign in to see notifications\n")
			return
		}
		items := bell.Items()
		i, ok := index(c, len(items), rest)
		if !ok {
			return
		}
		_ = bell.MarkRead(c.ctx, items[i].ID)
	default:
		c.printf("unknown command %q, type help\n", cmd)
	}
}

func (c *console) jobsView() (*view.JobsView, bool) {
	v, ok := c.router.Current().(*view.JobsView)
	if !ok {
		c.printf("go to jobs first\n")
	}
	return v, ok
}

func index(c *console, n int, arg string) (int, bool) {
	i, err := strconv.Atoi(arg)
	if err != nil || i < 1 || i > n {
		c.printf("pick a number between 1 and %d\n", n)
		return 0, false
	}
	return i - 1, true
}

func pick[T any](c *console, items []T, arg string) (T, bool) {
	i, ok := index(c, len(items), arg)
	if !ok {
		var zero T
		return zero, false
	}
	return items[i], true
}

func (c *console) ask(label string) string {
	c.printf("%s: ", label)
	if !c.in.Scan() {
		return ""
	}
	return strings.TrimSpace(c.in.Text())
}

func (c *console) post(ctx context.Context, v *view.CreateJobView) {
	if !v.Allowed() {
		c.printf("only employers can post jobs\n")
		return
	}
	for _, cat := range domain.Categories {
		c.printf("  %-10s %s\n", cat.Value, cat.Label)
	}
	form := view.CreateJobForm{
		Title:       c.ask("title"),
		Description: c.ask("description"),
		Category:    c.ask("category"),
		Location:    c.ask("location"),
		Payment:     c.ask("payment"),
		Duration:    c.ask("duration in hours"),
		Date:        c.ask("date (YYYY-MM-DDTHH:MM)"),
	}
	_, _ = v.Submit(ctx, form)
}

func (c *console) setField(ctx context.Context, rest string) {
	v, ok := c.router.Current().(*view.ProfileView)
	if !ok {
		c.printf("go to profile first\n")
		return
	}
	field, value, _ := strings.Cut(rest, " ")
	form := v.Form()
	switch field {
	case "full_name":
		form.FullName = value
	case "phone":
		form.Phone = value
	case "bio":
		form.Bio = value
	case "location":
		form.Location = value
	case "skills":
		form.Skills = value
	default:
		c.printf("unknown field %q\n", field)
		return
	}
	if err := v.Save(ctx, form); err == nil {
		c.renderProfile(v)
	}
}

func (c *console) avatar(ctx context.Context, path string) {
	v, ok := c.router.Current().(*view.ProfileView)
	if !ok {
		c.printf("go to profile first\n")
		return
	}
	f, err := os.Open(path)
	if err != nil {
		c.printf("%v\n", err)
		return
	}
	defer f.Close()
	_ = v.UploadAvatar(ctx, filepath.Base(path), f)
}

func (c *console) listPosted(ctx context.Context) {
	me := c.env.Session.Snapshot().Identity()
	if !me.IsEmployer() {
		c.printf("only employers post jobs\n")
		return
	}
	jobs, err := c.facade.Jobs.ListPosted(ctx, me.ID)
	if err != nil {
		c.printf("failed to load your jobs: %v\n", err)
		return
	}

	c.mu.Lock()
	c.posted = jobs
	c.mu.Unlock()

	if len(jobs) == 0 {
		c.printf("you have not posted any jobs\n")
	}
	for i, job := range jobs {
		c.printf("%2d. %s [%s] %s\n", i+1, job.Title, job.Status, humanize.Time(job.Date))
	}
}

func (c *console) openApplicants(arg string) {
	c.mu.Lock()
	posted := c.posted
	c.mu.Unlock()
	if len(posted) == 0 {
		c.printf("run posted first\n")
		return
	}
	job, ok := pick(c, posted, arg)
	if !ok {
		return
	}

	v := view.NewApplicantsView(c.env, job.ID)
	if err := v.Mount(c.router.Context()); err != nil {
		return
	}
	c.mu.Lock()
	c.applicants = v
	c.mu.Unlock()
	c.renderApplicants(v)
}

func (c *console) decide(cmd, arg string) {
	c.mu.Lock()
	v := c.applicants
	c.mu.Unlock()
	if v == nil {
		c.printf("open applicants first\n")
		return
	}
	a, ok := pick(c, v.Applications(), arg)
	if !ok {
		return
	}
	if cmd == "accept" {
		_ = v.Accept(c.router.Context(), a.ID)
	} else {
		_ = v.Reject(c.router.Context(), a.ID)
	}
	c.renderApplicants(v)
}

// render is called by the router after every mount.
func (c *console) render(path string, v view.View) {
	switch v := v.(type) {
	case router.Placeholder:
		c.printf("%s\n", v.Text())
	case *view.HomeView:
		c.printf("%s\n", v.Greeting())
	case *view.JobsView:
		c.renderJobs(v)
	case *view.ProfileView:
		c.renderProfile(v)
	case *view.AuthView:
		if path == view.PathLogin {
			c.printf("sign in with: login <email> <password>\n")
		} else {
			c.printf("create an account with: signup <email> <password> <worker|employer> <full name>\n")
		}
	}
}

func (c *console) renderJobs(v *view.JobsView) {
	jobs := v.Visible()
	if len(jobs) == 0 {
		c.printf("no jobs found\n")
		return
	}
	for i, job := range jobs {
		employer := ""
		if job.Employer != nil {
			employer = " by " + job.Employer.FullName
		}
		c.printf("%2d. %s%s\n    %s, %s, %dh, %s, posted %s\n",
			i+1, job.Title, employer,
			job.Category, job.Location, job.Duration,
			humanize.FormatFloat("#,###.##", job.Payment),
			humanize.Time(job.CreatedAt))
	}
}

func (c *console) renderProfile(v *view.ProfileView) {
	p := v.Profile()
	if p == nil {
		return
	}
	c.printf("%s (%s)\n  email:    %s\n  phone:    %s\n  location: %s\n  skills:   %s\n  bio:      %s\n",
		p.FullName, p.Role, p.Email, p.Phone, p.Location, strings.Join(p.Skills, ", "), p.Bio)
	if p.AvatarURL != "" {
		c.printf("  avatar:   %s\n", p.AvatarURL)
	}
}

func (c *console) renderApplicants(v *view.ApplicantsView) {
	applications := v.Applications()
	c.printf("applicants for %s\n", v.Job().Title)
	if len(applications) == 0 {
		c.printf("  nobody applied yet\n")
	}
	for i, a := range applications {
		name := a.WorkerID.String()
		if a.ProfileSnapshot != nil {
			name = fmt.Sprintf("%s, %s, %s", a.ProfileSnapshot.FullName, a.ProfileSnapshot.Email, a.ProfileSnapshot.Phone)
		}
		c.printf("%2d. %s [%s] %s\n", i+1, name, a.Status, humanize.Time(a.CreatedAt))
		if a.Message != "" {
			c.printf("    %q\n", a.Message)
		}
	}
}

func (c *console) renderNotifications() {
	bell := c.currentBell()
	if bell == nil {
		c.printf("sign in to see notifications\n")
		return
	}
	items := bell.Items()
	if len(items) == 0 {
		c.printf("no notifications\n")
	}
	for i, item := range items {
		mark := " "
		if !item.Read {
			mark = "*"
		}
		c.printf("%s%2d. %s (%s)\n", mark, i+1, item.Message, humanize.Time(item.CreatedAt))
	}
}
