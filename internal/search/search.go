// Package search filters an already fetched job list.
package search

import (
	"strings"

	"github.com/gigboard-dev/gigboard/internal/domain"
)

type Criteria struct {
	Query    string
	Category string
}

func (c Criteria) Empty() bool {
	return strings.TrimSpace(c.Query) == "" && c.Category == ""
}

// Match reports whether the query occurs in the title, description or location,
// ignoring case, and the category matches exactly when one is set.
func (c Criteria) Match(job *domain.Job) bool {
	if c.Category != "" && job.Category != c.Category {
		return false
	}

	query := strings.ToLower(strings.TrimSpace(c.Query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(job.Title), query) ||
		strings.Contains(strings.ToLower(job.Description), query) ||
		strings.Contains(strings.ToLower(job.Location), query)
}

// Filter keeps the order of jobs. With empty criteria it returns jobs as is.
func Filter(jobs []*domain.Job, c Criteria) []*domain.Job {
	if c.Empty() {
		return jobs
	}

	out := make([]*domain.Job, 0, len(jobs))
	for _, job := range jobs {
		if c.Match(job) {
			out = append(out, job)
		}
	}
	return out
}
