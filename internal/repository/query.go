package repository

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	TableProfiles      = "profiles"
	TableJobs          = "jobs"
	TableApplications  = "applications"
	TableNotifications = "notifications"

	EmbedEmployer = "employer"
)

type ColumnKind int

const (
	KindText ColumnKind = iota
	KindUUID
	KindBool
)

// Table lists what a query against a table may filter, order and embed by.
type Table struct {
	Name       string
	Filterable map[string]ColumnKind
	Orderable  []string
	Embeds     []string
}

var Tables = map[string]Table{
	TableProfiles: {
		Name: TableProfiles,
		Filterable: map[string]ColumnKind{
			"id":    KindUUID,
			"email": KindText,
			"role":  KindText,
		},
		Orderable: []string{"created_at", "full_name"},
	},
	TableJobs: {
		Name: TableJobs,
		Filterable: map[string]ColumnKind{
			"id":          KindUUID,
			"status":      KindText,
			"category":    KindText,
			"employer_id": KindUUID,
			"worker_id":   KindUUID,
		},
		Orderable: []string{"created_at", "date", "payment"},
		Embeds:    []string{EmbedEmployer},
	},
	TableApplications: {
		Name: TableApplications,
		Filterable: map[string]ColumnKind{
			"id":        KindUUID,
			"job_id":    KindUUID,
			"worker_id": KindUUID,
			"status":    KindText,
		},
		Orderable: []string{"created_at"},
	},
	TableNotifications: {
		Name: TableNotifications,
		Filterable: map[string]ColumnKind{
			"id":      KindUUID,
			"user_id": KindUUID,
			"type":    KindText,
			"read":    KindBool,
		},
		Orderable: []string{"created_at"},
	},
}

// Filter is an equality filter. Value holds the parsed value for the column kind.
type Filter struct {
	Column string
	Value  any
}

type Query struct {
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
	Embed      []string

	// Viewer, when set on an applications query, keeps only the applications the
	// viewer made or received for one of their own jobs.
	Viewer uuid.UUID
}

func (q *Query) Eq(column string, value any) *Query {
	q.Filters = append(q.Filters, Filter{Column: column, Value: value})
	return q
}

func (q *Query) Embeds(name string) bool {
	return slices.Contains(q.Embed, name)
}

type QueryError struct {
	Msg string
}

func (e *QueryError) Error() string {
	return e.Msg
}

// ParseFilterValue turns the raw text of a filter into the value for column.
func (t Table) ParseFilterValue(column, raw string) (any, error) {
	kind, ok := t.Filterable[column]
	if !ok {
		return nil, &QueryError{Msg: fmt.Sprintf("column %q of %s cannot be filtered", column, t.Name)}
	}

	switch kind {
	case KindUUID:
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, &QueryError{Msg: fmt.Sprintf("invalid uuid for %s: %q", column, raw)}
		}
		return id, nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, &QueryError{Msg: fmt.Sprintf("invalid boolean for %s: %q", column, raw)}
		}
		return b, nil
	default:
		return raw, nil
	}
}

// Validate checks every column of q against the table description.
func (t Table) Validate(q *Query) error {
	for _, f := range q.Filters {
		if _, ok := t.Filterable[f.Column]; !ok {
			return &QueryError{Msg: fmt.Sprintf("column %q of %s cannot be filtered", f.Column, t.Name)}
		}
	}
	if q.OrderBy != "" && !slices.Contains(t.Orderable, q.OrderBy) {
		return &QueryError{Msg: fmt.Sprintf("column %q of %s cannot be ordered by", q.OrderBy, t.Name)}
	}
	for _, e := range q.Embed {
		if !slices.Contains(t.Embeds, e) {
			return &QueryError{Msg: fmt.Sprintf("%s cannot embed %q", t.Name, e)}
		}
	}
	if q.Limit < 0 {
		return &QueryError{Msg: "limit must not be negative"}
	}
	return nil
}

// whereClause renders the filters of q as a SQL condition starting at placeholder
// $next. Column names were validated against Tables, so they are safe to inline.
func whereClause(q *Query, alias string, next int) (string, []any) {
	conds := make([]string, 0, len(q.Filters))
	args := make([]any, 0, len(q.Filters))
	for _, f := range q.Filters {
		conds = append(conds, fmt.Sprintf("%s%s = $%d", alias, f.Column, next))
		args = append(args, f.Value)
		next++
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderClause(q *Query, alias, fallback string) string {
	column := q.OrderBy
	desc := q.Descending
	if column == "" {
		column = fallback
		desc = true
	}
	s := " ORDER BY " + alias + column
	if desc {
		s += " DESC"
	}
	return s
}

func limitClause(q *Query) string {
	if q.Limit <= 0 {
		return ""
	}
	return " LIMIT " + strconv.Itoa(q.Limit)
}
