package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/repository"
)

// SingleObjectMediaType asks for exactly one row as a JSON object instead of a list.
const SingleObjectMediaType = "application/vnd.pgrst.object+json"

var (
	tableProfiles      = repository.Tables[repository.TableProfiles]
	tableJobs          = repository.Tables[repository.TableJobs]
	tableApplications  = repository.Tables[repository.TableApplications]
	tableNotifications = repository.Tables[repository.TableNotifications]
)

// ParseQuery reads `col=eq.value` filters, `order=col.desc`, `limit=n` and
// `select=*,embed` from the query string.
func ParseQuery(table repository.Table, values url.Values) (*repository.Query, error) {
	q := &repository.Query{}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		for _, v := range values[key] {
			switch key {
			case "select":
				for _, item := range strings.Split(v, ",") {
					item = strings.TrimSpace(item)
					if item == "*" || item == "" {
						continue
					}
					q.Embed = append(q.Embed, item)
				}
			case "order":
				column, direction, _ := strings.Cut(v, ".")
				switch direction {
				case "", "asc":
				case "desc":
					q.Descending = true
				default:
					return nil, &repository.QueryError{Msg: fmt.Sprintf("invalid order direction %q", direction)}
				}
				q.OrderBy = column
			case "limit":
				n, err := strconv.Atoi(v)
				if err != nil {
					return nil, &repository.QueryError{Msg: fmt.Sprintf("invalid limit %q", v)}
				}
				q.Limit = n
			default:
				op, raw, ok := strings.Cut(v, ".")
				if !ok || op != "eq" {
					return nil, &repository.QueryError{Msg: fmt.Sprintf("unsupported filter %s=%s", key, v)}
				}
				value, err := table.ParseFilterValue(key, raw)
				if err != nil {
					return nil, err
				}
				q.Eq(key, value)
			}
		}
	}

	if err := table.Validate(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (h *Handler) tableQuery(table repository.Table) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q, err := ParseQuery(table, r.URL.Query())
			if err != nil {
				h.badRequest(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), QueryCtx, q)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func queryFrom(r *http.Request) *repository.Query {
	return r.Context().Value(QueryCtx).(*repository.Query)
}

func wantsSingle(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), SingleObjectMediaType)
}

func writeRows[T any](h *Handler, w http.ResponseWriter, r *http.Request, status int, msg string, rows []T) {
	if !wantsSingle(r) {
		h.successResponse(w, r, status, msg, rows)
		return
	}

	if len(rows) != 1 {
		h.errorResponse(w, r, http.StatusNotAcceptable, domain.CodeNotSingle, fmt.Sprintf("JSON object requested, %d rows returned", len(rows)))
		return
	}
	h.successResponse(w, r, status, msg, rows[0])
}

// filterValue returns the value of the equality filter on column, if any.
func filterValue(q *repository.Query, column string) (any, bool) {
	for _, f := range q.Filters {
		if f.Column == column {
			return f.Value, true
		}
	}
	return nil, false
}

// publish hands an event to the queue. The write it describes is already stored,
// so a failure only costs the email.
func (h *Handler) publish(r *http.Request, event domain.Event) {
	if err := h.events.Publish(r.Context(), event); err != nil {
		h.logInternalServerError(r, fmt.Errorf("publish %s event: %w", event.Type, err))
	}
}
