package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// SingleObjectMediaType asks the backend for exactly one row as a JSON object.
const SingleObjectMediaType = "application/vnd.pgrst.object+json"

// Query builds a request against one backend table.
type Query struct {
	c      *Client
	table  string
	params url.Values
	single bool
}

func (c *Client) From(table string) *Query {
	return &Query{c: c, table: table, params: url.Values{}}
}

// Select sets the returned columns; naming an embed such as "employer" expands it.
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

func (q *Query) Eq(column string, value any) *Query {
	q.params.Add(column, "eq."+fmt.Sprint(value))
	return q
}

func (q *Query) Order(column string, ascending bool) *Query {
	direction := "desc"
	if ascending {
		direction = "asc"
	}
	q.params.Set("order", column+"."+direction)
	return q
}

func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Single makes the query fail unless exactly one row matches; out then receives an object.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

func (q *Query) request(method string, body any) (request, error) {
	reader, err := jsonBody(body)
	if err != nil {
		return request{}, err
	}

	req := request{
		method: method,
		path:   "/rest/v1/" + q.table,
		query:  q.params,
		body:   reader,
	}
	if q.single {
		req.accept = SingleObjectMediaType
	}
	return req, nil
}

// Execute runs a select and decodes the rows into out.
func (q *Query) Execute(ctx context.Context, out any) error {
	req, err := q.request(http.MethodGet, nil)
	if err != nil {
		return err
	}
	return q.c.do(ctx, req, out)
}

// Insert stores row and decodes the stored row into out.
func (q *Query) Insert(ctx context.Context, row any, out any) error {
	req, err := q.request(http.MethodPost, row)
	if err != nil {
		return err
	}
	req.query = nil
	return q.c.do(ctx, req, out)
}

// Update applies patch to the rows matching the filters and decodes them into out.
func (q *Query) Update(ctx context.Context, patch any, out any) error {
	req, err := q.request(http.MethodPatch, patch)
	if err != nil {
		return err
	}
	return q.c.do(ctx, req, out)
}
