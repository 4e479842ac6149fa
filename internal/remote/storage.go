package remote

import (
	"context"
	"io"
	"net/http"
)

type UploadResult struct {
	Bucket    string `json:"bucket"`
	Path      string `json:"path"`
	PublicURL string `json:"public_url"`
}

// Upload stores body at bucket/path. The first path segment must be the caller's id.
func (c *Client) Upload(ctx context.Context, bucket, path, contentType string, body io.Reader) (*UploadResult, error) {
	var res UploadResult
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/storage/v1/object/" + bucket + "/" + path,
		body:        body,
		contentType: contentType,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) PublicURL(bucket, path string) string {
	return c.baseURL + "/storage/v1/object/public/" + bucket + "/" + path
}
