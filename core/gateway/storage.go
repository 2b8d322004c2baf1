package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// UploadObject streams r into bucket at objectPath. Existing objects are not
// overwritten; a duplicate path is a failure surfaced to the caller.
func (c *Client) UploadObject(ctx context.Context, token, bucket, objectPath, contentType string, r io.Reader) error {
	u := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, strings.TrimLeft(objectPath, "/"))
	req, err := c.newRequest(ctx, http.MethodPost, u, token, r)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if _, err := c.do(req); err != nil {
		return fmt.Errorf("upload %s/%s: %w", bucket, objectPath, err)
	}
	return nil
}

// PublicURL resolves the public download URL for an object. Pure string
// assembly, no round trip.
func (c *Client) PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucket, strings.TrimLeft(objectPath, "/"))
}
