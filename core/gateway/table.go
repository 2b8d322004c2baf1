package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"TamilFM/model"
)

// Query names a table read: which table, which columns, and an optional
// single eq filter and ordering. It replaces ad-hoc query-string building
// at call sites.
type Query struct {
	Table        string
	Columns      string // defaults to *
	FilterColumn string
	FilterValue  string
	Order        string // e.g. "created_at.desc"
}

func (q Query) encode() string {
	v := url.Values{}
	columns := q.Columns
	if columns == "" {
		columns = "*"
	}
	v.Set("select", columns)
	if q.FilterColumn != "" {
		v.Set(q.FilterColumn, "eq."+q.FilterValue)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	return v.Encode()
}

func errorsIsAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// SelectOne fetches the single row matching q and decodes it into dest.
// No matching row yields model.ErrNotFound; callers decide whether absence
// is an error.
func (c *Client) SelectOne(ctx context.Context, token string, q Query, dest any) error {
	rows, err := c.selectRaw(ctx, token, q)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("gateway: %s where %s=%s: %w", q.Table, q.FilterColumn, q.FilterValue, model.ErrNotFound)
	}
	if err := json.Unmarshal(rows[0], dest); err != nil {
		return fmt.Errorf("gateway: decode %s row: %w", q.Table, err)
	}
	return nil
}

// SelectList fetches all rows matching q into dest, which must be a pointer
// to a slice. An empty result decodes to an empty slice, not an error.
func (c *Client) SelectList(ctx context.Context, token string, q Query, dest any) error {
	rows, err := c.selectRaw(ctx, token, q)
	if err != nil {
		return err
	}
	joined, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("gateway: %w", err)
	}
	if err := json.Unmarshal(joined, dest); err != nil {
		return fmt.Errorf("gateway: decode %s rows: %w", q.Table, err)
	}
	return nil
}

func (c *Client) selectRaw(ctx context.Context, token string, q Query) ([]json.RawMessage, error) {
	u := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, q.Table, q.encode())
	req, err := c.newRequest(ctx, http.MethodGet, u, token, nil)
	if err != nil {
		return nil, err
	}

	data, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("gateway: decode %s response: %w", q.Table, err)
	}
	return rows, nil
}

// InsertRow inserts row into table. Not idempotent; callers do not retry.
func (c *Client) InsertRow(ctx context.Context, token, table string, row any) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("gateway: %w", err)
	}

	u := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	req, err := c.newRequest(ctx, http.MethodPost, u, token, bytes.NewReader(body))
	if err != nil {
		return err
	}

	if _, err := c.do(req); err != nil {
		return err
	}
	return nil
}

// UpdateRow patches the rows matching filterColumn=eq.filterValue with patch.
// Only the fields present in patch are written.
func (c *Client) UpdateRow(ctx context.Context, token, table, filterColumn, filterValue string, patch any) error {
	body, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("gateway: %w", err)
	}

	v := url.Values{}
	v.Set(filterColumn, "eq."+filterValue)
	u := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, table, v.Encode())
	req, err := c.newRequest(ctx, http.MethodPatch, u, token, bytes.NewReader(body))
	if err != nil {
		return err
	}

	if _, err := c.do(req); err != nil {
		return err
	}
	return nil
}
