// Package rest talks to a PostgREST (Supabase) endpoint and implements the repositories of every
// domain package on top of it.
package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/at-ishikawa/lingosync/internal/remote"
)

var _ remote.Prober = (*Client)(nil)

const DefaultTimeout = 10 * time.Second

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	httpClient *resty.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/") + "/rest/v1")
	client.SetHeader("apikey", cfg.APIKey)
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")
	client.SetTimeout(timeout)

	return &Client{httpClient: client, logger: logger}
}

func (c *Client) Close() error {
	return c.httpClient.Close()
}

// Ping reads a single catalog row.
func (c *Client) Ping(ctx context.Context) error {
	var rows []struct {
		LessonNo int `json:"lesson_no"`
	}
	return c.get(ctx, "lesson_meta", url.Values{"select": {"lesson_no"}, "limit": {"1"}}, &rows)
}

func eq(v any) string {
	return fmt.Sprintf("eq.%v", v)
}

// in builds an "in" filter, quoting every value.
func in[T any](values []T) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		s := strings.ReplaceAll(fmt.Sprint(v), `"`, `\"`)
		quoted[i] = `"` + s + `"`
	}
	return "in.(" + strings.Join(quoted, ",") + ")"
}

func (c *Client) get(ctx context.Context, table string, params url.Values, out any) error {
	response, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		SetResult(out).
		Get("/" + table)
	return c.check("GET "+table, response, err)
}

// upsert merges rows on the conflict columns.
func (c *Client) upsert(ctx context.Context, table, onConflict string, rows any) error {
	response, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("on_conflict", onConflict).
		SetHeader("Prefer", "resolution=merge-duplicates,return=minimal").
		SetBody(rows).
		Post("/" + table)
	return c.check("POST "+table, response, err)
}

// rpc calls a remote procedure. out may be nil.
func (c *Client) rpc(ctx context.Context, name string, args any, out any) error {
	request := c.httpClient.R().
		SetContext(ctx).
		SetBody(args)
	if out != nil {
		request.SetResult(out)
	}
	response, err := request.Post("/rpc/" + name)
	return c.check("rpc "+name, response, err)
}

func (c *Client) check(op string, response *resty.Response, err error) error {
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("httpClient(%s) > %w", op, err)
		}
		return fmt.Errorf("httpClient(%s) > %w: %w", op, remote.ErrTransient, err)
	}
	if response.IsError() {
		return &remote.StatusError{Op: op, StatusCode: response.StatusCode(), Body: response.String()}
	}
	return nil
}
