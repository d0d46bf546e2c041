// Package client is the data layer of the menu UI: it talks to the menu API
// over HTTP and converts its responses into model types.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"menuboard/model"
	"menuboard/utils"
)

const (
	DefaultUserAgent = "menuboard-ui/1.0"
	DefaultTimeout   = 10 * time.Second

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 8 << 20
)

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// Client calls GET /menus and POST /add-menu on a menu API.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	http      *http.Client
}

// New returns a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("menu api base url is empty")
	}

	c := &Client{
		baseURL:   baseURL,
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{
			Timeout: c.timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:          20,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
				ResponseHeaderTimeout: c.timeout,
			},
		}
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListMenus fetches the full menu collection.
func (c *Client) ListMenus(ctx context.Context) ([]model.MenuRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/menus", nil)
	if err != nil {
		return nil, utils.WrapError(utils.ErrCodeInternal, "build menu list request", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	records, err := model.ParseMenuRecords(body)
	if err != nil {
		return nil, utils.WrapError(utils.ErrCodeInvalidResponse, "parse menu list", err)
	}
	return records, nil
}

// CreateMenu posts the draft as a multipart form and returns the server's
// confirmation message. The image part is omitted when no image is selected.
func (c *Client) CreateMenu(ctx context.Context, draft model.FormDraft) (string, error) {
	payload, contentType, err := encodeDraft(draft)
	if err != nil {
		return "", utils.WrapError(utils.ErrCodeInternal, "encode menu form", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/add-menu", payload)
	if err != nil {
		return "", utils.WrapError(utils.ErrCodeInternal, "build add menu request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var resp struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", utils.WrapError(utils.ErrCodeInvalidResponse, "decode add menu response", err)
	}
	if resp.Message == nil {
		return "", utils.NewError(utils.ErrCodeInvalidResponse, "add menu response has no message")
	}
	return *resp.Message, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if id := utils.RequestIDFromContext(req.Context()); id != "" {
		req.Header.Set(utils.RequestIDHeader, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, utils.WrapErrorWithContext(utils.ErrCodeUnavailable, "menu api request failed", err,
			map[string]any{"method": req.Method, "url": req.URL.String()})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, utils.WrapError(utils.ErrCodeUnavailable, "read menu api response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, utils.WrapErrorWithContext(utils.ErrCodeUpstream,
			fmt.Sprintf("menu api returned %s", resp.Status), nil,
			map[string]any{"method": req.Method, "url": req.URL.String(), "status": resp.StatusCode})
	}
	return body, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeDraft(draft model.FormDraft) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range []struct{ name, value string }{
		{"name", draft.Name},
		{"price", draft.Price},
		{"cost", draft.Cost},
	} {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	if img := draft.Image; img != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`,
			quoteEscaper.Replace(img.Filename)))
		h.Set("Content-Type", img.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
