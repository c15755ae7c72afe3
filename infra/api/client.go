package api

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/chillchill/chilltok/domain"
	"github.com/chillchill/chilltok/infra/auth"
	"github.com/chillchill/chilltok/infra/logging"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const refreshPath = "/auth/refresh"

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Session   auth.SessionProvider // optional
	Logger    *log.Logger          // optional
	UserAgent string
	Transport http.RoundTripper // optional, tests swap this
}

// Client is a thin resty wrapper for the ChillChill API.
// It owns the cookie jar, request ids, and the refresh-and-retry step on 401.
type Client struct {
	http *resty.Client
	log  *log.Logger
}

// New creates an API client. It fails fast when no origin is configured so
// requests never go out against a relative path.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, domain.ErrMissingBaseURL
	}
	origin, err := url.Parse(base)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", domain.ErrMissingBaseURL, opts.BaseURL)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "chilltok/dev"
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	if opts.Session != nil {
		cookie, err := opts.Session.SessionCookie()
		switch {
		case err == nil:
			jar.SetCookies(origin, []*http.Cookie{cookie})
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug("no session cookie, continuing anonymously")
		default:
			return nil, fmt.Errorf("auth: %w", err)
		}
	}

	r := resty.New().
		SetBaseURL(base).
		SetHeader("User-Agent", ua).
		SetHeader("Accept", "application/json").
		SetCookieJar(jar).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)
	if opts.Timeout > 0 {
		r.SetTimeout(opts.Timeout)
	}
	if opts.Transport != nil {
		r.SetTransport(opts.Transport)
	}

	r.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		id := uuid.NewString()
		req.SetHeader("X-Request-ID", id)
		logger.Debug("http request", "method", req.Method, "url", req.URL, "request_id", id)
		return nil
	})
	r.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("http response",
			"status", resp.StatusCode(),
			"url", resp.Request.URL,
			"elapsed", resp.Time(),
		)
		return nil
	})

	return &Client{http: r, log: logger}, nil
}

// Get performs a GET request with query parameters.
func (c *Client) Get(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, func(r *resty.Request) {
		if len(query) > 0 {
			r.SetQueryParams(query)
		}
	})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, func(r *resty.Request) {
		if body != nil {
			r.SetHeader("Content-Type", "application/json").SetBody(body)
		}
	})
}

func (c *Client) do(ctx context.Context, method, path string, build func(*resty.Request)) ([]byte, error) {
	resp, err := c.send(ctx, method, path, build)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() == http.StatusUnauthorized && path != refreshPath {
		if rerr := c.refresh(ctx); rerr != nil {
			c.log.Debug("session refresh failed", "err", rerr)
		} else {
			resp, err = c.send(ctx, method, path, build)
			if err != nil {
				return nil, err
			}
		}
	}

	if !resp.IsSuccess() {
		return nil, newHTTPError(method, path, resp)
	}
	return resp.Body(), nil
}

func (c *Client) send(ctx context.Context, method, path string, build func(*resty.Request)) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)
	build(req)
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("request to %s: %w", path, err)
	}
	return resp, nil
}

// refresh asks the backend to rotate the session cookie. The jar picks up
// whatever Set-Cookie headers come back.
func (c *Client) refresh(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodPost, refreshPath, func(*resty.Request) {})
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return newHTTPError(http.MethodPost, refreshPath, resp)
	}
	return nil
}
