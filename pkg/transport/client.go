// Package transport sends requests to interpals.net. Redirects are never
// followed: a 301 or 302 comes back as a Response so callers can read the
// Location header.
package transport

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"interpals/pkg/config"
	errs "interpals/pkg/errors"
	"interpals/pkg/logger"
)

// AuthMarker only appears on pages rendered for a logged-in user
const AuthMarker = "/app/auth/logout"

// Options configures a Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Logger    logger.Logger
}

// Request describes a single call
type Request struct {
	Method string
	Path   string
	// Params go to the query string for GET and to the form body for POST
	Params url.Values
	Cookie string
	Header map[string]string
	// CheckAuth fails the call with an auth_expired error when the
	// response lacks AuthMarker, redirects included
	CheckAuth bool
}

// Response is the raw outcome of a call
type Response struct {
	StatusCode int
	Header     http.Header
	Body       string
}

// IsRedirect reports whether the response is a 301 or 302
func (r *Response) IsRedirect() bool {
	return r.StatusCode == http.StatusMovedPermanently || r.StatusCode == http.StatusFound
}

// Location returns the redirect target
func (r *Response) Location() string {
	return r.Header.Get("Location")
}

// Client wraps a resty client with the site's conventions
type Client struct {
	http    *resty.Client
	baseURL string
	logger  logger.Logger
}

// New creates a Client
func New(opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.UserAgent == "" {
		opts.UserAgent = config.DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Second
	}
	base := strings.TrimRight(opts.BaseURL, "/")

	client := resty.New()
	client.SetBaseURL(base)
	client.SetCookieJar(nil)
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetTimeout(opts.Timeout)
	client.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))
	client.SetLogger(restyLogger{log: log})

	return &Client{
		http:    client,
		baseURL: base,
		logger:  log,
	}
}

// NewFromConfig creates a Client from the interpals and http sections
func NewFromConfig(cfg *config.Config, log logger.Logger) *Client {
	return New(Options{
		BaseURL:   cfg.Interpals.BaseURL,
		UserAgent: cfg.Interpals.UserAgent,
		Timeout:   cfg.HTTP.Timeout,
		Logger:    log,
	})
}

// BaseURL returns the origin every relative path is resolved against
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req. Non-2xx statuses are not errors at this level.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	r := c.http.R().SetContext(ctx)
	if req.Cookie != "" {
		r.SetHeader("Cookie", req.Cookie)
	}
	for k, v := range req.Header {
		r.SetHeader(k, v)
	}
	switch method {
	case http.MethodGet:
		r.SetQueryParamsFromValues(req.Params)
	case http.MethodPost:
		r.SetFormDataFromValues(req.Params)
	default:
		return nil, errs.New(errs.ErrorTypeNetwork, "unsupported method %s", method)
	}

	fields := map[string]interface{}{
		"method": method,
		"path":   req.Path,
	}
	c.logger.DebugWithFields("sending HTTP request", fields)

	start := time.Now()
	res, err := r.Execute(method, req.Path)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   method,
			"path":     req.Path,
			"error":    err.Error(),
			"duration": duration,
		})
		if isTimeout(err) {
			return nil, errs.Wrap(errs.ErrorTypeTimeout, err, "%s %s timed out", method, req.Path)
		}
		return nil, errs.Wrap(errs.ErrorTypeNetwork, err, "%s %s", method, req.Path)
	}

	resp := &Response{
		StatusCode: res.StatusCode(),
		Header:     res.Header(),
		Body:       res.String(),
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   method,
		"path":     req.Path,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	if req.CheckAuth && !strings.Contains(resp.Body, AuthMarker) {
		c.logger.WarnWithFields("session is no longer logged in", map[string]interface{}{
			"path":     req.Path,
			"status":   resp.StatusCode,
			"location": resp.Location(),
		})
		return nil, &errs.Error{
			Type:     errs.ErrorTypeAuthExpired,
			Message:  fmt.Sprintf("%s %s answered without a logged-in page", method, req.Path),
			Code:     resp.StatusCode,
			Location: resp.Location(),
		}
	}

	return resp, nil
}

// Get is a shorthand for a GET Request
func (c *Client) Get(ctx context.Context, path string, params url.Values, cookie string, checkAuth bool) (*Response, error) {
	return c.Do(ctx, Request{
		Method:    http.MethodGet,
		Path:      path,
		Params:    params,
		Cookie:    cookie,
		CheckAuth: checkAuth,
	})
}

// Post is a shorthand for a form-encoded POST Request
func (c *Client) Post(ctx context.Context, path string, params url.Values, cookie string, checkAuth bool) (*Response, error) {
	return c.Do(ctx, Request{
		Method:    http.MethodPost,
		Path:      path,
		Params:    params,
		Cookie:    cookie,
		CheckAuth: checkAuth,
	})
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

// restyLogger routes resty's own diagnostics to the application logger
type restyLogger struct {
	log logger.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
