// Package interpals exposes the site's features as typed calls on top of
// an authenticated session.
//
// API is the blocking client. AsyncAPI runs the same calls as futures.
// Both share the pure parsers of package parser.
package interpals

import (
	"context"
	"net/http"
	"net/url"
	"time"

	errs "interpals/pkg/errors"
	"interpals/pkg/logger"
	"interpals/pkg/ratelimit"
	"interpals/pkg/session"
	"interpals/pkg/transport"
)

// Site paths
const (
	pathViews     = "/app/views"
	pathSearch    = "/app/search"
	pathMessages  = "/pm.php"
	pathFriends   = "/app/friends"
	pathFriendAdd = "/app/friends/add"
	pathFriendDel = "/app/friends/delete"
	pathAlbums    = "/app/albums"
	pathAlbum     = "/app/album"
	pathCityAC    = "/app/async/geoAc"
)

// PrivacyMarker is shown instead of a profile the viewer may not see
const PrivacyMarker = "Sorry, this user's privacy settings do not allow you to contact them."

// Doer sends a single request
type Doer interface {
	Do(ctx context.Context, req transport.Request) (*transport.Response, error)
}

// API is the blocking interpals client. It holds no mutable state and is
// safe for concurrent use.
type API struct {
	client  Doer
	session *session.Session
	logger  logger.Logger
	pacer   func() ratelimit.Limiter
	// static replaces parser.StaticOrigin in full-size picture links
	static string
}

// Option configures an API
type Option func(*API)

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(a *API) {
		a.logger = l
	}
}

// WithPageDelay sets the pause between two search result pages
func WithPageDelay(d time.Duration) Option {
	return func(a *API) {
		a.pacer = func() ratelimit.Limiter { return ratelimit.NewFixedDelay(d) }
	}
}

// WithLimiter paces search pages with a shared limiter instead of a
// per-search fixed delay
func WithLimiter(l ratelimit.Limiter) Option {
	return func(a *API) {
		a.pacer = func() ratelimit.Limiter { return l }
	}
}

// WithStaticOrigin serves full-size pictures from origin instead of the
// default photo host
func WithStaticOrigin(origin string) Option {
	return func(a *API) {
		a.static = origin
	}
}

// New creates an API for s
func New(client Doer, s *session.Session, opts ...Option) *API {
	a := &API{
		client:  client,
		session: s,
		pacer:   func() ratelimit.Limiter { return ratelimit.Unlimited{} },
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.GetLogger()
	}
	a.logger = a.logger.WithField("username", s.Username)
	return a
}

// Session returns the session the API acts for
func (a *API) Session() *session.Session {
	return a.session
}

func (a *API) get(ctx context.Context, path string, params url.Values, checkAuth bool) (*transport.Response, error) {
	return a.client.Do(ctx, transport.Request{
		Method:    http.MethodGet,
		Path:      path,
		Params:    params,
		Cookie:    a.session.Cookie(),
		CheckAuth: checkAuth,
	})
}

func (a *API) post(ctx context.Context, path string, params url.Values) (*transport.Response, error) {
	return a.client.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   path,
		Params: params,
		Cookie: a.session.Cookie(),
	})
}

// expectPage rejects responses that cannot carry the page a parser expects
func expectPage(resp *transport.Response) error {
	if resp.IsRedirect() {
		return &errs.Error{
			Type:     errs.ErrorTypeRedirect,
			Message:  "unexpected redirect",
			Code:     resp.StatusCode,
			Location: resp.Location(),
		}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &errs.Error{
			Type:    errs.ErrorTypeStatus,
			Message: http.StatusText(resp.StatusCode),
			Code:    resp.StatusCode,
		}
	}
	return nil
}

// getPage is a GET that must return a logged-in page
func (a *API) getPage(ctx context.Context, path string, params url.Values) (string, error) {
	resp, err := a.get(ctx, path, params, true)
	if err != nil {
		return "", err
	}
	if err := expectPage(resp); err != nil {
		return "", err
	}
	return resp.Body, nil
}

// postPage is a POST that must return a payload
func (a *API) postPage(ctx context.Context, path string, params url.Values) (string, error) {
	resp, err := a.post(ctx, path, params)
	if err != nil {
		return "", err
	}
	if err := expectPage(resp); err != nil {
		return "", err
	}
	return resp.Body, nil
}

func userPath(user string) string {
	return "/" + url.PathEscape(user)
}
