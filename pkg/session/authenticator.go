package session

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"interpals/pkg/cookie"
	errs "interpals/pkg/errors"
	"interpals/pkg/logger"
	"interpals/pkg/parser"
	"interpals/pkg/transport"
)

// Login endpoints and markers
const (
	LoginPath = "/app/auth/login"
	// TooManyAttemptsMarker is shown on the confirmation page once the
	// account is temporarily locked
	TooManyAttemptsMarker = "Too many unsuccessful login attempts."
)

// State is a step of the login handshake
type State string

const (
	StateAnonymous     State = "anonymous"
	StateTokenAcquired State = "token_acquired"
	StateSubmitted     State = "submitted"
	StateConfirmed     State = "confirmed"
	StateRejected      State = "rejected"
)

// Doer sends a single request
type Doer interface {
	Do(ctx context.Context, req transport.Request) (*transport.Response, error)
}

// Authenticator drives the login handshake
type Authenticator struct {
	client  Doer
	baseURL string
	logger  logger.Logger
}

// NewAuthenticator creates an Authenticator. baseURL is used for the
// Referer header and to resolve the post-login redirect.
func NewAuthenticator(client Doer, baseURL string, log logger.Logger) *Authenticator {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Authenticator{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log.WithField("component", "authenticator"),
	}
}

// handshake holds the per-login state. The jar is owned by a single
// handshake and dropped when it ends.
type handshake struct {
	a        *Authenticator
	username string
	jar      cookie.Jar
	state    State
}

func (h *handshake) enter(s State, fields map[string]interface{}) {
	h.state = s
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["state"] = string(s)
	fields["username"] = h.username
	h.a.logger.DebugWithFields("login state changed", fields)
}

func (h *handshake) reject(err *errs.Error) error {
	h.enter(StateRejected, map[string]interface{}{"reason": string(err.Type)})
	return err
}

func (h *handshake) merge(resp *transport.Response) error {
	if err := h.jar.Merge(resp.Header); err != nil {
		return h.reject(errs.Wrap(errs.ErrorTypeSession, err, "unreadable Set-Cookie header"))
	}
	return nil
}

// Login authenticates with a username and password. Nothing is retried.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*Session, error) {
	h := &handshake{a: a, username: username}
	h.enter(StateAnonymous, nil)

	// Anonymous -> TokenAcquired
	resp, err := a.client.Do(ctx, transport.Request{Method: http.MethodGet, Path: "/"})
	if err != nil {
		return nil, err
	}
	if err := h.merge(resp); err != nil {
		return nil, err
	}
	token, ok := parser.FindCSRFToken(resp.Body)
	if !ok {
		return nil, h.reject(errs.New(errs.ErrorTypeNoCSRFToken, "login page carries no CSRF token"))
	}
	h.enter(StateTokenAcquired, map[string]interface{}{"cookies": h.jar.Len()})

	// TokenAcquired -> Submitted
	resp, err = a.client.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   LoginPath,
		Params: url.Values{
			"username":   {username},
			"password":   {password},
			"csrf_token": {token},
		},
		Cookie: h.jar.Render(),
		Header: map[string]string{"Referer": a.baseURL + "/"},
	})
	if err != nil {
		return nil, err
	}
	if err := h.merge(resp); err != nil {
		return nil, err
	}
	h.enter(StateSubmitted, map[string]interface{}{"status": resp.StatusCode})

	// Submitted -> Confirmed | Rejected
	switch resp.StatusCode {
	case http.StatusOK:
		return nil, h.reject(&errs.Error{
			Type:    errs.ErrorTypeWrongCredentials,
			Message: "login form was rendered again",
			Code:    resp.StatusCode,
		})
	case http.StatusFound:
	default:
		return nil, h.reject(&errs.Error{
			Type:    errs.ErrorTypeUnexpectedStatus,
			Message: "unexpected login response status",
			Code:    resp.StatusCode,
		})
	}

	if resp.Location() == "" {
		return nil, h.reject(&errs.Error{
			Type:    errs.ErrorTypeUnexpectedStatus,
			Message: "login redirect has no Location",
			Code:    resp.StatusCode,
		})
	}
	target, err := a.resolve(resp.Location())
	if err != nil {
		return nil, h.reject(errs.Wrap(errs.ErrorTypeUnexpectedStatus, err, "invalid login redirect %q", resp.Location()))
	}
	resp, err = a.client.Do(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   target,
		Cookie: h.jar.Render(),
	})
	if err != nil {
		return nil, err
	}
	if strings.Contains(resp.Body, TooManyAttemptsMarker) {
		return nil, h.reject(errs.New(errs.ErrorTypeTooManyAttempts, "too many unsuccessful login attempts"))
	}
	if err := h.merge(resp); err != nil {
		return nil, err
	}

	sessID, ok1 := h.jar.Get(CookieSessID)
	csrf, ok2 := h.jar.Get(CookieCSRF)
	if !ok1 || !ok2 || sessID == "" || csrf == "" {
		return nil, h.reject(errs.New(errs.ErrorTypeMissingCookie,
			"session cookies %s and %s were not both set", CookieSessID, CookieCSRF))
	}

	h.enter(StateConfirmed, nil)
	a.logger.InfoWithFields("logged in", map[string]interface{}{"username": username})
	return New(username, sessID, csrf), nil
}

// resolve turns the Location header into an absolute URL on the base
func (a *Authenticator) resolve(location string) (string, error) {
	base, err := url.Parse(a.baseURL + "/")
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
