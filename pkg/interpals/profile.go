package interpals

import (
	"context"
	"strings"

	errs "interpals/pkg/errors"
	"interpals/pkg/parser"
	"interpals/pkg/transport"
)

// CheckAuth reports whether the session is still logged in. Only transport
// failures are returned as errors.
func (a *API) CheckAuth(ctx context.Context) (bool, error) {
	resp, err := a.get(ctx, userPath(a.session.Username), nil, false)
	if err != nil {
		return false, err
	}
	return !resp.IsRedirect() && strings.Contains(resp.Body, transport.AuthMarker), nil
}

// View opens the profile of user, which records a visit
func (a *API) View(ctx context.Context, user string) error {
	_, err := a.getPage(ctx, userPath(user), nil)
	return err
}

// Profile fetches and parses the profile of user
func (a *API) Profile(ctx context.Context, user string) (*parser.Profile, error) {
	resp, err := a.get(ctx, userPath(user), nil, true)
	if err != nil {
		return nil, err
	}
	if strings.Contains(resp.Body, parser.NotFoundMarker) {
		return nil, errs.New(errs.ErrorTypeNotFound, "user %s not found", user)
	}
	if err := expectPage(resp); err != nil {
		return nil, err
	}
	if strings.Contains(resp.Body, PrivacyMarker) {
		return nil, errs.New(errs.ErrorTypeBlocked, "user %s does not allow contact", user)
	}

	p, err := parser.ParseProfile(resp.Body)
	if err != nil {
		return nil, err
	}
	a.logger.DebugWithFields("profile parsed", map[string]interface{}{
		"user": user,
		"uid":  p.UID,
	})
	return p, nil
}

// UID returns the numeric user id of user
func (a *API) UID(ctx context.Context, user string) (string, error) {
	p, err := a.Profile(ctx, user)
	if err != nil {
		return "", err
	}
	if p.UID == "" {
		return "", errs.New(errs.ErrorTypeMarkup, "profile of %s has no uid", user)
	}
	return p.UID, nil
}

// Visitors lists users who recently viewed the session's profile
func (a *API) Visitors(ctx context.Context) ([]string, error) {
	body, err := a.getPage(ctx, pathViews, nil)
	if err != nil {
		return nil, err
	}
	return parser.ParseVisitors(body)
}
