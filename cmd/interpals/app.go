package main

import (
	"context"
	"errors"
	"time"

	"gopkg.in/yaml.v3"

	"interpals/pkg/auth"
	errs "interpals/pkg/errors"
	"interpals/pkg/interpals"
	"interpals/pkg/logger"
	"interpals/pkg/ratelimit"
	"interpals/pkg/session"
	"interpals/pkg/transport"
	"interpals/pkg/ui"
)

func newClient() *transport.Client {
	return transport.NewFromConfig(cfg, logger.GetLogger())
}

func sessionManager() (*auth.Manager, error) {
	return auth.NewManager(cfg.Session)
}

// currentSession loads the session of --username, or the newest one
func currentSession() (*session.Session, error) {
	manager, err := sessionManager()
	if err != nil {
		return nil, err
	}
	return manager.LoadDefault(cfg.Interpals.Username)
}

func newAPI() (*interpals.API, error) {
	s, err := currentSession()
	if err != nil {
		return nil, err
	}

	pacing := interpals.WithPageDelay(cfg.Search.PageDelay)
	if cfg.Search.PagesPerMinute > 0 {
		pacing = interpals.WithLimiter(ratelimit.NewTokenBucket(cfg.Search.PagesPerMinute, time.Minute))
	}

	return interpals.New(newClient(), s,
		interpals.WithLogger(logger.GetLogger()),
		pacing,
		interpals.WithStaticOrigin(cfg.Interpals.StaticURL),
	), nil
}

// withAPI runs fn against the current session
func withAPI(ctx context.Context, fn func(context.Context, *interpals.API) error) error {
	api, err := newAPI()
	if err != nil {
		return err
	}
	return fn(ctx, api)
}

// printResult writes a command result in the --output format. rows
// flattens v for the table format.
func printResult(v interface{}, header []string, rows func() [][]interface{}) error {
	if output == "table" && rows != nil {
		ui.Table(header, rows())
		return nil
	}
	return printYAML(v)
}

// orDash renders an optional value
func orDash[T any](v *T) interface{} {
	if v == nil {
		return "-"
	}
	return *v
}

// printYAML writes a command result to stdout
func printYAML(v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	ui.PrintRaw(string(out))
	return nil
}

// hintFor suggests what to do about a failed command
func hintFor(err error) string {
	switch {
	case errors.Is(err, auth.ErrSessionNotFound):
		return "run 'interpals login' first"
	case errors.Is(err, errs.ErrAuthExpired):
		return "the session has expired, run 'interpals login' again"
	case errors.Is(err, errs.ErrWrongCredentials):
		return "check the username and password"
	case errors.Is(err, errs.ErrTooManyAttempts):
		return "the site is throttling logins, wait before trying again"
	case errors.Is(err, errs.ErrTimeout):
		return "raise --timeout if the site is slow"
	case errors.Is(err, errs.ErrBlocked):
		return "the user's privacy settings hide this page"
	case errors.Is(err, errs.ErrNotFound):
		return "no such user"
	case errs.IsCategory(err, errs.CategoryExtraction):
		return "the page layout was not recognised"
	}
	return ""
}

func reportError(err error) {
	logger.WithError(err).WithField("type", string(errs.TypeOf(err))).Debug("command failed")
	ui.PrintError("Error", err)
	if hint := hintFor(err); hint != "" {
		ui.PrintWarning("Hint", hint)
	}
}
