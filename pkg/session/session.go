// Package session logs in to interpals.net and carries the two cookies
// that identify an authenticated user.
package session

import (
	"encoding/json"
	"fmt"
	"io"

	errs "interpals/pkg/errors"
)

// Cookie names the site uses for an authenticated session
const (
	CookieSessID = "interpals_sessid"
	CookieCSRF   = "csrf_cookieV2"
)

// Document keys of a serialized session
const (
	KeyUsername = "username"
	KeySessID   = CookieSessID
	KeyCSRF     = CookieCSRF
)

// Session is an authenticated identity. It is never modified after
// construction and may be shared between goroutines.
type Session struct {
	Username   string
	SessID     string
	CSRFCookie string
}

// New builds a Session from raw cookie values
func New(username, sessID, csrfCookie string) *Session {
	return &Session{Username: username, SessID: sessID, CSRFCookie: csrfCookie}
}

// Cookie renders the Cookie header sent with every authenticated request
func (s *Session) Cookie() string {
	return fmt.Sprintf("%s=%s; %s=%s", CookieSessID, s.SessID, CookieCSRF, s.CSRFCookie)
}

func (s *Session) String() string {
	return fmt.Sprintf("Session(username=%s)", s.Username)
}

// Document is the flat serialized form of a Session
type Document map[string]string

// Serialize converts s into its document form
func Serialize(s *Session) Document {
	return Document{
		KeyUsername: s.Username,
		KeySessID:   s.SessID,
		KeyCSRF:     s.CSRFCookie,
	}
}

// Deserialize rebuilds a Session without touching the network. Every one
// of the three keys must be present; values are taken as they are.
func Deserialize(doc Document) (*Session, error) {
	for _, key := range []string{KeyUsername, KeySessID, KeyCSRF} {
		if _, ok := doc[key]; !ok {
			return nil, errs.New(errs.ErrorTypeSession, "session document is missing %q", key)
		}
	}
	return New(doc[KeyUsername], doc[KeySessID], doc[KeyCSRF]), nil
}

// Dump writes s to w as a JSON document
func Dump(w io.Writer, s *Session) error {
	if err := json.NewEncoder(w).Encode(Serialize(s)); err != nil {
		return errs.Wrap(errs.ErrorTypeSession, err, "failed to write session")
	}
	return nil
}

// Load reads a JSON session document from r
func Load(r io.Reader) (*Session, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeSession, err, "failed to read session")
	}
	return Deserialize(doc)
}
