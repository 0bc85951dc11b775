// Package cookie keeps the name/value pairs collected during a login
// handshake and renders them back into a Cookie request header.
package cookie

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// multiSeparator is how the site concatenates several Set-Cookie
// directives into a single header value
const multiSeparator = "HttpOnly,"

// ParseError reports a Set-Cookie fragment that has no usable name=value pair
type ParseError struct {
	Fragment string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed cookie fragment %q", e.Fragment)
}

// Jar is an ordered name/value mapping. The zero value is ready to use.
// A Jar is not safe for concurrent use.
type Jar struct {
	keys   []string
	values map[string]string
}

// Merge adds every cookie found in the Set-Cookie headers of h. Later
// values overwrite earlier ones; a name keeps the position of its first
// insertion. A fragment without '=' aborts the merge with a *ParseError.
func (j *Jar) Merge(h http.Header) error {
	names := make([]string, 0, len(h))
	for name := range h {
		if strings.EqualFold(name, "Set-Cookie") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		for _, value := range h[name] {
			for _, piece := range strings.Split(value, multiSeparator) {
				if strings.TrimSpace(piece) == "" {
					continue
				}
				key, val, err := parsePiece(piece)
				if err != nil {
					return err
				}
				j.set(key, val)
			}
		}
	}
	return nil
}

func parsePiece(piece string) (string, string, error) {
	pair := piece
	if i := strings.IndexByte(pair, ';'); i >= 0 {
		pair = pair[:i]
	}
	key, val, ok := strings.Cut(pair, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", &ParseError{Fragment: strings.TrimSpace(piece)}
	}
	return key, strings.TrimSpace(val), nil
}

func (j *Jar) set(key, val string) {
	if j.values == nil {
		j.values = make(map[string]string)
	}
	if _, ok := j.values[key]; !ok {
		j.keys = append(j.keys, key)
	}
	j.values[key] = val
}

// Get returns the value stored for name
func (j *Jar) Get(name string) (string, bool) {
	v, ok := j.values[name]
	return v, ok
}

// Len returns the number of distinct cookies
func (j *Jar) Len() int {
	return len(j.keys)
}

// Render formats the jar as a Cookie header value: "k1=v1; k2=v2"
func (j *Jar) Render() string {
	parts := make([]string, 0, len(j.keys))
	for _, k := range j.keys {
		parts = append(parts, k+"="+j.values[k])
	}
	return strings.Join(parts, "; ")
}
