package session

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "interpals/pkg/errors"
)

func TestSerializeRoundTrip(t *testing.T) {
	sessions := []*Session{
		New("jane", "sess-1", "csrf-1"),
		New("ünïcode", "a=b", "c;d"),
		New("", "x", "y"),
		New("jane", "", ""),
	}

	for _, s := range sessions {
		back, err := Deserialize(Serialize(s))
		require.NoError(t, err)
		assert.Equal(t, s, back)
	}
}

func TestDeserializeRejectsIncompleteDocuments(t *testing.T) {
	full := Document{KeyUsername: "jane", KeySessID: "s", KeyCSRF: "c"}

	for _, key := range []string{KeyUsername, KeySessID, KeyCSRF} {
		t.Run(key, func(t *testing.T) {
			doc := Document{}
			for k, v := range full {
				if k != key {
					doc[k] = v
				}
			}
			_, err := Deserialize(doc)
			assert.ErrorIs(t, err, errs.ErrSession)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestCookie(t *testing.T) {
	s := New("jane", "abc", "xyz")
	assert.Equal(t, "interpals_sessid=abc; csrf_cookieV2=xyz", s.Cookie())
	assert.NotContains(t, s.String(), "abc")
}

func TestDumpLoad(t *testing.T) {
	s := New("jane", "abc", "xyz")

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, s))
	assert.JSONEq(t, `{"username":"jane","interpals_sessid":"abc","csrf_cookieV2":"xyz"}`, buf.String())

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)

	_, err = Load(strings.NewReader("not json"))
	assert.ErrorIs(t, err, errs.ErrSession)

	_, err = Load(strings.NewReader(`{"username":"jane"}`))
	assert.ErrorIs(t, err, errs.ErrSession)
}
