package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "interpals/pkg/errors"
)

func TestParseEmbeddedBody(t *testing.T) {
	body, err := ParseEmbeddedBody(`{"status":"ok","body":"<div class=\"pm_thread\"></div>"}`)
	require.NoError(t, err)
	assert.Equal(t, `<div class="pm_thread"></div>`, body)

	_, err = ParseEmbeddedBody(`{"status":"ok"}`)
	assert.ErrorIs(t, err, errs.ErrMarkup)

	_, err = ParseEmbeddedBody(`<html>login</html>`)
	assert.ErrorIs(t, err, errs.ErrMarkup)
}

func TestHasErrorMarker(t *testing.T) {
	assert.True(t, HasErrorMarker(`{"error":"flood"}`))
	assert.False(t, HasErrorMarker(`{"status":"ok"}`))
}

func TestParseCityCode(t *testing.T) {
	code, err := ParseCityCode(`{"items":[{"id":2643743,"label":"London"},{"id":1,"label":"London, CA"}]}`)
	require.NoError(t, err)
	assert.Equal(t, "2643743", code)

	code, err = ParseCityCode(`{"items":[{"id":"524901"}]}`)
	require.NoError(t, err)
	assert.Equal(t, "524901", code)

	_, err = ParseCityCode(`{"items":[]}`)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = ParseCityCode(`not json`)
	assert.ErrorIs(t, err, errs.ErrMarkup)
}
