package parser

import (
	"encoding/json"
	"strings"

	errs "interpals/pkg/errors"
)

// ParseEmbeddedBody returns the HTML fragment carried in the "body" field
// of a chat endpoint JSON payload
func ParseEmbeddedBody(payload string) (string, error) {
	var envelope struct {
		Body *string `json:"body"`
	}
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		return "", errs.Wrap(errs.ErrorTypeMarkup, err, "invalid chat payload")
	}
	if envelope.Body == nil {
		return "", errs.New(errs.ErrorTypeMarkup, "chat payload has no body")
	}
	return *envelope.Body, nil
}

// HasErrorMarker reports whether a JSON payload carries an "error" key
func HasErrorMarker(payload string) bool {
	return strings.Contains(payload, `"error"`)
}

// ParseCityCode returns the id of the first suggestion in a city
// autocomplete payload
func ParseCityCode(payload string) (string, error) {
	var result struct {
		Items []struct {
			ID json.RawMessage `json:"id"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return "", errs.Wrap(errs.ErrorTypeMarkup, err, "invalid city lookup payload")
	}
	if len(result.Items) == 0 {
		return "", errs.New(errs.ErrorTypeNotFound, "no matching city")
	}

	// ids come back either as numbers or as strings
	raw := result.Items[0].ID
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", errs.New(errs.ErrorTypeMarkup, "unexpected city id %s", raw)
}
