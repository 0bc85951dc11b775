package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindCSRFToken(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		token string
		found bool
	}{
		{
			name:  "embedded in a page",
			html:  `<html><head><title>x</title><meta name="csrf_token" content="abc123"></head><body></body></html>`,
			token: "abc123",
			found: true,
		},
		{
			name:  "content before name",
			html:  `<head><meta content="tok=" name="csrf_token" /></head>`,
			token: "tok=",
			found: true,
		},
		{
			name:  "single quotes and extra whitespace",
			html:  "<META\n  name = 'csrf_token'\n  content = 'ZjU1'>",
			token: "ZjU1",
			found: true,
		},
		{
			name:  "other meta tags only",
			html:  `<meta name="description" content="pen pals"><meta charset="utf-8">`,
			found: false,
		},
		{
			name:  "empty document",
			html:  "",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := FindCSRFToken(tt.html)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}
