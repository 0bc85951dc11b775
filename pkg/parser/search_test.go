package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSearchResults(t *testing.T) {
	page := `
<div class="sResMain"><a href="/anna?_ipsrc=search">anna</a><span>23</span></div>
<div class="sResMain"><a href="/li"> li </a></div>
<div class="sResMain">broken row</div>`

	users, err := ParseSearchResults(page)
	require.NoError(t, err)
	assert.Equal(t, []string{"anna", "li"}, users)

	users, err = ParseSearchResults(`<p>Nothing found</p>`)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestParseVisitors(t *testing.T) {
	page := `
<div class="vBottomTxt"><a href="/anna?_ipsrc=views">anna</a></div>
<div class="vBottomTxt"><a href="/li">li</a></div>`

	users, err := ParseVisitors(page)
	require.NoError(t, err)
	assert.Equal(t, []string{"anna", "li"}, users)
}
