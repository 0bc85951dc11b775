package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullPictureURL(t *testing.T) {
	assert.Equal(t, StaticOrigin+"foo/bar.jpg",
		FullPictureURL("https://ipstatic.net/photos/180x180/foo/bar.jpg"))
	assert.Equal(t, "https://ipstatic.net/photos/foo/bar.jpg",
		FullPictureURL("//ipstatic.net/thumbs/180x180/foo/bar.jpg"))
	assert.Equal(t, "", FullPictureURL("https://ipstatic.net/photos/foo.jpg"))
}

func TestParseAlbums(t *testing.T) {
	page := `
<div class="editAlbumBox">
  <a class="albEditThumb" href="/app/album?aid=555&uid=1"><img src="cover.jpg"></a>
  <h3>Summer</h3>
  <div class="albumStats">12 photos | Created 1 Jan 2020 | Updated 2 Feb 2021</div>
  <a class="thumb"><img src="//ipstatic.net/photos/180x180/x/1.jpg"></a>
  <a class="thumb"><img src="//ipstatic.net/photos/180x180/x/2.jpg"></a>
</div>
<div class="editAlbumBox">
  <a class="albEditThumb" href="/app/album?aid=556"></a>
  <h3>Empty</h3>
  <div class="albumStats">0 photos</div>
</div>`

	albums, err := ParseAlbums(page)
	require.NoError(t, err)
	require.Len(t, albums, 2)

	assert.Equal(t, Album{
		ID:           "555",
		Name:         "Summer",
		PictureCount: 12,
		Created:      "1 Jan 2020",
		Updated:      "2 Feb 2021",
		Thumbnails: []string{
			"//ipstatic.net/photos/180x180/x/1.jpg",
			"//ipstatic.net/photos/180x180/x/2.jpg",
		},
	}, albums[0])

	assert.Equal(t, "556", albums[1].ID)
	assert.Equal(t, 0, albums[1].PictureCount)
	assert.Empty(t, albums[1].Created)
	assert.Empty(t, albums[1].Thumbnails)
}

func TestParsePictures(t *testing.T) {
	page := `
<div class="albThumb"><a href="/p/1"><img src="https://ipstatic.net/photos/180x180/foo/bar.jpg"></a></div>
<div class="albThumb"><a href="/p/2"><img src="https://ipstatic.net/photos/180x180/foo/baz.jpg"></a></div>
<div class="albThumb"></div>`

	pictures, err := ParsePictures(page)
	require.NoError(t, err)

	assert.Equal(t, []Picture{
		{Thumbnail: "https://ipstatic.net/photos/180x180/foo/bar.jpg", Full: "https://ipstatic.net/photos/foo/bar.jpg"},
		{Thumbnail: "https://ipstatic.net/photos/180x180/foo/baz.jpg", Full: "https://ipstatic.net/photos/foo/baz.jpg"},
	}, pictures)
}
