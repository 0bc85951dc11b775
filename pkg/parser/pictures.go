package parser

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StaticOrigin serves full-size photos
const StaticOrigin = "https://ipstatic.net/photos/"

const thumbMarker = "/180x180/"

// Album is a photo album summary
type Album struct {
	ID           string   `json:"aid" yaml:"aid"`
	Name         string   `json:"name" yaml:"name"`
	PictureCount int      `json:"pics_number" yaml:"pics_number"`
	Created      string   `json:"created" yaml:"created"`
	Updated      string   `json:"updated" yaml:"updated"`
	Thumbnails   []string `json:"pictures" yaml:"pictures"`
}

// Picture is a photo in both sizes
type Picture struct {
	Thumbnail string `json:"src180x180" yaml:"src180x180"`
	Full      string `json:"src" yaml:"src"`
}

// FullPictureURL derives the full-size URL from a 180x180 thumbnail URL.
// It returns "" when thumb does not follow the thumbnail naming.
func FullPictureURL(thumb string) string {
	_, rest, ok := strings.Cut(thumb, thumbMarker)
	if !ok {
		return ""
	}
	return StaticOrigin + rest
}

// ParseAlbums extracts the album list of a user
func ParseAlbums(body string) ([]Album, error) {
	doc, err := newDocument(body)
	if err != nil {
		return nil, err
	}

	albums := []Album{}
	doc.Find("div.editAlbumBox").Each(func(_ int, box *goquery.Selection) {
		a := Album{Thumbnails: []string{}}

		// href looks like "/app/album?aid=123&uid=456"
		href := box.Find("a.albEditThumb").First().AttrOr("href", "")
		first, _, _ := strings.Cut(href, "&")
		a.ID = first[strings.LastIndex(first, "=")+1:]

		a.Name = strings.TrimSpace(box.Find("h3").First().Text())

		// "12 photos | Created 1 Jan 2020 | Updated 2 Feb 2021"
		stats := strings.Split(box.Find("div.albumStats").First().Text(), "|")
		if fields := strings.Fields(stats[0]); len(fields) > 0 {
			a.PictureCount, _ = strconv.Atoi(fields[0])
		}
		if len(stats) > 1 {
			a.Created = dropFirstWord(stats[1])
		}
		if len(stats) > 2 {
			a.Updated = dropFirstWord(stats[2])
		}

		box.Find("a.thumb img").Each(func(_ int, img *goquery.Selection) {
			if src, ok := img.Attr("src"); ok {
				a.Thumbnails = append(a.Thumbnails, src)
			}
		})

		albums = append(albums, a)
	})
	return albums, nil
}

func dropFirstWord(s string) string {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' })
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(s[i:])
}

// ParsePictures extracts the pictures of one album
func ParsePictures(body string) ([]Picture, error) {
	doc, err := newDocument(body)
	if err != nil {
		return nil, err
	}

	pictures := []Picture{}
	doc.Find("div.albThumb").Each(func(_ int, el *goquery.Selection) {
		src, ok := el.Find("img").First().Attr("src")
		if !ok {
			return
		}
		pictures = append(pictures, Picture{Thumbnail: src, Full: FullPictureURL(src)})
	})
	return pictures, nil
}
