package parser

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Friend is one entry of a user's friend list
type Friend struct {
	Username string `json:"user" yaml:"user"`
	Age      *int   `json:"age" yaml:"age"`
	City     string `json:"city" yaml:"city"`
	Online   bool   `json:"online" yaml:"online"`
	Avatar   string `json:"avatar" yaml:"avatar"`
}

// ParseFriends extracts the friend list page
func ParseFriends(body string) ([]Friend, error) {
	doc, err := newDocument(body)
	if err != nil {
		return nil, err
	}

	friends := []Friend{}
	doc.Find("div.friendBox").Each(func(_ int, box *goquery.Selection) {
		var f Friend

		if src, ok := box.Find("img").First().Attr("src"); ok {
			f.Avatar = absURL(src)
		}
		status := box.Find("img.status").First().AttrOr("src", "")
		f.Online = strings.Contains(status, "online")

		// username, age and city are the first three words of the box
		words := strings.Fields(box.Text())
		if len(words) > 0 {
			f.Username = words[0]
		}
		if len(words) > 1 {
			if n, err := strconv.Atoi(strings.TrimSuffix(words[1], ",")); err == nil {
				f.Age = &n
			}
		}
		if len(words) > 2 {
			f.City = words[2]
		}

		friends = append(friends, f)
	})
	return friends, nil
}
