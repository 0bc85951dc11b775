package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseSearchResults returns the usernames listed on a search results page
func ParseSearchResults(body string) ([]string, error) {
	doc, err := newDocument(body)
	if err != nil {
		return nil, err
	}

	users := []string{}
	doc.Find("div.sResMain").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("a").First()
		if link.Length() == 0 {
			return
		}
		users = append(users, strings.TrimSpace(link.Text()))
	})
	return users, nil
}

// ParseVisitors returns the usernames of recent profile visitors
func ParseVisitors(body string) ([]string, error) {
	doc, err := newDocument(body)
	if err != nil {
		return nil, err
	}

	users := []string{}
	doc.Find("div.vBottomTxt").Each(func(_ int, item *goquery.Selection) {
		href, ok := item.Find("a").First().Attr("href")
		if !ok {
			return
		}
		// "/jane?_ipsrc=views" -> "jane"
		user, _, _ := strings.Cut(strings.TrimPrefix(href, "/"), "?")
		users = append(users, user)
	})
	return users, nil
}
