package parser

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	errs "interpals/pkg/errors"
)

// NotFoundMarker is rendered in place of a profile that does not exist
const NotFoundMarker = "User not found."

func newDocument(body string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeMarkup, err, "failed to parse HTML")
	}
	return doc, nil
}

// absURL turns protocol-relative asset links into https URLs
func absURL(src string) string {
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	return src
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func classes(sel *goquery.Selection) []string {
	return strings.Fields(sel.AttrOr("class", ""))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SplitNameAge splits a "name, age" label. A lone all-digit piece is an
// age, any other lone piece is a name.
func SplitNameAge(text string) (name *string, age *int) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	parts := strings.Split(text, ", ")
	last := strings.TrimSpace(parts[len(parts)-1])
	if len(parts) == 1 {
		if isDigits(last) {
			n, _ := strconv.Atoi(last)
			return nil, &n
		}
		return &last, nil
	}

	head := strings.TrimSpace(strings.Join(parts[:len(parts)-1], ", "))
	if head != "" {
		name = &head
	}
	if isDigits(last) {
		n, _ := strconv.Atoi(last)
		age = &n
	}
	return name, age
}

func ptr(s string) *string {
	return &s
}
