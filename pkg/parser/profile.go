package parser

import (
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	errs "interpals/pkg/errors"
)

// Profile is the public profile page of a user
type Profile struct {
	Name        *string    `json:"name" yaml:"name"`
	Age         *int       `json:"age" yaml:"age"`
	Sex         string     `json:"sex" yaml:"sex"`
	City        string     `json:"city" yaml:"city"`
	CityCode    string     `json:"city_code" yaml:"city_code"`
	Country     string     `json:"country" yaml:"country"`
	CountryCode string     `json:"country_code" yaml:"country_code"`
	Online      bool       `json:"online" yaml:"online"`
	LastSeen    *string    `json:"last_seen" yaml:"last_seen"`
	Joined      string     `json:"joined" yaml:"joined"`
	Updated     string     `json:"updated" yaml:"updated"`
	Status      string     `json:"status" yaml:"status"`
	Avatar      string     `json:"avatar" yaml:"avatar"`
	UID         string     `json:"uid" yaml:"uid"`
	Info        []InfoItem `json:"info" yaml:"info"`
}

// InfoItem is one titled section of the profile description
type InfoItem struct {
	Title string `json:"title" yaml:"title"`
	Text  string `json:"text" yaml:"text"`
}

// ParseProfile extracts a Profile from a profile page
func ParseProfile(body string) (*Profile, error) {
	if strings.Contains(body, NotFoundMarker) {
		return nil, errs.New(errs.ErrorTypeNotFound, "user not found")
	}

	doc, err := newDocument(body)
	if err != nil {
		return nil, err
	}

	box := doc.Find(".profileBox").First()
	if box.Length() == 0 {
		return nil, errs.New(errs.ErrorTypeMarkup, "profile box not found")
	}

	p := &Profile{Info: []InfoItem{}}
	p.Name, p.Age, p.Sex = nameAgeSex(box)
	p.City, p.CityCode, p.Country, p.CountryCode = location(doc)
	p.Online, p.LastSeen = onlineStatus(doc)
	p.Joined, p.Updated = joinedUpdated(box)
	p.Status = doc.Find("span#prStatMsgTxt").First().Text()
	p.Avatar = avatar(doc)
	p.UID = uid(doc)

	data := doc.Find(".profDataBox").First()
	titles := data.Find("h2")
	texts := data.Find("div.profDataBoxText")
	for i := 0; i < titles.Length() && i < texts.Length(); i++ {
		p.Info = append(p.Info, InfoItem{
			Title: strings.TrimSpace(titles.Eq(i).Text()),
			Text:  strings.TrimSpace(texts.Eq(i).Text()),
		})
	}

	return p, nil
}

// nonEmptyLines returns the trimmed, non-blank lines of s
func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func nameAgeSex(box *goquery.Selection) (*string, *int, string) {
	var sex string
	// the gender icon is named like "female_x16.png"
	if src, ok := box.Find("img").First().Attr("src"); ok {
		base := path.Base(src)
		if len(base) > 7 {
			sex = base[:len(base)-7]
		}
	}

	lines := nonEmptyLines(box.Text())
	if len(lines) < 2 {
		return nil, nil, sex
	}
	label := strings.ReplaceAll(lines[1], "y.o.", "")
	name, age := SplitNameAge(label)
	return name, age, sex
}

func location(doc *goquery.Document) (city, cityCode, country, countryCode string) {
	links := doc.Find(".profLocation").First().Find("a")
	if links.Length() > 1 {
		a := links.Eq(1)
		city = strings.TrimSpace(a.Text())
		href := a.AttrOr("href", "")
		cityCode = href[strings.LastIndex(href, "=")+1:]
	}
	if links.Length() > 2 {
		a := links.Eq(2)
		country = strings.TrimSpace(a.Text())
		if href := a.AttrOr("href", ""); len(href) >= 2 {
			countryCode = href[len(href)-2:]
		}
	}
	return city, cityCode, country, countryCode
}

func onlineStatus(doc *goquery.Document) (bool, *string) {
	el := doc.Find(".profOnlineStatus").First()
	if el.Length() == 0 {
		return false, nil
	}
	text := strings.TrimSpace(el.Text())
	if strings.EqualFold(text, "online now") {
		return true, nil
	}
	// the first word is the status icon label
	words := strings.Fields(text)
	if len(words) == 0 {
		return false, nil
	}
	last := strings.Join(words[1:], " ")
	return false, &last
}

func joinedUpdated(box *goquery.Selection) (joined, updated string) {
	lines := nonEmptyLines(box.Find("p").First().Text())
	if len(lines) > 1 {
		joined = strings.TrimRight(lines[1], ",.;")
	}
	if len(lines) > 3 {
		updated = strings.TrimRight(lines[3], ",.;")
	}
	return joined, updated
}

func avatar(doc *goquery.Document) string {
	link := doc.Find("a.mainPhoto").First()
	if link.Length() == 0 {
		link = doc.Find("a.mpImgLink").First()
	}
	if src, ok := link.Find("img").First().Attr("src"); ok {
		return absURL(src)
	}
	return ""
}

func uid(doc *goquery.Document) string {
	if id, ok := doc.Find("a.profReportLink").First().Attr("user-id"); ok {
		return id
	}
	return strings.TrimSpace(doc.Find("div.hidden-uid").First().Text())
}
