package parser

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	errs "interpals/pkg/errors"
)

// Thread is one conversation in the chat list
type Thread struct {
	ID       string  `json:"thread_id" yaml:"thread_id"`
	New      bool    `json:"new" yaml:"new"`
	User     string  `json:"user" yaml:"user"`
	Age      *int    `json:"age" yaml:"age"`
	City     *string `json:"city" yaml:"city"`
	Sex      *string `json:"sex" yaml:"sex"`
	Avatar   string  `json:"avatar" yaml:"avatar"`
	Flag     *string `json:"flag" yaml:"flag"`
	Online   bool    `json:"online" yaml:"online"`
	Snippet  string  `json:"message" yaml:"message"`
	SentByMe bool    `json:"i_sent" yaml:"i_sent"`
	Unread   bool    `json:"unread" yaml:"unread"`
}

// Message is a single chat message
type Message struct {
	ID     string  `json:"msg_id" yaml:"msg_id"`
	Time   string  `json:"time" yaml:"time"`
	Text   string  `json:"text" yaml:"text"`
	Date   *string `json:"date" yaml:"date"`
	Sender *string `json:"user" yaml:"user"`
	Unread bool    `json:"unread" yaml:"unread"`
}

// ParseMaxMsgID reads the newest message id from the chat page. It bounds
// the thread list requests that follow.
func ParseMaxMsgID(body string) (int, error) {
	doc, err := newDocument(body)
	if err != nil {
		return 0, err
	}

	raw, ok := doc.Find("div#threads_left").First().Attr("data-max-msg-id")
	if !ok {
		return 0, errs.New(errs.ErrorTypeMarkup, "max message id not found")
	}
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errs.Wrap(errs.ErrorTypeMarkup, err, "invalid max message id %q", raw)
	}
	return id, nil
}

// ParseUnread reads the unread thread counter, rendered like "(+3)".
// A missing or empty counter is zero.
func ParseUnread(body string) int {
	doc, err := newDocument(body)
	if err != nil {
		return 0
	}

	text := doc.Find("span#pmNewCnt").First().Text()
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, text)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// ParseThreads extracts the thread list fragment returned by the chat
// endpoint
func ParseThreads(body string) ([]Thread, error) {
	doc, err := newDocument(body)
	if err != nil {
		return nil, err
	}

	threads := []Thread{}
	doc.Find("div.pm_thread").Each(func(_ int, el *goquery.Selection) {
		threads = append(threads, parseThread(el))
	})
	return threads, nil
}

func parseThread(el *goquery.Selection) Thread {
	var t Thread

	if id := el.AttrOr("id", ""); len(id) > len("thread_") {
		t.ID = id[len("thread_"):]
	}
	t.New = el.HasClass("new")

	tui := el.Find("div.tui_el")
	if first := tui.Eq(0); first.Length() > 0 {
		label := strings.TrimSpace(first.Text())
		if user, age, ok := strings.Cut(label, ", "); ok {
			t.User = user
			if n, err := strconv.Atoi(strings.TrimSpace(age)); err == nil {
				t.Age = &n
			}
		} else {
			t.User = label
		}
		if cls := classes(first); len(cls) > 1 {
			t.Sex = ptr(cls[1])
		}
	}
	if second := tui.Eq(1); second.Length() > 0 {
		t.City = ptr(strings.TrimSpace(second.Text()))
	}

	if src, ok := el.Find(".thumb").First().Attr("src"); ok {
		t.Avatar = absURL(src)
	}
	if src, ok := el.Find("div.tui_flag img").First().Attr("src"); ok {
		t.Flag = ptr(absURL(src))
	}
	t.Online = el.Find(".online-now").Length() > 0

	snippet := el.Find(".th_snippet").First()
	t.Snippet = strings.TrimSpace(snippet.Text())
	t.Unread = snippet.HasClass("pm_new")
	t.SentByMe = el.Find(".snippet_thumb").Length() > 0

	return t
}

// messageFold carries the most recent date separator and sender marker
// through the interleaved message list
type messageFold struct {
	date   *string
	sender *string
	out    []Message
}

func (f *messageFold) step(el *goquery.Selection) {
	if el.HasClass("pm_date") {
		f.date = ptr(strings.TrimSpace(el.Text()))
		return
	}

	if href, ok := el.Find("div.msg_user_thumb a").First().Attr("href"); ok {
		f.sender = ptr(senderFromHref(href))
	}

	m := Message{
		Time:   strings.TrimSpace(el.Find("div.pm_time").First().Text()),
		Text:   strings.TrimSpace(el.Find("div.msg_body").First().Text()),
		Date:   f.date,
		Sender: f.sender,
		Unread: el.HasClass("pm_unread"),
	}
	if id := el.AttrOr("id", ""); len(id) > len("msg_") {
		m.ID = id[len("msg_"):]
	}
	f.out = append(f.out, m)
}

// senderFromHref turns a profile link such as "/jane" into the username
func senderFromHref(href string) string {
	if u, err := url.Parse(href); err == nil && u.Path != "" {
		href = u.Path
	}
	return strings.Trim(href, "/")
}

// ParseMessages extracts chat messages. Date separators and messages are
// siblings in document order; every message inherits the last date
// separator and the last sender marker that precede it.
func ParseMessages(body string) ([]Message, error) {
	doc, err := newDocument(body)
	if err != nil {
		return nil, err
	}

	fold := &messageFold{out: []Message{}}
	doc.Find("div").Each(func(_ int, el *goquery.Selection) {
		if hasClass(el.Get(0), "pm_date") || hasClass(el.Get(0), "pm_msg") {
			fold.step(el)
		}
	})
	return fold.out, nil
}
