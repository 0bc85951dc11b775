package interpals

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"interpals/pkg/logger"
	"interpals/pkg/session"
	"interpals/pkg/transport"
)

const logoutLink = `<a href="/app/auth/logout">Logout</a>`

var (
	testSession = session.New("me", "sess", "csrf")
	// staleSession is sent to the login form from every page
	staleSession = session.New("me", "stale", "stale")
)

// fakeSite scripts the pages of interpals.net used by the API
type fakeSite struct {
	mu            sync.Mutex
	searchOffsets []string
	searchTokens  []string
	searchPages   []int
	posts         []map[string]string
}

func (f *fakeSite) page(w http.ResponseWriter, r *http.Request, body string) {
	if r.Header.Get("Cookie") == testSession.Cookie() {
		body = logoutLink + body
	}
	w.Write([]byte(body))
}

func (f *fakeSite) json(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	q := r.URL.Query()

	if r.Header.Get("Cookie") == staleSession.Cookie() {
		http.Redirect(w, r, "/app/auth/login", http.StatusFound)
		return
	}

	switch r.URL.Path {
	case "/me", "/jane":
		f.page(w, r, profileFixture)
	case "/ghost":
		f.page(w, r, "<p>User not found.</p>")
	case "/private":
		f.page(w, r, "<p>"+PrivacyMarker+"</p>")
	case "/moved":
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	case "/app/views":
		f.page(w, r, `<div class="vBottomTxt"><a href="/anna?_ipsrc=views">anna</a></div>`)
	case "/app/search":
		f.search(w, r)
	case "/pm.php":
		f.messages(w, r)
	case "/app/friends":
		f.page(w, r, `<div class="friendBox"><img src="//x/a.jpg"><img class="status" src="/online.png"> anna 23 Paris</div>`)
	case "/app/friends/add", "/app/friends/delete":
		if q.Get("uid") == "1" {
			w.Header().Set("Location", "/app/friends")
			w.WriteHeader(http.StatusFound)
			return
		}
		f.page(w, r, "<p>not possible</p>")
	case "/app/albums":
		f.page(w, r, `<div class="editAlbumBox"><a class="albEditThumb" href="/app/album?aid=9&uid=1"></a><h3>Trip</h3><div class="albumStats">1 photo | Created 1 May | Updated 2 May</div></div>`)
	case "/app/album":
		f.page(w, r, `<div class="albThumb"><img src="https://ipstatic.net/photos/180x180/`+q.Get("aid")+`/p.jpg"></div>`)
	case "/app/async/geoAc":
		if q.Get("query") == "Nowhere" {
			f.json(w, map[string]interface{}{"items": []interface{}{}})
			return
		}
		f.json(w, map[string]interface{}{"items": []map[string]interface{}{{"id": 2643743}}})
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeSite) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("offset") {
		f.page(w, r, `<meta name="csrf_token" content="search-token">`)
		return
	}

	offset, _ := strconv.Atoi(q.Get("offset"))
	f.mu.Lock()
	f.searchOffsets = append(f.searchOffsets, q.Get("offset"))
	f.searchTokens = append(f.searchTokens, q.Get("csrf_token"))
	rows := 0
	if idx := len(f.searchOffsets) - 1; idx < len(f.searchPages) {
		rows = f.searchPages[idx]
	}
	f.mu.Unlock()

	var b strings.Builder
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, `<div class="sResMain"><a href="/u%d">u%d</a></div>`, offset+i, offset+i)
	}
	f.page(w, r, b.String())
}

func (f *fakeSite) messages(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if r.URL.Query().Get("action") == "send" {
			if r.URL.Query().Get("uid") == "5" {
				w.Header().Set("Location", "/pm.php?thread_id=777")
				w.WriteHeader(http.StatusMovedPermanently)
				return
			}
			f.page(w, r, "<p>no thread</p>")
			return
		}
		f.page(w, r, `<span id="pmNewCnt">(+2)</span><div id="threads_left" data-max-msg-id="500"></div>`)
		return
	}

	form := map[string]string{}
	for k := range r.PostForm {
		form[k] = r.PostForm.Get(k)
	}
	f.mu.Lock()
	f.posts = append(f.posts, form)
	f.mu.Unlock()

	switch form["action"] {
	case "more_threads":
		from, _ := strconv.Atoi(form["from"])
		var b strings.Builder
		// three threads exist in total
		for i := from; i < 3; i++ {
			fmt.Fprintf(&b, `<div class="pm_thread" id="thread_%d"><div class="tui_el">user%d, 20</div><div class="th_snippet">hi</div></div>`, i, i)
			if i-from == 1 {
				break
			}
		}
		f.json(w, map[string]string{"body": b.String()})
	case "load_messages":
		body := `<div class="pm_date">Today</div><div class="pm_msg" id="msg_1"><div class="msg_user_thumb"><a href="/anna"></a></div><div class="msg_body">hello</div></div>`
		f.json(w, map[string]string{"body": body})
	case "send_message":
		if form["message"] == "spam" {
			f.json(w, map[string]string{"error": "flood protection"})
			return
		}
		f.json(w, map[string]string{"status": "ok"})
	case "delete_thread":
		f.json(w, map[string]string{"status": "ok"})
	default:
		http.Error(w, "bad action", http.StatusBadRequest)
	}
}

func (f *fakeSite) offsets() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searchOffsets...)
}

func (f *fakeSite) tokens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searchTokens...)
}

func (f *fakeSite) postsWithAction(action string) []map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []map[string]string
	for _, p := range f.posts {
		if p["action"] == action {
			out = append(out, p)
		}
	}
	return out
}

const profileFixture = `
<div class="profileBox">
  <img src="/images/female_x16.png">
  <h1>jane</h1>
  <div>Jane, 25 y.o.</div>
</div>
<a class="profReportLink" user-id="4242">Report</a>`

func newTestAPI(t *testing.T, s *session.Session, opts ...Option) (*API, *fakeSite, *logger.TestLogger) {
	t.Helper()

	site := &fakeSite{}
	server := httptest.NewServer(site)
	t.Cleanup(server.Close)

	log := logger.NewTestLogger()
	client := transport.New(transport.Options{BaseURL: server.URL, Timeout: 2 * time.Second, Logger: log})
	opts = append([]Option{WithLogger(log)}, opts...)
	return New(client, s, opts...), site, log
}
