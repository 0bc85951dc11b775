package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "interpals/pkg/errors"
)

const chatPage = `<html><body>
<a href="/app/auth/logout">Logout</a>
<span id="pmNewCnt">(+3)</span>
<div id="threads_left" data-max-msg-id="81234"></div>
</body></html>`

const threadsFragment = `
<div class="pm_thread new" id="thread_987">
  <img class="thumb" src="//ipstatic.net/thumbs/a.jpg">
  <div class="tui_el female">jane, 25</div>
  <div class="tui_el">London</div>
  <div class="tui_flag"><img src="//ipstatic.net/flags/gb.png"></div>
  <span class="online-now"></span>
  <div class="th_snippet pm_new"><img class="snippet_thumb" src="me.jpg"> Hi there </div>
</div>
<div class="pm_thread" id="thread_654">
  <img class="thumb" src="//ipstatic.net/thumbs/b.jpg">
  <div class="tui_el">bob</div>
  <div class="tui_flag"></div>
  <div class="th_snippet">See you</div>
</div>`

func TestParseMaxMsgID(t *testing.T) {
	id, err := ParseMaxMsgID(chatPage)
	require.NoError(t, err)
	assert.Equal(t, 81234, id)

	_, err = ParseMaxMsgID(`<div id="threads_left"></div>`)
	assert.ErrorIs(t, err, errs.ErrMarkup)

	_, err = ParseMaxMsgID(`<div id="threads_left" data-max-msg-id="lots"></div>`)
	assert.ErrorIs(t, err, errs.ErrMarkup)
}

func TestParseUnread(t *testing.T) {
	assert.Equal(t, 3, ParseUnread(chatPage))
	assert.Equal(t, 0, ParseUnread(`<span id="pmNewCnt"></span>`))
	assert.Equal(t, 0, ParseUnread(`<p>no counter</p>`))
}

func TestParseThreads(t *testing.T) {
	threads, err := ParseThreads(threadsFragment)
	require.NoError(t, err)
	require.Len(t, threads, 2)

	first := threads[0]
	assert.Equal(t, "987", first.ID)
	assert.True(t, first.New)
	assert.Equal(t, "jane", first.User)
	require.NotNil(t, first.Age)
	assert.Equal(t, 25, *first.Age)
	require.NotNil(t, first.City)
	assert.Equal(t, "London", *first.City)
	require.NotNil(t, first.Sex)
	assert.Equal(t, "female", *first.Sex)
	assert.Equal(t, "https://ipstatic.net/thumbs/a.jpg", first.Avatar)
	require.NotNil(t, first.Flag)
	assert.Equal(t, "https://ipstatic.net/flags/gb.png", *first.Flag)
	assert.True(t, first.Online)
	assert.Equal(t, "Hi there", first.Snippet)
	assert.True(t, first.SentByMe)
	assert.True(t, first.Unread)

	second := threads[1]
	assert.Equal(t, "654", second.ID)
	assert.False(t, second.New)
	assert.Equal(t, "bob", second.User)
	assert.Nil(t, second.Age)
	assert.Nil(t, second.City)
	assert.Nil(t, second.Sex)
	assert.Nil(t, second.Flag)
	assert.False(t, second.Online)
	assert.False(t, second.SentByMe)
	assert.False(t, second.Unread)
}

func TestParseThreadsEmpty(t *testing.T) {
	threads, err := ParseThreads("")
	require.NoError(t, err)
	assert.Empty(t, threads)
}

func TestParseMessagesCarriesSenderAndDate(t *testing.T) {
	fragment := `
<div class="pm_date">Mon</div>
<div class="pm_msg" id="msg_1">
  <div class="msg_user_thumb"><a href="/u1"><img src="u1.jpg"></a></div>
  <div class="pm_time">10:00</div>
  <div class="msg_body"> A </div>
</div>
<div class="pm_msg pm_unread" id="msg_2">
  <div class="pm_time">10:01</div>
  <div class="msg_body">B</div>
</div>
<div class="pm_msg" id="msg_3">
  <div class="msg_user_thumb"><a href="https://interpals.net/u2"></a></div>
  <div class="pm_time">10:02</div>
  <div class="msg_body">C</div>
</div>
<div class="pm_date">Tue</div>
<div class="pm_msg" id="msg_4">
  <div class="pm_time">09:00</div>
  <div class="msg_body">D</div>
</div>`

	messages, err := ParseMessages(fragment)
	require.NoError(t, err)
	require.Len(t, messages, 4)

	expected := []struct {
		id, text, sender, date string
	}{
		{"1", "A", "u1", "Mon"},
		{"2", "B", "u1", "Mon"},
		{"3", "C", "u2", "Mon"},
		{"4", "D", "u2", "Tue"},
	}
	for i, want := range expected {
		m := messages[i]
		assert.Equal(t, want.id, m.ID)
		assert.Equal(t, want.text, m.Text)
		require.NotNil(t, m.Sender)
		assert.Equal(t, want.sender, *m.Sender)
		require.NotNil(t, m.Date)
		assert.Equal(t, want.date, *m.Date)
	}

	assert.Equal(t, "10:00", messages[0].Time)
	assert.False(t, messages[0].Unread)
	assert.True(t, messages[1].Unread)
}

func TestParseMessagesWithoutMarkers(t *testing.T) {
	messages, err := ParseMessages(`<div class="pm_msg" id="msg_7"><div class="msg_body">hi</div></div>`)
	require.NoError(t, err)

	if diff := cmp.Diff([]Message{{ID: "7", Text: "hi"}}, messages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMessagesIsDeterministic(t *testing.T) {
	fragment := `<div class="pm_date">Mon</div><div class="pm_msg" id="msg_1"><div class="msg_body">x</div></div>`

	first, err := ParseMessages(fragment)
	require.NoError(t, err)
	second, err := ParseMessages(fragment)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second parse differs (-first +second):\n%s", diff)
	}
}
