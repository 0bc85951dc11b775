package interpals

import (
	"context"
	"net/url"
	"strconv"

	errs "interpals/pkg/errors"
	"interpals/pkg/parser"
)

// ChatOverview is a slice of the thread list plus the unread counter
type ChatOverview struct {
	Threads []parser.Thread `json:"chats" yaml:"chats"`
	Unread  int             `json:"unread" yaml:"unread"`
}

// ThreadID returns the id of the conversation with the user uid. The site
// answers with a redirect to the thread.
func (a *API) ThreadID(ctx context.Context, uid string) (string, error) {
	resp, err := a.get(ctx, pathMessages, url.Values{"action": {"send"}, "uid": {uid}}, false)
	if err != nil {
		return "", err
	}
	if !resp.IsRedirect() {
		return "", &errs.Error{
			Type:    errs.ErrorTypeRedirect,
			Message: "expected a redirect to the thread",
			Code:    resp.StatusCode,
		}
	}

	loc, err := url.Parse(resp.Location())
	if err != nil {
		return "", errs.Wrap(errs.ErrorTypeMarkup, err, "invalid thread location %q", resp.Location())
	}
	id := loc.Query().Get("thread_id")
	if id == "" {
		return "", errs.New(errs.ErrorTypeMarkup, "thread location %q has no thread_id", resp.Location())
	}
	return id, nil
}

// Chat returns up to count threads starting at offset, newest first
func (a *API) Chat(ctx context.Context, count, offset int) (*ChatOverview, error) {
	body, err := a.getPage(ctx, pathMessages, nil)
	if err != nil {
		return nil, err
	}
	maxMsgID, err := parser.ParseMaxMsgID(body)
	if err != nil {
		return nil, err
	}

	overview := &ChatOverview{
		Threads: []parser.Thread{},
		Unread:  parser.ParseUnread(body),
	}

	for len(overview.Threads) < count {
		payload, err := a.postPage(ctx, pathMessages, url.Values{
			"action":     {"more_threads"},
			"from":       {strconv.Itoa(offset)},
			"filter":     {"all"},
			"max_msg_id": {strconv.Itoa(maxMsgID)},
		})
		if err != nil {
			return nil, err
		}
		fragment, err := parser.ParseEmbeddedBody(payload)
		if err != nil {
			return nil, err
		}
		threads, err := parser.ParseThreads(fragment)
		if err != nil {
			return nil, err
		}
		if len(threads) == 0 {
			break
		}

		for _, t := range threads {
			overview.Threads = append(overview.Threads, t)
			if len(overview.Threads) >= count {
				break
			}
		}
		offset += len(threads)
	}

	return overview, nil
}

// ChatMessages loads the messages of a thread. A non-empty lastMsgID
// loads the history before that message.
func (a *API) ChatMessages(ctx context.Context, threadID, lastMsgID string) ([]parser.Message, error) {
	params := url.Values{
		"action": {"load_messages"},
		"thread": {threadID},
	}
	if lastMsgID != "" {
		params.Set("last_msg_id", lastMsgID)
	}

	payload, err := a.postPage(ctx, pathMessages, params)
	if err != nil {
		return nil, err
	}
	fragment, err := parser.ParseEmbeddedBody(payload)
	if err != nil {
		return nil, err
	}
	return parser.ParseMessages(fragment)
}

// ChatSend posts message to a thread
func (a *API) ChatSend(ctx context.Context, threadID, message string) error {
	payload, err := a.postPage(ctx, pathMessages, url.Values{
		"action":  {"send_message"},
		"thread":  {threadID},
		"message": {message},
	})
	if err != nil {
		return err
	}
	if parser.HasErrorMarker(payload) {
		return errs.New(errs.ErrorTypeRejected, "message was not accepted: %s", payload)
	}
	a.logger.DebugWithFields("message sent", map[string]interface{}{"thread": threadID})
	return nil
}

// ChatDelete removes a thread without blocking the other user
func (a *API) ChatDelete(ctx context.Context, threadID string) error {
	_, err := a.postPage(ctx, pathMessages, url.Values{
		"action":     {"delete_thread"},
		"thread":     {threadID},
		"block_user": {"0"},
	})
	return err
}
