package interpals

import (
	"context"

	"interpals/pkg/parser"
	"interpals/pkg/session"
)

// Future is the pending result of one network-bound call
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Start runs fn in its own goroutine and returns its future
func Start[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.val, f.err = fn(ctx)
	}()
	return f
}

// Done is closed once the call has finished
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the call finishes or ctx is done. Abandoning a
// future does not stop its call; cancel the context given to Start for
// that.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Empty is the result of calls that only report success
type Empty struct{}

func noValue(fn func(context.Context) error) func(context.Context) (Empty, error) {
	return func(ctx context.Context) (Empty, error) {
		return Empty{}, fn(ctx)
	}
}

// LoginAsync runs a login handshake as a future
func LoginAsync(ctx context.Context, auth *session.Authenticator, username, password string) *Future[*session.Session] {
	return Start(ctx, func(ctx context.Context) (*session.Session, error) {
		return auth.Login(ctx, username, password)
	})
}

// AsyncAPI exposes every API call as a future. Each call runs on its own;
// nothing runs in parallel unless the caller starts several futures.
type AsyncAPI struct {
	api *API
}

// NewAsync wraps api
func NewAsync(api *API) *AsyncAPI {
	return &AsyncAPI{api: api}
}

// Sync returns the blocking API underneath
func (a *AsyncAPI) Sync() *API {
	return a.api
}

// CheckAuth runs API.CheckAuth in the background
func (a *AsyncAPI) CheckAuth(ctx context.Context) *Future[bool] {
	return Start(ctx, a.api.CheckAuth)
}

// View records a visit to user
func (a *AsyncAPI) View(ctx context.Context, user string) *Future[Empty] {
	return Start(ctx, noValue(func(ctx context.Context) error { return a.api.View(ctx, user) }))
}

// Profile fetches the profile of user
func (a *AsyncAPI) Profile(ctx context.Context, user string) *Future[*parser.Profile] {
	return Start(ctx, func(ctx context.Context) (*parser.Profile, error) { return a.api.Profile(ctx, user) })
}

// UID resolves the numeric id of user
func (a *AsyncAPI) UID(ctx context.Context, user string) *Future[string] {
	return Start(ctx, func(ctx context.Context) (string, error) { return a.api.UID(ctx, user) })
}

// Visitors lists recent profile visitors
func (a *AsyncAPI) Visitors(ctx context.Context) *Future[[]string] {
	return Start(ctx, a.api.Visitors)
}

// Search delivers users on a channel as pages arrive. The channel is
// closed when the search ends; cancel ctx to stop early.
func (a *AsyncAPI) Search(ctx context.Context, opts SearchOptions, limit int) <-chan SearchResult {
	out := make(chan SearchResult)
	go func() {
		defer close(out)
		for user, err := range a.api.Search(ctx, opts, limit) {
			select {
			case out <- SearchResult{Username: user, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// SearchResult is one item of an asynchronous search
type SearchResult struct {
	Username string
	Err      error
}

// ThreadID finds the conversation with uid
func (a *AsyncAPI) ThreadID(ctx context.Context, uid string) *Future[string] {
	return Start(ctx, func(ctx context.Context) (string, error) { return a.api.ThreadID(ctx, uid) })
}

// Chat fetches the thread overview
func (a *AsyncAPI) Chat(ctx context.Context, count, offset int) *Future[*ChatOverview] {
	return Start(ctx, func(ctx context.Context) (*ChatOverview, error) { return a.api.Chat(ctx, count, offset) })
}

// ChatMessages fetches messages of a thread older than lastMsgID
func (a *AsyncAPI) ChatMessages(ctx context.Context, threadID, lastMsgID string) *Future[[]parser.Message] {
	return Start(ctx, func(ctx context.Context) ([]parser.Message, error) {
		return a.api.ChatMessages(ctx, threadID, lastMsgID)
	})
}

// ChatSend posts message to a thread
func (a *AsyncAPI) ChatSend(ctx context.Context, threadID, message string) *Future[Empty] {
	return Start(ctx, noValue(func(ctx context.Context) error { return a.api.ChatSend(ctx, threadID, message) }))
}

// ChatDelete removes a thread
func (a *AsyncAPI) ChatDelete(ctx context.Context, threadID string) *Future[Empty] {
	return Start(ctx, noValue(func(ctx context.Context) error { return a.api.ChatDelete(ctx, threadID) }))
}

// Friends lists the friends of uid
func (a *AsyncAPI) Friends(ctx context.Context, uid string) *Future[[]parser.Friend] {
	return Start(ctx, func(ctx context.Context) ([]parser.Friend, error) { return a.api.Friends(ctx, uid) })
}

// FriendAdd sends a friend request to uid
func (a *AsyncAPI) FriendAdd(ctx context.Context, uid string) *Future[Empty] {
	return Start(ctx, noValue(func(ctx context.Context) error { return a.api.FriendAdd(ctx, uid) }))
}

// FriendRemove removes uid from the friend list
func (a *AsyncAPI) FriendRemove(ctx context.Context, uid string) *Future[Empty] {
	return Start(ctx, noValue(func(ctx context.Context) error { return a.api.FriendRemove(ctx, uid) }))
}

// Albums lists the photo albums of uid
func (a *AsyncAPI) Albums(ctx context.Context, uid string) *Future[[]parser.Album] {
	return Start(ctx, func(ctx context.Context) ([]parser.Album, error) { return a.api.Albums(ctx, uid) })
}

// Pictures lists the pictures of album aid
func (a *AsyncAPI) Pictures(ctx context.Context, uid, aid string) *Future[[]parser.Picture] {
	return Start(ctx, func(ctx context.Context) ([]parser.Picture, error) { return a.api.Pictures(ctx, uid, aid) })
}

// CityCode looks up the site code for a city name
func (a *AsyncAPI) CityCode(ctx context.Context, name string) *Future[string] {
	return Start(ctx, func(ctx context.Context) (string, error) { return a.api.CityCode(ctx, name) })
}
