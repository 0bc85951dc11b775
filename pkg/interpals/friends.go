package interpals

import (
	"context"
	"net/http"
	"net/url"

	errs "interpals/pkg/errors"
	"interpals/pkg/parser"
)

// Friends lists the friends of the user uid
func (a *API) Friends(ctx context.Context, uid string) ([]parser.Friend, error) {
	body, err := a.getPage(ctx, pathFriends, url.Values{"uid": {uid}})
	if err != nil {
		return nil, err
	}
	return parser.ParseFriends(body)
}

// FriendAdd sends a friend request to the user uid
func (a *API) FriendAdd(ctx context.Context, uid string) error {
	return a.friendAction(ctx, pathFriendAdd, uid, "could not add friend %s")
}

// FriendRemove removes the user uid from the friend list
func (a *API) FriendRemove(ctx context.Context, uid string) error {
	return a.friendAction(ctx, pathFriendDel, uid, "could not remove friend %s")
}

// friendAction succeeds only when the site answers with a 302
func (a *API) friendAction(ctx context.Context, path, uid, failure string) error {
	resp, err := a.get(ctx, path, url.Values{"uid": {uid}}, false)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusFound {
		e := errs.New(errs.ErrorTypeRejected, failure, uid)
		e.Code = resp.StatusCode
		return e
	}
	return nil
}
