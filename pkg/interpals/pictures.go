package interpals

import (
	"context"
	"net/url"
	"strings"

	"interpals/pkg/parser"
)

// Albums lists the photo albums of the user uid
func (a *API) Albums(ctx context.Context, uid string) ([]parser.Album, error) {
	body, err := a.getPage(ctx, pathAlbums, url.Values{"uid": {uid}})
	if err != nil {
		return nil, err
	}
	return parser.ParseAlbums(body)
}

// Pictures lists the pictures of album aid owned by the user uid
func (a *API) Pictures(ctx context.Context, uid, aid string) ([]parser.Picture, error) {
	body, err := a.getPage(ctx, pathAlbum, url.Values{"uid": {uid}, "aid": {aid}})
	if err != nil {
		return nil, err
	}
	pictures, err := parser.ParsePictures(body)
	if err != nil || a.static == "" || a.static == parser.StaticOrigin {
		return pictures, err
	}
	for i := range pictures {
		if rest, ok := strings.CutPrefix(pictures[i].Full, parser.StaticOrigin); ok {
			pictures[i].Full = a.static + rest
		}
	}
	return pictures, nil
}
