package interpals

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "interpals/pkg/errors"
	"interpals/pkg/ratelimit"
	"interpals/pkg/session"
)

func TestSearchExhaustsPages(t *testing.T) {
	api, site, _ := newTestAPI(t, testSession)
	site.searchPages = []int{10, 10, 0}

	users, err := api.SearchAll(context.Background(), SearchOptions{}, 0)
	require.NoError(t, err)

	assert.Len(t, users, 20)
	assert.Equal(t, "u0", users[0])
	assert.Equal(t, "u19", users[19])
	assert.Equal(t, []string{"0", "10", "20"}, site.offsets())
	for _, token := range site.tokens() {
		assert.Equal(t, "search-token", token)
	}
}

func TestSearchStopsAtLimit(t *testing.T) {
	api, site, _ := newTestAPI(t, testSession)
	site.searchPages = []int{10, 10, 0}

	users, err := api.SearchAll(context.Background(), SearchOptions{}, 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"u0", "u1", "u2", "u3", "u4"}, users)
	assert.Equal(t, []string{"0"}, site.offsets(), "no further page may be requested")
}

func TestSearchConsumerBreak(t *testing.T) {
	api, site, _ := newTestAPI(t, testSession)
	site.searchPages = []int{10, 10, 0}

	var got []string
	for user, err := range api.Search(context.Background(), SearchOptions{}, 0) {
		require.NoError(t, err)
		got = append(got, user)
		if len(got) == 12 {
			break
		}
	}

	assert.Len(t, got, 12)
	assert.Equal(t, []string{"0", "10"}, site.offsets())
}

func TestSearchWaitsBetweenPages(t *testing.T) {
	api, site, _ := newTestAPI(t, testSession, WithPageDelay(60*time.Millisecond))
	site.searchPages = []int{2, 2, 0}

	start := time.Now()
	users, err := api.SearchAll(context.Background(), SearchOptions{}, 0)
	require.NoError(t, err)

	assert.Len(t, users, 4)
	// three page fetches, two pauses
	assert.GreaterOrEqual(t, time.Since(start), 120*time.Millisecond)
}

func TestSearchCancelledWhileWaiting(t *testing.T) {
	api, site, _ := newTestAPI(t, testSession, WithPageDelay(time.Hour))
	site.searchPages = []int{1, 1}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	users, err := api.SearchAll(ctx, SearchOptions{}, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{"u0"}, users)
}

func TestSearchAuthExpired(t *testing.T) {
	api, site, _ := newTestAPI(t, session.New("me", "old", "old"))
	site.searchPages = []int{10}

	users, err := api.SearchAll(context.Background(), SearchOptions{}, 0)
	assert.ErrorIs(t, err, errs.ErrAuthExpired)
	assert.Empty(t, users)
	assert.Empty(t, site.offsets())
}

func TestSearchOptionsValues(t *testing.T) {
	v := SearchOptions{}.Values()
	assert.Equal(t, "16", v.Get("age1"))
	assert.Equal(t, "110", v.Get("age2"))
	assert.Equal(t, "last_login", v.Get("sort"))
	assert.Equal(t, DefaultSexes, v["sex[]"])
	assert.Equal(t, DefaultContinents, v["continents[]"])
	assert.Equal(t, []string{"---"}, v["countries[]"])
	assert.Len(t, v["lfor[]"], 6)
	assert.False(t, v.Has("online"))
	assert.False(t, v.Has("cityName"))

	v = SearchOptions{
		AgeFrom:   20,
		AgeTo:     30,
		Sexes:     []string{"female"},
		Countries: []string{"DE", "FR"},
		Keywords:  "chess",
		Online:    true,
		City:      "2950159",
		CityName:  "Berlin",
	}.Values()
	assert.Equal(t, "20", v.Get("age1"))
	assert.Equal(t, []string{"female"}, v["sex[]"])
	assert.Equal(t, []string{"DE", "FR"}, v["countries[]"])
	assert.Equal(t, "chess", v.Get("keywords"))
	assert.Equal(t, "1", v.Get("online"))
	assert.Equal(t, "2950159", v.Get("city"))
	assert.Equal(t, "Berlin", v.Get("cityName"))
}

func TestSearchLooksUpCity(t *testing.T) {
	api, site, _ := newTestAPI(t, testSession)
	site.searchPages = []int{1, 0}

	users, err := api.SearchAll(context.Background(), SearchOptions{CityName: "London"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"u0"}, users)

	_, err = api.SearchAll(context.Background(), SearchOptions{CityName: "Nowhere"}, 0)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSearchSharedLimiter(t *testing.T) {
	api, site, _ := newTestAPI(t, testSession, WithLimiter(ratelimit.NewTokenBucket(2, time.Hour)))
	site.searchPages = []int{2, 2, 0}

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	users, err := api.SearchAll(ctx, SearchOptions{}, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, users, 4)
	assert.Equal(t, []string{"0", "2"}, site.offsets())
}
