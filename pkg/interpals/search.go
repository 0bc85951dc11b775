package interpals

import (
	"context"
	"iter"
	"net/url"
	"strconv"

	errs "interpals/pkg/errors"
	"interpals/pkg/parser"
)

// Defaults of the search form
var (
	DefaultSexes      = []string{"male", "female"}
	DefaultContinents = []string{"AF", "AS", "EU", "NA", "OC", "SA"}
	defaultLookingFor = []string{
		"lfor_email", "lfor_snail", "lfor_langex",
		"lfor_friend", "lfor_flirt", "lfor_relation",
	}
)

// SearchOptions are the filters of the user search form. Zero values
// fall back to the form defaults.
type SearchOptions struct {
	AgeFrom    int
	AgeTo      int
	Sexes      []string
	Continents []string
	Countries  []string
	Keywords   string
	Online     bool
	// City is the site's numeric city code. When only CityName is set the
	// code is looked up with CityCode.
	City     string
	CityName string
}

func orDefault(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}

// Values encodes the options as search form fields
func (o SearchOptions) Values() url.Values {
	ageFrom, ageTo := o.AgeFrom, o.AgeTo
	if ageFrom <= 0 {
		ageFrom = 16
	}
	if ageTo <= 0 {
		ageTo = 110
	}

	v := url.Values{
		"sort":         {"last_login"},
		"age1":         {strconv.Itoa(ageFrom)},
		"age2":         {strconv.Itoa(ageTo)},
		"sex[]":        orDefault(o.Sexes, DefaultSexes),
		"continents[]": orDefault(o.Continents, DefaultContinents),
		"countries[]":  orDefault(o.Countries, []string{"---"}),
		"languages[]":  {"---"},
		"lfor[]":       defaultLookingFor,
		"keywords":     {o.Keywords},
		"username":     {""},
	}
	if o.Online {
		v.Set("online", "1")
	}
	if o.CityName != "" {
		v.Set("city", o.City)
		v.Set("cityName", o.CityName)
	}
	return v
}

// Search lazily yields usernames matching opts. Pages are fetched on
// demand with an offset that grows by one per yielded user; iteration ends
// on an empty page, after limit users when limit > 0, on the first error,
// or when the consumer stops. Pages after the first wait on the API's
// page pacer.
func (a *API) Search(ctx context.Context, opts SearchOptions, limit int) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		body, err := a.getPage(ctx, pathSearch, nil)
		if err != nil {
			yield("", err)
			return
		}
		token, ok := parser.FindCSRFToken(body)
		if !ok {
			yield("", errs.New(errs.ErrorTypeNoCSRFToken, "search page carries no CSRF token"))
			return
		}

		if opts.CityName != "" && opts.City == "" {
			code, err := a.CityCode(ctx, opts.CityName)
			if err != nil {
				yield("", err)
				return
			}
			opts.City = code
		}

		params := opts.Values()
		params.Set("csrf_token", token)

		pacer := a.pacer()
		offset := 0
		for {
			if err := pacer.Wait(ctx); err != nil {
				yield("", err)
				return
			}

			params.Set("offset", strconv.Itoa(offset))
			body, err := a.getPage(ctx, pathSearch, params)
			if err != nil {
				yield("", err)
				return
			}
			users, err := parser.ParseSearchResults(body)
			if err != nil {
				yield("", err)
				return
			}

			a.logger.DebugWithFields("search page fetched", map[string]interface{}{
				"offset": offset,
				"users":  len(users),
			})
			if len(users) == 0 {
				return
			}

			for _, user := range users {
				if !yield(user, nil) {
					return
				}
				offset++
				if limit > 0 && offset >= limit {
					return
				}
			}
		}
	}
}

// SearchAll collects a whole search into a slice
func (a *API) SearchAll(ctx context.Context, opts SearchOptions, limit int) ([]string, error) {
	users := []string{}
	for user, err := range a.Search(ctx, opts, limit) {
		if err != nil {
			return users, err
		}
		users = append(users, user)
	}
	return users, nil
}

// CityCode resolves a city name to the site's city code using the first
// autocomplete suggestion
func (a *API) CityCode(ctx context.Context, name string) (string, error) {
	resp, err := a.get(ctx, pathCityAC, url.Values{"query": {name}}, false)
	if err != nil {
		return "", err
	}
	if err := expectPage(resp); err != nil {
		return "", err
	}
	return parser.ParseCityCode(resp.Body)
}
