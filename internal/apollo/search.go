package apollo

import (
	"context"
	"iter"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Query holds the people-search filters. At least one title and one company
// plus a country are required for a direct search; list mode only needs
// ListNames. Validation happens in the config layer, before any request.
type Query struct {
	JobTitles []string
	Companies []string
	Country   string

	// ListNames scopes the search to named Apollo lists (person_list_names).
	ListNames []string

	// ExtraFilters is merged into the request body as-is, for callers that
	// need provider filters this tool has no flag for.
	ExtraFilters map[string]any
}

// PageOptions controls pagination for one iterator.
type PageOptions struct {
	PerPage  int           // page size, Apollo allows 1..200
	MaxPages int           // 0 means no cap
	Delay    time.Duration // minimum spacing between page fetches
}

// SearchPeople returns a lazy sequence of people matching q. The next page
// is fetched only once the previous page's records have been consumed, so
// breaking out of the range stops all further requests. The sequence is not
// restartable: ranging again starts a fresh cursor at page 1.
func (c *Client) SearchPeople(ctx context.Context, q Query, opts PageOptions) iter.Seq2[Record, error] {
	base := map[string]any{}
	if titles := compactList(q.JobTitles); len(titles) > 0 {
		base["person_titles"] = titles
	}
	if country := strings.TrimSpace(q.Country); country != "" {
		base["person_locations"] = []string{country}
	}
	if orgs := compactList(q.Companies); len(orgs) > 0 {
		base["organization_names"] = orgs
	}
	if names := compactList(q.ListNames); len(names) > 0 {
		base["person_list_names"] = names
	}
	for k, v := range q.ExtraFilters {
		base[k] = v
	}

	return c.paginate(ctx, opts, kindPeople, func(page int) (map[string]any, error) {
		body := make(map[string]any, len(base)+3)
		for k, v := range base {
			body[k] = v
		}
		body["api_key"] = c.cfg.APIKey // apollo also accepts the key in the body
		body["page"] = page
		body["per_page"] = opts.PerPage
		return c.do(ctx, http.MethodPost, "/people/search", body, nil)
	})
}

// paginate drives a 1-based page cursor over fetch until exhaustion. Stop
// rules, in order: page cap exceeded, empty result page, total_pages hint
// reached. An empty page always terminates, even when the provider reports
// more pages, so a broken pagination block cannot loop forever.
func (c *Client) paginate(ctx context.Context, opts PageOptions, kind endpointKind, fetch func(page int) (map[string]any, error)) iter.Seq2[Record, error] {
	var pacer *rate.Limiter
	if opts.Delay > 0 {
		// Burst 1 with a free initial token: the first page goes out
		// immediately, every later page waits out the delay.
		pacer = rate.NewLimiter(rate.Every(opts.Delay), 1)
	}

	return func(yield func(Record, error) bool) {
		page := 1
		for {
			if opts.MaxPages > 0 && page > opts.MaxPages {
				return
			}
			if pacer != nil {
				if err := pacer.Wait(ctx); err != nil {
					yield(nil, &APIError{Err: err})
					return
				}
			}

			env, err := fetch(page)
			if err != nil {
				yield(nil, err)
				return
			}

			recs := pageRecords(env, kind)
			if len(recs) == 0 {
				return
			}
			for _, r := range recs {
				if !yield(r, nil) {
					return
				}
			}

			if total, ok := pageTotal(env); ok && page >= total {
				return
			}
			page++
		}
	}
}

// compactList trims entries and drops empties, preserving order.
func compactList(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
