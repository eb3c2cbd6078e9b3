package apollo

import (
	"context"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Lists enumerates the account's Apollo lists.
func (c *Client) Lists(ctx context.Context, opts PageOptions) iter.Seq2[Record, error] {
	return c.paginate(ctx, opts, kindLists, func(page int) (map[string]any, error) {
		return c.do(ctx, http.MethodGet, "/lists", nil, pageParams(c.cfg.APIKey, page, opts.PerPage))
	})
}

// ListContacts enumerates the contacts of one list. maxContacts caps how
// many records are yielded (0 means no cap); pagination stops as soon as the
// cap is reached, so no extra pages are fetched.
func (c *Client) ListContacts(ctx context.Context, listID string, opts PageOptions, maxContacts int) iter.Seq2[Record, error] {
	inner := c.paginate(ctx, opts, kindListContacts, func(page int) (map[string]any, error) {
		path := "/lists/" + url.PathEscape(listID) + "/contacts"
		return c.do(ctx, http.MethodGet, path, nil, pageParams(c.cfg.APIKey, page, opts.PerPage))
	})
	if maxContacts <= 0 {
		return inner
	}
	return func(yield func(Record, error) bool) {
		n := 0
		for rec, err := range inner {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
			n++
			if n >= maxContacts {
				return
			}
		}
	}
}

// ListByName returns the first list whose name matches, case-insensitively
// and ignoring surrounding whitespace. Returns nil when no list matches.
func (c *Client) ListByName(ctx context.Context, name string) (Record, error) {
	target := strings.ToLower(strings.TrimSpace(name))
	for rec, err := range c.Lists(ctx, PageOptions{PerPage: 100}) {
		if err != nil {
			return nil, err
		}
		if strings.ToLower(strings.TrimSpace(rec.String("name"))) == target {
			return rec, nil
		}
	}
	return nil, nil
}

func pageParams(apiKey string, page, perPage int) url.Values {
	return url.Values{
		"api_key":  {apiKey},
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}
}
