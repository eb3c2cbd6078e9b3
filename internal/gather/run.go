// Package gather drives the search -> extract -> dedup -> collect pipeline.
package gather

import (
	"context"
	"iter"
	"log"

	"apollo-gatherer/internal/apollo"
	"apollo-gatherer/internal/domain"
	"apollo-gatherer/internal/extract"
	"apollo-gatherer/internal/seen"
)

// Options drives one gathering run.
type Options struct {
	Query       apollo.Query
	Pages       apollo.PageOptions
	MaxContacts int // 0 means unlimited

	// Seen is the loaded cross-run state. Records whose email is already in
	// it are dropped; new emails are added to it as the run progresses.
	Seen seen.Set
}

// Result is what one run produced.
type Result struct {
	Contacts  []domain.Contact
	NewlySeen seen.Set // emails first exported by this run
	Skipped   int      // records dropped for a missing or already-seen email
}

// Run gathers contacts via people search. Pagination is pull-driven: once
// MaxContacts is reached no further page is requested.
func Run(ctx context.Context, client *apollo.Client, opts Options) (Result, error) {
	return collect(client.SearchPeople(ctx, opts.Query, opts.Pages), opts)
}

// RunList gathers contacts from a provider list through the list-contacts
// endpoint instead of people search.
func RunList(ctx context.Context, client *apollo.Client, listID string, opts Options) (Result, error) {
	return collect(client.ListContacts(ctx, listID, opts.Pages, 0), opts)
}

func collect(records iter.Seq2[apollo.Record, error], opts Options) (Result, error) {
	res := Result{NewlySeen: make(seen.Set)}

	seenSet := opts.Seen
	if seenSet == nil {
		seenSet = make(seen.Set)
	}

	for rec, err := range records {
		if err != nil {
			return res, err
		}

		email := extract.Email(rec)
		if !seenSet.ShouldEmit(email) {
			res.Skipped++
			continue
		}
		seenSet.Add(email)
		res.NewlySeen.Add(email)

		res.Contacts = append(res.Contacts, extract.Contact(rec))
		if opts.MaxContacts > 0 && len(res.Contacts) >= opts.MaxContacts {
			break
		}
	}

	log.Printf("[gather] collected %d contacts (skipped %d)", len(res.Contacts), res.Skipped)
	return res, nil
}
