package apollo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestListsEnvelopeKeyFallback(t *testing.T) {
	// older deployments respond with "results" instead of "lists"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("lists must use GET, got %s", r.Method)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("expected api_key query param, got %q", got)
		}
		if r.URL.Query().Get("page") == "1" {
			w.Write([]byte(`{"results": [{"id": "l1", "name": "Leads"}]}`))
			return
		}
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	c, _ := testClient(srv, 5, 1.5)
	var names []string
	for rec, err := range c.Lists(context.Background(), PageOptions{PerPage: 100}) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		names = append(names, rec.String("name"))
	}
	if len(names) != 1 || names[0] != "Leads" {
		t.Errorf("expected [Leads], got %v", names)
	}
}

func TestListContactsCapStopsPagination(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if !strings.HasPrefix(r.URL.Path, "/lists/l1/contacts") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		page := r.URL.Query().Get("page")
		fmt.Fprintf(w, `{"list_contacts": [{"email": "p%s-1@x.com"}, {"email": "p%s-2@x.com"}]}`, page, page)
	}))
	defer srv.Close()

	c, _ := testClient(srv, 5, 1.5)
	var emails []string
	for rec, err := range c.ListContacts(context.Background(), "l1", PageOptions{PerPage: 2}, 3) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		emails = append(emails, rec.String("email"))
	}
	if len(emails) != 3 {
		t.Fatalf("expected the cap to yield 3 contacts, got %v", emails)
	}
	if requests != 2 {
		t.Errorf("expected 2 page requests for a cap of 3 over pages of 2, got %d", requests)
	}
}

func TestListByName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			w.Write([]byte(`{"lists": [{"id": "a", "name": "Cold Outreach"}, {"id": "b", "name": " Q3 Prospects "}]}`))
			return
		}
		w.Write([]byte(`{"lists": []}`))
	}))
	defer srv.Close()

	c, _ := testClient(srv, 5, 1.5)

	rec, err := c.ListByName(context.Background(), "q3 prospects")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil || rec.String("id") != "b" {
		t.Errorf("expected list b, got %v", rec)
	}

	rec, err = c.ListByName(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil for a missing list, got %v", rec)
	}
}

func TestPageRecordsSkipsEmptyCandidateKeys(t *testing.T) {
	env := map[string]any{
		"contacts": []any{},
		"results":  []any{map[string]any{"email": "a@x.com"}},
	}
	recs := pageRecords(env, kindListContacts)
	if len(recs) != 1 || recs[0].String("email") != "a@x.com" {
		t.Errorf("an empty candidate array must fall through, got %v", recs)
	}
}

func TestPageTotalAbsent(t *testing.T) {
	if _, ok := pageTotal(map[string]any{}); ok {
		t.Error("missing pagination block must report no total")
	}
	if _, ok := pageTotal(map[string]any{"pagination": map[string]any{}}); ok {
		t.Error("missing total_pages must report no total")
	}
	if total, ok := pageTotal(map[string]any{"pagination": map[string]any{"total_pages": float64(7)}}); !ok || total != 7 {
		t.Errorf("expected total 7, got %d ok=%v", total, ok)
	}
}
