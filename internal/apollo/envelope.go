package apollo

// Record is a raw provider record, read-only as far as callers are
// concerned. Values are whatever the provider returned.
type Record map[string]any

// String returns the value under key when it is a string, else "".
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// endpointKind selects which envelope keys an endpoint may put its result
// array under. Apollo is not consistent about this across endpoints, so the
// fallback chains live here and nowhere else.
type endpointKind int

const (
	kindPeople endpointKind = iota
	kindLists
	kindListContacts
)

func (k endpointKind) resultKeys() []string {
	switch k {
	case kindPeople:
		return []string{"people"}
	case kindLists:
		return []string{"lists", "results"}
	default:
		return []string{"contacts", "list_contacts", "results"}
	}
}

// pageRecords pulls the result array out of a response envelope. A key whose
// array is empty falls through to the next candidate, matching how the
// provider mixes old and new envelope shapes.
func pageRecords(env map[string]any, kind endpointKind) []Record {
	for _, key := range kind.resultKeys() {
		raw, ok := env[key].([]any)
		if !ok || len(raw) == 0 {
			continue
		}
		out := make([]Record, 0, len(raw))
		for _, v := range raw {
			if m, ok := v.(map[string]any); ok {
				out = append(out, Record(m))
			}
		}
		return out
	}
	return nil
}

// pageTotal reads the pagination.total_pages hint; ok is false when the
// provider omitted pagination metadata entirely.
func pageTotal(env map[string]any) (total int, ok bool) {
	p, ok := env["pagination"].(map[string]any)
	if !ok {
		return 0, false
	}
	v, ok := p["total_pages"].(float64)
	if !ok {
		return 0, false
	}
	return int(v), true
}
