// Package extract maps raw Apollo person records onto the normalized export
// shape. Pure field mapping, no I/O.
package extract

import (
	"strings"

	"apollo-gatherer/internal/apollo"
	"apollo-gatherer/internal/domain"
)

// Email returns the record's contact email, preferring the primary field.
// Empty means the provider revealed no email and the record must be skipped
// before Contact is called.
func Email(r apollo.Record) string {
	if v := r.String("email"); v != "" {
		return v
	}
	return r.String("primary_email")
}

// Contact builds the normalized record. The email is written as the
// provider returned it; dedup normalization happens in the seen set.
func Contact(r apollo.Record) domain.Contact {
	return domain.Contact{
		Name:    composeName(r),
		Role:    r.String("title"),
		Email:   Email(r),
		Company: companyName(r),
	}
}

func composeName(r apollo.Record) string {
	first := strings.TrimSpace(r.String("first_name"))
	last := strings.TrimSpace(r.String("last_name"))
	return strings.TrimSpace(first + " " + last)
}

// companyName prefers the flat display-name field and falls back to the
// nested organization object.
func companyName(r apollo.Record) string {
	if v := r.String("organization_name"); v != "" {
		return v
	}
	if org, ok := r["organization"].(map[string]any); ok {
		if name, ok := org["name"].(string); ok {
			return name
		}
	}
	return ""
}
