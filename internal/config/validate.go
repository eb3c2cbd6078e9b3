package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string
	Warnings []string
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg plus everything
// wrong with it. All checks run before any network call is made.
//
// Two search modes: list mode (search.list_name set) needs nothing else;
// direct search needs at least one job title, at least one company, and a
// country (the provider requires the location filter for that mode).
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	out.Search.JobTitles = trimList(out.Search.JobTitles)
	out.Search.Companies = trimList(out.Search.Companies)
	out.Search.Country = strings.TrimSpace(out.Search.Country)
	out.Search.ListName = strings.TrimSpace(out.Search.ListName)

	listMode := out.Search.ListName != ""

	if !listMode {
		if len(out.Search.JobTitles) == 0 {
			res.addErr("at least one job title keyword is required (use --job-title or --job-titles)")
		}
		if len(out.Search.Companies) == 0 {
			res.addErr("at least one company name is required (use --company or --companies-file)")
		}
		if out.Search.Country == "" {
			res.addErr("country is required when using job/company filters")
		}
	}

	if out.API.PerPage < 1 || out.API.PerPage > 200 {
		res.addErr("api.per_page must be 1..200, got %d", out.API.PerPage)
	}
	if out.API.MaxPages < 0 {
		res.addErr("api.max_pages must be >= 0")
	}
	if out.API.MaxContacts < 0 {
		res.addErr("api.max_contacts must be >= 0")
	}
	if out.API.MaxRetries < 0 {
		res.addErr("api.max_retries must be >= 0")
	}
	if out.API.BackoffFactor < 0 {
		res.addErr("api.backoff_factor must be >= 0")
	}
	if out.API.RequestDelay < 0 {
		res.addErr("api.request_delay_seconds must be >= 0")
	}
	if strings.TrimSpace(out.Output.Path) == "" {
		res.addErr("output.path must not be empty")
	}

	if out.API.RequestDelay == 0 {
		res.addWarn("request delay is 0; the provider may rate-limit aggressively.")
	}
	if out.API.PerPage > 100 {
		res.addWarn("per_page is %d; large pages burn credits fast when filters are broad.", out.API.PerPage)
	}
	if listMode && len(out.Search.Companies) > 0 {
		res.addWarn("company filters are ignored in list mode; list membership scopes the search.")
	}

	return out, res
}

// trimList trims entries, drops empties, and dedupes case-insensitively
// while preserving first-seen order.
func trimList(xs []string) []string {
	seen := map[string]bool{}
	var ys []string
	for _, x := range xs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		key := strings.ToLower(x)
		if seen[key] {
			continue
		}
		seen[key] = true
		ys = append(ys, x)
	}
	return ys
}
