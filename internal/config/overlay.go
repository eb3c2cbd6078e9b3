package config

import (
	"fmt"
	"os"
	"strings"
)

// OverlayCompaniesFile appends company names from a plain text file (one
// per line, blanks skipped) to the search filters.
func OverlayCompaniesFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read companies file: %w", err)
	}
	for line := range strings.Lines(string(b)) {
		if v := strings.TrimSpace(line); v != "" {
			cfg.Search.Companies = append(cfg.Search.Companies, v)
		}
	}
	return nil
}

// SplitCSVList expands a comma-separated flag value ("cto, vp sales") into
// trimmed entries.
func SplitCSVList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
