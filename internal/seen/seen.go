// Package seen tracks which contact emails earlier runs already exported.
// The state is a flat text file, one lowercased email per line, loaded once
// at startup and rewritten wholesale at the end of a run.
package seen

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"
)

// Set holds normalized (lowercased, trimmed) emails.
type Set map[string]struct{}

// Normalize is the canonical email form used for dedup.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Load reads the seen file at path. A missing or unreadable file means no
// prior state and never fails the run.
func Load(path string) Set {
	set := make(Set)
	data, err := os.ReadFile(path)
	if err != nil {
		return set
	}
	for line := range strings.Lines(string(data)) {
		if v := Normalize(line); v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// ShouldEmit reports whether email is non-empty and not yet seen.
func (s Set) ShouldEmit(email string) bool {
	v := Normalize(email)
	if v == "" {
		return false
	}
	_, ok := s[v]
	return !ok
}

// Add records email in the set. Empty emails are ignored.
func (s Set) Add(email string) {
	if v := Normalize(email); v != "" {
		s[v] = struct{}{}
	}
}

// Save rewrites path with the sorted set, one email per line with a trailing
// newline. An empty set writes nothing. Parent directories are created
// best-effort; a mkdir failure is left for the write to report.
func Save(path string, s Set) error {
	if len(s) == 0 {
		return nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}

	emails := make([]string, 0, len(s))
	for e := range s {
		emails = append(emails, e)
	}
	sort.Strings(emails)

	return os.WriteFile(path, []byte(strings.Join(emails, "\n")+"\n"), 0o644)
}

// Lock takes an advisory lock next to the seen file so two concurrent runs
// cannot clobber each other's state. The returned release func is never nil.
func Lock(path string) (release func(), err error) {
	fl := flock.New(path + ".lock")
	if err := fl.Lock(); err != nil {
		return func() {}, err
	}
	return func() { _ = fl.Unlock() }, nil
}
