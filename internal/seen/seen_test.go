package seen

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	set := Load(filepath.Join(t.TempDir(), "nope.txt"))
	if len(set) != 0 {
		t.Errorf("missing file must load as an empty set, got %d entries", len(set))
	}
}

func TestLoadNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.txt")
	os.WriteFile(path, []byte("  A@X.com \n\nb@y.com\n"), 0o644)

	set := Load(path)
	if len(set) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(set))
	}
	if set.ShouldEmit("a@x.com") {
		t.Error("a@x.com should be seen regardless of casing")
	}
	if set.ShouldEmit(" B@Y.COM ") {
		t.Error("b@y.com should be seen regardless of casing and whitespace")
	}
}

func TestShouldEmit(t *testing.T) {
	set := make(Set)
	if set.ShouldEmit("") {
		t.Error("empty email must never be emitted")
	}
	if set.ShouldEmit("   ") {
		t.Error("whitespace-only email must never be emitted")
	}
	if !set.ShouldEmit("new@x.com") {
		t.Error("unseen email should be emitted")
	}
	set.Add("New@X.com")
	if set.ShouldEmit("new@x.com") {
		t.Error("added email must not be emitted again")
	}
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.txt")

	set := make(Set)
	set.Add("b@y.com")
	set.Add("A@X.com")
	if err := Save(path, set); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "a@x.com\nb@y.com\n" {
		t.Errorf("expected sorted lowercased lines with trailing newline, got %q", string(data))
	}

	// persisting an already-normalized set and reloading yields the same set
	reloaded := Load(path)
	if len(reloaded) != len(set) {
		t.Fatalf("expected %d entries after reload, got %d", len(set), len(reloaded))
	}
	for e := range set {
		if reloaded.ShouldEmit(e) {
			t.Errorf("%s lost in round trip", e)
		}
	}
	if err := Save(path, reloaded); err != nil {
		t.Fatalf("second save: %v", err)
	}
	data2, _ := os.ReadFile(path)
	if string(data2) != string(data) {
		t.Error("persisting a reloaded set must be byte-identical")
	}
}

func TestSaveSkipsEmptySet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.txt")
	if err := Save(path, make(Set)); err != nil {
		t.Fatalf("save of empty set: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("empty set must not create a file")
	}
}

func TestSaveCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "deep", "seen.txt")
	set := make(Set)
	set.Add("a@x.com")
	if err := Save(path, set); err != nil {
		t.Fatalf("save into missing dirs: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file at %s: %v", path, err)
	}
}

func TestLockReleases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.txt")
	release, err := Lock(path)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	release()

	// lockable again after release
	release2, err := Lock(path)
	if err != nil {
		t.Fatalf("relock after release: %v", err)
	}
	release2()
}
