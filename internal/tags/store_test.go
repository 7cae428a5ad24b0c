package tags

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// Test Helpers
// =============================================================================

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tags.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return s, path
}

// =============================================================================
// Initialization Tests
// =============================================================================

func TestNewStoreSeedsDefaults(t *testing.T) {
	t.Parallel()

	s, path := newTestStore(t)

	if s.Count() != len(DefaultTags) {
		t.Errorf("Expected %d default tags, got %d", len(DefaultTags), s.Count())
	}

	all := s.All()
	for i, want := range DefaultTags {
		if all[i] != want {
			t.Errorf("Expected tag %d to be %q, got %q", i, want, all[i])
		}
	}

	// The catalog file exists on disk after first load.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected catalog file to exist: %v", err)
	}
}

func TestNewStoreRecoversFromCorruptCatalog(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tags.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("Failed to write corrupt catalog: %v", err)
	}

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore failed on corrupt catalog: %v", err)
	}

	if s.Count() != len(DefaultTags) {
		t.Errorf("Expected reinitialized catalog with %d tags, got %d", len(DefaultTags), s.Count())
	}
}

func TestNewStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tags.json")
	s1, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if err := s1.Add("duchamp"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// A fresh store on the same path sees the persisted tag.
	s2, err := NewStore(path)
	if err != nil {
		t.Fatalf("Second NewStore failed: %v", err)
	}

	found := false
	for _, tag := range s2.All() {
		if tag == "duchamp" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected persisted tag to survive reload, got %v", s2.All())
	}
}

// =============================================================================
// Add Tests
// =============================================================================

func TestAddValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tag     string
		wantErr error
	}{
		{"Simple tag", "collage", nil},
		{"With digits", "era1960s", nil},
		{"With underscore", "pop_art", nil},
		{"With hyphen", "black-white", nil},
		{"Trimmed whitespace", "  dada  ", nil},
		{"Empty", "", ErrInvalidTag},
		{"Only whitespace", "   ", ErrInvalidTag},
		{"With space inside", "pop art", ErrInvalidTag},
		{"With slash", "a/b", ErrInvalidTag},
		{"With dot", "v1.0", ErrInvalidTag},
		{"Duplicate", "comics", ErrAlreadyExists},
		{"Duplicate different case", "COMICS", ErrAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			err := s.Add(tt.tag)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Expected success for %q, got %v", tt.tag, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v for %q, got %v", tt.wantErr, tt.tag, err)
			}
		})
	}
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	for _, tag := range []string{"zzz", "aaa", "mmm"} {
		if err := s.Add(tag); err != nil {
			t.Fatalf("Add(%q) failed: %v", tag, err)
		}
	}

	all := s.All()
	tail := all[len(all)-3:]
	want := []string{"zzz", "aaa", "mmm"}
	for i := range want {
		if tail[i] != want[i] {
			t.Errorf("Expected insertion order %v, got %v", want, tail)
		}
	}
}

func TestAddFailureDoesNotMutate(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	before := s.Count()

	if err := s.Add("not valid!"); err == nil {
		t.Fatal("Expected validation error")
	}
	if s.Count() != before {
		t.Errorf("Expected count unchanged after rejected add, got %d", s.Count())
	}
}

func TestAllReturnsCopy(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	all := s.All()
	all[0] = "mutated"

	if s.All()[0] == "mutated" {
		t.Error("Expected All to return a copy, internal state was mutated")
	}
}

// =============================================================================
// Catalog File Shape Tests
// =============================================================================

func TestCatalogFileShape(t *testing.T) {
	t.Parallel()

	s, path := newTestStore(t)
	if err := s.Add("newtag"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read catalog: %v", err)
	}

	var data struct {
		Tags         []string `json:"tags"`
		Created      string   `json:"created"`
		LastModified string   `json:"last_modified"`
		Version      string   `json:"version"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("Catalog is not valid JSON: %v", err)
	}

	if data.Version == "" {
		t.Error("Expected version field in catalog")
	}
	if data.Created == "" || data.LastModified == "" {
		t.Error("Expected timestamp fields in catalog")
	}
	if len(data.Tags) != len(DefaultTags)+1 {
		t.Errorf("Expected %d tags in file, got %d", len(DefaultTags)+1, len(data.Tags))
	}
}
