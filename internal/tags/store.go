package tags

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"image-renamer/internal/logging"
)

// ErrAlreadyExists is returned when adding a tag that is already in the
// library (comparison is case-insensitive).
var ErrAlreadyExists = errors.New("tag already exists")

// ErrInvalidTag is returned when a tag fails validation.
var ErrInvalidTag = errors.New("invalid tag")

// catalogVersion is written into the catalog file for future migrations.
const catalogVersion = "1.0.0"

// validTag restricts tags to word characters and hyphens so they can be
// embedded into filenames without escaping.
var validTag = regexp.MustCompile(`^[\w-]+$`)

// DefaultTags seed a fresh catalog so the naming UI has options on first run.
var DefaultTags = []string{
	"comics", "nancy", "sluggo", "popart", "warhol", "fineart",
	"advertising", "logos", "food", "horror", "western",
}

// catalog is the on-disk JSON shape.
type catalog struct {
	Tags         []string `json:"tags"`
	Created      string   `json:"created"`
	LastModified string   `json:"last_modified"`
	Version      string   `json:"version"`
}

// Store is the persistent tag library: an insertion-ordered, duplicate-free
// list of short strings kept in a JSON file. The library is append-only;
// tags are only ever used to compute filenames, never attached to files.
type Store struct {
	path string

	mu   sync.Mutex
	data catalog
}

// NewStore loads the catalog at path, creating it with the default tag list
// when missing or unreadable.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create tag catalog directory: %w", err)
	}

	s := &Store{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// All returns a copy of the current tag list in insertion order.
func (s *Store) All() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.data.Tags))
	copy(out, s.data.Tags)
	return out
}

// Count returns the number of tags in the library.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.Tags)
}

// Add appends a new tag after validation. Returns ErrInvalidTag for empty
// or malformed tags and ErrAlreadyExists for case-insensitive duplicates.
func (s *Store) Add(tag string) error {
	candidate := strings.TrimSpace(tag)
	if candidate == "" {
		return fmt.Errorf("%w: tag cannot be empty", ErrInvalidTag)
	}
	if !validTag.MatchString(candidate) {
		return fmt.Errorf("%w: %q may only contain letters, numbers, underscores, or hyphens",
			ErrInvalidTag, candidate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lower := strings.ToLower(candidate)
	for _, existing := range s.data.Tags {
		if strings.ToLower(existing) == lower {
			return fmt.Errorf("%q: %w", candidate, ErrAlreadyExists)
		}
	}

	s.data.Tags = append(s.data.Tags, candidate)
	s.data.LastModified = utcNow()
	return s.persist()
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("Tag catalog unreadable, reinitializing: %v", err)
		}
		return s.reset()
	}

	var data catalog
	if err := json.Unmarshal(raw, &data); err != nil {
		logging.Warn("Tag catalog corrupt, reinitializing: %v", err)
		return s.reset()
	}

	if data.Tags == nil {
		data.Tags = append([]string(nil), DefaultTags...)
	}
	if data.Created == "" {
		data.Created = utcNow()
	}
	if data.LastModified == "" {
		data.LastModified = data.Created
	}
	data.Version = catalogVersion

	s.data = data
	return nil
}

func (s *Store) reset() error {
	now := utcNow()
	s.data = catalog{
		Tags:         append([]string(nil), DefaultTags...),
		Created:      now,
		LastModified: now,
		Version:      catalogVersion,
	}
	return s.persist()
}

// persist writes the catalog through a temp file and a rename so a crash
// mid-write never leaves a truncated catalog behind. Callers hold s.mu.
func (s *Store) persist() error {
	payload, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tag catalog: %w", err)
	}
	payload = append(payload, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write tag catalog: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to commit tag catalog: %w", err)
	}
	return nil
}

func utcNow() string {
	return time.Now().UTC().Format(time.RFC3339)
}
