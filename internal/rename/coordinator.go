package rename

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"image-renamer/internal/logging"
	"image-renamer/internal/metrics"
)

// FailureReason classifies why a rename did not happen.
type FailureReason string

const (
	// ReasonPathNotFound means a source path does not exist.
	ReasonPathNotFound FailureReason = "path_not_found"
	// ReasonPermissionDenied means the filesystem refused the operation.
	ReasonPermissionDenied FailureReason = "permission_denied"
	// ReasonNumberingExhausted means every sequence number up to the
	// numbering width's capacity was already taken for that base name.
	ReasonNumberingExhausted FailureReason = "numbering_exhausted"
	// ReasonDestinationNotWritable means the target directory rejected a
	// write probe; this is always batch-fatal.
	ReasonDestinationNotWritable FailureReason = "destination_not_writable"
	// ReasonIOError covers rename failures outside the categories above.
	ReasonIOError FailureReason = "io_error"
)

// BatchError is a batch-fatal validation failure: the request was rejected
// up front and zero files were renamed.
type BatchError struct {
	Reason FailureReason
	Path   string
	Err    error
}

func (e *BatchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("rename batch rejected (%s): %s: %v", e.Reason, e.Path, e.Err)
	}
	return fmt.Sprintf("rename batch rejected (%s): %v", e.Reason, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// Request describes one batch rename: a non-empty set of source paths and
// the naming components applied to all of them. DestDir defaults to the
// directory of the first source.
type Request struct {
	Sources []string `json:"sources"`
	DestDir string   `json:"destDir,omitempty"`
	Prefix  string   `json:"prefix,omitempty"`
	Suffix  string   `json:"suffix,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Assignment is one planned rename: a source path and the collision-free
// target chosen for it. Failure is set instead of Target when no free
// sequence number exists.
type Assignment struct {
	Source  string        `json:"source"`
	Target  string        `json:"target,omitempty"`
	NewName string        `json:"newName,omitempty"`
	Seq     int           `json:"seq"`
	Failure FailureReason `json:"failure,omitempty"`
}

// FileResult is the per-source outcome of an applied batch.
type FileResult struct {
	NewPath string        `json:"newPath,omitempty"`
	Failure FailureReason `json:"failure,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// Outcome maps every source path of an applied batch to its result.
// Immutable once returned.
type Outcome struct {
	Results map[string]FileResult `json:"results"`
}

// Renamed returns the number of successful renames, derived from the
// per-file map.
func (o Outcome) Renamed() int {
	n := 0
	for _, r := range o.Results {
		if r.Failure == "" {
			n++
		}
	}
	return n
}

// Failed returns the number of per-file failures, derived from the
// per-file map.
func (o Outcome) Failed() int {
	return len(o.Results) - o.Renamed()
}

// Coordinator validates and applies rename batches. Batches serialize on an
// internal mutex so collision detection always sees a quiescent destination.
type Coordinator struct {
	mu sync.Mutex
}

// NewCoordinator returns a Coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Plan computes a collision-free target name for every source without
// touching the filesystem beyond existence checks. The returned assignments
// are in request order and deterministic for a given request and disk state.
func (c *Coordinator) Plan(req Request) ([]Assignment, error) {
	destDir, sources, err := c.normalize(req)
	if err != nil {
		return nil, err
	}
	return c.assign(req, destDir, sources), nil
}

// Apply validates the batch, then performs the renames. Validation failures
// (destination not writable, missing sources) abort the whole batch with a
// *BatchError and zero mutations. After validation passes, each file is
// attempted independently: one file's failure is recorded in the outcome and
// never rolls back or blocks the rest of the batch.
func (c *Coordinator) Apply(req Request) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()

	destDir, sources, err := c.normalize(req)
	if err != nil {
		metrics.RenameBatchesTotal.WithLabelValues("aborted").Inc()
		return Outcome{}, err
	}

	if err := checkDestination(destDir); err != nil {
		metrics.RenameBatchesTotal.WithLabelValues("aborted").Inc()
		return Outcome{}, err
	}
	for _, src := range sources {
		if _, err := os.Stat(src); err != nil {
			metrics.RenameBatchesTotal.WithLabelValues("aborted").Inc()
			return Outcome{}, &BatchError{Reason: ReasonPathNotFound, Path: src, Err: err}
		}
	}

	assignments := c.assign(req, destDir, sources)

	outcome := Outcome{Results: make(map[string]FileResult, len(assignments))}
	for _, a := range assignments {
		outcome.Results[a.Source] = c.applyOne(a)
	}

	renamed, failed := outcome.Renamed(), outcome.Failed()
	metrics.RenameBatchesTotal.WithLabelValues("applied").Inc()
	metrics.RenameFilesTotal.WithLabelValues("renamed").Add(float64(renamed))
	metrics.RenameFilesTotal.WithLabelValues("failed").Add(float64(failed))
	metrics.RenameBatchDuration.Observe(time.Since(start).Seconds())

	logging.Info("Rename batch complete: %d renamed, %d failed (dest: %s)", renamed, failed, destDir)
	return outcome, nil
}

func (c *Coordinator) applyOne(a Assignment) FileResult {
	if a.Failure != "" {
		return FileResult{Failure: a.Failure}
	}
	if a.Target == a.Source {
		// Already carries the target name; renaming onto itself is a no-op.
		return FileResult{NewPath: a.Target}
	}
	if err := os.Rename(a.Source, a.Target); err != nil {
		logging.Warn("Rename failed: %s -> %s: %v", a.Source, a.Target, err)
		return FileResult{Failure: classifyRenameError(err), Error: err.Error()}
	}
	logging.Debug("Renamed: %s -> %s", filepath.Base(a.Source), filepath.Base(a.Target))
	return FileResult{NewPath: a.Target}
}

// normalize validates request shape and resolves absolute paths.
func (c *Coordinator) normalize(req Request) (string, []string, error) {
	if len(req.Sources) == 0 {
		return "", nil, fmt.Errorf("rename request has no source paths")
	}
	if err := validateComponents(req); err != nil {
		return "", nil, err
	}

	sources := make([]string, len(req.Sources))
	for i, src := range req.Sources {
		abs, err := filepath.Abs(src)
		if err != nil {
			return "", nil, fmt.Errorf("failed to resolve source path %s: %w", src, err)
		}
		sources[i] = abs
	}

	destDir := req.DestDir
	if destDir == "" {
		destDir = filepath.Dir(sources[0])
	}
	destDir, err := filepath.Abs(destDir)
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve destination directory: %w", err)
	}

	return destDir, sources, nil
}

// assign resolves collisions. A candidate is taken when an earlier source in
// this batch claimed it, or when a file with that name exists on disk,
// unless that file is the source currently being named (renaming a file onto
// its own name is allowed and harmless). Other batch sources occupying a
// candidate name count as taken; treating them as free would let an earlier
// rename clobber a file that has not moved yet.
func (c *Coordinator) assign(req Request, destDir string, sources []string) []Assignment {
	taken := make(map[string]bool, len(sources))

	assignments := make([]Assignment, 0, len(sources))
	for _, src := range sources {
		ext := filepath.Ext(src)

		a := Assignment{Source: src, Failure: ReasonNumberingExhausted}
		for seq := 0; seq < SeqCapacity; seq++ {
			name := ComputeName(req.Prefix, req.Tags, req.Suffix, seq, ext)
			candidate := filepath.Join(destDir, name)

			if taken[name] || (candidate != src && pathExists(candidate)) {
				metrics.RenameCollisionRetries.Inc()
				continue
			}

			taken[name] = true
			a = Assignment{Source: src, Target: candidate, NewName: name, Seq: seq}
			break
		}
		assignments = append(assignments, a)
	}

	return assignments
}

// validateComponents rejects naming components that cannot appear in a
// filename. This is a request-shape error, so it is batch-fatal.
func validateComponents(req Request) error {
	check := func(kind, value string) error {
		if strings.ContainsAny(value, "/\\\x00") {
			return fmt.Errorf("invalid %s %q: must not contain path separators", kind, value)
		}
		return nil
	}
	if err := check("prefix", req.Prefix); err != nil {
		return err
	}
	if err := check("suffix", req.Suffix); err != nil {
		return err
	}
	for _, tag := range req.Tags {
		if err := check("tag", tag); err != nil {
			return err
		}
	}
	return nil
}

// checkDestination verifies the target directory exists, is a directory,
// and accepts writes. A write probe catches read-only mounts that a mode
// check would miss.
func checkDestination(destDir string) error {
	info, err := os.Stat(destDir)
	if err != nil {
		return &BatchError{Reason: ReasonDestinationNotWritable, Path: destDir, Err: err}
	}
	if !info.IsDir() {
		return &BatchError{Reason: ReasonDestinationNotWritable, Path: destDir,
			Err: fmt.Errorf("not a directory")}
	}

	probe := filepath.Join(destDir, ".write-test")
	if err := os.WriteFile(probe, []byte("test"), 0o644); err != nil {
		return &BatchError{Reason: ReasonDestinationNotWritable, Path: destDir, Err: err}
	}
	if err := os.Remove(probe); err != nil {
		logging.Warn("failed to remove write probe %s: %v", probe, err)
	}
	return nil
}

func classifyRenameError(err error) FailureReason {
	switch {
	case os.IsNotExist(err):
		return ReasonPathNotFound
	case os.IsPermission(err):
		return ReasonPermissionDenied
	default:
		return ReasonIOError
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
