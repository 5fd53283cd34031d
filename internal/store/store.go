package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkgbisect/pkgbisect/internal/bisect"
	"github.com/pkgbisect/pkgbisect/internal/fsops"
	"github.com/pkgbisect/pkgbisect/internal/hash"
)

var (
	// ErrNotFound indicates no persisted session exists for the id.
	ErrNotFound = errors.New("session not found")

	// ErrCorruptState indicates a persisted record failed structural
	// validation. The session cannot be resumed; the user must restart
	// the bisection.
	ErrCorruptState = errors.New("corrupt session state")

	// ErrStaleRevision indicates a save over a record that another
	// process has modified since it was loaded.
	ErrStaleRevision = errors.New("stale session revision")
)

// SessionStore persists bisect sessions.
type SessionStore interface {
	// Save persists the session, bumping its revision. Returns
	// ErrStaleRevision if the on-disk record is newer than the session.
	Save(session *bisect.Session) error

	// Load reads and validates the session with the given id.
	Load(id string) (*bisect.Session, error)

	// Delete removes the session record. Deleting a missing session is
	// not an error.
	Delete(id string) error

	// List returns the ids of all persisted sessions, sorted.
	List() ([]string, error)

	// SetCurrent marks the session the verdict commands default to.
	SetCurrent(id string) error

	// Current returns the current session id, or ErrNotFound if unset.
	Current() (string, error)
}

// FileSessionStore implements SessionStore using one JSON file per session.
type FileSessionStore struct {
	fs     fsops.FS
	dir    string
	hasher hash.Hasher
}

// NewFileSessionStore creates a new FileSessionStore rooted at dir.
func NewFileSessionStore(fs fsops.FS, dir string, hasher hash.Hasher) *FileSessionStore {
	return &FileSessionStore{fs: fs, dir: dir, hasher: hasher}
}

// sessionPath returns the record path for a session id.
func (s *FileSessionStore) sessionPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// currentPath returns the path of the current-session pointer file.
func (s *FileSessionStore) currentPath() string {
	return filepath.Join(s.dir, "current")
}

// Save persists the session atomically. The session's revision must match
// the record on disk (or the record must not exist yet); the stored revision
// is then incremented, and the incremented value is written back to the
// session so the caller can keep saving.
func (s *FileSessionStore) Save(session *bisect.Session) error {
	if err := s.fs.ValidateIdentifier(session.ID); err != nil {
		return fmt.Errorf("invalid session id: %w", err)
	}

	path := s.sessionPath(session.ID)
	onDisk, err := s.readRevision(path)
	if err != nil {
		return err
	}
	if onDisk != session.Revision {
		return fmt.Errorf("%w: session %s is at revision %d on disk, have %d",
			ErrStaleRevision, session.ID, onDisk, session.Revision)
	}

	session.Revision++
	rec, err := newSessionRecord(session, s.hasher)
	if err != nil {
		session.Revision--
		return fmt.Errorf("failed to build session record: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		session.Revision--
		return fmt.Errorf("failed to marshal session record: %w", err)
	}

	if err := s.fs.AtomicWrite(path, data, 0644); err != nil {
		session.Revision--
		return fmt.Errorf("failed to write session record: %w", err)
	}

	return nil
}

// readRevision returns the revision of the record at path, or 0 if no record
// exists yet.
func (s *FileSessionStore) readRevision(path string) (int, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read session record: %w", err)
	}

	var header struct {
		Revision *int `json:"revision"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if header.Revision == nil {
		return 0, fmt.Errorf("%w: record has no revision", ErrCorruptState)
	}
	return *header.Revision, nil
}

// Load reads, validates and reconstructs the session with the given id.
func (s *FileSessionStore) Load(id string) (*bisect.Session, error) {
	if err := s.fs.ValidateIdentifier(id); err != nil {
		return nil, fmt.Errorf("invalid session id: %w", err)
	}

	data, err := s.fs.ReadFile(s.sessionPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read session record: %w", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	if err := rec.validate(s.hasher); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	return rec.session(), nil
}

// Delete removes the session record and clears the current pointer if it
// referenced the session.
func (s *FileSessionStore) Delete(id string) error {
	if err := s.fs.ValidateIdentifier(id); err != nil {
		return fmt.Errorf("invalid session id: %w", err)
	}

	if err := s.fs.Remove(s.sessionPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session record: %w", err)
	}

	if current, err := s.Current(); err == nil && current == id {
		if err := s.fs.Remove(s.currentPath()); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to clear current session: %w", err)
		}
	}

	return nil
}

// List returns the ids of all persisted sessions, sorted.
func (s *FileSessionStore) List() ([]string, error) {
	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}

	sort.Strings(ids)
	return ids, nil
}

// SetCurrent marks the session the verdict commands default to.
func (s *FileSessionStore) SetCurrent(id string) error {
	if err := s.fs.ValidateIdentifier(id); err != nil {
		return fmt.Errorf("invalid session id: %w", err)
	}
	if err := s.fs.AtomicWrite(s.currentPath(), []byte(id+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write current session: %w", err)
	}
	return nil
}

// Current returns the current session id.
func (s *FileSessionStore) Current() (string, error) {
	data, err := s.fs.ReadFile(s.currentPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: no current session", ErrNotFound)
		}
		return "", fmt.Errorf("failed to read current session: %w", err)
	}

	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", fmt.Errorf("%w: no current session", ErrNotFound)
	}
	return id, nil
}
