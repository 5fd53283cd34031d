// Package snapshot discovers system snapshots and reads the package
// manifest recorded inside them.
//
// Each supported backend (Timeshift, Snapper, plain BTRFS subvolumes, LVM)
// is a Provider. The bisection core never sees a backend directly; it
// consumes manifests resolved through ReadManifest, which probes the
// snapshot's filesystem tree for whichever package database it carries.
package snapshot

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkgbisect/pkgbisect/internal/delta"
)

var (
	// ErrNoBackend indicates no supported snapshot backend was found on
	// the host.
	ErrNoBackend = errors.New("no supported snapshot backend found (need timeshift, snapper, btrfs /.snapshots or lvm)")

	// ErrUnknownBackend indicates a configured backend name outside the
	// supported set.
	ErrUnknownBackend = errors.New("unknown snapshot backend")

	// ErrSnapshotNotFound indicates the requested snapshot id does not
	// exist in the backend's listing.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrManifestUnavailable indicates the snapshot exists but its
	// package database cannot be read, for example an unmounted LVM
	// snapshot volume.
	ErrManifestUnavailable = errors.New("snapshot manifest unavailable")
)

// Snapshot describes one system snapshot as reported by its backend.
type Snapshot struct {
	// ID is the backend-native identifier (timeshift name, snapper
	// number, subvolume directory name).
	ID string `json:"id"`

	// Created is the creation timestamp as the backend reports it.
	Created string `json:"created,omitempty"`

	// Description is the backend's free-form label, if any.
	Description string `json:"description,omitempty"`
}

// Provider exposes one snapshot backend.
type Provider interface {
	// Name returns the backend name ("timeshift", "snapper", "btrfs",
	// "lvm").
	Name() string

	// List returns the backend's snapshots, oldest first.
	List(ctx context.Context) ([]Snapshot, error)

	// Root resolves a snapshot id to the filesystem path of the
	// snapshot's root tree. Backends whose snapshots are not reachable
	// as files return ErrManifestUnavailable.
	Root(ctx context.Context, id string) (string, error)
}

// Detect probes the host for a snapshot backend, preferring timeshift, then
// snapper, then a bare /.snapshots tree, then lvm.
func Detect() (Provider, error) {
	if _, err := exec.LookPath("timeshift"); err == nil {
		return NewTimeshift(), nil
	}
	if _, err := exec.LookPath("snapper"); err == nil {
		return NewSnapper(), nil
	}
	if info, err := os.Stat(btrfsSnapshotDir); err == nil && info.IsDir() {
		return NewBtrfs(btrfsSnapshotDir), nil
	}
	if _, err := exec.LookPath("lvs"); err == nil {
		return NewLvm(), nil
	}
	return nil, ErrNoBackend
}

// ForName returns the backend with the given name, for configuration
// overrides.
func ForName(name string) (Provider, error) {
	switch name {
	case "timeshift":
		return NewTimeshift(), nil
	case "snapper":
		return NewSnapper(), nil
	case "btrfs":
		return NewBtrfs(btrfsSnapshotDir), nil
	case "lvm":
		return NewLvm(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// Source is the snapshot capability the engine consumes: listing plus
// manifest resolution, with the filesystem probing hidden behind it.
type Source interface {
	Name() string
	List(ctx context.Context) ([]Snapshot, error)
	Manifest(ctx context.Context, id string) (delta.Manifest, error)
}

// NewSource wraps a Provider into a Source backed by ReadManifest.
func NewSource(p Provider) Source {
	return &providerSource{p: p}
}

type providerSource struct {
	p Provider
}

func (s *providerSource) Name() string { return s.p.Name() }

func (s *providerSource) List(ctx context.Context) ([]Snapshot, error) {
	return s.p.List(ctx)
}

func (s *providerSource) Manifest(ctx context.Context, id string) (delta.Manifest, error) {
	return ReadManifest(ctx, s.p, id)
}

// ReadManifest resolves a snapshot to its package manifest. The snapshot's
// root tree is probed for the pacman local database, the dpkg status file
// and the rpm database, in that order.
func ReadManifest(ctx context.Context, p Provider, id string) (delta.Manifest, error) {
	root, err := p.Root(ctx, id)
	if err != nil {
		return nil, err
	}
	return readManifestFromRoot(ctx, root)
}

func readManifestFromRoot(ctx context.Context, root string) (delta.Manifest, error) {
	pacmanDB := filepath.Join(root, "var/lib/pacman/local")
	if info, err := os.Stat(pacmanDB); err == nil && info.IsDir() {
		entries, err := os.ReadDir(pacmanDB)
		if err != nil {
			return nil, fmt.Errorf("failed to read pacman database: %w", err)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() {
				names = append(names, e.Name())
			}
		}
		return parsePacmanLocalDirs(names)
	}

	dpkgStatus := filepath.Join(root, "var/lib/dpkg/status")
	if data, err := os.ReadFile(dpkgStatus); err == nil {
		return parseDpkgStatus(data)
	}

	rpmDB := filepath.Join(root, "var/lib/rpm")
	if info, err := os.Stat(rpmDB); err == nil && info.IsDir() {
		cmd := exec.CommandContext(ctx, "rpm", "--root", root, "-qa", "--queryformat", "%{NAME} %{EVR}\\n")
		out, err := cmd.Output()
		if err != nil {
			return nil, fmt.Errorf("rpm query against snapshot failed: %w", err)
		}
		return parseRpmQuery(out)
	}

	return nil, fmt.Errorf("%w: no package database under %s", ErrManifestUnavailable, root)
}

// parsePacmanLocalDirs turns pacman local database directory names into a
// manifest. Each directory is "name-version-release"; names may themselves
// contain hyphens, so the version starts at the second-to-last hyphen.
func parsePacmanLocalDirs(names []string) (delta.Manifest, error) {
	manifest := delta.Manifest{}
	for _, name := range names {
		i := strings.LastIndex(name, "-")
		if i <= 0 {
			return nil, fmt.Errorf("unparsable pacman database entry %q", name)
		}
		j := strings.LastIndex(name[:i], "-")
		if j <= 0 {
			return nil, fmt.Errorf("unparsable pacman database entry %q", name)
		}
		manifest[name[:j]] = name[j+1:]
	}
	return manifest, nil
}

// parseDpkgStatus extracts installed packages from a dpkg status file.
func parseDpkgStatus(data []byte) (delta.Manifest, error) {
	manifest := delta.Manifest{}

	var name, version string
	installed := false
	flush := func() {
		if installed && name != "" && version != "" {
			manifest[name] = version
		}
		name, version, installed = "", "", false
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "Package: "):
			name = strings.TrimPrefix(line, "Package: ")
		case strings.HasPrefix(line, "Version: "):
			version = strings.TrimPrefix(line, "Version: ")
		case strings.HasPrefix(line, "Status: "):
			installed = strings.HasSuffix(line, " installed")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan dpkg status: %w", err)
	}
	flush()

	return manifest, nil
}

// parseRpmQuery parses "name version" pairs from an rpm queryformat run.
func parseRpmQuery(out []byte) (delta.Manifest, error) {
	manifest := delta.Manifest{}
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("unparsable rpm query line %q", line)
		}
		manifest[fields[0]] = fields[1]
	}
	return manifest, nil
}
