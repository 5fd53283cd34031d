package snapshot

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pkgbisect/pkgbisect/internal/fsops"
)

// btrfsSnapshotDir is the conventional location of a root-filesystem
// snapshot subvolume tree.
const btrfsSnapshotDir = "/.snapshots"

// Btrfs implements Provider over a bare /.snapshots subvolume layout, for
// hosts that keep snapper-style snapshots without the snapper tooling.
type Btrfs struct {
	fs  fsops.FS
	dir string
}

// NewBtrfs creates a Btrfs provider over the given snapshots directory.
func NewBtrfs(dir string) *Btrfs {
	return &Btrfs{fs: fsops.NewRealFS(), dir: dir}
}

// NewBtrfsWithFS creates a Btrfs provider with an injected filesystem, for
// testing.
func NewBtrfsWithFS(fs fsops.FS, dir string) *Btrfs {
	return &Btrfs{fs: fs, dir: dir}
}

// Name returns "btrfs".
func (p *Btrfs) Name() string { return "btrfs" }

// List returns the numbered snapshot directories, oldest (lowest number)
// first. Directory mtime stands in for the creation time.
func (p *Btrfs) List(ctx context.Context) ([]Snapshot, error) {
	entries, err := p.fs.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p.dir, err)
	}

	var snaps []Snapshot
	for _, e := range entries {
		if !e.IsDir() || !isDigits(e.Name()) {
			continue
		}
		snap := Snapshot{ID: e.Name()}
		if info, err := e.Info(); err == nil {
			snap.Created = info.ModTime().Format("2006-01-02 15:04:05")
		}
		snaps = append(snaps, snap)
	}

	sort.Slice(snaps, func(i, j int) bool {
		a, _ := strconv.Atoi(snaps[i].ID)
		b, _ := strconv.Atoi(snaps[j].ID)
		return a < b
	})
	return snaps, nil
}

// Root resolves a snapshot number to its subvolume tree. Both the snapper
// layout (N/snapshot/) and a flat layout (N/) are accepted.
func (p *Btrfs) Root(ctx context.Context, id string) (string, error) {
	base := filepath.Join(p.dir, id)
	exists, err := p.fs.Exists(base)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("%w: %q", ErrSnapshotNotFound, id)
	}

	nested := filepath.Join(base, "snapshot")
	if exists, err := p.fs.Exists(nested); err == nil && exists {
		return nested, nil
	}
	return base, nil
}
