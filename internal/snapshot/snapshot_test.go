package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pkgbisect/pkgbisect/internal/delta"
)

func TestParseTimeshiftList(t *testing.T) {
	out := []byte(`Device : /dev/sda2
UUID : 1234-5678
Path : /run/timeshift/backup
Mode : RSYNC
Status : OK
3 snapshots, 98.4 GB free

Num     Name                 Tags  Description
------------------------------------------------------------------------------
0    >  2024-05-01_12-00-01  O     Before upgrade
1    >  2024-05-08_12-00-01  W
2    >  2024-05-15_12-00-01  D     Weekly checkpoint run
`)

	snaps, err := parseTimeshiftList(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Snapshot{
		{ID: "2024-05-01_12-00-01", Created: "2024-05-01 12:00:01", Description: "Before upgrade"},
		{ID: "2024-05-08_12-00-01", Created: "2024-05-08 12:00:01"},
		{ID: "2024-05-15_12-00-01", Created: "2024-05-15 12:00:01", Description: "Weekly checkpoint run"},
	}
	if !reflect.DeepEqual(snaps, want) {
		t.Errorf("snapshots = %v, want %v", snaps, want)
	}
}

func TestParseSnapperList(t *testing.T) {
	out := []byte(` # | Type   | Pre # | Date                     | User | Cleanup  | Description    | Userdata
---+--------+-------+--------------------------+------+----------+----------------+---------
0  | single |       |                          | root |          | current        |
1  | single |       | Wed May  1 12:00:00 2024 | root | number   | before upgrade |
2  | single |       | Wed May  8 12:00:00 2024 | root | timeline | timeline       |
`)

	snaps, err := parseSnapperList(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Snapshot{
		{ID: "1", Created: "Wed May  1 12:00:00 2024", Description: "before upgrade"},
		{ID: "2", Created: "Wed May  8 12:00:00 2024", Description: "timeline"},
	}
	if !reflect.DeepEqual(snaps, want) {
		t.Errorf("snapshots = %v, want %v", snaps, want)
	}
}

func TestParseLvsList(t *testing.T) {
	out := []byte(`  root|-wi-ao----|2024-04-01 09:00:00 +0000
  snap_before_upgrade|swi-a-s---|2024-05-01 12:00:00 +0000
  snap_after_upgrade|swi-a-s---|2024-05-08 12:00:00 +0000
`)

	snaps, err := parseLvsList(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshot volumes, got %d: %v", len(snaps), snaps)
	}
	if snaps[0].ID != "snap_before_upgrade" || snaps[1].ID != "snap_after_upgrade" {
		t.Errorf("unexpected snapshot ids: %v", snaps)
	}
}

func TestParsePacmanLocalDirs(t *testing.T) {
	manifest, err := parsePacmanLocalDirs([]string{
		"bash-5.2.026-2",
		"glibc-2.39-4",
		"xorg-server-21.1.13-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := delta.Manifest{
		"bash":        "5.2.026-2",
		"glibc":       "2.39-4",
		"xorg-server": "21.1.13-1",
	}
	if !reflect.DeepEqual(manifest, want) {
		t.Errorf("manifest = %v, want %v", manifest, want)
	}

	if _, err := parsePacmanLocalDirs([]string{"nohyphens"}); err == nil {
		t.Error("expected error for entry without version fields")
	}
}

func TestParseDpkgStatus(t *testing.T) {
	data := []byte(`Package: bash
Status: install ok installed
Priority: required
Version: 5.2.21-2

Package: removed-pkg
Status: deinstall ok config-files
Version: 1.0-1

Package: vim
Status: install ok installed
Version: 2:9.1.0016-1
`)

	manifest, err := parseDpkgStatus(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := delta.Manifest{
		"bash": "5.2.21-2",
		"vim":  "2:9.1.0016-1",
	}
	if !reflect.DeepEqual(manifest, want) {
		t.Errorf("manifest = %v, want %v", manifest, want)
	}
}

func TestBtrfsListAndRoot(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2", "10", "1"} {
		if err := os.MkdirAll(filepath.Join(dir, name, "snapshot"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	// Non-snapshot entries are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewBtrfs(dir)
	snaps, err := p.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	var ids []string
	for _, s := range snaps {
		ids = append(ids, s.ID)
	}
	if !reflect.DeepEqual(ids, []string{"1", "2", "10"}) {
		t.Errorf("ids = %v, want numeric order", ids)
	}

	root, err := p.Root(context.Background(), "2")
	if err != nil {
		t.Fatalf("Root failed: %v", err)
	}
	if root != filepath.Join(dir, "2", "snapshot") {
		t.Errorf("root = %q, want the nested snapshot dir", root)
	}

	if _, err := p.Root(context.Background(), "99"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("missing snapshot error = %v, want ErrSnapshotNotFound", err)
	}
}

func TestReadManifestFromRoot_Pacman(t *testing.T) {
	root := t.TempDir()
	local := filepath.Join(root, "var/lib/pacman/local")
	for _, name := range []string{"bash-5.2.026-2", "glibc-2.39-4"} {
		if err := os.MkdirAll(filepath.Join(local, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	manifest, err := readManifestFromRoot(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := delta.Manifest{"bash": "5.2.026-2", "glibc": "2.39-4"}
	if !reflect.DeepEqual(manifest, want) {
		t.Errorf("manifest = %v, want %v", manifest, want)
	}
}

func TestReadManifestFromRoot_Dpkg(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "var/lib/dpkg"), 0o755); err != nil {
		t.Fatal(err)
	}
	status := "Package: bash\nStatus: install ok installed\nVersion: 5.2.21-2\n"
	if err := os.WriteFile(filepath.Join(root, "var/lib/dpkg/status"), []byte(status), 0o644); err != nil {
		t.Fatal(err)
	}

	manifest, err := readManifestFromRoot(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if manifest["bash"] != "5.2.21-2" {
		t.Errorf("manifest = %v", manifest)
	}
}

func TestReadManifestFromRoot_NoDatabase(t *testing.T) {
	if _, err := readManifestFromRoot(context.Background(), t.TempDir()); !errors.Is(err, ErrManifestUnavailable) {
		t.Errorf("error = %v, want ErrManifestUnavailable", err)
	}
}

func TestFakeSource(t *testing.T) {
	src := NewFakeSource(
		[]Snapshot{{ID: "good"}, {ID: "bad"}, {ID: "unmounted"}},
		map[string]delta.Manifest{
			"good": {"a": "1"},
			"bad":  {"a": "2"},
		},
	)

	ctx := context.Background()
	snaps, err := src.List(ctx)
	if err != nil || len(snaps) != 3 {
		t.Fatalf("List = %v, %v", snaps, err)
	}

	m, err := src.Manifest(ctx, "good")
	if err != nil || m["a"] != "1" {
		t.Fatalf("Manifest(good) = %v, %v", m, err)
	}
	if _, err := src.Manifest(ctx, "unmounted"); !errors.Is(err, ErrManifestUnavailable) {
		t.Errorf("unmounted error = %v, want ErrManifestUnavailable", err)
	}
	if _, err := src.Manifest(ctx, "nope"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("unknown error = %v, want ErrSnapshotNotFound", err)
	}
}

func TestForName(t *testing.T) {
	for _, name := range []string{"timeshift", "snapper", "btrfs", "lvm"} {
		p, err := ForName(name)
		if err != nil {
			t.Errorf("ForName(%q) failed: %v", name, err)
			continue
		}
		if p.Name() != name {
			t.Errorf("ForName(%q).Name() = %q", name, p.Name())
		}
	}
	if _, err := ForName("zfs"); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}
