package snapshot

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// timeshiftRoot is where timeshift keeps rsync-mode snapshots on the backup
// device's default layout.
const timeshiftRoot = "/timeshift/snapshots"

// Timeshift implements Provider over the timeshift CLI.
type Timeshift struct {
	// root is the snapshots directory on the backup device.
	root string
}

// NewTimeshift creates a Timeshift provider with the default snapshot root.
func NewTimeshift() *Timeshift {
	return &Timeshift{root: timeshiftRoot}
}

// Name returns "timeshift".
func (p *Timeshift) Name() string { return "timeshift" }

// List parses `timeshift --list` into snapshots.
func (p *Timeshift) List(ctx context.Context) ([]Snapshot, error) {
	cmd := exec.CommandContext(ctx, "timeshift", "--list")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("timeshift --list failed: %w", err)
	}
	return parseTimeshiftList(out)
}

// Root resolves a snapshot name to its on-disk system tree.
func (p *Timeshift) Root(ctx context.Context, id string) (string, error) {
	snaps, err := p.List(ctx)
	if err != nil {
		return "", err
	}
	for _, s := range snaps {
		if s.ID == id {
			// rsync-mode snapshots mirror the system under
			// localhost/.
			return filepath.Join(p.root, id, "localhost"), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrSnapshotNotFound, id)
}

// parseTimeshiftList extracts snapshot rows from `timeshift --list` output.
// Rows look like "0    >  2024-05-01_12-00-01  O     Before upgrade" after a
// device/status preamble and a dashed separator.
func parseTimeshiftList(out []byte) ([]Snapshot, error) {
	var snaps []Snapshot

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[1] != ">" {
			continue
		}
		if !isDigits(fields[0]) {
			continue
		}
		snap := Snapshot{ID: fields[2], Created: timeshiftNameToTimestamp(fields[2])}
		if len(fields) > 4 {
			snap.Description = strings.Join(fields[4:], " ")
		}
		snaps = append(snaps, snap)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan timeshift output: %w", err)
	}

	return snaps, nil
}

// timeshiftNameToTimestamp rewrites the "2024-05-01_12-00-01" snapshot name
// into a readable timestamp.
func timeshiftNameToTimestamp(name string) string {
	date, clock, ok := strings.Cut(name, "_")
	if !ok {
		return name
	}
	return date + " " + strings.ReplaceAll(clock, "-", ":")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
