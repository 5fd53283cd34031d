package snapshot

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Lvm implements Provider over lvm2 snapshot volumes. Listing works; the
// package manifest does not, because snapshot volumes are block devices
// that would need mounting first.
type Lvm struct{}

// NewLvm creates an Lvm provider.
func NewLvm() *Lvm {
	return &Lvm{}
}

// Name returns "lvm".
func (p *Lvm) Name() string { return "lvm" }

// List parses `lvs` output, keeping only snapshot volumes (lv_attr starts
// with 's' or 'S').
func (p *Lvm) List(ctx context.Context) ([]Snapshot, error) {
	cmd := exec.CommandContext(ctx, "lvs", "--noheadings", "--separator", "|",
		"-o", "lv_name,lv_attr,lv_time")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("lvs failed: %w", err)
	}
	return parseLvsList(out)
}

// Root reports that LVM snapshot contents are not reachable as files.
func (p *Lvm) Root(ctx context.Context, id string) (string, error) {
	return "", fmt.Errorf("%w: lvm snapshot %q is not mounted", ErrManifestUnavailable, id)
}

func parseLvsList(out []byte) ([]Snapshot, error) {
	var snaps []Snapshot

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cols := strings.Split(line, "|")
		if len(cols) < 2 {
			continue
		}
		attr := strings.TrimSpace(cols[1])
		if attr == "" || (attr[0] != 's' && attr[0] != 'S') {
			continue
		}
		snap := Snapshot{ID: strings.TrimSpace(cols[0])}
		if len(cols) > 2 {
			snap.Created = strings.TrimSpace(cols[2])
		}
		snaps = append(snaps, snap)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan lvs output: %w", err)
	}

	return snaps, nil
}
