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

// Snapper implements Provider over the snapper CLI for its root config.
type Snapper struct {
	// snapshotsDir is where snapper materializes snapshots for the root
	// filesystem config.
	snapshotsDir string
}

// NewSnapper creates a Snapper provider for the root config.
func NewSnapper() *Snapper {
	return &Snapper{snapshotsDir: "/.snapshots"}
}

// Name returns "snapper".
func (p *Snapper) Name() string { return "snapper" }

// List parses `snapper list` into snapshots.
func (p *Snapper) List(ctx context.Context) ([]Snapshot, error) {
	cmd := exec.CommandContext(ctx, "snapper", "list")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("snapper list failed: %w", err)
	}
	return parseSnapperList(out)
}

// Root resolves a snapshot number to its subvolume tree.
func (p *Snapper) Root(ctx context.Context, id string) (string, error) {
	snaps, err := p.List(ctx)
	if err != nil {
		return "", err
	}
	for _, s := range snaps {
		if s.ID == id {
			return filepath.Join(p.snapshotsDir, id, "snapshot"), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrSnapshotNotFound, id)
}

// parseSnapperList extracts rows from snapper's pipe-separated table.
// Snapshot 0 is the live system, not a snapshot, and is skipped.
func parseSnapperList(out []byte) ([]Snapshot, error) {
	var snaps []Snapshot

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "|") || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if strings.HasPrefix(line, "---") || strings.Contains(line, "-+-") {
			continue
		}

		cols := strings.Split(line, "|")
		if len(cols) < 7 {
			continue
		}
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}
		if !isDigits(cols[0]) || cols[0] == "0" {
			continue
		}

		snaps = append(snaps, Snapshot{
			ID:          cols[0],
			Created:     cols[3],
			Description: cols[6],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan snapper output: %w", err)
	}

	return snaps, nil
}
