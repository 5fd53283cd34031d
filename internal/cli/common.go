package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/pkgbisect/pkgbisect/internal/bisect"
	"github.com/pkgbisect/pkgbisect/internal/clock"
	"github.com/pkgbisect/pkgbisect/internal/config"
	"github.com/pkgbisect/pkgbisect/internal/delta"
	"github.com/pkgbisect/pkgbisect/internal/engine"
	"github.com/pkgbisect/pkgbisect/internal/fsops"
	"github.com/pkgbisect/pkgbisect/internal/hash"
	"github.com/pkgbisect/pkgbisect/internal/pkgmgr"
	"github.com/pkgbisect/pkgbisect/internal/snapshot"
	"github.com/pkgbisect/pkgbisect/internal/store"
)

// newEngine creates an engine with real implementations of all dependencies.
// Snapshot backend and package manager come from config overrides when set,
// otherwise from host detection; detection failures leave them unset so that
// commands not needing them still work.
func newEngine() (*engine.Engine, *config.Config, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	cfg, err := config.Load(paths.Config)
	if err != nil {
		return nil, nil, err
	}

	fs := fsops.NewRealFS()
	hasher := hash.NewSHA256Hasher()
	clk := &clock.RealClock{}
	sessions := store.NewFileSessionStore(fs, paths.Sessions, hasher)

	var src snapshot.Source
	if cfg.Backend != "" {
		provider, err := snapshot.ForName(cfg.Backend)
		if err != nil {
			return nil, nil, err
		}
		src = snapshot.NewSource(provider)
	} else if provider, err := snapshot.Detect(); err == nil {
		src = snapshot.NewSource(provider)
	}

	var mgr pkgmgr.Manager
	if cfg.Manager != "" {
		mgr, err = pkgmgr.ForName(cfg.Manager)
		if err != nil {
			return nil, nil, err
		}
	} else if m, err := pkgmgr.Detect(); err == nil {
		mgr = m
	}

	eng := engine.New(src, mgr, sessions, engine.NewRealShell(), clk, uuid.NewString)
	return eng, cfg, nil
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatDelta renders one delta entry for listings.
func formatDelta(d delta.PackageDelta) string {
	return d.String()
}

// printCandidate prints the suspect subset covered by the next test. The
// applied state is the delta prefix up to the candidate's upper boundary;
// earlier, already exonerated entries stay applied.
func printCandidate(session *bisect.Session, candidate []delta.PackageDelta) {
	PrintSection(fmt.Sprintf("Step %d of at most %d",
		session.StepsTaken()+1, session.StepsTaken()+session.RemainingSteps()))
	PrintLabelValue("Suspect range", PrintCount(session.RangeSize(), "package change", "package changes"))
	PrintLabelValue("Applied", PrintCount(session.Mid()+1, "change of the delta", "changes of the delta"))
	fmt.Println()
	PrintInfo("  This step puts these suspects under test:")

	items := make([]string, 0, len(candidate))
	for _, d := range candidate {
		items = append(items, formatDelta(d))
	}
	PrintList(items, 2)

	fmt.Println()
	PrintInfo("  Test the system, then report the outcome: pkgbisect good | pkgbisect bad")
}

// printCulprit prints the identified culprit and remedies.
func printCulprit(culprit *delta.PackageDelta, remedies []string) {
	PrintSection("Culprit identified")
	PrintSuccess(formatDelta(*culprit))
	if len(remedies) > 0 {
		fmt.Println()
		PrintInfo("  Suggested remedies, most recommended first:")
		PrintNumberedList(remedies, 2)
	}
}
