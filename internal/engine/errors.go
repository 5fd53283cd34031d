package engine

import "errors"

var (
	// ErrNoActiveSession indicates no session id was given and no current
	// session is set.
	ErrNoActiveSession = errors.New("no active bisection session (run 'pkgbisect start' first)")

	// ErrNoSnapshotBackend indicates no snapshot backend was detected or
	// configured.
	ErrNoSnapshotBackend = errors.New("no snapshot backend available")

	// ErrNoPackageManager indicates no package manager was detected or
	// configured.
	ErrNoPackageManager = errors.New("no package manager available")

	// ErrNoTestCommand indicates check was invoked without a command and
	// none is configured.
	ErrNoTestCommand = errors.New("no test command given (use --command or set test_command in config)")
)
