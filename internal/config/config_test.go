package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPaths(t *testing.T) {
	t.Run("returns paths based on home directory", func(t *testing.T) {
		t.Setenv("PKGBISECT_ROOT", "")
		os.Unsetenv("PKGBISECT_ROOT")

		paths, err := DefaultPaths()
		if err != nil {
			t.Fatalf("DefaultPaths failed: %v", err)
		}

		if filepath.Base(paths.Root) != ".pkgbisect" {
			t.Errorf("Root should end with .pkgbisect, got: %s", paths.Root)
		}
		if paths.Sessions != filepath.Join(paths.Root, "sessions") {
			t.Errorf("Sessions path incorrect: got %s", paths.Sessions)
		}
		if paths.Config != filepath.Join(paths.Root, "config.yaml") {
			t.Errorf("Config path incorrect: got %s", paths.Config)
		}
	})

	t.Run("respects PKGBISECT_ROOT environment variable", func(t *testing.T) {
		customRoot := "/custom/pkgbisect/path"
		t.Setenv("PKGBISECT_ROOT", customRoot)

		paths, err := DefaultPaths()
		if err != nil {
			t.Fatalf("DefaultPaths failed: %v", err)
		}

		if paths.Root != customRoot {
			t.Errorf("Expected root %s, got %s", customRoot, paths.Root)
		}
		if paths.Sessions != filepath.Join(customRoot, "sessions") {
			t.Errorf("Sessions should be under custom root, got: %s", paths.Sessions)
		}
	})
}

func TestEnsureDirectories(t *testing.T) {
	root := filepath.Join(t.TempDir(), "pkgbisect")
	paths := &Paths{
		Root:     root,
		Sessions: filepath.Join(root, "sessions"),
		Config:   filepath.Join(root, "config.yaml"),
	}

	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	for _, dir := range []string{paths.Root, paths.Sessions} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("directory %s was not created: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("parses all fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "backend: snapper\nmanager: dpkg\ntest_command: systemctl is-active display-manager\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Backend != "snapper" {
			t.Errorf("Backend = %q", cfg.Backend)
		}
		if cfg.Manager != "dpkg" {
			t.Errorf("Manager = %q", cfg.Manager)
		}
		if cfg.TestCommand != "systemctl is-active display-manager" {
			t.Errorf("TestCommand = %q", cfg.TestCommand)
		}
	})

	t.Run("missing file yields zero config", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if *cfg != (Config{}) {
			t.Errorf("expected zero config, got %+v", cfg)
		}
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("backend: [unclosed"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("expected error for malformed yaml")
		}
	})
}
