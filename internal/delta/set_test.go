package delta

import (
	"errors"
	"reflect"
	"testing"
)

func TestComputeDelta_Classification(t *testing.T) {
	good := Manifest{"a": "1", "b": "1", "c": "1"}
	bad := Manifest{"a": "1", "b": "2", "d": "1"}

	set, err := ComputeDelta("good-1", "bad-1", good, bad)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []PackageDelta{
		{Name: "b", Kind: KindUpgraded, FromVersion: "1", ToVersion: "2"},
		{Name: "c", Kind: KindRemoved, FromVersion: "1"},
		{Name: "d", Kind: KindAdded, ToVersion: "1"},
	}
	if !reflect.DeepEqual(set.Entries, want) {
		t.Errorf("Entries = %+v, want %+v", set.Entries, want)
	}

	if set.GoodSnapshotID != "good-1" || set.BadSnapshotID != "bad-1" {
		t.Errorf("snapshot ids = %q/%q, want good-1/bad-1", set.GoodSnapshotID, set.BadSnapshotID)
	}
}

func TestComputeDelta_Downgrade(t *testing.T) {
	set, err := ComputeDelta("g", "b",
		Manifest{"mesa": "24.1.0-2"},
		Manifest{"mesa": "24.0.9-1"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(set.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(set.Entries))
	}
	if set.Entries[0].Kind != KindDowngraded {
		t.Errorf("Kind = %q, want %q", set.Entries[0].Kind, KindDowngraded)
	}
}

func TestComputeDelta_IdenticalManifests(t *testing.T) {
	m := Manifest{"a": "1", "b": "2"}

	set, err := ComputeDelta("g", "b", m, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("expected empty delta set, got %d entries", set.Len())
	}
}

func TestComputeDelta_Deterministic(t *testing.T) {
	// Maps iterate in random order; the result must not depend on it.
	good := Manifest{}
	bad := Manifest{}
	for _, name := range []string{"zlib", "bash", "mesa", "linux", "glibc", "vim", "curl"} {
		good[name] = "1.0"
		bad[name] = "1.1"
	}

	first, err := ComputeDelta("g", "b", good, bad)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 20; i++ {
		again, err := ComputeDelta("g", "b", good, bad)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first.Entries, again.Entries) {
			t.Fatalf("run %d produced different entries:\n%+v\nvs\n%+v", i, first.Entries, again.Entries)
		}
	}

	for i := 1; i < len(first.Entries); i++ {
		if first.Entries[i-1].Name >= first.Entries[i].Name {
			t.Fatalf("entries not sorted by name: %q before %q",
				first.Entries[i-1].Name, first.Entries[i].Name)
		}
	}
}

func TestComputeDelta_MalformedManifest(t *testing.T) {
	tests := []struct {
		name string
		good Manifest
		bad  Manifest
	}{
		{name: "empty package name", good: Manifest{"": "1.0"}, bad: Manifest{}},
		{name: "empty version", good: Manifest{}, bad: Manifest{"vim": ""}},
		{name: "whitespace version", good: Manifest{"vim": "9.1 broken"}, bad: Manifest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeDelta("g", "b", tt.good, tt.bad)
			if !errors.Is(err, ErrMalformedManifest) {
				t.Errorf("expected ErrMalformedManifest, got: %v", err)
			}
		})
	}
}

func TestDeltaSet_ByKind(t *testing.T) {
	set, err := ComputeDelta("g", "b",
		Manifest{"a": "1", "b": "1", "c": "1"},
		Manifest{"b": "2", "c": "1", "d": "3"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := set.ByKind(KindRemoved); len(got) != 1 || got[0].Name != "a" {
		t.Errorf("ByKind(removed) = %+v, want [a]", got)
	}
	if got := set.ByKind(KindAdded); len(got) != 1 || got[0].Name != "d" {
		t.Errorf("ByKind(added) = %+v, want [d]", got)
	}
	if got := set.ByKind(KindDowngraded); len(got) != 0 {
		t.Errorf("ByKind(downgraded) = %+v, want empty", got)
	}
}

func TestPackageDelta_Validate(t *testing.T) {
	tests := []struct {
		name    string
		delta   PackageDelta
		wantErr bool
	}{
		{
			name:  "valid added",
			delta: PackageDelta{Name: "a", Kind: KindAdded, ToVersion: "1"},
		},
		{
			name:  "valid removed",
			delta: PackageDelta{Name: "a", Kind: KindRemoved, FromVersion: "1"},
		},
		{
			name:  "valid upgraded",
			delta: PackageDelta{Name: "a", Kind: KindUpgraded, FromVersion: "1", ToVersion: "2"},
		},
		{
			name:    "empty name",
			delta:   PackageDelta{Kind: KindAdded, ToVersion: "1"},
			wantErr: true,
		},
		{
			name:    "added with from version",
			delta:   PackageDelta{Name: "a", Kind: KindAdded, FromVersion: "1", ToVersion: "2"},
			wantErr: true,
		},
		{
			name:    "removed with to version",
			delta:   PackageDelta{Name: "a", Kind: KindRemoved, FromVersion: "1", ToVersion: "2"},
			wantErr: true,
		},
		{
			name:    "upgraded with identical versions",
			delta:   PackageDelta{Name: "a", Kind: KindUpgraded, FromVersion: "1", ToVersion: "1"},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			delta:   PackageDelta{Name: "a", Kind: "replaced", FromVersion: "1", ToVersion: "2"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.delta.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
