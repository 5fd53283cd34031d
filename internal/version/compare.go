// Package version compares Linux distribution package version strings.
//
// Distribution versions are not semver: they mix numeric and alphabetic
// segments separated by '.', '-', '_' or '+', and may carry an epoch prefix
// ("2:1.4.0-1"). Compare implements the segment-wise ordering shared by the
// common package ecosystems: epochs dominate, numeric segments compare
// numerically, alphabetic segments compare lexically, and a numeric segment
// sorts after an alphabetic one.
package version

import (
	"strings"
)

// Compare returns -1, 0 or 1 depending on whether a sorts before, equal to,
// or after b.
func Compare(a, b string) int {
	aEpoch, aRest := splitEpoch(a)
	bEpoch, bRest := splitEpoch(b)

	if aEpoch != bEpoch {
		if aEpoch < bEpoch {
			return -1
		}
		return 1
	}

	aSegs := segments(aRest)
	bSegs := segments(bRest)

	n := len(aSegs)
	if len(bSegs) < n {
		n = len(bSegs)
	}

	for i := 0; i < n; i++ {
		if c := compareSegment(aSegs[i], bSegs[i]); c != 0 {
			return c
		}
	}

	// All shared segments equal: the longer version is the newer one
	// (1.2.3 < 1.2.3.1).
	switch {
	case len(aSegs) < len(bSegs):
		return -1
	case len(aSegs) > len(bSegs):
		return 1
	}
	return 0
}

// Less reports whether a sorts strictly before b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// splitEpoch separates the numeric epoch prefix ("2:...") from the rest of
// the version. Versions without an epoch have epoch 0.
func splitEpoch(v string) (int, string) {
	idx := strings.IndexByte(v, ':')
	if idx < 0 {
		return 0, v
	}

	epoch := 0
	for _, r := range v[:idx] {
		if r < '0' || r > '9' {
			// Malformed epoch, treat the whole string as the version body.
			return 0, v
		}
		epoch = epoch*10 + int(r-'0')
	}
	return epoch, v[idx+1:]
}

// segments tokenizes a version body into maximal runs of digits or letters.
// Separator characters only delimit segments and never compare themselves.
func segments(v string) []string {
	var segs []string
	i := 0
	for i < len(v) {
		c := v[i]
		switch {
		case isDigit(c):
			j := i
			for j < len(v) && isDigit(v[j]) {
				j++
			}
			segs = append(segs, v[i:j])
			i = j
		case isAlpha(c):
			j := i
			for j < len(v) && isAlpha(v[j]) {
				j++
			}
			segs = append(segs, v[i:j])
			i = j
		default:
			i++
		}
	}
	return segs
}

// compareSegment compares two single segments. Numeric beats alphabetic,
// matching the rpm/pacman convention (1.0.1 > 1.0.rc2).
func compareSegment(a, b string) int {
	aNum := isDigit(a[0])
	bNum := isDigit(b[0])

	switch {
	case aNum && !bNum:
		return 1
	case !aNum && bNum:
		return -1
	case aNum && bNum:
		// Strip leading zeros so "007" == "7", then longer means larger.
		a = strings.TrimLeft(a, "0")
		b = strings.TrimLeft(b, "0")
		if len(a) != len(b) {
			if len(a) < len(b) {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	default:
		return strings.Compare(a, b)
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
