package domain

import (
	"fmt"
	"time"
)

// VersionKey identifies one API version. Historical versions use a calendar
// date in YYYY-MM-DD form; the head version uses the reserved "head" key,
// which orders after every date.
type VersionKey string

// HeadVersionKey is the reserved key of the canonical, always-current version.
const HeadVersionKey VersionKey = "head"

const versionKeyLayout = "2006-01-02"

// ParseVersionKey validates a raw version identifier and returns it as a key.
func ParseVersionKey(raw string) (VersionKey, error) {
	if raw == string(HeadVersionKey) {
		return HeadVersionKey, nil
	}
	if _, err := time.Parse(versionKeyLayout, raw); err != nil {
		return "", fmt.Errorf("invalid version key %q: %w", raw, err)
	}
	return VersionKey(raw), nil
}

// IsHead reports whether the key names the head version.
func (k VersionKey) IsHead() bool {
	return k == HeadVersionKey
}

// Time returns the calendar date behind a historical key. Head has no date.
func (k VersionKey) Time() (time.Time, error) {
	if k.IsHead() {
		return time.Time{}, fmt.Errorf("head version has no date")
	}
	t, err := time.Parse(versionKeyLayout, string(k))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid version key %q: %w", k, err)
	}
	return t, nil
}

func (k VersionKey) String() string {
	return string(k)
}

// CompareVersionKeys orders two keys. Head compares newer than any date;
// malformed keys compare as their raw strings, which keeps the ordering
// total so the validator can still report them.
func CompareVersionKeys(a, b VersionKey) int {
	switch {
	case a == b:
		return 0
	case a.IsHead():
		return 1
	case b.IsHead():
		return -1
	}
	at, aErr := a.Time()
	bt, bErr := b.Time()
	if aErr != nil || bErr != nil {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
	switch {
	case at.Before(bt):
		return -1
	case at.After(bt):
		return 1
	default:
		return 0
	}
}

// Version is one point in the ordered chain. Its Changes describe everything
// that differs between this version and the next-older one; the head version
// carries no changes because it is the canonical shape itself.
type Version struct {
	Key     VersionKey
	Changes []*VersionChange
}

// NewVersion builds a historical version from a date key and the changes
// introduced by it.
func NewVersion(key string, changes ...*VersionChange) (Version, error) {
	parsed, err := ParseVersionKey(key)
	if err != nil {
		return Version{}, err
	}
	if parsed.IsHead() && len(changes) > 0 {
		return Version{}, fmt.Errorf("head version cannot carry changes")
	}
	return Version{Key: parsed, Changes: changes}, nil
}

// MustVersion is NewVersion for static declarations; it panics on a bad key.
func MustVersion(key string, changes ...*VersionChange) Version {
	v, err := NewVersion(key, changes...)
	if err != nil {
		panic(err)
	}
	return v
}

// HeadVersion returns the distinguished head entry.
func HeadVersion() Version {
	return Version{Key: HeadVersionKey}
}
