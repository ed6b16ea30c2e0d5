package domain

// VersionChain is the totally ordered sequence of versions, oldest first,
// with head as the final entry. It is constructed once from static
// declarations, validated, and read-only for the life of the process.
type VersionChain struct {
	versions []Version
}

// NewVersionChain builds a chain from versions declared oldest to newest.
// Ordering and head placement are enforced by the chain validator, not here,
// so that a misdeclared chain still produces a precise validation report.
func NewVersionChain(versions ...Version) *VersionChain {
	cloned := make([]Version, len(versions))
	copy(cloned, versions)
	return &VersionChain{versions: cloned}
}

// Versions returns the chain entries oldest first, as a defensive copy.
func (c *VersionChain) Versions() []Version {
	cloned := make([]Version, len(c.versions))
	copy(cloned, c.versions)
	return cloned
}

// Len returns the number of versions in the chain.
func (c *VersionChain) Len() int {
	return len(c.versions)
}

// Head returns the newest entry and whether the chain is non-empty.
func (c *VersionChain) Head() (Version, bool) {
	if len(c.versions) == 0 {
		return Version{}, false
	}
	return c.versions[len(c.versions)-1], true
}

// Resolve looks up a version by key.
func (c *VersionChain) Resolve(key VersionKey) (Version, bool) {
	for _, version := range c.versions {
		if version.Key == key {
			return version, true
		}
	}
	return Version{}, false
}

// IndexOf returns the position of the key in oldest-first order, or -1.
func (c *VersionChain) IndexOf(key VersionKey) int {
	for i, version := range c.versions {
		if version.Key == key {
			return i
		}
	}
	return -1
}

// At returns the version at the oldest-first position.
func (c *VersionChain) At(index int) Version {
	return c.versions[index]
}

// Keys returns every version key oldest first.
func (c *VersionChain) Keys() []VersionKey {
	keys := make([]VersionKey, 0, len(c.versions))
	for _, version := range c.versions {
		keys = append(keys, version.Key)
	}
	return keys
}
