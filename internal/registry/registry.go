// Package registry holds the named version bundles the generate and validate
// commands resolve against. Bundles are registered during init and read-only
// afterwards.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rpattn/verge/internal/domain"
)

// Bundle ties a head definition set to the chain that derives its history.
type Bundle struct {
	Name    string
	Chain   *domain.VersionChain
	Schemas []domain.SchemaDefinition
	Routes  []domain.Endpoint
}

var (
	mu      sync.RWMutex
	bundles = make(map[string]Bundle)
)

// Register adds a bundle under its name. Registering the same name twice is
// a programming error.
func Register(bundle Bundle) error {
	if bundle.Name == "" {
		return fmt.Errorf("bundle name is required")
	}
	if bundle.Chain == nil {
		return fmt.Errorf("bundle %s declares no chain", bundle.Name)
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := bundles[bundle.Name]; exists {
		return fmt.Errorf("bundle %s is already registered", bundle.Name)
	}
	bundles[bundle.Name] = bundle
	return nil
}

// MustRegister is Register for static declarations; it panics on error.
func MustRegister(bundle Bundle) {
	if err := Register(bundle); err != nil {
		panic(err)
	}
}

// Lookup resolves a bundle reference.
func Lookup(name string) (Bundle, bool) {
	mu.RLock()
	defer mu.RUnlock()
	bundle, ok := bundles[name]
	return bundle, ok
}

// Names lists the registered bundle names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(bundles))
	for name := range bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
