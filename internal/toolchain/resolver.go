// Package toolchain locates the external native toolchain installation.
//
// Resolution is deliberately lazy: a pipeline run with nothing stale never
// touches the environment, so a missing toolchain only fails builds that
// actually need to compile or link.
package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// EnvVar is the well-known environment pointer to the toolchain root.
const EnvVar = "KHA_TOOLCHAIN"

// Handle is a resolved toolchain installation. It is immutable after
// resolution and safe for concurrent use by multiple workers.
type Handle struct {
	root string
}

// Root returns the installation root directory.
func (h *Handle) Root() string { return h.root }

// Compiler returns the path of the native compiler binary.
func (h *Handle) Compiler() string { return filepath.Join(h.root, "bin", "khacc") }

// Linker returns the path of the native linker binary.
func (h *Handle) Linker() string { return filepath.Join(h.root, "bin", "khald") }

// BindGen returns the path of the interface-description compiler binary.
func (h *Handle) BindGen() string { return filepath.Join(h.root, "bin", "khabind") }

// Resolver resolves the toolchain at most once per pipeline run. Both the
// handle and a resolution failure are memoized, so every caller observes
// the same outcome without re-reading the environment.
type Resolver struct {
	mu     sync.Mutex
	done   bool
	handle *Handle
	err    error
}

// NewResolver returns an unresolved Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns the toolchain handle, resolving it on first call. An
// unset environment pointer is a fatal configuration error: no compilation
// or linking can proceed without the toolchain.
func (r *Resolver) Resolve() (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.done {
		r.done = true
		root := os.Getenv(EnvVar)
		if root == "" {
			r.err = fmt.Errorf("toolchain not found: set %s to the toolchain installation root", EnvVar)
		} else {
			r.handle = &Handle{root: root}
		}
	}
	return r.handle, r.err
}

// Reset clears the memoized state so the next Resolve re-reads the
// environment. Only tests use this.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done = false
	r.handle = nil
	r.err = nil
}
