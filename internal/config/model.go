// Package config defines the format-agnostic project model the pipeline
// consumes, and the Loader interface that produces it from disk.
package config

// Project holds project-wide settings from the khafile's project block.
type Project struct {
	Name      string
	BuildRoot string // directory all build outputs live under
}

// Target identifies one native library to bind, compile and link. All
// paths are resolved by the loader; the pipeline borrows the struct
// read-only for the duration of one run.
type Target struct {
	Name         string
	Root         string // target root directory
	IDL          string // interface-description file
	Bindings     string // generated binding artifact
	Sources      string // native source directory
	Artifact     string // produced artifact base name
	Optimization string // linker optimization level, e.g. "O2"
	Export       string // exported module symbol
	ExtraFlags   []string
}

// Model is the loaded build configuration: the project block, every
// library target, and the path of the configuration file itself. The
// file's own modification time feeds the staleness evaluation, so the
// loader records where it read from.
type Model struct {
	Project    Project
	Targets    []*Target
	ConfigPath string
}
