// Package khafile loads the HCL build-configuration file ("khafile") into
// the config model. Expressions in the file may reference the process
// environment through the env variable, e.g. root = env.KHA_LIBS.
package khafile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/katharostech/khamake/internal/config"
	"github.com/katharostech/khamake/internal/ctxlog"
)

// DefaultName is the file the loader looks for when given a directory.
const DefaultName = "khafile.hcl"

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new khafile loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes the top-level blocks of a khafile.
type fileRoot struct {
	Project   *projectBlock   `hcl:"project,block"`
	Libraries []*libraryBlock `hcl:"library,block"`
}

type projectBlock struct {
	Name      string `hcl:"name"`
	BuildRoot string `hcl:"buildroot,optional"`
}

type libraryBlock struct {
	Name         string   `hcl:"name,label"`
	Root         string   `hcl:"root"`
	IDL          string   `hcl:"idl"`
	Bindings     string   `hcl:"bindings"`
	Sources      string   `hcl:"sources"`
	Artifact     string   `hcl:"artifact"`
	Optimization string   `hcl:"optimization,optional"`
	Export       string   `hcl:"export,optional"`
	ExtraFlags   []string `hcl:"extra_flags,optional"`
}

// Load parses and validates the khafile at path. A directory path is
// resolved to its khafile.hcl. Relative paths inside the file resolve
// against the file's directory.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultName)
	}
	logger.Debug("Loading khafile.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse khafile %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode khafile %s: %w", path, diags)
	}

	model, err := translate(path, &root)
	if err != nil {
		return nil, err
	}
	logger.Debug("Khafile loaded.", "project", model.Project.Name, "targets", len(model.Targets))
	return model, nil
}

// evalContext exposes the process environment to khafile expressions as a
// single env object.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, entry := range os.Environ() {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		vars[key] = cty.StringVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(vars)},
	}
}

// translate validates the decoded blocks and resolves every path.
func translate(path string, root *fileRoot) (*config.Model, error) {
	if root.Project == nil {
		return nil, fmt.Errorf("khafile %s: missing project block", path)
	}
	if len(root.Libraries) == 0 {
		return nil, fmt.Errorf("khafile %s: at least one library block is required", path)
	}

	baseDir := filepath.Dir(path)
	buildRoot := root.Project.BuildRoot
	if buildRoot == "" {
		buildRoot = "build"
	}

	model := &config.Model{
		Project: config.Project{
			Name:      root.Project.Name,
			BuildRoot: resolve(baseDir, buildRoot),
		},
		ConfigPath: path,
	}

	seen := make(map[string]bool)
	for _, lib := range root.Libraries {
		if seen[lib.Name] {
			return nil, fmt.Errorf("khafile %s: duplicate library %q", path, lib.Name)
		}
		seen[lib.Name] = true

		for field, value := range map[string]string{
			"root": lib.Root, "idl": lib.IDL, "bindings": lib.Bindings,
			"sources": lib.Sources, "artifact": lib.Artifact,
		} {
			if value == "" {
				return nil, fmt.Errorf("khafile %s: library %q: %s is required", path, lib.Name, field)
			}
		}

		libRoot := resolve(baseDir, lib.Root)
		target := &config.Target{
			Name:         lib.Name,
			Root:         libRoot,
			IDL:          resolve(libRoot, lib.IDL),
			Bindings:     resolve(libRoot, lib.Bindings),
			Sources:      resolve(libRoot, lib.Sources),
			Artifact:     lib.Artifact,
			Optimization: lib.Optimization,
			Export:       lib.Export,
			ExtraFlags:   lib.ExtraFlags,
		}
		if target.Optimization == "" {
			target.Optimization = "O2"
		}
		if target.Export == "" {
			target.Export = lib.Artifact
		}
		model.Targets = append(model.Targets, target)
	}
	return model, nil
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
