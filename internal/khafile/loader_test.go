package khafile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validKhafile = `
project {
  name      = "empty"
  buildroot = "out"
}

library "audio" {
  root        = "libs/audio"
  idl         = "audio.idl"
  bindings    = "glue/audio_glue.c"
  sources     = "native"
  artifact    = "audio"
  extra_flags = ["-fPIC"]
}

library "video" {
  root         = "libs/video"
  idl          = "video.idl"
  bindings     = "glue/video_glue.c"
  sources      = "native"
  artifact     = "video"
  optimization = "O0"
  export       = "video_main"
}
`

func writeKhafile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidKhafile(t *testing.T) {
	path := writeKhafile(t, validKhafile)
	dir := filepath.Dir(path)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "empty", model.Project.Name)
	assert.Equal(t, filepath.Join(dir, "out"), model.Project.BuildRoot)
	assert.Equal(t, path, model.ConfigPath)
	require.Len(t, model.Targets, 2)

	audio := model.Targets[0]
	assert.Equal(t, "audio", audio.Name)
	assert.Equal(t, filepath.Join(dir, "libs", "audio"), audio.Root)
	assert.Equal(t, filepath.Join(audio.Root, "audio.idl"), audio.IDL)
	assert.Equal(t, filepath.Join(audio.Root, "glue", "audio_glue.c"), audio.Bindings)
	assert.Equal(t, filepath.Join(audio.Root, "native"), audio.Sources)
	assert.Equal(t, "O2", audio.Optimization, "optimization defaults to O2")
	assert.Equal(t, "audio", audio.Export, "export defaults to the artifact name")
	assert.Equal(t, []string{"-fPIC"}, audio.ExtraFlags)

	video := model.Targets[1]
	assert.Equal(t, "O0", video.Optimization)
	assert.Equal(t, "video_main", video.Export)
}

func TestLoadDirectoryResolvesDefaultName(t *testing.T) {
	path := writeKhafile(t, validKhafile)

	model, err := NewLoader().Load(context.Background(), filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, path, model.ConfigPath)
}

func TestLoadEnvInterpolation(t *testing.T) {
	t.Setenv("KHAMAKE_TEST_LIBS", "from-env")
	path := writeKhafile(t, `
project { name = "p" }

library "a" {
  root     = env.KHAMAKE_TEST_LIBS
  idl      = "a.idl"
  bindings = "a_glue.c"
  sources  = "native"
  artifact = "a"
}
`)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "from-env"), model.Targets[0].Root)
}

func TestLoadRejectsDuplicateLibraries(t *testing.T) {
	path := writeKhafile(t, `
project { name = "p" }

library "a" {
  root     = "x"
  idl      = "a.idl"
  bindings = "a_glue.c"
  sources  = "native"
  artifact = "a"
}

library "a" {
  root     = "y"
  idl      = "a.idl"
  bindings = "a_glue.c"
  sources  = "native"
  artifact = "a"
}
`)

	_, err := NewLoader().Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate library "a"`)
}

func TestLoadRejectsMissingRequiredField(t *testing.T) {
	path := writeKhafile(t, `
project { name = "p" }

library "a" {
  root     = ""
  idl      = "a.idl"
  bindings = "a_glue.c"
  sources  = "native"
  artifact = "a"
}
`)

	_, err := NewLoader().Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root is required")
}

func TestLoadRejectsEmptyProject(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), writeKhafile(t, `project { name = "p" }`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one library")
}
