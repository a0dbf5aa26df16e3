package config

import "context"

// Loader turns an on-disk build-configuration file into a Model. The app
// depends on this interface so tests can substitute in-memory loaders.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}
