package ports

import "context"

// SecretStore reads a group of key/value secrets at path under mountPoint.
type SecretStore interface {
	Read(ctx context.Context, path, mountPoint string) (map[string]string, error)
}
