package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/amal/pkg/model"
)

// Load creates a Store backed by diskv using the provided config. Documents
// live at <base>/<kind>/<id> as JSON.
func Load(cfg Config) (Store, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return newDocStore(&disk{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}), nil
}

type disk struct {
	d        *diskv.Diskv
	basePath string
}

func (p *disk) read(kind model.Kind, id string) ([]byte, error) {
	val, err := p.d.Read(toKey(kind, id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return val, err
}

func (p *disk) write(kind model.Kind, id string, data []byte) error {
	if strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("store: invalid id %q", id)
	}
	return p.d.Write(toKey(kind, id), data)
}

func (p *disk) erase(kind model.Kind, id string) error {
	err := p.d.Erase(toKey(kind, id))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

func (p *disk) ids(ctx context.Context, kind model.Kind) []string {
	prefix := string(kind) + "/"
	ids := make([]string, 0)
	for key := range p.d.KeysPrefix(prefix, ctx.Done()) {
		pk := keyToPathTransform(key)
		if len(pk.Path) != 1 || pk.Path[0] != string(kind) {
			continue
		}
		ids = append(ids, pk.FileName)
	}
	return ids
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.Join(append(append([]string{}, pathKey.Path...), pathKey.FileName), "/")
}

// toKey makes `kind/id`.
func toKey(kind model.Kind, id string) string {
	return fmt.Sprintf("%s/%s", kind, id)
}
