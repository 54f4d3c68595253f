package configsrc

import (
	"fmt"

	"github.com/zinc-sig/imagedrop/internal/uploadconfig"
)

// Layers describes every place a configuration fragment may come from
type Layers struct {
	EnvPrefix string
	Environ   []string
	File      string
	JSON      string
	KV        []string
}

// Partials returns one fragment per configured layer, lowest priority first:
// environment, file, JSON string, key=value pairs.
func (l Layers) Partials() ([]uploadconfig.Partial, error) {
	var sources []Source

	prefix := l.EnvPrefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	envSrc, err := ParseEnv(prefix, l.Environ)
	if err != nil {
		return nil, err
	}
	if envSrc != nil {
		sources = append(sources, envSrc)
	}

	if l.File != "" {
		fileSrc, err := ParseFile(l.File)
		if err != nil {
			return nil, err
		}
		sources = append(sources, fileSrc)
	}

	if l.JSON != "" {
		jsonSrc, err := ParseJSON([]byte(l.JSON))
		if err != nil {
			return nil, fmt.Errorf("failed to parse upload config JSON: %w", err)
		}
		sources = append(sources, jsonSrc)
	}

	if len(l.KV) > 0 {
		kvSrc := make(Source, len(l.KV))
		for _, kv := range l.KV {
			key, value, err := ParseKV(kv)
			if err != nil {
				return nil, fmt.Errorf("failed to parse upload config KV: %w", err)
			}
			kvSrc[key] = value
		}
		sources = append(sources, kvSrc)
	}

	partials := make([]uploadconfig.Partial, 0, len(sources))
	for _, src := range sources {
		p, err := src.ToPartial()
		if err != nil {
			return nil, err
		}
		partials = append(partials, p)
	}
	return partials, nil
}

// Apply layers every fragment onto store through Update, so later layers
// override only the fields they set.
func (l Layers) Apply(store *uploadconfig.Store) error {
	partials, err := l.Partials()
	if err != nil {
		return err
	}
	for _, p := range partials {
		if p.Empty() {
			continue
		}
		store.Update(p)
	}
	return nil
}
