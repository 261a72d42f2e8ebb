package io

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

// IdentityListYAMLRepository loads identity lists (domains, country codes...) from YAML files.
type IdentityListYAMLRepository struct {
	fs fs.FS
}

// NewIdentityListYAMLRepository creates a new YAML identity list repository.
func NewIdentityListYAMLRepository(filesystem fs.FS) *IdentityListYAMLRepository {
	return &IdentityListYAMLRepository{fs: filesystem}
}

// GetIdentities loads the identity list from a YAML file. Blank identities are
// trimmed and duplicates removed, keeping the file order.
func (r *IdentityListYAMLRepository) GetIdentities(ctx context.Context, path string) ([]string, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading identity list file: %w", err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var list IdentityList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	ids, err := list.normalize()
	if err != nil {
		return nil, fmt.Errorf("invalid identity list: %w", err)
	}

	return ids, nil
}

// IdentityList represents the YAML structure of an identity list.
type IdentityList struct {
	Identities []string `yaml:"identities"`
}

func (l IdentityList) normalize() ([]string, error) {
	seen := map[string]struct{}{}
	ids := []string{}
	for _, id := range l.Identities {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one identity is required")
	}

	return ids, nil
}
