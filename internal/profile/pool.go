package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Pool is an on-disk collection of profiles: one seeker plus the candidates
// it should be matched against.
type Pool struct {
	Seeker     *Profile   `yaml:"seeker"`
	Candidates []*Profile `yaml:"candidates"`
}

// LoadPool reads a pool file in YAML format.
func LoadPool(path string) (*Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pool file %q: %w", path, err)
	}

	var pool Pool
	if err := yaml.Unmarshal(data, &pool); err != nil {
		return nil, fmt.Errorf("parse pool file %q: %w", path, err)
	}

	if pool.Seeker == nil {
		return nil, fmt.Errorf("pool file %q has no seeker", path)
	}

	return &pool, nil
}

// LoadProfile reads a single profile from a YAML file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile file %q: %w", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile file %q: %w", path, err)
	}

	if p.ID == "" {
		return nil, fmt.Errorf("profile file %q has no id", path)
	}

	return &p, nil
}
