package driver

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FixtureExtension marks YAML files holding Egg fixtures.
const FixtureExtension = ".yml"

// Fixture is a single Egg program with its expected outcome.
type Fixture struct {
	Name   string      `yaml:"name"`
	Source string      `yaml:"source"`
	Expect Expectation `yaml:"expect"`

	// File is the fixture file the entry came from.
	File string `yaml:"-"`
}

// Expectation describes what running a fixture must produce. Value is the
// formatted result; Error is an error kind and Message a substring of the
// error message.
type Expectation struct {
	Value   *string  `yaml:"value"`
	Output  []string `yaml:"output"`
	Error   string   `yaml:"error"`
	Message string   `yaml:"message"`
}

// ExpectsError reports whether the fixture must fail.
func (e Expectation) ExpectsError() bool {
	return e.Error != "" || e.Message != ""
}

type fixtureFile struct {
	Fixtures []Fixture `yaml:"fixtures"`
}

// LoadFixtureFile parses a YAML fixture file.
func LoadFixtureFile(path string) ([]Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	var raw fixtureFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("fixtures: parse %s: %w", path, err)
	}

	fixtures := make([]Fixture, 0, len(raw.Fixtures))
	for idx, fixture := range raw.Fixtures {
		fixture.Name = strings.TrimSpace(fixture.Name)
		if fixture.Name == "" {
			fixture.Name = fmt.Sprintf("%s#%d", filepath.Base(path), idx+1)
		}
		if strings.TrimSpace(fixture.Source) == "" {
			return nil, fmt.Errorf("fixtures: %s: %q has no source", path, fixture.Name)
		}
		if fixture.Expect.Value != nil && fixture.Expect.ExpectsError() {
			return nil, fmt.Errorf("fixtures: %s: %q expects both a value and an error", path, fixture.Name)
		}
		fixture.File = path
		fixtures = append(fixtures, fixture)
	}
	return fixtures, nil
}

// CollectFixtureFiles returns every fixture file below root in lexical order.
// A root that is itself a file is returned as is.
func CollectFixtureFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("fixtures: stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == FixtureExtension {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fixtures: walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}
