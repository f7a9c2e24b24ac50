package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the project manifest looked up by the CLI.
const ManifestFileName = "egg.yml"

// LockfileName sits next to the manifest and pins git suites.
const LockfileName = "egg.lock"

var errManifestNotFound = errors.New("manifest: egg.yml not found")

// ErrManifestNotFound reports that no egg.yml exists in the directory chain.
var ErrManifestNotFound = errManifestNotFound

// Manifest represents the parsed contents of egg.yml.
type Manifest struct {
	Path    string
	Name    string
	Entry   string
	Journal string
	Suites  []*SuiteSpec
}

// SuiteSpec names a directory of YAML fixture files, either local or fetched
// from git.
type SuiteSpec struct {
	Name   string
	Path   string
	Git    string
	Rev    string
	Tag    string
	Branch string
	Dir    string
}

// IsGit reports whether the suite is fetched from a git repository.
func (s *SuiteSpec) IsGit() bool {
	return s != nil && s.Git != ""
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses egg.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks from start towards the filesystem root and returns the
// first egg.yml it meets.
func FindManifest(start string) (string, error) {
	if start == "" {
		start = "."
	}
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", start, err)
	}
	dir := filepath.Clean(abs)
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("manifest: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", errManifestNotFound
}

// Root returns the directory that holds the manifest.
func (m *Manifest) Root() string {
	if m == nil || m.Path == "" {
		return ""
	}
	return filepath.Dir(m.Path)
}

// ResolveEntry returns the absolute path of the entry program.
func (m *Manifest) ResolveEntry() (string, error) {
	if m == nil || m.Entry == "" {
		return "", fmt.Errorf("manifest: no entry program configured")
	}
	return m.resolve(m.Entry), nil
}

// ResolveJournal returns the absolute journal path, or "" when unset.
func (m *Manifest) ResolveJournal() string {
	if m == nil || m.Journal == "" {
		return ""
	}
	return m.resolve(m.Journal)
}

// FindSuite looks up a suite by name.
func (m *Manifest) FindSuite(name string) (*SuiteSpec, bool) {
	if m == nil {
		return nil, false
	}
	key := sanitizeSegment(name)
	for _, suite := range m.Suites {
		if suite != nil && suite.Name == key {
			return suite, true
		}
	}
	return nil, false
}

// SuiteDir returns the directory holding the fixtures of a local suite. Git
// suites live under cacheRoot/<name>/<commit> and are resolved by the caller
// from the lockfile.
func (m *Manifest) SuiteDir(name string) (string, error) {
	suite, ok := m.FindSuite(name)
	if !ok {
		return "", fmt.Errorf("manifest: unknown suite %q", name)
	}
	if suite.IsGit() {
		return "", fmt.Errorf("manifest: suite %q is fetched from git; run egg deps install", suite.Name)
	}
	dir := m.resolve(suite.Path)
	if suite.Dir != "" {
		dir = filepath.Join(dir, filepath.FromSlash(suite.Dir))
	}
	return dir, nil
}

func (m *Manifest) resolve(rel string) string {
	rel = filepath.FromSlash(rel)
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(m.Root(), rel)
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	seen := make(map[string]struct{}, len(m.Suites))
	for idx, suite := range m.Suites {
		if suite == nil {
			continue
		}
		label := suite.Name
		if label == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("suites[%d] must have a name", idx))
			label = fmt.Sprintf("suites[%d]", idx)
		} else if _, dup := seen[suite.Name]; dup {
			errs.Issues = append(errs.Issues, fmt.Sprintf("suite %q is declared twice", suite.Name))
		}
		seen[suite.Name] = struct{}{}
		for _, issue := range suite.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("%s: %s", label, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (s *SuiteSpec) validate() []string {
	var errs []string
	switch {
	case s.Path == "" && s.Git == "":
		errs = append(errs, "must specify path or git")
	case s.Path != "" && s.Git != "":
		errs = append(errs, "path suites cannot also specify git")
	}
	if s.Git == "" && (s.Rev != "" || s.Tag != "" || s.Branch != "") {
		errs = append(errs, "rev, tag, and branch apply only to git suites")
	}
	pins := 0
	for _, pin := range []string{s.Rev, s.Tag, s.Branch} {
		if pin != "" {
			pins++
		}
	}
	if pins > 1 {
		errs = append(errs, "specify at most one of rev, tag, or branch")
	}
	return errs
}

type manifestFile struct {
	Name    string      `yaml:"name"`
	Entry   string      `yaml:"entry"`
	Journal string      `yaml:"journal"`
	Suites  []suiteYAML `yaml:"suites"`
}

type suiteYAML struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path"`
	Git    string `yaml:"git"`
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
	Dir    string `yaml:"dir"`
}

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:    path,
		Name:    sanitizeSegment(mf.Name),
		Entry:   strings.TrimSpace(mf.Entry),
		Journal: strings.TrimSpace(mf.Journal),
		Suites:  make([]*SuiteSpec, 0, len(mf.Suites)),
	}
	for _, suite := range mf.Suites {
		result.Suites = append(result.Suites, &SuiteSpec{
			Name:   sanitizeSegment(suite.Name),
			Path:   strings.TrimSpace(suite.Path),
			Git:    strings.TrimSpace(suite.Git),
			Rev:    strings.TrimSpace(suite.Rev),
			Tag:    strings.TrimSpace(suite.Tag),
			Branch: strings.TrimSpace(suite.Branch),
			Dir:    strings.TrimSpace(suite.Dir),
		})
	}
	sort.SliceStable(result.Suites, func(i, j int) bool {
		return result.Suites[i].Name < result.Suites[j].Name
	})
	return result
}

func sanitizeSegment(seg string) string {
	seg = strings.TrimSpace(seg)
	seg = strings.ReplaceAll(seg, "-", "_")
	return seg
}
