package profiles

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/simonyos/reactchat/internal/logging"
)

// Loader discovers profile files in a list of directories.
type Loader struct {
	paths  []string
	logger *zap.Logger
}

// NewLoader creates a loader over paths. Later paths take precedence.
func NewLoader(paths []string, logger *zap.Logger) *Loader {
	return &Loader{paths: paths, logger: logging.OrNop(logger).Named("profiles")}
}

// DefaultPaths returns the global directory under configDir followed by the
// project directory ./.reactchat/profiles.
func DefaultPaths(configDir string) []string {
	paths := []string{filepath.Join(configDir, "profiles")}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".reactchat", "profiles"))
	}
	return paths
}

// Load reads every *.md file in the search paths into a Registry. Files that
// fail to parse are logged and skipped; missing directories are ignored.
func (l *Loader) Load() (*Registry, error) {
	var found []*Profile

	for _, dir := range l.paths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error reading directory %s: %w", dir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			p, err := LoadFile(path)
			if err != nil {
				l.logger.Warn("skipping profile", zap.String("file", path), zap.Error(err))
				continue
			}
			found = append(found, p)
		}
	}

	return NewRegistry(found...), nil
}

// LoadFile parses a single profile file.
func LoadFile(path string) (*Profile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	p, err := Parse(string(content))
	if err != nil {
		return nil, err
	}
	p.FilePath = path
	return p, nil
}

// Parse reads markdown content with YAML frontmatter.
func Parse(content string) (*Profile, error) {
	frontmatter, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	var p Profile
	if err := yaml.Unmarshal([]byte(frontmatter), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
	}
	p.Rules = body

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// splitFrontmatter separates the block between the leading "---" lines from
// the body.
func splitFrontmatter(content string) (frontmatter, body string, err error) {
	content = strings.ReplaceAll(strings.TrimSpace(content), "\r\n", "\n")
	if !strings.HasPrefix(content, "---") {
		return "", "", ErrNoFrontmatter
	}

	rest := strings.TrimLeft(content[3:], "\n")
	end := strings.Index(rest, "\n---")
	if end == -1 {
		return "", "", ErrNoFrontmatter
	}

	return strings.TrimSpace(rest[:end]), strings.TrimSpace(rest[end+4:]), nil
}

func sortByName(ps []*Profile) {
	slices.SortFunc(ps, func(a, b *Profile) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}
