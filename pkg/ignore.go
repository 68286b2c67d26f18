package splendir

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const ignoreFileHeader = `# splendir ignore patterns
#
# Regular expressions matched against paths relative to the scan root,
# using forward slashes. A match excludes the entry (and, for a
# directory, everything below it).
#
# Lines starting with # are comments. Empty lines are ignored.
#
# Examples:
# ^node_modules$        # a top-level node_modules directory
# (^|/)target$          # any directory named target
# \.tmp$                # all .tmp files
`

// IgnoreManager holds user-supplied exclusion patterns
type IgnoreManager struct {
	ignorePath string
	patterns   []*regexp.Regexp
	loaded     bool
}

// NewIgnoreManager creates an ignore manager backed by <configDir>/ignore
func NewIgnoreManager(configDir string) *IgnoreManager {
	return &IgnoreManager{
		ignorePath: filepath.Join(configDir, "ignore"),
	}
}

// NewIgnoreManagerFromPatterns builds a manager with no backing file
func NewIgnoreManagerFromPatterns(patterns ...string) (*IgnoreManager, error) {
	im := &IgnoreManager{loaded: true}
	for _, p := range patterns {
		if err := im.AddPattern(p); err != nil {
			return nil, err
		}
	}
	return im, nil
}

// LoadIgnorePatterns loads ignore patterns from the ignore file, creating an
// empty commented file when none exists
func (im *IgnoreManager) LoadIgnorePatterns() error {
	if im.loaded {
		return nil
	}

	if im.ignorePath == "" {
		im.loaded = true
		return nil
	}

	if _, err := os.Stat(im.ignorePath); os.IsNotExist(err) {
		if err := im.CreateEmptyIgnoreFile(); err != nil {
			return fmt.Errorf("failed to create ignore file: %w", err)
		}
		im.loaded = true
		return nil
	}

	file, err := os.Open(im.ignorePath)
	if err != nil {
		return fmt.Errorf("failed to open ignore file: %w", err)
	}
	defer file.Close()

	if err := im.readPatterns(file); err != nil {
		return err
	}
	im.loaded = true
	return nil
}

func (im *IgnoreManager) readPatterns(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		pattern, err := regexp.Compile(line)
		if err != nil {
			return fmt.Errorf("invalid regex pattern at line %d: %s - %w", lineNum, line, err)
		}

		im.patterns = append(im.patterns, pattern)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading ignore file: %w", err)
	}
	return nil
}

// ShouldIgnore checks if a root-relative path matches any pattern
func (im *IgnoreManager) ShouldIgnore(relativePath string) bool {
	if im == nil {
		return false
	}
	if !im.loaded {
		if err := im.LoadIgnorePatterns(); err != nil {
			return false
		}
	}

	normalisedPath := filepath.ToSlash(relativePath)

	for _, pattern := range im.patterns {
		if pattern.MatchString(normalisedPath) {
			return true
		}
	}

	return false
}

// CreateEmptyIgnoreFile creates an ignore file containing only comments
func (im *IgnoreManager) CreateEmptyIgnoreFile() error {
	if err := os.MkdirAll(filepath.Dir(im.ignorePath), 0755); err != nil {
		return err
	}
	return os.WriteFile(im.ignorePath, []byte(ignoreFileHeader), 0644)
}

// AddPattern adds a new ignore pattern
func (im *IgnoreManager) AddPattern(patternStr string) error {
	pattern, err := regexp.Compile(patternStr)
	if err != nil {
		return fmt.Errorf("invalid regex pattern: %s - %w", patternStr, err)
	}

	im.patterns = append(im.patterns, pattern)
	return nil
}

// SaveIgnorePatterns writes the current patterns back to the ignore file
func (im *IgnoreManager) SaveIgnorePatterns() error {
	if im.ignorePath == "" {
		return fmt.Errorf("ignore manager has no backing file")
	}
	var b strings.Builder
	b.WriteString(ignoreFileHeader)
	b.WriteString("\n")
	for _, pattern := range im.patterns {
		b.WriteString(pattern.String())
		b.WriteString("\n")
	}
	return os.WriteFile(im.ignorePath, []byte(b.String()), 0644)
}

// HasPatterns returns true if there are any ignore patterns loaded
func (im *IgnoreManager) HasPatterns() bool {
	if im == nil {
		return false
	}
	if !im.loaded {
		im.LoadIgnorePatterns()
	}
	return len(im.patterns) > 0
}

// GetIgnoreFilePath returns the path to the ignore file
func (im *IgnoreManager) GetIgnoreFilePath() string {
	return im.ignorePath
}
