package splendir

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
)

// Config represents the persistent splendir configuration
type Config struct {
	configPath string
	ini        *ini.File
}

// ScanSection represents traversal policy configuration
type ScanSection struct {
	IncludeDotfiles        bool
	MaxDepth               int // -1 for unlimited
	FollowSymlinks         bool
	SkipVirtualFilesystems bool
	StayOnFilesystem       bool
}

// HashConfig represents which digests and identifications are computed
type HashConfig struct {
	MD5    bool
	SHA256 bool
	SHA512 bool
	Format bool
	MIME   bool
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Default debug flags (comma-separated)
}

// PerformanceConfig represents performance-related configuration
type PerformanceConfig struct {
	HashWorkers int    // Number of concurrent hash workers (0 = one per CPU)
	HashBuffer  string // Read buffer size for hashing (default: "8K")
}

// AllConfig represents all configuration options
type AllConfig struct {
	Scan        *ScanSection
	Hash        *HashConfig
	Verbose     *VerboseConfig
	Performance *PerformanceConfig
}

// DefaultConfigDir returns ~/.splendir, or .splendir when no home is known
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".splendir"
	}
	return filepath.Join(home, ".splendir")
}

// LoadConfig loads configuration from <dir>/config, creating it with
// defaults when it does not exist yet
func LoadConfig(configDir string) (*Config, error) {
	configPath := filepath.Join(configDir, "config")

	cfg := &Config{
		configPath: configPath,
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	} else {
		iniFile, err := ini.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		cfg.ini = iniFile
	}

	return cfg, nil
}

var configDefaults = []struct {
	section, key, value string
}{
	{"scan", "include_dotfiles", "false"},
	{"scan", "max_depth", "-1"},
	{"scan", "follow_symlinks", "false"},
	{"scan", "skip_virtual_filesystems", "true"},
	{"scan", "stay_on_filesystem", "false"},
	{"hash", "md5", "false"},
	{"hash", "sha256", "true"},
	{"hash", "sha512", "false"},
	{"hash", "format", "false"},
	{"hash", "mime", "false"},
	{"performance", "hash_workers", "0"},
	{"performance", "hash_buffer", "8K"},
	{"verbose", "level", "0"},
	{"verbose", "debug", ""},
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() error {
	for _, d := range configDefaults {
		section, err := c.ini.GetSection(d.section)
		if err != nil {
			section, err = c.ini.NewSection(d.section)
			if err != nil {
				return fmt.Errorf("failed to create %s section: %w", d.section, err)
			}
		}
		if _, err := section.NewKey(d.key, d.value); err != nil {
			return fmt.Errorf("failed to set default %s.%s: %w", d.section, d.key, err)
		}
	}
	return nil
}

func (c *Config) boolKey(section, key string, fallback bool) bool {
	if !c.ini.HasSection(section) {
		return fallback
	}
	s := c.ini.Section(section)
	if !s.HasKey(key) {
		return fallback
	}
	v, err := s.Key(key).Bool()
	if err != nil {
		return fallback
	}
	return v
}

func (c *Config) intKey(section, key string, fallback int) int {
	if !c.ini.HasSection(section) {
		return fallback
	}
	s := c.ini.Section(section)
	if !s.HasKey(key) {
		return fallback
	}
	v, err := s.Key(key).Int()
	if err != nil {
		return fallback
	}
	return v
}

func (c *Config) stringKey(section, key, fallback string) string {
	if !c.ini.HasSection(section) {
		return fallback
	}
	s := c.ini.Section(section)
	if !s.HasKey(key) {
		return fallback
	}
	return s.Key(key).String()
}

// GetScanConfig returns the traversal configuration
func (c *Config) GetScanConfig() *ScanSection {
	return &ScanSection{
		IncludeDotfiles:        c.boolKey("scan", "include_dotfiles", false),
		MaxDepth:               c.intKey("scan", "max_depth", Unlimited),
		FollowSymlinks:         c.boolKey("scan", "follow_symlinks", false),
		SkipVirtualFilesystems: c.boolKey("scan", "skip_virtual_filesystems", true),
		StayOnFilesystem:       c.boolKey("scan", "stay_on_filesystem", false),
	}
}

// GetHashConfig returns the hash configuration
func (c *Config) GetHashConfig() *HashConfig {
	return &HashConfig{
		MD5:    c.boolKey("hash", "md5", false),
		SHA256: c.boolKey("hash", "sha256", true),
		SHA512: c.boolKey("hash", "sha512", false),
		Format: c.boolKey("hash", "format", false),
		MIME:   c.boolKey("hash", "mime", false),
	}
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	return &VerboseConfig{
		Level: c.intKey("verbose", "level", 0),
		Debug: c.stringKey("verbose", "debug", ""),
	}
}

// GetPerformanceConfig returns the performance configuration
func (c *Config) GetPerformanceConfig() *PerformanceConfig {
	pc := &PerformanceConfig{
		HashWorkers: c.intKey("performance", "hash_workers", 0),
		HashBuffer:  c.stringKey("performance", "hash_buffer", "8K"),
	}
	if pc.HashBuffer == "" {
		pc.HashBuffer = "8K"
	}
	return pc
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Scan:        c.GetScanConfig(),
		Hash:        c.GetHashConfig(),
		Verbose:     c.GetVerboseConfig(),
		Performance: c.GetPerformanceConfig(),
	}
}

// ScannerConfig builds a validated scanner policy from the file contents
func (c *Config) ScannerConfig() (ScannerConfig, error) {
	all := c.GetAllConfig()

	if err := ValidateMaxDepth(all.Scan.MaxDepth); err != nil {
		return ScannerConfig{}, err
	}
	if all.Performance.HashWorkers != 0 {
		if err := ValidateHashWorkers(all.Performance.HashWorkers); err != nil {
			return ScannerConfig{}, err
		}
	}
	bufSize, err := ParseHumanSize(all.Performance.HashBuffer)
	if err != nil {
		return ScannerConfig{}, fmt.Errorf("invalid hash_buffer: %w", err)
	}

	sc := DefaultScannerConfig().
		WithDotfiles(all.Scan.IncludeDotfiles).
		WithMaxDepth(all.Scan.MaxDepth).
		WithFollowSymlinks(all.Scan.FollowSymlinks).
		WithSkipVirtualFilesystems(all.Scan.SkipVirtualFilesystems).
		WithStayOnFilesystem(all.Scan.StayOnFilesystem).
		WithHashes(all.Hash.MD5, all.Hash.SHA256, all.Hash.SHA512).
		WithFormat(all.Hash.Format, all.Hash.MIME).
		WithHashWorkers(all.Performance.HashWorkers)
	sc.HashBufferSize = bufSize
	return sc, nil
}

// SetHashes sets which digests are computed by default
func (c *Config) SetHashes(md5, sha256, sha512 bool) error {
	section := c.ini.Section("hash")
	section.Key("md5").SetValue(strconv.FormatBool(md5))
	section.Key("sha256").SetValue(strconv.FormatBool(sha256))
	section.Key("sha512").SetValue(strconv.FormatBool(sha512))
	return c.Save()
}

// SetMaxDepth sets the default traversal depth (-1 for unlimited)
func (c *Config) SetMaxDepth(depth int) error {
	if err := ValidateMaxDepth(depth); err != nil {
		return err
	}
	c.ini.Section("scan").Key("max_depth").SetValue(strconv.Itoa(depth))
	return c.Save()
}

// SetVerboseLevel sets the default verbose level
func (c *Config) SetVerboseLevel(level int) error {
	c.ini.Section("verbose").Key("level").SetValue(strconv.Itoa(level))
	return c.Save()
}

// SetDebugFlags sets the default debug flags
func (c *Config) SetDebugFlags(debug string) error {
	c.ini.Section("verbose").Key("debug").SetValue(debug)
	return c.Save()
}

// SetHashWorkers sets the number of hash workers
func (c *Config) SetHashWorkers(workers int) error {
	c.ini.Section("performance").Key("hash_workers").SetValue(strconv.Itoa(workers))
	return c.Save()
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	return c.ini.SaveTo(c.configPath)
}

// Path returns the location of the backing file
func (c *Config) Path() string {
	return c.configPath
}

// overrideKeys maps override names to their section
var overrideKeys = map[string]string{
	"include_dotfiles":         "scan",
	"max_depth":                "scan",
	"follow_symlinks":          "scan",
	"skip_virtual_filesystems": "scan",
	"stay_on_filesystem":       "scan",
	"md5":                      "hash",
	"sha256":                   "hash",
	"sha512":                   "hash",
	"format":                   "hash",
	"mime":                     "hash",
	"hash_workers":             "performance",
	"hash_buffer":              "performance",
	"level":                    "verbose",
	"debug":                    "verbose",
}

// ApplyOverrides applies command-line overrides to the in-memory configuration
// Accepts strings like "max_depth:3", "md5:true", "level:2", "debug:scan"
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'key:value'", override)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		section, ok := overrideKeys[key]
		if !ok {
			return fmt.Errorf("unsupported override key '%s'", key)
		}
		c.ini.Section(section).Key(key).SetValue(value)
	}

	return nil
}

// ValidateHashAlgorithm validates that a hash algorithm is supported
func ValidateHashAlgorithm(algorithm string) error {
	if _, ok := HashTypeFromName(algorithm); !ok {
		return fmt.Errorf("unsupported hash algorithm: %s (supported: md5, sha256, sha512)", algorithm)
	}
	return nil
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

// ValidateMaxDepth validates a traversal depth
func ValidateMaxDepth(depth int) error {
	if depth < Unlimited {
		return fmt.Errorf("invalid max depth: %d (use -1 for unlimited)", depth)
	}
	return nil
}

// ValidateHashWorkers validates that the hash worker count is reasonable
func ValidateHashWorkers(workers int) error {
	if workers < 1 {
		return fmt.Errorf("hash workers must be at least 1, got: %d", workers)
	}
	if workers > 64 {
		return fmt.Errorf("hash workers should not exceed 64, got: %d", workers)
	}
	return nil
}
