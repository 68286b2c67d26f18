package splendir

import "runtime"

// ScannerConfig is the traversal and extraction policy for one scan. It is a
// plain value; the With* helpers return modified copies.
type ScannerConfig struct {
	IncludeDotfiles bool
	// MaxDepth is the deepest directory level that is listed, the root being
	// level 0. Unlimited disables the limit.
	MaxDepth       int
	FollowSymlinks bool

	CalculateMD5    bool
	CalculateSHA256 bool
	CalculateSHA512 bool
	CalculateFormat bool
	CalculateMIME   bool

	SkipVirtualFilesystems bool
	StayOnFilesystem       bool

	Cancel *CancellationToken

	HashWorkers    int // 0 means runtime.NumCPU()
	HashBufferSize int // 0 means DefaultHashBufferSize
	Ignore         *IgnoreManager
}

// DefaultScannerConfig returns the default policy: no dotfiles, unlimited
// depth, no symlink following, SHA-256 only, virtual filesystems skipped.
func DefaultScannerConfig() ScannerConfig {
	return ScannerConfig{
		MaxDepth:               Unlimited,
		CalculateSHA256:        true,
		SkipVirtualFilesystems: true,
	}
}

func (c ScannerConfig) WithDotfiles(include bool) ScannerConfig {
	c.IncludeDotfiles = include
	return c
}

func (c ScannerConfig) WithMaxDepth(depth int) ScannerConfig {
	if depth < 0 {
		depth = Unlimited
	}
	c.MaxDepth = depth
	return c
}

func (c ScannerConfig) WithFollowSymlinks(follow bool) ScannerConfig {
	c.FollowSymlinks = follow
	return c
}

// WithHashes sets all three digest flags at once
func (c ScannerConfig) WithHashes(md5, sha256, sha512 bool) ScannerConfig {
	c.CalculateMD5, c.CalculateSHA256, c.CalculateSHA512 = md5, sha256, sha512
	return c
}

func (c ScannerConfig) WithFormat(format, mimeType bool) ScannerConfig {
	c.CalculateFormat, c.CalculateMIME = format, mimeType
	return c
}

func (c ScannerConfig) WithSkipVirtualFilesystems(skip bool) ScannerConfig {
	c.SkipVirtualFilesystems = skip
	return c
}

func (c ScannerConfig) WithStayOnFilesystem(stay bool) ScannerConfig {
	c.StayOnFilesystem = stay
	return c
}

func (c ScannerConfig) WithCancellation(token *CancellationToken) ScannerConfig {
	c.Cancel = token
	return c
}

func (c ScannerConfig) WithHashWorkers(workers int) ScannerConfig {
	c.HashWorkers = workers
	return c
}

func (c ScannerConfig) WithIgnore(im *IgnoreManager) ScannerConfig {
	c.Ignore = im
	return c
}

// DigestSet returns the digests requested by the config
func (c ScannerConfig) DigestSet() DigestSet {
	return DigestSet{MD5: c.CalculateMD5, SHA256: c.CalculateSHA256, SHA512: c.CalculateSHA512}
}

func (c ScannerConfig) depthAllowed(depth int) bool {
	return c.MaxDepth < 0 || depth <= c.MaxDepth
}

func (c ScannerConfig) workers() int {
	if c.HashWorkers > 0 {
		return c.HashWorkers
	}
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

func (c ScannerConfig) bufferSize() int {
	if c.HashBufferSize > 0 {
		return c.HashBufferSize
	}
	return DefaultHashBufferSize
}
