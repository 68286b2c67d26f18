package splendir

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// ParseHumanSize parses human-readable size strings like "8K", "2M", "1G"
// Supports K, M, G suffixes (case-insensitive) with 1024 multipliers
func ParseHumanSize(sizeStr string) (int, error) {
	if sizeStr == "" {
		return 0, fmt.Errorf("empty size string")
	}

	sizeStr = strings.ToUpper(strings.TrimSpace(sizeStr))

	var numPart string
	var suffix string
	for i, char := range sizeStr {
		if char >= '0' && char <= '9' || char == '.' {
			numPart += string(char)
		} else {
			suffix = strings.TrimSpace(sizeStr[i:])
			break
		}
	}

	if numPart == "" {
		return 0, fmt.Errorf("no numeric part in size string: %s", sizeStr)
	}

	num, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric part in size string %s: %w", sizeStr, err)
	}

	var multiplier int64 = 1
	switch suffix {
	case "", "B":
		multiplier = 1
	case "K", "KB", "KIB":
		multiplier = 1024
	case "M", "MB", "MIB":
		multiplier = 1024 * 1024
	case "G", "GB", "GIB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown size suffix: %s", suffix)
	}

	result := int64(num * float64(multiplier))
	if result <= 0 {
		return 0, fmt.Errorf("size must be positive: %s", sizeStr)
	}
	if result > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("size too large: %s", sizeStr)
	}

	return int(result), nil
}

// FormatFileSize renders a byte count with binary units ("1.5 KiB").
func FormatFileSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.IBytes(uint64(size))
}

// isPathUnder checks if childPath is strictly under parentPath
func isPathUnder(childPath, parentPath string) bool {
	childPath = filepath.Clean(childPath)
	parentPath = filepath.Clean(parentPath)

	if childPath == parentPath {
		return false
	}

	parentWithSep := parentPath
	if !strings.HasSuffix(parentWithSep, string(filepath.Separator)) {
		parentWithSep += string(filepath.Separator)
	}
	return strings.HasPrefix(childPath, parentWithSep)
}

// isPathContained checks if targetPath is containerPath or lies beneath it
func isPathContained(targetPath, containerPath string) bool {
	targetPath = filepath.Clean(targetPath)
	containerPath = filepath.Clean(containerPath)
	return targetPath == containerPath || isPathUnder(targetPath, containerPath)
}
