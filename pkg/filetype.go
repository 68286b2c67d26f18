package splendir

import (
	"path/filepath"
	"strings"
)

// FileType is a coarse, extension-based category used for colouring and
// per-type counts.
type FileType int

const (
	FileTypeOther FileType = iota
	FileTypeDirectory
	FileTypeExecutable
	FileTypeArchive
	FileTypeImage
	FileTypeDocument
	FileTypeSourceCode
	FileTypeConfig
	FileTypeAudio
	FileTypeVideo
)

// AllFileTypes lists every category in display order
var AllFileTypes = []FileType{
	FileTypeDirectory, FileTypeExecutable, FileTypeArchive, FileTypeImage,
	FileTypeDocument, FileTypeSourceCode, FileTypeConfig, FileTypeAudio,
	FileTypeVideo, FileTypeOther,
}

var extensionTypes = map[string]FileType{}

func init() {
	groups := map[FileType][]string{
		FileTypeExecutable: {"exe", "bin", "run", "sh", "bat", "cmd", "com", "msi", "appimage"},
		FileTypeArchive:    {"zip", "tar", "gz", "tgz", "bz2", "xz", "7z", "rar", "zst", "jar"},
		FileTypeImage:      {"jpg", "jpeg", "png", "gif", "bmp", "svg", "webp", "ico", "tif", "tiff", "heic"},
		FileTypeDocument:   {"txt", "md", "pdf", "doc", "docx", "rtf", "odt", "xls", "xlsx", "ppt", "pptx", "csv"},
		FileTypeSourceCode: {"rs", "c", "cpp", "cc", "h", "hpp", "py", "js", "ts", "java", "go", "rb", "php", "cs", "swift", "kt"},
		FileTypeConfig:     {"toml", "yaml", "yml", "json", "xml", "ini", "conf", "cfg", "env", "properties"},
		FileTypeAudio:      {"mp3", "wav", "flac", "ogg", "m4a", "aac", "opus"},
		FileTypeVideo:      {"mp4", "avi", "mkv", "mov", "wmv", "flv", "webm", "m4v"},
	}
	for t, exts := range groups {
		for _, ext := range exts {
			extensionTypes[ext] = t
		}
	}
}

// ClassifyFile returns the category for a name
func ClassifyFile(name string, isDirectory bool) FileType {
	if isDirectory {
		return FileTypeDirectory
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return FileTypeOther
}

func (t FileType) String() string {
	switch t {
	case FileTypeDirectory:
		return "Directory"
	case FileTypeExecutable:
		return "Executable"
	case FileTypeArchive:
		return "Archive"
	case FileTypeImage:
		return "Image"
	case FileTypeDocument:
		return "Document"
	case FileTypeSourceCode:
		return "Source Code"
	case FileTypeConfig:
		return "Configuration"
	case FileTypeAudio:
		return "Audio"
	case FileTypeVideo:
		return "Video"
	default:
		return "File"
	}
}

// ColorCode is the ANSI SGR prefix used when rendering names of this type
func (t FileType) ColorCode() string {
	switch t {
	case FileTypeDirectory:
		return "\x1b[1;34m"
	case FileTypeExecutable:
		return "\x1b[1;32m"
	case FileTypeArchive:
		return "\x1b[1;31m"
	case FileTypeImage:
		return "\x1b[1;35m"
	case FileTypeDocument:
		return "\x1b[36m"
	case FileTypeSourceCode:
		return "\x1b[33m"
	case FileTypeConfig:
		return "\x1b[1;33m"
	case FileTypeAudio:
		return "\x1b[95m"
	case FileTypeVideo:
		return "\x1b[96m"
	default:
		return "\x1b[37m"
	}
}

// Colorize wraps name in the ANSI colour for its type
func Colorize(name string, isDirectory bool) string {
	return ClassifyFile(name, isDirectory).ColorCode() + name + "\x1b[0m"
}

// CountFilesByType counts every node of the tree, the root included, by category
func CountFilesByType(tree *TreeNode) map[FileType]int {
	counts := make(map[FileType]int)
	if tree == nil {
		return counts
	}
	tree.Walk(func(n *TreeNode, _ int) {
		counts[ClassifyFile(n.Name, n.IsDirectory)]++
	})
	return counts
}

// FilterTreeByType returns a copy of tree keeping directories and the files
// whose category is in allowed.
func FilterTreeByType(tree *TreeNode, allowed ...FileType) *TreeNode {
	if tree == nil {
		return nil
	}
	keep := make(map[FileType]bool, len(allowed))
	for _, t := range allowed {
		keep[t] = true
	}
	return filterTree(tree, keep)
}

func filterTree(n *TreeNode, keep map[FileType]bool) *TreeNode {
	out := &TreeNode{Name: n.Name, Path: n.Path, IsDirectory: n.IsDirectory}
	for _, c := range n.Children {
		if c.IsDirectory {
			out.Children = append(out.Children, filterTree(c, keep))
		} else if keep[ClassifyFile(c.Name, false)] {
			out.Children = append(out.Children, &TreeNode{Name: c.Name, Path: c.Path})
		}
	}
	return out
}
