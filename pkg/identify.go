package splendir

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLength is how many leading bytes are handed to content detection.
const sniffLength = 3072

const genericBinaryMIME = "application/octet-stream"

// formatNames maps a MIME type (without parameters) to a display label.
var formatNames = map[string]string{
	"text/xml":           "XML Document",
	"text/html":          "HTML Document",
	"text/css":           "CSS Stylesheet",
	"text/csv":           "CSV",
	"text/plain":         "Plain Text",
	"text/markdown":      "Markdown",
	"text/javascript":    "JavaScript",
	"text/x-shellscript": "Shell Script",
	"text/x-python":      "Python Script",

	"application/pdf":                               "PDF Document",
	"application/json":                              "JSON",
	"application/xml":                               "XML Document",
	"application/javascript":                        "JavaScript",
	"application/x-sh":                              "Shell Script",
	"application/x-elf":                             "ELF Executable",
	"application/x-executable":                      "ELF Executable",
	"application/x-sharedlib":                       "Shared Library",
	"application/x-mach-binary":                     "Mach-O Binary",
	"application/vnd.microsoft.portable-executable": "Windows Executable",
	"application/x-msdownload":                      "Windows Executable",
	"application/x-sqlite3":                         "SQLite Database",
	"application/vnd.sqlite3":                       "SQLite Database",
	"application/wasm":                              "WebAssembly",
	"application/java-archive":                      "Java Archive",
	"application/x-java-archive":                    "Java Archive",

	"application/zip":              "ZIP Archive",
	"application/gzip":             "GZIP Archive",
	"application/x-gzip":           "GZIP Archive",
	"application/x-tar":            "TAR Archive",
	"application/x-7z-compressed":  "7-Zip Archive",
	"application/x-rar-compressed": "RAR Archive",
	"application/vnd.rar":          "RAR Archive",
	"application/x-bzip2":          "BZIP2 Archive",
	"application/x-xz":             "XZ Archive",
	"application/zstd":             "Zstandard Archive",

	"application/msword":                                                        "Word Document",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   "Word Document",
	"application/vnd.ms-excel":                                                  "Excel Spreadsheet",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         "Excel Spreadsheet",
	"application/vnd.ms-powerpoint":                                             "PowerPoint Presentation",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "PowerPoint Presentation",
	"application/vnd.oasis.opendocument.text":                                   "OpenDocument Text",

	"image/png":                "PNG Image",
	"image/jpeg":               "JPEG Image",
	"image/gif":                "GIF Image",
	"image/webp":               "WebP Image",
	"image/bmp":                "BMP Image",
	"image/tiff":               "TIFF Image",
	"image/svg+xml":            "SVG Image",
	"image/x-icon":             "Icon",
	"image/vnd.microsoft.icon": "Icon",
	"image/heic":               "HEIC Image",

	"audio/mpeg":       "MP3 Audio",
	"audio/wav":        "WAV Audio",
	"audio/x-wav":      "WAV Audio",
	"audio/flac":       "FLAC Audio",
	"audio/ogg":        "OGG Audio",
	"audio/aac":        "AAC Audio",
	"video/mp4":        "MP4 Video",
	"video/quicktime":  "QuickTime Video",
	"video/x-matroska": "Matroska Video",
	"video/webm":       "WebM Video",
	"video/x-msvideo":  "AVI Video",

	"font/ttf":   "TrueType Font",
	"font/otf":   "OpenType Font",
	"font/woff":  "WOFF Font",
	"font/woff2": "WOFF2 Font",
}

// IdentifyReader sniffs the leading bytes of r. name supplies the extension
// used when the content alone is inconclusive.
func IdentifyReader(r io.Reader, name string) (format, mimeType string, err error) {
	buf := make([]byte, sniffLength)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return NotCalculated, NotCalculated, err
	}

	mimeType = sniffMIME(buf[:n], name)
	return formatLabel(mimeType, name), mimeType, nil
}

// IdentifyFile determines a file's format label and MIME type
func IdentifyFile(filePath string) (format, mimeType string, err error) {
	file, err := os.Open(filePath)
	if err != nil {
		return NotCalculated, NotCalculated, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	format, mimeType, err = IdentifyReader(file, filepath.Base(filePath))
	if err != nil {
		return format, mimeType, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return format, mimeType, nil
}

func sniffMIME(head []byte, name string) string {
	var detected string
	if len(head) > 0 {
		if mt := mimetype.Detect(head); mt != nil {
			detected = mt.String()
		}
	}

	byExt := mimeFromExtension(name)
	switch {
	case detected == "" || baseMIME(detected) == genericBinaryMIME:
		if byExt != "" {
			return byExt
		}
		if detected == "" {
			return genericBinaryMIME
		}
		return detected
	case baseMIME(detected) == "text/plain" && byExt != "" && strings.HasPrefix(byExt, "text/"):
		// plain text is the weakest content verdict; a text/* extension refines it
		return byExt
	default:
		return detected
	}
}

// mimeFromExtension consults the system MIME table for the name's extension.
func mimeFromExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return ""
}

func baseMIME(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(strings.ToLower(t))
}

func formatLabel(mimeType, name string) string {
	if label, ok := formatNames[baseMIME(mimeType)]; ok {
		return label
	}
	if mt := mimetype.Lookup(baseMIME(mimeType)); mt != nil {
		// aliases such as application/x-zip share a canonical node
		if label, ok := formatNames[baseMIME(mt.String())]; ok {
			return label
		}
	}
	if ext := strings.TrimPrefix(filepath.Ext(name), "."); ext != "" {
		return strings.ToUpper(ext)
	}
	return "Unknown"
}
