package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	splendir "github.com/mattkeenan/splendir/pkg"
)

type treeChars struct {
	branch     string
	lastBranch string
	vertical   string
	horizontal string
}

var (
	unicodeTreeChars = treeChars{branch: "├", lastBranch: "└", vertical: "│", horizontal: "───"}
	asciiTreeChars   = treeChars{branch: "|", lastBranch: "`", vertical: "|", horizontal: "---"}
)

// treeFormatter renders a TreeNode in the style of tree(1)
type treeFormatter struct {
	chars    treeChars
	colorize bool
}

func newTreeFormatter(colorize, ascii bool) *treeFormatter {
	f := &treeFormatter{chars: unicodeTreeChars, colorize: colorize}
	if ascii {
		f.chars = asciiTreeChars
	}
	return f
}

func (f *treeFormatter) name(n *splendir.TreeNode) string {
	if f.colorize {
		return splendir.Colorize(n.Name, n.IsDirectory)
	}
	return n.Name
}

// Format renders the whole tree, root first
func (f *treeFormatter) Format(tree *splendir.TreeNode) string {
	var b strings.Builder
	b.WriteString(f.name(tree))
	b.WriteString("\n")
	f.formatChildren(&b, tree, "")
	return b.String()
}

func (f *treeFormatter) formatChildren(b *strings.Builder, n *splendir.TreeNode, prefix string) {
	for i, child := range n.Children {
		last := i == len(n.Children)-1
		connector := f.chars.branch
		if last {
			connector = f.chars.lastBranch
		}

		if f.colorize {
			fmt.Fprintf(b, "\x1b[37m%s%s\x1b[0m%s %s\n", prefix, connector, f.chars.horizontal, f.name(child))
		} else {
			fmt.Fprintf(b, "%s%s%s %s\n", prefix, connector, f.chars.horizontal, child.Name)
		}

		if child.IsDirectory && len(child.Children) > 0 {
			next := prefix + f.chars.vertical + "   "
			if last {
				next = prefix + "    "
			}
			f.formatChildren(b, child, next)
		}
	}
}

// writeRecords prints a detailed listing as an aligned table
func writeRecords(w io.Writer, records []splendir.FileRecord, root string, cfg splendir.ScannerConfig) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	header := []string{"PATH", "SIZE", "MODIFIED"}
	if cfg.CalculateMD5 {
		header = append(header, "MD5")
	}
	if cfg.CalculateSHA256 {
		header = append(header, "SHA256")
	}
	if cfg.CalculateSHA512 {
		header = append(header, "SHA512")
	}
	if cfg.CalculateFormat {
		header = append(header, "FORMAT")
	}
	if cfg.CalculateMIME {
		header = append(header, "MIME")
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, r := range records {
		rel, err := filepath.Rel(root, r.Path)
		if err != nil {
			rel = r.Path
		}
		row := []string{filepath.ToSlash(rel), splendir.FormatFileSize(r.Size), splendir.FormatTimestamp(r.Modified)}
		if cfg.CalculateMD5 {
			row = append(row, r.MD5)
		}
		if cfg.CalculateSHA256 {
			row = append(row, r.SHA256)
		}
		if cfg.CalculateSHA512 {
			row = append(row, r.SHA512)
		}
		if cfg.CalculateFormat {
			row = append(row, r.Format)
		}
		if cfg.CalculateMIME {
			row = append(row, r.MIMEType)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s files\n", humanize.Comma(int64(len(records))))
	return err
}

// writeStats prints counts, total size and the non-empty histogram buckets
func writeStats(w io.Writer, stats *splendir.DirectoryStats) {
	fmt.Fprintf(w, "Files:       %s\n", humanize.Comma(int64(stats.FileCount)))
	fmt.Fprintf(w, "Directories: %s\n", humanize.Comma(int64(stats.DirectoryCount)))
	fmt.Fprintf(w, "Total size:  %s (%s bytes)\n", stats.FormatSize(), humanize.Comma(stats.TotalSize))
	fmt.Fprintln(w, "Size distribution:")
	for i, n := range stats.Histogram {
		if n == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-12s %s\n", splendir.BucketLabel(i), humanize.Comma(int64(n)))
	}
}

func writeVolumeInfo(w io.Writer, vi *splendir.VolumeInfo) {
	fmt.Fprintf(w, "Filesystem:  %s\n", vi.DisplayType())
	fmt.Fprintf(w, "Mount point: %s\n", vi.MountPoint)
	label := vi.Label
	if label == "" {
		label = "(none)"
	}
	fmt.Fprintf(w, "Label:       %s\n", label)
	fmt.Fprintf(w, "Remote:      %t\n", vi.IsRemote)
	fmt.Fprintf(w, "MFT support: %t\n", vi.FilesystemType.SupportsMFT())
}
