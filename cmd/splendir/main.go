package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	splendir "github.com/mattkeenan/splendir/pkg"
)

var version = "0.3.0"

// exitCancelled matches the shell convention for SIGINT
const exitCancelled = 130

type options struct {
	tree      bool
	analyze   bool
	stats     bool
	fast      bool
	colorize  bool
	ascii     bool
	hidden    bool
	maxDepth  int
	follow    bool
	md5       bool
	sha256    bool
	sha512    bool
	noHash    bool
	format    bool
	mime      bool
	stayOnFS  bool
	noSkipVFS bool
	workers   int
	configDir string
	overrides []string
	progress  bool
	verbose   int
	debug     string
}

func main() {
	if err := newRootCmd(&options{}).Execute(); err != nil {
		if errors.Is(err, splendir.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "splendir: scan cancelled")
			os.Exit(exitCancelled)
		}
		fmt.Fprintf(os.Stderr, "splendir: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "splendir [flags] [directory]",
		Short: "Scan a directory: file listing with hashes, tree view or statistics",
		Long: `splendir walks a directory tree and prints a detailed file listing with
content digests, a tree view, or aggregate statistics. Dotfiles, virtual
filesystems and (optionally) other devices are excluded the same way in
every mode.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runScan(cmd, opts, root)
		},
	}

	flags := rootCmd.Flags()
	flags.BoolVar(&opts.tree, "tree", false, "Print a tree view")
	flags.BoolVar(&opts.analyze, "analyze", false, "Print statistics and a file type summary")
	flags.BoolVar(&opts.stats, "stats", false, "Print statistics only")
	flags.BoolVar(&opts.fast, "fast", false, "Fast preset: no hashing, depth 3")
	flags.BoolVarP(&opts.colorize, "color", "C", false, "Colorize tree output")
	flags.BoolVar(&opts.ascii, "ascii", false, "Use ASCII tree characters")
	flags.BoolVarP(&opts.hidden, "hidden", "a", false, "Include dotfiles")
	flags.IntVarP(&opts.maxDepth, "max-depth", "L", -1, "Deepest directory level to list (-1 for unlimited)")
	flags.BoolVar(&opts.follow, "follow", false, "Follow symbolic links")
	flags.BoolVar(&opts.md5, "md5", false, "Compute MD5 digests")
	flags.BoolVar(&opts.sha256, "sha256", true, "Compute SHA-256 digests")
	flags.BoolVar(&opts.sha512, "sha512", false, "Compute SHA-512 digests")
	flags.BoolVar(&opts.noHash, "no-hash", false, "Disable all digests")
	flags.BoolVar(&opts.format, "format", false, "Identify file formats")
	flags.BoolVar(&opts.mime, "mime", false, "Identify MIME types")
	flags.BoolVarP(&opts.stayOnFS, "stay-on-fs", "x", false, "Do not cross filesystem boundaries")
	flags.BoolVar(&opts.noSkipVFS, "no-skip-virtual", false, "Descend into virtual filesystems such as /proc")
	flags.IntVar(&opts.workers, "workers", 0, "Hash worker count (0 = one per CPU)")
	flags.BoolVar(&opts.progress, "progress", false, "Show progress on stderr")

	persistent := rootCmd.PersistentFlags()
	persistent.StringVar(&opts.configDir, "config", splendir.DefaultConfigDir(), "Configuration directory")
	persistent.StringArrayVar(&opts.overrides, "set", nil, "Override a config value (key:value), repeatable")
	persistent.CountVarP(&opts.verbose, "verbose", "v", "Verbose output (repeat for more)")
	persistent.StringVar(&opts.debug, "debug", "", "Debug flags (comma-separated, e.g. scan,mounts,hash)")

	rootCmd.AddCommand(fsinfoCmd(opts))
	return rootCmd
}

func fsinfoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fsinfo [path]",
		Short: "Show the filesystem type, mount point and label of a path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			if err := setupLogging(opts); err != nil {
				return err
			}
			vi, err := splendir.DetectFilesystem(path)
			if err != nil {
				return err
			}
			writeVolumeInfo(cmd.OutOrStdout(), vi)
			return nil
		},
	}
}

func setupLogging(opts *options) error {
	logger, err := newLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	splendir.SetLogger(logger)
	splendir.SetVerboseLevel(opts.verbose)
	if opts.debug != "" {
		splendir.SetDebugFlags(opts.debug)
	}
	return nil
}

// buildConfig layers the config file, --set overrides and explicit flags
func buildConfig(cmd *cobra.Command, opts *options) (splendir.ScannerConfig, error) {
	cfg := splendir.DefaultScannerConfig()
	var ignore *splendir.IgnoreManager

	fileCfg, err := splendir.LoadConfig(opts.configDir)
	if err != nil {
		splendir.Logger().Warn("Using built-in defaults", zap.String("config", opts.configDir), zap.Error(err))
	} else {
		if err := fileCfg.ApplyOverrides(opts.overrides); err != nil {
			return cfg, err
		}
		if cfg, err = fileCfg.ScannerConfig(); err != nil {
			return cfg, err
		}
		vc := fileCfg.GetVerboseConfig()
		if !cmd.Flags().Changed("verbose") && vc.Level > 0 {
			splendir.SetVerboseLevel(vc.Level)
		}
		if opts.debug == "" && vc.Debug != "" {
			splendir.SetDebugFlags(vc.Debug)
		}
		ignore = splendir.NewIgnoreManager(opts.configDir)
	}

	if opts.fast {
		cfg = splendir.ScannerPresets.Fast().
			WithSkipVirtualFilesystems(cfg.SkipVirtualFilesystems).
			WithStayOnFilesystem(cfg.StayOnFilesystem)
	}

	f := cmd.Flags()
	if f.Changed("hidden") {
		cfg = cfg.WithDotfiles(opts.hidden)
	}
	if f.Changed("max-depth") {
		if err := splendir.ValidateMaxDepth(opts.maxDepth); err != nil {
			return cfg, err
		}
		cfg = cfg.WithMaxDepth(opts.maxDepth)
	}
	if f.Changed("follow") {
		cfg = cfg.WithFollowSymlinks(opts.follow)
	}
	if f.Changed("md5") {
		cfg.CalculateMD5 = opts.md5
	}
	if f.Changed("sha256") {
		cfg.CalculateSHA256 = opts.sha256
	}
	if f.Changed("sha512") {
		cfg.CalculateSHA512 = opts.sha512
	}
	if opts.noHash {
		cfg = cfg.WithHashes(false, false, false)
	}
	if f.Changed("format") {
		cfg.CalculateFormat = opts.format
	}
	if f.Changed("mime") {
		cfg.CalculateMIME = opts.mime
	}
	if f.Changed("stay-on-fs") {
		cfg = cfg.WithStayOnFilesystem(opts.stayOnFS)
	}
	if opts.noSkipVFS {
		cfg = cfg.WithSkipVirtualFilesystems(false)
	}
	if f.Changed("workers") && opts.workers != 0 {
		if err := splendir.ValidateHashWorkers(opts.workers); err != nil {
			return cfg, err
		}
		cfg = cfg.WithHashWorkers(opts.workers)
	}
	return cfg.WithIgnore(ignore), nil
}

func runScan(cmd *cobra.Command, opts *options, root string) error {
	if err := setupLogging(opts); err != nil {
		return err
	}
	defer splendir.Logger().Sync()

	cfg, err := buildConfig(cmd, opts)
	if err != nil {
		return err
	}

	token := splendir.NewCancellationToken()
	token.CancelOnClose(setupSignalHandler())
	scanner := splendir.NewDirectoryScanner(cfg.WithCancellation(token))

	reporter := &splendir.ProgressReporter{}
	out := cmd.OutOrStdout()

	var render func() error
	scan := func() error {
		switch {
		case opts.analyze:
			analysis, err := splendir.AnalyzeWith(scanner, root, reporter.Callback())
			if err != nil {
				return err
			}
			render = func() error {
				fmt.Fprint(out, analysis.Summary())
				fmt.Fprintln(out)
				writeStats(out, analysis.Stats)
				return nil
			}
		case opts.tree:
			tree, err := scanner.ScanTree(root, reporter.Callback())
			if err != nil {
				return err
			}
			render = func() error {
				_, err := fmt.Fprint(out, newTreeFormatter(opts.colorize, opts.ascii).Format(tree))
				return err
			}
		case opts.stats:
			stats, err := scanner.ScanStats(root, reporter.Callback())
			if err != nil {
				return err
			}
			render = func() error {
				writeStats(out, stats)
				return nil
			}
		default:
			records, err := scanner.ScanDetailed(root, reporter.Callback())
			if err != nil {
				return err
			}
			render = func() error {
				return writeRecords(out, records, absOrSelf(root), cfg)
			}
		}
		return nil
	}

	if err := runWithProgress(scan, reporter, opts.progress); err != nil {
		return err
	}

	for _, skipped := range scanner.SkippedPaths() {
		splendir.VerboseLog(1, "skipped %s", skipped)
	}
	return render()
}

// runWithProgress runs scan on its own goroutine, optionally redrawing the
// reporter's latest value on stderr until it finishes.
func runWithProgress(scan func() error, reporter *splendir.ProgressReporter, show bool) error {
	done := make(chan error, 1)
	go func() {
		done <- scan()
	}()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			if show {
				fmt.Fprint(os.Stderr, "\r\x1b[K")
			}
			return err
		case <-ticker.C:
			if !show {
				continue
			}
			if fraction, status, ok := reporter.Get(); ok {
				fmt.Fprintf(os.Stderr, "\r\x1b[K[%3.0f%%] %s", fraction*100, status)
			}
		}
	}
}

func absOrSelf(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
