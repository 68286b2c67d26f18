package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	splendir "github.com/mattkeenan/splendir/pkg"
)

func parseCmd(t *testing.T, args ...string) (*options, *cobra.Command) {
	t.Helper()
	opts := &options{}
	cmd := newRootCmd(opts)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("Failed to parse flags %v: %v", args, err)
	}
	return opts, cmd
}

func TestBuildConfigDefaults(t *testing.T) {
	configDir := t.TempDir()
	opts, cmd := parseCmd(t, "--config", configDir)

	cfg, err := buildConfig(cmd, opts)
	if err != nil {
		t.Fatalf("buildConfig failed: %v", err)
	}
	if cfg.MaxDepth != splendir.Unlimited {
		t.Errorf("Expected unlimited depth, got %d", cfg.MaxDepth)
	}
	if !cfg.CalculateSHA256 || cfg.CalculateMD5 || cfg.CalculateSHA512 {
		t.Errorf("Expected sha256 only, got %+v", cfg.DigestSet())
	}
	if cfg.Ignore == nil {
		t.Error("Expected the ignore manager to be attached")
	}
	if _, err := os.Stat(filepath.Join(configDir, "config")); err != nil {
		t.Errorf("Expected config file to be created: %v", err)
	}
}

func TestBuildConfigFlagsOverrideFile(t *testing.T) {
	configDir := t.TempDir()
	opts, cmd := parseCmd(t,
		"--config", configDir,
		"--set", "md5:true",
		"--set", "max_depth:2",
		"-a", "-L", "4", "--sha256=false", "--sha512", "--workers", "3", "--no-skip-virtual",
	)

	cfg, err := buildConfig(cmd, opts)
	if err != nil {
		t.Fatalf("buildConfig failed: %v", err)
	}
	if !cfg.IncludeDotfiles {
		t.Error("Expected dotfiles to be included")
	}
	if cfg.MaxDepth != 4 {
		t.Errorf("Expected the flag depth 4 to win over the override, got %d", cfg.MaxDepth)
	}
	if !cfg.CalculateMD5 || cfg.CalculateSHA256 || !cfg.CalculateSHA512 {
		t.Errorf("Expected md5+sha512, got %+v", cfg.DigestSet())
	}
	if cfg.HashWorkers != 3 {
		t.Errorf("Expected 3 workers, got %d", cfg.HashWorkers)
	}
	if cfg.SkipVirtualFilesystems {
		t.Error("Expected virtual filesystem skipping to be disabled")
	}
}

func TestBuildConfigFastAndNoHash(t *testing.T) {
	opts, cmd := parseCmd(t, "--config", t.TempDir(), "--fast", "--md5")
	cfg, err := buildConfig(cmd, opts)
	if err != nil {
		t.Fatalf("buildConfig failed: %v", err)
	}
	if cfg.MaxDepth != 3 {
		t.Errorf("Expected fast preset depth 3, got %d", cfg.MaxDepth)
	}
	if !cfg.CalculateMD5 || cfg.CalculateSHA256 {
		t.Errorf("Expected only the explicitly requested md5, got %+v", cfg.DigestSet())
	}

	opts, cmd = parseCmd(t, "--config", t.TempDir(), "--md5", "--no-hash")
	cfg, err = buildConfig(cmd, opts)
	if err != nil {
		t.Fatalf("buildConfig failed: %v", err)
	}
	if cfg.DigestSet().Any() {
		t.Errorf("Expected --no-hash to disable every digest, got %+v", cfg.DigestSet())
	}
}

func TestBuildConfigErrors(t *testing.T) {
	opts, cmd := parseCmd(t, "--config", t.TempDir(), "--set", "bogus:1")
	if _, err := buildConfig(cmd, opts); err == nil {
		t.Error("Expected an unknown override key to fail")
	}

	opts, cmd = parseCmd(t, "--config", t.TempDir(), "--max-depth=-3")
	if _, err := buildConfig(cmd, opts); err == nil {
		t.Error("Expected depth -3 to be rejected")
	}

	opts, cmd = parseCmd(t, "--config", t.TempDir(), "--workers", "500")
	if _, err := buildConfig(cmd, opts); err == nil {
		t.Error("Expected 500 workers to be rejected")
	}
}

func TestRunScanModes(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "top.txt"), []byte("top"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "sub", "inner.go"), []byte("package x"), 0644); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name string
		args []string
		want []string
	}{
		{"detailed", nil, []string{"top.txt", "sub/inner.go", "SHA256", "2 files"}},
		{"tree", []string{"--tree"}, []string{"├─── sub", "└─── inner.go", "└─── top.txt"}},
		{"stats", []string{"--stats"}, []string{"Files:       2", "Directories: 1"}},
		{"analyze", []string{"--analyze"}, []string{"Total: 2 files, 1 directories", "Source Code: 1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newRootCmd(&options{})
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetArgs(append(append([]string{"--config", t.TempDir()}, tc.args...), root))
			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			for _, want := range tc.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("Expected %q in output:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestRunScanMissingRoot(t *testing.T) {
	cmd := newRootCmd(&options{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", t.TempDir(), filepath.Join(t.TempDir(), "missing")})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("Expected an error for a missing root")
	}
	if !strings.Contains(err.Error(), "path not found") {
		t.Errorf("Expected a path not found error, got: %v", err)
	}
}
