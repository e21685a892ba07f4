package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/conda-pip-minimal/pkg/errors"
	"github.com/matzehuels/conda-pip-minimal/pkg/observability"
	"github.com/matzehuels/conda-pip-minimal/pkg/pipeline"
	"github.com/matzehuels/conda-pip-minimal/pkg/tool/tooltest"
)

func demoFake() *tooltest.Fake {
	return tooltest.NewFake().
		On("conda list --name demo --json", `[
			{"name": "python", "version": "3.11.4", "channel": "conda-forge"},
			{"name": "pip", "version": "23.0", "channel": "conda-forge"},
			{"name": "numpy", "version": "1.26.4", "channel": "conda-forge"},
			{"name": "requests", "version": "2.31.0", "channel": "pypi"},
			{"name": "idna", "version": "3.4", "channel": "pypi"}
		]`).
		On("conda tree --version", "conda-tree 1.1.0").
		On("conda tree --name demo leaves", "['numpy', 'pip', 'python']").
		On("conda env export --name demo --no-builds --json", `{"prefix": "/opt/conda/envs/demo"}`).
		On("pipdeptree --version", "2.13.0").
		On("pipdeptree --python /opt/conda/envs/demo/bin/python --local-only --json-tree", `[
			{"package_name": "requests", "installed_version": "2.31.0",
			 "dependencies": [{"package_name": "idna", "installed_version": "3.4", "dependencies": []}]}
		]`)
}

// runCLI executes the root command with an isolated config and cache.
func runCLI(t *testing.T, fake *tooltest.Fake, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Cleanup(observability.Reset)

	c := New(&bytes.Buffer{}, LogWarn)
	c.Exec = fake

	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExport(t *testing.T) {
	out, err := runCLI(t, demoFake(), "--name", "demo", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}

	for _, s := range []string{"name: demo\n", "- python=3.11.4\n", "- numpy=1.26.4\n", "- requests==2.31.0\n"} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
	if strings.Contains(out, "idna") {
		t.Errorf("dependency of a pip leaf exported:\n%s", out)
	}
}

func TestExportFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name:    "no pip",
			args:    []string{"--no-pip"},
			want:    []string{"numpy=1.26.4"},
			notWant: []string{"requests"},
		},
		{
			name: "relax minor",
			args: []string{"-r", "minor"},
			want: []string{"numpy=1.26.*", "requests==2.31.*"},
		},
		{
			name:    "relax none with exclude",
			args:    []string{"--relax", "none", "-x", "numpy"},
			want:    []string{"- python\n", "- requests\n"},
			notWant: []string{"numpy"},
		},
		{
			name: "channel and export name",
			args: []string{"-c", "-e", "shipped"},
			want: []string{"name: shipped", "conda-forge::numpy=1.26.4"},
		},
		{
			name: "json",
			args: []string{"-f", "json"},
			want: []string{`"name": "demo"`, `"requests==2.31.0"`},
		},
		{
			name: "include pypi dependency",
			args: []string{"-i", "idna"},
			want: []string{"idna==3.4", "requests==2.31.0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"-n", "demo", "--no-cache"}, tt.args...)
			out, err := runCLI(t, demoFake(), args...)
			if err != nil {
				t.Fatal(err)
			}
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("output contains %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestExportConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte("relax = \"none\"\npip = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, demoFake(), "-n", "demo", "--no-cache", "--config", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "- numpy\n") || strings.Contains(out, "requests") {
		t.Errorf("config not applied:\n%s", out)
	}

	// Flags override the file.
	out, err = runCLI(t, demoFake(), "-n", "demo", "--no-cache", "--config", cfgPath, "--pip", "-r", "full")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "requests==2.31.0") || !strings.Contains(out, "numpy=1.26.4") {
		t.Errorf("flags did not override config:\n%s", out)
	}
}

func TestExportOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "environment.yml")

	out, err := runCLI(t, demoFake(), "-n", "demo", "--no-cache", "-o", path)
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("manifest also written to stdout: %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "name: demo\n") {
		t.Errorf("file content:\n%s", data)
	}
}

func TestExportErrors(t *testing.T) {
	tests := []struct {
		name string
		fake *tooltest.Fake
		args []string
		code errors.Code
	}{
		{
			name: "bad relax",
			fake: demoFake(),
			args: []string{"-n", "demo", "-r", "patch"},
		},
		{
			name: "name and prefix",
			fake: demoFake(),
			args: []string{"-n", "demo", "-p", "/opt/env"},
		},
		{
			name: "unknown include",
			fake: demoFake(),
			args: []string{"-n", "demo", "-i", "scipy"},
			code: errors.ErrCodeUnknownInclude,
		},
		{
			name: "old pipdeptree",
			fake: demoFake().On("pipdeptree --version", "2.0.0"),
			args: []string{"-n", "demo"},
			code: errors.ErrCodeToolVersion,
		},
		{
			name: "bad format",
			fake: demoFake(),
			args: []string{"-n", "demo", "-f", "xml"},
			code: errors.ErrCodeInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.fake, append(tt.args, "--no-cache")...)
			if err == nil {
				t.Fatalf("expected error, got output:\n%s", out)
			}
			if tt.code != "" && !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
			if out != "" {
				t.Errorf("partial output on error: %q", out)
			}
		})
	}
}

func TestToolsCommand(t *testing.T) {
	if _, err := runCLI(t, demoFake(), "tools", "--no-cache"); err != nil {
		t.Errorf("tools with current versions = %v", err)
	}

	_, err := runCLI(t, demoFake().On("conda tree --version", "conda-tree 0.9.0"), "tools", "--no-cache")
	if !errors.Is(err, errors.ErrCodeToolVersion) {
		t.Errorf("tools with old conda-tree = %v, want TOOL_VERSION", err)
	}
}

func TestConfigShow(t *testing.T) {
	out, err := runCLI(t, demoFake(), "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{`relax = "full"`, "[cache]", `backend = "file"`, "[tools]"} {
		if !strings.Contains(out, s) {
			t.Errorf("config show missing %q:\n%s", s, out)
		}
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpm", "config.toml")

	if _, err := runCLI(t, demoFake(), "config", "init", "--config", path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if _, err := runCLI(t, demoFake(), "config", "init", "--config", path); err == nil {
		t.Error("init over an existing file should fail without --force")
	}
	if _, err := runCLI(t, demoFake(), "config", "init", "--config", path, "--force"); err != nil {
		t.Errorf("init --force = %v", err)
	}
}

func TestCachePath(t *testing.T) {
	out, err := runCLI(t, demoFake(), "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), appName) {
		t.Errorf("cache path = %q", out)
	}
}

func TestStatsLine(t *testing.T) {
	tests := []struct {
		stats pipeline.Stats
		want  string
	}{
		{pipeline.Stats{CondaCount: 12, PipCount: 3, ComputeTime: time.Second, ExportTime: 200 * time.Millisecond}, "12 conda · 3 pip · 1.2s"},
		{pipeline.Stats{CondaCount: 4, ComputeTime: 30 * time.Millisecond}, "4 conda · 30ms"},
	}
	for _, tt := range tests {
		if got := statsLine(tt.stats); got != tt.want {
			t.Errorf("statsLine(%+v) = %q, want %q", tt.stats, got, tt.want)
		}
	}
}

func TestCompletion(t *testing.T) {
	out, err := runCLI(t, demoFake(), "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "conda-pip-minimal") {
		t.Errorf("bash completion does not mention the program:\n%.200s", out)
	}

	out, err = runCLI(t, demoFake(), "__complete", "--relax", "")
	if err != nil {
		t.Fatal(err)
	}
	for _, level := range []string{"none", "major", "minor", "full"} {
		if !strings.Contains(out, level+"\n") {
			t.Errorf("--relax completion missing %q:\n%s", level, out)
		}
	}
}
