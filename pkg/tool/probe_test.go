package tool

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/conda-pip-minimal/pkg/cache"
	"github.com/matzehuels/conda-pip-minimal/pkg/errors"
	"github.com/matzehuels/conda-pip-minimal/pkg/tool/tooltest"
)

func fakeLookPath(name string) (string, error) {
	return filepath.Join("/fake/bin", name), nil
}

func TestProberEnsure(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		fail     bool
		want     string
		wantCode errors.Code
	}{
		{name: "new enough", output: "conda-tree 1.1.0", want: "1.1.0"},
		{name: "exact floor", output: "conda-tree 1.0.4", want: "1.0.4"},
		{name: "too old", output: "conda-tree 1.0.3", wantCode: errors.ErrCodeToolVersion},
		{name: "garbage", output: "conda-tree unknown", wantCode: errors.ErrCodeToolVersion},
		{name: "not installed", fail: true, wantCode: errors.ErrCodeToolVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := tooltest.NewFake()
			if tt.fail {
				fake.Fail("conda tree --version", errors.New(errors.ErrCodeToolInvocation, "exit status 1"))
			} else {
				fake.On("conda tree --version", tt.output)
			}

			p := NewProber(fake, nil, nil, nil)
			got, err := p.Ensure(context.Background(), DefaultSet().CondaTreeRequirement())

			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("Ensure() error = %v, want code %s", err, tt.wantCode)
				}
				if tt.fail && !errors.Is(err, errors.ErrCodeToolInvocation) {
					t.Errorf("Ensure() should keep the invocation cause, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Ensure() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Ensure() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProberCachesOutput(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	fake := tooltest.NewFake().On("pipdeptree --version", "2.23.4")
	p := NewProber(fake, c, nil, nil)
	p.LookPath = fakeLookPath

	req := DefaultSet().PipdeptreeRequirement()
	for i := 0; i < 3; i++ {
		if _, err := p.Ensure(ctx, req); err != nil {
			t.Fatalf("Ensure() #%d error: %v", i, err)
		}
	}

	if n := len(fake.Calls()); n != 1 {
		t.Errorf("pipdeptree --version ran %d times, want 1 (cached)", n)
	}
}

func TestProberCachedOutputIsRevalidated(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	req := DefaultSet().PipdeptreeRequirement()

	p := NewProber(tooltest.NewFake(), c, nil, nil)
	p.LookPath = fakeLookPath
	key, ok := p.key(req)
	if !ok {
		t.Fatal("key() should be cacheable with a resolvable binary")
	}
	if err := c.Set(ctx, key, []byte("2.0.0"), time.Hour); err != nil {
		t.Fatal(err)
	}

	if _, err := p.Ensure(ctx, req); !errors.Is(err, errors.ErrCodeToolVersion) {
		t.Errorf("cached too-old version should fail, got %v", err)
	}
}

func TestEnsureRefreshesStaleCache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	req := DefaultSet().PipdeptreeRequirement()

	fake := tooltest.NewFake().On("pipdeptree --version", "2.23.4")
	p := NewProber(fake, c, nil, nil)
	p.LookPath = fakeLookPath
	key, _ := p.key(req)
	if err := c.Set(ctx, key, []byte("2.0.0"), time.Hour); err != nil {
		t.Fatal(err)
	}

	got, err := p.Ensure(ctx, req)
	if err != nil {
		t.Fatalf("Ensure() error: %v", err)
	}
	if got != "2.23.4" {
		t.Errorf("Ensure() = %q, want 2.23.4", got)
	}

	// The fresh answer replaces the stale entry.
	if data, hit, _ := c.Get(ctx, key); !hit || string(data) != "2.23.4" {
		t.Errorf("cache entry = %q (hit %v), want 2.23.4", data, hit)
	}
}

func TestEnsureSubcommandNotCached(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	req := DefaultSet().CondaTreeRequirement()

	first := NewProber(tooltest.NewFake().On("conda tree --version", "conda-tree 1.1.0"), c, nil, nil)
	first.LookPath = fakeLookPath
	if _, err := first.Ensure(ctx, req); err != nil {
		t.Fatalf("first Ensure() error: %v", err)
	}

	// conda-tree downgraded in place; the conda binary is unchanged.
	fake := tooltest.NewFake().On("conda tree --version", "conda-tree 1.0.0")
	second := NewProber(fake, c, nil, nil)
	second.LookPath = fakeLookPath
	if _, err := second.Ensure(ctx, req); !errors.Is(err, errors.ErrCodeToolVersion) {
		t.Errorf("Ensure() after downgrade error = %v, want %s", err, errors.ErrCodeToolVersion)
	}
	if n := len(fake.Calls()); n == 0 {
		t.Error("conda tree --version should run on every check")
	}
}

func TestKeyNotCacheable(t *testing.T) {
	notFound := func(string) (string, error) { return "", errors.New(errors.ErrCodeInternal, "not found") }

	tests := []struct {
		name     string
		req      Requirement
		lookPath func(string) (string, error)
	}{
		{name: "unresolvable binary", req: DefaultSet().PipdeptreeRequirement(), lookPath: notFound},
		{name: "subcommand", req: DefaultSet().CondaTreeRequirement(), lookPath: fakeLookPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProber(tooltest.NewFake(), nil, nil, nil)
			p.LookPath = tt.lookPath
			if _, ok := p.key(tt.req); ok {
				t.Error("key() should not be cacheable")
			}
		})
	}
}

func TestProberCheck(t *testing.T) {
	fake := tooltest.NewFake().
		On("conda tree --version", "conda-tree 1.0.3").
		On("pipdeptree --version", "2.23.4")

	p := NewProber(fake, nil, nil, nil)
	statuses := p.Check(context.Background(), DefaultSet().Requirements())

	if len(statuses) != 2 {
		t.Fatalf("Check() returned %d statuses, want 2", len(statuses))
	}
	if statuses[0].OK() {
		t.Error("conda-tree 1.0.3 should not be OK")
	}
	if statuses[0].Version != "1.0.3" {
		t.Errorf("conda-tree detected version = %q, want 1.0.3", statuses[0].Version)
	}
	if !statuses[1].OK() || statuses[1].Version != "2.23.4" {
		t.Errorf("pipdeptree status = %+v, want OK 2.23.4", statuses[1])
	}
}
