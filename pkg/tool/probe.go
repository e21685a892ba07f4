package tool

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/conda-pip-minimal/pkg/cache"
	"github.com/matzehuels/conda-pip-minimal/pkg/errors"
)

// Prober checks version requirements, caching raw version output.
type Prober struct {
	Runner Runner
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger

	// LookPath resolves executables for cache keys; nil means exec.LookPath.
	LookPath func(string) (string, error)
}

// NewProber creates a prober. A nil cache disables caching; a nil keyer uses
// cache.DefaultKeyer.
func NewProber(r Runner, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Prober {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Prober{Runner: r, Cache: c, Keyer: keyer, TTL: cache.TTLToolProbe, Logger: logger}
}

// Ensure returns the version of req's program, failing with
// errors.ErrCodeToolVersion unless it is at least req.Min.
//
// A cached answer is only trusted when it passes: a cached version below the
// floor (or an unparseable one) is checked again against the installed tool.
func (p *Prober) Ensure(ctx context.Context, req Requirement) (string, error) {
	version, cached, err := p.detect(ctx, req, true)
	if cached && (err != nil || !AtLeast(version, req.Min)) {
		p.Logger.Debug("cached tool version rejected, checking again", "tool", req.Name, "version", version)
		version, _, err = p.detect(ctx, req, false)
	}
	if err != nil {
		return "", err
	}

	if !AtLeast(version, req.Min) {
		return "", errors.New(errors.ErrCodeToolVersion,
			"%s %s is too old (minimum supported version is %s)", req.Name, version, req.Min)
	}

	p.Logger.Debug("tool version ok", "tool", req.Name, "version", version, "min", req.Min)
	return version, nil
}

// detect returns the version of req's program and whether it came from the cache.
func (p *Prober) detect(ctx context.Context, req Requirement, useCache bool) (string, bool, error) {
	out, cached, err := p.versionOutput(ctx, req, useCache)
	if err != nil {
		return "", false, errors.Wrap(errors.ErrCodeToolVersion, err, "could not determine %s version", req.Name)
	}
	version, err := ExtractSemver(out)
	if err != nil {
		return "", cached, errors.Wrap(errors.ErrCodeToolVersion, err, "could not determine %s version", req.Name)
	}
	return version, cached, nil
}

// Status describes one requirement for reporting.
type Status struct {
	Requirement Requirement
	Version     string // Detected version; empty when undetermined
	Err         error  // Nil when the requirement is met
}

// OK reports whether the requirement is met.
func (s Status) OK() bool { return s.Err == nil }

// Check evaluates every requirement without failing fast.
func (p *Prober) Check(ctx context.Context, reqs []Requirement) []Status {
	out := make([]Status, 0, len(reqs))
	for _, req := range reqs {
		st := Status{Requirement: req}
		st.Version, st.Err = p.Ensure(ctx, req)
		if st.Version == "" {
			if raw, _, err := p.versionOutput(ctx, req, false); err == nil {
				st.Version, _ = ExtractSemver(raw)
			}
		}
		out = append(out, st)
	}
	return out
}

func (p *Prober) versionOutput(ctx context.Context, req Requirement, useCache bool) (string, bool, error) {
	key, cacheable := p.key(req)
	if cacheable && useCache {
		if data, hit, err := p.Cache.Get(ctx, key); err == nil && hit {
			p.Logger.Debug("tool version from cache", "tool", req.Name)
			return string(data), true, nil
		}
	}

	out, err := req.Cmd.Output(ctx, p.Runner, req.VersionArgs...)
	if err != nil {
		return "", false, err
	}

	if cacheable {
		if err := p.Cache.Set(ctx, key, []byte(out), p.TTL); err != nil {
			p.Logger.Debug("cache write failed", "tool", req.Name, "err", err)
		}
	}
	return out, false, nil
}

// key derives the cache key from the resolved executable and its modification
// time. Unresolvable executables are never cached, and neither are
// subcommands such as "conda tree": plugins are upgraded without touching the
// conda binary, so its mtime says nothing about their version.
func (p *Prober) key(req Requirement) (string, bool) {
	if len(req.Cmd.Args) > 0 {
		return "", false
	}
	lookPath := p.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(req.Cmd.Binary)
	if err != nil {
		return "", false
	}
	var mod int64
	if info, err := os.Stat(path); err == nil {
		mod = info.ModTime().Unix()
	}
	return p.Keyer.ToolKey(path, mod, req.Cmd.Argv(req.VersionArgs...)), true
}
