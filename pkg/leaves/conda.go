package leaves

import (
	"context"
	"strings"

	"github.com/matzehuels/conda-pip-minimal/pkg/env"
	"github.com/matzehuels/conda-pip-minimal/pkg/errors"
	"github.com/matzehuels/conda-pip-minimal/pkg/tool"
)

// Conda returns the native leaves of e as reported by "conda tree leaves".
func Conda(ctx context.Context, p *tool.Prober, tools tool.Set, e env.Spec) (Set, error) {
	if _, err := p.Ensure(ctx, tools.CondaTreeRequirement()); err != nil {
		return nil, err
	}

	args := append(e.Args(), "leaves")
	out, err := tools.CondaTree.Output(ctx, p.Runner, args...)
	if err != nil {
		return nil, err
	}

	names, err := ParseCondaLeaves(out)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeToolInvocation, err, "unparseable output from %s", tools.CondaTree)
	}
	p.Logger.Debug("conda leaves", "env", e, "count", len(names))
	return NewSet(names...), nil
}

// ParseCondaLeaves parses conda-tree's leaf listing. conda-tree prints a
// Python list literal such as ['numpy', 'python']; one name per line is
// accepted as well.
func ParseCondaLeaves(out string) ([]string, error) {
	out = strings.TrimSpace(out)
	if out == "" {
		return nil, nil
	}

	if !strings.HasPrefix(out, "[") {
		var names []string
		for _, line := range strings.Split(out, "\n") {
			if name := strings.TrimSpace(line); name != "" {
				if err := errors.ValidatePackageName(name); err != nil {
					return nil, err
				}
				names = append(names, name)
			}
		}
		return names, nil
	}

	if !strings.HasSuffix(out, "]") {
		return nil, errors.New(errors.ErrCodeToolInvocation, "unterminated list %q", out)
	}
	body := strings.TrimSpace(out[1 : len(out)-1])
	if body == "" {
		return nil, nil
	}

	var names []string
	for _, item := range strings.Split(body, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			// trailing comma
			continue
		}
		name, ok := unquote(item)
		if !ok {
			return nil, errors.New(errors.ErrCodeToolInvocation, "list item %s is not a string literal", item)
		}
		names = append(names, name)
	}
	return names, nil
}

func unquote(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	q := s[0]
	if (q != '\'' && q != '"') || s[len(s)-1] != q {
		return "", false
	}
	inner := s[1 : len(s)-1]
	if inner == "" || strings.ContainsAny(inner, `'"\`) {
		return "", false
	}
	return inner, true
}
