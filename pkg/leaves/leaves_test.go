package leaves

import (
	"context"
	"reflect"
	"testing"

	"github.com/matzehuels/conda-pip-minimal/pkg/env"
	"github.com/matzehuels/conda-pip-minimal/pkg/errors"
	"github.com/matzehuels/conda-pip-minimal/pkg/tool"
	"github.com/matzehuels/conda-pip-minimal/pkg/tool/tooltest"
)

const pipTree = `[
  {"key": "requests", "package_name": "requests", "installed_version": "2.31.0", "required_version": "2.31.0",
   "dependencies": [
     {"key": "urllib3", "package_name": "urllib3", "installed_version": "2.0.4", "required_version": ">=1.21.1,<3", "dependencies": []},
     {"key": "idna", "package_name": "idna", "installed_version": "3.4", "required_version": ">=2.5,<4", "dependencies": []}
   ]},
  {"key": "httpx", "package_name": "httpx", "installed_version": "0.24.1", "required_version": "0.24.1",
   "dependencies": [
     {"key": "idna", "package_name": "idna", "installed_version": "3.4", "required_version": null, "dependencies": []}
   ]},
  {"key": "pyyaml", "package_name": "PyYAML", "installed_version": "6.0.1", "dependencies": []}
]`

func TestParseCondaLeaves(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "literal", input: "['numpy', 'python']", want: []string{"numpy", "python"}},
		{name: "double quotes", input: `["numpy", "scikit-learn"]`, want: []string{"numpy", "scikit-learn"}},
		{name: "trailing newline and comma", input: "['pip', ]\n", want: []string{"pip"}},
		{name: "empty list", input: "[]", want: nil},
		{name: "empty output", input: "  \n", want: nil},
		{name: "lines", input: "numpy\npython\n\n", want: []string{"numpy", "python"}},
		{name: "unterminated", input: "['numpy'", wantErr: true},
		{name: "unquoted item", input: "[numpy]", wantErr: true},
		{name: "mismatched quotes", input: `['numpy"]`, wantErr: true},
		{name: "warning text", input: "WARNING: something odd", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCondaLeaves(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCondaLeaves() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCondaLeaves() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestConda(t *testing.T) {
	fake := tooltest.NewFake().
		On("conda tree --version", "conda-tree 1.1.0").
		On("conda tree --name ds leaves", "['numpy', 'python']")
	p := tool.NewProber(fake, nil, nil, nil)

	got, err := Conda(context.Background(), p, tool.DefaultSet(), env.Named("ds"))
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"numpy", "python"}; !reflect.DeepEqual(got.Sorted(), want) {
		t.Errorf("Conda() = %v, want %v", got.Sorted(), want)
	}
}

func TestCondaPreconditionRunsFirst(t *testing.T) {
	fake := tooltest.NewFake().
		On("conda tree --version", "conda-tree 1.0.3").
		On("conda tree --name ds leaves", "['numpy']")
	p := tool.NewProber(fake, nil, nil, nil)

	_, err := Conda(context.Background(), p, tool.DefaultSet(), env.Named("ds"))
	if !errors.Is(err, errors.ErrCodeToolVersion) {
		t.Fatalf("Conda() error = %v, want TOOL_VERSION", err)
	}
	if fake.Called("conda tree --name ds leaves") {
		t.Error("leaves command ran despite failed precondition")
	}
}

func TestCondaBadOutput(t *testing.T) {
	fake := tooltest.NewFake().
		On("conda tree --version", "conda-tree 1.1.0").
		On("conda tree --prefix /env leaves", "['numpy'")
	p := tool.NewProber(fake, nil, nil, nil)

	_, err := Conda(context.Background(), p, tool.DefaultSet(), env.AtPrefix("/env"))
	if !errors.Is(err, errors.ErrCodeToolInvocation) {
		t.Errorf("Conda() error = %v, want TOOL_INVOCATION", err)
	}
}

func TestPip(t *testing.T) {
	fake := tooltest.NewFake().
		On("pipdeptree --version", "2.13.0").
		On("pipdeptree --python /env/bin/python --local-only --json-tree", pipTree)
	p := tool.NewProber(fake, nil, nil, nil)

	got, err := Pip(context.Background(), p, tool.DefaultSet(), "/env/bin/python")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"PyYAML", "httpx", "requests"}; !reflect.DeepEqual(got.Sorted(), want) {
		t.Errorf("Pip() = %v, want %v", got.Sorted(), want)
	}
}

func TestPipErrors(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		tree     string
		wantCode errors.Code
		wantTree bool
	}{
		{name: "too old", version: "2.3.0", tree: "[]", wantCode: errors.ErrCodeToolVersion},
		{name: "not json", version: "2.3.1", tree: "usage: pipdeptree", wantCode: errors.ErrCodeToolInvocation, wantTree: true},
		{name: "nameless node", version: "2.3.1", tree: `[{"installed_version": "1"}]`, wantCode: errors.ErrCodeToolInvocation, wantTree: true},
	}
	const treeCmd = "pipdeptree --python py --local-only --json-tree"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := tooltest.NewFake().On("pipdeptree --version", tt.version).On(treeCmd, tt.tree)
			p := tool.NewProber(fake, nil, nil, nil)

			_, err := Pip(context.Background(), p, tool.DefaultSet(), "py")
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Pip() error = %v, want %s", err, tt.wantCode)
			}
			if fake.Called(treeCmd) != tt.wantTree {
				t.Errorf("tree command called = %v, want %v", fake.Called(treeCmd), tt.wantTree)
			}
		})
	}
}

func TestGraph(t *testing.T) {
	tree := []PipPackage{
		{PackageName: "requests", InstalledVersion: "2.31.0", Dependencies: []PipPackage{
			{PackageName: "idna", InstalledVersion: "3.4"},
		}},
		{PackageName: "httpx", InstalledVersion: "0.24.1", Dependencies: []PipPackage{
			{PackageName: "idna", InstalledVersion: "3.4"},
		}},
		{Key: "six", InstalledVersion: "1.16.0"},
	}

	g, err := Graph(tree)
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4 (idna shared)", g.NodeCount())
	}
	if g.InDegree("idna") != 2 {
		t.Errorf("InDegree(idna) = %d, want 2", g.InDegree("idna"))
	}
	if n, ok := g.Node("six"); !ok || n.Meta["version"] != "1.16.0" {
		t.Errorf("Node(six) = %+v, %v", n, ok)
	}
}

func TestSet(t *testing.T) {
	s := NewSet("b", "a")
	s.Add("c")
	if !s.Has("a") || s.Has("z") || s.Len() != 3 {
		t.Errorf("unexpected set %v", s)
	}
	var empty Set
	if empty.Has("a") || empty.Len() != 0 || len(empty.Sorted()) != 0 {
		t.Error("nil set should be empty")
	}
}
