package inventory

import (
	"context"
	"testing"

	"github.com/matzehuels/conda-pip-minimal/pkg/env"
	"github.com/matzehuels/conda-pip-minimal/pkg/errors"
	"github.com/matzehuels/conda-pip-minimal/pkg/tool"
	"github.com/matzehuels/conda-pip-minimal/pkg/tool/tooltest"
)

const condaListJSON = `[
  {"base_url": "https://conda.anaconda.org/conda-forge", "build_number": 0, "build_string": "hab00c5b_0_cpython",
   "channel": "conda-forge", "dist_name": "python-3.11.4-hab00c5b_0_cpython", "name": "python",
   "platform": "linux-64", "version": "3.11.4"},
  {"channel": "conda-forge", "name": "pip", "version": "23.0"},
  {"channel": "pypi", "name": "requests", "version": "2.31.0", "build_string": "pypi_0"}
]`

func TestFetch(t *testing.T) {
	fake := tooltest.NewFake().On("conda list --name ds --json", condaListJSON)

	inv, err := Fetch(context.Background(), fake, tool.DefaultSet().Conda, env.Named("ds"))
	if err != nil {
		t.Fatal(err)
	}
	if inv.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", inv.Len())
	}

	py, ok := inv.Lookup("python")
	if !ok || py.Version != "3.11.4" || py.Origin != "conda-forge" || py.IsPip() {
		t.Errorf("Lookup(python) = %+v, %v", py, ok)
	}
	req, _ := inv.Lookup("requests")
	if !req.IsPip() {
		t.Errorf("requests should be a pip package: %+v", req)
	}
	if inv.Has("numpy") {
		t.Error("Has(numpy) = true")
	}

	recs := inv.Records()
	if recs[0].Name != "pip" || recs[2].Name != "requests" {
		t.Errorf("Records() not sorted: %v", recs)
	}
}

func TestFetchInvalidEnvironment(t *testing.T) {
	tests := []struct {
		name string
		fake *tooltest.Fake
	}{
		{
			name: "conda fails",
			fake: tooltest.NewFake().Fail("conda list --prefix /nope --json",
				errors.New(errors.ErrCodeToolInvocation, "exited with status 1")),
		},
		{
			name: "garbage output",
			fake: tooltest.NewFake().On("conda list --prefix /nope --json", "EnvironmentLocationNotFound"),
		},
		{
			name: "nameless record",
			fake: tooltest.NewFake().On("conda list --prefix /nope --json", `[{"version": "1.0"}]`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fetch(context.Background(), tt.fake, tool.DefaultSet().Conda, env.AtPrefix("/nope"))
			if !errors.Is(err, errors.ErrCodeInvalidEnvironment) {
				t.Errorf("Fetch() error = %v, want INVALID_ENVIRONMENT", err)
			}
		})
	}
}

func TestNilInventory(t *testing.T) {
	var inv *Inventory
	if inv.Len() != 0 || inv.Has("x") || inv.Records() != nil {
		t.Error("nil inventory should behave as empty")
	}
}

func TestNewLaterRecordWins(t *testing.T) {
	inv := New(PackageRecord{Name: "a", Version: "1"}, PackageRecord{Name: "a", Version: "2"})
	if p, _ := inv.Lookup("a"); p.Version != "2" {
		t.Errorf("Lookup(a).Version = %q, want 2", p.Version)
	}
}

func TestLookupNormalized(t *testing.T) {
	inv := New(
		PackageRecord{Name: "pyyaml", Version: "6.0.1", Origin: OriginPyPI},
		PackageRecord{Name: "typing_extensions", Version: "4.7.1", Origin: "conda-forge"},
	)
	tests := []struct {
		query, want string
	}{
		{"pyyaml", "pyyaml"},
		{"PyYAML", "pyyaml"},
		{"typing-extensions", "typing_extensions"},
		{"Typing.Extensions", "typing_extensions"},
	}
	for _, tt := range tests {
		got, ok := inv.Lookup(tt.query)
		if !ok || got.Name != tt.want {
			t.Errorf("Lookup(%q) = %+v, %v; want name %q", tt.query, got, ok, tt.want)
		}
	}
	if _, ok := inv.Lookup("yaml"); ok {
		t.Error("Lookup(yaml) should miss")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Django", "django"},
		{"zope.interface", "zope-interface"},
		{"ruamel.yaml.clib", "ruamel-yaml-clib"},
		{"foo__bar--baz", "foo-bar-baz"},
		{"scikit-learn", "scikit-learn"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
