package estimator

import (
	"testing"

	"github.com/maxcopeland/openml-go/pkg/errors"
)

func TestIdentityString(t *testing.T) {
	tests := []struct {
		name string
		id   Identity
		want string
	}{
		{"module and class", Identity{Module: "sklearn.tree", Name: "DecisionTreeClassifier"}, "sklearn.tree.DecisionTreeClassifier"},
		{"bare class", Identity{Name: "Thing"}, "Thing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIdentityPackage(t *testing.T) {
	id := Identity{Module: "sklearn.model_selection", Name: "GridSearchCV"}
	if got := id.Package(); got != "sklearn" {
		t.Errorf("Package() = %q, want %q", got, "sklearn")
	}

	flat := Identity{Module: "numpy", Name: "ndarray"}
	if got := flat.Package(); got != "numpy" {
		t.Errorf("Package() = %q, want %q", got, "numpy")
	}
}

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		in         string
		wantModule string
		wantName   string
		wantErr    bool
	}{
		{"sklearn.tree.DecisionTreeClassifier", "sklearn.tree", "DecisionTreeClassifier", false},
		{"pkg.Class", "pkg", "Class", false},
		{"noclass", "", "", true},
		{"trailing.", "", "", true},
		{".leading", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			id, err := ParseIdentity(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseIdentity(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if id.Module != tt.wantModule || id.Name != tt.wantName {
				t.Errorf("ParseIdentity(%q) = %v, want {%s %s}", tt.in, id, tt.wantModule, tt.wantName)
			}
		})
	}
}

func TestConstructorRegistry(t *testing.T) {
	Register("test.registry.Widget", func(params map[string]any) (any, error) {
		return params["size"], nil
	})

	ctor, err := Lookup("test.registry.Widget")
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	got, err := ctor(map[string]any{"size": 3})
	if err != nil {
		t.Fatalf("ctor error: %v", err)
	}
	if got != 3 {
		t.Errorf("ctor result = %v, want 3", got)
	}

	_, err = Lookup("test.registry.Missing")
	if !errors.Is(err, errors.ErrCodeUnknownIdentity) {
		t.Errorf("Lookup missing: code = %q, want %q", errors.GetCode(err), errors.ErrCodeUnknownIdentity)
	}
}

func TestFunctionRegistry(t *testing.T) {
	fn := func(x int) int { return x * 2 }
	RegisterFunction("test.registry.double", fn)

	got, err := LookupFunction("test.registry.double")
	if err != nil {
		t.Fatalf("LookupFunction error: %v", err)
	}
	if got.(func(int) int)(21) != 42 {
		t.Error("resolved function does not behave like the registered one")
	}

	if _, err := LookupFunction("test.registry.missing"); err == nil {
		t.Error("LookupFunction should fail for unregistered names")
	}
}

func TestPackageRegistry(t *testing.T) {
	RegisterPackage("test-registry-pkg", "1.2.3")

	v, err := PackageVersion("test-registry-pkg")
	if err != nil {
		t.Fatalf("PackageVersion error: %v", err)
	}
	if v != "1.2.3" {
		t.Errorf("PackageVersion = %q, want %q", v, "1.2.3")
	}

	_, err = PackageVersion("test-registry-unknown")
	if !errors.Is(err, errors.ErrCodeUnknownPackage) {
		t.Errorf("missing package: code = %q, want %q", errors.GetCode(err), errors.ErrCodeUnknownPackage)
	}
}
