package flow

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/maxcopeland/openml-go/pkg/errors"
	"github.com/maxcopeland/openml-go/pkg/estimator"
)

// constraintRE matches "name", "name==1.2.3", "name>=1.2" and "name>1".
// Versions carry one to three numeric segments.
var constraintRE = regexp.MustCompile(`^(?P<name>[\w\-]+)((?P<op>==|>=|>)(?P<version>\d+(\.\d+){0,2}))?$`)

// Constraint is one parsed dependency requirement. Op and Version are empty
// when the constraint names a package without pinning a version.
type Constraint struct {
	Name    string
	Op      string
	Version string
}

// String renders the constraint back to its wire form.
func (c Constraint) String() string {
	return c.Name + c.Op + c.Version
}

// ParseConstraint parses a single dependency constraint string.
func ParseConstraint(s string) (Constraint, error) {
	m := constraintRE.FindStringSubmatch(s)
	if m == nil {
		return Constraint{}, errors.New(errors.ErrCodeInvalidFlow, "cannot parse dependency constraint %q", s)
	}
	return Constraint{
		Name:    m[constraintRE.SubexpIndex("name")],
		Op:      m[constraintRE.SubexpIndex("op")],
		Version: m[constraintRE.SubexpIndex("version")],
	}, nil
}

// CompareVersions compares two dotted numeric versions segment by segment.
// Missing segments count as zero, so "0.19" equals "0.19.0". Returns -1, 0,
// or 1.
func CompareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	n := max(len(as), len(bs))
	for i := 0; i < n; i++ {
		av, bv := 0, 0
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

// FormatExternalVersion renders one "package==version" provenance entry.
func FormatExternalVersion(pkg, version string) string {
	return pkg + "==" + version
}

// Check verifies a newline-joined block of dependency constraints against
// the package-version registry. Every named package must be registered, and
// every pinned constraint must hold; the first violation fails the whole
// check. An empty block passes.
func Check(dependencies string) error {
	if dependencies == "" {
		return nil
	}
	for _, line := range strings.Split(dependencies, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c, err := ParseConstraint(line)
		if err != nil {
			return err
		}
		installed, err := estimator.PackageVersion(c.Name)
		if err != nil {
			return errors.Wrap(errors.ErrCodeDependencyMismatch, err,
				"dependency %s cannot be resolved", line)
		}
		if c.Op == "" {
			continue
		}
		cmp := CompareVersions(installed, c.Version)
		ok := false
		switch c.Op {
		case "==":
			ok = cmp == 0
		case ">":
			ok = cmp > 0
		case ">=":
			ok = cmp >= 0
		}
		if !ok {
			return errors.New(errors.ErrCodeDependencyMismatch,
				"dependency %s not satisfied (installed %s)", line, installed)
		}
	}
	return nil
}
