package manifest

import (
	"bufio"
	"io"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/gantrylabs/gantry/internal/errx"
)

// Version comparison operators recognized in requirement specifiers,
// ordered so that two-character operators are tried first.
var operators = []string{"===", "==", ">=", "<=", "!=", "~=", ">", "<"}

// A single version constraint within a requirement (e.g. ">=2.0").
type Constraint struct {
	Operator string // One of ==, >=, <=, !=, ~=, >, <, ===.
	Version  string // Version literal the operator applies to.
}

// One entry of the dependency manifest: a package name with zero or more
// version constraints.
type Requirement struct {
	Name        string       // Normalized (lowercased) package name.
	Extras      string       // Optional extras specifier (e.g. "standard").
	Constraints []Constraint // Version constraints, in declaration order.
	Marker      string       // Environment marker, verbatim, if present.
}

// Returns the pinned version when the requirement has exactly one "=="
// constraint whose version parses as semver.
func (r Requirement) Pin() (*semver.Version, bool) {
	if !r.isPin() {
		return nil, false
	}
	v, err := semver.NewVersion(r.Constraints[0].Version)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Reports whether the requirement is a single "==" pin.
func (r Requirement) isPin() bool {
	return len(r.Constraints) == 1 && r.Constraints[0].Operator == "=="
}

// Renders the constraints in declaration order (e.g. ">=1.0,<2.0").
func (r Requirement) constraintString() string {
	parts := make([]string, len(r.Constraints))
	for i, c := range r.Constraints {
		parts[i] = c.Operator + c.Version
	}
	return strings.Join(parts, ",")
}

// Reports whether the given version satisfies all of the requirement's
// constraints.
//
// Constraints are translated to semver syntax ("==" becomes "=", "~="
// becomes "~"). Versions or constraints that do not fit the semver model
// are treated as satisfied; the manifest is consumed by the package
// installer at build time, and this check only supports early diagnostics.
func (r Requirement) Satisfies(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return true
	}

	for _, c := range r.Constraints {
		expr := semverOperator(c.Operator) + c.Version
		cs, err := semver.NewConstraint(expr)
		if err != nil {
			continue
		}
		if !cs.Check(v) {
			return false
		}
	}
	return true
}

// Validates the pinned versions across a parsed manifest.
//
// Every "==" pin must carry a version that parses, and when the same
// package also appears with range constraints the pin must satisfy them.
// Either mistake would otherwise surface only as an installer failure
// deep inside the build container.
func validatePins(reqs []Requirement) error {
	pins := make(map[string]*semver.Version)
	for _, r := range reqs {
		if !r.isPin() {
			continue
		}
		v, ok := r.Pin()
		if !ok {
			return errx.Wrapf(ErrManifest, "%s: pinned version %q does not parse", r.Name, r.Constraints[0].Version)
		}
		pins[r.Name] = v
	}

	for _, r := range reqs {
		if r.isPin() {
			continue
		}
		v, pinned := pins[r.Name]
		if !pinned {
			continue
		}
		if !r.Satisfies(v.Original()) {
			return errx.Wrapf(ErrManifest, "%s: pin %s conflicts with %s", r.Name, v.Original(), r.constraintString())
		}
	}

	return nil
}

// Maps a requirement operator to its semver constraint equivalent.
func semverOperator(op string) string {
	switch op {
	case "==", "===":
		return "="
	case "~=":
		return "~"
	default:
		return op
	}
}

// Parses a dependency manifest in requirements.txt format.
//
// Blank lines and comment lines are skipped. Option lines (starting with
// "-", e.g. "-r other.txt" or "--index-url") are not expanded; they are
// skipped because the installer consumes the manifest file verbatim inside
// the build container. A line that cannot be parsed as a requirement fails
// the whole manifest.
func ParseRequirements(r io.Reader) ([]Requirement, error) {
	var reqs []Requirement

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := stripComment(scanner.Text())
		if text == "" || strings.HasPrefix(text, "-") {
			continue
		}

		req, err := parseRequirement(text)
		if err != nil {
			return nil, errx.Wrapf(ErrManifest, "line %d: %w", line, err)
		}
		reqs = append(reqs, req)
	}

	if err := scanner.Err(); err != nil {
		return nil, errx.Wrap(ErrManifest, err)
	}

	return reqs, nil
}

// Removes trailing comments and surrounding whitespace from a line.
func stripComment(s string) string {
	if i := strings.Index(s, "#"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Parses a single requirement specifier.
//
// Accepted shapes: "name", "name[extras]", "name==1.2.3",
// "name>=1.0,<2.0", and any of those followed by "; marker".
func parseRequirement(s string) (Requirement, error) {
	var req Requirement

	if spec, marker, ok := strings.Cut(s, ";"); ok {
		s = strings.TrimSpace(spec)
		req.Marker = strings.TrimSpace(marker)
	}

	name, spec := splitName(s)
	if name == "" {
		return Requirement{}, errx.Wrapf(ErrManifest, "empty package name in %q", s)
	}

	if i := strings.IndexByte(name, '['); i >= 0 {
		if !strings.HasSuffix(name, "]") {
			return Requirement{}, errx.Wrapf(ErrManifest, "unterminated extras in %q", name)
		}
		req.Extras = name[i+1 : len(name)-1]
		name = name[:i]
	}

	req.Name = strings.ToLower(name)

	for part := range strings.SplitSeq(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, err := parseConstraint(part)
		if err != nil {
			return Requirement{}, err
		}
		req.Constraints = append(req.Constraints, c)
	}

	return req, nil
}

// Splits a specifier into the name portion and the constraint portion.
//
// The name ends at the first comparison operator character.
func splitName(s string) (name, spec string) {
	i := strings.IndexAny(s, "=<>!~")
	if i < 0 {
		return strings.TrimSpace(s), ""
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i:])
}

// Parses a single "operator version" constraint.
func parseConstraint(s string) (Constraint, error) {
	for _, op := range operators {
		if strings.HasPrefix(s, op) {
			version := strings.TrimSpace(strings.TrimPrefix(s, op))
			if version == "" {
				return Constraint{}, errx.Wrapf(ErrManifest, "operator %q without version", op)
			}
			return Constraint{Operator: op, Version: version}, nil
		}
	}
	return Constraint{}, errx.Wrapf(ErrManifest, "unrecognized constraint %q", s)
}
