package synth

import (
	"strings"

	"golang.org/x/mod/module"

	"github.com/sublee/typeeq/internal/typeeq/parse"
)

// hint explains a common cause of a mismatch. It is a format string for
// [codefmt.Errorf] with its arguments.
type hint struct {
	format string
	args   []any
}

// hints explains why the types of two references are not identical, as far as
// the cause is recognizable.
func hints(canonical, ref parse.Reference) []hint {
	c, o := canonical.Info, ref.Info

	if c.PointerDepth() != o.PointerDepth() && c.Deref().Identical(o.Deref()) {
		return []hint{{
			"pointer indirections differ: %d and %d",
			[]any{c.PointerDepth(), o.PointerDepth()},
		}}
	}

	c, o = c.Deref(), o.Deref()
	if !c.IsNamed() || !o.IsNamed() {
		return nil
	}

	var hs []hint

	if c.SameOrigin(o) {
		hs = append(hs, hint{
			"both instantiate %o with different type arguments",
			[]any{c.Origin()},
		})
		// The origin is identical. Its module and declaration are shared.
		return hs
	}

	if c.Name() != o.Name() || c.Pkg() == nil || o.Pkg() == nil {
		return nil
	}

	if modA, modB, ok := majorVersions(c.Pkg().Path(), o.Pkg().Path()); ok {
		hs = append(hs, hint{
			"%s and %s are different major versions of the same module",
			[]any{modA, modB},
		})
	}

	if c.Pos().IsValid() && o.Pos().IsValid() {
		hs = append(hs, hint{
			"declared separately at %b and %b",
			[]any{c.Pos(), o.Pos()},
		})
	}

	return hs
}

// majorVersions returns the module paths of two package paths if they differ
// only in the major version suffix of their module.
//
// e.g., majorVersions("example.com/geo/sub", "example.com/geo/v2/sub") => "example.com/geo", "example.com/geo/v2", true
func majorVersions(a, b string) (string, string, bool) {
	if a == b {
		return "", "", false
	}

	baseA, modA, restA := splitMajor(a)
	baseB, modB, restB := splitMajor(b)
	if baseA+restA != baseB+restB {
		return "", "", false
	}

	// A path without a major version suffix belongs to the v0 or v1 module
	// whose path is the base of the other.
	if modA == "" {
		modA = strings.TrimSuffix(a, restB)
	}
	if modB == "" {
		modB = strings.TrimSuffix(b, restA)
	}
	if modA == modB {
		return "", "", false
	}
	return modA, modB, true
}

// splitMajor finds the longest prefix of the package path which is a module
// path with a major version suffix. It returns the prefix without the suffix,
// the prefix, and the rest of the path. If there is no such prefix, it returns
// the path with empty strings.
//
// e.g., splitMajor("example.com/geo/v2/sub") => "example.com/geo", "example.com/geo/v2", "/sub"
func splitMajor(path string) (base, mod, rest string) {
	for i := len(path); i > 0; i = strings.LastIndexByte(path[:i], '/') {
		prefix, major, ok := module.SplitPathVersion(path[:i])
		if ok && major != "" {
			return prefix, path[:i], path[i:]
		}
	}
	return path, "", ""
}
