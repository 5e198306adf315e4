package node

import (
	"strings"
	"unique"
)

// PathSeparator joins the escaped segments of a path.
const PathSeparator = "/"

var segmentEscaper = strings.NewReplacer(`\`, `\\`, PathSeparator, `\`+PathSeparator)

// Path identifies a tree position. Paths are interned: two paths built from
// the same chain of segments compare equal with ==, and distinct chains never
// collide because every segment is escaped before joining.
type Path struct {
	h unique.Handle[string]
}

// RootPath returns the path of a root node.
func RootPath(name string) Path {
	return Path{h: unique.Make(escapeSegment(name))}
}

// Child derives the path of a node named segment below p. The zero path has
// no parent, so its children are roots.
func (p Path) Child(segment string) Path {
	if p.IsZero() {
		return RootPath(segment)
	}
	return Path{h: unique.Make(p.String() + PathSeparator + escapeSegment(segment))}
}

func (p Path) IsZero() bool {
	return p == Path{}
}

func (p Path) String() string {
	if p.IsZero() {
		return ""
	}
	return p.h.Value()
}

func escapeSegment(segment string) string {
	return segmentEscaper.Replace(segment)
}
