// Package content names the game-content folders mcsync manages.
package content

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind identifies one managed content folder. Its string value is the
// folder name under both the source and destination roots.
type Kind string

// Managed folder kinds.
const (
	Mods          Kind = "mods"
	ResourcePacks Kind = "resourcepacks"
	ShaderPacks   Kind = "shaderpacks"
)

// ErrUnknownKind is returned by Parse for names outside the managed set.
var ErrUnknownKind = errors.New("unknown folder")

// Kinds returns every managed kind in processing order.
func Kinds() []Kind {
	return []Kind{Mods, ResourcePacks, ShaderPacks}
}

// Valid reports whether k is one of the managed kinds.
func (k Kind) Valid() bool {
	switch k {
	case Mods, ResourcePacks, ShaderPacks:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }

// Parse converts a folder name to a Kind.
func Parse(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	if !k.Valid() {
		return "", errors.Wrapf(ErrUnknownKind, "%q (valid: %s)", name, strings.Join(Names(), ", "))
	}
	return k, nil
}

// ParseAll converts names to kinds, preserving processing order and
// dropping duplicates. An empty input selects every kind.
func ParseAll(names []string) ([]Kind, error) {
	if len(names) == 0 {
		return Kinds(), nil
	}
	selected := make(map[Kind]bool, len(names))
	for _, n := range names {
		k, err := Parse(n)
		if err != nil {
			return nil, err
		}
		selected[k] = true
	}
	var out []Kind
	for _, k := range Kinds() {
		if selected[k] {
			out = append(out, k)
		}
	}
	return out, nil
}

// Names returns the string names of every kind.
func Names() []string {
	return Strings(Kinds())
}

// Strings converts kinds to their names.
func Strings(kinds []Kind) []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

// FolderSpec says whether a kind takes part in a sync run.
type FolderSpec struct {
	Kind    Kind
	Enabled bool
}
