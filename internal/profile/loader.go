package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/veldrane/grim-arbiter/internal/geometry"
)

// Loader reads roster and terrain records from the read-only data
// layer, searching a directory fallback hierarchy in order.
type Loader struct {
	dataDirs []string
	resolver *Resolver
}

// NewLoader initializes a Loader over the given data directory
// hierarchy.
func NewLoader(dataDirs []string) *Loader {
	return &Loader{
		dataDirs: dataDirs,
		resolver: NewResolver(),
	}
}

// LoadUnit reads and normalizes one unit record from units/<name>.yaml.
func (l *Loader) LoadUnit(name string) (*CombatantSnapshot, error) {
	var raw RawUnit
	ref := filepath.Join("units", fmt.Sprintf("%s.yaml", fileName(name)))
	if err := l.load(ref, &raw); err != nil {
		return nil, err
	}
	return l.resolver.Unit(raw)
}

// LoadBoard reads one terrain set from boards/<name>.yaml.
func (l *Loader) LoadBoard(name string) (*geometry.Board, error) {
	var b geometry.Board
	ref := filepath.Join("boards", fmt.Sprintf("%s.yaml", fileName(name)))
	if err := l.load(ref, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Resolver exposes the loader's normalization boundary for callers
// that hold raw records of their own.
func (l *Loader) Resolver() *Resolver { return l.resolver }

func (l *Loader) load(ref string, target interface{}) error {
	for _, dir := range l.dataDirs {
		path := filepath.Join(dir, ref)
		f, err := os.Open(path)
		if err == nil {
			defer f.Close()
			decoder := yaml.NewDecoder(f)
			if err := decoder.Decode(target); err != nil {
				return fmt.Errorf("failed to decode yaml reference %s: %w", ref, err)
			}
			return nil
		}
	}
	return fmt.Errorf("could not find or open reference %s in any available data directory", ref)
}

func fileName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
