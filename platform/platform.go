// Package platform loads DPU descriptions from YAML: the platform file
// lists the register region and every block capability, and the frame file
// describes one scene configuration to apply.
package platform

import (
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/dpu"
	"github.com/gogpu/dpu/mmio"
)

// Platform is the static description of one DPU.
type Platform struct {
	Name   string                 `yaml:"name"`
	Region RegionSpec             `yaml:"region"`
	Blocks map[string][]BlockSpec `yaml:"blocks"`
}

// RegionSpec describes the register region.
type RegionSpec struct {
	Base   uint64 `yaml:"base"`
	Length uint32 `yaml:"length"`
}

// BlockSpec is the YAML form of dpu.Capability.
type BlockSpec struct {
	Name     string   `yaml:"name"`
	ID       int      `yaml:"id"`
	Offset   uint32   `yaml:"offset"`
	Length   uint32   `yaml:"length"`
	Mirror   uint32   `yaml:"mirror,omitempty"`
	Features []string `yaml:"features,omitempty"`
}

// Capability converts the entry to a dpu capability.
func (s BlockSpec) Capability() (dpu.Capability, error) {
	var f dpu.Feature
	for _, name := range s.Features {
		bit, err := dpu.ParseFeature(name)
		if err != nil {
			return dpu.Capability{}, fmt.Errorf("platform: block %q: %w", s.Name, err)
		}
		f |= bit
	}
	return dpu.Capability{
		Name:     s.Name,
		ID:       s.ID,
		Offset:   s.Offset,
		Length:   s.Length,
		Features: f,
		Mirror:   s.Mirror,
	}, nil
}

// Load decodes a platform description from r.
func Load(r io.Reader) (*Platform, error) {
	var p Platform
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("platform: decode: %w", err)
	}
	if p.Region.Length == 0 {
		return nil, fmt.Errorf("platform: %q: region length is missing", p.Name)
	}
	return &p, nil
}

// LoadFile decodes the platform description at path.
func LoadFile(path string) (*Platform, error) {
	f, err := os.Open(path) // #nosec G304 -- path is operator supplied
	if err != nil {
		return nil, fmt.Errorf("platform: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Capabilities converts the block table, keyed by kind. Kind names are
// visited in sorted order so errors are reported deterministically.
func (p *Platform) Capabilities() (map[dpu.Kind][]dpu.Capability, error) {
	names := make([]string, 0, len(p.Blocks))
	for name := range p.Blocks {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make(map[dpu.Kind][]dpu.Capability, len(names))
	for _, name := range names {
		kind, err := dpu.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("platform: %w", err)
		}
		for _, spec := range p.Blocks[name] {
			c, err := spec.Capability()
			if err != nil {
				return nil, err
			}
			out[kind] = append(out[kind], c)
		}
	}
	return out, nil
}

// Build creates the region over w and a registry holding every block.
func (p *Platform) Build(w mmio.Window, ropts []dpu.RegionOption, bopts ...dpu.BlockOption) (*dpu.Registry, error) {
	caps, err := p.Capabilities()
	if err != nil {
		return nil, err
	}
	r, err := dpu.NewRegion(p.Region.Base, w, p.Region.Length, ropts...)
	if err != nil {
		return nil, fmt.Errorf("platform: %q: %w", p.Name, err)
	}
	reg := dpu.NewRegistry(r, bopts...)
	for _, kind := range dpu.Kinds() {
		if err := reg.AddAll(kind, caps[kind]); err != nil {
			_ = reg.Close()
			return nil, fmt.Errorf("platform: %q: %w", p.Name, err)
		}
	}
	dpu.Logger().Debug("platform: built", "name", p.Name, "blocks", reg.Len())
	return reg, nil
}
