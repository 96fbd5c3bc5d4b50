package dpu

import (
	"fmt"
	"slices"
)

type blockKey struct {
	kind Kind
	id   int
}

// Registry holds every block of one region, built from capability tables.
type Registry struct {
	region *Region
	opts   []BlockOption
	blocks map[blockKey]*Block
	order  []*Block
}

// NewRegistry returns an empty registry for r. opts are applied to every
// block it creates.
func NewRegistry(r *Region, opts ...BlockOption) *Registry {
	return &Registry{
		region: r,
		opts:   opts,
		blocks: make(map[blockKey]*Block),
	}
}

// Add creates one block from c. It fails with ErrDuplicateBlock when a
// block of the same kind and id already exists.
func (reg *Registry) Add(kind Kind, c Capability) (*Block, error) {
	k := blockKey{kind, c.ID}
	if _, ok := reg.blocks[k]; ok {
		return nil, fmt.Errorf("%w: %s id %d", ErrDuplicateBlock, kind, c.ID)
	}
	b, err := InitBlock(kind, c, reg.region, reg.opts...)
	if err != nil {
		return nil, err
	}
	reg.blocks[k] = b
	reg.order = append(reg.order, b)
	return b, nil
}

// AddAll creates a block for every capability in caps. It stops at the
// first failure and releases the blocks it created in this call.
func (reg *Registry) AddAll(kind Kind, caps []Capability) error {
	var added []*Block
	for _, c := range caps {
		b, err := reg.Add(kind, c)
		if err != nil {
			for _, a := range added {
				reg.remove(a)
			}
			return fmt.Errorf("dpu: %s capability %q: %w", kind, c.Name, err)
		}
		added = append(added, b)
	}
	return nil
}

// Lookup returns the block of the given kind and id.
func (reg *Registry) Lookup(kind Kind, id int) (*Block, bool) {
	b, ok := reg.blocks[blockKey{kind, id}]
	return b, ok
}

// Get is like Lookup but returns ErrNullBlock for a missing block.
func (reg *Registry) Get(kind Kind, id int) (*Block, error) {
	b, ok := reg.Lookup(kind, id)
	if !ok {
		return nil, fmt.Errorf("%w: no %s with id %d", ErrNullBlock, kind, id)
	}
	return b, nil
}

// Blocks returns the blocks of kind ordered by id.
func (reg *Registry) Blocks(kind Kind) []*Block {
	var out []*Block
	for _, b := range reg.order {
		if b.kind == kind {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b *Block) int { return a.id - b.id })
	return out
}

// Len returns the number of live blocks.
func (reg *Registry) Len() int { return len(reg.order) }

// Close releases every block in reverse creation order.
func (reg *Registry) Close() error {
	for i := len(reg.order) - 1; i >= 0; i-- {
		DeinitBlock(reg.order[i])
	}
	reg.order = nil
	clear(reg.blocks)
	return nil
}

func (reg *Registry) remove(b *Block) {
	delete(reg.blocks, blockKey{b.kind, b.id})
	reg.order = slices.DeleteFunc(reg.order, func(x *Block) bool { return x == b })
	DeinitBlock(b)
}

// errWrongKind builds the error returned by the typed views.
func errWrongKind(b *Block, want string) error {
	if b.Released() {
		return ErrNullBlock
	}
	return fmt.Errorf("%w: %s is a %s block, not %s", ErrUnsupportedOnBlock, b.name, b.kind, want)
}
