package ast

import "github.com/riffle-lang/riffle/internal/name"

// slotKind tags which shape a named Parts entry holds: a single subtree, a
// uniform sequence of subtrees, or a further nested MBE.
type slotKind int

const (
	slotLeaf slotKind = iota
	slotSeq
	slotSub
)

type slot struct {
	kind slotKind
	leaf AST
	seq  []AST
	sub  *Parts
}

// Parts is the shape of a Form's grammar-produced contents: a
// multi-branched environment (MBE) of named slots, each holding a single
// subtree, a sequence of subtrees, or a further nested Parts.
type Parts struct {
	slots map[name.Name]slot
	order []name.Name
}

// NewParts returns an empty Parts, ready to be built up with the With*
// methods.
func NewParts() *Parts {
	return &Parts{slots: make(map[name.Name]slot)}
}

func (p *Parts) set(n name.Name, s slot) *Parts {
	if _, exists := p.slots[n]; !exists {
		p.order = append(p.order, n)
	}
	p.slots[n] = s
	return p
}

// WithLeaf binds n to a single subtree.
func (p *Parts) WithLeaf(n name.Name, a AST) *Parts { return p.set(n, slot{kind: slotLeaf, leaf: a}) }

// WithSeq binds n to a uniform sequence of subtrees.
func (p *Parts) WithSeq(n name.Name, as []AST) *Parts { return p.set(n, slot{kind: slotSeq, seq: as}) }

// WithSub binds n to a nested Parts (a grammar sub-structure with its own
// named slots, e.g. a repeated group of several named fields).
func (p *Parts) WithSub(n name.Name, sub *Parts) *Parts { return p.set(n, slot{kind: slotSub, sub: sub} ) }

// GetLeaf returns the subtree bound to n, if n is present and bound to a
// leaf slot.
func (p *Parts) GetLeaf(n name.Name) (AST, bool) {
	s, ok := p.slots[n]
	if !ok || s.kind != slotLeaf {
		return nil, false
	}
	return s.leaf, true
}

// GetLeafOrPanic is the ICE-raising variant used by custom walk rules that
// already know, from the Form's grammar, that n must be a leaf slot.
func (p *Parts) GetLeafOrPanic(n name.Name) AST {
	a, ok := p.GetLeaf(n)
	if !ok {
		panic("ICE: Parts slot " + n.String() + " is not a present leaf")
	}
	return a
}

// GetSeq returns the subtree sequence bound to n.
func (p *Parts) GetSeq(n name.Name) ([]AST, bool) {
	s, ok := p.slots[n]
	if !ok || s.kind != slotSeq {
		return nil, false
	}
	return s.seq, true
}

// GetSub returns the nested Parts bound to n.
func (p *Parts) GetSub(n name.Name) (*Parts, bool) {
	s, ok := p.slots[n]
	if !ok || s.kind != slotSub {
		return nil, false
	}
	return s.sub, true
}

// Names returns the slot names in the order they were first set.
func (p *Parts) Names() []name.Name {
	if p == nil {
		return nil
	}
	return p.order
}

// SameShape reports whether p and other bind exactly the same slot names
// with the same slot kinds (leaf vs. seq vs. sub) and, for sequences, the
// same arity. It does not compare the subtrees themselves. This is the
// check a LiteralLike rebuild or a Form/Parts ICE check relies on.
func (p *Parts) SameShape(other *Parts) bool {
	if p == nil || other == nil {
		return p == other
	}
	if len(p.order) != len(other.order) {
		return false
	}
	for n, s := range p.slots {
		os, ok := other.slots[n]
		if !ok || os.kind != s.kind {
			return false
		}
		if s.kind == slotSeq && len(s.seq) != len(os.seq) {
			return false
		}
	}
	return true
}

// MapLeaves rebuilds a Parts of the same shape, replacing every leaf
// (including every element of every sequence, and recursing into nested
// Parts) with f applied to it. This is exactly what a LiteralLike walk rule
// does: recurse structurally and rebuild a same-shaped node from the
// sub-results.
func (p *Parts) MapLeaves(f func(AST) (AST, error)) (*Parts, error) {
	out := NewParts()
	for _, n := range p.order {
		s := p.slots[n]
		switch s.kind {
		case slotLeaf:
			v, err := f(s.leaf)
			if err != nil {
				return nil, err
			}
			out.WithLeaf(n, v)
		case slotSeq:
			vs := make([]AST, len(s.seq))
			for i, a := range s.seq {
				v, err := f(a)
				if err != nil {
					return nil, err
				}
				vs[i] = v
			}
			out.WithSeq(n, vs)
		case slotSub:
			sub, err := s.sub.MapLeaves(f)
			if err != nil {
				return nil, err
			}
			out.WithSub(n, sub)
		}
	}
	return out, nil
}
