package closure

import (
	"fmt"

	"github.com/katalvlaran/subalg/algebra"
	"github.com/katalvlaran/subalg/tuple"
)

// homomorphism carries the image of every accepted tuple, indexed like the
// accepted set, and evaluates derivations in the image algebra.
type homomorphism struct {
	ops    []algebra.Operation
	cards  []int
	gens   []tuple.Tuple
	images []tuple.Tuple
	args   []tuple.Tuple
}

func newHomomorphism(alg, img algebra.Algebra, images []tuple.Tuple, generators int) (*homomorphism, error) {
	if len(images) != generators {
		return nil, configErrorf(ErrBadHomomorphism, "%d images for %d generators", len(images), generators)
	}
	if !algebra.SameSignature(alg, img) {
		return nil, configErrorf(ErrBadHomomorphism, "signature of %s differs from %s", img.Name(), alg.Name())
	}
	cards := img.Cardinalities()
	for i, t := range images {
		if err := algebra.CheckElement(cards, t); err != nil {
			return nil, fmt.Errorf("%w: image %d: %w", ErrBadHomomorphism, i, err)
		}
	}

	return &homomorphism{
		ops:    img.Operations(),
		cards:  cards,
		gens:   images,
		images: make([]tuple.Tuple, 0, generators),
	}, nil
}

// image applies image operation j to the images of the tuples at idx.
func (h *homomorphism) image(j int, idx []int) (tuple.Tuple, error) {
	if cap(h.args) < len(idx) {
		h.args = make([]tuple.Tuple, len(idx))
	}
	args := h.args[:len(idx)]
	for q, i := range idx {
		args[q] = h.images[i]
	}
	t, err := h.ops[j].Apply(args)
	if err != nil {
		return tuple.Tuple{}, fmt.Errorf("%w: image %s: %w", ErrInternal, h.ops[j].Symbol(), err)
	}
	if err := algebra.CheckElement(h.cards, t); err != nil {
		return tuple.Tuple{}, fmt.Errorf("%w: image %s: %w", ErrInternal, h.ops[j].Symbol(), err)
	}

	return t, nil
}
