package algebra

import "fmt"

// BA2 returns the two-element Boolean algebra with operations
// join/2, meet/2, neg/1, zero/0 and one/0.
func BA2() *Basic {
	a, err := NewBasic("ba2", 2,
		MustOpFunc("join", 2, 2, func(x []int) int { return x[0] | x[1] }),
		MustOpFunc("meet", 2, 2, func(x []int) int { return x[0] & x[1] }),
		MustOpFunc("neg", 1, 2, func(x []int) int { return 1 - x[0] }),
		MustOpFunc("zero", 0, 2, func([]int) int { return 0 }),
		MustOpFunc("one", 0, 2, func([]int) int { return 1 }),
	)
	if err != nil {
		panic(err)
	}

	return a
}

// Cyclic returns the group Z_n with plus/2, neg/1 and zero/0.
func Cyclic(n int) (*Basic, error) {
	if n <= 0 {
		return nil, ErrEmptyUniverse
	}
	plus, err := NewOpFunc("plus", 2, n, func(x []int) int { return (x[0] + x[1]) % n })
	if err != nil {
		return nil, err
	}
	neg, err := NewOpFunc("neg", 1, n, func(x []int) int { return (n - x[0]) % n })
	if err != nil {
		return nil, err
	}
	zero, err := NewOpFunc("zero", 0, n, func([]int) int { return 0 })
	if err != nil {
		return nil, err
	}

	return NewBasic(fmt.Sprintf("z%d", n), n, plus, neg, zero)
}

// Semilattice returns the chain {0..n-1} with join = max.
func Semilattice(n int) (*Basic, error) {
	if n <= 0 {
		return nil, ErrEmptyUniverse
	}
	join, err := NewOpFunc("join", 2, n, func(x []int) int { return max(x[0], x[1]) })
	if err != nil {
		return nil, err
	}

	return NewBasic(fmt.Sprintf("sl%d", n), n, join)
}

// Trivial returns the set {0..n-1} with no operations.
func Trivial(n int) (*Basic, error) {
	return NewBasic(fmt.Sprintf("set%d", n), n)
}

// Builtin resolves a built-in algebra by name: "ba2", "cyclic", "semilattice"
// or "trivial". size is ignored for ba2.
func Builtin(name string, size int) (*Basic, error) {
	switch name {
	case "ba2":
		return BA2(), nil
	case "cyclic":
		return Cyclic(size)
	case "semilattice":
		return Semilattice(size)
	case "trivial":
		return Trivial(size)
	default:
		return nil, fmt.Errorf("algebra: unknown builtin %q", name)
	}
}
