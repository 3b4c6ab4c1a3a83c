package term

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/subalg/algebra"
	"github.com/katalvlaran/subalg/tuple"
)

// ID addresses a node in an Arena.
type ID int32

// NoTerm marks the absence of a term.
const NoTerm ID = -1

// Sentinel errors.
var (
	// ErrUnknownTerm is returned for an ID that is not in the arena.
	ErrUnknownTerm = errors.New("term: unknown term id")

	// ErrUnboundVariable is returned when evaluation meets a variable with no value.
	ErrUnboundVariable = errors.New("term: unbound variable")

	// ErrUnknownOperation is returned when a node's operation index is out of range.
	ErrUnknownOperation = errors.New("term: unknown operation")
)

// Node is one arena entry: either a variable (Var >= 0) or an operation
// applied to earlier nodes.
type Node struct {
	Var     int
	Op      algebra.Symbol
	OpIndex int
	Args    []ID
}

// IsVar reports whether n is a variable leaf.
func (n Node) IsVar() bool { return n.Var >= 0 }

// Arena stores term nodes.
type Arena struct {
	nodes []Node
	vars  map[int]ID
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{vars: make(map[int]ID)}
}

// Var returns the leaf for variable index i, creating it once.
func (a *Arena) Var(i int) ID {
	if id, ok := a.vars[i]; ok {
		return id
	}
	id := ID(len(a.nodes))
	a.nodes = append(a.nodes, Node{Var: i, OpIndex: -1})
	a.vars[i] = id

	return id
}

// Apply appends sym(args...). opIndex is the position of the operation in
// the algebra's operation list and is what Eval dispatches on.
func (a *Arena) Apply(sym algebra.Symbol, opIndex int, args ...ID) ID {
	cp := make([]ID, len(args))
	copy(cp, args)
	id := ID(len(a.nodes))
	a.nodes = append(a.nodes, Node{Var: -1, Op: sym, OpIndex: opIndex, Args: cp})

	return id
}

// Len returns the number of nodes.
func (a *Arena) Len() int { return len(a.nodes) }

// Node returns the node for id.
func (a *Arena) Node(id ID) (Node, error) {
	if id < 0 || int(id) >= len(a.nodes) {
		return Node{}, fmt.Errorf("%w: %d", ErrUnknownTerm, id)
	}

	return a.nodes[id], nil
}

// Depth returns the height of the term: 0 for variables and constants.
func (a *Arena) Depth(id ID) int {
	memo := make(map[ID]int)
	var depth func(ID) int
	depth = func(x ID) int {
		if d, ok := memo[x]; ok {
			return d
		}
		n := a.nodes[x]
		d := 0
		for _, c := range n.Args {
			if cd := depth(c) + 1; cd > d {
				d = cd
			}
		}
		memo[x] = d

		return d
	}

	return depth(id)
}

// String renders id as "join(x0,meet(x0,x1))". names[i] replaces the default
// variable name "x<i>" when present.
func (a *Arena) String(id ID, names []string) string {
	if id < 0 || int(id) >= len(a.nodes) {
		return "<none>"
	}
	var sb strings.Builder
	a.write(&sb, id, names)

	return sb.String()
}

func (a *Arena) write(sb *strings.Builder, id ID, names []string) {
	n := a.nodes[id]
	if n.IsVar() {
		if n.Var < len(names) && names[n.Var] != "" {
			sb.WriteString(names[n.Var])
			return
		}
		sb.WriteByte('x')
		sb.WriteString(strconv.Itoa(n.Var))
		return
	}
	sb.WriteString(n.Op.Name)
	if len(n.Args) == 0 {
		return
	}
	sb.WriteByte('(')
	for i, c := range n.Args {
		if i > 0 {
			sb.WriteByte(',')
		}
		a.write(sb, c, names)
	}
	sb.WriteByte(')')
}

// Eval evaluates id over ops, substituting vars[i] for variable i.
// Shared subterms are evaluated once.
func (a *Arena) Eval(id ID, ops []algebra.Operation, vars []tuple.Tuple) (tuple.Tuple, error) {
	if id < 0 || int(id) >= len(a.nodes) {
		return tuple.Tuple{}, fmt.Errorf("%w: %d", ErrUnknownTerm, id)
	}
	memo := make(map[ID]tuple.Tuple)

	return a.eval(id, ops, vars, memo)
}

func (a *Arena) eval(id ID, ops []algebra.Operation, vars []tuple.Tuple, memo map[ID]tuple.Tuple) (tuple.Tuple, error) {
	if v, ok := memo[id]; ok {
		return v, nil
	}
	n := a.nodes[id]
	if n.IsVar() {
		if n.Var >= len(vars) {
			return tuple.Tuple{}, fmt.Errorf("%w: x%d", ErrUnboundVariable, n.Var)
		}
		memo[id] = vars[n.Var]

		return vars[n.Var], nil
	}
	if n.OpIndex < 0 || n.OpIndex >= len(ops) {
		return tuple.Tuple{}, fmt.Errorf("%w: %s at index %d", ErrUnknownOperation, n.Op, n.OpIndex)
	}
	args := make([]tuple.Tuple, len(n.Args))
	for i, c := range n.Args {
		v, err := a.eval(c, ops, vars, memo)
		if err != nil {
			return tuple.Tuple{}, err
		}
		args[i] = v
	}
	v, err := ops[n.OpIndex].Apply(args)
	if err != nil {
		return tuple.Tuple{}, fmt.Errorf("term: evaluate %s: %w", n.Op, err)
	}
	memo[id] = v

	return v, nil
}

// Equation is a pair of terms claimed equal.
type Equation struct {
	Left  ID
	Right ID
}

// String renders the equation as "left = right".
func (e Equation) String(a *Arena, names []string) string {
	return a.String(e.Left, names) + " = " + a.String(e.Right, names)
}
