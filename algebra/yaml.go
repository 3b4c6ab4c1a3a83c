package algebra

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// fileOp is the YAML shape of one operation.
type fileOp struct {
	Symbol string `yaml:"symbol"`
	Arity  int    `yaml:"arity"`
	Table  []int  `yaml:"table"`
}

// fileAlgebra is the YAML shape of a basic algebra:
//
//	name: ba2
//	size: 2
//	operations:
//	  - symbol: join
//	    arity: 2
//	    table: [0, 1, 1, 1]
type fileAlgebra struct {
	Name       string   `yaml:"name"`
	Size       int      `yaml:"size"`
	Operations []fileOp `yaml:"operations"`
}

// ReadYAML decodes a basic algebra from r.
func ReadYAML(r io.Reader) (*Basic, error) {
	var fa fileAlgebra
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fa); err != nil {
		return nil, fmt.Errorf("algebra: decode yaml: %w", err)
	}

	return fa.build()
}

// DecodeYAMLNode decodes a basic algebra from an already parsed YAML node,
// as found inside a larger document.
func DecodeYAMLNode(n *yaml.Node) (*Basic, error) {
	var fa fileAlgebra
	if err := n.Decode(&fa); err != nil {
		return nil, fmt.Errorf("algebra: decode yaml: %w", err)
	}

	return fa.build()
}

func (fa fileAlgebra) build() (*Basic, error) {
	ops := make([]*TableOp, 0, len(fa.Operations))
	for _, fo := range fa.Operations {
		op, err := NewTableOp(fo.Symbol, fo.Arity, fa.Size, fo.Table)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	return NewBasic(fa.Name, fa.Size, ops...)
}

// WriteYAML encodes a in the format read by ReadYAML.
func WriteYAML(w io.Writer, a *Basic) error {
	fa := fileAlgebra{Name: a.name, Size: a.size, Operations: make([]fileOp, len(a.ops))}
	for i, op := range a.ops {
		fa.Operations[i] = fileOp{Symbol: op.sym.Name, Arity: op.sym.Arity, Table: op.Table()}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(fa); err != nil {
		return fmt.Errorf("algebra: encode yaml: %w", err)
	}

	return enc.Close()
}
