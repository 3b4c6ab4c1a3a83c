package job

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the YAML shape of a job file:
//
//	algebra: {builtin: ba2}
//	power: 3
//	generators: [[0, 0, 1], [0, 1, 1]]
//	constraints:
//	  blocks: [[0, 1]]
//	  fixed: [{index: 2, value: 1}]
//	terms: true
//	target: [1, 1, 1]
//	limits: {max_size: 100000, time_limit: 30s}
//	workers: 4
type Config struct {
	Algebra       AlgebraSpec       `yaml:"algebra"`
	Power         int               `yaml:"power" validate:"gte=0,lte=16777216"`
	Generators    [][]int           `yaml:"generators" validate:"required_without=Find,dive,min=1,dive,gte=0"`
	Constraints   ConstraintSpec    `yaml:"constraints"`
	Terms         bool              `yaml:"terms"`
	Target        []int             `yaml:"target" validate:"omitempty,dive,gte=0"`
	Homomorphism  *HomomorphismSpec `yaml:"homomorphism"`
	Find          []OperationSpec   `yaml:"find" validate:"dive"`
	Limits        LimitSpec         `yaml:"limits"`
	Workers       int               `yaml:"workers" validate:"gte=0,lte=1024"`
	VariableNames []string          `yaml:"variable_names"`
}

// AlgebraSpec names a basic algebra: a YAML file (relative to the job file),
// a built-in, or an inline definition in the algebra file format. Exactly
// one source must be given.
type AlgebraSpec struct {
	File    string    `yaml:"file"`
	Builtin string    `yaml:"builtin" validate:"omitempty,oneof=ba2 cyclic semilattice trivial"`
	Size    int       `yaml:"size" validate:"gte=0"`
	Inline  yaml.Node `yaml:"inline" validate:"-"`
}

// ConstraintSpec lists pruning rules; all are optional.
type ConstraintSpec struct {
	Blocks     [][]int          `yaml:"blocks" validate:"dive,min=1,dive,gte=0"`
	Fixed      []FixedSpec      `yaml:"fixed" validate:"dive"`
	Membership []MembershipSpec `yaml:"membership" validate:"dive"`
	Congruence []CongruenceSpec `yaml:"congruence" validate:"dive"`
}

// FixedSpec forces coordinate Index to Value.
type FixedSpec struct {
	Index int `yaml:"index" validate:"gte=0"`
	Value int `yaml:"value" validate:"gte=0"`
}

// MembershipSpec restricts coordinate Index to Values.
type MembershipSpec struct {
	Index  int   `yaml:"index" validate:"gte=0"`
	Values []int `yaml:"values" validate:"min=1,dive,gte=0"`
}

// CongruenceSpec restricts coordinate Index to the block of Element under
// the partition given by Blocks.
type CongruenceSpec struct {
	Blocks  [][]int `yaml:"blocks" validate:"min=1,dive,min=1,dive,gte=0"`
	Index   int     `yaml:"index" validate:"gte=0"`
	Element int     `yaml:"element" validate:"gte=0"`
}

// HomomorphismSpec maps generator i to Images[i] in Image (or Image^Power).
type HomomorphismSpec struct {
	Image  AlgebraSpec `yaml:"image"`
	Power  int         `yaml:"power" validate:"gte=0"`
	Images [][]int     `yaml:"images" validate:"required,dive,min=1,dive,gte=0"`
}

// OperationSpec is a target operation on the job's base algebra.
type OperationSpec struct {
	Symbol string `yaml:"symbol" validate:"required"`
	Arity  int    `yaml:"arity" validate:"gte=0"`
	Table  []int  `yaml:"table" validate:"required,dive,gte=0"`
}

// LimitSpec bounds the run; zero disables a bound.
type LimitSpec struct {
	MaxSize   int           `yaml:"max_size" validate:"gte=0"`
	MaxPasses int           `yaml:"max_passes" validate:"gte=0"`
	TimeLimit time.Duration `yaml:"time_limit" validate:"gte=0"`
}

// jobValidate is shared; validator caches struct metadata.
var jobValidate = validator.New()

// Validate checks field-level rules. Cross-field rules that need the
// algebra (coordinate counts, value ranges) are checked when the job is built.
func (c *Config) Validate() error {
	return jobValidate.Struct(c)
}
