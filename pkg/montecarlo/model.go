package montecarlo

import (
	"sync/atomic"

	"github.com/limaJavier/shadowsearch/pkg/notify"
	"github.com/samber/lo"
)

// Variable domains are fixed at creation time: a Variable is never mutated once appended, which is what lets the
// sampling goroutine read domains without locking.
type Variable struct {
	Name string
	Min  int
	Max  int
}

// Monomial is a coefficient applied to the variable at index Var
type Monomial struct {
	Coeff int
	Var   int
}

// Constraint is a sum of monomials that must equal zero. Bilinear constraints are stored as exactly three monomials
// {(n, v0), (1, v1), (-1, v2)} standing for n*v0*v1 - v2.
type Constraint []Monomial

// Model is a read-only view over the mirrored variables and constraints. Every index held by a constraint of a Model
// refers to a variable of the same Model.
type Model struct {
	Variables []Variable
	Bilinear  []Constraint
	Linear    []Constraint
}

// Resolve returns the index of the variable called name
func (model Model) Resolve(name string) (int, error) {
	_, index, ok := lo.FindIndexOf(model.Variables, func(variable Variable) bool { return variable.Name == name })
	if !ok {
		return -1, ErrUnknownVariable
	}
	return index, nil
}

// mirror is the writer side of the model. Only the primary goroutine touches its slices and map; the sampling goroutine
// only ever sees the headers published through snapshot.
type mirror struct {
	variables []Variable
	bilinear  []Constraint
	linear    []Constraint
	indices   map[string]int
	snapshot  atomic.Pointer[Model]
}

func newMirror() *mirror {
	m := &mirror{indices: make(map[string]int)}
	m.publish()
	return m
}

// publish hands the current prefixes over to the reader. Capacities are clipped so that a later append on the writer
// side never writes into memory the reader can observe.
func (m *mirror) publish() {
	m.snapshot.Store(&Model{
		Variables: m.variables[:len(m.variables):len(m.variables)],
		Bilinear:  m.bilinear[:len(m.bilinear):len(m.bilinear)],
		Linear:    m.linear[:len(m.linear):len(m.linear)],
	})
}

func (m *mirror) model() Model {
	return *m.snapshot.Load()
}

func (m *mirror) addVariable(name string, min, max int) error {
	if _, ok := m.indices[name]; ok {
		return &ProtocolError{Op: "variable", Name: name, Reason: ErrDuplicateVariable}
	} else if min > max {
		return &ProtocolError{Op: "variable", Name: name, Reason: ErrInvalidDomain}
	}

	m.indices[name] = len(m.variables)
	m.variables = append(m.variables, Variable{Name: name, Min: min, Max: max})
	m.publish()
	return nil
}

func (m *mirror) resolve(op, name string) (int, error) {
	index, ok := m.indices[name]
	if !ok {
		return -1, &ProtocolError{Op: op, Name: name, Reason: ErrUnknownVariable}
	}
	return index, nil
}

// addBilinear mirrors n*v0*v1 == v2
func (m *mirror) addBilinear(n int, v0, v1 string, cmp notify.Comparison, v2 string) error {
	const op = "bilinear"
	if cmp != notify.CmpEqual {
		return &ProtocolError{Op: op, Reason: ErrUnsupportedComparison}
	}

	constraint := make(Constraint, 3)
	for i, term := range []notify.Monomial{{Coeff: n, VarName: v0}, {Coeff: 1, VarName: v1}, {Coeff: -1, VarName: v2}} {
		index, err := m.resolve(op, term.VarName)
		if err != nil {
			return err
		}
		constraint[i] = Monomial{Coeff: term.Coeff, Var: index}
	}

	m.bilinear = append(m.bilinear, constraint)
	m.publish()
	return nil
}

// addLinear mirrors SUM_i c_i*v_i == v0
func (m *mirror) addLinear(op string, terms []notify.Monomial, cmp notify.Comparison, v0 string) error {
	if cmp != notify.CmpEqual {
		return &ProtocolError{Op: op, Reason: ErrUnsupportedComparison}
	}

	constraint := make(Constraint, 0, len(terms)+1)
	for _, term := range append(terms[:len(terms):len(terms)], notify.Monomial{Coeff: -1, VarName: v0}) {
		index, err := m.resolve(op, term.VarName)
		if err != nil {
			return err
		}
		constraint = append(constraint, Monomial{Coeff: term.Coeff, Var: index})
	}

	m.linear = append(m.linear, constraint)
	m.publish()
	return nil
}
