package problem

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/limaJavier/shadowsearch/pkg/notify"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

const (
	KindEquality    = "eq"       // vars[0] == value
	KindAnd         = "and"      // p0vars[0] && p1vars[1] <cmp> result
	KindOr          = "or"       // p0vars[0] || p1vars[1] <cmp> result
	KindImplication = "imp"      // p0vars[0] >> p1vars[1] <cmp> result
	KindXor         = "xor"      // p0vars[0] ^ p1vars[1] <cmp> result
	KindPlus        = "plus"     // terms[0] + terms[1] <cmp> result
	KindBilinear    = "bilinear" // coeff*vars[0]*vars[1] <cmp> result
	KindLinear      = "linear"   // SUM terms <cmp> result
)

var validKinds = []string{KindEquality, KindAnd, KindOr, KindImplication, KindXor, KindPlus, KindBilinear, KindLinear}

type Variable struct {
	Name      string `json:"name"`
	Min       int    `json:"min"`
	Max       int    `json:"max"`
	Aux       bool   `json:"aux,omitempty"`       // Auxiliary variables are not part of the binder
	Universal bool   `json:"universal,omitempty"` // Binder variables are existential unless stated otherwise
}

type Term struct {
	Coeff int    `json:"coeff"`
	Var   string `json:"var"`
}

type Constraint struct {
	Kind       string            `json:"kind"`
	Coeff      int               `json:"coeff,omitempty"`
	Value      int               `json:"value,omitempty"`
	Vars       []string          `json:"vars,omitempty"`
	Polarity   []bool            `json:"polarity,omitempty"`
	Terms      []Term            `json:"terms,omitempty"`
	Cmp        string            `json:"cmp,omitempty"`
	Result     string            `json:"result,omitempty"`
	comparison notify.Comparison
}

type Problem struct {
	Variables   []Variable   `json:"variables"`
	Constraints []Constraint `json:"constraints"`
}

// FromJson reads a problem description from file
func FromJson(file string) (Problem, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Problem{}, fmt.Errorf("cannot read problem file: %w", err)
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return Problem{}, fmt.Errorf("cannot parse problem file %v: %w", file, err)
	}

	var problem Problem
	if err := mapstructure.Decode(inputJson, &problem); err != nil {
		return Problem{}, fmt.Errorf("invalid problem file %v: %w", file, err)
	}
	return problem, problem.Normalize()
}

// Normalize fills the defaults of every constraint (polarities, coefficient, comparison) and checks that each one is
// well shaped. Variable names are not checked: observers are in charge of detecting undefined names.
func (problem *Problem) Normalize() error {
	if variable, ok := lo.Find(problem.Variables, func(variable Variable) bool { return variable.Min > variable.Max }); ok {
		return fmt.Errorf("variable %v has an empty domain [%d..%d]", variable.Name, variable.Min, variable.Max)
	}
	if duplicates := lo.FindDuplicatesBy(problem.Variables, func(variable Variable) string { return variable.Name }); len(duplicates) > 0 {
		return fmt.Errorf("variable %v is defined more than once", duplicates[0].Name)
	}

	for i := range problem.Constraints {
		if err := problem.Constraints[i].normalize(); err != nil {
			return fmt.Errorf("constraint %d: %w", i, err)
		}
	}
	return nil
}

func (constraint *Constraint) normalize() error {
	if !slices.Contains(validKinds, constraint.Kind) {
		return fmt.Errorf("%v is not a valid kind, allowed values are %v", constraint.Kind, validKinds)
	}

	if constraint.Cmp == "" {
		constraint.Cmp = notify.CmpEqual.String()
	}
	comparison, err := notify.ParseComparison(constraint.Cmp)
	if err != nil {
		return err
	}
	constraint.comparison = comparison

	switch constraint.Kind {
	case KindEquality:
		if len(constraint.Vars) != 1 {
			return fmt.Errorf("%v expects 1 variable, got %d", constraint.Kind, len(constraint.Vars))
		}
		return nil
	case KindAnd, KindOr, KindImplication, KindXor:
		if len(constraint.Vars) != 2 {
			return fmt.Errorf("%v expects 2 variables, got %d", constraint.Kind, len(constraint.Vars))
		}
		if constraint.Polarity == nil {
			constraint.Polarity = []bool{true, true}
		} else if len(constraint.Polarity) != 2 {
			return fmt.Errorf("%v expects 2 polarities, got %d", constraint.Kind, len(constraint.Polarity))
		}
	case KindBilinear:
		if len(constraint.Vars) != 2 {
			return fmt.Errorf("%v expects 2 variables, got %d", constraint.Kind, len(constraint.Vars))
		}
		if constraint.Coeff == 0 {
			constraint.Coeff = 1
		}
	case KindPlus:
		if len(constraint.Terms) != 2 {
			return fmt.Errorf("%v expects 2 terms, got %d", constraint.Kind, len(constraint.Terms))
		}
	case KindLinear:
		if len(constraint.Terms) == 0 {
			return fmt.Errorf("%v expects at least 1 term", constraint.Kind)
		}
	}

	if constraint.Result == "" {
		return fmt.Errorf("%v expects a result variable", constraint.Kind)
	}
	return nil
}

// Comparison returns the parsed comparison of a normalized constraint
func (constraint Constraint) Comparison() notify.Comparison {
	return constraint.comparison
}

// Names returns every variable name the constraint refers to
func (constraint Constraint) Names() []string {
	names := slices.Clone(constraint.Vars)
	names = append(names, lo.Map(constraint.Terms, func(term Term, _ int) string { return term.Var })...)
	if constraint.Result != "" {
		names = append(names, constraint.Result)
	}
	return names
}
