package notify

import "fmt"

type Comparison int

const (
	CmpEqual Comparison = iota
	CmpNotEqual
	CmpLess
	CmpLessEqual
	CmpGreater
	CmpGreaterEqual
)

var comparisonSymbols = map[Comparison]string{
	CmpEqual:        "==",
	CmpNotEqual:     "!=",
	CmpLess:         "<",
	CmpLessEqual:    "<=",
	CmpGreater:      ">",
	CmpGreaterEqual: ">=",
}

func (cmp Comparison) String() string {
	if symbol, ok := comparisonSymbols[cmp]; ok {
		return symbol
	}
	return fmt.Sprintf("Comparison(%d)", int(cmp))
}

// ParseComparison maps a comparison symbol ("==", "<=", ...) back to its Comparison
func ParseComparison(symbol string) (Comparison, error) {
	for cmp, s := range comparisonSymbols {
		if s == symbol {
			return cmp, nil
		}
	}
	return 0, fmt.Errorf("unknown comparison %q", symbol)
}

type Quantifier int

const (
	Exists Quantifier = iota
	ForAll
)

func (q Quantifier) String() string {
	if q == ForAll {
		return "forall"
	}
	return "exists"
}

type VarType int

const (
	IntVar VarType = iota
	BoolVar
)

func (t VarType) String() string {
	if t == BoolVar {
		return "bool"
	}
	return "int"
}

// Monomial is a coefficient applied to a variable referenced by name (e.g. 3*x)
type Monomial struct {
	Coeff   int
	VarName string
}

func (m Monomial) String() string {
	return fmt.Sprintf("%d*%s", m.Coeff, m.VarName)
}

// Scenario is a (possibly partial) assignment of the binder discovered by the primary search, one value per binder
// variable in creation order
type Scenario []int
