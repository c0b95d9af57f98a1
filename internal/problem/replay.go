package problem

import (
	"github.com/limaJavier/shadowsearch/pkg/notify"
	"github.com/samber/lo"
)

// Replay posts every variable of a normalized problem to observer, then every constraint, which is a valid causal order
// for any problem. Binder positions are handed out to non-auxiliary variables in order.
func Replay(problem Problem, observer notify.Observer) {
	binder := 0
	for _, variable := range problem.Variables {
		if variable.Aux {
			observer.AuxVariableCreated(variable.Name, variable.varType(), variable.Min, variable.Max)
			continue
		}
		observer.VariableCreated(binder, variable.quantifier(), variable.Name, variable.varType(), variable.Min, variable.Max)
		binder++
	}

	for _, constraint := range problem.Constraints {
		post(constraint, observer)
	}
}

func post(constraint Constraint, observer notify.Observer) {
	cmp := constraint.Comparison()
	switch constraint.Kind {
	case KindEquality:
		observer.EqualityPosted(constraint.Vars[0], constraint.Value)
	case KindAnd:
		observer.ConjunctionPosted(constraint.Polarity[0], constraint.Vars[0], constraint.Polarity[1], constraint.Vars[1], cmp, constraint.Result)
	case KindOr:
		observer.DisjunctionPosted(constraint.Polarity[0], constraint.Vars[0], constraint.Polarity[1], constraint.Vars[1], cmp, constraint.Result)
	case KindImplication:
		observer.ImplicationPosted(constraint.Polarity[0], constraint.Vars[0], constraint.Polarity[1], constraint.Vars[1], cmp, constraint.Result)
	case KindXor:
		observer.ExclusiveOrPosted(constraint.Polarity[0], constraint.Vars[0], constraint.Polarity[1], constraint.Vars[1], cmp, constraint.Result)
	case KindPlus:
		observer.LinearCombinationPosted(constraint.Terms[0].Coeff, constraint.Terms[0].Var, constraint.Terms[1].Coeff, constraint.Terms[1].Var, cmp, constraint.Result)
	case KindBilinear:
		observer.BilinearProductPosted(constraint.Coeff, constraint.Vars[0], constraint.Vars[1], cmp, constraint.Result)
	case KindLinear:
		terms := lo.Map(constraint.Terms, func(term Term, _ int) notify.Monomial {
			return notify.Monomial{Coeff: term.Coeff, VarName: term.Var}
		})
		observer.LinearSumPosted(terms, cmp, constraint.Result)
	}
}

func (variable Variable) varType() notify.VarType {
	if variable.Min >= 0 && variable.Max <= 1 {
		return notify.BoolVar
	}
	return notify.IntVar
}

func (variable Variable) quantifier() notify.Quantifier {
	if variable.Universal {
		return notify.ForAll
	}
	return notify.Exists
}
