package problem

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/limaJavier/shadowsearch/pkg/notify"
	"github.com/samber/lo"
)

var ErrUnknownVariable = errors.New("unknown variable")

// Assignment holds one value per problem variable, in declaration order
type Assignment []int

type Searcher interface {
	// Returns an assignment satisfying every constraint of the (normalized) problem if there is one, else returns nil
	// (both are valid outputs where error shall be nil). Progress is notified to observer as the search goes.
	Search(ctx context.Context, problem Problem, observer notify.Observer) (Assignment, error)
}

type backtrackingSearcher struct{}

// NewBacktrackingSearcher returns a depth-first search assigning variables in declaration order and checking each
// constraint as soon as all of its variables are assigned. Quantifiers are not interpreted: every variable is searched
// existentially.
func NewBacktrackingSearcher() Searcher {
	return &backtrackingSearcher{}
}

type searchState struct {
	ctx        context.Context
	problem    Problem
	observer   notify.Observer
	indices    map[string]int
	binder     []int          // Binder position of each variable, -1 for auxiliary ones
	checks     [][]Constraint // Constraints to check once variable i is assigned
	assignment Assignment
}

func (searcher *backtrackingSearcher) Search(ctx context.Context, problem Problem, observer notify.Observer) (Assignment, error) {
	state, err := newSearchState(ctx, problem, observer)
	if err != nil {
		return nil, err
	}

	found, err := state.assign(0)
	if err != nil {
		return nil, err
	} else if !found {
		observer.GlobalFailure()
		return nil, nil
	}

	observer.PromisingScenarioFound(lo.FilterMap(state.assignment, func(value int, i int) (int, bool) {
		return value, state.binder[i] >= 0
	}))
	observer.StrategyFound()
	return state.assignment, nil
}

func newSearchState(ctx context.Context, problem Problem, observer notify.Observer) (*searchState, error) {
	state := &searchState{
		ctx:        ctx,
		problem:    problem,
		observer:   observer,
		indices:    make(map[string]int, len(problem.Variables)),
		binder:     make([]int, len(problem.Variables)),
		checks:     make([][]Constraint, len(problem.Variables)),
		assignment: make(Assignment, len(problem.Variables)),
	}

	binder := 0
	for i, variable := range problem.Variables {
		state.indices[variable.Name] = i
		state.binder[i] = -1
		if !variable.Aux {
			state.binder[i] = binder
			binder++
		}
	}

	for _, constraint := range problem.Constraints {
		last := -1
		for _, name := range constraint.Names() {
			index, ok := state.indices[name]
			if !ok {
				return nil, fmt.Errorf("%w: %v", ErrUnknownVariable, name)
			}
			last = max(last, index)
		}
		if last < 0 {
			continue
		}
		state.checks[last] = append(state.checks[last], constraint)
	}

	return state, nil
}

func (state *searchState) assign(depth int) (bool, error) {
	if depth == len(state.assignment) {
		return true, nil
	}
	if err := state.ctx.Err(); err != nil {
		return false, err
	}

	variable := state.problem.Variables[depth]
	for value := variable.Min; value <= variable.Max; value++ {
		state.assignment[depth] = value
		if state.binder[depth] >= 0 {
			state.observer.ChoiceMade(state.binder[depth], value, value)
		}

		if !lo.EveryBy(state.checks[depth], state.holds) {
			state.observer.LocalFailure()
			continue
		}

		found, err := state.assign(depth + 1)
		if err != nil || found {
			return found, err
		}
	}
	return false, nil
}

func (state *searchState) value(name string) int64 {
	return int64(state.assignment[state.indices[name]])
}

func (state *searchState) holds(constraint Constraint) bool {
	switch constraint.Kind {
	case KindEquality:
		return state.value(constraint.Vars[0]) == int64(constraint.Value)
	case KindAnd, KindOr, KindImplication, KindXor:
		a := (state.value(constraint.Vars[0]) != 0) == constraint.Polarity[0]
		b := (state.value(constraint.Vars[1]) != 0) == constraint.Polarity[1]
		return compare(boolean(constraint.Kind, a, b), constraint.Comparison(), state.value(constraint.Result))
	case KindBilinear:
		product := int64(constraint.Coeff) * state.value(constraint.Vars[0]) * state.value(constraint.Vars[1])
		return compare(product, constraint.Comparison(), state.value(constraint.Result))
	case KindPlus, KindLinear:
		sum := lo.SumBy(constraint.Terms, func(term Term) int64 { return int64(term.Coeff) * state.value(term.Var) })
		return compare(sum, constraint.Comparison(), state.value(constraint.Result))
	}
	log.Panicf("unexpected constraint kind: %v", constraint.Kind)
	return false
}

func boolean(kind string, a, b bool) int64 {
	var result bool
	switch kind {
	case KindAnd:
		result = a && b
	case KindOr:
		result = a || b
	case KindImplication:
		result = !a || b
	case KindXor:
		result = a != b
	}
	if result {
		return 1
	}
	return 0
}

func compare(lhs int64, cmp notify.Comparison, rhs int64) bool {
	switch cmp {
	case notify.CmpEqual:
		return lhs == rhs
	case notify.CmpNotEqual:
		return lhs != rhs
	case notify.CmpLess:
		return lhs < rhs
	case notify.CmpLessEqual:
		return lhs <= rhs
	case notify.CmpGreater:
		return lhs > rhs
	case notify.CmpGreaterEqual:
		return lhs >= rhs
	}
	log.Panicf("unexpected comparison: %v", cmp)
	return false
}

// Verify checks that assignment lies within every domain and satisfies every constraint of the (normalized) problem
func Verify(problem Problem, assignment Assignment) bool {
	if len(assignment) != len(problem.Variables) {
		return false
	}
	for i, variable := range problem.Variables {
		if assignment[i] < variable.Min || assignment[i] > variable.Max {
			return false
		}
	}

	state, err := newSearchState(context.Background(), problem, notify.Nop{})
	if err != nil {
		return false
	}
	state.assignment = assignment
	return lo.EveryBy(problem.Constraints, state.holds)
}
