package problem

import (
	"fmt"
	"math/rand/v2"
)

// Generate builds a random satisfiable problem with the given amount of binder variables (domain [0..domain]) and
// constraints. A solution is planted first: every constraint defines a fresh auxiliary variable whose domain surrounds
// the value the planted solution gives to the constraint's left-hand side.
func Generate(variables, constraints, domain int, random *rand.Rand) (Problem, Assignment) {
	if variables < 1 || domain < 0 {
		panic(fmt.Sprintf("cannot generate a problem with %d variables over [0..%d]", variables, domain))
	}

	var problem Problem
	planted := make(Assignment, 0, variables+constraints)
	for i := range variables {
		problem.Variables = append(problem.Variables, Variable{Name: fmt.Sprintf("x%d", i), Min: 0, Max: domain})
		planted = append(planted, random.IntN(domain+1))
	}

	pick := func() (string, int) {
		i := random.IntN(variables)
		return problem.Variables[i].Name, planted[i]
	}

	for i := range constraints {
		var constraint Constraint
		var value int
		switch random.IntN(3) {
		case 0:
			v0, x0 := pick()
			v1, x1 := pick()
			constraint = Constraint{Kind: KindBilinear, Coeff: 1, Vars: []string{v0, v1}}
			value = x0 * x1
		case 1:
			v0, x0 := pick()
			v1, x1 := pick()
			n0, n1 := random.IntN(5)-2, random.IntN(5)-2
			constraint = Constraint{Kind: KindPlus, Terms: []Term{{Coeff: n0, Var: v0}, {Coeff: n1, Var: v1}}}
			value = n0*x0 + n1*x1
		default:
			size := 1 + random.IntN(min(variables, 4))
			for range size {
				v, x := pick()
				n := 1 + random.IntN(3)
				constraint.Terms = append(constraint.Terms, Term{Coeff: n, Var: v})
				value += n * x
			}
			constraint.Kind = KindLinear
		}

		slack := random.IntN(3)
		result := Variable{Name: fmt.Sprintf("t%d", i), Min: value - slack, Max: value + slack, Aux: true}
		problem.Variables = append(problem.Variables, result)
		planted = append(planted, value)

		constraint.Result = result.Name
		problem.Constraints = append(problem.Constraints, constraint)
	}

	if err := problem.Normalize(); err != nil {
		panic(fmt.Sprintf("generated an invalid problem: %v", err))
	}
	return problem, planted
}
