package montecarlo

import (
	"fmt"
	"testing"

	"github.com/limaJavier/shadowsearch/pkg/notify"
	"github.com/limaJavier/shadowsearch/pkg/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSampler(t *testing.T) (*Sampler, *progress.Recorder) {
	t.Helper()
	recorder := progress.NewRecorder()
	return New(WithReporter(recorder), WithSeed(FixedSeed(7))), recorder
}

func TestResolveFollowsCreationOrder(t *testing.T) {
	//** Arrange
	sampler, _ := newTestSampler(t)
	names := []string{"x", "y", "aux", "z"}

	//** Act
	for i, name := range names {
		_, err := sampler.Resolve(name)
		assert.ErrorIs(t, err, ErrUnknownVariable, "%v resolved before creation", name)

		if name == "aux" {
			sampler.AuxVariableCreated(name, notify.IntVar, -1, 1)
		} else {
			sampler.VariableCreated(i, notify.Exists, name, notify.IntVar, 0, 10)
		}
	}

	//** Assert
	for i, name := range names {
		index, err := sampler.Resolve(name)
		require.Nil(t, err)
		assert.Equal(t, i, index)
	}
	assert.Equal(t, Variable{Name: "aux", Min: -1, Max: 1}, sampler.Snapshot().Variables[2])
	assert.Nil(t, sampler.Err())
}

func TestResolveIsStableAcrossManyCreations(t *testing.T) {
	sampler, _ := newTestSampler(t)

	for i := range 200 {
		sampler.VariableCreated(i, notify.Exists, fmt.Sprintf("v%d", i), notify.IntVar, 0, i)
	}

	for i := range 200 {
		index, err := sampler.Resolve(fmt.Sprintf("v%d", i))
		assert.Nil(t, err)
		assert.Equal(t, i, index)
	}
}

func TestBilinearIsMirroredAsThreeMonomials(t *testing.T) {
	//** Arrange
	sampler, _ := newTestSampler(t)
	sampler.VariableCreated(0, notify.Exists, "v0", notify.IntVar, 0, 5)
	sampler.VariableCreated(1, notify.Exists, "v1", notify.IntVar, 0, 5)
	sampler.VariableCreated(2, notify.Exists, "v2", notify.IntVar, 0, 25)

	//** Act
	sampler.BilinearProductPosted(3, "v0", "v1", notify.CmpEqual, "v2")

	//** Assert
	model := sampler.Snapshot()
	assert.Equal(t, []Constraint{{{Coeff: 3, Var: 0}, {Coeff: 1, Var: 1}, {Coeff: -1, Var: 2}}}, model.Bilinear)
	assert.Empty(t, model.Linear)
}

func TestLinearSumIsMirroredWithTrailingRightHandSide(t *testing.T) {
	sampler, _ := newTestSampler(t)
	sampler.VariableCreated(0, notify.Exists, "a", notify.IntVar, -10, 10)
	sampler.VariableCreated(1, notify.Exists, "b", notify.IntVar, -10, 10)
	sampler.AuxVariableCreated("s", notify.IntVar, -20, 20)

	terms := []notify.Monomial{{Coeff: 2, VarName: "a"}, {Coeff: 3, VarName: "b"}}
	sampler.LinearSumPosted(terms, notify.CmpEqual, "s")

	model := sampler.Snapshot()
	assert.Equal(t, []Constraint{{{Coeff: 2, Var: 0}, {Coeff: 3, Var: 1}, {Coeff: -1, Var: 2}}}, model.Linear)
	assert.Empty(t, model.Bilinear)
	assert.Len(t, terms, 2, "caller's terms must be left untouched")
}

func TestLinearCombinationIsMirroredAsLinear(t *testing.T) {
	sampler, _ := newTestSampler(t)
	sampler.VariableCreated(0, notify.Exists, "a", notify.IntVar, 0, 3)
	sampler.VariableCreated(1, notify.Exists, "b", notify.IntVar, 0, 3)
	sampler.VariableCreated(2, notify.Exists, "c", notify.IntVar, 0, 9)

	sampler.LinearCombinationPosted(1, "a", 2, "b", notify.CmpEqual, "c")

	assert.Equal(t, []Constraint{{{Coeff: 1, Var: 0}, {Coeff: 2, Var: 1}, {Coeff: -1, Var: 2}}}, sampler.Snapshot().Linear)
}

func TestNonEqualityComparisonIsAViolation(t *testing.T) {
	comparisons := []notify.Comparison{notify.CmpNotEqual, notify.CmpLess, notify.CmpLessEqual, notify.CmpGreater, notify.CmpGreaterEqual}
	posts := map[string]func(s *Sampler, cmp notify.Comparison){
		"bilinear": func(s *Sampler, cmp notify.Comparison) { s.BilinearProductPosted(1, "x", "y", cmp, "z") },
		"linear": func(s *Sampler, cmp notify.Comparison) {
			s.LinearSumPosted([]notify.Monomial{{Coeff: 1, VarName: "x"}}, cmp, "z")
		},
		"plus": func(s *Sampler, cmp notify.Comparison) { s.LinearCombinationPosted(1, "x", 1, "y", cmp, "z") },
	}

	for op, post := range posts {
		for _, cmp := range comparisons {
			t.Run(fmt.Sprintf("%v %v", op, cmp), func(t *testing.T) {
				//** Arrange
				sampler, recorder := newTestSampler(t)
				for i, name := range []string{"x", "y", "z"} {
					sampler.VariableCreated(i, notify.Exists, name, notify.IntVar, 0, 5)
				}

				//** Act
				post(sampler, cmp)

				//** Assert
				err := sampler.Err()
				assert.ErrorIs(t, err, ErrProtocolViolation)
				assert.ErrorIs(t, err, ErrUnsupportedComparison)
				assert.Empty(t, sampler.Snapshot().Bilinear)
				assert.Empty(t, sampler.Snapshot().Linear)
				assert.Len(t, recorder.Violations(), 1)
			})
		}
	}
}

func TestUnknownVariableIsAViolation(t *testing.T) {
	scenarios := map[string]func(s *Sampler){
		"bilinear first operand":  func(s *Sampler) { s.BilinearProductPosted(1, "w", "y", notify.CmpEqual, "z") },
		"bilinear second operand": func(s *Sampler) { s.BilinearProductPosted(1, "x", "w", notify.CmpEqual, "z") },
		"bilinear result":         func(s *Sampler) { s.BilinearProductPosted(1, "x", "y", notify.CmpEqual, "w") },
		"linear term": func(s *Sampler) {
			s.LinearSumPosted([]notify.Monomial{{Coeff: 1, VarName: "x"}, {Coeff: 1, VarName: "w"}}, notify.CmpEqual, "z")
		},
		"linear right hand side": func(s *Sampler) {
			s.LinearSumPosted([]notify.Monomial{{Coeff: 1, VarName: "x"}}, notify.CmpEqual, "w")
		},
	}

	for name, post := range scenarios {
		t.Run(name, func(t *testing.T) {
			sampler, _ := newTestSampler(t)
			for i, variable := range []string{"x", "y", "z"} {
				sampler.VariableCreated(i, notify.Exists, variable, notify.IntVar, 0, 5)
			}

			post(sampler)

			var protocolErr *ProtocolError
			require.ErrorAs(t, sampler.Err(), &protocolErr)
			assert.Equal(t, "w", protocolErr.Name)
			assert.ErrorIs(t, protocolErr, ErrUnknownVariable)
			assert.Empty(t, sampler.Snapshot().Bilinear)
			assert.Empty(t, sampler.Snapshot().Linear)
		})
	}
}

func TestDuplicateAndInvertedVariablesAreViolations(t *testing.T) {
	sampler, _ := newTestSampler(t)
	sampler.VariableCreated(0, notify.Exists, "x", notify.IntVar, 0, 5)
	sampler.AuxVariableCreated("x", notify.IntVar, 0, 5)
	assert.ErrorIs(t, sampler.Err(), ErrDuplicateVariable)
	assert.Len(t, sampler.Snapshot().Variables, 1)

	sampler, _ = newTestSampler(t)
	sampler.VariableCreated(0, notify.Exists, "x", notify.IntVar, 5, 0)
	assert.ErrorIs(t, sampler.Err(), ErrInvalidDomain)
	assert.Empty(t, sampler.Snapshot().Variables)
}

func TestMutationsAreDroppedAfterAViolation(t *testing.T) {
	//** Arrange
	sampler, recorder := newTestSampler(t)
	sampler.VariableCreated(0, notify.Exists, "x", notify.IntVar, 0, 5)
	sampler.BilinearProductPosted(1, "x", "ghost", notify.CmpEqual, "x")
	first := sampler.Err()

	//** Act
	sampler.VariableCreated(1, notify.Exists, "y", notify.IntVar, 0, 5)
	sampler.LinearSumPosted([]notify.Monomial{{Coeff: 1, VarName: "x"}}, notify.CmpLess, "x")

	//** Assert
	assert.Same(t, first, sampler.Err())
	assert.Len(t, sampler.Snapshot().Variables, 1)
	assert.Len(t, recorder.Violations(), 1)
}

func TestNonMirroredNotificationsLeaveModelUntouched(t *testing.T) {
	sampler, _ := newTestSampler(t)
	sampler.VariableCreated(0, notify.Exists, "x", notify.IntVar, 0, 1)
	before := sampler.Snapshot()

	var observer notify.Observer = sampler
	observer.EqualityPosted("x", 1)
	observer.ConjunctionPosted(true, "x", false, "x", notify.CmpLess, "x")
	observer.DisjunctionPosted(true, "x", true, "x", notify.CmpEqual, "x")
	observer.ImplicationPosted(true, "x", true, "x", notify.CmpEqual, "x")
	observer.ExclusiveOrPosted(true, "x", true, "x", notify.CmpEqual, "x")
	observer.ChoiceMade(0, 0, 1)
	observer.PromisingScenarioFound(notify.Scenario{1})
	observer.LocalFailure()
	observer.StrategyFound()
	observer.GlobalFailure()

	assert.Equal(t, before, sampler.Snapshot())
	assert.Nil(t, sampler.Err())
}

func TestOldSnapshotIsNotAffectedByLaterAppends(t *testing.T) {
	sampler, _ := newTestSampler(t)
	sampler.VariableCreated(0, notify.Exists, "x", notify.IntVar, 0, 1)
	old := sampler.Snapshot()

	sampler.VariableCreated(1, notify.Exists, "y", notify.IntVar, 0, 1)
	sampler.LinearSumPosted([]notify.Monomial{{Coeff: 1, VarName: "x"}}, notify.CmpEqual, "y")

	assert.Len(t, old.Variables, 1)
	assert.Empty(t, old.Linear)
	assert.Len(t, sampler.Snapshot().Variables, 2)
	assert.Len(t, sampler.Snapshot().Linear, 1)
}
