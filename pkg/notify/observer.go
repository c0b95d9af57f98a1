package notify

// Observer is notified synchronously by the primary search process every time it creates a variable, posts a constraint
// or makes progress. Calls come from a single goroutine and follow causal order: a variable is always created before any
// constraint referencing it is posted.
type Observer interface {
	// A new binder variable named name was created at position idx
	VariableCreated(idx int, q Quantifier, name string, t VarType, min, max int)
	// A new auxiliary variable named name was created
	AuxVariableCreated(name string, t VarType, min, max int)

	// v0 == val
	EqualityPosted(v0 string, val int)
	// p0v0 && p1v1 <cmp> v2
	ConjunctionPosted(p0 bool, v0 string, p1 bool, v1 string, cmp Comparison, v2 string)
	// p0v0 || p1v1 <cmp> v2
	DisjunctionPosted(p0 bool, v0 string, p1 bool, v1 string, cmp Comparison, v2 string)
	// p0v0 >> p1v1 <cmp> v2
	ImplicationPosted(p0 bool, v0 string, p1 bool, v1 string, cmp Comparison, v2 string)
	// p0v0 ^ p1v1 <cmp> v2
	ExclusiveOrPosted(p0 bool, v0 string, p1 bool, v1 string, cmp Comparison, v2 string)
	// n0*v0 + n1*v1 <cmp> v2
	LinearCombinationPosted(n0 int, v0 string, n1 int, v1 string, cmp Comparison, v2 string)
	// n*v0*v1 <cmp> v2
	BilinearProductPosted(n int, v0, v1 string, cmp Comparison, v2 string)
	// SUM_i n_i*v_i <cmp> v0
	LinearSumPosted(terms []Monomial, cmp Comparison, v0 string)

	// The search branched on the binder variable idx restricted to [min, max]
	ChoiceMade(idx, min, max int)
	PromisingScenarioFound(scenario Scenario)
	// The search ended with a winning strategy
	StrategyFound()
	LocalFailure()
	// The search ended with a global failure, the problem is unfeasible
	GlobalFailure()
}

// Nop implements every Observer hook as a no-op. Concrete observers embed it and override the hooks they care about.
type Nop struct{}

func (Nop) VariableCreated(int, Quantifier, string, VarType, int, int)           {}
func (Nop) AuxVariableCreated(string, VarType, int, int)                         {}
func (Nop) EqualityPosted(string, int)                                           {}
func (Nop) ConjunctionPosted(bool, string, bool, string, Comparison, string)     {}
func (Nop) DisjunctionPosted(bool, string, bool, string, Comparison, string)     {}
func (Nop) ImplicationPosted(bool, string, bool, string, Comparison, string)     {}
func (Nop) ExclusiveOrPosted(bool, string, bool, string, Comparison, string)     {}
func (Nop) LinearCombinationPosted(int, string, int, string, Comparison, string) {}
func (Nop) BilinearProductPosted(int, string, string, Comparison, string)        {}
func (Nop) LinearSumPosted([]Monomial, Comparison, string)                       {}
func (Nop) ChoiceMade(int, int, int)                                             {}
func (Nop) PromisingScenarioFound(Scenario)                                      {}
func (Nop) StrategyFound()                                                       {}
func (Nop) LocalFailure()                                                        {}
func (Nop) GlobalFailure()                                                       {}

var _ Observer = Nop{}
