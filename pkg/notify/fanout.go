package notify

import "slices"

type fanout struct {
	observers []Observer
}

// Fanout returns an Observer forwarding every notification to each of the given observers, in order
func Fanout(observers ...Observer) Observer {
	return &fanout{observers: slices.Clone(observers)}
}

func (f *fanout) each(notify func(Observer)) {
	for _, observer := range f.observers {
		notify(observer)
	}
}

func (f *fanout) VariableCreated(idx int, q Quantifier, name string, t VarType, min, max int) {
	f.each(func(o Observer) { o.VariableCreated(idx, q, name, t, min, max) })
}

func (f *fanout) AuxVariableCreated(name string, t VarType, min, max int) {
	f.each(func(o Observer) { o.AuxVariableCreated(name, t, min, max) })
}

func (f *fanout) EqualityPosted(v0 string, val int) {
	f.each(func(o Observer) { o.EqualityPosted(v0, val) })
}

func (f *fanout) ConjunctionPosted(p0 bool, v0 string, p1 bool, v1 string, cmp Comparison, v2 string) {
	f.each(func(o Observer) { o.ConjunctionPosted(p0, v0, p1, v1, cmp, v2) })
}

func (f *fanout) DisjunctionPosted(p0 bool, v0 string, p1 bool, v1 string, cmp Comparison, v2 string) {
	f.each(func(o Observer) { o.DisjunctionPosted(p0, v0, p1, v1, cmp, v2) })
}

func (f *fanout) ImplicationPosted(p0 bool, v0 string, p1 bool, v1 string, cmp Comparison, v2 string) {
	f.each(func(o Observer) { o.ImplicationPosted(p0, v0, p1, v1, cmp, v2) })
}

func (f *fanout) ExclusiveOrPosted(p0 bool, v0 string, p1 bool, v1 string, cmp Comparison, v2 string) {
	f.each(func(o Observer) { o.ExclusiveOrPosted(p0, v0, p1, v1, cmp, v2) })
}

func (f *fanout) LinearCombinationPosted(n0 int, v0 string, n1 int, v1 string, cmp Comparison, v2 string) {
	f.each(func(o Observer) { o.LinearCombinationPosted(n0, v0, n1, v1, cmp, v2) })
}

func (f *fanout) BilinearProductPosted(n int, v0, v1 string, cmp Comparison, v2 string) {
	f.each(func(o Observer) { o.BilinearProductPosted(n, v0, v1, cmp, v2) })
}

func (f *fanout) LinearSumPosted(terms []Monomial, cmp Comparison, v0 string) {
	f.each(func(o Observer) { o.LinearSumPosted(terms, cmp, v0) })
}

func (f *fanout) ChoiceMade(idx, min, max int) {
	f.each(func(o Observer) { o.ChoiceMade(idx, min, max) })
}

func (f *fanout) PromisingScenarioFound(scenario Scenario) {
	f.each(func(o Observer) { o.PromisingScenarioFound(scenario) })
}

func (f *fanout) StrategyFound() { f.each(Observer.StrategyFound) }

func (f *fanout) LocalFailure() { f.each(Observer.LocalFailure) }

func (f *fanout) GlobalFailure() { f.each(Observer.GlobalFailure) }
