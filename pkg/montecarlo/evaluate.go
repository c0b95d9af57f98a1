package montecarlo

import (
	"math"
	"math/bits"
	"math/rand/v2"
)

// Evaluate returns the error score of candidate: the sum of the absolute violations of every constraint of model.
// Zero means that candidate satisfies all of them. candidate must hold at least one value per variable of model.
// Violations are computed exactly on 128 bits and the score saturates at math.MaxUint64.
func Evaluate(model Model, candidate []int) uint64 {
	var score uint64

	for _, constraint := range model.Bilinear {
		product, ok := widen(int64(constraint[0].Coeff)).mul(int64(candidate[constraint[0].Var]))
		if ok {
			product, ok = product.mul(int64(candidate[constraint[1].Var]))
		}
		if !ok {
			return math.MaxUint64
		}
		score = saturatingAdd(score, product.add(widen(int64(candidate[constraint[2].Var])).neg()).magnitude())
	}

	for _, constraint := range model.Linear {
		var sum wide
		for _, monomial := range constraint {
			// A product of two int64 always fits in 128 bits
			term, _ := widen(int64(monomial.Coeff)).mul(int64(candidate[monomial.Var]))
			sum = sum.add(term)
		}
		score = saturatingAdd(score, sum.magnitude())
	}

	return score
}

// Generate fills candidate with one uniform draw per variable within its domain (bounds included)
func Generate(random *rand.Rand, variables []Variable, candidate []int) {
	for i, variable := range variables {
		// The width is computed on unsigned integers so that domains spanning the whole int range do not overflow
		width := uint64(variable.Max) - uint64(variable.Min) + 1
		if width == 0 {
			candidate[i] = int(random.Uint64())
			continue
		}
		candidate[i] = variable.Min + int(random.Uint64N(width))
	}
}

func saturatingAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

// wide is a signed 128-bit integer in two's complement
type wide struct{ hi, lo uint64 }

func widen(value int64) wide {
	return wide{hi: uint64(value >> 63), lo: uint64(value)}
}

func (w wide) negative() bool { return w.hi>>63 == 1 }

func (w wide) neg() wide {
	lo, borrow := bits.Sub64(0, w.lo, 0)
	hi, _ := bits.Sub64(0, w.hi, borrow)
	return wide{hi, lo}
}

func (w wide) add(other wide) wide {
	lo, carry := bits.Add64(w.lo, other.lo, 0)
	hi, _ := bits.Add64(w.hi, other.hi, carry)
	return wide{hi, lo}
}

// mul returns w*factor; ok is false when the product does not fit in 128 bits
func (w wide) mul(factor int64) (product wide, ok bool) {
	negative := w.negative() != (factor < 0)
	if w.negative() {
		w = w.neg()
	}
	magnitude := uint64(factor)
	if factor < 0 {
		magnitude = -magnitude
	}

	carry, lo := bits.Mul64(w.lo, magnitude)
	overflow, hi := bits.Mul64(w.hi, magnitude)
	hi, sumCarry := bits.Add64(hi, carry, 0)
	if overflow != 0 || sumCarry != 0 || hi>>63 == 1 {
		return wide{}, false
	}

	product = wide{hi, lo}
	if negative {
		product = product.neg()
	}
	return product, true
}

// magnitude returns |w|, saturated at math.MaxUint64
func (w wide) magnitude() uint64 {
	if w.negative() {
		w = w.neg()
	}
	if w.hi != 0 {
		return math.MaxUint64
	}
	return w.lo
}
