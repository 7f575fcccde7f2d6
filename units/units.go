// Package units defines the strongly typed quantities used throughout the
// game core so that power, energy, time, cost, and money can never be
// mixed up by accident. All quantities are backed by int64 — prices and
// volumes are integer cents / watts, matching the rest of this codebase's
// convention of avoiding floating point in money-bearing arithmetic.
package units

import "math"

// Power is an instantaneous rate, in watts. Positive means generation,
// negative means consumption.
type Power int64

// Energy is an amount delivered over a period, in watt-periods.
type Energy int64

// Time is a duration expressed in delivery-period steps. One period is
// one Time step.
type Time int64

// EnergyCost is a price per unit of energy, in cents.
type EnergyCost int64

// Money is an amount of currency, in cents.
type Money int64

// Mul computes the energy delivered by holding p constant over t.
func (p Power) Mul(t Time) Energy {
	return Energy(saturatingMul(int64(p), int64(t)))
}

// Div recovers the average power needed to deliver e over t.
func (e Energy) Div(t Time) Power {
	if t == 0 {
		return 0
	}
	return Power(int64(e) / int64(t))
}

// Mul computes the money cost of e at unit price c.
func (e Energy) Mul(c EnergyCost) Money {
	return Money(saturatingMul(int64(e), int64(c)))
}

// Neg returns the negated energy amount.
func (e Energy) Neg() Energy {
	if e == math.MinInt64 {
		return math.MaxInt64
	}
	return -e
}

// Add saturates at the int64 bounds instead of wrapping.
func (e Energy) Add(other Energy) Energy {
	return Energy(saturatingAdd(int64(e), int64(other)))
}

// Add saturates at the int64 bounds instead of wrapping.
func (m Money) Add(other Money) Money {
	return Money(saturatingAdd(int64(m), int64(other)))
}

// Sub saturates at the int64 bounds instead of wrapping.
func (m Money) Sub(other Money) Money {
	if other == math.MinInt64 {
		// -other does not fit in an int64.
		if m >= 0 {
			return math.MaxInt64
		}
		return Money(int64(m) - math.MinInt64)
	}
	return Money(saturatingAdd(int64(m), -int64(other)))
}

func saturatingAdd(a, b int64) int64 {
	sum := a + b
	// Overflow happened iff operands share a sign but the result doesn't.
	if (a > 0 && b > 0 && sum < 0) {
		return math.MaxInt64
	}
	if (a < 0 && b < 0 && sum > 0) {
		return math.MinInt64
	}
	return sum
}

func saturatingMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a == math.MinInt64 && b == -1 {
		return math.MaxInt64
	}
	result := a * b
	if result/b != a {
		if (a > 0) == (b > 0) {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return result
}
