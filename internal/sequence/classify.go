// Package sequence detects the rule behind a short integer sequence and
// writes a plain-language explanation of it.
package sequence

import (
	"errors"
	"fmt"
	"slices"
)

// MinTerms is the shortest sequence Classify accepts.
const MinTerms = 3

// ErrTooShort is returned for sequences with fewer than MinTerms terms.
var ErrTooShort = errors.New("sequence: at least 3 terms are required")

// Kind names a detected sequence rule.
type Kind string

const (
	Arithmetic    Kind = "arithmetic"
	Geometric     Kind = "geometric"
	Fibonacci     Kind = "fibonacci"
	SquareNumbers Kind = "square_numbers"
	Quadratic     Kind = "quadratic"
	Alternating   Kind = "alternating"
	Powers        Kind = "powers"
	PrimeNumbers  Kind = "prime_numbers"
	Unknown       Kind = "unknown"
)

// Kinds lists every kind in the order Classify tries them.
var Kinds = []Kind{
	Arithmetic, Geometric, Fibonacci, SquareNumbers, Quadratic,
	Alternating, Powers, PrimeNumbers, Unknown,
}

// Classification is the outcome of Classify.
type Classification struct {
	Kind        Kind    `json:"kind"`
	Formula     string  `json:"formula"`
	Explanation string  `json:"explanation"`
	NextValue   int64   `json:"nextValue"`
	Verified    bool    `json:"verified"`
	Terms       []int64 `json:"terms"`
}

// detector reports a classification when its rule holds for every term.
// The result is Verified only when the terms prove the rule and its next
// value.
type detector func(terms []int64) (Classification, bool)

var detectors = []detector{
	detectArithmetic,
	detectGeometric,
	detectFibonacci,
	detectSquares,
	detectQuadratic,
	detectAlternating,
	detectPowers,
	detectPrimes,
}

// Classify finds the first rule, in priority order, that generates every
// term of the sequence and uses it to predict the next value. A rule that
// fits but cannot prove its next value is kept as an unverified candidate
// while later rules are tried. When nothing fits it returns an unverified
// best guess of kind Unknown.
func Classify(terms []int64) (Classification, error) {
	if len(terms) < MinTerms {
		return Classification{}, fmt.Errorf("%w: got %d", ErrTooShort, len(terms))
	}
	terms = slices.Clone(terms)

	var candidate *Classification
	for _, detect := range detectors {
		c, ok := detect(terms)
		if !ok {
			continue
		}
		c.Terms = terms
		if c.Verified {
			return c, nil
		}
		if candidate == nil {
			candidate = &c
		}
	}
	if candidate != nil {
		return *candidate, nil
	}
	c := guess(terms)
	c.Terms = terms
	return c, nil
}

func detectArithmetic(terms []int64) (Classification, bool) {
	ds, ok := diffs(terms)
	if !ok || !constant(ds) {
		return Classification{}, false
	}
	d := ds[0]
	next, ok := add(terms[len(terms)-1], d)
	if !ok {
		return Classification{}, false
	}
	return Classification{
		Kind:        Arithmetic,
		Formula:     arithmeticFormula(terms[0], d),
		Explanation: explainArithmetic(terms, d, next),
		NextValue:   next,
		Verified:    true,
	}, true
}

func detectGeometric(terms []int64) (Classification, bool) {
	r, ok := newRatio(terms[1], terms[0])
	if !ok || r.p == r.q || !r.holds(terms) {
		return Classification{}, false
	}
	last := terms[len(terms)-1]
	next, ok := r.apply(last)
	if !ok {
		// The ratio holds but the next term is not a whole number.
		next, ok = r.nearest(last)
		if !ok {
			return Classification{}, false
		}
		return Classification{
			Kind:        Geometric,
			Formula:     geometricFormula(terms[0], r),
			Explanation: explainGeometricFraction(terms, r, next),
			NextValue:   next,
		}, true
	}
	return Classification{
		Kind:        Geometric,
		Formula:     geometricFormula(terms[0], r),
		Explanation: explainGeometric(terms, r, next),
		NextValue:   next,
		Verified:    true,
	}, true
}

func detectFibonacci(terms []int64) (Classification, bool) {
	for i := 2; i < len(terms); i++ {
		s, ok := add(terms[i-1], terms[i-2])
		if !ok || s != terms[i] {
			return Classification{}, false
		}
	}
	last, prev := terms[len(terms)-1], terms[len(terms)-2]
	next, ok := add(last, prev)
	if !ok {
		return Classification{}, false
	}
	return Classification{
		Kind:        Fibonacci,
		Formula:     "a(n) = a(n-1) + a(n-2)",
		Explanation: explainFibonacci(terms, next),
		NextValue:   next,
		Verified:    true,
	}, true
}

func detectSquares(terms []int64) (Classification, bool) {
	first, ok := isqrt(terms[0])
	if !ok {
		return Classification{}, false
	}
	for i, t := range terms {
		root, ok := isqrt(t)
		if !ok || root != first+int64(i) {
			return Classification{}, false
		}
	}
	root := first + int64(len(terms))
	next, ok := mul(root, root)
	if !ok {
		return Classification{}, false
	}
	return Classification{
		Kind:        SquareNumbers,
		Formula:     squaresFormula(first),
		Explanation: explainSquares(terms, first, next),
		NextValue:   next,
		Verified:    true,
	}, true
}

func detectQuadratic(terms []int64) (Classification, bool) {
	if len(terms) < 4 {
		return Classification{}, false
	}
	first, ok := diffs(terms)
	if !ok {
		return Classification{}, false
	}
	second, ok := diffs(first)
	if !ok || !constant(second) || second[0] == 0 {
		return Classification{}, false
	}
	s := second[0]
	gap, ok := add(first[len(first)-1], s)
	if !ok {
		return Classification{}, false
	}
	next, ok := add(terms[len(terms)-1], gap)
	if !ok {
		return Classification{}, false
	}
	formula, ok := quadraticFormula(terms[0], first[0], s)
	if !ok {
		return Classification{}, false
	}
	return Classification{
		Kind:        Quadratic,
		Formula:     formula,
		Explanation: explainQuadratic(terms, first, s, gap, next),
		NextValue:   next,
		Verified:    true,
	}, true
}

// stepRule is the rule one interleaved subsequence follows.
type stepRule struct {
	byRatio bool
	d       int64
	r       ratio
}

func fitRule(xs []int64) (stepRule, bool) {
	if ds, ok := diffs(xs); ok && constant(ds) {
		return stepRule{d: ds[0]}, true
	}
	if r, ok := newRatio(xs[1], xs[0]); ok && r.holds(xs) {
		return stepRule{byRatio: true, r: r}, true
	}
	return stepRule{}, false
}

func (s stepRule) next(last int64) (int64, bool) {
	if s.byRatio {
		return s.r.apply(last)
	}
	return add(last, s.d)
}

func detectAlternating(terms []int64) (Classification, bool) {
	if len(terms) < 5 {
		return Classification{}, false
	}
	var even, odd []int64
	for i, t := range terms {
		if i%2 == 0 {
			even = append(even, t)
		} else {
			odd = append(odd, t)
		}
	}
	evenRule, ok := fitRule(even)
	if !ok {
		return Classification{}, false
	}
	oddRule, ok := fitRule(odd)
	if !ok {
		return Classification{}, false
	}

	// The next index continues whichever subsequence it falls in.
	sub, rule := even, evenRule
	if len(terms)%2 == 1 {
		sub, rule = odd, oddRule
	}
	next, ok := rule.next(sub[len(sub)-1])
	if !ok {
		return Classification{}, false
	}
	// Two terms fit any step, so each side needs three to prove its rule.
	proven := len(even) >= 3 && len(odd) >= 3
	explanation := explainAlternating(even, odd, evenRule, oddRule, len(terms)%2 == 0, next)
	if !proven {
		explanation += " Only two numbers sit in the even positions, which is not enough to prove their rule, so this answer is unverified."
	}
	return Classification{
		Kind:        Alternating,
		Formula:     fmt.Sprintf("odd positions: %s; even positions: %s", evenRule.symbol(), oddRule.symbol()),
		Explanation: explanation,
		NextValue:   next,
		Verified:    proven,
	}, true
}

// detectPowers matches the cubes 1, 8, 27 and so on. Powers of a fixed
// base are geometric and n^2 is a run of squares, so both are caught
// earlier in the chain.
func detectPowers(terms []int64) (Classification, bool) {
	for i, t := range terms {
		v, ok := pow(int64(i+1), 3)
		if !ok || v != t {
			return Classification{}, false
		}
	}
	next, ok := pow(int64(len(terms)+1), 3)
	if !ok {
		return Classification{}, false
	}
	return Classification{
		Kind:        Powers,
		Formula:     "a(n) = n^3",
		Explanation: explainCubes(terms, next),
		NextValue:   next,
		Verified:    true,
	}, true
}

func detectPrimes(terms []int64) (Classification, bool) {
	if !isPrime(terms[0]) {
		return Classification{}, false
	}
	for i := 1; i < len(terms); i++ {
		if terms[i] != nextPrime(terms[i-1]) {
			return Classification{}, false
		}
	}
	next := nextPrime(terms[len(terms)-1])
	return Classification{
		Kind:        PrimeNumbers,
		Formula:     primesFormula(terms[0]),
		Explanation: explainPrimes(terms, next),
		NextValue:   next,
		Verified:    true,
	}, true
}

// guess repeats the last step. It is never verified.
func guess(terms []int64) Classification {
	last, prev := terms[len(terms)-1], terms[len(terms)-2]
	step, ok := sub(last, prev)
	next := last
	if ok {
		if n, ok := add(last, step); ok {
			next = n
		}
	}
	return Classification{
		Kind:        Unknown,
		Formula:     "unverified",
		Explanation: explainUnknown(terms, step, next),
		NextValue:   next,
		Verified:    false,
	}
}
