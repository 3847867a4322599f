package sequence

import (
	"fmt"
	"strings"
)

// stepExpr renders "a + d = b", or "a - |d| = b" for a negative step.
func stepExpr(last, d, next int64) string {
	if d < 0 {
		return fmt.Sprintf("%d - %d = %d", last, -d, next)
	}
	return fmt.Sprintf("%d + %d = %d", last, d, next)
}

func arithmeticFormula(a0, d int64) string {
	switch {
	case d == 0:
		return fmt.Sprintf("a(n) = %d", a0)
	case d < 0:
		return fmt.Sprintf("a(n) = %d - %d(n-1)", a0, -d)
	}
	return fmt.Sprintf("a(n) = %d + %d(n-1)", a0, d)
}

func explainArithmetic(terms []int64, d, next int64) string {
	last := terms[len(terms)-1]
	switch {
	case d == 0:
		return fmt.Sprintf("Every number is %d, so the next number is %d too.", last, next)
	case d < 0:
		return fmt.Sprintf("Each number is %d less than the one before it: %s. So the next number is %s.",
			-d, join(terms), stepExpr(last, d, next))
	}
	return fmt.Sprintf("Each number is %d more than the one before it: %s. So the next number is %s.",
		d, join(terms), stepExpr(last, d, next))
}

func (r ratio) factor() string {
	if r.q == 1 && r.p > 0 {
		return r.String()
	}
	return "(" + r.String() + ")"
}

func geometricFormula(a0 int64, r ratio) string {
	if a0 == 1 {
		return fmt.Sprintf("a(n) = %s^(n-1)", r.factor())
	}
	return fmt.Sprintf("a(n) = %d × %s^(n-1)", a0, r.factor())
}

func explainGeometric(terms []int64, r ratio, next int64) string {
	last := terms[len(terms)-1]
	var b strings.Builder
	fmt.Fprintf(&b, "Each number is the one before it multiplied by %s: %s. So the next number is %d × %s = %d.",
		r, join(terms), last, r.factor(), next)
	if r.q == 1 && r.p >= 2 && r.p <= 5 && terms[0] == r.p {
		exps := make([]string, len(terms))
		for i := range terms {
			exps[i] = fmt.Sprintf("%d^%d", r.p, i+1)
		}
		fmt.Fprintf(&b, " These are the powers of %d: %s.", r.p, strings.Join(exps, ", "))
	}
	return b.String()
}

func explainGeometricFraction(terms []int64, r ratio, nearest int64) string {
	last := terms[len(terms)-1]
	num, _ := mul(last, r.p)
	exact, _ := newRatio(num, r.q)
	return fmt.Sprintf("Each number is the one before it multiplied by %s: %s. The next number would be %d × %s = %s, "+
		"which is not a whole number. The nearest whole number is %d, so this answer is unverified.",
		r, join(terms), last, r.factor(), exact, nearest)
}

func explainFibonacci(terms []int64, next int64) string {
	sums := make([]string, 0, len(terms)-2)
	for i := 2; i < len(terms); i++ {
		sums = append(sums, stepExpr(terms[i-2], terms[i-1], terms[i]))
	}
	last, prev := terms[len(terms)-1], terms[len(terms)-2]
	return fmt.Sprintf("Each number is the sum of the two numbers before it: %s. So the next number is %s.",
		strings.Join(sums, ", "), stepExpr(prev, last, next))
}

func squaresFormula(first int64) string {
	switch k := first - 1; {
	case k == 0:
		return "a(n) = n^2"
	case k < 0:
		return fmt.Sprintf("a(n) = (n - %d)^2", -k)
	default:
		return fmt.Sprintf("a(n) = (n + %d)^2", k)
	}
}

func explainSquares(terms []int64, first, next int64) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		root := first + int64(i)
		parts[i] = fmt.Sprintf("%d×%d = %d", root, root, t)
	}
	root := first + int64(len(terms))
	return fmt.Sprintf("These are square numbers: %s. So the next number is %d×%d = %d.",
		strings.Join(parts, ", "), root, root, next)
}

// quadraticFormula renders an² + bn + c for the sequence starting at a0
// with first difference d0 and constant second difference s. Coefficients
// are computed doubled so halves stay exact.
func quadraticFormula(a0, d0, s int64) (string, bool) {
	d2, ok1 := mul(2, d0)
	s3, ok2 := mul(3, s)
	b2, ok3 := sub(d2, s3)
	a2, ok4 := mul(2, a0)
	c2, ok5 := sub(a2, d2)
	s2, ok6 := mul(2, s)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return "", false
	}
	c2, ok := add(c2, s2)
	if !ok {
		return "", false
	}

	var b strings.Builder
	b.WriteString("a(n) = ")
	first := true
	for i, coef := range [3]int64{s, b2, c2} {
		if coef == 0 {
			continue
		}
		sym := [...]string{"n²", "n", ""}[i]
		switch {
		case first && coef < 0:
			b.WriteString("-")
		case !first && coef < 0:
			b.WriteString(" - ")
		case !first:
			b.WriteString(" + ")
		}
		mag := half(abs(coef))
		switch {
		case sym == "":
			b.WriteString(mag)
		case strings.Contains(mag, "/"):
			b.WriteString("(" + mag + ")")
		case mag != "1":
			b.WriteString(mag)
		}
		b.WriteString(sym)
		first = false
	}
	if first {
		b.WriteString("0")
	}
	return b.String(), true
}

func explainQuadratic(terms, gaps []int64, s, gap, next int64) string {
	change := fmt.Sprintf("%d bigger", s)
	if s < 0 {
		change = fmt.Sprintf("%d smaller", -s)
	}
	return fmt.Sprintf("The gaps between the numbers are %s, and each gap is %s than the one before. "+
		"The next gap is %d, so the next number is %s.",
		join(gaps), change, gap, stepExpr(terms[len(terms)-1], gap, next))
}

func (s stepRule) symbol() string {
	if s.byRatio {
		return "×" + s.r.String()
	}
	if s.d < 0 {
		return fmt.Sprintf("-%d", -s.d)
	}
	return fmt.Sprintf("+%d", s.d)
}

func (s stepRule) describe() string {
	switch {
	case s.byRatio:
		return "are multiplied by " + s.r.String() + " each time"
	case s.d > 0:
		return fmt.Sprintf("go up by %d", s.d)
	case s.d < 0:
		return fmt.Sprintf("go down by %d", -s.d)
	}
	return "stay the same"
}

func (s stepRule) expr(last, next int64) string {
	if s.byRatio {
		return fmt.Sprintf("%d × %s = %d", last, s.r.factor(), next)
	}
	return stepExpr(last, s.d, next)
}

func explainAlternating(even, odd []int64, evenRule, oddRule stepRule, nextIsOdd bool, next int64) string {
	where, sub, rule := "odd", even, evenRule
	if !nextIsOdd {
		where, sub, rule = "even", odd, oddRule
	}
	return fmt.Sprintf("Two patterns take turns. The numbers in odd positions (%s) %s. "+
		"The numbers in even positions (%s) %s. The next number is in an %s position, so it is %s.",
		join(even), evenRule.describe(), join(odd), oddRule.describe(), where, rule.expr(sub[len(sub)-1], next))
}

func explainCubes(terms []int64, next int64) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = fmt.Sprintf("%d^3 = %d", i+1, t)
	}
	return fmt.Sprintf("These are the cubes of 1, 2, 3 and so on: %s. So the next number is %d^3 = %d.",
		strings.Join(parts, ", "), len(terms)+1, next)
}

func primesFormula(first int64) string {
	if first == 2 {
		return "a(n) = the n-th prime"
	}
	return fmt.Sprintf("a(n) = consecutive primes from %d", first)
}

func explainPrimes(terms []int64, next int64) string {
	return fmt.Sprintf("These are consecutive prime numbers, numbers that can only be divided evenly by 1 and themselves: %s. "+
		"The next prime after %d is %d.", join(terms), terms[len(terms)-1], next)
}

func explainUnknown(terms []int64, step, next int64) string {
	sign := "+"
	if step < 0 {
		sign, step = "-", -step
	}
	return fmt.Sprintf("No single rule could be proven for every number in %s. "+
		"As a best guess the last step (%s%d) is repeated, giving %d. This answer is unverified.",
		join(terms), sign, step, next)
}
