package sequence

import (
	"math"
	"strconv"
	"strings"
)

// Checked int64 arithmetic. A false ok means the result overflowed.

func add(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}

func sub(a, b int64) (int64, bool) {
	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		return 0, false
	}
	return a - b, true
}

func mul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}

func pow(base int64, exp int) (int64, bool) {
	result := int64(1)
	for i := 0; i < exp; i++ {
		var ok bool
		if result, ok = mul(result, base); !ok {
			return 0, false
		}
	}
	return result, true
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

func gcd(a, b int64) int64 {
	a, b = abs(a), abs(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// isqrt returns the integer square root of n and whether n is a perfect
// square.
func isqrt(n int64) (int64, bool) {
	if n < 0 {
		return 0, false
	}
	r := int64(math.Sqrt(float64(n)))
	for r > 0 {
		if sq, ok := mul(r, r); ok && sq <= n {
			break
		}
		r--
	}
	for {
		sq, ok := mul(r+1, r+1)
		if !ok || sq > n {
			break
		}
		r++
	}
	return r, r*r == n
}

func isPrime(n int64) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for i := int64(3); i <= n/i; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

func nextPrime(n int64) int64 {
	if n < 2 {
		return 2
	}
	for c := n + 1; ; c++ {
		if isPrime(c) {
			return c
		}
	}
}

// diffs returns the consecutive differences of xs.
func diffs(xs []int64) ([]int64, bool) {
	out := make([]int64, 0, len(xs)-1)
	for i := 1; i < len(xs); i++ {
		d, ok := sub(xs[i], xs[i-1])
		if !ok {
			return nil, false
		}
		out = append(out, d)
	}
	return out, true
}

func constant(xs []int64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}

func join(xs []int64) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.FormatInt(x, 10)
	}
	return strings.Join(parts, ", ")
}

// ratio is an exact rational step p/q with q > 0 in lowest terms.
type ratio struct{ p, q int64 }

func newRatio(num, den int64) (ratio, bool) {
	if den == 0 || num == 0 {
		return ratio{}, false
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(num, den)
	return ratio{num / g, den / g}, true
}

// holds reports whether every consecutive pair of xs has this ratio.
func (r ratio) holds(xs []int64) bool {
	for i := 1; i < len(xs); i++ {
		lhs, ok1 := mul(xs[i], r.q)
		rhs, ok2 := mul(xs[i-1], r.p)
		if !ok1 || !ok2 || lhs != rhs {
			return false
		}
	}
	return true
}

// apply multiplies x by the ratio, failing when the result is not integral.
func (r ratio) apply(x int64) (int64, bool) {
	num, ok := mul(x, r.p)
	if !ok || num%r.q != 0 {
		return 0, false
	}
	return num / r.q, true
}

// nearest multiplies x by the ratio and rounds half away from zero.
func (r ratio) nearest(x int64) (int64, bool) {
	num, ok := mul(x, r.p)
	if !ok {
		return 0, false
	}
	q, rem := num/r.q, abs(num%r.q)
	if rem >= r.q-rem {
		if num < 0 {
			q--
		} else {
			q++
		}
	}
	return q, true
}

func (r ratio) String() string {
	if r.q == 1 {
		return strconv.FormatInt(r.p, 10)
	}
	return strconv.FormatInt(r.p, 10) + "/" + strconv.FormatInt(r.q, 10)
}

// half renders x/2 as an integer or a fraction.
func half(x int64) string {
	if x%2 == 0 {
		return strconv.FormatInt(x/2, 10)
	}
	return strconv.FormatInt(x, 10) + "/2"
}
