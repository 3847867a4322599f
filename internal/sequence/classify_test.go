package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyKnownSequences(t *testing.T) {
	tests := []struct {
		name    string
		terms   []int64
		kind    Kind
		next    int64
		formula string
	}{
		{"fibonacci", []int64{1, 1, 2, 3, 5}, Fibonacci, 8, "a(n) = a(n-1) + a(n-2)"},
		{"squares", []int64{1, 4, 9, 16, 25}, SquareNumbers, 36, "a(n) = n^2"},
		{"squares from zero", []int64{0, 1, 4, 9}, SquareNumbers, 16, "a(n) = (n - 1)^2"},
		{"squares from three", []int64{9, 16, 25, 36}, SquareNumbers, 49, "a(n) = (n + 2)^2"},
		{"primes", []int64{2, 3, 5, 7, 11}, PrimeNumbers, 13, "a(n) = the n-th prime"},
		{"primes from seven", []int64{7, 11, 13, 17}, PrimeNumbers, 19, "a(n) = consecutive primes from 7"},
		{"arithmetic", []int64{2, 5, 8, 11, 14}, Arithmetic, 17, "a(n) = 2 + 3(n-1)"},
		{"arithmetic descending", []int64{20, 17, 14, 11}, Arithmetic, 8, "a(n) = 20 - 3(n-1)"},
		{"constant", []int64{5, 5, 5, 5}, Arithmetic, 5, "a(n) = 5"},
		{"geometric", []int64{3, 6, 12, 24, 48}, Geometric, 96, "a(n) = 3 × 2^(n-1)"},
		{"geometric halving", []int64{64, 32, 16, 8}, Geometric, 4, "a(n) = 64 × (1/2)^(n-1)"},
		{"geometric negative", []int64{1, -2, 4, -8, 16}, Geometric, -32, "a(n) = (-2)^(n-1)"},
		{"quadratic", []int64{2, 5, 10, 17, 26}, Quadratic, 37, "a(n) = n² + 1"},
		{"triangular", []int64{1, 3, 6, 10, 15}, Quadratic, 21, "a(n) = (1/2)n² + (1/2)n"},
		{"quadratic falling", []int64{10, 9, 6, 1}, Quadratic, -6, "a(n) = -n² + 2n + 9"},
		{"alternating even length", []int64{1, 10, 2, 20, 3, 30}, Alternating, 4, "odd positions: +1; even positions: +10"},
		{"alternating ratio", []int64{1, 5, 2, 4, 4, 3}, Alternating, 8, "odd positions: ×2; even positions: -1"},
		{"cubes", []int64{1, 8, 27, 64, 125}, Powers, 216, "a(n) = n^3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Classify(tt.terms)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, c.Kind)
			assert.Equal(t, tt.next, c.NextValue)
			assert.Equal(t, tt.formula, c.Formula)
			assert.True(t, c.Verified)
			assert.Equal(t, tt.terms, c.Terms)
			assert.NotEmpty(t, c.Explanation)
		})
	}
}

func TestClassifyTooShort(t *testing.T) {
	for _, terms := range [][]int64{nil, {}, {1}, {1, 2}} {
		_, err := Classify(terms)
		assert.ErrorIs(t, err, ErrTooShort)
	}
}

func TestClassifyUnknownIsUnverified(t *testing.T) {
	tests := []struct {
		terms []int64
		next  int64
	}{
		{[]int64{1, 7, 3, 12, 20}, 28},
		{[]int64{4, 9, 2, 8, 3, 3}, 3},
		{[]int64{10, 4, 19}, 34},
	}
	for _, tt := range tests {
		c, err := Classify(tt.terms)
		require.NoError(t, err)
		assert.Equal(t, Unknown, c.Kind, "terms %v", tt.terms)
		assert.False(t, c.Verified)
		assert.Equal(t, tt.next, c.NextValue)
		assert.Contains(t, c.Explanation, "unverified")
	}
}

func TestClassifyArithmeticProperty(t *testing.T) {
	for a := int64(-20); a <= 20; a += 7 {
		for d := int64(-9); d <= 9; d++ {
			if d == 0 {
				continue
			}
			terms := make([]int64, 6)
			for i := range terms {
				terms[i] = a + int64(i)*d
			}
			c, err := Classify(terms)
			require.NoError(t, err)
			require.Equal(t, Arithmetic, c.Kind, "a=%d d=%d", a, d)
			require.Equal(t, a+6*d, c.NextValue)
		}
	}
}

func TestClassifyGeometricProperty(t *testing.T) {
	for a := int64(1); a <= 5; a++ {
		for _, r := range []int64{-3, -2, 2, 3, 4, 5} {
			terms := []int64{a}
			for len(terms) < 5 {
				terms = append(terms, terms[len(terms)-1]*r)
			}
			c, err := Classify(terms)
			require.NoError(t, err)
			require.Equal(t, Geometric, c.Kind, "a=%d r=%d", a, r)
			require.Equal(t, terms[4]*r, c.NextValue)
			require.True(t, c.Verified)
		}
	}

	// A rational ratio whose next term is not whole still stops at
	// geometric, rounded and unverified.
	tests := []struct {
		terms []int64
		next  int64
	}{
		{[]int64{16, 24, 36, 54, 81}, 122},
		{[]int64{81, 54, 36, 24, 16}, 11},
		{[]int64{-16, -24, -36, -54, -81}, -122},
		{[]int64{625, 250, 100, 40, 16}, 6},
	}
	for _, tt := range tests {
		c, err := Classify(tt.terms)
		require.NoError(t, err)
		assert.Equal(t, Geometric, c.Kind, "terms %v", tt.terms)
		assert.Equal(t, tt.next, c.NextValue, "terms %v", tt.terms)
		assert.False(t, c.Verified, "terms %v", tt.terms)
	}
}

func TestClassifyGeometricFractionalNext(t *testing.T) {
	c, err := Classify([]int64{8, 12, 18, 27})
	require.NoError(t, err)
	assert.Equal(t, Geometric, c.Kind)
	assert.False(t, c.Verified)
	assert.Equal(t, int64(41), c.NextValue)
	assert.Equal(t, "a(n) = 8 × (3/2)^(n-1)", c.Formula)
	assert.Equal(t, "Each number is the one before it multiplied by 3/2: 8, 12, 18, 27. "+
		"The next number would be 27 × (3/2) = 81/2, which is not a whole number. "+
		"The nearest whole number is 41, so this answer is unverified.", c.Explanation)

	c, err = Classify([]int64{16, 24, 36, 54})
	require.NoError(t, err)
	assert.Equal(t, Geometric, c.Kind)
	assert.True(t, c.Verified)
	assert.Equal(t, int64(81), c.NextValue)
	assert.Equal(t, "a(n) = 16 × (3/2)^(n-1)", c.Formula)
}

func TestClassifyAlternatingNeedsThreeTermsPerSide(t *testing.T) {
	// 100 and -7 fit a step of -107, but two numbers fit any step.
	c, err := Classify([]int64{1, 100, 3, -7, 5})
	require.NoError(t, err)
	assert.Equal(t, Alternating, c.Kind)
	assert.False(t, c.Verified)
	assert.Equal(t, int64(-114), c.NextValue)
	assert.Contains(t, c.Explanation, "unverified")

	c, err = Classify([]int64{1, 10, 2, 20, 3})
	require.NoError(t, err)
	assert.Equal(t, Alternating, c.Kind)
	assert.False(t, c.Verified)
	assert.Equal(t, int64(30), c.NextValue)

	c, err = Classify([]int64{1, 10, 2, 20, 3, 30})
	require.NoError(t, err)
	assert.Equal(t, Alternating, c.Kind)
	assert.True(t, c.Verified)
	assert.Equal(t, int64(4), c.NextValue)
}

func TestClassifyCubes(t *testing.T) {
	c, err := Classify([]int64{1, 8, 27, 64, 125})
	require.NoError(t, err)
	assert.Equal(t, Powers, c.Kind)
	assert.True(t, c.Verified)
	assert.Equal(t, int64(216), c.NextValue)
	assert.Equal(t, "These are the cubes of 1, 2, 3 and so on: 1^3 = 1, 2^3 = 8, 3^3 = 27, 4^3 = 64, 5^3 = 125. "+
		"So the next number is 6^3 = 216.", c.Explanation)

	c, err = Classify([]int64{8, 27, 64})
	require.NoError(t, err)
	assert.NotEqual(t, Powers, c.Kind, "cubes must start at 1")
}

func TestClassifyPowersOfTwoNote(t *testing.T) {
	c, err := Classify([]int64{2, 4, 8, 16, 32})
	require.NoError(t, err)
	assert.Equal(t, Geometric, c.Kind)
	assert.Equal(t, int64(64), c.NextValue)
	assert.Contains(t, c.Explanation, "powers of 2")
	assert.Contains(t, c.Explanation, "32 × 2 = 64")

	c, err = Classify([]int64{3, 6, 12, 24})
	require.NoError(t, err)
	assert.NotContains(t, c.Explanation, "powers of")
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// Interleaved +6 rules fit these primes, but 11, 17 is too short to
	// prove the even positions, so the proven primes rule wins.
	c, err := Classify([]int64{7, 11, 13, 17, 19})
	require.NoError(t, err)
	assert.Equal(t, PrimeNumbers, c.Kind)
	assert.True(t, c.Verified)
	assert.Equal(t, int64(23), c.NextValue)

	// 1, 2, 3 is both arithmetic and the start of a Fibonacci run.
	c, err = Classify([]int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, Arithmetic, c.Kind)
}

func TestClassifyDoesNotMutateInput(t *testing.T) {
	terms := []int64{1, 1, 2, 3, 5}
	c, err := Classify(terms)
	require.NoError(t, err)
	c.Terms[0] = 99
	assert.Equal(t, int64(1), terms[0])
}

func TestClassifyOverflowFallsThrough(t *testing.T) {
	big := int64(1) << 61
	c, err := Classify([]int64{big, big * 2, big * 3})
	require.NoError(t, err)
	assert.NotEqual(t, Arithmetic, c.Kind)
}

func TestExplanationsAreDeterministic(t *testing.T) {
	terms := []int64{1, 3, 6, 10, 15}
	first, err := Classify(terms)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Classify(terms)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestExplanationText(t *testing.T) {
	tests := []struct {
		terms []int64
		want  string
	}{
		{[]int64{2, 5, 8, 11, 14}, "Each number is 3 more than the one before it: 2, 5, 8, 11, 14. So the next number is 14 + 3 = 17."},
		{[]int64{20, 17, 14, 11}, "Each number is 3 less than the one before it: 20, 17, 14, 11. So the next number is 11 - 3 = 8."},
		{[]int64{1, 1, 2, 3, 5}, "Each number is the sum of the two numbers before it: 1 + 1 = 2, 1 + 2 = 3, 2 + 3 = 5. So the next number is 3 + 5 = 8."},
		{[]int64{1, 4, 9}, "These are square numbers: 1×1 = 1, 2×2 = 4, 3×3 = 9. So the next number is 4×4 = 16."},
		{[]int64{2, 3, 5, 7, 11}, "These are consecutive prime numbers, numbers that can only be divided evenly by 1 and themselves: 2, 3, 5, 7, 11. The next prime after 11 is 13."},
		{[]int64{1, 10, 2, 20, 3}, "Two patterns take turns. The numbers in odd positions (1, 2, 3) go up by 1. The numbers in even positions (10, 20) go up by 10. The next number is in an even position, so it is 20 + 10 = 30. Only two numbers sit in the even positions, which is not enough to prove their rule, so this answer is unverified."},
	}
	for _, tt := range tests {
		c, err := Classify(tt.terms)
		require.NoError(t, err)
		assert.Equal(t, tt.want, c.Explanation)
	}
}
