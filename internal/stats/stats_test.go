package stats

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func floatsEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected Summary
	}{
		{
			name:     "empty input returns zero summary",
			values:   nil,
			expected: Summary{},
		},
		{
			name:   "single value",
			values: []float64{42},
			expected: Summary{
				Mean: 42, Median: 42, Min: 42, Max: 42, Sum: 42, StdDev: 0,
			},
		},
		{
			name:   "odd count uses middle element as median",
			values: []float64{3, 1, 2},
			expected: Summary{
				Mean: 2, Median: 2, Min: 1, Max: 3, Sum: 6,
				StdDev: math.Sqrt(2.0 / 3.0),
			},
		},
		{
			name:   "even count averages middle elements",
			values: []float64{4, 1, 3, 2},
			expected: Summary{
				Mean: 2.5, Median: 2.5, Min: 1, Max: 4, Sum: 10,
				StdDev: math.Sqrt(1.25),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.values)

			if !floatsEqual(got.Mean, tt.expected.Mean) {
				t.Errorf("Expected mean %v, got %v", tt.expected.Mean, got.Mean)
			}
			if !floatsEqual(got.Median, tt.expected.Median) {
				t.Errorf("Expected median %v, got %v", tt.expected.Median, got.Median)
			}
			if !floatsEqual(got.Min, tt.expected.Min) {
				t.Errorf("Expected min %v, got %v", tt.expected.Min, got.Min)
			}
			if !floatsEqual(got.Max, tt.expected.Max) {
				t.Errorf("Expected max %v, got %v", tt.expected.Max, got.Max)
			}
			if !floatsEqual(got.Sum, tt.expected.Sum) {
				t.Errorf("Expected sum %v, got %v", tt.expected.Sum, got.Sum)
			}
			if !floatsEqual(got.StdDev, tt.expected.StdDev) {
				t.Errorf("Expected stddev %v, got %v", tt.expected.StdDev, got.StdDev)
			}
		})
	}
}

func TestSummarize_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Summarize(values)

	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("Expected input order preserved, got %v", values)
	}
}

func TestZScore(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		mean     float64
		stdDev   float64
		expected float64
	}{
		{"one stddev above", 15, 10, 5, 1},
		{"two below", 0, 10, 5, -2},
		{"at mean", 10, 10, 5, 0},
		{"zero stddev returns zero", 1000, 10, 0, 0},
		{"zero stddev negative value", -1000, 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ZScore(tt.value, tt.mean, tt.stdDev)
			if !floatsEqual(got, tt.expected) {
				t.Errorf("Expected z-score %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}

	tests := []struct {
		name     string
		values   []float64
		p        float64
		expected float64
	}{
		{"empty input", nil, 50, 0},
		{"minimum", values, 0, 10},
		{"maximum", values, 100, 50},
		{"median", values, 50, 30},
		{"interpolated", values, 25, 20},
		{"interpolated between elements", []float64{10, 20}, 50, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.values, tt.p)
			if !floatsEqual(got, tt.expected) {
				t.Errorf("Expected percentile %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestGroupBy(t *testing.T) {
	type record struct {
		key   string
		value int
	}

	items := []record{
		{"a", 1},
		{"b", 2},
		{"a", 3},
		{"b", 4},
		{"a", 5},
	}

	groups := GroupBy(items, func(r record) string { return r.key })

	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}

	a := groups["a"]
	if len(a) != 3 {
		t.Fatalf("Expected 3 items in group a, got %d", len(a))
	}

	// Insertion order within each group must be preserved
	if a[0].value != 1 || a[1].value != 3 || a[2].value != 5 {
		t.Errorf("Expected group a in insertion order, got %v", a)
	}
}

func TestSumBy(t *testing.T) {
	amounts := []decimal.Decimal{
		decimal.NewFromFloat(10.50),
		decimal.NewFromFloat(-3.25),
		decimal.NewFromFloat(2.75),
	}

	total := SumBy(amounts, func(d decimal.Decimal) decimal.Decimal { return d })
	expected := decimal.NewFromFloat(10.00)

	if !total.Equal(expected) {
		t.Errorf("Expected sum %s, got %s", expected, total)
	}

	empty := SumBy(nil, func(d decimal.Decimal) decimal.Decimal { return d })
	if !empty.IsZero() {
		t.Errorf("Expected zero sum for empty input, got %s", empty)
	}
}

func TestDecimals(t *testing.T) {
	values := []decimal.Decimal{
		decimal.NewFromFloat(1.5),
		decimal.NewFromFloat(-2.25),
	}

	floats := Decimals(values)
	if len(floats) != 2 {
		t.Fatalf("Expected 2 values, got %d", len(floats))
	}
	if !floatsEqual(floats[0], 1.5) || !floatsEqual(floats[1], -2.25) {
		t.Errorf("Expected [1.5 -2.25], got %v", floats)
	}
}
