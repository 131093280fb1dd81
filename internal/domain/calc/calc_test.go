package calc

import (
	"math"
	"strconv"
	"strings"
	"testing"
)

func TestEvaluate_Basics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr string
		want string
	}{
		{"2 + 2", "4"},
		{"12 * 7", "84"},
		{"10 - 3 * 2", "4"},
		{"(10 - 3) * 2", "14"},
		{"7 % 3", "1"},
		{"-7 % 3", "2"},
		{"2 ** 10", "1024"},
		{"2 ^ 10", "1024"},
		{"4²", "16"},
		{"2³", "8"},
		{"4 / 2", "2.0"},
		{"1 / 2", "0.5"},
		{"2 ** -1", "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := Evaluate(tt.expr); got != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluate_FunctionsAndConstants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr string
		want string
	}{
		{"sqrt(16)", "4.0"},
		{"sqrt(16) + 4", "8.0"},
		{"sin(pi/2)", "1.0"},
		{"cos(0)", "1.0"},
		{"sin(pi/2) + cos(0) + sqrt(16)", "6.0"},
		{"log(100)", "2.0"},
		{"exp(0)", "1.0"},
		{"abs(-3)", "3"},
		{"abs(-3.5)", "3.5"},
		{"round(2.6)", "3"},
		{"min(3, 1, 2)", "1"},
		{"max(3, 1, 2)", "3"},
		{"sum(1, 2, 3)", "6"},
		{"pow(2, 8)", "256"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := Evaluate(tt.expr); got != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluate_IntegerOverflowPromotesToFloat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr string
		want string
	}{
		// Results past int64 switch to float arithmetic instead of silently
		// wrapping around.
		{"10 ** 20", "1e+20"},
		{"2 ** 64", "1.8446744073709552e+19"},
		{"10000000000 * 10000000000", "1e+20"},
		{"9223372036854775807 + 9223372036854775807", "1.8446744073709552e+19"},
		{"0 - 9223372036854775807 - 9223372036854775807", "-1.8446744073709552e+19"},
		{"sum(9223372036854775807, 9223372036854775807)", "1.8446744073709552e+19"},
		// The largest products that still fit stay exact integers.
		{"3037000499 * 3037000499", "9223372030926249001"},
		{"2 ** 62", "4611686018427387904"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := Evaluate(tt.expr); got != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluate_LnIsNaturalLog(t *testing.T) {
	t.Parallel()

	got := Evaluate("ln(e)")
	f, err := strconv.ParseFloat(got, 64)
	if err != nil {
		t.Fatalf("Evaluate(ln(e)) = %q, not a number", got)
	}
	if math.Abs(f-1.0) > 1e-12 {
		t.Errorf("ln(e) = %v, want ~1.0", f)
	}
}

// "e" inside a function name must not be corrupted: the lexer treats
// identifiers as whole tokens, never as substrings to rewrite.
func TestEvaluate_IdentifiersContainingConstantLetters(t *testing.T) {
	t.Parallel()

	got := Evaluate("exp(1) - e")
	f, err := strconv.ParseFloat(got, 64)
	if err != nil || math.Abs(f) > 1e-12 {
		t.Errorf("exp(1) - e = %q, want ~0", got)
	}
	if got := Evaluate("max(e, pi)"); got != strconv.FormatFloat(math.Pi, 'g', -1, 64) {
		t.Errorf("max(e, pi) = %q, want pi", got)
	}
}

func TestEvaluate_Errors(t *testing.T) {
	t.Parallel()

	exprs := []string{
		"1/0",
		"1 % 0",
		"sqrt(-1)",
		"log(0)",
		"ln(-5)",
		"2 +",
		"(2 + 3",
		"foo(1)",
		"bogus + 1",
		"2 $ 2",
		"",
		"0 ** -1",
		"min()",
	}

	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			got := Evaluate(expr)
			if !strings.HasPrefix(got, "Calculation error:") {
				t.Errorf("Evaluate(%q) = %q, want Calculation error prefix", expr, got)
			}
		})
	}
}

func TestEvaluate_DivisionByZeroCause(t *testing.T) {
	t.Parallel()

	got := Evaluate("1/0")
	if !strings.Contains(got, "division by zero") {
		t.Errorf("Evaluate(1/0) = %q, want division by zero cause", got)
	}
}
