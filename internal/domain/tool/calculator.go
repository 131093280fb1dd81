package tool

import (
	"context"

	"github.com/nvillagra/sage/internal/domain/calc"
)

// Calculator wraps the expression evaluator as a registry tool.
// It never returns an error: evaluation failures are already encoded as
// "Calculation error: ..." text by the calc package.
type Calculator struct{}

// NewCalculator returns the calculator tool.
func NewCalculator() *Calculator {
	return &Calculator{}
}

func (c *Calculator) Name() string { return NameCalculator }

func (c *Calculator) Description() string {
	return "Performs complex mathematical calculations including trigonometric, " +
		"logarithmic, and exponential functions."
}

func (c *Calculator) Invoke(_ context.Context, argument string) (string, error) {
	return calc.Evaluate(argument), nil
}
