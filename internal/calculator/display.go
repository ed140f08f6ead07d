package calculator

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// errorText is what the user sees for every failure.
const errorText = "Error"

// Display is the value shown on the calculator: either a numeric literal or
// the Error sentinel. The zero value shows "0".
type Display struct {
	literal string
	failed  bool
}

// ErrorDisplay is the sentinel shown after any domain, division or overflow fault.
var ErrorDisplay = Display{failed: true}

// Literal wraps a literal as typed or formatted. No validation is done; a
// malformed literal only fails when it is parsed.
func Literal(s string) Display {
	return Display{literal: s}
}

func (d Display) IsError() bool { return d.failed }

func (d Display) String() string {
	if d.failed {
		return errorText
	}
	if d.literal == "" {
		return "0"
	}
	return d.literal
}

// Float parses the literal.
func (d Display) Float() (float64, error) {
	if d.failed {
		return 0, fmt.Errorf("parse display: %w", ErrMalformedOperand)
	}
	x, err := strconv.ParseFloat(d.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("parse display %q: %w", d.String(), ErrMalformedOperand)
	}
	return x, nil
}

func (d Display) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Display) UnmarshalText(b []byte) error {
	if string(b) == errorText {
		*d = ErrorDisplay
		return nil
	}
	*d = Literal(string(b))
	return nil
}

// Format renders x the way every computed result is shown:
//
//   - |x| > 1e10, or 0 < |x| < 1e-10: scientific notation, six mantissa digits
//   - integral values: integer literal
//   - otherwise: decimal literal rounded to at most 10 places
//
// NaN and infinities format as ErrorDisplay.
func Format(x float64) Display {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return ErrorDisplay
	}
	if x == 0 {
		return Literal("0")
	}

	ax := math.Abs(x)
	switch {
	case ax > 1e10 || ax < 1e-10:
		return Literal(fmt.Sprintf("%.6e", x))
	case x == math.Trunc(x):
		return Literal(strconv.FormatFloat(x, 'f', 0, 64))
	default:
		return Literal(decimal.NewFromFloat(x).Round(10).String())
	}
}
