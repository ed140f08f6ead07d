package calculator

import (
	"fmt"
	"math"
)

// Operator is a pending binary operation. The zero value is OpAdd so that a
// fresh calculator commits its first entry as 0 + value.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpPow
)

func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpPow:
		return "^"
	default:
		return fmt.Sprintf("Operator(%d)", int(op))
	}
}

// ParseOperator accepts the ASCII symbols and the keypad glyphs.
func ParseOperator(s string) (Operator, error) {
	switch s {
	case "+":
		return OpAdd, nil
	case "-", "−":
		return OpSub, nil
	case "*", "×", "x":
		return OpMul, nil
	case "/", "÷":
		return OpDiv, nil
	case "^", "xʸ", "x^y", "pow":
		return OpPow, nil
	default:
		return 0, fmt.Errorf("unknown operator %q", s)
	}
}

func (op Operator) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

func (op *Operator) UnmarshalText(b []byte) error {
	v, err := ParseOperator(string(b))
	if err != nil {
		return err
	}
	*op = v
	return nil
}

// Evaluate computes a op b and formats the result. On failure the display
// is ErrorDisplay and the error wraps one of the package sentinels.
func Evaluate(a, b float64, op Operator) (Display, error) {
	var r float64
	switch op {
	case OpAdd:
		r = a + b
	case OpSub:
		r = a - b
	case OpMul:
		r = a * b
	case OpDiv:
		if b == 0 {
			return ErrorDisplay, fmt.Errorf("%g / %g: %w", a, b, ErrDivisionByZero)
		}
		r = a / b
	case OpPow:
		r = math.Pow(a, b)
		if math.IsNaN(r) {
			return ErrorDisplay, fmt.Errorf("%g ^ %g: %w", a, b, ErrDomain)
		}
	default:
		return ErrorDisplay, fmt.Errorf("%v: %w", op, ErrDomain)
	}

	d := Format(r)
	if d.IsError() {
		return d, fmt.Errorf("%g %v %g: %w", a, op, b, ErrOverflow)
	}
	return d, nil
}
