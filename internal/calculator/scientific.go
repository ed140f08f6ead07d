package calculator

import (
	"fmt"
	"math"
	"math/big"
)

// AngleMode selects how sin, cos and tan read their argument.
type AngleMode int

const (
	Degrees AngleMode = iota
	Radians
)

func (m AngleMode) String() string {
	if m == Radians {
		return "RAD"
	}
	return "DEG"
}

// Toggle returns the other mode.
func (m AngleMode) Toggle() AngleMode {
	if m == Radians {
		return Degrees
	}
	return Radians
}

func ParseAngleMode(s string) (AngleMode, error) {
	switch s {
	case "DEG", "deg", "degrees", "Degrees":
		return Degrees, nil
	case "RAD", "rad", "radians", "Radians":
		return Radians, nil
	default:
		return 0, fmt.Errorf("unknown angle mode %q", s)
	}
}

func (m AngleMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *AngleMode) UnmarshalText(b []byte) error {
	v, err := ParseAngleMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Function is a unary scientific key.
type Function int

const (
	FnSqrt Function = iota
	FnSquare
	FnExp
	FnPow10
	FnFactorial
	FnSin
	FnCos
	FnTan
	FnLog
	FnLn
	FnPi
)

var functionNames = [...]string{
	FnSqrt:      "√",
	FnSquare:    "x²",
	FnExp:       "eˣ",
	FnPow10:     "10ˣ",
	FnFactorial: "n!",
	FnSin:       "sin",
	FnCos:       "cos",
	FnTan:       "tan",
	FnLog:       "log",
	FnLn:        "ln",
	FnPi:        "π",
}

func (fn Function) String() string {
	if fn < 0 || int(fn) >= len(functionNames) {
		return fmt.Sprintf("Function(%d)", int(fn))
	}
	return functionNames[fn]
}

// ParseFunction accepts the keypad glyphs and ASCII spellings.
func ParseFunction(s string) (Function, error) {
	switch s {
	case "√", "sqrt":
		return FnSqrt, nil
	case "x²", "x^2", "sq", "square":
		return FnSquare, nil
	case "eˣ", "e^x", "exp":
		return FnExp, nil
	case "10ˣ", "10^x", "pow10":
		return FnPow10, nil
	case "n!", "!", "fact", "factorial":
		return FnFactorial, nil
	case "sin":
		return FnSin, nil
	case "cos":
		return FnCos, nil
	case "tan":
		return FnTan, nil
	case "log", "log10":
		return FnLog, nil
	case "ln":
		return FnLn, nil
	case "π", "pi":
		return FnPi, nil
	default:
		return 0, fmt.Errorf("unknown function %q", s)
	}
}

func (fn Function) MarshalText() ([]byte, error) {
	return []byte(fn.String()), nil
}

func (fn *Function) UnmarshalText(b []byte) error {
	v, err := ParseFunction(string(b))
	if err != nil {
		return err
	}
	*fn = v
	return nil
}

// maxFactorial is the largest n whose factorial is finite as a float64.
const maxFactorial = 170

// Apply evaluates fn at x and formats the result. Like Evaluate it never
// fails past its boundary: faults give ErrorDisplay plus a classifying error.
func Apply(fn Function, x float64, mode AngleMode) (Display, error) {
	var r float64
	switch fn {
	case FnSqrt:
		if x < 0 {
			return ErrorDisplay, fmt.Errorf("√%g: %w", x, ErrDomain)
		}
		r = math.Sqrt(x)
	case FnSquare:
		r = x * x
	case FnExp:
		r = math.Exp(x)
	case FnPow10:
		r = math.Pow(10, x)
	case FnFactorial:
		f, err := factorial(x)
		if err != nil {
			return ErrorDisplay, err
		}
		r = f
	case FnSin:
		r = math.Sin(toRadians(x, mode))
	case FnCos:
		r = math.Cos(toRadians(x, mode))
	case FnTan:
		r = math.Tan(toRadians(x, mode))
	case FnLog:
		if x <= 0 {
			return ErrorDisplay, fmt.Errorf("log %g: %w", x, ErrDomain)
		}
		r = math.Log10(x)
	case FnLn:
		if x <= 0 {
			return ErrorDisplay, fmt.Errorf("ln %g: %w", x, ErrDomain)
		}
		r = math.Log(x)
	case FnPi:
		r = math.Pi
	default:
		return ErrorDisplay, fmt.Errorf("%v: %w", fn, ErrDomain)
	}

	d := Format(r)
	if d.IsError() {
		return d, fmt.Errorf("%v %g: %w", fn, x, ErrOverflow)
	}
	return d, nil
}

func toRadians(x float64, mode AngleMode) float64 {
	if mode == Degrees {
		return x * math.Pi / 180
	}
	return x
}

// factorial computes n! exactly and converts the product to float64.
func factorial(x float64) (float64, error) {
	if x < 0 || x != math.Trunc(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("%g!: %w", x, ErrDomain)
	}
	if x > maxFactorial {
		return 0, fmt.Errorf("%g!: %w", x, ErrOverflow)
	}
	n := int64(x)
	if n < 2 {
		return 1, nil
	}
	p := new(big.Int).MulRange(2, n)
	f, _ := new(big.Float).SetInt(p).Float64()
	return f, nil
}
