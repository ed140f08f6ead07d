package calculator

import "errors"

// Every fault collapses to ErrorDisplay; these only classify the cause.
var (
	ErrDomain           = errors.New("domain error")
	ErrDivisionByZero   = errors.New("division by zero")
	ErrOverflow         = errors.New("numeric overflow")
	ErrMalformedOperand = errors.New("malformed operand")
)

// ErrorKind returns a short label for metrics and logs, or "" for nil.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDomain):
		return "domain"
	case errors.Is(err, ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, ErrOverflow):
		return "overflow"
	case errors.Is(err, ErrMalformedOperand):
		return "malformed_operand"
	default:
		return "unknown"
	}
}
