package calculator

import (
	"fmt"
	"strings"
)

// Kind classifies a token for the state machine.
type Kind int

const (
	KindDigit Kind = iota
	KindOperator
	KindEquals
	KindPercent
	KindToggleSign
	KindToggleAngle
	KindClear
	KindFunction
	KindPower
)

func (k Kind) String() string {
	switch k {
	case KindDigit:
		return "digit"
	case KindOperator:
		return "operator"
	case KindEquals:
		return "equals"
	case KindPercent:
		return "percent"
	case KindToggleSign:
		return "toggle_sign"
	case KindToggleAngle:
		return "toggle_angle"
	case KindClear:
		return "clear"
	case KindFunction:
		return "function"
	case KindPower:
		return "power"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is one key press. Only the field matching Kind is meaningful.
type Token struct {
	Kind  Kind
	Digit byte // '0'-'9' or '.'
	Op    Operator
	Fn    Function
}

var (
	Equals      = Token{Kind: KindEquals}
	Percent     = Token{Kind: KindPercent}
	ToggleSign  = Token{Kind: KindToggleSign}
	ToggleAngle = Token{Kind: KindToggleAngle}
	Clear       = Token{Kind: KindClear}
	Power       = Token{Kind: KindPower, Op: OpPow}
)

// Digit returns the token for '0'-'9' or '.'. It panics on anything else.
func Digit(c byte) Token {
	if !isDigit(c) {
		panic(fmt.Sprintf("calculator: bad digit %q", c))
	}
	return Token{Kind: KindDigit, Digit: c}
}

// Op returns the token for op. OpPow is the xʸ key, which has its own kind.
func Op(op Operator) Token {
	if op == OpPow {
		return Power
	}
	return Token{Kind: KindOperator, Op: op}
}

func Func(fn Function) Token { return Token{Kind: KindFunction, Fn: fn} }

func isDigit(c byte) bool {
	return c == '.' || (c >= '0' && c <= '9')
}

// String returns the keypad label.
func (t Token) String() string {
	switch t.Kind {
	case KindDigit:
		return string(t.Digit)
	case KindOperator:
		return t.Op.String()
	case KindPower:
		return "xʸ"
	case KindEquals:
		return "="
	case KindPercent:
		return "%"
	case KindToggleSign:
		return "+/-"
	case KindToggleAngle:
		return "DEG/RAD"
	case KindClear:
		return "AC"
	case KindFunction:
		return t.Fn.String()
	default:
		return t.Kind.String()
	}
}

func (t Token) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Token) UnmarshalText(b []byte) error {
	v, err := ParseToken(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseToken maps a single keypad label to its token.
func ParseToken(label string) (Token, error) {
	if len(label) == 1 && isDigit(label[0]) {
		return Digit(label[0]), nil
	}
	switch label {
	case "=", "enter":
		return Equals, nil
	case "%":
		return Percent, nil
	case "+/-", "±", "neg":
		return ToggleSign, nil
	case "DEG/RAD", "deg/rad", "drg", "mode":
		return ToggleAngle, nil
	case "AC", "C", "ac", "clear":
		return Clear, nil
	}
	if op, err := ParseOperator(label); err == nil {
		return Op(op), nil
	}
	if fn, err := ParseFunction(label); err == nil {
		return Func(fn), nil
	}
	return Token{}, fmt.Errorf("unknown token %q", label)
}

// ParseSequence splits line on whitespace and parses each field. Numeric
// fields such as "12.5" expand to one digit token per character.
func ParseSequence(line string) ([]Token, error) {
	var toks []Token
	for _, field := range strings.Fields(line) {
		if isNumber(field) {
			for i := 0; i < len(field); i++ {
				toks = append(toks, Digit(field[i]))
			}
			continue
		}
		tok, err := ParseToken(field)
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
	return toks, nil
}

func isNumber(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return s != ""
}
