// Package calculator evaluates scientific calculator key presses one at a
// time, the way a pocket calculator does.
package calculator

import (
	"math"
)

// State is the whole running calculation. The zero value is not the initial
// state; use NewState.
type State struct {
	Display              Display   `json:"display"`
	PendingOperand       float64   `json:"pending_operand"`
	PendingOperator      Operator  `json:"pending_operator"`
	AwaitingFreshOperand bool      `json:"awaiting_fresh_operand"`
	AngleMode            AngleMode `json:"angle_mode"`
}

// NewState returns the power-on state in the given angle mode.
func NewState(mode AngleMode) State {
	return State{
		Display:              Literal("0"),
		PendingOperator:      OpAdd,
		AwaitingFreshOperand: true,
		AngleMode:            mode,
	}
}

// Machine evaluates key presses left to right with one pending operator,
// the way a pocket calculator does. It is not safe for concurrent use.
type Machine struct {
	state State
}

type Option func(*Machine)

// WithAngleMode sets the angle mode the machine starts in.
func WithAngleMode(mode AngleMode) Option {
	return func(m *Machine) { m.state.AngleMode = mode }
}

func New(opts ...Option) *Machine {
	m := &Machine{state: NewState(Degrees)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) State() State { return m.state }

func (m *Machine) Restore(s State) { m.state = s }

func (m *Machine) Display() Display { return m.state.Display }

// Handle applies tok and returns the new display.
func (m *Machine) Handle(tok Token) Display {
	d, _ := m.Step(tok)
	return d
}

// Step applies tok. The error is non-nil only when this token put the
// display into Error, and tells why.
func (m *Machine) Step(tok Token) (Display, error) {
	// An Error display is cleared before any token is processed.
	if m.state.Display.IsError() {
		m.clear()
	}

	var err error
	switch tok.Kind {
	case KindClear:
		m.clear()
	case KindToggleAngle:
		m.state.AngleMode = m.state.AngleMode.Toggle()
	case KindDigit:
		m.digit(tok.Digit)
	case KindOperator:
		err = m.commit(tok.Op)
	case KindPower:
		err = m.power()
	case KindEquals:
		err = m.commit(OpAdd)
		m.resetPending()
	case KindPercent:
		err = m.percent()
	case KindToggleSign:
		err = m.toggleSign()
	case KindFunction:
		err = m.function(tok.Fn)
	}
	return m.state.Display, err
}

// clear resets everything except the angle mode.
func (m *Machine) clear() {
	m.state = NewState(m.state.AngleMode)
}

func (m *Machine) resetPending() {
	m.state.PendingOperand = 0
	m.state.PendingOperator = OpAdd
	m.state.AwaitingFreshOperand = true
}

// fail shows Error and drops the pending operation.
func (m *Machine) fail(err error) error {
	m.state.Display = ErrorDisplay
	m.resetPending()
	return err
}

func (m *Machine) digit(c byte) {
	s := m.state.Display.String()
	if s == "0" || m.state.AwaitingFreshOperand {
		m.state.Display = Literal(string(c))
		m.state.AwaitingFreshOperand = false
		return
	}
	// A second '.' is appended as typed; the literal fails when parsed.
	m.state.Display = Literal(s + string(c))
}

// commit applies the pending operation to the displayed value and makes
// next the new pending operator.
func (m *Machine) commit(next Operator) error {
	x, err := m.state.Display.Float()
	if err != nil {
		return m.fail(err)
	}

	d, err := Evaluate(m.state.PendingOperand, x, m.state.PendingOperator)
	m.state.Display = d
	m.state.PendingOperand = 0
	if err == nil {
		// Carry the value as displayed, not the unrounded result.
		m.state.PendingOperand, _ = d.Float()
	}
	m.state.PendingOperator = next
	m.state.AwaitingFreshOperand = true
	return err
}

// power takes the displayed value as the base. Unlike the other operators
// it does not apply the pending operation, and the display is unchanged.
func (m *Machine) power() error {
	x, err := m.state.Display.Float()
	if err != nil {
		return m.fail(err)
	}
	m.state.PendingOperand = x
	m.state.PendingOperator = OpPow
	m.state.AwaitingFreshOperand = true
	return nil
}

func (m *Machine) percent() error {
	x, err := m.state.Display.Float()
	if err != nil {
		return m.fail(err)
	}
	m.state.Display = Format(x / 100)
	m.resetPending()
	return nil
}

func (m *Machine) toggleSign() error {
	x, err := m.state.Display.Float()
	if err != nil {
		return m.fail(err)
	}
	switch {
	case x > 0:
		m.state.Display = Literal("-" + m.state.Display.String())
	case x < 0:
		m.state.Display = Format(math.Abs(x))
	}
	return nil
}

func (m *Machine) function(fn Function) error {
	if fn == FnPi {
		// π is a literal: the pending operation survives so "2 × π =" works.
		m.state.Display = Format(math.Pi)
		m.state.AwaitingFreshOperand = true
		return nil
	}

	x, err := m.state.Display.Float()
	if err != nil {
		return m.fail(err)
	}
	d, err := Apply(fn, x, m.state.AngleMode)
	m.state.Display = d
	m.resetPending()
	return err
}
