package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"

	"scicalc/internal/calculator"
	"scicalc/internal/config"
)

const prompt = "calc> "

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	angle := flag.String("angle", cfg.AngleMode.String(), "initial angle mode (DEG or RAD)")
	flag.Parse()

	mode, err := calculator.ParseAngleMode(*angle)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	rl, err := readline.New(prompt)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	r := newREPL(calculator.New(calculator.WithAngleMode(mode)), rl.Stdout())
	r.show()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil { // io.EOF
			break
		}
		if r.eval(line) {
			break
		}
	}
}

// repl drives one local machine from text lines.
type repl struct {
	m   *calculator.Machine
	out io.Writer
}

func newREPL(m *calculator.Machine, out io.Writer) *repl {
	return &repl{m: m, out: out}
}

// eval handles one input line and reports whether the user asked to quit.
// A line with an unknown token is rejected as a whole.
func (r *repl) eval(line string) (quit bool) {
	switch line {
	case ":quit", ":q", ":exit":
		return true
	case ":state":
		s := r.m.State()
		fmt.Fprintf(r.out, "display=%s pending=%v %s fresh=%t angle=%s\n",
			s.Display, s.PendingOperand, s.PendingOperator, s.AwaitingFreshOperand, s.AngleMode)
		return false
	case ":help":
		fmt.Fprintln(r.out, "keys: 0-9 . + - × ÷ xʸ = % +/- DEG/RAD AC √ x² eˣ 10ˣ n! sin cos tan log ln π")
		fmt.Fprintln(r.out, "commands: :state :help :quit")
		return false
	}

	toks, err := calculator.ParseSequence(line)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return false
	}
	if len(toks) == 0 {
		return false
	}

	for _, tok := range toks {
		r.m.Handle(tok)
	}
	r.show()
	return false
}

func (r *repl) show() {
	s := r.m.State()
	fmt.Fprintf(r.out, "[%s] %s\n", s.AngleMode, s.Display)
}
