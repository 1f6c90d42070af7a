// Package script replays line-oriented stroke scripts against a session.
//
// Each non-blank line holds one command; text after '#' is a comment:
//
//	tool line
//	color tomato
//	width 3
//	down 10 10
//	move 50 40
//	up
//	fill 5 5
//	undo
package script

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/example/pixelpad/internal/config"
	"github.com/example/pixelpad/internal/session"
)

// Op identifies a script command.
type Op string

const (
	OpTool    Op = "tool"
	OpColor   Op = "color"
	OpWidth   Op = "width"
	OpDown    Op = "down"
	OpMove    Op = "move"
	OpUp      Op = "up"
	OpAbandon Op = "abandon"
	OpFill    Op = "fill"
	OpUndo    Op = "undo"
	OpRedo    Op = "redo"
	OpClear   Op = "clear"
)

// Command is one parsed script line.
type Command struct {
	Line  int
	Op    Op
	Tool  session.Tool
	Color color.RGBA
	N     int
	X, Y  int
}

// Error reports a script failure with its line number.
type Error struct {
	Line int
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Parse reads every command in r. Parsing stops at the first malformed line.
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		args := stripComment(strings.Fields(scanner.Text()))
		if len(args) == 0 {
			continue
		}
		cmd, err := parseCommand(args)
		if err != nil {
			return nil, &Error{Line: n, Err: err}
		}
		cmd.Line = n
		cmds = append(cmds, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cmds, nil
}

// stripComment drops every field from the first one starting with '#'. The
// argument of color and clear is exempt since it may be a hex colour.
func stripComment(fields []string) []string {
	for i, f := range fields {
		if !strings.HasPrefix(f, "#") {
			continue
		}
		if i == 1 && takesColor(fields[0]) {
			continue
		}
		return fields[:i]
	}
	return fields
}

func takesColor(op string) bool {
	switch Op(strings.ToLower(op)) {
	case OpColor, OpClear:
		return true
	}
	return false
}

func parseCommand(args []string) (Command, error) {
	op := Op(strings.ToLower(args[0]))
	rest := args[1:]
	cmd := Command{Op: op}
	switch op {
	case OpTool:
		if len(rest) != 1 {
			return cmd, fmt.Errorf("tool requires a name")
		}
		t, err := session.ParseTool(rest[0])
		if err != nil {
			return cmd, err
		}
		cmd.Tool = t
	case OpColor, OpClear:
		if len(rest) != 1 {
			return cmd, fmt.Errorf("%s requires one colour", op)
		}
		c, err := config.ParseColor(rest[0])
		if err != nil {
			return cmd, err
		}
		cmd.Color = c
	case OpWidth:
		vals, err := expectInts(rest, 1, op)
		if err != nil {
			return cmd, err
		}
		cmd.N = vals[0]
	case OpDown, OpMove, OpFill:
		vals, err := expectInts(rest, 2, op)
		if err != nil {
			return cmd, err
		}
		cmd.X, cmd.Y = vals[0], vals[1]
	case OpUp, OpAbandon, OpUndo, OpRedo:
		if len(rest) != 0 {
			return cmd, fmt.Errorf("%s takes no arguments", op)
		}
	default:
		return cmd, fmt.Errorf("unknown command %q", args[0])
	}
	return cmd, nil
}

func expectInts(args []string, n int, op Op) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d integer arguments", op, n)
	}
	vals := make([]int, n)
	for i, raw := range args {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		vals[i] = v
	}
	return vals, nil
}

// Result summarises an executed script.
type Result struct {
	Commands int
	Strokes  int
	Undos    int
	Redos    int
	Filled   int
}

// Exec applies cmds to s in order and stops at the first failing command.
// An undo or redo with nothing to restore is not a failure. A stroke left
// open at the end is committed.
func Exec(s *session.Session, cmds []Command) (Result, error) {
	var res Result
	for _, cmd := range cmds {
		if err := apply(s, cmd, &res); err != nil {
			return res, &Error{Line: cmd.Line, Err: err}
		}
		res.Commands++
	}
	if s.Active() {
		if err := s.StrokeEnd(); err != nil {
			return res, err
		}
		res.Strokes++
	}
	return res, nil
}

func apply(s *session.Session, cmd Command, res *Result) error {
	switch cmd.Op {
	case OpTool:
		s.SetTool(cmd.Tool)
	case OpColor:
		s.SetColor(cmd.Color)
	case OpWidth:
		s.SetWidth(cmd.N)
	case OpDown:
		return s.StrokeStart(cmd.X, cmd.Y)
	case OpMove:
		return s.StrokeMove(cmd.X, cmd.Y)
	case OpUp:
		// The fill tool never leaves a stroke open.
		if !s.Active() {
			return nil
		}
		if err := s.StrokeEnd(); err != nil {
			return err
		}
		res.Strokes++
	case OpAbandon:
		s.Abandon()
	case OpFill:
		n, err := s.Fill(cmd.X, cmd.Y)
		if err != nil {
			return err
		}
		res.Filled += n
	case OpUndo:
		if s.Undo() {
			res.Undos++
		}
	case OpRedo:
		if s.Redo() {
			res.Redos++
		}
	case OpClear:
		return s.Clear(cmd.Color)
	default:
		return fmt.Errorf("unknown command %q", cmd.Op)
	}
	return nil
}

// Run parses r and executes it against s.
func Run(s *session.Session, r io.Reader) (Result, error) {
	cmds, err := Parse(r)
	if err != nil {
		return Result{}, err
	}
	return Exec(s, cmds)
}
