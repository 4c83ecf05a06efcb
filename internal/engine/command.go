package engine

import "fmt"

// Direction is a cursor movement direction.
type Direction uint8

const (
	DirLeft Direction = iota + 1
	DirRight
	DirUp
	DirDown
	DirLineStart
	DirLineEnd
	DirDocStart
	DirDocEnd
)

var directionNames = map[Direction]string{
	DirLeft:      "left",
	DirRight:     "right",
	DirUp:        "up",
	DirDown:      "down",
	DirLineStart: "line-start",
	DirLineEnd:   "line-end",
	DirDocStart:  "doc-start",
	DirDocEnd:    "doc-end",
}

// String returns the direction's name.
func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Direction(%d)", d)
}

// CommandKind identifies an engine command.
type CommandKind uint8

const (
	CmdInsertChar CommandKind = iota + 1
	CmdInsertNewline
	CmdInsertText
	CmdDeleteBackward
	CmdDeleteForward
	CmdMove
	CmdMoveTo
	CmdUndo
	CmdRedo
)

var commandNames = map[CommandKind]string{
	CmdInsertChar:     "insert-char",
	CmdInsertNewline:  "insert-newline",
	CmdInsertText:     "insert-text",
	CmdDeleteBackward: "delete-backward",
	CmdDeleteForward:  "delete-forward",
	CmdMove:           "move",
	CmdMoveTo:         "move-to",
	CmdUndo:           "undo",
	CmdRedo:           "redo",
}

// String returns the command kind's name.
func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return fmt.Sprintf("CommandKind(%d)", k)
}

// Command is an already-decoded editing command. Key decoding happens
// outside the engine; the engine only ever sees commands.
type Command struct {
	Kind CommandKind

	// Char is the character for CmdInsertChar.
	Char rune

	// Text is the text for CmdInsertText.
	Text string

	// Dir is the direction for CmdMove.
	Dir Direction

	// Offset is the target for CmdMoveTo.
	Offset Offset
}

// CharCommand returns a command inserting r.
func CharCommand(r rune) Command {
	return Command{Kind: CmdInsertChar, Char: r}
}

// TextCommand returns a command inserting s as one edit.
func TextCommand(s string) Command {
	return Command{Kind: CmdInsertText, Text: s}
}

// MoveCommand returns a command moving the cursor in direction d.
func MoveCommand(d Direction) Command {
	return Command{Kind: CmdMove, Dir: d}
}

// String returns a short description of the command.
func (c Command) String() string {
	switch c.Kind {
	case CmdInsertChar:
		return fmt.Sprintf("%s %q", c.Kind, c.Char)
	case CmdInsertText:
		return fmt.Sprintf("%s (%d bytes)", c.Kind, len(c.Text))
	case CmdMove:
		return fmt.Sprintf("%s %s", c.Kind, c.Dir)
	case CmdMoveTo:
		return fmt.Sprintf("%s %d", c.Kind, c.Offset)
	}
	return c.Kind.String()
}

// Apply dispatches cmd. The boolean reports whether the command changed
// anything; boundary no-ops and empty history return false with a nil error.
func (e *Engine) Apply(cmd Command) (bool, error) {
	switch cmd.Kind {
	case CmdInsertChar:
		return e.changed(e.InsertChar(cmd.Char))
	case CmdInsertNewline:
		return e.changed(e.InsertNewline())
	case CmdInsertText:
		if cmd.Text == "" {
			return false, nil
		}
		return e.changed(e.InsertText(cmd.Text))
	case CmdDeleteBackward:
		return e.DeleteBackward()
	case CmdDeleteForward:
		return e.DeleteForward()
	case CmdMove:
		return e.Move(cmd.Dir), nil
	case CmdMoveTo:
		before := e.cur.Offset()
		if err := e.MoveTo(cmd.Offset); err != nil {
			return false, err
		}
		return before != cmd.Offset, nil
	case CmdUndo:
		return e.Undo()
	case CmdRedo:
		return e.Redo()
	}
	return false, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Kind)
}

func (e *Engine) changed(err error) (bool, error) {
	return err == nil, err
}
