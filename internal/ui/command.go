package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-annotator/internal/history"
)

// CommandMode is the ":" command line
type CommandMode struct {
	*LineInput
}

// NewCommandMode creates a command line with in-memory history
func NewCommandMode() *CommandMode {
	return &CommandMode{LineInput: NewLineInput(":", NewHistory(50))}
}

// NewCommandModeWithHistory creates a command line whose history is kept
// in command.toml
func NewCommandModeWithHistory(manager *history.Manager) *CommandMode {
	return &CommandMode{LineInput: NewLineInput(":", NewPersistentHistory(50, manager, "command.toml"))}
}

// Command is a parsed command line: a name and its arguments
type Command struct {
	Name string
	Args []string
}

// ParseCommand splits a command line on whitespace. An empty line gives a
// zero Command.
func ParseCommand(line string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}
	}
	return Command{Name: fields[0], Args: fields[1:]}
}

// HandleKey edits the command line and returns the parsed command once it
// is submitted
func (c *CommandMode) HandleKey(ev *tcell.EventKey) (Command, bool) {
	line, done := c.LineInput.HandleKey(ev)
	if !done {
		return Command{}, false
	}
	return ParseCommand(line), true
}
