package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-annotator/internal/config"
	"github.com/pstuifzand/tui-annotator/internal/export"
	"github.com/pstuifzand/tui-annotator/internal/model"
	"github.com/pstuifzand/tui-annotator/internal/outliner"
	"github.com/pstuifzand/tui-annotator/internal/ui"
)

// KeyBinding represents a key binding with its description and handler
type KeyBinding struct {
	Key         rune
	Description string
	Handler     func(*App)
}

// GetKey returns the key of this keybinding
func (kb *KeyBinding) GetKey() rune {
	return kb.Key
}

// GetDescription returns the description of this keybinding
func (kb *KeyBinding) GetDescription() string {
	return kb.Description
}

// InitializeKeybindings sets up all the key bindings
func (a *App) InitializeKeybindings() []KeyBinding {
	return []KeyBinding{
		{
			Key:         'j',
			Description: "Move down",
			Handler: func(app *App) {
				app.outliner.MoveCursor(1)
			},
		},
		{
			Key:         'k',
			Description: "Move up",
			Handler: func(app *App) {
				app.outliner.MoveCursor(-1)
			},
		},
		{
			Key:         'x',
			Description: "Add or remove region from selection",
			Handler: func(app *App) {
				app.outliner.SelectCursor(true)
			},
		},
		{
			Key:         'v',
			Description: "Hide or show region",
			Handler: func(app *App) {
				app.outliner.ToggleCursorVisibility()
			},
		},
		{
			Key:         'V',
			Description: "Hide or show all regions",
			Handler: func(app *App) {
				app.toggleAll()
			},
		},
		{
			Key:         'g',
			Description: "Cycle grouping (manual, label, type)",
			Handler: func(app *App) {
				g := app.outliner.CycleGrouping()
				app.SetStatus("Grouping: " + string(g))
			},
		},
		{
			Key:         'o',
			Description: "Cycle ordering (date, score)",
			Handler: func(app *App) {
				o := app.outliner.CycleOrdering()
				app.SetStatus("Ordering: " + config.FormatOrdering(o))
			},
		},
		{
			Key:         'm',
			Description: "Grab region to move it",
			Handler: func(app *App) {
				if app.outliner.Grab() {
					app.SetStatus("Moving " + app.outliner.Grabbed() + ": p drops into, P drops before, Esc cancels")
				}
			},
		},
		{
			Key:         'p',
			Description: "Drop grabbed region into cursor region",
			Handler: func(app *App) {
				app.dropOnCursor(0)
			},
		},
		{
			Key:         'P',
			Description: "Drop grabbed region before cursor region",
			Handler: func(app *App) {
				app.dropOnCursor(outliner.PositionBefore)
			},
		},
		{
			Key:         '/',
			Description: "Search regions",
			Handler: func(app *App) {
				app.search.Start("")
			},
		},
		{
			Key:         'n',
			Description: "Next search match",
			Handler: func(app *App) {
				app.jumpToMatch(app.search.Next())
			},
		},
		{
			Key:         'N',
			Description: "Previous search match",
			Handler: func(app *App) {
				app.jumpToMatch(app.search.Previous())
			},
		},
		{
			Key:         'c',
			Description: "Write a comment",
			Handler: func(app *App) {
				app.commentsPanel.StartInput()
				app.refreshComments()
			},
		},
		{
			Key:         'C',
			Description: "Show or hide comments",
			Handler: func(app *App) {
				if app.commentsPanel.IsVisible() {
					app.commentsPanel.Hide()
					return
				}
				app.commentsPanel.Show()
				app.refreshComments()
			},
		},
		{
			Key:         'w',
			Description: "Save",
			Handler: func(app *App) {
				app.saveWithStatus()
			},
		},
		{
			Key:         'q',
			Description: "Quit",
			Handler: func(app *App) {
				app.requestQuit(false)
			},
		},
		{
			Key:         '?',
			Description: "Toggle help",
			Handler: func(app *App) {
				app.help.Toggle()
			},
		},
		{
			Key:         ':',
			Description: "Command line",
			Handler: func(app *App) {
				app.command.Start("")
			},
		},
	}
}

// handleKeypress handles a single keypress in normal mode
func (a *App) handleKeypress(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyDown:
		a.outliner.MoveCursor(1)
		return
	case tcell.KeyUp:
		a.outliner.MoveCursor(-1)
		return
	case tcell.KeyHome:
		a.outliner.SetCursor(0)
		return
	case tcell.KeyEnd:
		a.outliner.SetCursor(len(a.outliner.Rows()) - 1)
		return
	case tcell.KeyEnter:
		a.outliner.SelectCursor(ui.IsMultiSelect(ev.Modifiers()))
		return
	case tcell.KeyEscape:
		if a.outliner.Grabbed() != "" {
			a.outliner.CancelGrab()
			a.SetStatus("Move cancelled")
		}
		return
	case tcell.KeyCtrlS:
		a.saveWithStatus()
		return
	case tcell.KeyRune:
	default:
		return
	}

	for i := range a.keybindings {
		if a.keybindings[i].Key == ev.Rune() {
			a.keybindings[i].Handler(a)
			return
		}
	}
}

func (a *App) saveWithStatus() {
	if err := a.Save(); err != nil {
		a.SetStatus("Failed to save: " + err.Error())
	} else {
		a.SetStatus("Saved")
	}
}

var commandSummaries = []string{
	"w              save",
	"q, q!, wq      quit, force quit, save and quit",
	"group <mode>   manual, label or type",
	"order <mode>   date, date-desc, score or score-desc",
	"set [key [value]]  show or change a session setting",
	"export <file.md>   write the region tree as markdown",
	"backups        open a backup read-only",
	"messages       show recent status messages",
	"help           show this help",
	"debug          show key events in the status line",
}

// handleCommand processes a command from command mode
func (a *App) handleCommand(cmd ui.Command) {
	switch cmd.Name {
	case "":
		return
	case "q", "quit":
		a.requestQuit(false)
	case "q!", "quit!":
		a.requestQuit(true)
	case "w", "write":
		a.saveWithStatus()
	case "wq", "x":
		if err := a.Save(); err != nil {
			a.SetStatus("Failed to save: " + err.Error())
			return
		}
		a.requestQuit(false)
	case "group":
		if len(cmd.Args) != 1 || !validGrouping(cmd.Args[0]) {
			a.SetStatus("Usage: group manual|label|type")
			return
		}
		a.outliner.SetGrouping(model.Grouping(cmd.Args[0]))
		a.SetStatus("Grouping: " + cmd.Args[0])
	case "order":
		if len(cmd.Args) != 1 {
			a.SetStatus("Usage: order date|date-desc|score|score-desc")
			return
		}
		o := config.ParseOrdering(cmd.Args[0])
		a.outliner.SetOrdering(o)
		a.SetStatus("Ordering: " + config.FormatOrdering(o))
	case "set":
		a.handleSetCommand(cmd.Args)
	case "export":
		if len(cmd.Args) != 1 {
			a.SetStatus("Usage: export <file.md>")
			return
		}
		err := export.ExportToMarkdown(a.doc.Store, a.outliner.Grouping(), a.outliner.Ordering(), cmd.Args[0])
		if err != nil {
			a.SetStatus("Export failed: " + err.Error())
			return
		}
		a.SetStatus("Exported to " + cmd.Args[0])
	case "backups":
		a.showBackups()
	case "messages":
		a.messages.Toggle()
	case "help":
		a.help.Toggle()
	case "debug":
		a.debugMode = !a.debugMode
		if a.debugMode {
			a.SetStatus("Debug mode ON")
		} else {
			a.SetStatus("Debug mode OFF")
		}
	default:
		a.SetStatus("Unknown command: " + cmd.Name)
	}
}

func validGrouping(s string) bool {
	for _, g := range model.Groupings {
		if string(g) == s {
			return true
		}
	}
	return false
}

// handleSetCommand shows or changes session settings. grouping and ordering
// apply to the view immediately.
func (a *App) handleSetCommand(args []string) {
	switch len(args) {
	case 0:
		var parts []string
		for k, v := range a.cfg.GetAll() {
			parts = append(parts, k+"="+v)
		}
		if len(parts) == 0 {
			a.SetStatus("No settings")
			return
		}
		slices.Sort(parts)
		a.SetStatus(strings.Join(parts, " "))
	case 1:
		a.SetStatus(fmt.Sprintf("%s=%s", args[0], a.cfg.Get(args[0])))
	default:
		key, value := args[0], strings.Join(args[1:], " ")
		a.cfg.Set(key, value)
		switch key {
		case "grouping":
			a.outliner.SetGrouping(a.cfg.GroupingMode())
		case "ordering":
			a.outliner.SetOrdering(a.cfg.OrderingMode())
		}
		a.SetStatus(fmt.Sprintf("%s=%s", key, value))
	}
}
