package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-annotator/internal/comments"
	"github.com/pstuifzand/tui-annotator/internal/config"
	"github.com/pstuifzand/tui-annotator/internal/history"
	"github.com/pstuifzand/tui-annotator/internal/model"
	"github.com/pstuifzand/tui-annotator/internal/socket"
	"github.com/pstuifzand/tui-annotator/internal/storage"
	"github.com/pstuifzand/tui-annotator/internal/theme"
	"github.com/pstuifzand/tui-annotator/internal/ui"
)

const (
	autoSaveDelay = 5 * time.Second
	statusTimeout = 3 * time.Second
)

// Options configures NewApp. Zero values select the defaults of a normal
// terminal session.
type Options struct {
	// Screen replaces the terminal, e.g. with a simulation screen
	Screen tcell.Screen
	// Cache holds comment drafts; nil uses redis when configured, else memory
	Cache comments.Cache
	// History persists prompt history; nil keeps it in memory
	History *history.Manager
	// Backups snapshots saved tasks; nil disables backups
	Backups *storage.BackupManager
	// Socket enables the control socket in SocketDir (default socket.SocketDir())
	Socket    bool
	SocketDir string
}

// App is the main application controller
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	screen *ui.Screen
	cfg    *config.Config

	taskStore    *storage.TaskStore
	doc          *storage.Document
	originalPath string
	unsubscribe  func()

	outliner      *ui.OutlinerView
	canvas        *ui.CanvasPanel
	commentsPanel *ui.CommentsPanel
	search        *ui.Search
	command       *ui.CommandMode
	help          *ui.HelpScreen
	messages      *ui.MessageLog
	backupPicker  *ui.BackupPicker
	keybindings   []KeyBinding

	cache        comments.Cache
	ownsCache    bool
	backupMgr    *storage.BackupManager
	socketServer *socket.Server
	commentLoads chan error

	sessionID    string
	statusMsg    string
	statusTime   time.Time
	dirty        bool
	autoSaveTime time.Time
	quit         bool
	quitPending  bool
	debugMode    bool
	lastButtons  tcell.ButtonMask
}

// NewApp opens the task at filePath and prepares the screen
func NewApp(filePath string, cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	th := theme.LoadThemeOrDefault(cfg.Theme)
	var screen *ui.Screen
	var err error
	if opts.Screen != nil {
		screen, err = ui.NewScreenFrom(opts.Screen, th)
	} else {
		screen, err = ui.NewScreen(th)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	screen.EnableMouse()

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		ctx:          ctx,
		cancel:       cancel,
		screen:       screen,
		cfg:          cfg,
		help:         ui.NewHelpScreen(),
		messages:     ui.NewMessageLog(100),
		backupPicker: ui.NewBackupPicker(),
		backupMgr:    opts.Backups,
		commentLoads: make(chan error, 4),
		sessionID:    generateSessionID(),
		statusTime:   time.Now(),
		autoSaveTime: time.Now(),
	}

	if opts.History != nil {
		a.search = ui.NewSearchWithHistory(opts.History)
		a.command = ui.NewCommandModeWithHistory(opts.History)
	} else {
		a.search = ui.NewSearch()
		a.command = ui.NewCommandMode()
	}

	a.cache = opts.Cache
	if a.cache == nil {
		a.cache, a.ownsCache = newCache(cfg.RedisURL), true
	}

	author := cfg.Author
	if author == "" {
		author = os.Getenv("USER")
	}
	backend := storage.NewCommentFile(storage.CommentsPath(filePath))
	loader := comments.NewLoader(comments.NewStore(backend, a.cache, "", author), "")
	a.commentsPanel = ui.NewCommentsPanel(loader, cfg.Get("comment_time_format"))

	a.keybindings = a.InitializeKeybindings()
	helpKeys := make([]ui.KeyBindingInfo, len(a.keybindings))
	for i := range a.keybindings {
		helpKeys[i] = &a.keybindings[i]
	}
	a.help.SetKeybindings(helpKeys)
	a.help.SetCommands(commandSummaries)

	if err := a.open(filePath, false); err != nil {
		a.Close()
		return nil, err
	}

	if opts.Socket {
		dir := opts.SocketDir
		if dir == "" {
			dir = socket.SocketDir()
		}
		server, err := socket.NewServerIn(dir, os.Getpid())
		if err != nil {
			log.Printf("control socket disabled: %v", err)
		} else {
			server.Start()
			a.socketServer = server
		}
	}

	a.commentsPanel.Show()
	a.refreshComments()
	a.SetStatus("Ready")
	return a, nil
}

func newCache(redisURL string) comments.Cache {
	if redisURL == "" {
		return comments.NewMemoryCache()
	}
	cache, err := comments.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("draft cache: %v; keeping drafts in memory", err)
		return comments.NewMemoryCache()
	}
	return cache
}

// open loads the task at path and rebuilds every view over it
func (a *App) open(path string, readOnly bool) error {
	ts := storage.NewTaskStore(path)
	ts.ReadOnly = ts.ReadOnly || readOnly
	task, err := ts.Load()
	if err != nil {
		return fmt.Errorf("failed to load task: %w", err)
	}
	doc, err := storage.Open(task)
	if err != nil {
		return err
	}

	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if a.outliner != nil {
		a.outliner.Close()
	}

	a.taskStore = ts
	a.doc = doc
	a.dirty = false
	a.outliner = ui.NewOutlinerView(doc.Store)
	a.outliner.SetGrouping(a.cfg.GroupingMode())
	a.outliner.SetOrdering(a.cfg.OrderingMode())
	a.outliner.SetCursor(0)
	a.canvas = ui.NewCanvasPanel(doc.Store)
	a.unsubscribe = doc.Store.Subscribe(a.onStoreEvent)

	parentID := doc.AnnotationID
	if parentID == "" {
		parentID = "task"
	}
	original := path
	if a.originalPath != "" {
		original = a.originalPath
	}
	if abs, err := filepath.Abs(original); err == nil {
		original = abs
	}
	loader := a.commentsPanel.Loader()
	loader.Store().SetParentID(parentID)
	loader.SetCacheKey(original + "#" + parentID)

	log.Printf("opened %s: %d regions (read-only=%v)", path, doc.Store.Count(), ts.ReadOnly)
	return nil
}

// onStoreEvent marks the task modified for changes that are saved
func (a *App) onStoreEvent(ev model.Event) {
	switch ev.Kind {
	case model.EventParentChanged, model.EventVisibilityChanged:
		if !a.dirty {
			a.autoSaveTime = time.Now()
		}
		a.dirty = true
	}
}

// refreshComments starts a comment load when the thread changed
func (a *App) refreshComments() {
	a.commentsPanel.Loader().Refresh(a.ctx, func(err error) {
		select {
		case a.commentLoads <- err:
		default:
		}
	})
}

// Run starts the main event loop
func (a *App) Run() error {
	defer a.Close()

	eventChan := make(chan tcell.Event)
	screen := a.screen
	go func() {
		for {
			event := screen.PollEvent()
			if event == nil {
				close(eventChan)
				return
			}
			eventChan <- event
		}
	}()

	var socketMessages <-chan socket.Message
	if a.socketServer != nil {
		socketMessages = a.socketServer.Messages()
	}

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for !a.quit {
		select {
		case ev, ok := <-eventChan:
			if !ok {
				return nil
			}
			a.HandleEvent(ev)
		case msg := <-socketMessages:
			a.handleSocketMessage(msg)
		case err := <-a.commentLoads:
			a.handleCommentLoad(err)
		case <-ticker.C:
			a.Render()
			a.autoSave()
		}
	}
	return nil
}

func (a *App) handleCommentLoad(err error) {
	switch {
	case err == nil:
		n := len(a.commentsPanel.Loader().Store().Comments())
		log.Printf("comments loaded: %d", n)
	case errors.Is(err, comments.ErrNotMounted), errors.Is(err, context.Canceled):
	default:
		a.SetStatus("Failed to load comments: " + err.Error())
	}
}

func (a *App) autoSave() {
	if !a.dirty || a.taskStore.ReadOnly || time.Since(a.autoSaveTime) <= autoSaveDelay {
		return
	}
	if err := a.Save(); err != nil {
		a.SetStatus("Failed to save: " + err.Error())
		a.autoSaveTime = time.Now()
	} else {
		a.SetStatus("Saved")
	}
}

// Close stops background work and restores the terminal
func (a *App) Close() error {
	a.cancel()
	if a.commentsPanel != nil {
		a.commentsPanel.Hide()
	}
	if a.socketServer != nil {
		a.socketServer.Stop()
		a.socketServer = nil
	}
	if closer, ok := a.cache.(interface{ Close() error }); ok && a.ownsCache {
		closer.Close()
	}
	if a.outliner != nil {
		a.outliner.Close()
	}
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	if a.screen != nil {
		err := a.screen.Close()
		a.screen = nil
		return err
	}
	return nil
}

// Render draws the current state to the screen
func (a *App) Render() {
	if a.screen == nil {
		return
	}
	a.screen.Clear()
	width, height := a.screen.Size()
	if width < 20 || height < 5 {
		a.screen.Show()
		return
	}

	a.renderTitle(width)

	bodyY := 1
	bodyHeight := height - 2
	treeWidth := max(width*2/5, min(width, 30))
	a.outliner.Render(a.screen, 0, bodyY, treeWidth, bodyHeight)

	sideX := treeWidth + 1
	sideWidth := width - sideX
	if sideWidth >= 10 {
		for y := bodyY; y < bodyY+bodyHeight; y++ {
			a.screen.SetCell(treeWidth, y, '│', a.screen.CanvasBorderStyle())
		}
		canvasHeight := bodyHeight
		if a.commentsPanel.IsVisible() {
			canvasHeight = bodyHeight * 3 / 5
			a.commentsPanel.Render(a.screen, sideX, bodyY+canvasHeight, sideWidth, bodyHeight-canvasHeight)
		}
		a.canvas.Render(a.screen, sideX, bodyY, sideWidth, canvasHeight)
	}

	switch {
	case a.command.IsActive():
		a.command.Render(a.screen, height-1)
	case a.search.IsActive():
		a.search.Render(a.screen, height-1)
	default:
		a.renderStatus(width, height-1)
	}

	a.help.Render(a.screen)
	a.messages.Render(a.screen)
	a.backupPicker.Render(a.screen)
	a.screen.Show()
}

func (a *App) renderTitle(width int) {
	style := a.screen.HeaderBarStyle()
	a.screen.FillRow(0, 0, width, style)
	title := " tua  " + filepath.Base(a.taskStore.FilePath)
	if a.taskStore.ReadOnly {
		title += " [read-only]"
	}
	col := a.screen.DrawString(0, 0, title, a.screen.HeaderStyle())
	if tags := a.doc.Taxonomy.Objects; len(tags) > 0 {
		a.screen.DrawStringLimited(col+2, 0, tags[0].GroupTitle(), width-col-2, style)
	}
}

func (a *App) renderStatus(width, y int) {
	a.screen.FillRow(0, y, width, a.screen.BackgroundStyle())
	col := a.screen.DrawString(0, y, ui.PadStringToWidth(a.mode(), 9), a.screen.StatusModeStyle())

	if a.statusMsg != "" && time.Since(a.statusTime) <= statusTimeout {
		col += a.screen.DrawStringLimited(col+1, y, a.statusMsg, width-col-12, a.screen.StatusMessageStyle()) + 1
	}
	if a.dirty {
		a.screen.DrawString(width-10, y, "(modified)", a.screen.StatusModifiedStyle())
	}
}

func (a *App) mode() string {
	switch {
	case a.outliner.Grabbed() != "":
		return "MOVE"
	case a.commentsPanel.InputActive():
		return "COMMENT"
	default:
		return "NORMAL"
	}
}

// HandleEvent processes one terminal event
func (a *App) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventKey:
		a.handleKey(ev)
	}
}

func (a *App) handleKey(ev *tcell.EventKey) {
	if a.debugMode {
		a.SetStatus(fmt.Sprintf("Key: %v | Rune: %q | Modifiers: %v", ev.Key(), ev.Rune(), ev.Modifiers()))
	}

	switch {
	case a.command.IsActive():
		if cmd, done := a.command.HandleKey(ev); done {
			a.handleCommand(cmd)
		}
		return
	case a.search.IsActive():
		if a.search.HandleKey(ev, a.outliner.Candidates()) {
			a.jumpToMatch(a.search.Current())
		} else if id := a.search.Current(); id != "" {
			a.outliner.SetCursorToID(id)
		}
		return
	case a.commentsPanel.InputActive():
		c, err := a.commentsPanel.HandleKey(a.ctx, ev)
		if err != nil {
			a.SetStatus("Comment: " + err.Error())
		} else if c != nil {
			a.SetStatus("Comment added (unsaved)")
		}
		return
	case a.backupPicker.IsVisible():
		if backup, ok := a.backupPicker.HandleKey(ev); ok {
			a.openBackup(*backup)
		}
		return
	case a.help.IsVisible():
		if ev.Key() == tcell.KeyEscape || ev.Rune() == '?' || ev.Rune() == 'q' {
			a.help.Hide()
		}
		return
	case a.messages.IsVisible():
		if ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
			a.messages.Hide()
		}
		return
	}

	if ev.Rune() != 'q' {
		a.quitPending = false
	}
	a.handleKeypress(ev)
}

func (a *App) jumpToMatch(id string) {
	if id == "" {
		return
	}
	a.outliner.SetCursorToID(id)
	a.SetStatus(fmt.Sprintf("%d matches", a.search.MatchCount()))
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && a.lastButtons&tcell.Button1 == 0
	a.lastButtons = buttons

	x, y := ev.Position()
	zone, row := a.outliner.HitTest(x, y)
	if !pressed {
		if zone == ui.ZoneRow && buttons == tcell.ButtonNone {
			a.outliner.SetCursor(row)
		}
		return
	}

	switch zone {
	case ui.ZoneBulkToggle:
		a.toggleAll()
	case ui.ZoneRowToggle:
		a.outliner.SetCursor(row)
		a.outliner.ToggleCursorVisibility()
	case ui.ZoneRow:
		a.outliner.SetCursor(row)
		if a.outliner.Grabbed() != "" {
			a.dropOnCursor(0)
			return
		}
		a.outliner.Select(row, ui.IsMultiSelect(ev.Modifiers()))
	}
}

func (a *App) toggleAll() {
	state := a.outliner.ToggleAll()
	a.SetStatus("Regions: " + state.String())
}

func (a *App) dropOnCursor(position int) {
	if a.outliner.Grabbed() == "" {
		a.SetStatus("Nothing to move; press m on a region first")
		return
	}
	if a.outliner.Drop(position) {
		a.SetStatus("Moved")
	} else {
		a.SetStatus("Move not allowed here")
	}
}

// Save writes region structure and visibility back to the task file, takes
// a backup and persists comment drafts
func (a *App) Save() error {
	if a.taskStore.ReadOnly {
		return fmt.Errorf("%s is read-only", filepath.Base(a.taskStore.FilePath))
	}
	storage.ApplyStore(a.doc.Task, a.doc.Store)
	if err := a.taskStore.Save(a.doc.Task); err != nil {
		return err
	}
	a.createBackup()
	if err := a.commentsPanel.Loader().Store().Persist(a.ctx); err != nil {
		return err
	}
	a.dirty = false
	a.autoSaveTime = time.Now()
	return nil
}

// requestQuit quits unless changes would be lost. Unpersisted comments need
// a second request.
func (a *App) requestQuit(force bool) {
	if force {
		a.quit = true
		return
	}
	if a.dirty && !a.taskStore.ReadOnly {
		a.SetStatus("Unsaved changes! Use :q! to force quit or :w to save")
		return
	}
	warning, needsConfirm := comments.ConfirmLoss(a.commentsPanel.Loader().Store())
	if needsConfirm && !a.quitPending {
		a.quitPending = true
		a.SetStatus(warning + " Press q again to quit.")
		return
	}
	a.quit = true
}

// SetStatus sets the status message
func (a *App) SetStatus(msg string) {
	a.statusMsg = msg
	a.statusTime = time.Now()
	a.messages.Add(msg)
}

// Status returns the current status message
func (a *App) Status() string {
	return a.statusMsg
}

// Quitting reports whether the event loop will stop
func (a *App) Quitting() bool {
	return a.quit
}

// SetDebugMode enables or disables debug mode
func (a *App) SetDebugMode(debug bool) {
	a.debugMode = debug
}
