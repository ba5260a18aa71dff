package app

import (
	"log"

	"github.com/pstuifzand/tui-annotator/internal/socket"
)

// handleSocketMessage processes messages received from the Unix socket
func (a *App) handleSocketMessage(msg socket.Message) {
	log.Printf("Received socket message: command=%s, author=%s", msg.Command, msg.Author)

	switch msg.Command {
	case socket.CommandAddComment:
		a.handleAddCommentCommand(msg)
	case socket.CommandRegionCount:
		a.handleRegionCountCommand(msg)
	default:
		log.Printf("Unknown socket command: %s", msg.Command)
	}
}

// handleAddCommentCommand adds a draft comment to the open annotation
func (a *App) handleAddCommentCommand(msg socket.Message) {
	c, err := a.commentsPanel.Loader().Store().AddCommentBy(a.ctx, msg.Author, msg.Text)
	if err != nil {
		log.Printf("Failed to add comment: %v", err)
		if c == nil {
			a.SetStatus("Error adding comment")
			return
		}
	}
	a.SetStatus("Comment from " + c.Author + " (unsaved)")
}

// handleRegionCountCommand answers with the current region counts
func (a *App) handleRegionCountCommand(msg socket.Message) {
	counts := a.RegionCounts()
	log.Printf("Region counts: %+v", counts)
	if msg.ResponseChan != nil {
		msg.ResponseChan <- &socket.Response{Success: true, Data: &counts}
	}
}

// RegionCounts returns the total, visible and hidden region counts
func (a *App) RegionCounts() socket.RegionCounts {
	total := a.doc.Store.Count()
	visible := a.doc.Store.VisibleCount()
	return socket.RegionCounts{Total: total, Visible: visible, Hidden: total - visible}
}
