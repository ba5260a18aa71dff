package ui

import (
	"time"
)

// Message is a status message with the time it was shown
type Message struct {
	Text      string
	Timestamp time.Time
}

// MessageLog keeps the last status messages for the ":messages" overlay
type MessageLog struct {
	messages []Message
	maxSize  int
	visible  bool
}

// NewMessageLog creates a log keeping at most maxSize messages
func NewMessageLog(maxSize int) *MessageLog {
	return &MessageLog{maxSize: maxSize}
}

// Add records text; empty text is ignored
func (m *MessageLog) Add(text string) {
	if text == "" {
		return
	}
	m.messages = append(m.messages, Message{Text: text, Timestamp: time.Now()})
	if len(m.messages) > m.maxSize {
		m.messages = m.messages[len(m.messages)-m.maxSize:]
	}
}

// Messages returns the recorded messages, oldest first
func (m *MessageLog) Messages() []Message {
	return append([]Message(nil), m.messages...)
}

// Toggle shows or hides the overlay
func (m *MessageLog) Toggle() {
	m.visible = !m.visible
}

// Hide closes the overlay
func (m *MessageLog) Hide() {
	m.visible = false
}

// IsVisible returns whether the overlay is shown
func (m *MessageLog) IsVisible() bool {
	return m.visible
}

// Render draws the overlay
func (m *MessageLog) Render(screen *Screen) {
	if !m.visible {
		return
	}
	lines := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		lines = append(lines, msg.Timestamp.Format("15:04:05")+"  "+msg.Text)
	}
	if len(lines) == 0 {
		lines = append(lines, "No messages")
	}
	renderPanel(screen, " Messages (Esc to close) ", lines, len(lines)-1)
}
