package app

import (
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// maxMessages bounds the message panel
const maxMessages = 500

// messageLog collects log lines for the messages tab. Append may be called
// from any goroutine.
type messageLog struct {
	mu     sync.Mutex
	lines  []string
	label  *widget.Label
	scroll *container.Scroll
}

func newMessageLog() *messageLog {
	label := widget.NewLabel("")
	label.Wrapping = fyne.TextWrapWord
	return &messageLog{label: label, scroll: container.NewVScroll(label)}
}

// View returns the panel showing the messages
func (m *messageLog) View() fyne.CanvasObject {
	return m.scroll
}

// Append adds a line and refreshes the panel on the UI goroutine
func (m *messageLog) Append(line string) {
	m.mu.Lock()
	m.lines = append(m.lines, line)
	if len(m.lines) > maxMessages {
		m.lines = m.lines[len(m.lines)-maxMessages:]
	}
	text := strings.Join(m.lines, "\n")
	m.mu.Unlock()

	fyne.Do(func() {
		m.label.SetText(text)
		m.scroll.ScrollToBottom()
	})
}

// Lines returns a copy of the collected lines
func (m *messageLog) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.lines...)
}
