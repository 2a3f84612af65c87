package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"bonsaichat-backend/pkg/widget"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("28")).
			Padding(0, 1)
	userStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	botStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	sourcesStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).MarginLeft(2)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
)

// terminalRenderer draws the widget as a line-oriented transcript. The widget
// and the input loop both write through it, so writes are serialized.
type terminalRenderer struct {
	mu  sync.Mutex
	out io.Writer
}

func (r *terminalRenderer) printf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}

var _ widget.Renderer = (*terminalRenderer)(nil)

func (r *terminalRenderer) Show() {
	r.printf("%s\n", headerStyle.Render("Bonsai Assistant"))
}

func (r *terminalRenderer) Hide() {
	r.printf("%s\n", hintStyle.Render("chat closed, type /open to reopen"))
}

func (r *terminalRenderer) FocusInput() {
	r.printf("%s", promptStyle.Render("> "))
}

// ClearInput is a no-op: the terminal consumed the line already.
func (r *terminalRenderer) ClearInput() {}

func (r *terminalRenderer) ShowTyping() {
	r.printf("%s\n", hintStyle.Render("assistant is typing..."))
}

func (r *terminalRenderer) HideTyping() {}

func (r *terminalRenderer) AppendMessage(m widget.Message) {
	switch m.Sender {
	case widget.SenderUser:
		// The user's own line is already on screen.
		return
	case widget.SenderBot:
		r.printf("%s %s\n", botStyle.Render("bot:"), m.Text)
	case widget.SenderSystemError:
		r.printf("%s %s\n", errorStyle.Render("error:"), m.Text)
	}
	if len(m.Sources) > 0 {
		r.printf("%s\n", sourcesStyle.Render("sources: "+strings.Join(m.Sources, ", ")))
	}
}

func (r *terminalRenderer) hint(text string) {
	r.printf("%s\n", hintStyle.Render(text))
}

func (r *terminalRenderer) echo(text string) {
	r.printf("%s %s\n", userStyle.Render("you:"), text)
}
