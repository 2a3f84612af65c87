// Package widget implements the client side of the chat: the open/closed
// window, the one-message-at-a-time send guard and the conversation log.
package widget

import (
	"context"
	"strings"
	"sync"
	"time"
)

const (
	DefaultWelcome     = "Hello! How can I help you today?"
	DefaultFocusDelay  = 350 * time.Millisecond
	DefaultSendTimeout = 45 * time.Second

	noResponseText   = "No response"
	genericErrorText = "Sorry, I encountered an error. Please try again."
	connectErrorText = "Sorry, I could not connect to the chatbot. Please try again later."
)

// Option configures a Widget.
type Option func(*Widget)

// WithClock sets the time source used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Widget) { w.now = now }
}

// WithFocusDelay sets how long after Open the input is focused.
func WithFocusDelay(d time.Duration) Option {
	return func(w *Widget) { w.focusDelay = d }
}

// WithSendTimeout bounds each Transport.Send call. Zero disables the bound.
func WithSendTimeout(d time.Duration) Option {
	return func(w *Widget) { w.sendTimeout = d }
}

// WithScheduler replaces time.AfterFunc for the delayed input focus.
func WithScheduler(schedule func(d time.Duration, f func())) Option {
	return func(w *Widget) { w.schedule = schedule }
}

// Widget is the conversation controller. All methods are safe for
// concurrent use.
type Widget struct {
	transport Transport
	renderer  Renderer

	now         func() time.Time
	focusDelay  time.Duration
	sendTimeout time.Duration
	schedule    func(d time.Duration, f func())

	mu         sync.Mutex
	visibility Visibility
	guard      SendGuard
	conv       Conversation
	openedAt   uint64 // bumped on every Closed->Open transition
	inflight   sync.WaitGroup
}

// New creates a closed, idle widget whose conversation starts with the
// welcome text from the bot.
func New(transport Transport, renderer Renderer, welcome string, opts ...Option) *Widget {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	w := &Widget{
		transport:   transport,
		renderer:    renderer,
		now:         time.Now,
		focusDelay:  DefaultFocusDelay,
		sendTimeout: DefaultSendTimeout,
		schedule: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(w)
	}

	if strings.TrimSpace(welcome) == "" {
		welcome = DefaultWelcome
	}
	w.mu.Lock()
	w.appendLocked(Message{Text: welcome, Sender: SenderBot})
	w.mu.Unlock()
	return w
}

// Open shows the window. Opening an open widget does nothing.
func (w *Widget) Open() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.visibility == Open {
		return
	}
	w.visibility = Open
	w.openedAt++
	w.renderer.Show()

	gen := w.openedAt
	w.schedule(w.focusDelay, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.visibility == Open && w.openedAt == gen {
			w.renderer.FocusInput()
		}
	})
}

// Close hides the window. Closing a closed widget does nothing.
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.visibility == Closed {
		return
	}
	w.visibility = Closed
	w.renderer.Hide()
}

// Toggle flips the visibility.
func (w *Widget) Toggle() {
	if w.Visibility() == Open {
		w.Close()
		return
	}
	w.Open()
}

// Submit sends text unless it is blank or another message is in flight.
// It reports whether a send was started.
func (w *Widget) Submit(text string) bool {
	trimmed := strings.TrimSpace(text)

	w.mu.Lock()
	if w.guard == Processing || trimmed == "" {
		w.mu.Unlock()
		return false
	}
	w.appendLocked(Message{Text: trimmed, Sender: SenderUser})
	w.renderer.ClearInput()
	w.guard = Processing
	w.renderer.ShowTyping()
	w.inflight.Add(1)
	w.mu.Unlock()

	go w.send(trimmed)
	return true
}

// Wait blocks until the message in flight, if any, has completed.
func (w *Widget) Wait() {
	w.inflight.Wait()
}

func (w *Widget) Visibility() Visibility {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visibility
}

func (w *Widget) Guard() SendGuard {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.guard
}

// Messages returns a copy of the conversation.
func (w *Widget) Messages() []Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conv.Messages()
}

func (w *Widget) send(text string) {
	defer w.inflight.Done()

	ctx := context.Background()
	if w.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.sendTimeout)
		defer cancel()
	}

	reply, err := w.transport.Send(ctx, text)
	w.complete(reply, err)
}

func (w *Widget) complete(reply Reply, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.renderer.HideTyping()
	switch {
	case err != nil:
		w.appendLocked(Message{Text: connectErrorText, Sender: SenderSystemError})
	case reply.Success:
		text := reply.Response
		if text == "" {
			text = noResponseText
		}
		sources := reply.Sources
		if sources == nil {
			sources = []string{}
		}
		w.appendLocked(Message{Text: text, Sender: SenderBot, Sources: sources})
	default:
		text := reply.Message
		if text == "" {
			text = genericErrorText
		}
		w.appendLocked(Message{Text: text, Sender: SenderSystemError})
	}
	w.guard = Idle
}

func (w *Widget) appendLocked(m Message) {
	m.Timestamp = w.now()
	if w.conv.Append(m) {
		w.renderer.AppendMessage(m.clone())
	}
}
