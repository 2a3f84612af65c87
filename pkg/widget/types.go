package widget

import (
	"time"
)

// Sender identifies who produced a Message.
type Sender int

const (
	SenderUser Sender = iota
	SenderBot
	SenderSystemError
)

func (s Sender) String() string {
	switch s {
	case SenderUser:
		return "user"
	case SenderBot:
		return "bot"
	case SenderSystemError:
		return "error"
	default:
		return "unknown"
	}
}

// Message is one entry of the conversation.
type Message struct {
	Text      string
	Sender    Sender
	Timestamp time.Time
	Sources   []string
}

func (m Message) clone() Message {
	if m.Sources != nil {
		m.Sources = append([]string{}, m.Sources...)
	}
	return m
}

// Visibility is whether the chat window is shown.
type Visibility int

const (
	Closed Visibility = iota
	Open
)

func (v Visibility) String() string {
	if v == Open {
		return "open"
	}
	return "closed"
}

// SendGuard tracks whether a message is in flight.
type SendGuard int

const (
	Idle SendGuard = iota
	Processing
)

func (g SendGuard) String() string {
	if g == Processing {
		return "processing"
	}
	return "idle"
}

// Conversation is an append-only list of messages. It never holds a message
// with empty text. The zero value is ready to use; it is not safe for
// concurrent use on its own.
type Conversation struct {
	messages []Message
}

// Append adds m and reports whether it was accepted.
func (c *Conversation) Append(m Message) bool {
	if m.Text == "" {
		return false
	}
	c.messages = append(c.messages, m.clone())
	return true
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Messages returns a copy of the conversation in append order.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	for i, m := range c.messages {
		out[i] = m.clone()
	}
	return out
}
