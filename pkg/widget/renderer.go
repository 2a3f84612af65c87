package widget

// Renderer draws the widget. The Widget calls it while holding its lock, so
// implementations must not call back into the Widget.
type Renderer interface {
	Show()
	Hide()
	FocusInput()
	ClearInput()
	ShowTyping()
	HideTyping()
	AppendMessage(m Message)
}

// NopRenderer ignores every call.
type NopRenderer struct{}

func (NopRenderer) Show()                 {}
func (NopRenderer) Hide()                 {}
func (NopRenderer) FocusInput()           {}
func (NopRenderer) ClearInput()           {}
func (NopRenderer) ShowTyping()           {}
func (NopRenderer) HideTyping()           {}
func (NopRenderer) AppendMessage(Message) {}
