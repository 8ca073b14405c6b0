package tui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/subsportal/internal/signup"
)

// noticeBox collects notices raised from command goroutines until the update
// loop picks them up.
type noticeBox struct {
	mu    sync.Mutex
	items []signup.Notice
}

func (b *noticeBox) Notify(n signup.Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, n)
}

func (b *noticeBox) drain() []signup.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items
	b.items = nil
	return out
}

func renderNotice(n signup.Notice) string {
	title := "Success"
	color := colorSuccess
	if n.Kind == signup.NoticeFailure {
		title = "Error"
		color = colorError
	}
	body := lipgloss.NewStyle().Foreground(color).Bold(true).Render(title) +
		"\n\n" + n.Message + "\n\n" + key("enter", "OK")
	return modalStyle.BorderForeground(color).Render(body)
}
