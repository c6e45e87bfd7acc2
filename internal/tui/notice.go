package tui

import (
	"sync"

	"github.com/ikkim/storefront/internal/storefront"
)

// NoticeBoard is the storefront.Notifier for the terminal UI. The App posts
// from command goroutines; the model takes the latest on each result message.
type NoticeBoard struct {
	mu     sync.Mutex
	latest *storefront.Notification
}

func NewNoticeBoard() *NoticeBoard {
	return &NoticeBoard{}
}

func (b *NoticeBoard) Notify(n storefront.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latest = &n
}

// take returns and clears the latest notification.
func (b *NoticeBoard) take() (storefront.Notification, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.latest == nil {
		return storefront.Notification{}, false
	}
	n := *b.latest
	b.latest = nil
	return n, true
}
