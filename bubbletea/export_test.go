package bubbletea

// NoticeChannel exposes the notification channel for testing.
func NoticeChannel(n *Notices) <-chan Notice {
	return n.ch
}
