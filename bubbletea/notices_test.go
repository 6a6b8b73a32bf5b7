package bubbletea_test

import (
	"testing"

	bt "github.com/mfilipek/codechat/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotices(t *testing.T) {
	t.Parallel()

	t.Run("success and error are queued in order", func(t *testing.T) {
		t.Parallel()
		n := bt.NewNotices()
		n.Success("saved")
		n.Error("boom")

		ch := bt.NoticeChannel(n)
		first := <-ch
		assert.Equal(t, bt.NoticeSuccess, first.Kind)
		assert.Equal(t, "saved", first.Text)

		second := <-ch
		assert.Equal(t, bt.NoticeError, second.Kind)
		assert.Equal(t, "boom", second.Text)
	})

	t.Run("progress dismiss posts once", func(t *testing.T) {
		t.Parallel()
		n := bt.NewNotices()
		dismiss := n.Progress("Thinking...")

		ch := bt.NoticeChannel(n)
		progress := <-ch
		assert.Equal(t, bt.NoticeProgress, progress.Kind)

		dismiss()
		dismiss()
		<-ch // the single dismiss notice

		select {
		case extra := <-ch:
			t.Fatalf("unexpected extra notice: %+v", extra)
		default:
		}
	})

	t.Run("drops notifications when the queue is full", func(t *testing.T) {
		t.Parallel()
		n := bt.NewNotices()
		for i := 0; i < 100; i++ {
			n.Success("flood")
		}

		// Posting never blocked; whatever was queued is readable.
		ch := bt.NoticeChannel(n)
		require.NotEmpty(t, ch)
		for len(ch) > 0 {
			<-ch
		}
	})
}
