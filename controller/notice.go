package controller

import "time"

// noticeTask dismisses the current notice after a delay. Showing a new
// notice cancels the previous dismissal; seq guards against a timer that
// already fired but has not taken the lock yet.
type noticeTask struct {
	timer *time.Timer
	seq   uint64
}

func (n *noticeTask) cancel() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.seq++
}

// showNotice must be called with c.mu held.
func (c *Controller) showNotice(msg string) {
	c.notice.cancel()
	c.state.SetNotice(msg)
	if c.opts.NoticeTTL <= 0 {
		return
	}
	seq := c.notice.seq
	c.notice.timer = time.AfterFunc(c.opts.NoticeTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.notice.seq != seq {
			return
		}
		c.notice.timer = nil
		c.state.SetNotice("")
		c.state.Publish()
	})
}
