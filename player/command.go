// SPDX-License-Identifier: EPL-2.0

package player

import (
	"fmt"
	"sync"

	"github.com/ik5/audplay/model"
)

type commandID int

const (
	cmdPlay commandID = iota
	cmdPlayPlaylist
	cmdPauseOrResume
	cmdStop
	cmdExit
	cmdSetVolume
	cmdSeekForward
	cmdSeekBackward
	cmdApplyFilters
)

func (id commandID) String() string {
	switch id {
	case cmdPlay:
		return "Play"
	case cmdPlayPlaylist:
		return "PlayPlaylist"
	case cmdPauseOrResume:
		return "PauseOrResume"
	case cmdStop:
		return "Stop"
	case cmdExit:
		return "Exit"
	case cmdSetVolume:
		return "SetVolume"
	case cmdSeekForward:
		return "SeekForward"
	case cmdSeekBackward:
		return "SeekBackward"
	case cmdApplyFilters:
		return "ApplyFilters"
	}

	return fmt.Sprintf("command(%d)", int(id))
}

// command is a request to the playback goroutine. Only the field matching
// id is set.
type command struct {
	id       commandID
	path     string
	playlist model.Playlist
	volume   model.Volume
	seconds  int
	preset   model.EqualizerPreset
}

// commandQueue is a FIFO of commands for the playback goroutine.
type commandQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []command
	closed bool
}

func newCommandQueue() *commandQueue {
	q := &commandQueue{}
	q.cond = sync.NewCond(&q.mu)

	return q
}

func (q *commandQueue) Push(c command) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	// Nothing queued before an exit matters anymore.
	if c.id == cmdExit {
		q.items = q.items[:0]
	}

	q.items = append(q.items, c)
	q.cond.Signal()
}

// PushFront requeues a command taken out of turn.
func (q *commandQueue) PushFront(c command) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.items = append([]command{c}, q.items...)
	q.cond.Signal()
}

// TryPop returns the oldest command without blocking.
func (q *commandQueue) TryPop() (command, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.pop()
}

// Pop blocks until a command is queued or the queue is closed.
func (q *commandQueue) Pop() (command, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}

	return q.pop()
}

func (q *commandQueue) pop() (command, bool) {
	if len(q.items) == 0 {
		return command{}, false
	}

	c := q.items[0]
	q.items[0] = command{}
	q.items = q.items[1:]

	return c, true
}

func (q *commandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}

// Close wakes every waiter. Queued commands are discarded.
func (q *commandQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.items = nil
	q.cond.Broadcast()
}
