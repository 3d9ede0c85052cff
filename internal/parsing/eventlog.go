/**
 * @description
 * Optional rotating log of every parser event published, gated by the
 * parser.log config flag. Grounded on the original source's
 * parsing/router.py _rotate_logs/_write_event_log: a 10MiB size cap,
 * keeping the last 5 rotated files.
 *
 * No log-rotation library appears anywhere in the example pack, so this
 * is a justified stdlib-only piece (file rename + truncate), matching the
 * donor's own preference for hand-rolled file I/O over a dependency for
 * anything this small.
 *
 * @dependencies
 * - standard "os", "fmt", "sync"
 */

package parsing

import (
	"fmt"
	"os"
	"sync"
)

const (
	eventLogMaxBytes = 10 * 1024 * 1024
	eventLogKeep     = 5
)

type eventLog struct {
	mu   sync.Mutex
	path string
	f    *os.File
	size int64
}

func newEventLog(path string) (*eventLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &eventLog{path: path, f: f, size: info.Size()}, nil
}

func (e *eventLog) write(line string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.size >= eventLogMaxBytes {
		e.rotate()
	}

	n, err := e.f.WriteString(line + "\n")
	if err == nil {
		e.size += int64(n)
	}
}

func (e *eventLog) rotate() {
	e.f.Close()

	for i := eventLogKeep - 1; i >= 1; i-- {
		src := fmt.Sprintf("%s.%d", e.path, i)
		dst := fmt.Sprintf("%s.%d", e.path, i+1)
		if _, err := os.Stat(src); err == nil {
			_ = os.Rename(src, dst)
		}
	}
	_ = os.Rename(e.path, e.path+".1")

	f, err := os.OpenFile(e.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err == nil {
		e.f = f
		e.size = 0
	}
}

func (e *eventLog) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.f.Close()
}
