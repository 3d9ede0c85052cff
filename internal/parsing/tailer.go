/**
 * @description
 * Log Tailer: polls an append-only log file for new lines, tolerating
 * rotation/truncation and a not-yet-created file at startup.
 *
 * Grounded on the original source's parsing/utils/log_reader.py: poll
 * every 100ms, wait up to 300s for the file to first appear, start at EOF
 * by default, detect truncation by a shrinking size and reset to offset 0
 * after a short settle delay, detect growth by (size, mtime) change,
 * split on newlines stripping trailing \r.
 *
 * @dependencies
 * - standard "bufio", "context", "os", "strings", "time"
 * - internal/logger
 */

package parsing

import (
	"bufio"
	"context"
	"os"
	"strings"
	"time"

	"github.com/oracle-observer/backend/internal/logger"
)

const (
	tailerPollInterval  = 100 * time.Millisecond
	tailerWaitForFile   = 300 * time.Second
	tailerSettleDelay   = 200 * time.Millisecond
	tailerWaitPollEvery = 200 * time.Millisecond
)

// Tailer streams newly-appended lines from a file.
type Tailer struct {
	path        string
	startAtEnd  bool
	log         *logger.Logger
	lastMTime   time.Time
	lastSize    int64
	offset      int64
}

// NewTailer constructs a Tailer over path. startAtEnd seeks to EOF before
// the first read so the tailer only sees lines appended after startup.
func NewTailer(path string, startAtEnd bool) *Tailer {
	return &Tailer{path: path, startAtEnd: startAtEnd, log: logger.New("tailer")}
}

// Lines streams lines until ctx is canceled. The returned error channel
// receives at most one terminal error; transient I/O errors are logged
// and retried internally, never surfaced here.
func (t *Tailer) Lines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(lines)
		if err := t.waitForFile(ctx); err != nil {
			errs <- err
			return
		}
		if t.startAtEnd {
			if info, err := os.Stat(t.path); err == nil {
				t.offset = info.Size()
				t.lastSize = info.Size()
				t.lastMTime = info.ModTime()
			}
		}
		t.pollLoop(ctx, lines)
	}()

	return lines, errs
}

func (t *Tailer) waitForFile(ctx context.Context) error {
	deadline := time.Now().Add(tailerWaitForFile)
	for {
		if _, err := os.Stat(t.path); err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return &os.PathError{Op: "stat", Path: t.path, Err: os.ErrNotExist}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(tailerWaitPollEvery):
		}
	}
}

func (t *Tailer) pollLoop(ctx context.Context, lines chan<- string) {
	ticker := time.NewTicker(tailerPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.poll(ctx, lines); err != nil {
				t.log.Error("poll error: %v", err)
				time.Sleep(500 * time.Millisecond)
			}
		}
	}
}

func (t *Tailer) poll(ctx context.Context, lines chan<- string) error {
	info, err := os.Stat(t.path)
	if err != nil {
		return err
	}

	size := info.Size()
	mtime := info.ModTime()

	if size < t.lastSize {
		// Truncation or rotation: settle, then restart from the top.
		time.Sleep(tailerSettleDelay)
		t.offset = 0
	} else if size == t.lastSize && mtime.Equal(t.lastMTime) {
		return nil
	}

	f, err := os.Open(t.path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Seek(t.offset, 0); err != nil {
		return err
	}

	reader := bufio.NewReader(f)
	var read int64
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			read += int64(len(line))
			trimmed := strings.TrimRight(line, "\r\n")
			select {
			case lines <- trimmed:
			case <-ctx.Done():
				return nil
			}
		}
		if err != nil {
			break
		}
	}

	t.offset += read
	t.lastSize = size
	t.lastMTime = mtime
	return nil
}
