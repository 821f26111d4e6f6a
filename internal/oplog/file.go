package oplog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

const stampLayout = "2006-01-02T15:04:05.000Z"

// FileSink appends timestamped records to a plain text log file, one
// "[ISO8601] message" line per record.
type FileSink struct {
	mu   sync.Mutex
	path string
}

func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Append(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s\n", time.Now().UTC().Format(stampLayout), message)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append log line: %w", err)
	}
	return nil
}
