// Package logger appends one JSONL audit event per classification. Commands
// and deny reasons pass through redaction before hitting disk so the audit
// trail never stores the secrets it is guarding against.
package logger

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/hex/claude-guard/internal/redact"
)

// defaultMaxLogBytes is the rotation threshold. Hook invocations are small
// and frequent; one backup generation is enough history.
const defaultMaxLogBytes = 10 * 1024 * 1024

// AuditEvent is one classified command or scanned file write.
type AuditEvent struct {
	Timestamp string   `json:"timestamp"`
	Source    string   `json:"source"` // "hook", "check", "selftest"
	Command   string   `json:"command,omitempty"`
	FilePath  string   `json:"file_path,omitempty"`
	Decision  string   `json:"decision"`
	Tier      int      `json:"tier,omitempty"`
	RuleID    string   `json:"rule_id,omitempty"`
	Category  string   `json:"category,omitempty"`
	Message   string   `json:"message,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// AuditLogger serializes writes so concurrent hook invocations do not
// interleave lines.
type AuditLogger struct {
	path string
	file *os.File
	mu   sync.Mutex
}

func New(path string) (*AuditLogger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	return &AuditLogger{path: path, file: file}, nil
}

func (l *AuditLogger) Log(event AuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	event.Command = redact.Redact(event.Command)
	if event.Message != "" {
		event.Message = redact.Redact(event.Message)
	}
	if len(event.Warnings) > 0 {
		event.Warnings = redact.RedactAll(event.Warnings)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := l.rotateIfNeeded(); err != nil {
		return err
	}

	data = append(data, '\n')
	_, err = l.file.Write(data)
	return err
}

// rotateIfNeeded moves the log aside to <path>.1 once it reaches the size
// limit, keeping a single backup generation.
func (l *AuditLogger) rotateIfNeeded() error {
	info, err := l.file.Stat()
	if err != nil || info.Size() < defaultMaxLogBytes {
		return err
	}

	if err := l.file.Close(); err != nil {
		return err
	}
	if err := os.Rename(l.path, l.path+".1"); err != nil {
		return err
	}

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	l.file = file
	return nil
}

func (l *AuditLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
