package infra

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"exchange_chat/internal/domain"

	"gopkg.in/natefinch/lumberjack.v2"
)

const auditTimeLayout = "02/01/2006, 15:04:05"

// FileAuditLogger appends one line per exchange command to a rotated text file.
type FileAuditLogger struct {
	out *lumberjack.Logger
}

var _ domain.AuditLogger = (*FileAuditLogger)(nil)

// NewFileAuditLogger opens (or creates) the audit file at path.
func NewFileAuditLogger(path string) (*FileAuditLogger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create audit directory: %w", err)
		}
	}

	return &FileAuditLogger{
		out: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // Megabytes
			MaxBackups: 5,
			MaxAge:     90, // Days
		},
	}, nil
}

// Record writes rec as a single line. Writes are serialized by lumberjack.
func (l *FileAuditLogger) Record(_ context.Context, rec domain.AuditRecord) error {
	line := FormatAuditLine(rec)
	if _, err := l.out.Write([]byte(line)); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	return nil
}

// Close releases the underlying file.
func (l *FileAuditLogger) Close() error {
	return l.out.Close()
}

// FormatAuditLine renders rec in the audit file format, newline terminated.
func FormatAuditLine(rec domain.AuditRecord) string {
	return fmt.Sprintf("%s - user: %s - command: [%s] - response: %s - message: [%s]\n",
		rec.Time.Format(auditTimeLayout), rec.Requester, rec.Command, rec.Result, rec.Reply)
}
