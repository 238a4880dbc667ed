package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// maxRecordLine bounds a single JSON line in the log.
const maxRecordLine = 1 << 20

// InlineTarget stands in for payloads passed on the command line, which are
// never written to the log.
const InlineTarget = "[inline]"

// Record is one audited invocation.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	ID        string    `json:"id"`
	Module    string    `json:"module"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Success   bool      `json:"success"`
	Notes     string    `json:"notes,omitempty"`
}

// AuditLog appends records to a JSON-lines file. A nil *AuditLog discards
// everything, which is how auditing is switched off.
type AuditLog struct {
	logPath string
}

func NewAuditLog(path string) *AuditLog {
	return &AuditLog{logPath: path}
}

// Path returns the location of the log file.
func (a *AuditLog) Path() string {
	if a == nil {
		return ""
	}
	return a.logPath
}

// CreateRecord stamps a new record with the current time and a fresh id.
func CreateRecord(module, action, target string, success bool, notes string) Record {
	return Record{
		Timestamp: time.Now().UTC(),
		ID:        uuid.NewString(),
		Module:    module,
		Action:    action,
		Target:    target,
		Success:   success,
		Notes:     notes,
	}
}

// Log appends a record built from the arguments.
func (a *AuditLog) Log(module, action, target string, success bool, notes string) error {
	return a.Append(CreateRecord(module, action, target, success, notes))
}

// Append writes record as one JSON line.
func (a *AuditLog) Append(record Record) error {
	if a == nil {
		return nil
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	if err := os.MkdirAll(filepath.Dir(a.logPath), 0o700); err != nil {
		return fmt.Errorf("failed to create audit directory: %w", err)
	}

	// Restrict permissions to owner-only; targets may name local files
	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// LoadHistory returns every readable record, newest first. A missing log is
// an empty history. Lines that fail to decode are skipped.
func (a *AuditLog) LoadHistory() ([]Record, error) {
	if a == nil {
		return nil, nil
	}
	f, err := os.Open(a.logPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxRecordLine)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// DeleteRecord removes the record at index in LoadHistory order and rewrites
// the file.
func (a *AuditLog) DeleteRecord(index int) error {
	records, err := a.LoadHistory()
	if err != nil {
		return err
	}

	if index < 0 || index >= len(records) {
		return fmt.Errorf("invalid index: %d", index)
	}

	records = append(records[:index], records[index+1:]...)

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}
	}
	return nil
}
