package store

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/username/goldbooks/backend/src/logger"
	"github.com/username/goldbooks/backend/src/models"
)

// ErrReceiptNotFound is returned by Update/Delete when no log line carries
// the requested receipt number.
var ErrReceiptNotFound = errors.New("receipt not found")

// ReceiptLog is the append-only newline-delimited JSON receipt store. The
// log has no schema enforcement: reads skip unparsable lines instead of
// failing, and rewrites preserve them untouched so log order (the costing
// tie-break) survives edits.
type ReceiptLog struct {
	path string
	mu   sync.Mutex
}

func NewReceiptLog(path string) *ReceiptLog {
	return &ReceiptLog{path: path}
}

// ReadAll reads the entire log. Returns the parsed receipts with their log
// positions, plus a content hash of the raw file that callers use as a
// cache key: any append, edit, or back-dated insert changes the hash.
// A missing file is an empty log, not an error. The context deadline is
// checked while scanning; the log is the one unbounded-latency dependency
// of a report request.
func (l *ReceiptLog) ReadAll(ctx context.Context) ([]models.Receipt, string, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, emptyLogHash(), nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("reading receipt log %s: %w", l.path, err)
	}

	hash := sha256.Sum256(data)
	var receipts []models.Receipt
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, "", fmt.Errorf("reading receipt log %s: %w", l.path, err)
		}
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var r models.Receipt
		if err := json.Unmarshal(line, &r); err != nil {
			if logger.L != nil {
				logger.L.Warn("Skipping unparsable receipt line", "line", lineNo, "error", err)
			}
			continue
		}
		r.LogIndex = lineNo
		receipts = append(receipts, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, "", fmt.Errorf("scanning receipt log %s: %w", l.path, err)
	}
	return receipts, hex.EncodeToString(hash[:]), nil
}

// Append adds one receipt to the end of the log.
func (l *ReceiptLog) Append(r models.Receipt) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	line, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling receipt %s: %w", r.ReceiptNo, err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating receipt log dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening receipt log: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("appending receipt %s: %w", r.ReceiptNo, err)
	}
	return nil
}

// Update replaces the line whose receipt_no matches, keeping its position
// so the chronological tie-break is unaffected.
func (l *ReceiptLog) Update(receiptNo string, r models.Receipt) error {
	return l.rewrite(receiptNo, &r)
}

// Delete removes the line whose receipt_no matches.
func (l *ReceiptLog) Delete(receiptNo string) error {
	return l.rewrite(receiptNo, nil)
}

// rewrite rebuilds the log with the matching line replaced (or removed when
// replacement is nil). Unparsable lines pass through verbatim. The file is
// swapped in atomically.
func (l *ReceiptLog) rewrite(receiptNo string, replacement *models.Receipt) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrReceiptNotFound
	}
	if err != nil {
		return fmt.Errorf("reading receipt log %s: %w", l.path, err)
	}

	var out bytes.Buffer
	found := false
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) > 0 {
			var r models.Receipt
			if err := json.Unmarshal(trimmed, &r); err == nil && r.ReceiptNo == receiptNo {
				found = true
				if replacement != nil {
					newLine, err := json.Marshal(*replacement)
					if err != nil {
						return fmt.Errorf("marshaling receipt %s: %w", receiptNo, err)
					}
					out.Write(newLine)
					out.WriteByte('\n')
				}
				continue
			}
		}
		out.Write(line)
		out.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanning receipt log %s: %w", l.path, err)
	}
	if !found {
		return ErrReceiptNotFound
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing receipt log: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("replacing receipt log: %w", err)
	}
	return nil
}

func emptyLogHash() string {
	hash := sha256.Sum256(nil)
	return hex.EncodeToString(hash[:])
}
