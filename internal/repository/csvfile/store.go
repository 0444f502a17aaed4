// Package csvfile implements the repositories on line-oriented CSV files:
// one users file plus one append-only registration log per distance. Each
// file starts with a header row; malformed rows are skipped on read, never
// fatal.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"race-registry/internal/domain"
)

// ensureFile creates the file with the given header when absent, along with
// any missing parent directories.
func ensureFile(path, header string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(header+"\n"), 0o644); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return nil
}

// appendRow appends a single CSV record to the file. Embedded delimiters in
// fields are quoted by the csv writer.
func appendRow(path string, record []string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", domain.ErrStorageUnavailable, path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(record); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorageUnavailable, path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush %s: %v", domain.ErrStorageUnavailable, path, err)
	}
	return nil
}

// scanRows reads every data row of the file, skipping the header and any row
// the parse callback rejects. A missing file yields no rows.
func scanRows(path string, parse func(record []string)) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: open %s: %v", domain.ErrStorageUnavailable, path, err)
	}
	defer f.Close()

	if err := scanRecords(f, parse); err != nil {
		return fmt.Errorf("%w: read %s: %v", domain.ErrStorageUnavailable, path, err)
	}
	return nil
}

// scanRecords feeds every record after the header to parse. Malformed lines
// are skipped; the reader recovers past them and keeps scanning. Any other
// read error ends the scan.
func scanRecords(src io.Reader, parse func(record []string)) error {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	first := true
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			continue
		}
		if err != nil {
			return err
		}
		if first {
			first = false
			continue
		}
		parse(record)
	}
}
