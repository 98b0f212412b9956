// Package ndjson implements the two output file formats of §6: NDJSON
// (one document per line, LF-terminated, empty lines ignored on read)
// and a single indented JSON array. Grounded on
// services/anchor/internal/database/elasticsearch/data.go's
// encoding/json streaming style (one json.Encoder per outbound record,
// no intermediate buffering of the whole payload).
package ndjson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/redbco/docsynth/internal/errs"
)

// Writer emits one document per line, LF-terminated, with no
// surrounding punctuation (§6).
type Writer struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewWriter wraps w for NDJSON output.
func NewWriter(w io.Writer) *Writer {
	bw := bufio.NewWriter(w)
	return &Writer{w: bw, enc: json.NewEncoder(bw)}
}

// WriteDocument marshals doc and writes it as one line. json.Encoder's
// Encode already appends the trailing newline NDJSON requires.
func (w *Writer) WriteDocument(doc map[string]interface{}) error {
	if err := w.enc.Encode(doc); err != nil {
		return errs.Wrap(errs.FileIO, "ndjsonWrite", "failed to encode document", err)
	}
	return nil
}

// Flush flushes the underlying buffered writer.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return errs.Wrap(errs.FileIO, "ndjsonWrite", "failed to flush", err)
	}
	return nil
}

// ReadAll reads every document from an NDJSON stream, skipping empty
// lines per §6. A malformed line fails with INPUT_READ carrying the
// offending line's prefix (§7).
func ReadAll(r io.Reader) ([]map[string]interface{}, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var docs []map[string]interface{}
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var doc map[string]interface{}
		if err := json.Unmarshal(line, &doc); err != nil {
			prefix := line
			if len(prefix) > 64 {
				prefix = prefix[:64]
			}
			return nil, errs.Wrap(errs.InputRead, "ndjsonRead", "failed to parse NDJSON line: "+string(prefix), err)
		}
		docs = append(docs, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(errs.InputRead, "ndjsonRead", "failed to read NDJSON stream", err)
	}
	return docs, nil
}

// ArrayWriter emits a single JSON array: a leading "[\n", each element
// 2-space indented and comma+newline separated, and a trailing "\n]\n"
// (§6).
type ArrayWriter struct {
	w       *bufio.Writer
	started bool
}

// NewArrayWriter wraps w for indented JSON-array output.
func NewArrayWriter(w io.Writer) *ArrayWriter {
	return &ArrayWriter{w: bufio.NewWriter(w)}
}

// WriteDocument appends one element to the array, opening the array on
// the first call and comma-separating subsequent ones.
func (a *ArrayWriter) WriteDocument(doc map[string]interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("  ", "  ")
	if err := enc.Encode(doc); err != nil {
		return errs.Wrap(errs.FileIO, "arrayWrite", "failed to encode document", err)
	}
	encoded := bytes.TrimRight(buf.Bytes(), "\n")

	if !a.started {
		if _, err := a.w.WriteString("[\n  "); err != nil {
			return errs.Wrap(errs.FileIO, "arrayWrite", "failed to write array header", err)
		}
		a.started = true
	} else {
		if _, err := a.w.WriteString(",\n  "); err != nil {
			return errs.Wrap(errs.FileIO, "arrayWrite", "failed to write array separator", err)
		}
	}
	if _, err := a.w.Write(encoded); err != nil {
		return errs.Wrap(errs.FileIO, "arrayWrite", "failed to write document", err)
	}
	return nil
}

// Close writes the closing "\n]\n" (or "[\n]\n" if no document was ever
// written) and flushes the underlying writer.
func (a *ArrayWriter) Close() error {
	if !a.started {
		if _, err := a.w.WriteString("[\n]\n"); err != nil {
			return errs.Wrap(errs.FileIO, "arrayWrite", "failed to write empty array", err)
		}
		return a.flush()
	}
	if _, err := a.w.WriteString("\n]\n"); err != nil {
		return errs.Wrap(errs.FileIO, "arrayWrite", "failed to write array footer", err)
	}
	return a.flush()
}

func (a *ArrayWriter) flush() error {
	if err := a.w.Flush(); err != nil {
		return errs.Wrap(errs.FileIO, "arrayWrite", "failed to flush", err)
	}
	return nil
}
