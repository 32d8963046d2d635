// Package report exports resolved comment records to disk in several tabular
// and structured formats.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/tracertea/commentflow/internal/youtube"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Writer persists comment records. Close flushes and releases the underlying
// file.
type Writer interface {
	WriteRecord(rec youtube.CommentRecord) error
	Close() error
}

// NewWriter creates a writer for the given format: json, jsonl, csv, or txt.
func NewWriter(outputPath, format string) (Writer, error) {
	if strings.TrimSpace(outputPath) == "" {
		return nil, fmt.Errorf("output path cannot be empty")
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	switch strings.ToLower(format) {
	case "json":
		return newJSONWriter(outputPath)
	case "jsonl":
		return newJSONLineWriter(outputPath)
	case "csv":
		return newCSVWriter(outputPath)
	case "txt", "text":
		return newTextWriter(outputPath)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// jsonWriter buffers all records and writes a single pretty-printed array on
// Close.
type jsonWriter struct {
	file    *os.File
	records []youtube.CommentRecord
}

func newJSONWriter(outputPath string) (*jsonWriter, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}
	return &jsonWriter{file: file}, nil
}

func (w *jsonWriter) WriteRecord(rec youtube.CommentRecord) error {
	w.records = append(w.records, rec)
	return nil
}

func (w *jsonWriter) Close() error {
	enc := json.NewEncoder(w.file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(w.records); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return w.file.Close()
}

// jsonLineWriter streams one record per line.
type jsonLineWriter struct {
	file *os.File
	enc  *jsoniter.Encoder
}

func newJSONLineWriter(outputPath string) (*jsonLineWriter, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}
	enc := json.NewEncoder(file)
	enc.SetEscapeHTML(false)
	return &jsonLineWriter{file: file, enc: enc}, nil
}

func (w *jsonLineWriter) WriteRecord(rec youtube.CommentRecord) error {
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode record %s: %w", rec.CommentID, err)
	}
	return nil
}

func (w *jsonLineWriter) Close() error {
	return w.file.Close()
}

var csvHeader = []string{"comment_id", "text", "video_title", "like_count", "reply_count", "is_reply", "video_id", "timestamp"}

// csvWriter streams records as CSV with a header row.
type csvWriter struct {
	file *os.File
	cw   *csv.Writer
}

func newCSVWriter(outputPath string) (*csvWriter, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}
	cw := csv.NewWriter(file)
	if err := cw.Write(csvHeader); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	return &csvWriter{file: file, cw: cw}, nil
}

func (w *csvWriter) WriteRecord(rec youtube.CommentRecord) error {
	row := []string{
		rec.CommentID,
		rec.Text,
		rec.VideoTitle,
		strconv.FormatInt(rec.LikeCount, 10),
		strconv.FormatInt(rec.ReplyCount, 10),
		strconv.FormatBool(rec.IsReply),
		rec.VideoID,
		rec.Timestamp,
	}
	if err := w.cw.Write(row); err != nil {
		return fmt.Errorf("failed to write record %s: %w", rec.CommentID, err)
	}
	return nil
}

func (w *csvWriter) Close() error {
	w.cw.Flush()
	if err := w.cw.Error(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return w.file.Close()
}

// textWriter writes a human-readable line per record.
type textWriter struct {
	file *os.File
}

func newTextWriter(outputPath string) (*textWriter, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}
	return &textWriter{file: file}, nil
}

func (w *textWriter) WriteRecord(rec youtube.CommentRecord) error {
	kind := "thread"
	if rec.IsReply {
		kind = "reply"
	}
	_, err := fmt.Fprintf(w.file, "%s [%s] likes=%d replies=%d video=%q text=%q\n",
		rec.CommentID, kind, rec.LikeCount, rec.ReplyCount, rec.VideoTitle, rec.Text)
	if err != nil {
		return fmt.Errorf("failed to write record %s: %w", rec.CommentID, err)
	}
	return nil
}

func (w *textWriter) Close() error {
	return w.file.Close()
}

// WriteRecords is a convenience wrapper that writes every record and closes
// the writer.
func WriteRecords(outputPath, format string, records []youtube.CommentRecord) error {
	w, err := NewWriter(outputPath, format)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := w.WriteRecord(rec); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
