package storage

import (
	"bytes"
	"coinafrique-scraper/models"
	"coinafrique-scraper/utils"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// ExportFilename is the name suggested to users downloading a table.
const ExportFilename = "Data.csv"

const utf8BOM = "\ufeff"

// encoding/csv reads a quoted CRLF back as LF, so fields are stored with LF
// line endings only.
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func normalizeFields(fields []string) []string {
	for i, f := range fields {
		fields[i] = lineEndings.Replace(f)
	}
	return fields
}

// ExportFilenameFor names a category's export when several are written side
// by side.
func ExportFilenameFor(category models.Category) string {
	return category.Slug + "-data.csv"
}

// ExportCSV encodes a table as UTF-8 CSV: an unnamed, 0-based index column
// followed by the category's columns, header row first.
func ExportCSV(t models.Table) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := append([]string{""}, t.Columns()...)
	if err := writer.Write(header); err != nil {
		return nil, "", fmt.Errorf("csv write error: %w", err)
	}

	for i, l := range t.Listings {
		err := writer.Write(normalizeFields([]string{
			strconv.Itoa(i),
			l.Title,
			l.Price,
			l.Address,
			l.ImageURL,
		}))
		if err != nil {
			return nil, "", fmt.Errorf("csv write error: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", fmt.Errorf("csv write error: %w", err)
	}
	return buf.Bytes(), ExportFilename, nil
}

// CSVWriter saves exports to a file on disk.
type CSVWriter struct {
	path string
}

func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

func (w *CSVWriter) Path() string {
	return w.path
}

// Write saves the table's export, creating the output directory if needed.
func (w *CSVWriter) Write(t models.Table) error {
	data, _, err := ExportCSV(t)
	if err != nil {
		return err
	}
	if err := w.writeFile(data); err != nil {
		return err
	}
	utils.Success("Saved %d listings → %s", t.Len(), w.path)
	return nil
}

// WriteSnapshot re-encodes a snapshot unchanged.
func (w *CSVWriter) WriteSnapshot(s Snapshot) error {
	data, err := s.Bytes()
	if err != nil {
		return err
	}
	if err := w.writeFile(data); err != nil {
		return err
	}
	utils.Success("Saved %d snapshot rows → %s", len(s.Rows), w.path)
	return nil
}

func (w *CSVWriter) writeFile(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("could not create output dir: %w", err)
	}
	if err := os.WriteFile(w.path, data, 0644); err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	return nil
}

// Snapshot is a delimited file kept exactly as read: every column, every row.
type Snapshot struct {
	Name   string
	Header []string
	Rows   [][]string
}

func LoadSnapshot(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("could not open snapshot: %w", err)
	}
	defer f.Close()

	s, err := ReadSnapshot(f)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	s.Name = filepath.Base(path)
	return s, nil
}

func ReadSnapshot(r io.Reader) (Snapshot, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return Snapshot{}, fmt.Errorf("csv read error: %w", err)
	}
	if len(records) == 0 {
		return Snapshot{}, fmt.Errorf("missing header row")
	}

	for _, record := range records {
		normalizeFields(record)
	}
	header := records[0]
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	return Snapshot{Header: header, Rows: records[1:]}, nil
}

func (s Snapshot) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(normalizeFields(slices.Clone(s.Header))); err != nil {
		return nil, fmt.Errorf("csv write error: %w", err)
	}
	for _, row := range s.Rows {
		if err := writer.Write(normalizeFields(slices.Clone(row))); err != nil {
			return nil, fmt.Errorf("csv write error: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("csv write error: %w", err)
	}
	return buf.Bytes(), nil
}

// Table maps the snapshot's listing columns onto a category table. Columns
// the table has no place for are ignored.
func (s Snapshot) Table(category models.Category) (models.Table, error) {
	cols := category.Columns()
	idx := make([]int, len(cols))
	for i, name := range cols {
		idx[i] = indexOf(s.Header, name)
		if idx[i] < 0 {
			return models.Table{}, fmt.Errorf("missing column %q", name)
		}
	}

	listings := make([]models.Listing, 0, len(s.Rows))
	for n, row := range s.Rows {
		fields := make([]string, len(cols))
		for i, col := range idx {
			if col >= len(row) {
				return models.Table{}, fmt.Errorf("row %d: has %d fields, want column %d", n+1, len(row), col+1)
			}
			fields[i] = row[col]
		}
		listings = append(listings, models.Listing{
			Title:    fields[0],
			Price:    fields[1],
			Address:  fields[2],
			ImageURL: fields[3],
		})
	}

	return models.Table{Category: category, Listings: listings}, nil
}

// ReadTable parses an export (or any CSV carrying the category's columns)
// back into a table.
func ReadTable(r io.Reader, category models.Category) (models.Table, error) {
	s, err := ReadSnapshot(r)
	if err != nil {
		return models.Table{}, err
	}
	return s.Table(category)
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}
