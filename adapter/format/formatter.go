// Package format renders a normalized record table into the configured
// context shape: JSON, Markdown, or Plaintext. All three shapes carry the
// same fields in the same record order.
package format

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Mode selects the context format passed downstream.
type Mode string

const (
	ModeJSON      Mode = "JSON"
	ModeMarkdown  Mode = "Markdown"
	ModePlaintext Mode = "Plaintext"
)

// ParseMode validates a configured context-format string.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.TrimSpace(s)) {
	case ModeJSON:
		return ModeJSON, nil
	case ModeMarkdown:
		return ModeMarkdown, nil
	case ModePlaintext:
		return ModePlaintext, nil
	default:
		return "", fmt.Errorf("unknown context format %q", s)
	}
}

// Column describes one field of a record. Key is the JSON field name, Name
// the human-readable header. RightAlign marks numeric currency columns in
// Markdown output.
type Column struct {
	Name       string
	Key        string
	RightAlign bool
}

// Table is an ordered record set under a single title.
type Table struct {
	Title   string
	Columns []Column
	Rows    [][]string
}

// Result is a rendered table or message, tagged with its mode.
type Result struct {
	Mode Mode
	Body string
}

// Text wraps a plain message (errors, no-match notices) as a result.
func Text(msg string) Result {
	return Result{Mode: ModePlaintext, Body: msg}
}

// Render enumerates the table's rows in order into the requested mode.
func Render(t Table, mode Mode) (Result, error) {
	var body string
	var err error
	switch mode {
	case ModeJSON:
		body, err = renderJSON(t)
	case ModeMarkdown:
		body = renderMarkdown(t)
	case ModePlaintext:
		body = renderPlaintext(t)
	default:
		return Result{}, fmt.Errorf("unknown context format %q", mode)
	}
	if err != nil {
		return Result{}, err
	}
	return Result{Mode: mode, Body: body}, nil
}

// renderJSON writes {"<title>": [ {...}, ... ]} by hand so object keys keep
// the column order; encoding/json would sort map keys alphabetically.
func renderJSON(t Table) (string, error) {
	var b strings.Builder
	b.WriteByte('{')
	if err := writeJSONString(&b, t.Title); err != nil {
		return "", err
	}
	b.WriteString(": [")
	for i, row := range t.Rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('{')
		for j, col := range t.Columns {
			if j > 0 {
				b.WriteString(", ")
			}
			if err := writeJSONString(&b, col.Key); err != nil {
				return "", err
			}
			b.WriteString(": ")
			if err := writeJSONString(&b, cell(row, j)); err != nil {
				return "", err
			}
		}
		b.WriteByte('}')
	}
	b.WriteString("]}")
	return b.String(), nil
}

func writeJSONString(b *strings.Builder, s string) error {
	encoded, err := json.Marshal(s)
	if err != nil {
		return err
	}
	b.Write(encoded)
	return nil
}

func renderMarkdown(t Table) string {
	var b strings.Builder

	b.WriteByte('|')
	for _, col := range t.Columns {
		b.WriteString(" " + col.Name + " |")
	}
	b.WriteByte('\n')

	b.WriteByte('|')
	for _, col := range t.Columns {
		if col.RightAlign {
			b.WriteString(" ---: |")
		} else {
			b.WriteString(" --- |")
		}
	}
	b.WriteByte('\n')

	for _, row := range t.Rows {
		b.WriteByte('|')
		for j := range t.Columns {
			b.WriteString(" " + cell(row, j) + " |")
		}
		b.WriteByte('\n')
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderPlaintext(t Table) string {
	var b strings.Builder
	b.WriteString(t.Title + ":\n")
	for _, row := range t.Rows {
		b.WriteString("- ")
		for j, col := range t.Columns {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(col.Name + ": " + cell(row, j))
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func cell(row []string, j int) string {
	if j >= len(row) {
		return ""
	}
	return row[j]
}
