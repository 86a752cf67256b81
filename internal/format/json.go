package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// IndentJSON pretty-prints raw JSON with two-space indentation. Input that is
// not valid JSON is returned unchanged.
func IndentJSON(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err == nil {
		return buf.String()
	}
	return string(raw)
}

// WriteRawResponse writes a banner followed by the indented response body.
func WriteRawResponse(w io.Writer, label string, raw []byte, color bool) error {
	_, err := fmt.Fprintf(w, "%s%s\n", Banner(label, color), IndentJSON(raw))
	return err
}

// WriteJSONSection writes v as indented JSON under a "--- title ---" heading,
// followed by a blank line.
func WriteJSONSection(w io.Writer, title string, v any, color bool) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", title, err)
	}
	_, err = fmt.Fprintf(w, "%s\n%s\n\n", heading(fmt.Sprintf("--- %s ---", title), color), data)
	return err
}
