package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/quotegrab/quotegrab/internal/model"
)

var testRecords = []model.Record{
	{Text: "Be yourself.", Attribution: "Oscar Wilde"},
	{Text: `"Stay hungry."`, Attribution: "Steve Jobs"},
	{Text: "Less, but better.", Attribution: "Dieter Rams"},
}

// TestCSVWriter tests CSV output.
func TestCSVWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and rows", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewCSVWriter(&buf).Write(testRecords); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		rows, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(rows) != 4 {
			t.Fatalf("expected header plus 3 rows, got %d", len(rows))
		}
		if rows[0][0] != "text" || rows[0][1] != "attribution" {
			t.Errorf("unexpected header: %v", rows[0])
		}
		// Embedded quotes must survive the round trip.
		if rows[2][0] != `"Stay hungry."` {
			t.Errorf("quoting broke embedded quotes: %q", rows[2][0])
		}
	})

	t.Run("empty sequence writes only the header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewCSVWriter(&buf).Write(nil); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if strings.TrimSpace(buf.String()) != "text,attribution" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})
}

// TestJSONWriter tests JSON output.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes a record array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(testRecords); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		var decoded []model.Record
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(decoded) != 3 || decoded[0] != testRecords[0] {
			t.Errorf("unexpected decoded records: %v", decoded)
		}
	})

	t.Run("nil sequence serializes as empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(nil); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if strings.TrimSpace(buf.String()) != "[]" {
			t.Errorf("expected [], got %q", buf.String())
		}
	})

	t.Run("writes summary object", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		summary := model.NewSummary("https://example.com", testRecords, 2)
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).WriteSummary(summary); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded["total_items"].(float64) != 3 {
			t.Errorf("unexpected total_items: %v", decoded["total_items"])
		}
		if decoded["unique_attributions"].(float64) != 3 {
			t.Errorf("unexpected unique_attributions: %v", decoded["unique_attributions"])
		}
	})
}

// TestSimpleWriter tests the human-readable summary.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	summary := model.NewSummary("https://example.com", testRecords, 1)
	if _, err := NewSimpleWriter(&buf).WriteSummary(summary); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Records collected:    3",
		"Unique attributions:  3",
		"Oscar Wilde",
		"https://example.com",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// TestMarkdownWriter tests the markdown report.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	records := append([]model.Record{}, testRecords...)
	records = append(records, model.Record{Text: "Also Wilde.", Attribution: "Oscar Wilde"})

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(records); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Scrape Report",
		"## Sample",
		"## Attribution Distribution",
		"mermaid",
		"Oscar Wilde",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

// TestMultiWriter tests fan-out to multiple writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var csvBuf, jsonBuf bytes.Buffer
	mw := NewMultiWriter(NewCSVWriter(&csvBuf), NewJSONWriter(&jsonBuf))

	if _, err := mw.Write(testRecords); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if csvBuf.Len() == 0 || jsonBuf.Len() == 0 {
		t.Error("expected both writers to receive output")
	}
}
