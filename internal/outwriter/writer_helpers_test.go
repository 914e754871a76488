package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{
			name:      "precision 2",
			precision: 2,
			value:     3.14159,
			expected:  "3.14",
		},
		{
			name:      "precision 0",
			precision: 0,
			value:     3.14159,
			expected:  "3",
		},
		{
			name:      "precision 4",
			precision: 4,
			value:     3.14159,
			expected:  "3.1416",
		},
		{
			name:      "negative value",
			precision: 2,
			value:     -42.567,
			expected:  "-42.57",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "%d", intFmt)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		expected string
	}{
		{
			name: "simple object",
			data: map[string]any{
				"name":  "test",
				"value": 42,
			},
			expected: `{
  "name": "test",
  "value": 42
}
`,
		},
		{
			name: "array",
			data: []string{"a", "b", "c"},
			expected: `[
  "a",
  "b",
  "c"
]
`,
		},
		{
			name:     "string",
			data:     "hello",
			expected: `"hello"` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := writeJSON(&buf, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWriteJSONError(t *testing.T) {
	// Test with a value that can't be marshaled to JSON
	invalidData := make(chan int)
	var buf bytes.Buffer
	err := writeJSON(&buf, invalidData)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		rows     [][]string
		expected string
	}{
		{
			name:   "simple csv",
			header: []string{"name", "age", "city"},
			rows: [][]string{
				{"Alice", "30", "NYC"},
				{"Bob", "25", "LA"},
			},
			expected: "name,age,city\nAlice,30,NYC\nBob,25,LA\n",
		},
		{
			name:     "empty rows",
			header:   []string{"col1", "col2"},
			rows:     [][]string{},
			expected: "col1,col2\n",
		},
		{
			name:   "values with commas",
			header: []string{"name", "description"},
			rows: [][]string{
				{"Test", "A value, with comma"},
			},
			expected: "name,description\nTest,\"A value, with comma\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := writeCSVWithHeader(&buf, tt.header, func(w *csv.Writer) error {
				for _, row := range tt.rows {
					if err := w.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWriteCSVWithHeaderError(t *testing.T) {
	// Test CSV writer error propagation
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"col"}, func(w *csv.Writer) error {
		// Simulate an error in row writing
		return assert.AnError
	})
	require.Error(t, err)
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFileStdout(t *testing.T) {
	// Test writing to stdout (empty string means stdout)
	called := false
	err := writeWithFile("", func(w io.Writer) error {
		called = true
		_, err := w.Write([]byte("test"))
		return err
	}, "Test message")

	require.NoError(t, err)
	assert.True(t, called, "Writer function should have been called")
}

func TestWriteWithFileActualFile(t *testing.T) {
	// Create a temporary file for testing
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.txt")

	// Test writing to an actual file
	testContent := "test content"
	err := writeWithFile(tmpFile, func(w io.Writer) error {
		_, err := w.Write([]byte(testContent))
		return err
	}, "Test message")

	require.NoError(t, err)

	// Verify file content
	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, testContent, string(content))
}

func TestWriteWithFileError(t *testing.T) {
	// Test error propagation from writer function
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.txt")

	err := writeWithFile(tmpFile, func(w io.Writer) error {
		return assert.AnError
	}, "Test message")

	require.Error(t, err)
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFileInvalidPath(t *testing.T) {
	// Test with an invalid file path (should fail on file open)
	err := writeWithFile("/nonexistent/path/file.txt", func(w io.Writer) error {
		return nil
	}, "Test message")

	require.Error(t, err)
}

func TestBarGlyph(t *testing.T) {
	tests := []struct {
		name        string
		height      float64
		chartHeight float64
		expected    rune
	}{
		{"zero height", 0, 100, ' '},
		{"zero chart", 10, 0, ' '},
		{"tiny bar", 1, 100, '▁'},
		{"half bar", 50, 100, '▄'},
		{"full bar", 100, 100, '█'},
		{"overflow clamps", 150, 100, '█'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, barGlyph(tt.height, tt.chartHeight))
		})
	}
}

func TestRenderStrip(t *testing.T) {
	assert.Empty(t, renderStrip(nil, 100, 10, false))

	bars := []schema.Primitive{
		{Kind: schema.RectPrimitive, Role: schema.BarRole, Index: 0, Height: 100, Tier: schema.HighTier},
		{Kind: schema.RectPrimitive, Role: schema.BarRole, Index: 1, Height: 50, Tier: schema.MediumTier},
		{Kind: schema.RectPrimitive, Role: schema.BarRole, Index: 2, Height: 0, Tier: schema.LowTier},
	}
	assert.Equal(t, "█▄ \n", renderStrip(bars, 100, 10, false))
	assert.Equal(t, "█▄\n \n", renderStrip(bars, 100, 2, false))
}

func TestFramePrimitiveHelpers(t *testing.T) {
	frame := schema.Frame{
		BucketCount: 3,
		Primitives: []schema.Primitive{
			{Kind: schema.LinePrimitive, Role: schema.GridRole, Index: -1},
			{Kind: schema.RectPrimitive, Role: schema.BarRole, Index: 1, Height: 4},
			{Kind: schema.RectPrimitive, Role: schema.BarRole, Index: 0, Height: 2},
			{Kind: schema.LabelPrimitive, Role: schema.AxisLabelRole, Index: 0, Text: "1/1"},
			{Kind: schema.LabelPrimitive, Role: schema.AxisLabelRole, Index: 2, Text: "1/3"},
			{Kind: schema.RectPrimitive, Role: schema.SelectionRole, Index: -1},
		},
	}

	bars := barPrimitives(frame)
	require.Len(t, bars, 2)
	assert.Equal(t, 0, bars[0].Index)
	assert.Equal(t, 1, bars[1].Index)

	assert.Equal(t, []string{"1/1", "", "1/3"}, axisLabels(frame))
}

func TestTierLabelPlain(t *testing.T) {
	assert.Equal(t, contract.HighValue, tierLabel(schema.HighTier, false))
	assert.Equal(t, contract.LowValue, tierLabel(schema.LowTier, false))
}
