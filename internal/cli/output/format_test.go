package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "table", input: "table", want: FormatTable},
		{name: "empty defaults to table", input: "", want: FormatTable},
		{name: "json", input: "json", want: FormatJSON},
		{name: "JSON uppercase", input: "JSON", want: FormatJSON},
		{name: "yaml", input: "yaml", want: FormatYAML},
		{name: "yml alias", input: "yml", want: FormatYAML},
		{name: "whitespace trimmed", input: "  table  ", want: FormatTable},
		{name: "invalid format", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type outcome struct {
	Status   string `json:"status" yaml:"status"`
	Username string `json:"username" yaml:"username"`
}

func (o outcome) Headers() []string { return []string{"Status", "Username"} }
func (o outcome) Rows() [][]string  { return [][]string{{o.Status, o.Username}} }

func TestPrinterPrint(t *testing.T) {
	data := outcome{Status: "pass", Username: "Alice"}

	tests := []struct {
		format Format
		want   []string
	}{
		{FormatTable, []string{"STATUS", "USERNAME", "pass", "Alice"}},
		{FormatJSON, []string{`"status": "pass"`, `"username": "Alice"`}},
		{FormatYAML, []string{"status: pass", "username: Alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewPrinter(&buf, tt.format, false).Print(data))
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestPrinterPrint_TableFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(map[string]int{"tries": 3}))
	assert.Contains(t, buf.String(), `"tries": 3`)
}

func TestPrinterPrint_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, NewPrinter(&buf, Format("xml"), false).Print(outcome{}))
}

func TestPrinterStatusLines(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, FormatTable, false)

	printer.Success("success message")
	printer.Error("error message")
	printer.Warning("warning message")

	assert.Equal(t, "success message\nerror message\nwarning message\n", buf.String())
}

func TestPrinterStatusLines_Color(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, FormatTable, true).Success("ok")
	assert.Equal(t, colorGreen+"ok"+colorReset+"\n", buf.String())
}

func TestPrinterStatusLines_SilentForMachineFormats(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		var buf bytes.Buffer
		NewPrinter(&buf, format, true).Error("nope")
		assert.Empty(t, buf.String(), format)
	}
}

func TestDefaultPrinter(t *testing.T) {
	printer := DefaultPrinter()
	assert.NotNil(t, printer)
	assert.Equal(t, FormatTable, printer.Format())
}
