package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCatalog(t *testing.T) {
	out, err := run(t, "", "catalog")
	require.NoError(t, err)

	assert.Contains(t, out, "earth_pit_section_toggles")
	assert.Contains(t, out, "relay_section_toggles")
	// шапка плюс 17 типов
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 18)
}

func TestMaterialize(t *testing.T) {
	out, err := run(t, "", "materialize", "--type", "earth_pit")
	require.NoError(t, err)

	var form map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &form))
	assert.Equal(t, "earth_pit", form["equipment_type"])
	assert.Len(t, form["electrical_checks_rows"], 6)
}

func TestMaterialize_NoType(t *testing.T) {
	_, err := run(t, "", "materialize")
	assert.Error(t, err)
}

func TestReconcile_Stdin(t *testing.T) {
	record := `{
		"equipment_type": "earth_pit",
		"customer_name": "Acme",
		"electrical_checks_rows": [{"pit_no": "1", "individual_result": {"0": "2", "1": ".", "2": "5"}}]
	}`

	out, err := run(t, record, "reconcile", "-")
	require.NoError(t, err)

	var form map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &form))
	assert.Equal(t, "Acme", form["customer_info"].(map[string]any)["company_name"])

	rows := form["electrical_checks_rows"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "2.5", rows[0].(map[string]any)["individual_result"])
}

func TestRecover(t *testing.T) {
	out, err := run(t, "", "recover", `{"1":"b","0":"a","10":"z","2":"c"}`)
	require.NoError(t, err)
	assert.Equal(t, "abcz\n", out)

	out, err = run(t, "", "recover", "--fallback", "n/a", "null")
	require.NoError(t, err)
	assert.Equal(t, "n/a\n", out)
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	recordPath := filepath.Join(dir, "record.json")
	require.NoError(t, os.WriteFile(recordPath, []byte(`{"equipment_type":"earth_pit","report_title":"Pits"}`), 0o644))
	outPath := filepath.Join(dir, "out.xlsx")

	out, err := run(t, "", "export", recordPath, "-o", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "written")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	// xlsx это zip-архив
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}
