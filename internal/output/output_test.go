// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	yamlv2 "gopkg.in/yaml.v2"

	"github.com/findq/findq/internal/attrs"
)

// newOutputCmd builds a command carrying the flags the output pipeline
// reads. Flag defaults stand in for parsed values since the command is
// never run.
func newOutputCmd(output, sortSpec string, boolsOn ...string) *cli.Command {
	on := func(name string) bool {
		for _, b := range boolsOn {
			if b == name {
				return true
			}
		}
		return false
	}
	return &cli.Command{
		Metadata: map[string]interface{}{},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Value: output},
			&cli.StringFlag{Name: "sort", Value: sortSpec},
			&cli.BoolFlag{Name: "print0", Value: on("print0")},
			&cli.BoolFlag{Name: "csv-no-head", Value: on("csv-no-head")},
			&cli.BoolFlag{Name: "titles", Value: on("titles")},
			&cli.BoolFlag{Name: "color", Value: false},
			&cli.IntFlag{Name: "padding", Value: 1},
		},
	}
}

// includeAttrs builds an AttrList of included fields keyed and titled by the
// given names.
func includeAttrs(keys ...string) attrs.AttrList {
	al := make(attrs.AttrList, 0, len(keys))
	for _, k := range keys {
		al = append(al, attrs.Attr{Key: k, Include: true, OutputKey: k})
	}
	return al
}

func sampleRows() []map[string]interface{} {
	return []map[string]interface{}{
		{
			"name": "a.txt", "path": "/data/a.txt", "container": "",
			"size": int64(1_234_567), "mtime_date": "2026-08-20",
			"mtime_time": "09:15:30", "ext": "txt", "ext2": "txt",
			"type": "file", "archive": "",
		},
		{
			"name": "readme.md", "path": "/data/z.zip//docs/readme.md",
			"container": "/data/z.zip", "size": int64(0),
			"mtime_date": "2026-08-19", "mtime_time": "23:59:59",
			"ext": "md", "ext2": "md", "type": "file", "archive": "zip",
		},
	}
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		emptyVal string
		want     string
	}{
		{name: "string", value: "hello", want: "hello"},
		{name: "int", value: 42, want: "42"},
		{name: "int64", value: int64(42), want: "42"},
		{name: "float64", value: 42.0, want: "42"},
		{name: "bool true", value: true, want: "true"},
		{name: "bool false is zero value", value: false, want: ""},
		{name: "nil default", value: nil, want: ""},
		{name: "nil custom", value: nil, emptyVal: "-", want: "-"},
		{name: "zero int64", value: int64(0), want: ""},
		{name: "zero with custom empty", value: int64(0), emptyVal: "N/A", want: "N/A"},
		{name: "slice", value: []string{"a", "b"}, want: `["a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			if tt.emptyVal != "" {
				got = InterfaceToString(tt.value, tt.emptyVal)
			} else {
				got = InterfaceToString(tt.value)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortDataset(t *testing.T) {
	testData := []map[string]interface{}{
		{"name": "Zebra", "size": int64(300), "ext": "txt"},
		{"name": "alpha", "size": int64(100), "ext": "md"},
		{"name": "beta", "size": float64(200), "ext": "txt"},
	}

	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{
			name:      "ascending by name folds case",
			spec:      "name",
			wantOrder: []string{"alpha", "beta", "Zebra"},
		},
		{
			name:      "descending by name",
			spec:      "-name",
			wantOrder: []string{"Zebra", "beta", "alpha"},
		},
		{
			name:      "case sensitive puts capitals first",
			spec:      "!name",
			wantOrder: []string{"Zebra", "alpha", "beta"},
		},
		{
			name:      "numeric across int64 and float64",
			spec:      "size",
			wantOrder: []string{"alpha", "beta", "Zebra"},
		},
		{
			name:      "descending numeric",
			spec:      "-size",
			wantOrder: []string{"Zebra", "beta", "alpha"},
		},
		{
			name:      "multiple fields",
			spec:      "ext,-size",
			wantOrder: []string{"alpha", "Zebra", "beta"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]map[string]interface{}, len(testData))
			copy(data, testData)
			SortDataset(data, tt.spec)
			for i, expectedName := range tt.wantOrder {
				assert.Equal(t, expectedName, data[i]["name"], "at index %d", i)
			}
		})
	}
}

func TestSpitText(t *testing.T) {
	var buf bytes.Buffer
	err := Spit(sampleRows(), includeAttrs("path"), newOutputCmd("text", ""), &buf)
	require.NoError(t, err)

	assert.Equal(t, "/data/a.txt\n/data/z.zip//docs/readme.md\n", buf.String())
}

func TestSpitTextPrint0(t *testing.T) {
	var buf bytes.Buffer
	err := Spit(sampleRows(), includeAttrs("path"), newOutputCmd("text", "", "print0"), &buf)
	require.NoError(t, err)

	assert.Equal(t, "/data/a.txt\x00/data/z.zip//docs/readme.md\x00", buf.String())
}

func TestSpitLong(t *testing.T) {
	var buf bytes.Buffer
	err := Spit(sampleRows(), includeAttrs("path"), newOutputCmd("long", ""), &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "      1,234,567 2026-08-20 09:15:30 file /data/a.txt", lines[0])
	// Zero sizes still render as 0, not blank.
	assert.Equal(t, "              0 2026-08-19 23:59:59 file /data/z.zip//docs/readme.md", lines[1])
}

func TestSpitCSV(t *testing.T) {
	rows := sampleRows()
	rows[0]["path"] = "/data/we,ird.txt"

	var buf bytes.Buffer
	al := includeAttrs("name", "path", "size")
	err := Spit(rows, al, newOutputCmd("csv", ""), &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,path,size", lines[0])
	// Commas inside values get quoted; zero sizes render empty.
	assert.Equal(t, `a.txt,"/data/we,ird.txt",1234567`, lines[1])
	assert.Equal(t, "readme.md,/data/z.zip//docs/readme.md,", lines[2])
}

func TestSpitCSVNoHead(t *testing.T) {
	var buf bytes.Buffer
	al := includeAttrs("name", "size")
	err := Spit(sampleRows(), al, newOutputCmd("csv", "", "csv-no-head"), &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "a.txt,1234567", lines[0])
}

func TestSpitJSON(t *testing.T) {
	var buf bytes.Buffer
	al := includeAttrs("name", "size", "container")
	err := Spit(sampleRows(), al, newOutputCmd("json", ""), &buf)
	require.NoError(t, err)

	// The document must parse and carry the values.
	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "a.txt", decoded[0]["name"])
	assert.Equal(t, float64(1_234_567), decoded[0]["size"])
	assert.Equal(t, "/data/z.zip", decoded[1]["container"])

	// Keys appear in canonical attr order, not map order.
	doc := buf.String()
	assert.Less(t, strings.Index(doc, `"name"`), strings.Index(doc, `"size"`))
	assert.Less(t, strings.Index(doc, `"size"`), strings.Index(doc, `"container"`))
}

func TestSpitJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := Spit(nil, includeAttrs("name"), newOutputCmd("json", ""), &buf)
	require.NoError(t, err)
	assert.Equal(t, "[\n]\n", buf.String())
}

func TestSpitYAML(t *testing.T) {
	var buf bytes.Buffer
	al := includeAttrs("name", "size")
	err := Spit(sampleRows(), al, newOutputCmd("yaml", ""), &buf)
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, yamlv2.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "a.txt", decoded[0]["name"])

	// MapSlice keeps name ahead of size.
	assert.Less(t, strings.Index(buf.String(), "name:"), strings.Index(buf.String(), "size:"))
}

func TestSpitSortsAndTransforms(t *testing.T) {
	al := includeAttrs("name", "size")
	al[0].TransformSpec = "U"

	var buf bytes.Buffer
	err := Spit(sampleRows(), al, newOutputCmd("csv", "-size", "csv-no-head"), &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "A.TXT,1234567", lines[0])
	assert.Equal(t, "README.MD,", lines[1])
}

func TestTableWriter(t *testing.T) {
	var buf bytes.Buffer
	cmd := newOutputCmd("table", "", "titles")
	cmd.Metadata["footer"] = "2 files"

	TableWriter(sampleRows(), includeAttrs("name", "size"), cmd, &buf)

	out := buf.String()
	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "readme.md")
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "2 files")
	// Zero values render as the table's empty marker.
	assert.Contains(t, out, "-")
}

func TestTableWriterEmptyResultSet(t *testing.T) {
	var buf bytes.Buffer
	TableWriter(nil, includeAttrs("name"), newOutputCmd("table", ""), &buf)
	assert.Empty(t, buf.String())
}

func TestGetColors(t *testing.T) {
	header, even, odd := getColors("colors")

	assert.NotNil(t, header)
	assert.NotNil(t, even)
	assert.NotNil(t, odd)
}
