// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/findq/findq/internal/attrs"
	"github.com/findq/findq/internal/config"
)

// Formats lists the supported --output values.
var Formats = []string{"text", "long", "csv", "json", "yaml", "table"}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		// Sizes and counts are whole numbers even after a JSON round trip,
		// so we render without a fraction.
		return fmt.Sprintf("%.0f", value)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// Spit transforms, sorts and renders a dataset according to the command's
// output flags. Rows are match records or group-stat rows; the AttrList
// decides which fields appear and under what name. Output goes to w, or
// stdout when w is nil.
func Spit(dataset []map[string]interface{},
	attrList attrs.AttrList,
	cmd *cli.Command,
	w io.Writer) error {

	if w == nil {
		w = os.Stdout
	}

	// Transform each value in each row.
	for _, row := range dataset {
		for _, attr := range attrList {
			if attr.TransformSpec != "" {
				row[attr.Key] = attr.Transform(row[attr.Key])
			}
		}
	}

	if spec := cmd.String("sort"); spec != "" {
		SortDataset(dataset, spec)
	}

	switch cmd.String("output") {
	case "long":
		return writeLong(dataset, lineSep(cmd), w)
	case "csv":
		return writeCSV(dataset, attrList, cmd, w)
	case "json":
		return writeJSON(dataset, attrList, w)
	case "yaml":
		return writeYAML(dataset, attrList, w)
	case "table":
		TableWriter(dataset, attrList, cmd, w)
		return nil
	default:
		return writeText(dataset, lineSep(cmd), w)
	}
}

// lineSep picks the record terminator for the line-oriented formats.
func lineSep(cmd *cli.Command) string {
	if cmd.Bool("print0") {
		return "\x00"
	}
	return "\n"
}

// writeText emits one path per record, nothing else.
func writeText(dataset []map[string]interface{}, sep string, w io.Writer) error {
	for _, row := range dataset {
		if _, err := fmt.Fprintf(w, "%s%s", InterfaceToString(row["path"]), sep); err != nil {
			return err
		}
	}
	return nil
}

// writeLong emits "size date time type path" per record with the size
// comma-grouped and right-aligned.
func writeLong(dataset []map[string]interface{}, sep string, w io.Writer) error {
	for _, row := range dataset {
		size := ""
		if n, ok := toInt64(row["size"]); ok {
			size = humanize.Comma(n)
		}
		_, err := fmt.Fprintf(w, "%15s %10s %8s %-4s %s%s",
			size,
			InterfaceToString(row["mtime_date"]),
			InterfaceToString(row["mtime_time"]),
			InterfaceToString(row["type"]),
			InterfaceToString(row["path"]),
			sep)
		if err != nil {
			return err
		}
	}
	return nil
}

// writeCSV emits the included fields in attr order, optionally headed by the
// output keys.
func writeCSV(dataset []map[string]interface{},
	attrList attrs.AttrList,
	cmd *cli.Command,
	w io.Writer) error {

	cw := csv.NewWriter(w)

	if !cmd.Bool("csv-no-head") {
		var header []string
		for _, attr := range attrList {
			if attr.Include {
				header = append(header, attr.OutputKey)
			}
		}
		if err := cw.Write(header); err != nil {
			return err
		}
	}

	for _, row := range dataset {
		var record []string
		for _, attr := range attrList {
			if attr.Include {
				record = append(record, InterfaceToString(row[attr.Key]))
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// writeJSON emits an array of objects. encoding/json randomizes map key
// order, so the document is assembled by hand to keep the canonical field
// order.
func writeJSON(dataset []map[string]interface{},
	attrList attrs.AttrList,
	w io.Writer) error {

	var buf bytes.Buffer
	buf.WriteString("[")
	for i, row := range dataset {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  {")
		first := true
		for _, attr := range attrList {
			if !attr.Include {
				continue
			}
			if !first {
				buf.WriteString(",")
			}
			first = false

			key, err := json.Marshal(attr.OutputKey)
			if err != nil {
				return err
			}
			value, err := json.Marshal(row[attr.Key])
			if err != nil {
				return err
			}
			buf.WriteString("\n    ")
			buf.Write(key)
			buf.WriteString(": ")
			buf.Write(value)
		}
		buf.WriteString("\n  }")
	}
	buf.WriteString("\n]\n")

	_, err := w.Write(buf.Bytes())
	return err
}

// writeYAML emits the dataset as a YAML sequence. yaml.v2's MapSlice keeps
// the canonical field order.
func writeYAML(dataset []map[string]interface{},
	attrList attrs.AttrList,
	w io.Writer) error {

	docs := make([]yaml.MapSlice, 0, len(dataset))
	for _, row := range dataset {
		doc := yaml.MapSlice{}
		for _, attr := range attrList {
			if attr.Include {
				doc = append(doc, yaml.MapItem{Key: attr.OutputKey, Value: row[attr.Key]})
			}
		}
		docs = append(docs, doc)
	}

	out, err := yaml.Marshal(docs)
	if err != nil {
		log.Errorf("Spit yaml marshal: %v", err)
		return err
	}
	_, err = w.Write(out)
	return err
}

// TableWriter renders the result set in a tabular form honoring color,
// titles and padding options. Output is written to w. If w is nil, os.Stdout
// is used.
func TableWriter(
	resultSet []map[string]interface{},
	attrList attrs.AttrList,
	cmd *cli.Command,
	w io.Writer) {

	if w == nil {
		w = os.Stdout
	}

	// We return early if there are no results to display.
	if len(resultSet) == 0 {
		return
	}

	// We initialize the table styles.
	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	// And then color styles if --color is present.
	if cmd.Bool("color") {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	// We build the table rows from the result set.
	var rows [][]string
	for _, result := range resultSet {
		row := make([]string, 0, len(result))
		for _, attr := range attrList {
			if !attr.Include {
				continue
			}
			row = append(row, InterfaceToString(result[attr.Key], "-"))
		}
		rows = append(rows, row)
	}

	// We render the header if present.
	if cmd.Metadata["header"] != nil {
		fmt.Fprintln(w, headerStyle.Render(cmd.Metadata["header"].(string)))
	}

	// We configure the table with padding and styles.
	pad := cmd.Int("padding")
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	// We add column headers if titles are enabled.
	if cmd.Bool("titles") {
		var headers []string
		for _, attr := range attrList {
			if attr.Include {
				headers = append(headers, attr.OutputKey)
			}
		}

		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}

	// Cap the table at the terminal width so long member paths wrap inside
	// their cells instead of tearing rows.
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			t = t.Width(cols)
		}
	}

	fmt.Fprintln(w, t)

	// We render the footer if present.
	if cmd.Metadata["footer"] != nil {
		fmt.Fprintln(w, headerStyle.Render(cmd.Metadata["footer"].(string)))
	}
}

// getColors returns configured color values for table rendering. Each color is
// selected based on terminal background color and brightness so that we can
// make sure output is reasonably visible for all(?) terminal themes.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	// Use the explicit color if found in the config and leave it up to the user
	// to choose appropriate colors for their theme. If not found, pick a
	// reasonable default based on terminal background.
	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	return
}

// toInt64 coerces the numeric types a record can carry: int64 from live
// matches, float64 from the result cache.
func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
