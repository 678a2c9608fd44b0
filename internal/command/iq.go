// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/findq/findq/internal/cacheutil"
	"github.com/findq/findq/internal/config"
	"github.com/findq/findq/internal/filter"
	"github.com/findq/findq/internal/find"
	"github.com/findq/findq/internal/indexcache"
	"github.com/findq/findq/internal/meta"
	"github.com/findq/findq/internal/output"
	"github.com/findq/findq/internal/util"
)

// iqCommandAction is the action handler for the "iq" subcommand. It resolves
// the session roots and launches an interactive console that runs each
// submitted WHERE expression with fq semantics.
func iqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "iq") {
		return nil
	}

	config.Config.Namespace = "iq"

	roots := cmd.Args().Slice()
	if len(roots) == 0 {
		roots = []string{"."}
	}
	roots, err := util.ExpandRoots(roots)
	if err != nil {
		return err
	}
	log.Debugf("session roots: roots=%v", roots)

	return runIqConsole(cmd, roots)
}

// iqModel represents the Bubble Tea model for the iq console.
type iqModel struct {
	input          textinput.Model
	history        []string // Full history for navigation (includes file history)
	sessionHistory []string // Only entries from this session (matches with outputs)
	histIndex      int
	output         []string
	runQuery       func(where string) string
}

func initialIqModel(cmd *cli.Command, roots []string) iqModel {
	ti := textinput.New()
	ti.Placeholder = ""
	ti.Focus()
	ti.CharLimit = 2048
	ti.Width = 999
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorBlink)

	// Load history from file
	history := loadIqHistory(getIqHistoryFile())

	var out []string
	out = append(out, fmt.Sprintf("Interactive query console. Roots: %s.", strings.Join(roots, ", ")))
	out = append(out, "Type a WHERE expression, 'help' for syntax, 'exit' or Ctrl+C to quit.")

	return iqModel{
		input:          ti,
		history:        history,
		sessionHistory: []string{}, // Empty for new session
		histIndex:      -1,
		output:         out,
		runQuery: func(where string) string {
			return processIqQuery(cmd, roots, where)
		},
	}
}

func (m iqModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m iqModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			entry := m.input.Value()
			if strings.TrimSpace(entry) != "" {
				if entry == "exit" || entry == "quit" {
					return m, tea.Quit
				}
				if entry == "help" {
					m.history = append(m.history, entry)
					m.sessionHistory = append(m.sessionHistory, entry)
					m.histIndex = -1
					m.output = append(m.output, getIqHelp())
					saveIqHistory(getIqHistoryFile(), m.history)
					m.input.SetValue("")
					return m, nil
				}

				// !! reruns the previous query.
				if entry == "!!" {
					prev := m.lastQuery()
					if prev == "" {
						m.sessionHistory = append(m.sessionHistory, entry)
						m.output = append(m.output, "No previous query.")
						m.input.SetValue("")
						return m, nil
					}
					entry = prev
				}

				result := m.runQuery(entry)

				m.history = append(m.history, entry)
				m.sessionHistory = append(m.sessionHistory, entry)
				m.histIndex = -1
				m.output = append(m.output, result)
				saveIqHistory(getIqHistoryFile(), m.history)
			}
			m.input.SetValue("")
			return m, nil

		case "up":
			if len(m.history) == 0 {
				return m, nil
			}
			if m.histIndex == -1 {
				m.histIndex = len(m.history) - 1
			} else if m.histIndex > 0 {
				m.histIndex--
			}
			m.input.SetValue(m.history[m.histIndex])
			m.input.CursorEnd()
			return m, nil

		case "down":
			if len(m.history) == 0 {
				return m, nil
			}
			if m.histIndex >= 0 && m.histIndex < len(m.history)-1 {
				m.histIndex++
				m.input.SetValue(m.history[m.histIndex])
				m.input.CursorEnd()
			} else {
				m.histIndex = -1
				m.input.SetValue("")
			}
			return m, nil

		case "ctrl+c", "ctrl+d", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m iqModel) View() string {
	promptStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#00ADD8"))

	var lines []string

	// Add the initial welcome messages first
	if len(m.output) >= 2 {
		lines = append(lines, m.output[0])
		lines = append(lines, m.output[1])
	}

	// Add each entry from THIS SESSION with its corresponding output
	for i := 0; i < len(m.sessionHistory); i++ {
		lines = append(lines, promptStyle.Render("> ")+m.sessionHistory[i])

		// Show the corresponding output (accounting for the 2 initial messages)
		if (i + 2) < len(m.output) {
			lines = append(lines, m.output[i+2])
		}
	}

	// Add current prompt and input
	lines = append(lines, promptStyle.Render("> ")+m.input.View())

	return strings.Join(lines, "\n")
}

// lastQuery returns the most recent history entry that is a runnable query.
func (m iqModel) lastQuery() string {
	for i := len(m.history) - 1; i >= 0; i-- {
		if e := m.history[i]; e != "help" && e != "!!" {
			return e
		}
	}
	return ""
}

// processIqQuery runs one WHERE expression against the session roots and
// renders the matches through the output pipeline into a string. Errors and
// traversal warnings come back as console lines rather than stderr writes,
// which would tear the bubbletea screen.
func processIqQuery(cmd *cli.Command, roots []string, where string) string {
	if where == "-" {
		where = fqMatchAll
	}

	flt, err := filter.Compile(where)
	if err != nil {
		return "error: " + err.Error()
	}

	var warnings []string
	policy := find.Policy{
		FollowSymlinks:   cmd.Bool("follow-symlinks"),
		NoArchive:        cmd.Bool("no-archive"),
		ArchivesOnly:     cmd.Bool("archives-only"),
		ArchiveSeparator: cmd.String("archive-separator"),
		ErrorSink: func(msg string) {
			warnings = append(warnings, msg)
		},
	}

	if cmd.Bool("use-index") {
		if ix, ok := indexcache.Open(); ok {
			defer ix.Close()
			policy.Index = ix
		}
	}

	w := find.NewWalker(roots, flt, policy)
	defer w.Close()

	var matches []find.Match
	for {
		m, ok := w.Next()
		if !ok {
			break
		}
		matches = append(matches, m)
	}
	if err := w.Err(); err != nil {
		return "error: " + err.Error()
	}

	var buf bytes.Buffer
	al := BuildAttrs(cmd, find.Columns...)
	if err := output.Spit(MatchRows(matches), al, cmd, &buf); err != nil {
		return "error: " + err.Error()
	}

	result := strings.TrimSuffix(buf.String(), "\n")
	if result == "" {
		result = "No matches."
	}
	for _, msg := range warnings {
		result += "\nwarning: " + msg
	}
	return result
}

// getIqHelp returns the help text as a string
func getIqHelp() string {
	return `Query syntax:
  A WHERE expression over the row attributes, for example:

     size > 10m                       - Files larger than 10 MB
     ext in ("jpg", "png")            - By extension
     name like "foo%" and date=today  - Wildcard name, modified today
     date < "2020" and archive="zip"  - Old files inside zip archives
     name rlike "(.*-){2}"            - Regular expression match
     1                                - Match everything

  Attributes:
     name, path, size, date, time, ext, ext2, type, archive, container

  Helpers:
     today                            - Today's date
     mo, tu, we, th, fr, sa, su       - Last weekday dates

  Operators:
     =, !=, <>, <, >, <=, >=          - Comparison
     AND, OR, NOT                     - Logical
     LIKE, ILIKE, RLIKE               - Patterns
     BETWEEN, IN                      - Ranges

  Console:
     !!                               - Rerun the previous query
     ↑/↓ arrows                       - Navigate history
     exit, quit, Ctrl+C, Ctrl+D       - Leave`
}

// getIqHistoryFile returns the path of the console history artifact, or ""
// when caching is disabled.
func getIqHistoryFile() string {
	path, ok := cacheutil.ArtifactPath("history")
	if !ok {
		return ""
	}
	return path
}

func loadIqHistory(filename string) []string {
	var history []string
	if filename == "" {
		return history
	}

	file, err := os.Open(filename)
	if err != nil {
		return history // Return empty history if file doesn't exist
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			history = append(history, line)
		}
	}

	return history
}

func saveIqHistory(filename string, history []string) {
	if filename == "" {
		return
	}

	// Keep only the last 1000 entries
	maxHistory := 1000
	start := 0
	if len(history) > maxHistory {
		start = len(history) - maxHistory
	}

	file, err := os.Create(filename)
	if err != nil {
		return // Silently fail if we can't save history
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for i := start; i < len(history); i++ {
		fmt.Fprintln(writer, history[i])
	}
	writer.Flush()
}

func runIqConsole(cmd *cli.Command, roots []string) error {
	p := tea.NewProgram(initialIqModel(cmd, roots))
	_, err := p.Run()
	return err
}

// iqCommandBuilder constructs the cli.Command for "iq" and wires up metadata,
// flags, and the action handler.
func iqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "iq",
		Usage:     "interactive query console",
		UsageText: "findq iq [options] [PATH ...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "long",
				Aliases: []string{"l"},
				Usage:   "long listing output (size, date, time, type, path)",
				Value:   false,
			},
			&cli.BoolFlag{
				Name:  "csv-no-head",
				Usage: "suppress the CSV header row",
				Value: false,
			},
			&cli.BoolFlag{
				Name:    "follow-symlinks",
				Aliases: []string{"L"},
				Usage:   "follow symbolic links",
				Value:   false,
			},
			&cli.BoolFlag{
				Name:    "no-archive",
				Aliases: []string{"n"},
				Usage:   "do not look inside archives",
				Value:   false,
			},
			&cli.BoolFlag{
				Name:    "archives-only",
				Aliases: []string{"A"},
				Usage:   "only report containers and their members",
				Value:   false,
			},
			&cli.BoolFlag{
				Name:  "use-index",
				Usage: "consult and maintain the archive member index",
				Value: false,
			},
			&cli.IntFlag{
				Name:   "padding",
				Hidden: true,
				Usage:  "table cell padding",
				Value:  1,
			},
			NewArchiveSeparatorFlag("iq", meta.Config.Source),
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("long") {
				_ = cmd.Set("output", "long")
			}
			return ctx, GlobalFlagsValidator(ctx, cmd)
		},
		Action: iqCommandAction,
		Meta:   meta,
	}).Build()
}
