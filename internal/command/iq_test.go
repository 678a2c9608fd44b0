// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIqHistoryRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "history")

	saveIqHistory(file, []string{"ext = 'go'", "size > 10k", "help"})

	got := loadIqHistory(file)
	assert.Equal(t, []string{"ext = 'go'", "size > 10k", "help"}, got)
}

func TestIqHistoryMissingFile(t *testing.T) {
	got := loadIqHistory(filepath.Join(t.TempDir(), "nope"))
	assert.Empty(t, got)
}

func TestIqHistoryEmptyFilename(t *testing.T) {
	// Caching disabled: loads and saves are no-ops.
	assert.Empty(t, loadIqHistory(""))
	saveIqHistory("", []string{"x"})
}

func TestIqHistorySkipsBlankLines(t *testing.T) {
	file := filepath.Join(t.TempDir(), "history")
	require.NoError(t, os.WriteFile(file, []byte("one\n\n  \ntwo\n"), 0o644))

	got := loadIqHistory(file)
	assert.Equal(t, []string{"one", "two"}, got)
}

func TestIqHistoryCapped(t *testing.T) {
	file := filepath.Join(t.TempDir(), "history")

	history := make([]string, 1005)
	for i := range history {
		history[i] = strings.Repeat("q", 3)
	}
	history[4] = "early-entry"

	saveIqHistory(file, history)

	got := loadIqHistory(file)
	assert.Len(t, got, 1000)
	// The oldest five entries fell off, including index 4.
	assert.NotContains(t, got, "early-entry")
}

func TestIqLastQuery(t *testing.T) {
	m := iqModel{history: []string{"ext = 'go'", "help", "!!"}}
	assert.Equal(t, "ext = 'go'", m.lastQuery())

	m = iqModel{history: []string{"help", "!!"}}
	assert.Equal(t, "", m.lastQuery())

	m = iqModel{}
	assert.Equal(t, "", m.lastQuery())
}

func TestIqHelpMentionsSyntax(t *testing.T) {
	help := getIqHelp()
	assert.Contains(t, help, "WHERE expression")
	assert.Contains(t, help, "BETWEEN")
	assert.Contains(t, help, "!!")
}
