// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/urfave/cli/v3"

	"github.com/findq/findq/internal/attrs"
	"github.com/findq/findq/internal/find"
	"github.com/findq/findq/internal/meta"
	"github.com/findq/findq/internal/output"
)

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// EmitDataset renders rows through the output pipeline, honoring --out-file.
// The defaults name the columns every row carries, in canonical order.
func EmitDataset(cmd *cli.Command, dataset []map[string]interface{}, defaults ...string) error {
	al := BuildAttrs(cmd, defaults...)

	var w *os.File
	if path := cmd.String("out-file"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("cannot create out-file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if w != nil {
		return output.Spit(dataset, al, cmd, w)
	}
	return output.Spit(dataset, al, cmd, nil)
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// MatchRows renders matches as loosely-typed rows for the output pipeline.
func MatchRows(matches []find.Match) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, m.Map())
	}
	return rows
}

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr findq <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "findq", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}
