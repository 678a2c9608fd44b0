// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/findq/findq/internal/archive"
	"github.com/findq/findq/internal/config"
	"github.com/findq/findq/internal/filter"
	"github.com/findq/findq/internal/find"
	"github.com/findq/findq/internal/indexcache"
	"github.com/findq/findq/internal/meta"
	"github.com/findq/findq/internal/refine"
	"github.com/findq/findq/internal/resultcache"
	"github.com/findq/findq/internal/util"
)

// fqMatchAll matches every row. A bare "-" on the command line means the
// same thing.
const fqMatchAll = "1"

// fqCommandAction is the action handler for the "fq" subcommand. It compiles
// the WHERE expression, walks the roots, and emits matching rows per common
// flags. Without a WHERE, --refine and --group-by run against the cached
// result set instead of walking.
func fqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "fq") {
		return nil
	}

	config.Config.Namespace = "fq"

	args := cmd.Args().Slice()

	// In nested mode every positional argument is a path.
	if cmd.Bool("nested") {
		return nestedReport(cmd, args)
	}

	if len(args) == 0 {
		if cmd.String("refine") != "" || cmd.String("group-by") != "" {
			return refineCachedResults(cmd)
		}
		return errors.New(`missing WHERE expression (use "1" to match everything)`)
	}

	where := args[0]
	if where == "-" {
		where = fqMatchAll
	}
	roots := args[1:]
	if len(roots) == 0 {
		roots = []string{"."}
	}

	matches, err := runQuery(cmd, where, roots)
	if err != nil {
		return err
	}

	if !cmd.Bool("no-cache") {
		err := resultcache.Save(matches, resultcache.Metadata{
			Where:        where,
			Paths:        roots,
			ArchivesOnly: cmd.Bool("archives-only"),
		})
		if err != nil {
			log.Debugf("result cache save failed: %v", err)
		}
	}

	rows := MatchRows(matches)
	if gb := cmd.String("group-by"); gb != "" {
		return emitGroups(cmd, rows, gb)
	}
	return emitMatches(cmd, rows)
}

// runQuery compiles where, expands the roots, and drains the walker.
// Traversal warnings are replayed to stderr after the walk so they cannot
// interleave with results.
func runQuery(cmd *cli.Command, where string, roots []string) ([]find.Match, error) {
	flt, err := filter.Compile(where)
	if err != nil {
		return nil, err
	}

	roots, err = util.ExpandRoots(roots)
	if err != nil {
		return nil, err
	}
	log.Debugf("roots expanded: roots=%v", roots)

	var warnings []string
	policy := find.Policy{
		FollowSymlinks:   cmd.Bool("follow-symlinks"),
		NoArchive:        cmd.Bool("no-archive"),
		ArchivesOnly:     cmd.Bool("archives-only"),
		StopOnError:      cmd.Bool("stop-on-error"),
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

	for _, msg := range warnings {
		fmt.Fprintln(os.Stderr, "findq: "+msg)
	}

	if err := w.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

// emitMatches refines (if asked) and renders match rows.
func emitMatches(cmd *cli.Command, rows []map[string]interface{}) error {
	rows, err := refineRows(cmd, rows, find.Columns)
	if err != nil {
		return err
	}
	return EmitDataset(cmd, rows, find.Columns...)
}

// emitGroups folds rows into group-stat rows, refines and orders them, and
// renders the result.
func emitGroups(cmd *cli.Command, rows []map[string]interface{}, field string) error {
	groups, err := refine.GroupBy(rows, field)
	if err != nil {
		return err
	}
	groups, err = refineRows(cmd, groups, refine.StatColumns)
	if err != nil {
		return err
	}
	refine.SortGroups(groups, cmd.String("sort-by"), cmd.Bool("desc"))

	files, size := refine.Totals(groups)
	log.Debugf("groups computed: groups=%d, files=%d, size=%d", len(groups), files, size)

	return EmitDataset(cmd, groups, refine.StatColumns...)
}

// refineRows applies --refine, validating condition fields against the
// given column set.
func refineRows(cmd *cli.Command, rows []map[string]interface{}, fields []string) ([]map[string]interface{}, error) {
	expr := cmd.String("refine")
	if expr == "" {
		return rows, nil
	}
	conds, err := refine.ParseRefine(expr, fields)
	if err != nil {
		return nil, err
	}
	return refine.Apply(rows, conds), nil
}

// refineCachedResults reruns post-processing over the last saved result set.
func refineCachedResults(cmd *cli.Command) error {
	snap, ok := resultcache.Load()
	if !ok {
		return errors.New("no cached result set to refine; run a query first")
	}
	log.Debugf("snapshot loaded: count=%d, where=%q, paths=%v",
		snap.Count, snap.Metadata.Where, snap.Metadata.Paths)

	if gb := cmd.String("group-by"); gb != "" {
		return emitGroups(cmd, snap.Files, gb)
	}
	return emitMatches(cmd, snap.Files)
}

// nestedReport walks the given paths and lists archive members that are
// themselves archives. Those members are reported but never opened.
func nestedReport(cmd *cli.Command, paths []string) error {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	matches, err := runQuery(cmd, fqMatchAll, paths)
	if err != nil {
		return err
	}

	var nested []find.Match
	for _, m := range matches {
		if m.Container == "" {
			continue
		}
		if _, ok := archive.DetectKind(m.Name); ok {
			nested = append(nested, m)
		}
	}
	log.Debugf("nested members found: count=%d", len(nested))

	return EmitDataset(cmd, MatchRows(nested), find.Columns...)
}

// fqCommandBuilder constructs the cli.Command for "fq", wiring metadata,
// flags, and action/validator handlers.
func fqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "fq",
		Usage:     "find query",
		UsageText: "findq fq [options] WHERE [PATH ...]",
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
			&cli.StringFlag{
				Name:  "out-file",
				Usage: "write results to a file instead of stdout",
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
				Name:    "nested",
				Aliases: []string{"N"},
				Usage:   "report archives found inside archives (arguments are paths)",
				Value:   false,
			},
			&cli.BoolFlag{
				Name:  "stop-on-error",
				Usage: "abort the walk at the first traversal problem",
				Value: false,
			},
			&cli.BoolFlag{
				Name:    "print0",
				Aliases: []string{"0"},
				Usage:   "terminate text output records with NUL (for xargs -0)",
				Value:   false,
			},
			&cli.StringFlag{
				Name:    "group-by",
				Aliases: []string{"G"},
				Usage:   "group results by archive, ext or dir",
				Validator: func(value string) error {
					return FlagValidators(value, GroupByValidator)
				},
			},
			&cli.BoolFlag{
				Name:        "desc",
				Usage:       "sort groups descending",
				Value:       true,
				HideDefault: true,
			},
			&cli.BoolFlag{
				Name:        "asc",
				Usage:       "sort groups ascending",
				Value:       false,
				HideDefault: true,
			},
			&cli.StringFlag{
				Name:    "refine",
				Aliases: []string{"R"},
				Usage:   "refine expression over the result set (field op value, AND-joined)",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "skip writing the result cache",
				Value: false,
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
			NewArchiveSeparatorFlag("fq", meta.Config.Source),
			NewSortByFlag("fq", meta.Config.Source),
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			// --long is shorthand for --output long.
			if cmd.Bool("long") {
				_ = cmd.Set("output", "long")
			}

			// --asc flips the default-descending group sort.
			if cmd.Bool("asc") {
				_ = cmd.Set("desc", "false")
			}

			// Nested mode must look inside archives.
			if cmd.Bool("nested") {
				_ = cmd.Set("no-archive", "false")
			}

			return ctx, GlobalFlagsValidator(ctx, cmd)
		},
		Action: fqCommandAction,
		Meta:   meta,
	}).Build()
}
