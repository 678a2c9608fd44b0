// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/findq/findq/internal/meta"
	"github.com/findq/findq/internal/version"
)

func versionCommandAction(ctx context.Context, cmd *cli.Command) error {
	fmt.Fprintln(os.Stdout, version.Version)
	return nil
}

func versionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "version",
		Usage:     "print the findq version",
		UsageText: "findq version",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: versionCommandAction,
	}
}
