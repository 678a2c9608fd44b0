// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

var tldrFlag *cli.BoolFlag = &cli.BoolFlag{
	Name:        "tldr",
	Usage:       "show tldr page",
	Hidden:      !pathHas("tldr"),
	HideDefault: true,
}

// NewGlobalFlags builds the flag set shared by every query command. When
// params carries a namespace and a config file path, the string flags also
// resolve from the config file (ns.flag first, then flag).
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	outputFlag := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("FINDQ_OUTPUT"),
		),
		Value: "text",
		Validator: func(value string) error {
			return FlagValidators(value, OutputValidator)
		},
	}

	sortFlag := &cli.StringFlag{
		Name:    "sort",
		Aliases: []string{"s"},
		Usage:   "comma-separated list of attributes to sort the results by",
		Sources: cli.NewValueSourceChain(),
	}

	if len(params) == 2 {
		outputFlag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], outputFlag)
		sortFlag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], sortFlag)
	}

	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored table output",
			Value:   false,
		},
		outputFlag,
		sortFlag,
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with table output",
			Value:   false,
		},
	}

	return
}

// NewArchiveSeparatorFlag constructs the "archive-separator" flag, optionally
// namespaced to a command and config file. params[1] is the config file.
func NewArchiveSeparatorFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "archive-separator",
		Usage: "separator between a container path and a member path",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("FINDQ_ARCHIVE_SEPARATOR"),
		),
		Value: "//",
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewSortByFlag constructs the "sort-by" flag used to order group-stat rows,
// optionally namespaced to a command and config file.
func NewSortByFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:    "sort-by",
		Aliases: []string{"S"},
		Usage:   "group-stat sort key (name, count, total_size, avg_size)",
		Value:   "avg_size",
		Sources: cli.NewValueSourceChain(),
		Validator: func(value string) error {
			return FlagValidators(value, SortByValidator)
		},
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas checks if the given executable exists on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
