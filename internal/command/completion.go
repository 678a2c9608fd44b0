// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/findq/findq/internal/meta"
)

const bashCompletionScript = `# bash completion for findq
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_findq()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "fq iq version completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
  local common="--attrs -a --color -c --output -o --sort -s --titles -t --tldr"

    case "$cmd" in
    fq)
      local opts="$common --long -l --csv-no-head --out-file --archive-separator --follow-symlinks -L --no-archive -n --archives-only -A --nested -N --stop-on-error --print0 -0 --group-by -G --sort-by -S --desc --asc --refine -R --no-cache --use-index"
            ;;
        iq)
      local opts="$common --long -l --csv-no-head --archive-separator --follow-symlinks -L --no-archive -n --archives-only -A --use-index"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text long csv json yaml table" -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--group-by" || "$prev" == "-G" ]]; then
        COMPREPLY=( $(compgen -W "archive ext dir" -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--sort-by" || "$prev" == "-S" ]]; then
        COMPREPLY=( $(compgen -W "name count total_size avg_size" -- "$cur") )
        return 0
    fi

  # If current token starts with '-', offer flags
  if [[ "$cur" == -* ]]; then
    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
  fi

  # Otherwise, complete search paths
  COMPREPLY=( $(compgen -o dirnames -- "$cur") )
  return 0
}

complete -F _findq findq
`

const zshCompletionScript = `#compdef findq

_findq() {
  local -a cmds
  cmds=(
    'fq:find query'
    'iq:interactive query console'
    'version:print the findq version'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored table output]'
  '(-o --output)'{-o,--output}'[output format]:format:(text long csv json yaml table)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'findq commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    fq)
      _arguments -C \
        $common \
        '(-l --long)'{-l,--long}'[long listing output]' \
        '--csv-no-head[suppress the CSV header row]' \
        '--out-file[write results to a file]:file:_files' \
        '--archive-separator[container/member separator]' \
        '(-L --follow-symlinks)'{-L,--follow-symlinks}'[follow symbolic links]' \
        '(-n --no-archive)'{-n,--no-archive}'[do not look inside archives]' \
        '(-A --archives-only)'{-A,--archives-only}'[only containers and members]' \
        '(-N --nested)'{-N,--nested}'[report archives inside archives]' \
        '--stop-on-error[abort at the first traversal problem]' \
        '(-0 --print0)'{-0,--print0}'[NUL-terminated text output]' \
        '(-G --group-by)'{-G,--group-by}'[group results]:field:(archive ext dir)' \
        '(-S --sort-by)'{-S,--sort-by}'[group sort key]:key:(name count total_size avg_size)' \
        '--desc[sort groups descending]' \
        '--asc[sort groups ascending]' \
        '(-R --refine)'{-R,--refine}'[refine expression]:expr' \
        '--no-cache[skip writing the result cache]' \
        '--use-index[use the archive member index]' \
        '1:WHERE expression' \
        '*:search path:_directories'
      ;;
    iq)
      _arguments -C \
        $common \
        '(-l --long)'{-l,--long}'[long listing output]' \
        '--csv-no-head[suppress the CSV header row]' \
        '--archive-separator[container/member separator]' \
        '(-L --follow-symlinks)'{-L,--follow-symlinks}'[follow symbolic links]' \
        '(-n --no-archive)'{-n,--no-archive}'[do not look inside archives]' \
        '(-A --archives-only)'{-A,--archives-only}'[only containers and members]' \
        '--use-index[use the archive member index]' \
        '*:search path:_directories'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '*:directory:_directories'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _findq findq
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(os.Stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(os.Stdout, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(os.Stdout, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(os.Stdout, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: findq completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "findq completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
