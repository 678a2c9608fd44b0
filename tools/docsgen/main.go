// docsgen renders the command reference pages (markdown, man, tldr) from the
// YAML description in docs/templates. Run it from the repo root:
//
//	go run ./tools/docsgen docs
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Subcommands []Subcommand `yaml:"subcommands"`
	Common      Common       `yaml:"common"`
}

type Common struct {
	Flags []Flag `yaml:"flags"`
}

type Subcommand struct {
	ID          string    `yaml:"id"`
	Short       string    `yaml:"short"`
	Description string    `yaml:"description"`
	Usage       string    `yaml:"usage"`
	Flags       []Flag    `yaml:"flags"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
}

type Flag struct {
	ID          string `yaml:"id"`
	Syntax      string `yaml:"syntax"`
	Description string `yaml:"description"`
	Default     string `yaml:"default,omitempty"`
	More        string `yaml:"more,omitempty"`
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type TemplateData struct {
	Subcommand
	Date    string
	Version string
}

type Output struct {
	Template string
	Folder   string
	Prefix   string
	Suffix   string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen <docs-dir>")
		os.Exit(2)
	}
	if err := run(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, "docsgen:", err)
		os.Exit(1)
	}
}

func run(docs string) error {
	data, err := os.ReadFile(filepath.Join(docs, "templates", "findq.yaml"))
	if err != nil {
		return err
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return err
	}

	outputs := []Output{
		{Template: "findq.md.tmpl", Folder: filepath.Join(docs, "commands"), Suffix: ".md"},
		{Template: "findq.man.tmpl", Folder: filepath.Join(docs, "man", "share", "man1"), Prefix: "findq-", Suffix: ".1"},
		{Template: "findq.tldr.tmpl", Folder: filepath.Join(docs, "tldr"), Prefix: "findq-", Suffix: ".md"},
	}

	version := getVersion()
	date := time.Now().Format("January 2, 2006")

	for _, sub := range config.Subcommands {
		// Common flags apply to every subcommand; sort the merged list so
		// pages stay stable across runs.
		merged := append([]Flag{}, config.Common.Flags...)
		merged = append(merged, sub.Flags...)
		sort.Slice(merged, func(i, j int) bool {
			return merged[i].ID < merged[j].ID
		})
		sub.Flags = merged

		metadata := TemplateData{
			Subcommand: sub,
			Date:       date,
			Version:    version,
		}

		for _, out := range outputs {
			if err := render(docs, out, sub.ID, metadata); err != nil {
				return err
			}
		}
	}
	return nil
}

func render(docs string, out Output, id string, metadata TemplateData) error {
	if err := os.MkdirAll(out.Folder, 0o755); err != nil {
		return err
	}

	target := filepath.Join(out.Folder, out.Prefix+id+out.Suffix)
	fmt.Println("Generating", target)

	tmpl, err := template.ParseFiles(filepath.Join(docs, "templates", out.Template))
	if err != nil {
		return err
	}

	file, err := os.Create(target)
	if err != nil {
		return err
	}
	defer file.Close()

	return tmpl.Execute(file, metadata)
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
