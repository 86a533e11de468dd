package cmd

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

const frontMatter = `---
title: "%s"
description: %q
---
`

var cmdDocPath string

func docgenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "docgen",
		Short:        "Generate the markdown reference of the visual commands.",
		Hidden:       true,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(*cobra.Command, []string) error {
			return generateDocs(rootCmd, cmdDocPath)
		},
	}
	cmd.Flags().StringVar(&cmdDocPath, "path", "./docs/cmd",
		"directory receiving one markdown page per command")

	return cmd
}

// generateDocs writes one page per command of root into dir. Each page starts with a front
// matter carrying the command path and its short description.
func generateDocs(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	root.DisableAutoGenTag = true

	return doc.GenMarkdownTreeCustom(root, dir, pagePrepender(commandsByPage(root)), pageLink)
}

// commandsByPage indexes commands by the base name of their page, e.g. "visual_place".
func commandsByPage(root *cobra.Command) map[string]*cobra.Command {
	pages := map[string]*cobra.Command{}

	var index func(cmd *cobra.Command)
	index = func(cmd *cobra.Command) {
		pages[strings.ReplaceAll(cmd.CommandPath(), " ", "_")] = cmd
		for _, sub := range cmd.Commands() {
			index(sub)
		}
	}
	index(root)

	return pages
}

func pagePrepender(pages map[string]*cobra.Command) func(string) string {
	return func(filename string) string {
		name := filepath.Base(filename)
		base := strings.TrimSuffix(name, path.Ext(name))

		title, description := strings.ReplaceAll(base, "_", " "), ""
		if cmd, ok := pages[base]; ok {
			title, description = cmd.CommandPath(), cmd.Short
		}

		return fmt.Sprintf(frontMatter, title, description)
	}
}

func pageLink(name string) string {
	base := strings.TrimSuffix(name, path.Ext(name))
	return "../" + strings.ToLower(base) + "/"
}
