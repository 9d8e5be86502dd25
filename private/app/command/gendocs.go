// Copyright 2023 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package command

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/scionproto/scion-trc/pkg/private/serrors"
)

// cobra renders the command title as a level two heading. The pages are
// included in a toctree, so every heading is moved up one level.
var headingShifts = []struct {
	pattern *regexp.Regexp
	repl    []byte
}{
	{pattern: regexp.MustCompile(`\)=\n\n## `), repl: []byte(")=\n\n# ")},
	{pattern: regexp.MustCompile(`\n### `), repl: []byte("\n## ")},
	{pattern: regexp.MustCompile(`\n#### `), repl: []byte("\n### ")},
	{pattern: regexp.MustCompile(`\n##### `), repl: []byte("\n#### ")},
}

// NewGendocs creates a hidden command that writes the markdown documentation
// of the whole command tree to a directory.
func NewGendocs(pather Pather) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "gendocs <directory>",
		Short:   "Generate documentation",
		Example: fmt.Sprintf("  %[1]s gendocs doc/command", pather.CommandPath()),
		Args:    cobra.ExactArgs(1),
		Hidden:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			root.DisableAutoGenTag = true

			dir := args[0]
			if err := os.MkdirAll(dir, 0755); err != nil {
				return serrors.Wrap("creating directory", err, "directory", dir)
			}
			if err := writeDocs(root, dir); err != nil {
				return serrors.Wrap("generating documentation", err, "directory", dir)
			}
			return nil
		},
	}
	return cmd
}

// writeDocs writes one page per available command, children first.
func writeDocs(cmd *cobra.Command, dir string) error {
	var children []string
	for _, c := range cmd.Commands() {
		if !c.IsAvailableCommand() || c.IsAdditionalHelpTopicCommand() {
			continue
		}
		if err := writeDocs(c, dir); err != nil {
			return err
		}
		children = append(children, docName(c))
	}
	page, err := docPage(cmd, children)
	if err != nil {
		return serrors.Wrap("rendering page", err, "command", cmd.CommandPath())
	}
	return os.WriteFile(filepath.Join(dir, docName(cmd)+".md"), page, 0666)
}

func docPage(cmd *cobra.Command, children []string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\norphan: true\n---\n\n")
	fmt.Fprintf(&buf, "(app-%s)=\n\n", strings.ReplaceAll(cmd.CommandPath(), " ", "-"))
	if err := doc.GenMarkdown(cmd, &buf); err != nil {
		return nil, err
	}
	if len(children) != 0 {
		buf.WriteString("```{toctree}\n---\nhidden: true\n---\n")
		buf.WriteString(strings.Join(children, "\n"))
		buf.WriteString("\n```\n")
	}
	raw := buf.Bytes()
	for _, s := range headingShifts {
		raw = s.pattern.ReplaceAll(raw, s.repl)
	}
	return raw, nil
}

func docName(cmd *cobra.Command) string {
	return strings.ReplaceAll(cmd.CommandPath(), " ", "_")
}
