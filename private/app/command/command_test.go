// Copyright 2020 Anapaya Systems
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

package command_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scionproto/scion-trc/private/app/command"
)

func newTree() *cobra.Command {
	root := &cobra.Command{Use: "tool", Short: "A tool"}
	sub := &cobra.Command{
		Use:   "sub",
		Short: "A subcommand",
		Run:   func(*cobra.Command, []string) {},
	}
	root.AddCommand(sub, command.NewGendocs(root), command.NewCompletion(root))
	return root
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "tool verify", command.Join(command.StringPather("tool"), "verify"))
	assert.Equal(t, "tool", command.Join(command.StringPather("tool")))
	assert.Equal(t, "tool a b", command.Join(command.StringPather("tool"), "a", "b"))
}

func TestRoot(t *testing.T) {
	root := newTree()
	sub, _, err := root.Find([]string{"sub"})
	require.NoError(t, err)
	assert.Equal(t, root, command.Root(sub))
	assert.Equal(t, root, command.Root(root))
}

func TestGendocs(t *testing.T) {
	root := newTree()
	dir := filepath.Join(t.TempDir(), "docs")
	root.SetArgs([]string{"gendocs", dir})
	require.NoError(t, root.Execute())

	raw, err := os.ReadFile(filepath.Join(dir, "tool.md"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "(app-tool)=")
	assert.Contains(t, string(raw), "tool_sub")

	raw, err = os.ReadFile(filepath.Join(dir, "tool_sub.md"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "A subcommand")
	_, err = os.Stat(filepath.Join(dir, "tool_gendocs.md"))
	assert.True(t, os.IsNotExist(err), "hidden commands are not documented")
}

func TestCompletion(t *testing.T) {
	testCases := map[string]struct {
		shell     string
		assertErr assert.ErrorAssertionFunc
	}{
		"bash":    {shell: "bash", assertErr: assert.NoError},
		"zsh":     {shell: "zsh", assertErr: assert.NoError},
		"fish":    {shell: "fish", assertErr: assert.NoError},
		"unknown": {shell: "tcsh", assertErr: assert.Error},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			root := newTree()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetErr(&bytes.Buffer{})
			root.SetArgs([]string{"completion", "--shell", tc.shell})
			err := root.Execute()
			tc.assertErr(t, err)
			if err == nil {
				assert.NotEmpty(t, out.String())
			}
		})
	}
}
