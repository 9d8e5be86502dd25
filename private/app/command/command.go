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

// Package command contains helpers for cobra commands.
package command

import (
	"strings"

	"github.com/spf13/cobra"
)

// Pather returns the path to a command.
type Pather interface {
	CommandPath() string
}

// StringPather is a Pather that returns the string as path.
type StringPather string

// CommandPath returns the string.
func (s StringPather) CommandPath() string {
	return string(s)
}

// Join joins the command path of the parent with the names.
func Join(parent Pather, names ...string) string {
	return strings.Join(append([]string{parent.CommandPath()}, names...), " ")
}

// Root returns the root command of cmd.
func Root(cmd *cobra.Command) *cobra.Command {
	for cmd.HasParent() {
		cmd = cmd.Parent()
	}
	return cmd
}
