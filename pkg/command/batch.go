// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package command

import (
	"context"
	"io"
	"strings"
)

// SplitBatch splits a startup command string on ';' and ','
func SplitBatch(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == ','
	})
}

// RunBatch executes the commands of a startup command string in order,
// writing replies to w. It stops at the first QUIT or EXIT and returns
// that action.
func RunBatch(ctx context.Context, exec Executor, commands string, w io.Writer) (Action, error) {
	for _, line := range SplitBatch(commands) {
		if err := ctx.Err(); err != nil {
			return ActionContinue, err
		}

		reply, action := exec.Execute(ctx, line)
		if reply != "" {
			if _, err := io.WriteString(w, reply); err != nil {
				return ActionContinue, err
			}
		}
		if action != ActionContinue {
			return action, nil
		}
	}
	return ActionContinue, nil
}
