// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 The Lightmanager Go Authors

package cmd

import (
	"fmt"
	"io"

	"github.com/lightmanager-go/lightmanager/pkg/trace"
	"github.com/spf13/cobra"
)

var traceErrorsOnly bool

var traceCmd = &cobra.Command{
	Use:   "trace FILE",
	Short: "Display a frame trace in human-readable format",
	Long: `Decode and display a frame trace recorded with --trace.

Each line shows one transfer attempt with timestamp, direction, attempt number,
the raw frame and the decoded command. Failed attempts show the link error.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrace,
}

func init() {
	traceCmd.Flags().BoolVar(&traceErrorsOnly, "errors", false, "Show failed attempts only")
	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	r, err := trace.OpenReader(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	out := cmd.OutOrStdout()
	var total, failed int
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("record %d: %w", total+1, err)
		}

		total++
		if rec.Error != "" {
			failed++
		} else if traceErrorsOnly {
			continue
		}
		fmt.Fprintln(out, trace.Format(rec))
	}

	fmt.Fprintf(out, "\n%d transfers, %d failed\n", total, failed)
	return nil
}
