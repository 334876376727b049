// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors
//
// Lightmanager - Linux Lightmanager daemon
//
// Translates text commands from TCP clients or the command line into
// frames for the jbmedia Light-Manager USB controller.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lightmanager-go/lightmanager/cmd"
)

func main() {
	err := cmd.Execute()
	if err == nil {
		return
	}

	code := 1
	var exitErr *cmd.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		err = exitErr.Err
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(code)
}
