// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

// IsArgsn ensures there are 1 or more arguments
func IsArgsn(_ *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("no input file specified")
	}
	return nil
}

var reIsIR = regexp.MustCompile(`\.(ll|bc)$`)

// isIRName reports whether fn has a .ll or .bc extension. The content
// decides how a file is read, so this is only a hint.
func isIRName(fn string) bool {
	return reIsIR.MatchString(fn)
}

// diagLoc returns fn as diagnostic location unless the message of err
// already names it, as LLVM and llvm-as diagnostics do.
func diagLoc(fn string, err error) string {
	if strings.Contains(err.Error(), fn) {
		return ""
	}
	return fn
}
