// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package irfile

import (
	"strings"

	"github.com/fatih/color"

	"ir2obj/logger"
)

var (
	keyColor     = color.New(color.FgCyan).SprintFunc()
	missingColor = color.New(color.FgYellow).SprintFunc()
)

func orMissing(s string) string {
	if s == "" {
		return missingColor("<none>")
	}
	return s
}

// PrintSummary displays at standard output a summary of the module.
func (info *Info) PrintSummary() {
	logger.Println("== SUMMARY ===================================")
	logger.Println()
	logger.Println(keyColor("File"))
	logger.Printf("  %s\n", info.Name)
	if info.SourceFilename != "" {
		logger.Printf("  (from %s)\n", info.SourceFilename)
	}
	logger.Println()
	logger.Println(keyColor("Target"))
	logger.Printf("  Triple       : %s\n", orMissing(info.Triple))
	logger.Printf("  Data layout  : %s\n", orMissing(info.DataLayout))
	logger.Printf("  Pointer size : %d bytes\n", info.PointerSize)
	logger.Println()
	logger.Println(keyColor("Contents"))
	if info.Partial {
		logger.Printf("  %s\n", missingColor("<header only>"))
		logger.Println()
		return
	}
	logger.Printf("  Functions    : %d\n", len(info.Defined))
	logger.Printf("  Declarations : %d\n", len(info.Declared))
	logger.Printf("  Globals      : %d\n", info.Globals)
	if len(info.Defined) > 0 {
		logger.Println()
		logger.Println(keyColor("Defined functions"))
		logger.Printf("  %s\n", strings.Join(info.Defined, ", "))
	}
	logger.Println()
}
