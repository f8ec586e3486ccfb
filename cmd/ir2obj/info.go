// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"

	"github.com/spf13/cobra"

	"ir2obj/backend"
	"ir2obj/logger"
)

func init() {
	var infoCmd = cobra.Command{
		Use:   "info <input.ll|input.bc>...",
		Short: "Prints information about the input module(s).",
		Args:  IsArgsn,

		DisableFlagsInUseLine: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			for _, fn := range args {
				if err := Info(cmd.Context(), fn); err != nil {
					return err
				}
			}
			return nil
		},
	}

	rootCmd.AddCommand(&infoCmd)
}

// Info parses the module in fn and prints its summary.
func Info(ctx context.Context, fn string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !isIRName(fn) {
		logger.Warning(fn, "file name does not end with .ll or .bc")
	}
	logger.Debugf("Info %s", fn)

	info, err := backend.LoadInfo(ctx, fn)
	if err != nil {
		logger.Diagnostic(diagLoc(fn, err), err)
		return vreported(parseError, err)
	}
	info.PrintSummary()
	return nil
}
