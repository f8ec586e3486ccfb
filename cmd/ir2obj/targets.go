// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ir2obj/backend"
	"ir2obj/logger"
)

func init() {
	var targetsCmd = cobra.Command{
		Use:   "targets",
		Short: "Lists the targets registered in the backend",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return Targets(cmd.Context(), backend.ParseID(rootFlags.backend))
		},
	}
	rootCmd.AddCommand(&targetsCmd)
}

// Targets prints name and description of every target known to the backend.
func Targets(ctx context.Context, id backend.ID) error {
	if ctx == nil {
		ctx = context.Background()
	}
	tool, err := backend.New(id)
	if err != nil {
		return verror(usageError, err)
	}
	defer tool.Dispose()
	if err := tool.Initialize(ctx); err != nil {
		return verror(internalError, fmt.Errorf("could not initialize backend '%v': %w", id, err))
	}

	ts := tool.Targets()
	width := 0
	for _, t := range ts {
		if len(t.Name) > width {
			width = len(t.Name)
		}
	}
	logger.Printf("Registered targets (%v %s):\n", id, tool.GetVersion())
	for _, t := range ts {
		logger.Printf("  %-*s - %s\n", width, t.Name, t.Description)
	}
	return nil
}
