// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"ir2obj/backend"
	"ir2obj/logger"
)

var (
	name    = "ir2obj"
	version = "latest"
)

var versionCmd = cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		logger.Printf("%s %s\n", name, version)

		id := backend.ParseID(rootFlags.backend)
		tool, err := backend.New(id)
		if err != nil {
			logger.Debugf("backend '%s': %v", rootFlags.backend, err)
			return
		}
		defer tool.Dispose()
		if err := tool.Initialize(cmd.Context()); err != nil {
			logger.Debugf("backend '%v': %v", id, err)
			return
		}
		logger.Printf("backend %v %s\n", id, tool.GetVersion())
	},
}

func register() {
	rootCmd.AddCommand(&versionCmd)
}

func init() {
	versionCmd.SetHelpFunc(func(command *cobra.Command, strings []string) {})
	register()
}
