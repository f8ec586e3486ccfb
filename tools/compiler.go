// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tools contains a set of helper functions to call the LLVM command
// line tools, optionally inside a Docker container, as well as wrappers to
// create and remove files.
package tools

import (
	"context"
	"os"
	"strings"

	"ir2obj/logger"
)

func init() {
	RegEnv("LLC_CMD", "llc", "Path to the llc static compiler")
	RegEnv("LLVM_DIS_CMD", "llvm-dis", "Path to the llvm-dis bitcode disassembler")
	RegEnv("LLVM_AS_CMD", "llvm-as", "Path to the llvm-as assembler, used to validate textual IR")
}

// LLC runs llc with the given arguments and returns its standard output.
func LLC(ctx context.Context, args ...string) ([]byte, error) {
	llc, err := FindCmd("LLC_CMD", "llc")
	if err != nil {
		return nil, err
	}
	var (
		cmd     = llc[0]
		cmdArgs = append(llc[1:], args...)
	)
	logger.Infof("%v %v", cmd, strings.Join(cmdArgs, " "))
	return RunCmdOutput(ctx, cmd, cmdArgs, nil)
}

// LLCVersion returns the output of "llc --version", which includes the
// list of registered targets.
func LLCVersion(ctx context.Context) (string, error) {
	llc, err := FindCmd("LLC_CMD", "llc")
	if err != nil {
		return "", err
	}
	args := append(llc[1:], "--version")
	return RunCmdContext(ctx, llc[0], args, nil)
}

// Disassemble converts a bitcode file to textual IR with llvm-dis.
func Disassemble(ctx context.Context, fn string) (string, error) {
	dis, err := FindCmd("LLVM_DIS_CMD", "llvm-dis")
	if err != nil {
		return "", err
	}
	var (
		cmd     = dis[0]
		cmdArgs = append(dis[1:], "-o", "-", fn)
	)
	logger.Infof("%v %v", cmd, strings.Join(cmdArgs, " "))
	out, err := RunCmdOutput(ctx, cmd, cmdArgs, nil)
	return string(out), err
}

// Assemble checks the textual IR in fn with llvm-as and discards the
// bitcode. The returned error carries the llvm-as diagnostic.
func Assemble(ctx context.Context, fn string) error {
	as, err := FindCmd("LLVM_AS_CMD", "llvm-as")
	if err != nil {
		return err
	}
	var (
		cmd     = as[0]
		cmdArgs = append(as[1:], "-o", os.DevNull, fn)
	)
	logger.Infof("%v %v", cmd, strings.Join(cmdArgs, " "))
	_, err = RunCmdOutput(ctx, cmd, cmdArgs, nil)
	return err
}
