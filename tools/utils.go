// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"ir2obj/logger"
)

// RunCmd runs a command line with arguments and environment variable assignments
func RunCmd(cmdl string, args, env []string) (string, error) {
	return RunCmdContext(context.Background(), cmdl, args, env)
}

// RunCmdContext runs a command line with arguments and environment variable
// assignments and a context. It returns the combined output.
func RunCmdContext(ctx context.Context, cmdl string, args, env []string) (string, error) {
	cmd, err := command(ctx, cmdl, args, env)
	if err != nil {
		return "", err
	}
	out, err := cmd.CombinedOutput()
	return string(out), cmdError(ctx, string(out), err)
}

// RunCmdOutput runs a command line and returns its standard output
// untouched. Standard error is only used to build the error message.
func RunCmdOutput(ctx context.Context, cmdl string, args, env []string) ([]byte, error) {
	cmd, err := command(ctx, cmdl, args, env)
	if err != nil {
		return nil, err
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err = cmd.Run()
	return stdout.Bytes(), cmdError(ctx, stderr.String(), err)
}

func command(ctx context.Context, cmdl string, args, env []string) (*exec.Cmd, error) {
	if UseDocker() {
		dargs, err := dockerExecArgs(ctx, append([]string{cmdl}, args...))
		if err != nil {
			return nil, err
		}
		cmdl, args = dockerCmd, dargs
	}
	logger.Debug(append(append(env, cmdl), args...))
	cmd := exec.CommandContext(ctx, cmdl, args...)
	cmd.Env = append(os.Environ(), env...)
	return cmd, nil
}

func cmdError(ctx context.Context, sout string, err error) error {
	if err == nil {
		return nil
	}
	if cerr := ctx.Err(); cerr != nil {
		return fmt.Errorf("command interrupted: %w", cerr)
	}
	var eerr *exec.Error
	if errors.As(err, &eerr) {
		return err
	}
	var xerr *exec.ExitError
	if errors.As(err, &xerr) {
		// remove newline of output
		sout = strings.TrimRight(sout, "\n")
		switch {
		case sout != "" && xerr.ExitCode() != 1:
			return fmt.Errorf("%s: %w", sout, err)
		case sout != "":
			return fmt.Errorf("%v", sout)
		default:
		}
		return err
	}
	return fmt.Errorf("unknown error: %v", err)
}

// MockFileExistsErr is a mock error returned by FileExists in tests
var MockFileExistsErr error

// FileExists returns nil if a file exists otherwise an error
func FileExists(fn string) error {
	if MockFileExistsErr != nil {
		return MockFileExistsErr
	}
	if _, err := os.Stat(fn); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", fn)
	}
	return nil
}

const enableRemove = true

// Remove deletes a file. It can be disabled with the enableRemove flag in the source.
func Remove(fn string) error {
	logger.Debugf("Remove file '%s'", fn)
	if enableRemove {
		return os.Remove(fn)
	}
	return nil
}
