// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package tools

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"ir2obj/logger"
)

var (
	dockerCmd   = "docker"
	dockerImage = "silkeh/clang"
	dockerTag   = "17"
	useDocker   = "false"
)

func init() {
	RegEnv("IR2OBJ_DOCKER", useDocker, "Use Docker container when calling llc and llvm-dis")
	RegEnv("IR2OBJ_DOCKER_IMAGE", dockerImage, "Docker image with an LLVM toolchain")
	RegEnv("IR2OBJ_DOCKER_TAG", dockerTag, "Docker image tag")
	RegEnv("IR2OBJ_DOCKER_VOLUMES", "", "Comma-separated list of additional volumes to mount")
}

// UseDocker reports whether external LLVM tools run inside the container.
func UseDocker() bool {
	return GetEnv("IR2OBJ_DOCKER") == "true"
}

func imageName() string {
	return fmt.Sprintf("%s:%s", GetEnv("IR2OBJ_DOCKER_IMAGE"), GetEnv("IR2OBJ_DOCKER_TAG"))
}

// DockerPull pulls the configured toolchain image.
func DockerPull(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, dockerCmd, "pull", imageName()).CombinedOutput()
	logger.Println(string(out))
	return err
}

// dockerBaseArgs builds the "docker run" arguments shared by interactive and
// batch runs: user mapping, current directory and extra volumes.
func dockerBaseArgs(ctx context.Context, volumes []string) ([]string, error) {
	var (
		cmd = []string{"run", "--rm"}
	)

	// are we running outside docker?
	if FileExists("/.dockerenv") == nil {
		return nil, fmt.Errorf("running inside docker. Set IR2OBJ_DOCKER=false")
	}

	// get user/group flags
	if u, err := dockerUserGroup(ctx); err != nil {
		return nil, err
	} else if len(u) > 0 {
		cmd = append(cmd, u...)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cmd = append(cmd, "-v", fmt.Sprintf("%s:%s", cwd, cwd))

	if v := GetEnv("IR2OBJ_DOCKER_VOLUMES"); v != "" {
		volumes = append(volumes, strings.Split(v, ",")...)
	}

	seen := map[string]bool{cwd: true}
	for _, v := range volumes {
		abs, err := filepath.Abs(v)
		if err != nil {
			return nil, fmt.Errorf("could not find volume path '%s': %v", v, err)
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		cmd = append(cmd, "-v", fmt.Sprintf("%s:%s", abs, abs))
	}

	cmd = append(cmd, "--hostname", "ir2obj", "-w", cwd)
	return cmd, nil
}

// dockerExecArgs returns the docker arguments to run args inside the
// container. Directories of arguments naming existing files are mounted so
// absolute input paths keep working.
func dockerExecArgs(ctx context.Context, args []string) ([]string, error) {
	var volumes []string
	for _, a := range args[1:] {
		if filepath.IsAbs(a) && FileExists(a) == nil {
			volumes = append(volumes, filepath.Dir(a))
		}
	}
	cmd, err := dockerBaseArgs(ctx, volumes)
	if err != nil {
		return nil, err
	}
	cmd = append(cmd, imageName())
	return append(cmd, args...), nil
}

// DockerRun runs args in the toolchain container. Without args it starts an
// interactive shell.
func DockerRun(ctx context.Context, args []string, volumes []string) error {
	cmd, err := dockerBaseArgs(ctx, volumes)
	if err != nil {
		return err
	}

	// docker opts
	if len(args) == 0 {
		cmd = append(cmd, "-it")
	}
	cmd = append(cmd, imageName())
	cmd = append(cmd, args...)

	logger.Debugf("%v\n", append([]string{dockerCmd}, cmd...))

	if len(args) != 0 {
		c := exec.CommandContext(ctx, dockerCmd, cmd...)
		if err := startReaders(c); err != nil {
			return err
		}
		if err := c.Start(); err != nil {
			return err
		}
		return c.Wait()
	}
	// if no commands, use pty
	// first set a better prompt
	cmd = append(cmd, "/bin/sh", "-c", "echo \"export PS1='\\h:\\w % '\" > /tmp/bashrc && env PS1='' bash --rcfile /tmp/bashrc")

	// create command and start pty (OS-dependent code)
	return dockerInteractive(exec.CommandContext(ctx, dockerCmd, cmd...))
}

func startReader(r io.Reader, w io.Writer) {
	scanner := bufio.NewScanner(r)
	go func() {
		for scanner.Scan() {
			fmt.Fprintln(w, scanner.Text())
		}
	}()
}

func startReaders(c *exec.Cmd) error {
	inWriter, err := c.StdinPipe()
	if err != nil {
		return err
	}
	startReader(os.Stdin, inWriter)

	outReader, err := c.StdoutPipe()
	if err != nil {
		return err
	}
	startReader(outReader, os.Stdout)
	errReader, err := c.StderrPipe()
	if err != nil {
		return err
	}
	startReader(errReader, os.Stderr)
	return nil
}
