// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package tools

import (
	"fmt"
	"os"
	"path/filepath"

	"ir2obj/logger"
)

const fileMode = 0644

// Output is a destination file that only appears at its final path once
// Commit succeeds. Until then data goes to a temporary file in the same
// directory, so the final rename never crosses file systems.
type Output struct {
	*os.File
	name string
	done bool
}

// CreateOutput opens a new output for the file fn.
func CreateOutput(fn string) (*Output, error) {
	dir, base := filepath.Split(fn)
	if base == "" {
		return nil, fmt.Errorf("invalid output file name '%s'", fn)
	}
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil {
		return nil, err
	}
	logger.Debugf("Output '%s' staged in '%s'", fn, tmp.Name())
	return &Output{File: tmp, name: fn}, nil
}

// Name returns the final file name.
func (o *Output) Name() string {
	return o.name
}

// Commit flushes the data and moves the file to its final name.
func (o *Output) Commit() error {
	if o.done {
		return fmt.Errorf("output '%s' already closed", o.name)
	}
	o.done = true
	tmp := o.File.Name()
	if err := o.File.Sync(); err != nil {
		o.drop(tmp)
		return err
	}
	if err := o.File.Chmod(fileMode); err != nil {
		o.drop(tmp)
		return err
	}
	if err := o.File.Close(); err != nil {
		_ = Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, o.name); err != nil {
		_ = Remove(tmp)
		return err
	}
	return nil
}

// Discard removes the staged data. It does nothing after Commit, so it can
// be deferred right after CreateOutput.
func (o *Output) Discard() {
	if o.done {
		return
	}
	o.done = true
	o.drop(o.File.Name())
}

func (o *Output) drop(tmp string) {
	if err := o.File.Close(); err != nil {
		logger.Debugf("error closing file: %v", err)
	}
	if err := Remove(tmp); err != nil {
		logger.Debug(err)
	}
}
