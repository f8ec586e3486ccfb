// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"ir2obj/backend"
	"ir2obj/irfile"
	"ir2obj/logger"
	"ir2obj/tools"
)

// settings are the resolved options of one emission run.
type settings struct {
	backend  backend.ID
	opts     backend.Options
	zeroExit bool
	csvLog   string
	timeout  time.Duration
}

// emitResult holds what is known about a run, even a failed one.
type emitResult struct {
	triple  string
	version string
	size    int64
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

func emitFailed(typ errorType, err error) *vError {
	logger.Printf("Object emission failed! Error: %v\n", err)
	return vreported(typ, err)
}

// Emit compiles the IR module in input to an object file named output.
// The output file only exists if every step succeeds.
func Emit(ctx context.Context, input, output string, s settings) (res emitResult, err error) {
	if s.timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	tool, err := backend.New(s.backend)
	if err != nil {
		return res, verror(internalError, fmt.Errorf("backend '%v': %w", s.backend, err))
	}
	defer tool.Dispose()

	mod, err := tool.ParseIR(ctx, input)
	if err != nil {
		logger.Diagnostic(diagLoc(input, err), err)
		return res, vreported(parseError, err)
	}
	defer mod.Dispose()

	res.triple = mod.Triple()
	logger.Printf("Triple:%s\n", res.triple)

	if err := tool.Initialize(ctx); err != nil {
		return res, verror(internalError, fmt.Errorf("could not initialize backend '%v': %w", s.backend, err))
	}
	res.version = tool.GetVersion()
	logger.Debugf("Backend %v %s", s.backend, res.version)

	layout := mod.DataLayout()
	if ps, err := irfile.PointerSize(layout); err != nil {
		logger.Warning(input, err.Error())
	} else {
		logger.Infof("Data layout '%s' (pointer size %d bytes)", layout, ps)
	}

	target, err := tool.LookupTarget(res.triple)
	if err != nil {
		return res, emitFailed(targetError, err)
	}
	logger.Infof("Target '%s'", target.Name())

	machine, err := target.CreateMachine(res.triple, s.opts)
	if err != nil {
		return res, emitFailed(machineError, fmt.Errorf("failed to create target machine: %w", err))
	}
	defer machine.Dispose()

	out, err := tools.CreateOutput(output)
	if err != nil {
		return res, emitFailed(outputError, fmt.Errorf("failed to create output file: %w", err))
	}
	defer out.Discard()

	cw := &countingWriter{w: out}
	if err := machine.EmitObject(ctx, mod, cw); err != nil {
		return res, emitFailed(emitError, fmt.Errorf("failed to emit object: %w", err))
	}
	if err := out.Commit(); err != nil {
		return res, emitFailed(outputError, fmt.Errorf("failed to write output file: %w", err))
	}
	res.size = cw.n
	logger.Infof("Wrote '%s' (%d bytes)", output, res.size)
	return res, nil
}
