// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"os/exec"
)

type errorType int

//go:generate go run golang.org/x/tools/cmd/stringer -type=errorType
const (
	noError errorType = iota
	usageError
	parseError
	targetError
	machineError
	outputError
	emitError
	internalError
)

// Exit codes per failing stage. Success is 1 unless --zero-exit is given.
var exitCodes = map[errorType]int{
	noError:       0,
	usageError:    -1,
	parseError:    -2,
	targetError:   -3,
	machineError:  -4,
	outputError:   -5,
	emitError:     -6,
	internalError: -7,
}

const (
	successCode     = 1
	zeroSuccessCode = 0
)

type vError struct {
	typ      errorType
	err      error
	reported bool
}

// verror wraps err with the stage that failed.
func verror(typ errorType, err error) *vError {
	return &vError{
		typ: typ,
		err: err,
	}
}

// vreported is verror for failures whose diagnostic was already printed.
func vreported(typ errorType, err error) *vError {
	return &vError{
		typ:      typ,
		err:      err,
		reported: true,
	}
}

func (e *vError) Error() string {
	return e.err.Error()
}

func (e *vError) Unwrap() error {
	return e.err
}

func (e *vError) Code() int {
	return exitCodes[e.typ]
}

func getErrorType(err error) string {
	if err == nil {
		return noError.String()
	}
	var e *vError
	if errors.As(err, &e) {
		return e.typ.String()
	}
	return usageError.String()
}

func getErrorCode(err error) int {
	if err == nil {
		return 0
	}
	var e *vError
	if errors.As(err, &e) {
		return e.Code()
	}
	var xerr *exec.ExitError
	if errors.As(err, &xerr) {
		return xerr.ExitCode()
	}
	// errors raised by cobra itself are command line errors
	return exitCodes[usageError]
}

func getErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *vError
	if errors.As(err, &e) && e.reported {
		return ""
	}
	return err.Error()
}
