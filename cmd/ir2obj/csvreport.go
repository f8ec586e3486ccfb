// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"ir2obj/backend"
	"ir2obj/logger"
)

const csvFileMode = 0600

type csvReport struct {
	input    string
	output   string
	backend  backend.ID
	version  string
	triple   string
	size     int64
	duration time.Duration
	err      error
}

const (
	dateTime  = "2006-01-02 15:04:05"
	csvHeader = "# date, input, output, backend, version, triple, size, duration, error_type, exit_code"
)

func (csv csvReport) save(filename string) {
	if filename == "" {
		return
	}
	withHeader := false
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		withHeader = true
	}

	fp, err := os.OpenFile(filename,
		os.O_APPEND|os.O_WRONLY|os.O_CREATE, csvFileMode)
	if err != nil {
		logger.Warnf("could not open file: %v", filename)
		return
	}
	defer func() {
		if err := fp.Close(); err != nil {
			logger.Warnf("error closing file: %v", err)
		}
	}()

	if withHeader {
		fmt.Fprintln(fp, csvHeader)
	}

	code := getErrorCode(csv.err)
	if csv.err == nil {
		code = exitStatus
	}
	fmt.Fprintf(fp, "%s, %s, %s, %v, %s, %s, %d, %v, %s, %d\n",
		time.Now().Format(dateTime),
		csv.input,
		csv.output,
		csv.backend,
		csv.version,
		csv.triple,
		csv.size,
		csv.duration,
		getErrorType(csv.err),
		code)
}
