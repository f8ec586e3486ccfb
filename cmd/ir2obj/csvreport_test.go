// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, fn string) []string {
	t.Helper()
	data, err := os.ReadFile(fn)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestCSVReportSave(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "log.csv")

	csvReport{input: "a.ll", output: "a.o", triple: "x86_64-pc-linux-gnu", size: 7}.save(fn)
	csvReport{input: "b.ll", output: "b.o", err: verror(targetError, errors.New("no target"))}.save(fn)

	lines := readCSV(t, fn)
	require.Len(t, lines, 3)
	assert.Equal(t, csvHeader, lines[0])
	assert.Contains(t, lines[1], "a.ll, a.o, unknown, , x86_64-pc-linux-gnu, 7,")
	assert.True(t, strings.HasSuffix(lines[2], "targetError, -3"), lines[2])
}

func TestCSVReportDisabled(t *testing.T) {
	dir := t.TempDir()
	csvReport{input: "a.ll"}.save("")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCSVReportFromRun(t *testing.T) {
	dir := t.TempDir()
	in := copyFile(t, dir, "add_x86_64.ll")
	bad := copyFile(t, dir, "unknown_triple.ll")
	csv := filepath.Join(dir, "runs.csv")

	code, _ := run(t, "--backend=mock", "--csv-log="+csv, in, filepath.Join(dir, "add.o"))
	require.Equal(t, 1, code)
	code, _ = run(t, "--backend=mock", "--csv-log="+csv, bad, filepath.Join(dir, "bad.o"))
	require.Equal(t, -3, code)

	lines := readCSV(t, csv)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], ", mock, v0.0.0, x86_64-pc-linux-gnu, 7,")
	assert.True(t, strings.HasSuffix(lines[1], "noError, 1"), lines[1])
	assert.Contains(t, lines[2], "foo64-unknown-none")
	assert.True(t, strings.HasSuffix(lines[2], "targetError, -3"), lines[2])
}
