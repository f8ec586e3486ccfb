// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package irfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ir2obj/logger"
)

const opaquePtrModule = `; ModuleID = 'id.c'
source_filename = "dir\5Cid.c"
target datalayout = "e-m:e-p:32:32-i64:64-n32-S128"
target triple = "armv7-unknown-linux-gnueabihf"

@g = global ptr null

define ptr @id(ptr %p) {
entry:
  ret ptr %p
}
`

func TestScanHeader(t *testing.T) {
	fn := writeFile(t, "id.ll", []byte(opaquePtrModule))
	info, err := ScanHeader(fn)
	require.NoError(t, err)

	assert.True(t, info.Partial)
	assert.Equal(t, fn, info.Name)
	assert.Equal(t, `dir\id.c`, info.SourceFilename)
	assert.Equal(t, "armv7-unknown-linux-gnueabihf", info.Triple)
	assert.Equal(t, "e-m:e-p:32:32-i64:64-n32-S128", info.DataLayout)
	assert.Equal(t, 4, info.PointerSize)
	assert.Empty(t, info.Defined)

	_, err = ScanHeader(filepath.Join(t.TempDir(), "missing.ll"))
	assert.Error(t, err)
}

func TestScanHeaderMatchesLoad(t *testing.T) {
	full, err := LoadString("add.ll", testModule)
	require.NoError(t, err)
	hdr, err := ScanHeaderString("add.ll", testModule)
	require.NoError(t, err)

	assert.Equal(t, full.Triple, hdr.Triple)
	assert.Equal(t, full.DataLayout, hdr.DataLayout)
	assert.Equal(t, full.SourceFilename, hdr.SourceFilename)
	assert.Equal(t, full.PointerSize, hdr.PointerSize)
}

func TestScanHeaderInvalid(t *testing.T) {
	for _, src := range []string{
		`target datalayout = "e-p:12:12"`,
		`target triple = "x86\Q"`,
		`target triple = "x86\4"`,
	} {
		_, err := ScanHeaderString("bad.ll", src)
		assert.Error(t, err, src)
	}

	info, err := ScanHeaderString("empty.ll", "")
	require.NoError(t, err)
	assert.Empty(t, info.Triple)
	assert.Equal(t, 8, info.PointerSize)
}

func TestPrintSummaryPartial(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	logger.SetWriter(&buf)
	defer logger.SetWriter(os.Stdout)

	info, err := ScanHeaderString("id.ll", opaquePtrModule)
	require.NoError(t, err)
	info.PrintSummary()

	out := buf.String()
	assert.Contains(t, out, "Triple       : armv7-unknown-linux-gnueabihf")
	assert.Contains(t, out, "<header only>")
	assert.NotContains(t, out, "Functions")
}
