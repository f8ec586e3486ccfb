// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package backend

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ir2obj/core"
)

const llcVersionOutput = `LLVM (http://llvm.org/):
  LLVM version 17.0.6
  Optimized build.
  Default target: x86_64-pc-linux-gnu
  Host CPU: znver3

  Registered Targets:
    aarch64    - AArch64 (little endian)
    arm        - ARM
    riscv64    - 64-bit RISC-V
    x86        - 32-bit X86: Pentium-Pro and above
    x86-64     - 64-bit X86: EM64T and AMD64
`

const llcModuleSrc = `target triple = "x86_64-pc-linux-gnu"

define i32 @main() {
entry:
  ret i32 0
}
`

// fakeTool writes an executable shell script and points envVar at it.
func fakeTool(t *testing.T, envVar, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	fn := filepath.Join(t.TempDir(), "tool.sh")
	require.NoError(t, os.WriteFile(fn, []byte("#!/bin/sh\n"+script), 0700))
	t.Setenv(envVar, fn)
	t.Setenv("IR2OBJ_DOCKER", "false")
}

func initLLC(t *testing.T) *LLC {
	t.Helper()
	b := NewLLC()
	require.NoError(t, b.parseVersion(llcVersionOutput))
	return b
}

func TestLLCParseVersion(t *testing.T) {
	b := initLLC(t)
	assert.Equal(t, "v17.0.6", b.GetVersion())
	require.Len(t, b.Targets(), 5)
	assert.Equal(t, TargetInfo{Name: "x86-64", Description: "64-bit X86: EM64T and AMD64"}, b.Targets()[4])

	assert.Error(t, NewLLC().parseVersion("clang version 17"))
}

func TestLLCInitialize(t *testing.T) {
	fakeTool(t, "LLC_CMD", "cat <<'EOF'\n"+llcVersionOutput+"EOF\n")
	b := NewLLC()
	require.NoError(t, b.Initialize(context.Background()))
	assert.Equal(t, "v17.0.6", b.GetVersion())
}

func TestLLCLookupTarget(t *testing.T) {
	b := initLLC(t)
	tg, err := b.LookupTarget("x86_64-unknown-linux-gnu")
	require.NoError(t, err)
	assert.Equal(t, "x86-64", tg.Name())

	tg, err = b.LookupTarget("i686-pc-windows-msvc")
	require.NoError(t, err)
	assert.Equal(t, "x86", tg.Name())

	for _, triple := range []string{"", "garbage", "sparc-sun-solaris", "%%-pc-linux"} {
		_, err := b.LookupTarget(triple)
		assert.Error(t, err, triple)
	}
}

func TestLLCCreateMachine(t *testing.T) {
	fakeTool(t, "LLC_CMD", "exit 0\n")
	b := initLLC(t)
	tg, err := b.LookupTarget("x86_64-pc-linux-gnu")
	require.NoError(t, err)

	opts := Options{
		CPU:       "znver3",
		Features:  "+avx2",
		OptLevel:  core.OptNone,
		Reloc:     core.RelocPIC,
		CodeModel: core.CodeModelLarge,
	}
	m, err := tg.CreateMachine("x86_64-pc-linux-gnu", opts)
	require.NoError(t, err)
	defer m.Dispose()
	assert.Equal(t, []string{
		"-filetype=obj",
		"-mtriple=x86_64-pc-linux-gnu",
		"-O=0",
		"-mcpu=znver3",
		"-mattr=+avx2",
		"-relocation-model=pic",
		"-code-model=large",
	}, m.(*llcMachine).args)

	m, err = tg.CreateMachine("x86_64-pc-linux-gnu", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"-filetype=obj", "-mtriple=x86_64-pc-linux-gnu", "-O=2"}, m.(*llcMachine).args)

	opts.OptLevel = 7
	_, err = tg.CreateMachine("x86_64-pc-linux-gnu", opts)
	assert.Error(t, err)
}

func TestLLCMachineMissingTool(t *testing.T) {
	t.Setenv("LLC_CMD", "ir2obj-no-such-llc")
	t.Setenv("IR2OBJ_DOCKER", "false")
	b := initLLC(t)
	tg, err := b.LookupTarget("x86_64-pc-linux-gnu")
	require.NoError(t, err)
	_, err = tg.CreateMachine("x86_64-pc-linux-gnu", DefaultOptions())
	assert.Error(t, err)
}

func TestLLCEmitObject(t *testing.T) {
	fakeTool(t, "LLC_CMD", "printf 'OBJ:%s' \"$2\"\n")
	fakeTool(t, "LLVM_AS_CMD", "exit 0\n")
	in := filepath.Join(t.TempDir(), "main.ll")
	require.NoError(t, os.WriteFile(in, []byte(llcModuleSrc), 0600))

	b := initLLC(t)
	ctx := context.Background()
	mod, err := b.ParseIR(ctx, in)
	require.NoError(t, err)
	defer mod.Dispose()
	assert.Equal(t, "x86_64-pc-linux-gnu", mod.Triple())

	tg, err := b.LookupTarget(mod.Triple())
	require.NoError(t, err)
	m, err := tg.CreateMachine(mod.Triple(), DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.EmitObject(ctx, mod, &buf))
	assert.Equal(t, "OBJ:-mtriple=x86_64-pc-linux-gnu", buf.String())
}

func TestLLCEmitFailure(t *testing.T) {
	fakeTool(t, "LLC_CMD", "echo 'llc: error: bad' >&2\nexit 1\n")
	fakeTool(t, "LLVM_AS_CMD", "exit 0\n")
	in := filepath.Join(t.TempDir(), "main.ll")
	require.NoError(t, os.WriteFile(in, []byte(llcModuleSrc), 0600))

	b := initLLC(t)
	ctx := context.Background()
	mod, err := b.ParseIR(ctx, in)
	require.NoError(t, err)
	tg, err := b.LookupTarget(mod.Triple())
	require.NoError(t, err)
	m, err := tg.CreateMachine(mod.Triple(), DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	err = m.EmitObject(ctx, mod, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llc: error: bad")
	assert.Zero(t, buf.Len())
}

func TestLLCParseBitcode(t *testing.T) {
	fakeTool(t, "LLVM_DIS_CMD", "cat <<'EOF'\n"+llcModuleSrc+"EOF\n")
	in := filepath.Join(t.TempDir(), "main.bc")
	require.NoError(t, os.WriteFile(in, []byte{'B', 'C', 0xC0, 0xDE, 0x35, 0x14}, 0600))

	mod, err := NewLLC().ParseIR(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "x86_64-pc-linux-gnu", mod.Triple())
}

func TestLLCParseInvalid(t *testing.T) {
	fakeTool(t, "LLVM_AS_CMD", "echo \"llvm-as: $3:1:21: error: expected type\" >&2\nexit 1\n")
	in := filepath.Join(t.TempDir(), "bad.ll")
	require.NoError(t, os.WriteFile(in, []byte("define i32 @main( {"), 0600))
	_, err := NewLLC().ParseIR(context.Background(), in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error: expected type")
}

const opaquePtrSrc = `source_filename = "id.c"
target datalayout = "e-m:e-i8:8:32-i16:16:32-i64:64-i128:128-n32:64-S128"
target triple = "aarch64-unknown-linux-gnu"

@g = global ptr null

define ptr @id(ptr %p) {
entry:
  ret ptr %p
}
`

func TestLLCParseOpaquePointers(t *testing.T) {
	fakeTool(t, "LLVM_AS_CMD", "exit 0\n")
	in := filepath.Join(t.TempDir(), "id.ll")
	require.NoError(t, os.WriteFile(in, []byte(opaquePtrSrc), 0600))

	mod, err := NewLLC().ParseIR(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "aarch64-unknown-linux-gnu", mod.Triple())
	assert.Equal(t, "e-m:e-i8:8:32-i16:16:32-i64:64-i128:128-n32:64-S128", mod.DataLayout())
}

func TestLoadInfoHeaderFallback(t *testing.T) {
	in := filepath.Join(t.TempDir(), "id.ll")
	// llir rejects this module; llvm-as decides whether it is valid
	require.NoError(t, os.WriteFile(in, []byte(opaquePtrSrc+"\n@h = global i32 ]"), 0600))

	fakeTool(t, "LLVM_AS_CMD", "exit 0\n")
	info, err := LoadInfo(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, info.Partial)
	assert.Equal(t, "aarch64-unknown-linux-gnu", info.Triple)
	assert.Equal(t, "id.c", info.SourceFilename)

	fakeTool(t, "LLVM_AS_CMD", "echo 'llvm-as: error: expected value' >&2\nexit 1\n")
	_, err = LoadInfo(context.Background(), in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected value")

	t.Setenv("LLVM_AS_CMD", "ir2obj-no-such-llvm-as")
	_, err = LoadInfo(context.Background(), in)
	assert.Error(t, err)
}

func TestLoadInfo(t *testing.T) {
	t.Setenv("LLVM_AS_CMD", "ir2obj-no-such-llvm-as")
	in := filepath.Join(t.TempDir(), "main.ll")
	require.NoError(t, os.WriteFile(in, []byte(llcModuleSrc), 0600))

	info, err := LoadInfo(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, info.Partial)
	assert.Equal(t, []string{"main"}, info.Defined)
}
