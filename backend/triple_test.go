// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTriple(t *testing.T) {
	tests := []struct {
		in  string
		out Triple
		err bool
	}{
		{in: "x86_64-pc-linux-gnu", out: Triple{"x86_64", "pc", "linux", "gnu"}},
		{in: "aarch64-apple-darwin22.1.0", out: Triple{"aarch64", "apple", "darwin22.1.0", ""}},
		{in: "wasm32-unknown", out: Triple{"wasm32", "unknown", "", ""}},
		{in: "armv7-unknown-linux-gnueabi-extra", out: Triple{"armv7", "unknown", "linux", "gnueabi-extra"}},
		{in: "", err: true},
		{in: "x86_64", err: true},
		{in: "#!@-pc-linux", err: true},
		{in: "-pc-linux", err: true},
	}
	for _, tc := range tests {
		tr, err := ParseTriple(tc.in)
		assert.Equal(t, tc.err, err != nil, tc.in)
		assert.Equal(t, tc.out, tr, tc.in)
		if !tc.err {
			assert.Equal(t, tc.in, tr.String())
		}
	}
}

func TestTargetName(t *testing.T) {
	tests := map[string]string{
		"x86_64-pc-linux-gnu":         "x86-64",
		"i686-pc-windows-msvc":        "x86",
		"i386-unknown-linux":          "x86",
		"arm64-apple-macosx":          "aarch64",
		"aarch64-unknown-linux":       "aarch64",
		"armv7a-none-eabi":            "arm",
		"thumbv7em-none-eabihf":       "thumb",
		"riscv64-unknown-elf":         "riscv64",
		"powerpc64le-unknown-linux":   "ppc64le",
		"s390x-ibm-linux":             "systemz",
		"wasm32-unknown-unknown":      "wasm32",
		"loongarch64-unknown-linux":   "loongarch64",
		"mips64el-unknown-linux-gnu":  "mips64el",
		"sparc64-unknown-linux":       "sparcv9",
		"nvptx64-nvidia-cuda":         "nvptx64",
		"armebv7-unknown-linux-gnu":   "armeb",
		"thumbebv7-unknown-none-eabi": "thumbeb",
	}
	for in, name := range tests {
		tr, err := ParseTriple(in)
		assert.NoError(t, err, in)
		assert.Equal(t, name, tr.TargetName(), in)
	}
}

func TestParseID(t *testing.T) {
	for _, id := range []ID{LLVMID, LLCID, MockID} {
		assert.Equal(t, id, ParseID(id.String()))
	}
	assert.Equal(t, UnknownID, ParseID("gcc"))
	assert.Equal(t, "unknown", UnknownID.String())

	_, err := New(UnknownID)
	assert.Error(t, err)
}
