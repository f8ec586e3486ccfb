// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package irfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"

	"ir2obj/logger"
)

// Info summarizes an LLVM IR module.
type Info struct {
	Name           string // file the module was loaded from
	SourceFilename string
	Triple         string
	DataLayout     string
	PointerSize    int // in bytes, for address space 0
	Defined        []string
	Declared       []string
	Globals        int

	// Partial is set when only the module header could be read; the
	// function and global counts are then unknown.
	Partial bool
}

// Load parses a textual LLVM IR file.
func Load(fn string) (*Info, error) {
	logger.Infof("Parse '%s'", fn)
	mod, err := asm.ParseFile(fn)
	if err != nil {
		return nil, err
	}
	return newInfo(fn, mod)
}

// LoadString parses textual LLVM IR held in memory; fn is only used in
// messages.
func LoadString(fn, src string) (*Info, error) {
	logger.Infof("Parse '%s'", fn)
	mod, err := asm.ParseString(fn, src)
	if err != nil {
		return nil, err
	}
	return newInfo(fn, mod)
}

func newInfo(fn string, mod *ir.Module) (*Info, error) {
	ps, err := PointerSize(mod.DataLayout)
	if err != nil {
		return nil, err
	}
	info := &Info{
		Name:           fn,
		SourceFilename: mod.SourceFilename,
		Triple:         mod.TargetTriple,
		DataLayout:     mod.DataLayout,
		PointerSize:    ps,
		Globals:        len(mod.Globals),
	}
	for _, f := range mod.Funcs {
		if len(f.Blocks) == 0 {
			info.Declared = append(info.Declared, f.Name())
		} else {
			info.Defined = append(info.Defined, f.Name())
		}
	}
	return info, nil
}

var (
	bitcodeMagic        = []byte{'B', 'C', 0xC0, 0xDE}
	bitcodeWrapperMagic = []byte{0xDE, 0xC0, 0x17, 0x0B}
)

// IsBitcodeData reports whether data starts with a raw or wrapped bitcode
// magic number.
func IsBitcodeData(data []byte) bool {
	return bytes.HasPrefix(data, bitcodeMagic) ||
		bytes.HasPrefix(data, bitcodeWrapperMagic)
}

// IsBitcode reports whether the file fn holds LLVM bitcode.
func IsBitcode(fn string) (bool, error) {
	f, err := os.Open(fn)
	if err != nil {
		return false, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warnf("error closing file: %v", err)
		}
	}()
	head := make([]byte, len(bitcodeMagic))
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return IsBitcodeData(head[:n]), nil
}

const defaultPointerBits = 64

// PointerSize returns the size in bytes of a pointer in address space 0 as
// described by a data layout string. Without a pointer specification LLVM
// assumes 64-bit pointers.
func PointerSize(layout string) (int, error) {
	bits := defaultPointerBits
	if layout == "" {
		return bits / 8, nil
	}
	for _, spec := range strings.Split(layout, "-") {
		if !strings.HasPrefix(spec, "p") {
			continue
		}
		fields := strings.Split(spec, ":")
		as := strings.TrimPrefix(fields[0], "p")
		if as != "" && as != "0" {
			continue
		}
		if len(fields) < 2 {
			return 0, fmt.Errorf("malformed pointer specification '%s' in data layout", spec)
		}
		size, err := strconv.Atoi(fields[1])
		if err != nil || size <= 0 || size%8 != 0 {
			return 0, fmt.Errorf("invalid pointer size '%s' in data layout", fields[1])
		}
		bits = size
	}
	return bits / 8, nil
}
