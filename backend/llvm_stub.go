// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build nollvm

package backend

import (
	"errors"
)

// LLVM is unavailable in builds tagged nollvm.
type LLVM struct {
	Tool
}

// NewLLVM reports that LLVM was not linked in.
func NewLLVM() (*LLVM, error) {
	return nil, errors.New("ir2obj built without LLVM (nollvm tag); use --backend=llc")
}
