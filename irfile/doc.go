// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package irfile inspects LLVM IR modules without LLVM (textual modules are
// loaded with github.com/llir). It recognises bitcode files, extracts the
// target triple and data layout, and pretty-prints a summary of the module.
package irfile
