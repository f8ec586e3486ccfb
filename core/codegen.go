// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package core defines the code generation knobs shared by the backends.
package core

import (
	"fmt"
	"strings"
)

// OptLevel represents the code generation optimization level
type OptLevel int

const (
	// OptNone disables optimizations (-O0)
	OptNone OptLevel = iota
	// OptLess is -O1
	OptLess
	// OptDefault is -O2, the backend default
	OptDefault
	// OptAggressive is -O3
	OptAggressive
)

// ParseOptLevel accepts "0".."3", optionally prefixed with "O" or "-O".
// The empty string is the default level.
func ParseOptLevel(s string) (OptLevel, error) {
	if s == "" {
		return OptDefault, nil
	}
	v := s
	if strings.HasPrefix(v, "-O") {
		v = strings.TrimPrefix(v, "-O")
	} else {
		v = strings.TrimPrefix(v, "O")
	}
	switch v {
	case "0":
		return OptNone, nil
	case "1":
		return OptLess, nil
	case "2":
		return OptDefault, nil
	case "3":
		return OptAggressive, nil
	default:
		return OptDefault, fmt.Errorf("invalid optimization level '%s'", s)
	}
}

func (o OptLevel) String() string {
	return fmt.Sprintf("%d", int(o))
}

// RelocModel represents the relocation model of the emitted code
type RelocModel int

const (
	// RelocDefault lets the target choose
	RelocDefault RelocModel = iota
	// RelocStatic is non-relocatable code
	RelocStatic
	// RelocPIC is position independent code
	RelocPIC
	// RelocDynamicNoPIC is relocatable but not position independent code
	RelocDynamicNoPIC
)

var relocNames = map[string]RelocModel{
	"default":        RelocDefault,
	"static":         RelocStatic,
	"pic":            RelocPIC,
	"dynamic-no-pic": RelocDynamicNoPIC,
}

// ParseRelocModel maps a relocation model name to a RelocModel.
func ParseRelocModel(s string) (RelocModel, error) {
	if s == "" {
		return RelocDefault, nil
	}
	if r, ok := relocNames[strings.ToLower(s)]; ok {
		return r, nil
	}
	return RelocDefault, fmt.Errorf("invalid relocation model '%s'", s)
}

func (r RelocModel) String() string {
	return nameOf(relocNames, r)
}

// CodeModel represents the code model of the emitted code
type CodeModel int

const (
	// CodeModelDefault lets the target choose
	CodeModelDefault CodeModel = iota
	// CodeModelSmall is the small code model
	CodeModelSmall
	// CodeModelKernel is the kernel code model
	CodeModelKernel
	// CodeModelMedium is the medium code model
	CodeModelMedium
	// CodeModelLarge is the large code model
	CodeModelLarge
)

var codeModelNames = map[string]CodeModel{
	"default": CodeModelDefault,
	"small":   CodeModelSmall,
	"kernel":  CodeModelKernel,
	"medium":  CodeModelMedium,
	"large":   CodeModelLarge,
}

// ParseCodeModel maps a code model name to a CodeModel.
func ParseCodeModel(s string) (CodeModel, error) {
	if s == "" {
		return CodeModelDefault, nil
	}
	if c, ok := codeModelNames[strings.ToLower(s)]; ok {
		return c, nil
	}
	return CodeModelDefault, fmt.Errorf("invalid code model '%s'", s)
}

func (c CodeModel) String() string {
	return nameOf(codeModelNames, c)
}

func nameOf[T comparable](names map[string]T, v T) string {
	for k, x := range names {
		if x == v {
			return k
		}
	}
	return "invalid"
}
