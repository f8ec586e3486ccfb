// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package backend binds ir2obj to a code generation backend. The backend
// parses IR modules, resolves targets from triples and emits object files;
// ir2obj only sequences these steps.
package backend

import (
	"context"
	"fmt"
	"io"

	"ir2obj/core"
)

// Module is a parsed IR module owned by a backend.
type Module interface {
	// Triple returns the target triple recorded in the module.
	Triple() string
	// DataLayout returns the data layout string recorded in the module.
	DataLayout() string
	Dispose()
}

// Machine generates code for one target configuration.
type Machine interface {
	// EmitObject runs the object emission pipeline on m and writes the
	// resulting object file to w.
	EmitObject(ctx context.Context, m Module, w io.Writer) error
	Dispose()
}

// Target is a backend target implementation able to create machines.
type Target interface {
	Name() string
	CreateMachine(triple string, opts Options) (Machine, error)
}

// TargetInfo describes a registered target.
type TargetInfo struct {
	Name        string
	Description string
}

// Tool is the interface of a code generation backend.
type Tool interface {
	// Initialize registers all targets, target MCs, assembly printers and
	// assembly parsers of the backend.
	Initialize(ctx context.Context) error
	// ParseIR loads a textual or bitcode module.
	ParseIR(ctx context.Context, fn string) (Module, error)
	// LookupTarget resolves the target implementation for a triple.
	LookupTarget(triple string) (Target, error)
	// Targets lists the registered targets. Initialize must be called first.
	Targets() []TargetInfo
	GetVersion() string
	Dispose()
}

// Options configures a target machine. The zero value is not valid; use
// DefaultOptions.
type Options struct {
	CPU       string
	Features  string
	OptLevel  core.OptLevel
	Reloc     core.RelocModel
	CodeModel core.CodeModel
}

// DefaultOptions returns the backend default machine options: generic CPU,
// no extra features, default optimization level, relocation and code model.
func DefaultOptions() Options {
	return Options{
		OptLevel:  core.OptDefault,
		Reloc:     core.RelocDefault,
		CodeModel: core.CodeModelDefault,
	}
}

// ID identifies a backend implementation.
type ID int

const (
	// Unknown backend
	UnknownID ID = iota
	// LLVM linked in-process
	LLVMID
	// llc command line tool
	LLCID
	// Mock backend
	MockID
)

// ParseID maps a backend name to its ID.
func ParseID(s string) ID {
	switch s {
	case "llvm":
		return LLVMID
	case "llc":
		return LLCID
	case "mock":
		return MockID
	default:
		return UnknownID
	}
}

func (id ID) String() string {
	switch id {
	case LLVMID:
		return "llvm"
	case LLCID:
		return "llc"
	case MockID:
		return "mock"
	default:
		return "unknown"
	}
}

// New creates the backend identified by id.
func New(id ID) (Tool, error) {
	switch id {
	case LLVMID:
		b, err := NewLLVM()
		if err != nil {
			return nil, err
		}
		return b, nil
	case LLCID:
		return NewLLC(), nil
	case MockID:
		return GetMock(), nil
	default:
		return nil, fmt.Errorf("unknown backend")
	}
}
