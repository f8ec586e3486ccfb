// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build !nollvm

package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"tinygo.org/x/go-llvm"

	"ir2obj/core"
	"ir2obj/logger"
)

// LLVM is the in-process backend linked against the LLVM C API.
type LLVM struct {
	ctx llvm.Context
}

var initOnce sync.Once

// NewLLVM creates a backend with its own LLVM context.
func NewLLVM() (*LLVM, error) {
	return &LLVM{ctx: llvm.NewContext()}, nil
}

// Initialize registers every target compiled into LLVM.
func (b *LLVM) Initialize(_ context.Context) error {
	initOnce.Do(func() {
		llvm.InitializeAllTargetInfos()
		llvm.InitializeAllTargets()
		llvm.InitializeAllTargetMCs()
		llvm.InitializeAllAsmPrinters()
		llvm.InitializeAllAsmParsers()
	})
	return nil
}

type llvmModule struct {
	mod llvm.Module
}

func (m *llvmModule) Triple() string     { return m.mod.Target() }
func (m *llvmModule) DataLayout() string { return m.mod.DataLayout() }
func (m *llvmModule) Dispose()           { m.mod.Dispose() }

// ParseIR parses textual IR or bitcode. LLVM detects the format itself.
func (b *LLVM) ParseIR(_ context.Context, fn string) (Module, error) {
	logger.Infof("Parse '%s'", fn)
	buf, err := llvm.NewMemoryBufferFromFile(fn)
	if err != nil {
		return nil, err
	}
	// ParseIR takes ownership of buf
	mod, err := b.ctx.ParseIR(buf)
	if err != nil {
		return nil, err
	}
	return &llvmModule{mod: mod}, nil
}

type llvmTarget struct {
	t llvm.Target
}

// LookupTarget resolves the target registered for triple.
func (b *LLVM) LookupTarget(triple string) (Target, error) {
	t, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return nil, err
	}
	return &llvmTarget{t: t}, nil
}

func (t *llvmTarget) Name() string { return t.t.Name() }

var (
	optLevels = map[core.OptLevel]llvm.CodeGenOptLevel{
		core.OptNone:       llvm.CodeGenLevelNone,
		core.OptLess:       llvm.CodeGenLevelLess,
		core.OptDefault:    llvm.CodeGenLevelDefault,
		core.OptAggressive: llvm.CodeGenLevelAggressive,
	}
	relocModels = map[core.RelocModel]llvm.RelocMode{
		core.RelocDefault:      llvm.RelocDefault,
		core.RelocStatic:       llvm.RelocStatic,
		core.RelocPIC:          llvm.RelocPIC,
		core.RelocDynamicNoPIC: llvm.RelocDynamicNoPic,
	}
	codeModels = map[core.CodeModel]llvm.CodeModel{
		core.CodeModelDefault: llvm.CodeModelDefault,
		core.CodeModelSmall:   llvm.CodeModelSmall,
		core.CodeModelKernel:  llvm.CodeModelKernel,
		core.CodeModelMedium:  llvm.CodeModelMedium,
		core.CodeModelLarge:   llvm.CodeModelLarge,
	}
)

func (t *llvmTarget) CreateMachine(triple string, opts Options) (Machine, error) {
	level, ok := optLevels[opts.OptLevel]
	if !ok {
		return nil, fmt.Errorf("invalid optimization level %v", opts.OptLevel)
	}
	reloc, ok := relocModels[opts.Reloc]
	if !ok {
		return nil, fmt.Errorf("invalid relocation model %v", opts.Reloc)
	}
	cm, ok := codeModels[opts.CodeModel]
	if !ok {
		return nil, fmt.Errorf("invalid code model %v", opts.CodeModel)
	}
	tm := t.t.CreateTargetMachine(triple, opts.CPU, opts.Features, level, reloc, cm)
	if tm.C == nil {
		return nil, errors.New("failed to create target machine")
	}
	return &llvmMachine{tm: tm}, nil
}

type llvmMachine struct {
	tm llvm.TargetMachine
}

func (m *llvmMachine) EmitObject(_ context.Context, mod Module, w io.Writer) error {
	lm, ok := mod.(*llvmModule)
	if !ok {
		return fmt.Errorf("module of type %T not created by the llvm backend", mod)
	}
	buf, err := m.tm.EmitToMemoryBuffer(lm.mod, llvm.ObjectFile)
	if err != nil {
		return err
	}
	defer buf.Dispose()
	_, err = w.Write(buf.Bytes())
	return err
}

func (m *llvmMachine) Dispose() { m.tm.Dispose() }

// Targets lists the registered targets.
func (b *LLVM) Targets() []TargetInfo {
	var ts []TargetInfo
	for t := llvm.FirstTarget(); t.C != nil; t = t.NextTarget() {
		ts = append(ts, TargetInfo{Name: t.Name(), Description: t.Description()})
	}
	return ts
}

// GetVersion returns the version of the linked LLVM.
func (b *LLVM) GetVersion() string {
	return "v" + llvm.Version
}

// Dispose releases the LLVM context. Modules must be disposed before.
func (b *LLVM) Dispose() {
	b.ctx.Dispose()
}
