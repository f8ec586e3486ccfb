// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package backend

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"ir2obj/core"
	"ir2obj/irfile"
	"ir2obj/logger"
	"ir2obj/tools"
)

// LLC drives the llc, llvm-as and llvm-dis command line tools. Modules are
// checked by LLVM and only their header is read in Go; code generation
// happens in llc.
type LLC struct {
	version string
	targets []TargetInfo
	known   map[string]bool
}

// NewLLC creates an llc backend. Initialize must be called before use.
func NewLLC() *LLC {
	return &LLC{known: make(map[string]bool)}
}

var (
	reLLVMVersion = regexp.MustCompile(`LLVM version (\d+)\.(\d+)(\.(\d+))?`)
	reTargetLine  = regexp.MustCompile(`^\s+(\S+)\s+- (.*)$`)
)

// Initialize asks llc for its version and registered targets.
func (b *LLC) Initialize(ctx context.Context) error {
	out, err := tools.LLCVersion(ctx)
	if err != nil {
		return fmt.Errorf("could not run llc: %w", err)
	}
	return b.parseVersion(out)
}

func (b *LLC) parseVersion(out string) error {
	grps := reLLVMVersion.FindStringSubmatch(out)
	if grps == nil {
		return fmt.Errorf("unexpected llc version format")
	}
	b.version = "v" + grps[1] + "." + grps[2]
	if grps[4] != "" {
		b.version += "." + grps[4]
	}

	b.targets = nil
	inTargets := false
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "Registered Targets:") {
			inTargets = true
			continue
		}
		if !inTargets {
			continue
		}
		m := reTargetLine.FindStringSubmatch(line)
		if m == nil {
			break
		}
		b.targets = append(b.targets, TargetInfo{Name: m[1], Description: m[2]})
		b.known[m[1]] = true
	}
	logger.Debugf("Detected llc %s with %d targets", b.version, len(b.targets))
	return nil
}

type llcModule struct {
	path string
	info *irfile.Info
}

func (m *llcModule) Triple() string     { return m.info.Triple }
func (m *llcModule) DataLayout() string { return m.info.DataLayout }
func (m *llcModule) Dispose()           {}

// ParseIR has llvm-as (llvm-dis for bitcode) check the module and reads
// the triple and data layout from its header. LLVM decides what is valid
// IR, so constructs the llir grammar lacks, such as opaque pointers, are
// accepted.
func (b *LLC) ParseIR(ctx context.Context, fn string) (Module, error) {
	bc, err := irfile.IsBitcode(fn)
	if err != nil {
		return nil, err
	}
	var info *irfile.Info
	if bc {
		text, err := disassemble(ctx, fn)
		if err != nil {
			return nil, err
		}
		info, err = irfile.ScanHeaderString(fn, text)
		if err != nil {
			return nil, err
		}
	} else {
		if err := tools.Assemble(ctx, fn); err != nil {
			return nil, err
		}
		if info, err = irfile.ScanHeader(fn); err != nil {
			return nil, err
		}
	}
	return &llcModule{path: fn, info: info}, nil
}

func disassemble(ctx context.Context, fn string) (string, error) {
	text, err := tools.Disassemble(ctx, fn)
	if err != nil {
		return "", fmt.Errorf("could not disassemble '%s': %w", fn, err)
	}
	return text, nil
}

// LoadInfo parses a textual or bitcode module into an irfile.Info. Modules
// llir cannot parse but llvm-as accepts yield a Partial Info read from the
// header.
func LoadInfo(ctx context.Context, fn string) (*irfile.Info, error) {
	bc, err := irfile.IsBitcode(fn)
	if err != nil {
		return nil, err
	}
	var src string
	if bc {
		if src, err = disassemble(ctx, fn); err != nil {
			return nil, err
		}
	} else {
		data, err := os.ReadFile(fn)
		if err != nil {
			return nil, err
		}
		src = string(data)
	}

	info, perr := irfile.LoadString(fn, src)
	if perr == nil {
		return info, nil
	}
	if !bc {
		if err := tools.Assemble(ctx, fn); err != nil {
			if errors.Is(err, exec.ErrNotFound) {
				// no LLVM to ask, trust llir
				return nil, perr
			}
			return nil, err
		}
	}
	logger.Warning(fn, "module details unavailable: "+perr.Error())
	return irfile.ScanHeaderString(fn, src)
}

type llcTarget struct {
	name string
}

// LookupTarget checks that llc registers a target for the triple
// architecture.
func (b *LLC) LookupTarget(triple string) (Target, error) {
	t, err := ParseTriple(triple)
	if err != nil {
		return nil, err
	}
	name := t.TargetName()
	if !b.known[name] {
		return nil, fmt.Errorf("no available targets are compatible with triple \"%s\"", triple)
	}
	return &llcTarget{name: name}, nil
}

func (t *llcTarget) Name() string { return t.name }

var (
	llcReloc = map[core.RelocModel]string{
		core.RelocStatic:       "static",
		core.RelocPIC:          "pic",
		core.RelocDynamicNoPIC: "dynamic-no-pic",
	}
	llcCodeModel = map[core.CodeModel]string{
		core.CodeModelSmall:  "small",
		core.CodeModelKernel: "kernel",
		core.CodeModelMedium: "medium",
		core.CodeModelLarge:  "large",
	}
)

// CreateMachine translates opts into llc arguments. It fails when llc
// cannot be found.
func (t *llcTarget) CreateMachine(triple string, opts Options) (Machine, error) {
	if opts.OptLevel < core.OptNone || opts.OptLevel > core.OptAggressive {
		return nil, fmt.Errorf("invalid optimization level %v", opts.OptLevel)
	}
	if !tools.UseDocker() {
		llc, err := tools.FindCmd("LLC_CMD", "llc")
		if err != nil {
			return nil, err
		}
		if _, err := exec.LookPath(llc[0]); err != nil {
			return nil, err
		}
	}

	args := []string{
		"-filetype=obj",
		"-mtriple=" + triple,
		fmt.Sprintf("-O=%d", opts.OptLevel),
	}
	if opts.CPU != "" {
		args = append(args, "-mcpu="+opts.CPU)
	}
	if opts.Features != "" {
		args = append(args, "-mattr="+opts.Features)
	}
	if r, ok := llcReloc[opts.Reloc]; ok {
		args = append(args, "-relocation-model="+r)
	} else if opts.Reloc != core.RelocDefault {
		return nil, fmt.Errorf("invalid relocation model %v", opts.Reloc)
	}
	if c, ok := llcCodeModel[opts.CodeModel]; ok {
		args = append(args, "-code-model="+c)
	} else if opts.CodeModel != core.CodeModelDefault {
		return nil, fmt.Errorf("invalid code model %v", opts.CodeModel)
	}
	return &llcMachine{args: args}, nil
}

type llcMachine struct {
	args []string
}

func (m *llcMachine) EmitObject(ctx context.Context, mod Module, w io.Writer) error {
	lm, ok := mod.(*llcModule)
	if !ok {
		return fmt.Errorf("module of type %T not created by the llc backend", mod)
	}
	args := append(append([]string{}, m.args...), "-o", "-", lm.path)
	out, err := tools.LLC(ctx, args...)
	if err != nil {
		return err
	}
	if len(out) == 0 {
		return errors.New("llc produced no output")
	}
	_, err = w.Write(out)
	return err
}

func (m *llcMachine) Dispose() {}

// Targets lists the targets registered in llc.
func (b *LLC) Targets() []TargetInfo {
	return b.targets
}

// GetVersion returns the llc version detected by Initialize.
func (b *LLC) GetVersion() string {
	return b.version
}

// Dispose does nothing; llc runs as a separate process.
func (b *LLC) Dispose() {}
