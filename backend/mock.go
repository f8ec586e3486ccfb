// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package backend

import (
	"context"
	"errors"
	"io"

	"ir2obj/irfile"
)

// Mock is a backend for testing. It parses textual IR for real, accepts the
// triples whose target name is listed in Known and writes Object as the
// emitted file. The error fields fail the corresponding step.
type Mock struct {
	Known      []string
	Object     []byte
	InitErr    error
	MachineErr error
	EmitErr    error

	Emitted  int
	Disposed int
	Options  Options
}

var mock = Mock{}

// GetMock returns the Mock singleton.
func GetMock() *Mock {
	return &mock
}

// Reset restores the default behavior: x86-64 and aarch64 are known and
// emission writes a fake ELF header.
func (m *Mock) Reset() {
	*m = Mock{
		Known:  []string{"x86-64", "aarch64"},
		Object: []byte("\x7fELF\x02\x01\x01"),
	}
}

func (m *Mock) Initialize(_ context.Context) error {
	return m.InitErr
}

type mockModule struct {
	info  *irfile.Info
	owner *Mock
}

func (mm *mockModule) Triple() string     { return mm.info.Triple }
func (mm *mockModule) DataLayout() string { return mm.info.DataLayout }
func (mm *mockModule) Dispose()           { mm.owner.Disposed++ }

func (m *Mock) ParseIR(_ context.Context, fn string) (Module, error) {
	info, err := irfile.Load(fn)
	if err != nil {
		return nil, err
	}
	return &mockModule{info: info, owner: m}, nil
}

type mockTarget struct {
	name  string
	owner *Mock
}

func (m *Mock) LookupTarget(triple string) (Target, error) {
	t, err := ParseTriple(triple)
	if err != nil {
		return nil, err
	}
	for _, k := range m.Known {
		if k == t.TargetName() {
			return &mockTarget{name: k, owner: m}, nil
		}
	}
	return nil, errors.New("no available targets are compatible with triple \"" + triple + "\"")
}

func (t *mockTarget) Name() string { return t.name }

func (t *mockTarget) CreateMachine(_ string, opts Options) (Machine, error) {
	if t.owner.MachineErr != nil {
		return nil, t.owner.MachineErr
	}
	t.owner.Options = opts
	return &mockMachine{owner: t.owner}, nil
}

type mockMachine struct {
	owner *Mock
}

func (mm *mockMachine) EmitObject(_ context.Context, _ Module, w io.Writer) error {
	if mm.owner.EmitErr != nil {
		return mm.owner.EmitErr
	}
	mm.owner.Emitted++
	_, err := w.Write(mm.owner.Object)
	return err
}

func (mm *mockMachine) Dispose() { mm.owner.Disposed++ }

func (m *Mock) Targets() []TargetInfo {
	var ts []TargetInfo
	for _, k := range m.Known {
		ts = append(ts, TargetInfo{Name: k, Description: "mock " + k})
	}
	return ts
}

func (m *Mock) GetVersion() string {
	return "v0.0.0"
}

func (m *Mock) Dispose() {}

func init() {
	mock.Reset()
}
