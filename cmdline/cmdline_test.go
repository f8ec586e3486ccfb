// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdline

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cl := Parse([]string{"ir2obj", "--debug", "in.ll", "-x", "--cpu=generic", "out.o", "--cpu=x86-64"})

	assert.Equal(t, []string{"ir2obj", "in.ll", "-x", "out.o"}, cl.Args())
	assert.Equal(t, 4, cl.NArgs())
	assert.True(t, cl.Has("--debug"))
	assert.Empty(t, cl.Values("--debug"))
	assert.Equal(t, []string{"generic", "x86-64"}, cl.Values("--cpu"))
	assert.Equal(t, []string{"--cpu", "--debug"}, cl.Switches())
	assert.False(t, cl.Has("--help"))
}

func TestParseSplitsAtFirstEquals(t *testing.T) {
	cl := Parse([]string{"--features=+a=b", "--empty="})
	assert.Equal(t, []string{"+a=b"}, cl.Values("--features"))
	assert.Equal(t, []string{""}, cl.Values("--empty"))
	assert.Zero(t, cl.NArgs())
}

func TestParseArgCount(t *testing.T) {
	tests := []struct {
		args []string
		n    int
	}{
		{[]string{"ir2obj"}, 1},
		{[]string{"ir2obj", "a.ll"}, 2},
		{[]string{"ir2obj", "a.ll", "a.o"}, 3},
		{[]string{"ir2obj", "--zero-exit", "a.ll", "a.o"}, 3},
		{[]string{"ir2obj", "a.ll", "a.o", "extra"}, 4},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.n, Parse(tc.args).NArgs(), "%v", tc.args)
	}
}

func newFlags() (*pflag.FlagSet, *struct {
	cpu     string
	zero    bool
	timeout time.Duration
}) {
	v := &struct {
		cpu     string
		zero    bool
		timeout time.Duration
	}{}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringVar(&v.cpu, "cpu", "", "cpu")
	fs.BoolVar(&v.zero, "zero-exit", false, "zero")
	fs.DurationVar(&v.timeout, "timeout", 0, "timeout")
	return fs, v
}

func TestApply(t *testing.T) {
	fs, v := newFlags()
	cl := Parse([]string{"ir2obj", "--cpu=znver3", "--zero-exit", "--timeout=2s"})
	require.NoError(t, cl.Apply(fs))
	assert.Equal(t, "znver3", v.cpu)
	assert.True(t, v.zero)
	assert.Equal(t, 2*time.Second, v.timeout)
}

func TestApplyErrors(t *testing.T) {
	for _, args := range [][]string{
		{"--unknown=1"},
		{"--cpu"},
		{"--timeout=soon"},
	} {
		fs, _ := newFlags()
		assert.Error(t, Parse(args).Apply(fs), "%v", args)
	}
}
