// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdline splits a raw argument list into switches and positional
// arguments.
//
// A token starting with "--" is a switch, either "--key" or "--key=value".
// Every other token, including the program name and single-dash tokens, is
// positional. Switch keys keep their "--" prefix.
package cmdline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/pflag"
)

const switchPrefix = "--"

// CommandLine holds the tokens of a command line grouped by kind.
type CommandLine struct {
	args     []string
	switches map[string][]string
	order    []string
}

// Parse classifies every token of args. The first token is expected to be
// the program name and ends up as the first positional argument.
func Parse(args []string) CommandLine {
	cl := CommandLine{switches: make(map[string][]string)}
	for _, a := range args {
		if !strings.HasPrefix(a, switchPrefix) {
			cl.args = append(cl.args, a)
			continue
		}
		key, val, hasVal := strings.Cut(a, "=")
		if _, seen := cl.switches[key]; !seen {
			cl.order = append(cl.order, key)
			cl.switches[key] = nil
		}
		if hasVal {
			cl.switches[key] = append(cl.switches[key], val)
		}
	}
	return cl
}

// Args returns the positional arguments in order.
func (cl CommandLine) Args() []string {
	return cl.args
}

// NArgs returns the number of positional arguments.
func (cl CommandLine) NArgs() int {
	return len(cl.args)
}

// Has reports whether the switch key (e.g. "--help") was given.
func (cl CommandLine) Has(key string) bool {
	_, ok := cl.switches[key]
	return ok
}

// Values returns the values given to a switch, in order.
func (cl CommandLine) Values(key string) []string {
	return cl.switches[key]
}

// Switches returns the switch keys sorted by name.
func (cl CommandLine) Switches() []string {
	keys := make([]string, 0, len(cl.switches))
	for k := range cl.switches {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Apply sets the flags of fs from the switches, in the order the switches
// first appeared. A value-less switch turns a boolean flag on and is an error
// for any other flag. Unknown switches are an error.
func (cl CommandLine) Apply(fs *pflag.FlagSet) error {
	for _, key := range cl.order {
		name := strings.TrimPrefix(key, switchPrefix)
		f := fs.Lookup(name)
		if f == nil {
			return fmt.Errorf("unknown switch '%s'", key)
		}
		vals := cl.switches[key]
		if len(vals) == 0 {
			if f.NoOptDefVal == "" {
				return fmt.Errorf("switch '%s' requires a value", key)
			}
			vals = []string{f.NoOptDefVal}
		}
		for _, v := range vals {
			if err := fs.Set(name, v); err != nil {
				return fmt.Errorf("invalid value '%s' for switch '%s': %v", v, key, err)
			}
		}
	}
	return nil
}
