// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package tools

import (
	"os"
	"sort"
)

// Envvar describes an environment variable understood by ir2obj.
type Envvar struct {
	Name string
	Defv string
	Desc string
}

var envvars = map[string]Envvar{}

// RegEnv registers an environment variable with its default value and a description.
func RegEnv(name, defv, desc string) {
	envvars[name] = Envvar{Name: name, Defv: defv, Desc: desc}
}

// GetEnv returns the value of a registered environment variable or its
// default value if unset. Unregistered variables return "".
func GetEnv(name string) string {
	ev, ok := envvars[name]
	if !ok {
		return ""
	}
	if v, has := os.LookupEnv(name); has { //permit:os.LookupEnv
		return v
	}
	return ev.Defv
}

// GetEnvvars returns all registered environment variables sorted by name.
func GetEnvvars() []Envvar {
	var evs []Envvar
	for _, ev := range envvars {
		evs = append(evs, ev)
	}
	sort.Slice(evs, func(i, j int) bool {
		return evs[i].Name < evs[j].Name
	})
	return evs
}
