// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"
	"regexp"
	"strings"
)

// Triple is a target triple split into its components. Missing components
// are empty.
type Triple struct {
	Arch   string
	Vendor string
	OS     string
	Env    string
}

var reArch = regexp.MustCompile(`^[a-z][a-z0-9_.]*$`)

// ParseTriple splits a triple of the form arch-vendor-os[-env]. The OS may
// be omitted (e.g. "wasm32-unknown"), everything else is an error.
func ParseTriple(s string) (Triple, error) {
	if s == "" {
		return Triple{}, fmt.Errorf("empty target triple")
	}
	parts := strings.SplitN(s, "-", 4)
	if len(parts) < 2 {
		return Triple{}, fmt.Errorf("malformed target triple '%s'", s)
	}
	t := Triple{Arch: parts[0], Vendor: parts[1]}
	if len(parts) > 2 {
		t.OS = parts[2]
	}
	if len(parts) > 3 {
		t.Env = parts[3]
	}
	if !reArch.MatchString(t.Arch) {
		return Triple{}, fmt.Errorf("malformed architecture '%s' in target triple '%s'", t.Arch, s)
	}
	return t, nil
}

func (t Triple) String() string {
	s := t.Arch + "-" + t.Vendor
	if t.OS != "" {
		s += "-" + t.OS
	}
	if t.Env != "" {
		s += "-" + t.Env
	}
	return s
}

var archTargets = map[string]string{
	"x86_64":      "x86-64",
	"amd64":       "x86-64",
	"x86_64h":     "x86-64",
	"arm64":       "aarch64",
	"arm64e":      "aarch64",
	"aarch64":     "aarch64",
	"aarch64_be":  "aarch64_be",
	"aarch64_32":  "aarch64_32",
	"arm64_32":    "aarch64_32",
	"powerpc":     "ppc32",
	"powerpcle":   "ppc32le",
	"powerpc64":   "ppc64",
	"powerpc64le": "ppc64le",
	"ppc64":       "ppc64",
	"ppc64le":     "ppc64le",
	"sparc64":     "sparcv9",
	"s390x":       "systemz",
	"le32":        "le32",
	"loongarch32": "loongarch32",
	"loongarch64": "loongarch64",
}

// TargetName returns the name under which LLVM registers the target for the
// triple architecture, e.g. "x86-64" for "x86_64".
func (t Triple) TargetName() string {
	if name, ok := archTargets[t.Arch]; ok {
		return name
	}
	switch a := t.Arch; {
	case len(a) == 4 && a[0] == 'i' && strings.HasSuffix(a, "86"):
		return "x86"
	case strings.HasPrefix(a, "armeb"):
		return "armeb"
	case strings.HasPrefix(a, "thumbeb"):
		return "thumbeb"
	case strings.HasPrefix(a, "thumb"):
		return "thumb"
	case strings.HasPrefix(a, "arm"):
		return "arm"
	default:
		return a
	}
}
