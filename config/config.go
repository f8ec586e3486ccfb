// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads the optional ir2obj.toml project file, which holds
// default code generation settings for every module compiled below it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jinzhu/copier"
)

// FileName is the name of the project file searched by Find.
const FileName = "ir2obj.toml"

// Config enables multiple options when emitting an object file. Empty fields
// mean "not set".
type Config struct {
	Backend   string `toml:"backend"`    // llvm, llc or mock
	CPU       string `toml:"cpu"`        // target CPU, e.g. "x86-64-v3"
	Features  string `toml:"features"`   // target features, e.g. "+avx2,-sse4a"
	OptLevel  string `toml:"opt_level"`  // 0 to 3
	Reloc     string `toml:"reloc"`      // default, static, pic, dynamic-no-pic
	CodeModel string `toml:"code_model"` // default, small, kernel, medium, large
	ZeroExit  bool   `toml:"zero_exit"`  // exit with 0 instead of 1 on success
	CSVLog    string `toml:"csv_log"`    // CSV file to append run results to
}

// Find looks for FileName in startDir and its parents. It returns false if
// no file is found.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes a config file. Unknown keys are an error.
func Load(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Merge overwrites the fields of dst with the non-empty fields of src.
func Merge(dst *Config, src Config) error {
	return copier.CopyWithOption(dst, &src, copier.Option{IgnoreEmpty: true})
}
