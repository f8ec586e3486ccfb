// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package irfile

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"ir2obj/logger"
)

var (
	reTriple     = regexp.MustCompile(`^\s*target\s+triple\s*=\s*"((?:[^"\\]|\\.)*)"`)
	reDataLayout = regexp.MustCompile(`^\s*target\s+datalayout\s*=\s*"((?:[^"\\]|\\.)*)"`)
	reSourceFile = regexp.MustCompile(`^\s*source_filename\s*=\s*"((?:[^"\\]|\\.)*)"`)
)

// ScanHeader reads the module-level source_filename, target triple and
// target datalayout entries of the textual module in fn. The body is not
// parsed, so the returned Info is Partial. Syntax is not checked either.
func ScanHeader(fn string) (*Info, error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	return ScanHeaderString(fn, string(data))
}

// ScanHeaderString is ScanHeader for IR held in memory; fn is only used in
// messages.
func ScanHeaderString(fn, src string) (*Info, error) {
	logger.Infof("Scan header of '%s'", fn)
	info := &Info{Name: fn, Partial: true}

	scanner := bufio.NewScanner(strings.NewReader(src))
	scanner.Buffer(make([]byte, 64*1024), len(src)+1)
	for scanner.Scan() {
		line := scanner.Text()
		var (
			dst *string
			m   []string
		)
		switch {
		case reTriple.MatchString(line):
			dst, m = &info.Triple, reTriple.FindStringSubmatch(line)
		case reDataLayout.MatchString(line):
			dst, m = &info.DataLayout, reDataLayout.FindStringSubmatch(line)
		case reSourceFile.MatchString(line):
			dst, m = &info.SourceFilename, reSourceFile.FindStringSubmatch(line)
		default:
			continue
		}
		s, err := unescape(m[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn, err)
		}
		*dst = s
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	ps, err := PointerSize(info.DataLayout)
	if err != nil {
		return nil, err
	}
	info.PointerSize = ps
	return info, nil
}

// unescape decodes the \\ and \XX escapes of LLVM string literals.
func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '\\' {
			b.WriteByte('\\')
			i++
			continue
		}
		if i+2 >= len(s) {
			return "", fmt.Errorf("truncated escape in string \"%s\"", s)
		}
		v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
		if err != nil {
			return "", fmt.Errorf("invalid escape in string \"%s\"", s)
		}
		b.WriteByte(byte(v))
		i += 2
	}
	return b.String(), nil
}
