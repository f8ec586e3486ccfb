// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package logger implements a simple logger with a few error levels.
//
// All output goes to a single buffered writer (standard output by default)
// which is flushed after every print, so diagnostics interleave correctly
// with the output of external tools.
package logger

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Level represents the amount of detail in which the log is output.
type Level int

const (
	fatal Level = iota
	// ERROR only log errors
	ERROR
	// WARN only log warnings and errors
	WARN
	// INFO log information, warnings and errors
	INFO
	// DEBUG log as much as possible
	DEBUG
)

var (
	logger *bufio.Writer
	level  = ERROR

	errorColor = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor  = color.New(color.FgYellow, color.Bold).SprintFunc()
)

func init() {
	logger = bufio.NewWriter(os.Stdout)
}

// ParseLevel maps a level name (ERROR, WARN, INFO, DEBUG) to a Level.
// Unknown names map to ERROR.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	default:
		return ERROR
	}
}

// SetWriter sets the writer to which the output is sent.
// If w is nil, no output is shown.
func SetWriter(w io.Writer) {
	if w == nil {
		logger = nil
		return
	}
	logger = bufio.NewWriter(w)
}

// SetLevel reconfigures the error level of the logger.
func SetLevel(l Level) {
	level = l
}

// GetLevel returns the current error level.
func GetLevel() Level {
	return level
}

// Fatal works as Error, but is always shown.
func Fatal(args ...any) {
	Println(args...)
}

// Fatalf works as Errorf, but is always shown.
func Fatalf(format string, args ...any) {
	Printf(format, args...)
	Println()
}

// Error works as fmt.Print, but it adds a newline at the end.
func Error(args ...any) {
	if level < ERROR {
		return
	}
	Println(args...)
}

// Errorf works as fmt.Printf, but it adds a newline at the end of the format string.
func Errorf(format string, args ...any) {
	if level < ERROR {
		return
	}
	Printf(format, args...)
	Println()
}

// Warn works as fmt.Print when error level is WARN. It adds a newline at the end of the format string.
func Warn(args ...any) {
	if level < WARN {
		return
	}
	Println(args...)
}

// Warnf works as fmt.Printf when error level is WARN. It adds a newline at the end of the format string.
func Warnf(format string, args ...any) {
	if level < WARN {
		return
	}
	Printf(format, args...)
	Println()
}

// Info works as fmt.Print when error level is INFO. It adds a newline at the end of the format string.
func Info(args ...any) {
	if level < INFO {
		return
	}
	Println(args...)
}

// Infof works as fmt.Printf when error level is INFO. It adds a newline at the end of the format string.
func Infof(format string, args ...any) {
	if level < INFO {
		return
	}
	Printf(format, args...)
	Println()
}

// Debug works as fmt.Print when error level is DEBUG. It adds a newline at the end of the format string.
func Debug(args ...any) {
	if level < DEBUG {
		return
	}
	Println(args...)
}

// Debugf works as fmt.Printf when error level is DEBUG. It adds a newline at the end of the format string.
func Debugf(format string, args ...any) {
	if level < DEBUG {
		return
	}
	Printf(format, args...)
	Println()
}

// Diagnostic prints a compiler-style diagnostic line such as
//
//	input.ll: error: expected instruction opcode
//
// regardless of the level. An empty location is omitted.
func Diagnostic(loc string, err error) {
	if loc != "" {
		Printf("%s: %s %v\n", loc, errorColor("error:"), err)
		return
	}
	Printf("%s %v\n", errorColor("error:"), err)
}

// Warning prints a warning diagnostic when error level is WARN.
func Warning(loc string, msg string) {
	if level < WARN {
		return
	}
	if loc != "" {
		Printf("%s: %s %s\n", loc, warnColor("warning:"), msg)
		return
	}
	Printf("%s %s\n", warnColor("warning:"), msg)
}

// Print works as fmt.Print, but flushes the writer.
func Print(args ...any) {
	fprint(args...)
}

// Println works as fmt.Println, but flushes the writer.
func Println(args ...any) {
	fprintln(args...)
}

// Printf works as fmt.Printf, but flushes the writer.
func Printf(format string, args ...any) {
	fprint(fmt.Sprintf(format, args...))
}

func fprint(args ...any) {
	if logger == nil {
		return
	}
	if _, err := fmt.Fprint(logger, args...); err != nil {
		fail()
	}
	flush()
}

func fprintln(args ...any) {
	if logger == nil {
		return
	}
	if _, err := fmt.Fprintln(logger, args...); err != nil {
		fail()
	}
	flush()
}

func flush() {
	if logger.Flush() != nil {
		fail()
	}
}

func fail() {
	// use fatal instead of panic to make linter happy
	log.Fatal()
}
