// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main is the ir2obj program: it compiles an LLVM IR module to a
// native object file for the module's target triple.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ir2obj/backend"
	"ir2obj/cmdline"
	"ir2obj/config"
	"ir2obj/core"
	"ir2obj/logger"
	"ir2obj/tools"
)

const usageString = `Usage: ir2obj <inputfile.ll|inputfile.bc> <outputfile.obj>
Run 'ir2obj --help' for options and subcommands.`

var rootCmd = cobra.Command{
	Use:           "ir2obj [flags] <input.ll|input.bc> <output.obj>",
	Short:         "Compiles an LLVM IR module to a native object file",
	SilenceUsage:  true,
	SilenceErrors: true,

	// switches are tokenized by the cmdline package, see rootRun
	DisableFlagParsing: true,
	Args:               cobra.ArbitraryArgs,
	RunE:               rootRun,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

func init() {
	tools.RegEnv("IR2OBJ_DEFAULT_BACKEND", "llvm", "Default code generation backend")
	tools.RegEnv("IR2OBJ_CONFIG", "", "Path to an ir2obj.toml file; by default it is searched from the input directory upwards")

	helpMessage :=
		`ir2obj -- Compiles an LLVM IR module (textual or bitcode) to a native object
file for the target triple recorded in the module.`

	helpMessage += "\n\nEnvironment Variables:"
	for _, ev := range tools.GetEnvvars() {
		helpMessage += "\n  " + ev.Name + " " +
			"(default: \"" + ev.Defv + "\")\n\t" + ev.Desc
	}
	rootCmd.Long = helpMessage

	pflags := rootCmd.PersistentFlags()
	pflags.StringVar(&rootFlags.log, "log", "ERROR", "log level (ERROR|WARN|INFO)")
	// no shorthands: the root command only recognizes --switches
	pflags.BoolVar(&rootFlags.debug, "debug", false, "set debug mode")
	pflags.BoolVar(&rootFlags.quiet, "quiet", false, "do not produce output")
	pflags.StringVar(&rootFlags.backend, "backend", tools.GetEnv("IR2OBJ_DEFAULT_BACKEND"), "code generation backend (llvm|llc|mock)")

	flags := rootCmd.Flags()
	flags.StringVar(&rootFlags.cpu, "cpu", "", "target CPU, empty for the generic CPU of the triple")
	flags.StringVar(&rootFlags.features, "features", "", "target features, e.g. +avx2,-sse4a")
	flags.StringVar(&rootFlags.optLevel, "opt-level", "2", "code generation optimization level (0-3)")
	flags.StringVar(&rootFlags.reloc, "reloc", "default", "relocation model (default|static|pic|dynamic-no-pic)")
	flags.StringVar(&rootFlags.codeModel, "code-model", "default", "code model (default|small|kernel|medium|large)")
	flags.BoolVar(&rootFlags.zeroExit, "zero-exit", false, "exit with 0 instead of 1 on success")
	flags.StringVar(&rootFlags.csvFile, "csv-log", "", "CSV file to append the result to")
	flags.StringVar(&rootFlags.configFn, "config", tools.GetEnv("IR2OBJ_CONFIG"), "ir2obj.toml file")
	flags.DurationVar(&rootFlags.timeout, "timeout", 0, "emission timeout, e.g., 30s; 0 means no timeout")

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}

var rootFlags struct {
	log     string
	debug   bool
	quiet   bool
	backend string

	cpu       string
	features  string
	optLevel  string
	reloc     string
	codeModel string
	zeroExit  bool
	csvFile   string
	configFn  string
	timeout   time.Duration
}

// exitStatus is the exit code of a successful run.
var exitStatus int

var reExitStatus = regexp.MustCompile("^exit status [0-9]+$")

func setupLogger() {
	logger.SetLevel(logger.ParseLevel(rootFlags.log))
	if rootFlags.debug {
		logger.SetLevel(logger.DEBUG)
	}
	if rootFlags.quiet {
		logger.SetWriter(nil)
	}
}

func printUsage() {
	logger.Println(usageString)
}

// allFlags joins the local and persistent flags of cmd, which cobra only
// merges when it parses flags itself.
func allFlags(cmd *cobra.Command) *pflag.FlagSet {
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	fs.AddFlagSet(cmd.Flags())
	fs.AddFlagSet(cmd.PersistentFlags())
	return fs
}

func rootRun(cmd *cobra.Command, args []string) (err error) {
	cl := cmdline.Parse(append([]string{cmd.Name()}, args...))
	if cl.Has("--help") {
		return cmd.Help()
	}

	fs := allFlags(cmd)
	if err := cl.Apply(fs); err != nil {
		setupLogger()
		logger.Diagnostic("", err)
		printUsage()
		return vreported(usageError, err)
	}
	setupLogger()

	if cl.NArgs() != 3 {
		printUsage()
		return vreported(usageError, fmt.Errorf("expected 2 arguments, got %d", cl.NArgs()-1))
	}
	var (
		input  = cl.Args()[1]
		output = cl.Args()[2]
	)

	s, err := loadSettings(fs, input)
	if err != nil {
		return verror(usageError, err)
	}

	var (
		ts  = time.Now()
		res emitResult
	)
	defer func() {
		csvReport{
			input:    input,
			output:   output,
			backend:  s.backend,
			version:  res.version,
			triple:   res.triple,
			size:     res.size,
			duration: time.Since(ts),
			err:      err,
		}.save(s.csvLog)
	}()

	if res, err = Emit(context.Background(), input, output, s); err != nil {
		return err
	}
	exitStatus = successCode
	if s.zeroExit {
		exitStatus = zeroSuccessCode
	}
	return nil
}

// flagConfig converts the flags into a config.
func flagConfig() config.Config {
	return config.Config{
		Backend:   rootFlags.backend,
		CPU:       rootFlags.cpu,
		Features:  rootFlags.features,
		OptLevel:  rootFlags.optLevel,
		Reloc:     rootFlags.reloc,
		CodeModel: rootFlags.codeModel,
		CSVLog:    rootFlags.csvFile,
		ZeroExit:  rootFlags.zeroExit,
	}
}

// overlayChanged copies the flags given on the command line into cfg, even
// when their value is empty or false.
func overlayChanged(cfg *config.Config, fs *pflag.FlagSet) {
	flags := flagConfig()
	fields := []struct {
		name string
		dst  *string
		val  string
	}{
		{"backend", &cfg.Backend, flags.Backend},
		{"cpu", &cfg.CPU, flags.CPU},
		{"features", &cfg.Features, flags.Features},
		{"opt-level", &cfg.OptLevel, flags.OptLevel},
		{"reloc", &cfg.Reloc, flags.Reloc},
		{"code-model", &cfg.CodeModel, flags.CodeModel},
		{"csv-log", &cfg.CSVLog, flags.CSVLog},
	}
	for _, f := range fields {
		if fs.Changed(f.name) {
			*f.dst = f.val
		}
	}
	if fs.Changed("zero-exit") {
		cfg.ZeroExit = flags.ZeroExit
	}
}

func findConfig(input string) (string, error) {
	if rootFlags.configFn != "" {
		return rootFlags.configFn, tools.FileExists(rootFlags.configFn)
	}
	fn, ok, err := config.Find(filepath.Dir(input))
	if err != nil || !ok {
		return "", err
	}
	return fn, nil
}

// loadSettings resolves the run options. Explicit switches win over the
// config file, which wins over defaults and environment variables.
func loadSettings(fs *pflag.FlagSet, input string) (settings, error) {
	cfg := flagConfig()

	fn, err := findConfig(input)
	if err != nil {
		return settings{}, err
	}
	if fn != "" {
		logger.Infof("Using config file '%s'", fn)
		fileCfg, err := config.Load(fn)
		if err != nil {
			return settings{}, err
		}
		if err := config.Merge(&cfg, fileCfg); err != nil {
			return settings{}, err
		}
		overlayChanged(&cfg, fs)
	}

	s := settings{
		backend:  backend.ParseID(cfg.Backend),
		opts:     backend.DefaultOptions(),
		zeroExit: cfg.ZeroExit,
		csvLog:   cfg.CSVLog,
		timeout:  rootFlags.timeout,
	}
	if s.backend == backend.UnknownID {
		return settings{}, fmt.Errorf("unknown backend '%s'", cfg.Backend)
	}
	s.opts.CPU = cfg.CPU
	s.opts.Features = cfg.Features
	if s.opts.OptLevel, err = core.ParseOptLevel(cfg.OptLevel); err != nil {
		return settings{}, err
	}
	if s.opts.Reloc, err = core.ParseRelocModel(cfg.Reloc); err != nil {
		return settings{}, err
	}
	if s.opts.CodeModel, err = core.ParseCodeModel(cfg.CodeModel); err != nil {
		return settings{}, err
	}
	return s, nil
}

func handlePanic() {
	if rootFlags.debug {
		return
	}
	e := recover()
	if e == nil {
		return
	}
	logger.Printf("panic: %v\n", e)
	os.Exit(exitCodes[internalError])
}

func exitCode(err error) int {
	if err == nil {
		return exitStatus
	}
	var (
		code = getErrorCode(err)
		msg  = getErrorMessage(err)
	)
	if match := reExitStatus.MatchString(msg); !match && msg != "" {
		logger.Diagnostic("", err)
	}
	return code
}

// execute runs ir2obj with args and returns the process exit code.
func execute(args []string) int {
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	exitStatus = 0
	rootCmd.SetArgs(args)
	return exitCode(rootCmd.Execute())
}

func main() {
	defer handlePanic()
	os.Exit(execute(os.Args[1:]))
}
