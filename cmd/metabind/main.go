// Package main is the metabind command line tool.
//
// It loads YAML schemas or Go source packages, prints the derived model trees and binds YAML
// documents or framed records to schema types, reporting sparse data,
// diagnostics and constraint violations.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
)

const (
	Version = "0.1.0"
	appName = "metabind"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// errInvalid marks a run that completed but found problems in its input.
var errInvalid = errors.New("invalid")

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(exitUsage)
		}
	}()

	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type command struct {
	usage string
	run   func(c *cli, args []string) error
}

const (
	usageDescribe = "describe -schema FILE|-pkg PATTERNS [-type NAME]"
	usageCheck    = "check -schema FILE"
	usageBind     = "bind -schema FILE|-pkg PATTERNS -type NAME -data FILE|- [-out FILE]"
	usageDecode   = "decode -schema FILE|-pkg PATTERNS -type NAME -in FILE|-"
)

var commands = map[string]command{
	"describe": {usageDescribe, runDescribe},
	"check":    {usageCheck, runCheck},
	"bind":     {usageBind, runBind},
	"decode":   {usageDecode, runDecode},
}

// cli carries the streams of one invocation.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	switch args[0] {
	case "-h", "-help", "--help", "help":
		printUsage(stdout)
		return exitOK
	case "version", "-version", "--version":
		_, _ = fmt.Fprintf(stdout, "%s %s\n", appName, Version)
		return exitOK
	}

	cmd, ok := commands[args[0]]
	if !ok {
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printUsage(stderr)
		return exitUsage
	}

	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}

	err := cmd.run(c, args[1:])
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.Is(err, errUsage):
		_, _ = fmt.Fprintf(stderr, "%v\nUsage: %s %s\n", err, appName, cmd.usage)
		return exitUsage
	case errors.Is(err, errInvalid):
		return exitFailure
	default:
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
}
