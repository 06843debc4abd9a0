// tkatool is a CLI utility for TKA motions and sequence files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		printUsage(stderr)
		return errUsage
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "orient":
		return cmdOrient(args, stdout, stderr)
	case "angle":
		return cmdAngle(args, stdout, stderr)
	case "validate", "check":
		return cmdValidate(args, stdout, stderr)
	case "info":
		return cmdInfo(args, stdout, stderr)
	case "render":
		return cmdRender(args, stdout, stderr)
	case "config":
		return cmdConfig(args, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return errUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `tkatool - TKA pictograph utility

Usage:
  tkatool <command> [options]

Commands:
  orient [options]              Compute the end orientation of a motion
  angle <loc> <ori> | --all     Staff rotation angle for a location and orientation
  validate <sequence.yaml>      Check a sequence file
  info <sequence.yaml>          Show sequence contents
  render [options] <sequence>   Write PNG frames of a sequence
  config [--save]               Print the effective configuration

Examples:
  tkatool orient --type pro --ori in --dir cw --turns 1
  tkatool angle ne clock
  tkatool validate sequences/abc.yaml
  tkatool render --out frames --size 475 sequences/abc.yaml`)
}

// newFlagSet returns a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, stderr io.Writer, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: tkatool %s %s\n", name, usage)
		fs.PrintDefaults()
	}
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}
