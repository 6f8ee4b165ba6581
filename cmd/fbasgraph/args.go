package main

import (
	"strings"

	"github.com/spf13/cobra"
)

// execute runs the root command, accepting the input path either before or
// after the algorithm subcommand.
func execute(args []string) error {
	rootCmd.SetArgs(inputAfterCommand(rootCmd, args))
	return rootCmd.Execute()
}

// inputAfterCommand rewrites "[flags] nodes.json <algorithm> ..." into
// "[flags] <algorithm> nodes.json ..." so cobra resolves the subcommand.
// Anything else is returned unchanged.
func inputAfterCommand(root *cobra.Command, args []string) []string {
	input := -1
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return args
		}
		if arg != "-" && strings.HasPrefix(arg, "-") {
			if takesValue(root, arg) {
				i++
			}
			continue
		}

		if isRankCommand(root, arg) {
			if input < 0 {
				return args
			}
			out := make([]string, 0, len(args))
			out = append(out, args[:input]...)
			out = append(out, args[input+1:i+1]...)
			out = append(out, args[input])
			return append(out, args[i+1:]...)
		}
		if input >= 0 {
			return args
		}
		input = i
	}
	return args
}

// takesValue reports whether a persistent flag given without "=" consumes the
// next argument.
func takesValue(root *cobra.Command, arg string) bool {
	if strings.Contains(arg, "=") {
		return false
	}
	flags := root.PersistentFlags()
	if name := strings.TrimPrefix(arg, "--"); name != arg {
		f := flags.Lookup(name)
		return f != nil && f.Value.Type() != "bool"
	}
	name := strings.TrimPrefix(arg, "-")
	if len(name) != 1 {
		return false
	}
	f := flags.ShorthandLookup(name)
	return f != nil && f.Value.Type() != "bool"
}

func isRankCommand(root *cobra.Command, name string) bool {
	for _, cmd := range root.Commands() {
		if cmd.RunE != nil && cmd.Name() == name {
			return true
		}
	}
	return false
}
