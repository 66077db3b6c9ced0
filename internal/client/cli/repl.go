package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// errExit ends the REPL after the command that returned it.
var errExit = errors.New("exit")

type command struct {
	usage string
	run   func(ctx context.Context, args []string) error
}

// runREPL reads one command per line and dispatches it. Command errors are
// printed and the loop continues; it stops on EOF, on "exit"/"quit", or when
// a command returns errExit.
func runREPL(ctx context.Context, cmds map[string]command, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "herocards %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printHelp(cmds, out)
			continue
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		}

		cmd, ok := cmds[name]
		if !ok {
			fmt.Fprintln(out, "Unknown command:", name)
			continue
		}
		if err := cmd.run(ctx, args); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			fmt.Fprintln(out, "error:", err)
		}
	}
}

func printHelp(cmds map[string]command, out io.Writer) {
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(out, "Available commands:")
	for _, name := range names {
		fmt.Fprintf(out, "  %-10s %s\n", name, cmds[name].usage)
	}
	fmt.Fprintf(out, "  %-10s %s\n", "exit", "leave the program")
}
