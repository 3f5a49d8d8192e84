package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a recording stub.
type execIface interface {
	List(ctx context.Context) error
	Verify(ctx context.Context, id string) error
	Reset(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

const helpText = "Available commands: (l)ist, verify <id>, reset <id>, delete <id>, help, exit"

// runREPL reads commands from reader until EOF, "exit" or "quit", or until
// ctx is cancelled. Handler errors are reported by the handlers themselves.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprint(w, "admin> ")
		line, err := readLine(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintln(w, "Error:", err)
			}
			fmt.Fprintln(w)
			return
		}

		cmd, id, ok := parseCommand(line)
		if !ok {
			continue
		}

		switch cmd {
		case "help":
			fmt.Fprintln(w, helpText)

		case "l", "list":
			_ = a.List(ctx)

		case "verify", "reset", "delete":
			if id == "" {
				fmt.Fprintf(w, "Usage: %s <id>\n", cmd)
				continue
			}
			switch cmd {
			case "verify":
				_ = a.Verify(ctx, id)
			case "reset":
				_ = a.Reset(ctx, id)
			case "delete":
				_ = a.Delete(ctx, id)
			}

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}

// parseCommand splits a line into a command and an optional id argument.
func parseCommand(line string) (cmd, id string, ok bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "", "", false
	}
	if len(parts) > 1 {
		id = parts[1]
	}
	return strings.ToLower(parts[0]), id, true
}
