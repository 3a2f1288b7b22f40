package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Done(ctx context.Context, args []string) error
	Undo(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: signup, login, exit"
	helpLoggedIn  = "Available commands: (l)ist [all|active|completed], add <text>, edit <n> [text], done <n>, undo <n>, (rm) delete <n>, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the tasktracker CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'; the remaining tokens are passed as args.
// Task commands require a signed-in user. Errors returned by handlers are
// printed and the loop continues. The loop exits on EOF or when the user
// types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("tt %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var handler func(ctx context.Context, args []string) error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue

		case "signup":
			report(a.Signup(ctx))
			continue

		case "login":
			report(a.Login(ctx))
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "logout":
			handler = func(ctx context.Context, _ []string) error { return a.Logout(ctx) }
		case "l", "list":
			handler = a.List
		case "add":
			handler = a.Add
		case "done":
			handler = a.Done
		case "undo":
			handler = a.Undo
		case "edit":
			handler = a.Edit
		case "delete", "rm":
			handler = a.Delete

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if !a.isLoggedIn() {
			printlnFn("Please log in first (signup or login).")
			continue
		}
		report(handler(ctx, args))
	}
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", err.Error())
	}
}
