package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context, term string) error
	Show(ctx context.Context, id string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Import(ctx context.Context, path string) error
	Export(ctx context.Context, path string) error
	Hash(ctx context.Context) error
}

var errLoginRequired = errors.New("login required")

// runREPL reads one command per line and dispatches it. The loop ends on
// EOF or "exit"/"quit".
//
//	Always:
//	  - help                 show available commands
//	  - (l)ist [term]        list users, optionally filtered by name
//	  - show <id>            show one user
//	  - export <file>        write all users to a JSON file
//	  - hash                 print a bcrypt hash for a credentials file
//	  - login | logout
//	  - exit | quit
//
//	Logged in:
//	  - add                  create a user
//	  - edit <id>            change name and/or email
//	  - delete <id>          remove a user
//	  - import <file>        add users from a JSON file
//
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("users %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if err := dispatch(ctx, a, cmd, args); err != nil {
			if errors.Is(err, errExit) {
				printlnFn("Bye!")
				return
			}
			printlnFn("error:", err.Error())
		}
	}
}

var errExit = errors.New("exit")

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	arg := func(usage string) (string, error) {
		if len(args) == 0 {
			return "", fmt.Errorf("usage: %s", usage)
		}
		return args[0], nil
	}
	mutating := func(fn func() error) error {
		if !a.isLoggedIn() {
			return errLoginRequired
		}
		return fn()
	}

	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn("Available commands: (l)ist [term], show <id>, add, edit <id>, delete <id>, import <file>, export <file>, hash, logout, exit")
		} else {
			printlnFn("Available commands: (l)ist [term], show <id>, export <file>, hash, login, exit")
		}
		return nil

	case "l", "list":
		return a.List(ctx, strings.Join(args, " "))

	case "show":
		id, err := arg("show <id>")
		if err != nil {
			return err
		}
		return a.Show(ctx, id)

	case "export":
		path, err := arg("export <file>")
		if err != nil {
			return err
		}
		return a.Export(ctx, path)

	case "hash":
		return a.Hash(ctx)

	case "login":
		return a.Login(ctx)

	case "logout":
		return a.Logout(ctx)

	case "add":
		return mutating(func() error { return a.Add(ctx) })

	case "edit":
		id, err := arg("edit <id>")
		if err != nil {
			return err
		}
		return mutating(func() error { return a.Edit(ctx, id) })

	case "delete":
		id, err := arg("delete <id>")
		if err != nil {
			return err
		}
		return mutating(func() error { return a.Delete(ctx, id) })

	case "import":
		path, err := arg("import <file>")
		if err != nil {
			return err
		}
		return mutating(func() error { return a.Import(ctx, path) })

	case "exit", "quit":
		return errExit

	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}
