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
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Scan(ctx context.Context, path string) error
	History(ctx context.Context, page int) error
	Recommend(ctx context.Context, diseaseKey string) error
	Delete(ctx context.Context, ids []string) error
	Profile(ctx context.Context) error
	Settings(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the RiceGuard CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help             — show available commands
//	  - register         — create an account
//	  - login            — authenticate
//	  - exit | quit      — leave the program
//
//	Logged in:
//	  - help             — show available commands
//	  - scan <file>      — submit a leaf image for analysis
//	  - history [page]   — browse scan history
//	  - recommend <key>  — show treatment advice for a disease
//	  - delete <id...>   — delete one or more scans
//	  - profile          — show the logged-in user
//	  - settings         — show current settings
//	  - logout           — log out
//	  - exit | quit      — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// report their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("rg> %s ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: scan <file>, history [page], recommend <disease>, delete <id...>, profile, settings, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "scan":
			if len(args) == 0 {
				printlnFn("Usage: scan <file>")
				continue
			}
			_ = a.Scan(ctx, args[0])

		case "h", "history":
			page := 1
			if len(args) > 0 {
				if _, err := fmt.Sscanf(args[0], "%d", &page); err != nil || page < 1 {
					printlnFn("Usage: history [page]")
					continue
				}
			}
			_ = a.History(ctx, page)

		case "recommend":
			if len(args) == 0 {
				printlnFn("Usage: recommend <disease>")
				continue
			}
			_ = a.Recommend(ctx, args[0])

		case "delete":
			if len(args) == 0 {
				printlnFn("Usage: delete <id...>")
				continue
			}
			_ = a.Delete(ctx, args)

		case "profile":
			_ = a.Profile(ctx)

		case "settings":
			_ = a.Settings(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
