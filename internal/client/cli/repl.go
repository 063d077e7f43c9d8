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
	Login(ctx context.Context, args []string) error
	Register(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	Go(ctx context.Context, path string) error
	Refresh(ctx context.Context) error
	Emoji(ctx context.Context, args []string) error
	Chat(ctx context.Context, id string) error
	Say(ctx context.Context, text string) error
	Diary(ctx context.Context, args []string) error
	Post(ctx context.Context, args []string) error
	Warm(ctx context.Context, id string) error
	Treehole(ctx context.Context) error
	Done(ctx context.Context, id string) error
	Export(ctx context.Context, args []string) error
	Greet(ctx context.Context) error
}

const (
	helpAnonymous = "Available commands: login [学号], register [学号 邮箱 昵称], go <path>, greet, exit"
	helpSignedIn  = "Available commands: go <path>, refresh, emoji add|rm, diary add, chat <id>, say <text>, " +
		"treehole, post <text>, warm <id>, done <id>, export [yaml|json] [file], greet, logout, exit"
)

// runREPL starts the read–eval–print loop of the moodisland client.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. The loop exits on EOF, on "exit" or "quit",
// or when ctx is cancelled.
//
// Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("island %s> ", statusFn()))

		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		rest := strings.Join(args, " ")

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "login":
			report(a.Login(ctx, args))

		case "register":
			report(a.Register(ctx, args))

		case "logout":
			report(a.Logout(ctx))

		case "go":
			if len(args) == 0 {
				printlnFn("Usage: go <path>")
				continue
			}
			report(a.Go(ctx, args[0]))

		case "refresh":
			report(a.Refresh(ctx))

		case "emoji":
			report(a.Emoji(ctx, args))

		case "chat":
			if len(args) == 0 {
				printlnFn("Usage: chat <id>")
				continue
			}
			report(a.Chat(ctx, args[0]))

		case "say":
			if rest == "" {
				printlnFn("Usage: say <text>")
				continue
			}
			report(a.Say(ctx, rest))

		case "diary":
			report(a.Diary(ctx, args))

		case "treehole":
			report(a.Treehole(ctx))

		case "post":
			report(a.Post(ctx, args))

		case "warm":
			if len(args) == 0 {
				printlnFn("Usage: warm <id>")
				continue
			}
			report(a.Warm(ctx, args[0]))

		case "done":
			if len(args) == 0 {
				printlnFn("Usage: done <id>")
				continue
			}
			report(a.Done(ctx, args[0]))

		case "export":
			report(a.Export(ctx, args))

		case "greet":
			report(a.Greet(ctx))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", err)
	}
}
