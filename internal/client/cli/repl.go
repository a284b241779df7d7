package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/vaultacks/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Refresh(ctx context.Context) error
	List(ctx context.Context) error
	Public(ctx context.Context) error
	Save(ctx context.Context, args []string) error
	SaveFile(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Get(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Share(ctx context.Context, args []string) error
	Link(ctx context.Context, args []string) error
	DeleteAll(ctx context.Context) error
	ResetOverview(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: (l)ist, public, (r)efresh, save, savefile, show, get, delete, share, link, deleteall, resetoverview, whoami, logout, exit"
)

// report prints a command failure. Fetch failures were already shown by the
// notifier and are not repeated.
func report(err error) {
	if err == nil || errors.Is(err, common.ErrFetchFailed) {
		return
	}
	printlnFn("Error:", err)
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF or when the user types "exit" or "quit".
//
// Commands other than help, register, login and exit require a session;
// without one the user is asked to log in first.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("vx> %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		case "register":
			report(a.Register(ctx))
			continue
		case "login":
			report(a.Login(ctx))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !a.isLoggedIn() {
			if isCommand(cmd) {
				printlnFn("Please login first")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "logout":
			report(a.Logout(ctx))
		case "whoami":
			report(a.WhoAmI(ctx))
		case "r", "refresh":
			report(a.Refresh(ctx))
		case "l", "list":
			report(a.List(ctx))
		case "public":
			report(a.Public(ctx))
		case "save":
			report(a.Save(ctx, args))
		case "savefile":
			report(a.SaveFile(ctx, args))
		case "show":
			report(a.Show(ctx, args))
		case "get":
			report(a.Get(ctx, args))
		case "delete", "rm":
			report(a.Delete(ctx, args))
		case "share":
			report(a.Share(ctx, args))
		case "link":
			report(a.Link(ctx, args))
		case "deleteall":
			report(a.DeleteAll(ctx))
		case "resetoverview":
			report(a.ResetOverview(ctx))
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func isCommand(cmd string) bool {
	switch cmd {
	case "logout", "whoami", "r", "refresh", "l", "list", "public", "save", "savefile",
		"show", "get", "delete", "rm", "share", "link", "deleteall", "resetoverview":
		return true
	}
	return false
}

// Root prints the banner, starts the connectivity watcher and runs the REPL
// until the user exits.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Vaultacks: encrypted file storage")
	renderFooter(a.out)
	fmt.Fprintln(a.out, "Type 'register' to create an identity or 'login' to use your recovery phrase.")

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) status() string {
	id, _ := a.session()
	if id == nil {
		return fmt.Sprintf("(%s)", a.Mode())
	}
	return fmt.Sprintf("(%s %s)", shortAddress(id.Address), a.Mode())
}
