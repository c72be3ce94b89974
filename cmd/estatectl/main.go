// Command estatectl signs in to the estate backend from a terminal. The token
// and user are kept in a JSON file between invocations.
//
//	estatectl [--api URL] [--session-file PATH] [--debug] <command> [flags]
//
// Commands: login, register, logout, whoami, verify.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/estate-templui/internal/app/session"
	"github.com/FACorreiaa/estate-templui/internal/pkg/apiclient"
	"github.com/FACorreiaa/estate-templui/internal/pkg/storage"
	"github.com/FACorreiaa/estate-templui/pkg/logger"
)

const defaultAPI = "http://localhost:8090/api"

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}

type cli struct {
	stdout, stderr io.Writer
	manager        *session.Manager
	notifier       *consoleNotifier
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	global := flag.NewFlagSet("estatectl", flag.ContinueOnError)
	global.SetOutput(stderr)
	apiURL := global.String("api", envOr(getenv, "ESTATE_API_URL", defaultAPI), "backend base URL")
	sessionFile := global.String("session-file", getenv("ESTATE_SESSION_FILE"), "where the session is kept (default: user config dir)")
	timeout := global.Duration("timeout", 15*time.Second, "backend request timeout")
	debug := global.Bool("debug", false, "log backend traffic to stderr")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: estatectl [flags] login|register|logout|whoami|verify")
		return 2
	}

	path := *sessionFile
	if path == "" {
		var err error
		if path, err = storage.DefaultFilePath(); err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
	}

	log := zap.NewNop()
	if *debug {
		if err := logger.Init(zapcore.DebugLevel, zap.String("service", "estatectl")); err == nil {
			log = logger.Log
		}
	}

	store := storage.NewFile(path)
	api := apiclient.New(strings.TrimRight(*apiURL, "/"),
		apiclient.WithTimeout(*timeout),
		apiclient.WithLogger(log),
		apiclient.WithResponseInterceptor(apiclient.LogErrors(log)),
	).WithTokenSource(session.TokenFrom(store))

	notifier := &consoleNotifier{out: stdout, errOut: stderr}
	c := &cli{
		stdout:   stdout,
		stderr:   stderr,
		notifier: notifier,
		manager:  session.NewManager(api, store, notifier, &printingNavigator{out: stdout}, log),
	}

	cmd, rest := global.Arg(0), global.Args()[1:]
	var err error
	switch cmd {
	case "login":
		err = c.login(ctx, rest, getenv)
	case "register":
		err = c.register(ctx, rest, getenv)
	case "logout":
		err = c.logout(ctx)
	case "whoami":
		err = c.whoami(ctx)
	case "verify":
		err = c.verify(ctx)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		return 2
	}

	switch {
	case errors.Is(err, errUsage):
		return 2
	case err != nil:
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	case notifier.failed:
		return 1
	}
	return 0
}

func (c *cli) login(ctx context.Context, args []string, getenv func(string) string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	email := fs.String("email", "", "account email")
	password := fs.String("password", getenv("ESTATE_PASSWORD"), "account password (or ESTATE_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *email == "" || *password == "" {
		fmt.Fprintln(c.stderr, "login needs --email and --password")
		return errUsage
	}
	c.manager.Login(ctx, *email, *password)
	return nil
}

func (c *cli) register(ctx context.Context, args []string, getenv func(string) string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	var in session.RegisterInput
	fs.StringVar(&in.Email, "email", "", "account email")
	fs.StringVar(&in.Password, "password", getenv("ESTATE_PASSWORD"), "account password (or ESTATE_PASSWORD)")
	fs.StringVar(&in.FirstName, "first", "", "first name")
	fs.StringVar(&in.LastName, "last", "", "last name")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if in.Email == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" {
		fmt.Fprintln(c.stderr, "register needs --email, --password, --first and --last")
		return errUsage
	}
	c.manager.Register(ctx, in)
	return nil
}

func (c *cli) logout(ctx context.Context) error {
	c.manager.Hydrate(ctx)
	if !c.manager.IsAuthenticated() {
		fmt.Fprintln(c.stdout, "Not signed in.")
		return nil
	}
	c.manager.Logout(ctx)
	return nil
}

// whoami reads the saved session without asking the backend.
func (c *cli) whoami(ctx context.Context) error {
	c.manager.Hydrate(ctx)
	s, ok := c.manager.Current()
	if !ok {
		fmt.Fprintln(c.stdout, "Not signed in.")
		c.notifier.failed = true
		return nil
	}
	printSession(c.stdout, s.Username, s.ID, s.Roles)
	return nil
}

func (c *cli) verify(ctx context.Context) error {
	<-c.manager.Bootstrap(ctx)
	s, ok := c.manager.Current()
	if !ok {
		fmt.Fprintln(c.stdout, "Not signed in.")
		c.notifier.failed = true
		return nil
	}
	fmt.Fprintln(c.stdout, "Session is valid.")
	printSession(c.stdout, s.Username, s.ID, s.Roles)
	return nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}
