package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/FACorreiaa/estate-templui/internal/app/models"
)

// consoleNotifier prints toasts and remembers whether any was an error, which
// decides the exit code.
type consoleNotifier struct {
	out, errOut io.Writer
	failed      bool
}

func (n *consoleNotifier) Success(msg string) { fmt.Fprintln(n.out, msg) }

func (n *consoleNotifier) Error(msg string) {
	n.failed = true
	fmt.Fprintln(n.errOut, msg)
}

// printingNavigator has no screens to switch to; it tells the user where the
// web app would have taken them.
type printingNavigator struct {
	out io.Writer
}

func (n *printingNavigator) Navigate(route string) {
	fmt.Fprintf(n.out, "Next: %s\n", route)
}

func printSession(w io.Writer, username, id string, roles []models.Role) {
	labels := make([]string, len(roles))
	for i, r := range roles {
		labels[i] = r.Label()
	}
	fmt.Fprintf(w, "%s (%s)\nRoles: %s\n", username, id, strings.Join(labels, ", "))
}
