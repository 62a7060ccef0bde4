package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/swiftmart/storefront/internal/guard"
)

// cliNavigator maps the browser navigation contract onto the CLI: the
// "current route" is the view the running command represents, and a
// redirect to the login entry point becomes a one-time re-login hint.
type cliNavigator struct {
	mu      sync.Mutex
	current string
}

// newNavigator derives the starting route from the command so that a 401
// during login itself does not trigger a redundant redirect.
func newNavigator(command string) *cliNavigator {
	route := "/"
	if command == "login" || command == "register" {
		route = guard.DefaultLoginRoute
	}
	return &cliNavigator{current: route}
}

func (n *cliNavigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *cliNavigator) NavigateTo(route string) {
	n.mu.Lock()
	n.current = route
	n.mu.Unlock()

	if route == guard.DefaultLoginRoute {
		fmt.Fprintln(os.Stderr, "Session expired. Please run 'storefront login' again.")
	}
}
