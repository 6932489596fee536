// Package runtime provides the execution context for portfolio commands.
//
// It bundles the shared dependencies a command needs: resolved configuration, console and
// file logging, the site content, and the statistics collectors built from them.
package runtime
