// Package main hosts the reelcheck CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, applies
// flag overrides to a private copy, and hands the result to the internal
// packages. check runs the full batch; overrides, normalize, and config are
// small helpers for maintaining the override file and configuration.
package main
