// Package cli provides the interactive Vaultacks command-line client.
//
// It wires configuration, the local document cache, the blob backend and
// the overview client into an interactive REPL that keeps working with
// cached listings while the overview endpoint is unreachable.
//
// Typical flow: register (a recovery phrase is printed once) or log in with
// an existing phrase, then manage files:
//   - save / savefile: upload text or a local file, optionally public (-p)
//   - list / public: the user's files and the shared overview
//   - show / get: metadata card and content
//   - share / link / delete / deleteall / resetoverview
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
