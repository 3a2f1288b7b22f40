// Package cli provides the interactive tasktracker command-line client.
//
// It wires configuration, the local session store, API services and a
// read–eval–print loop. A session saved by an earlier run is restored on
// start, so users stay signed in until they log out or the token expires.
//
// Commands:
//   - signup / login / logout
//   - list [all|active|completed]
//   - add <text>, edit <n> [text], done <n>, undo <n>, delete <n>
//
// Tasks are addressed by their number in the most recent listing or by
// their full id. The REPL is started via App.Run, which blocks until the
// user exits.
package cli
