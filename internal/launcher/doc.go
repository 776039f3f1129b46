// Package launcher opens a project directory in the user's editor.
//
// Editors are named either by a well-known alias ("vscode", "neovim",
// "intellij", ...) that maps to the executable actually installed on PATH,
// or by any command line ("code --new-window", "/opt/bin/myedit"). Extra
// words after the editor name are passed through as arguments, followed by
// the project path.
//
// GUI editors are started detached: Launch returns as soon as the process
// has started, and quick-proj exits without waiting for it. Terminal
// editors (vim, nvim, nano, ...) need the controlling terminal, so they run
// in the foreground with the CLI's stdio attached and Launch waits for them.
package launcher
