package launcher

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// ErrEditorNotFound is returned when the resolved editor command is not on
// PATH.
var ErrEditorNotFound = errors.New("editor not found")

// aliases maps accepted editor names to their executables.
var aliases = map[string]string{
	"code":      "code",
	"vscode":    "code",
	"cursor":    "cursor",
	"vim":       "vim",
	"nvim":      "nvim",
	"neovim":    "nvim",
	"emacs":     "emacs",
	"sublime":   "subl",
	"subl":      "subl",
	"atom":      "atom",
	"idea":      "idea",
	"intellij":  "idea",
	"webstorm":  "webstorm",
	"pycharm":   "pycharm",
	"goland":    "goland",
	"rustrover": "rustrover",
	"zed":       "zed",
}

// terminalEditors run in the foreground and own the terminal until they exit.
var terminalEditors = map[string]bool{
	"vi":    true,
	"vim":   true,
	"nvim":  true,
	"nano":  true,
	"micro": true,
	"hx":    true,
}

// Launcher opens paths with one editor.
type Launcher struct {
	editor   string
	lookPath func(string) (string, error)
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

// Option customises a Launcher.
type Option func(*Launcher)

// WithLookPath replaces exec.LookPath, mainly for tests.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(l *Launcher) {
		l.lookPath = fn
	}
}

// WithStdio sets the streams attached to terminal editors. They default to
// the process's own stdio.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(l *Launcher) {
		l.stdin, l.stdout, l.stderr = stdin, stdout, stderr
	}
}

// New creates a Launcher for editor, an alias or a command line.
func New(editor string, opts ...Option) *Launcher {
	l := &Launcher{
		editor:   strings.TrimSpace(editor),
		lookPath: exec.LookPath,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Editor returns the editor as configured, before alias resolution.
func (l *Launcher) Editor() string {
	return l.editor
}

// Resolve returns the executable name and the extra arguments for the
// configured editor. Alias lookup is case-insensitive; unknown names are
// returned unchanged.
func (l *Launcher) Resolve() (string, []string) {
	fields := strings.Fields(l.editor)
	if len(fields) == 0 {
		return "", nil
	}

	name := fields[0]
	if cmd, ok := aliases[strings.ToLower(name)]; ok {
		name = cmd
	}
	return name, fields[1:]
}

// Available reports whether the resolved editor is on PATH.
func (l *Launcher) Available() bool {
	name, _ := l.Resolve()
	if name == "" {
		return false
	}
	_, err := l.lookPath(name)
	return err == nil
}

// Launch opens path in the editor. GUI editors are started and released;
// terminal editors are run to completion.
func (l *Launcher) Launch(path string) error {
	name, args := l.Resolve()
	if name == "" {
		return fmt.Errorf("%w: no editor configured", ErrEditorNotFound)
	}

	bin, err := l.lookPath(name)
	if err != nil {
		return fmt.Errorf("%w: %s is not installed or not in PATH", ErrEditorNotFound, name)
	}

	// #nosec G204 -- the editor is chosen by the user on purpose
	cmd := exec.Command(bin, append(args, path)...)

	if l.IsTerminal() {
		cmd.Stdin, cmd.Stdout, cmd.Stderr = l.stdin, l.stdout, l.stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("editor %s exited with error: %w", name, err)
		}
		return nil
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start editor %s: %w", name, err)
	}
	// Detach: the editor outlives quick-proj and is never waited for.
	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("failed to detach editor %s: %w", name, err)
	}
	return nil
}

// IsTerminal reports whether the editor runs inside the terminal.
func (l *Launcher) IsTerminal() bool {
	name, _ := l.Resolve()
	base := name
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	return terminalEditors[strings.ToLower(base)]
}

// Aliases returns every accepted alias, sorted.
func Aliases() []string {
	names := make([]string, 0, len(aliases))
	for alias := range aliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}

// AvailableEditors returns the sorted aliases whose executable is on PATH.
func AvailableEditors(lookPath func(string) (string, error)) []string {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	var available []string
	for _, alias := range Aliases() {
		if _, err := lookPath(aliases[alias]); err == nil {
			available = append(available, alias)
		}
	}
	return available
}
