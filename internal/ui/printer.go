package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/shinji-kodama/quick-proj/internal/model"
)

// Printer writes styled command output.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	styles *Styles
	home   string
}

// NewPrinter creates a Printer. Messages go to out, errors to errOut. Paths
// under home are shown with a leading "~".
func NewPrinter(out, errOut io.Writer, styles *Styles, home string) *Printer {
	if styles == nil {
		styles = NewStyles("")
	}
	return &Printer{out: out, errOut: errOut, styles: styles, home: home}
}

// ShortenHome replaces a leading home directory in path with "~".
// Only whole path components match, so "/home/user2" is not shortened for
// home "/home/user".
func ShortenHome(path, home string) string {
	home = strings.TrimRight(home, `/\`)
	if home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home) {
		rest := path[len(home):]
		if rest[0] == '/' || rest[0] == filepath.Separator {
			return "~" + rest
		}
	}
	return path
}

// Summary prints "N projects found in Xms".
func (p *Printer) Summary(count int, elapsed time.Duration) {
	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "%s %s projects found in %dms\n",
		p.styles.Success().Render("✓"),
		p.styles.Accent().Render(fmt.Sprint(count)),
		elapsed.Milliseconds())
}

// ProjectItem formats a project as "name (path)" for lists and the picker.
func (p *Printer) ProjectItem(project model.Project) string {
	return fmt.Sprintf("%s %s",
		p.styles.Name().Render(project.Name),
		p.styles.Dim().Render("("+ShortenHome(project.Path, p.home)+")"))
}

// ProjectList prints every project followed by a total line.
func (p *Printer) ProjectList(projects []model.Project) {
	if len(projects) == 0 {
		p.Warning("No projects found.")
		return
	}

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.styles.Title().Render("Projects:"))
	fmt.Fprintln(p.out)
	for _, project := range projects {
		fmt.Fprintf(p.out, "  %s %s\n", p.styles.Accent().Render("•"), p.ProjectItem(project))
	}
	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "Total: %s projects\n", p.styles.Accent().Render(fmt.Sprint(len(projects))))
}

// RootPaths prints the configured roots with an existence mark each.
func (p *Printer) RootPaths(roots []string, exists func(string) bool) {
	if len(roots) == 0 {
		p.Warning("No root paths configured.")
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, "Add a path with:")
		fmt.Fprintf(p.out, "  %s %s\n", p.styles.Accent().Render("quick-proj add"), p.styles.Dim().Render("<PATH>"))
		return
	}

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.styles.Title().Render("Registered paths:"))
	fmt.Fprintln(p.out)
	for i, root := range roots {
		mark := p.styles.Error().Render("✗")
		if exists(root) {
			mark = p.styles.Success().Render("✓")
		}
		fmt.Fprintf(p.out, "  %s %d. %s\n", mark, i+1, ShortenHome(root, p.home))
	}
	fmt.Fprintln(p.out)
}

// ConfigPath prints the config file location and whether it exists.
func (p *Printer) ConfigPath(path string, exists bool) {
	state := p.styles.Warning().Render("No")
	if exists {
		state = p.styles.Success().Render("Yes")
	}

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.styles.Title().Render("Configuration:"))
	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "  Path: %s\n", p.styles.Accent().Render(path))
	fmt.Fprintf(p.out, "  Exists: %s\n", state)
	fmt.Fprintln(p.out)
}

// KeyValue prints an indented "key: value" line.
func (p *Printer) KeyValue(key, value string) {
	fmt.Fprintf(p.out, "  %s: %s\n", key, value)
}

// Success prints a message prefixed with a check mark.
func (p *Printer) Success(message string) {
	fmt.Fprintf(p.out, "%s %s\n", p.styles.Success().Render("✓"), message)
}

// Warning prints a message prefixed with a warning sign.
func (p *Printer) Warning(message string) {
	fmt.Fprintf(p.out, "%s %s\n", p.styles.Warning().Render("⚠"), message)
}

// Info prints a neutral message.
func (p *Printer) Info(message string) {
	fmt.Fprintf(p.out, "%s %s\n", p.styles.Accent().Render("ℹ"), message)
}

// Error prints an error message on the error stream.
func (p *Printer) Error(message string) {
	fmt.Fprintf(p.errOut, "%s %s\n", p.styles.Error().Render("Error:"), message)
}
