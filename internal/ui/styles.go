package ui

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles derived from a catppuccin flavor.
type Styles struct {
	flavor catppuccin.Flavor
}

// NewStyles returns styles for the named flavor (latte, frappe, macchiato,
// mocha). Unknown names select mocha.
func NewStyles(flavorName string) *Styles {
	return &Styles{flavor: flavorFromName(flavorName)}
}

func flavorFromName(name string) catppuccin.Flavor {
	switch name {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	default:
		return catppuccin.Mocha
	}
}

func (s *Styles) color(c catppuccin.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex)
}

// Title is used for section headings.
func (s *Styles) Title() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(s.color(s.flavor.Mauve()))
}

// Name renders a project name.
func (s *Styles) Name() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(s.color(s.flavor.Text()))
}

// Dim renders secondary text such as paths.
func (s *Styles) Dim() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.color(s.flavor.Overlay1()))
}

// Accent highlights counts, bullets and fuzzy-matched characters.
func (s *Styles) Accent() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.color(s.flavor.Teal()))
}

// Cursor marks the selected picker row.
func (s *Styles) Cursor() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(s.color(s.flavor.Pink()))
}

// Success renders check marks and success messages.
func (s *Styles) Success() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(s.color(s.flavor.Green()))
}

// Warning renders warnings.
func (s *Styles) Warning() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(s.color(s.flavor.Yellow()))
}

// Error renders errors.
func (s *Styles) Error() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(s.color(s.flavor.Red()))
}

// Help renders the picker key hints.
func (s *Styles) Help() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.color(s.flavor.Overlay0()))
}
