// Package ui renders everything quick-proj shows to a human: the
// interactive project picker and the styled text printed by the commands.
//
// The picker is a bubbletea program drawn on stderr, so a shell wrapper can
// capture the chosen path from stdout. Typing narrows the list with a fuzzy
// match on project name and path; arrow keys move the cursor, enter picks
// and esc or ctrl+c cancels.
//
// Colours come from the catppuccin palette through lipgloss. lipgloss
// drops colours automatically when the output is not a terminal.
package ui
