package scanner

import (
	"strings"

	"github.com/shinji-kodama/quick-proj/internal/model"
)

// FilterProjects returns the projects matching query without rescanning.
//
// The query is split on whitespace. A project is kept when every term is a
// case-insensitive substring of its name or of its full path. An empty or
// blank query returns projects unchanged. The input order is preserved.
func FilterProjects(projects []model.Project, query string) []model.Project {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return projects
	}

	filtered := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		name := strings.ToLower(p.Name)
		path := strings.ToLower(p.Path)
		if matchesAll(terms, name, path) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func matchesAll(terms []string, name, path string) bool {
	for _, term := range terms {
		if !strings.Contains(name, term) && !strings.Contains(path, term) {
			return false
		}
	}
	return true
}
