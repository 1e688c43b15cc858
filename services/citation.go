package services

import "fmt"

// AuthorSegment renders the author part of a citation:
// one author verbatim, two joined with " & ", three or more collapse to
// "<first> et al.".
func AuthorSegment(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return authors[0]
	case 2:
		return authors[0] + " & " + authors[1]
	default:
		return authors[0] + " et al."
	}
}

// BuildCitation produces the stored bibliographic string:
// "{authors} ({year}). {title}. {program}, {university}."
func BuildCitation(authors []string, year int, title, program, university string) string {
	return fmt.Sprintf("%s (%d). %s. %s, %s.", AuthorSegment(authors), year, title, program, university)
}
