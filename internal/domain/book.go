// Package domain contains the core entities of the book review catalog.
package domain

import "strings"

// Book is a catalog entry. Books are created by any authenticated actor
// and are read-only afterwards.
type Book struct {
	Record
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre,omitempty"`
}

// BookFilter narrows a book listing.
type BookFilter struct {
	// Author matches case-insensitively anywhere in the author name.
	Author string
	// Genre must match exactly.
	Genre string
}

// Normalize trims surrounding whitespace from the filter values.
func (f BookFilter) Normalize() BookFilter {
	return BookFilter{
		Author: strings.TrimSpace(f.Author),
		Genre:  strings.TrimSpace(f.Genre),
	}
}
