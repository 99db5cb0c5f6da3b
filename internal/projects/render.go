package projects

import (
	"html"
	"strings"
	"time"
)

// Entry is one display-ready project in the list. Text fields that came from
// users are HTML-escaped here, at the point the display value is produced, so
// no caller can forget to. Optional fields are omitted, not blanked, when the
// source value is empty.
type Entry struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Owner       string    `json:"owner,omitempty"`
	Address     string    `json:"address,omitempty"`
	Description string    `json:"description,omitempty"`
	Stats       *Stats    `json:"stats,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RenderEntry turns a raw record into a display entry. A payload that fails
// to parse downgrades that single record to its top-level fields; it never
// fails the list.
func RenderEntry(rec *Project) Entry {
	p, err := ParsePayload(rec.Payload)
	if err != nil {
		p = nil
	}

	owner, address := OwnerAndAddress(p)

	e := Entry{
		ID:          rec.ID,
		DisplayName: html.EscapeString(ResolveDisplayName(rec, p)),
		Owner:       html.EscapeString(owner),
		Address:     html.EscapeString(address),
		Description: html.EscapeString(rec.Description),
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}

	if stats := ExtractStats(p); stats.HasData {
		for i, prod := range stats.Products {
			stats.Products[i] = html.EscapeString(prod)
		}
		e.Stats = &stats
	}

	return e
}

// RenderList transforms the caller's projects into display entries, filtered
// by an optional case-insensitive search term matched as a substring of the
// resolved name, owner, or address.
func RenderList(recs []Project, term string) []Entry {
	term = strings.ToLower(strings.TrimSpace(term))

	entries := make([]Entry, 0, len(recs))
	for i := range recs {
		rec := &recs[i]
		if term != "" && !matchesTerm(rec, term) {
			continue
		}
		entries = append(entries, RenderEntry(rec))
	}
	return entries
}

func matchesTerm(rec *Project, term string) bool {
	p, err := ParsePayload(rec.Payload)
	if err != nil {
		p = nil
	}
	owner, address := OwnerAndAddress(p)

	for _, field := range []string{ResolveDisplayName(rec, p), owner, address} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// EmptyMessage distinguishes "nothing saved yet" from "nothing matched the
// search"; the two are different states for the user.
func EmptyMessage(total, matched int, term string) string {
	if total == 0 {
		return "No saved projects yet"
	}
	if matched == 0 && term != "" {
		return "No projects match your search"
	}
	return ""
}
