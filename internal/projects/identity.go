package projects

import "strings"

// FallbackName is shown when no name field resolves to anything usable.
const FallbackName = "Unnamed Project"

// ResolveDisplayName picks the display name for a project record. Strict
// priority: payload projectInfo.name, then the payload's legacy name slot,
// then the record's top-level name, then FallbackName. A higher-priority
// source wins whenever it is non-blank after trimming.
func ResolveDisplayName(rec *Project, p *Payload) string {
	if p != nil {
		if p.ProjectInfo != nil {
			if name := strings.TrimSpace(p.ProjectInfo.Name); name != "" {
				return name
			}
		}
		if name := strings.TrimSpace(p.Name); name != "" {
			return name
		}
	}
	if rec != nil {
		if name := strings.TrimSpace(rec.Name); name != "" {
			return name
		}
	}
	return FallbackName
}

// DedupKey joins the trimmed project name and owner. Two projects with equal
// keys are treated as the same project by the save path. This is a heuristic,
// not a strong identity: the key is case-sensitive and collides whenever a
// user reuses a name/owner pair.
func DedupKey(name, owner string) string {
	return strings.TrimSpace(name) + "_" + strings.TrimSpace(owner)
}

// OwnerAndAddress extracts the secondary display fields, empty when absent.
func OwnerAndAddress(p *Payload) (owner, address string) {
	if p == nil || p.ProjectInfo == nil {
		return "", ""
	}
	return p.ProjectInfo.Owner, p.ProjectInfo.Address
}
