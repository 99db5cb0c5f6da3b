package projects

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SaveInput carries everything a save needs. Form state is passed explicitly;
// nothing is read from ambient session or client state.
type SaveInput struct {
	// ID of the currently open project, if the client knows it. Empty for a
	// fresh save.
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data"`
	// SaveAndNew forces creation of a new record even when an existing
	// project matches the dedup key.
	SaveAndNew bool `json:"save_and_new"`
}

// NormalizedSave is a SaveInput after payload validation and identity
// normalization, ready to persist.
type NormalizedSave struct {
	Name        string
	Description string
	// Data is the full payload document with projectInfo name/owner/address
	// overwritten to the trimmed form values. Saves replace the whole
	// payload; values absent from the submitted form are gone.
	Data     []byte
	DedupKey string
}

// NormalizeSave validates the submitted payload and applies the identity
// fields from the current form input. The project name resolves from the
// payload's projectInfo first, falling back to the request-level name.
func NormalizeSave(in SaveInput) (*NormalizedSave, error) {
	name := strings.TrimSpace(in.Name)

	raw := in.Data
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}

	// Mutate only projectInfo through a generic map so every other part of
	// the document, including fields this backend knows nothing about,
	// round-trips untouched.
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	var owner string
	if info, ok := doc["projectInfo"].(map[string]any); ok {
		if n := strings.TrimSpace(asString(info["name"])); n != "" {
			name = n
		}
		owner = strings.TrimSpace(asString(info["owner"]))

		info["name"] = name
		info["owner"] = owner
		info["address"] = strings.TrimSpace(asString(info["address"]))
	}

	if name == "" {
		return nil, ErrNameRequired
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	return &NormalizedSave{
		Name:        name,
		Description: in.Description,
		Data:        data,
		DedupKey:    DedupKey(name, owner),
	}, nil
}

// ResolveSaveTarget decides between updating an existing record and creating
// a new one. Priority: save-and-new always creates; a known current id
// updates that id directly; otherwise the caller's projects are scanned for a
// matching dedup key computed from each stored payload.
//
// The scan is not guarded against concurrent saves: two saves with no current
// id can both miss each other and create two records with the same key. That
// race is accepted; a uniqueness constraint would break save-and-new, which
// deliberately duplicates keys.
func ResolveSaveTarget(in SaveInput, key string, existing []Project) (targetID string, create bool) {
	if in.SaveAndNew {
		return "", true
	}
	if in.ID != "" {
		return in.ID, false
	}
	for i := range existing {
		p, err := ParsePayload(existing[i].Payload)
		if err != nil || p == nil || p.ProjectInfo == nil {
			continue
		}
		if DedupKey(p.ProjectInfo.Name, p.ProjectInfo.Owner) == key {
			return existing[i].ID, false
		}
	}
	return "", true
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
