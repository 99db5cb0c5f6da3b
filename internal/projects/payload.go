package projects

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Payload is the document stored alongside a project: the project form fields
// plus the optimization state the frontend hands over as-is. SelectedPlans and
// OptimizationState are opaque to the backend and round-trip unmodified.
type Payload struct {
	// Legacy name slot; older clients wrote the project name here instead of
	// projectInfo.name.
	Name               string              `json:"name,omitempty"`
	ProjectInfo        *ProjectInfo        `json:"projectInfo,omitempty"`
	Glasses            []Glass             `json:"glasses,omitempty"`
	SelectedPlans      json.RawMessage     `json:"selectedPlans,omitempty"`
	OptimizationState  json.RawMessage     `json:"optimizationState,omitempty"`
	OptimizationResult *OptimizationResult `json:"optimizationResult,omitempty"`
}

type ProjectInfo struct {
	Name    string `json:"name,omitempty"`
	Owner   string `json:"owner,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type Glass struct {
	Width    Number `json:"width"`
	Height   Number `json:"height"`
	Quantity Number `json:"quantity"`
	Product  string `json:"product,omitempty"`
}

type OptimizationResult struct {
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Length Number `json:"length"`
}

// Number decodes tolerantly: stored payloads come from years of frontend
// iterations, so a dimension can arrive as a number, a numeric string, null,
// or garbage. Anything unusable counts as zero rather than failing the whole
// payload.
type Number float64

func (m *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*m = 0
		return nil
	}
	*m = Number(v)
	return nil
}

// ParsePayload decodes a stored payload document. A nil or empty document is
// not an error; it parses to nil so callers fall back to top-level fields.
func ParsePayload(raw []byte) (*Payload, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	return &p, nil
}
