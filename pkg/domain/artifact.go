package domain

import (
	"strings"
	"time"
)

// ArtifactRefPrefix prefixes attachment references that point to stored frames.
const ArtifactRefPrefix = "artifact:"

// Artifact is a still image captured from a screen stream.
type Artifact struct {
	ID         string    `json:"id"`
	MediaType  string    `json:"media_type"`
	Data       []byte    `json:"data"`
	CapturedAt time.Time `json:"captured_at"`
}

// Ref returns the attachment reference for the artifact.
func (a Artifact) Ref() string {
	return ArtifactRefPrefix + a.ID
}

// ParseArtifactRef extracts the artifact id from an attachment reference.
func ParseArtifactRef(ref string) (string, bool) {
	id, ok := strings.CutPrefix(ref, ArtifactRefPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// AnalysisRequest is the input of a screenshot analysis.
type AnalysisRequest struct {
	Step  InstallationStep
	Frame Artifact

	// DetourPending mirrors SequencerState.DetourPending for the session.
	DetourPending bool
}
