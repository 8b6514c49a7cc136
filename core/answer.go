package core

import "strings"

// RAGAnswer is the typed contract every generation path converges on.
type RAGAnswer struct {
	Answer           string   `json:"answer"`
	Citations        []string `json:"citations"`
	Confidence       float64  `json:"confidence"`
	FollowUpQuestion string   `json:"follow_up_question"`
	RetrievalHits    int      `json:"retrieval_hits"`
	EvidenceNotes    []string `json:"evidence_notes"`
}

// Normalize returns a copy with confidence clamped, retrieval hits floored at
// zero, citations deduplicated in first-seen order and nil slices replaced
// by empty ones.
func (a RAGAnswer) Normalize() RAGAnswer {
	a.Confidence = ClampConfidence(a.Confidence)
	if a.RetrievalHits < 0 {
		a.RetrievalHits = 0
	}
	a.Citations = MergeCitations(a.Citations)

	notes := make([]string, 0, len(a.EvidenceNotes))
	for _, n := range a.EvidenceNotes {
		if n = strings.TrimSpace(n); n != "" {
			notes = append(notes, n)
		}
	}
	a.EvidenceNotes = notes

	return a
}

// Clone returns a deep copy so callers can hand out answers without sharing
// slice backing arrays.
func (a RAGAnswer) Clone() RAGAnswer {
	a.Citations = append([]string(nil), a.Citations...)
	a.EvidenceNotes = append([]string(nil), a.EvidenceNotes...)
	return a
}

// MergeCitations concatenates the given tag lists and removes duplicates,
// keeping the first occurrence of each tag. Blank tags are dropped.
func MergeCitations(lists ...[]string) []string {
	seen := make(map[string]struct{})
	merged := make([]string, 0)
	for _, list := range lists {
		for _, tag := range list {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			merged = append(merged, tag)
		}
	}
	return merged
}
