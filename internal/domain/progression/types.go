package progression

import "strings"

// CanonicalType is the phase vocabulary used by the response contract.
type CanonicalType string

const (
	TypeConcept      CanonicalType = "concept"
	TypeMedia        CanonicalType = "media"
	TypeFlashcard    CanonicalType = "flashcard"
	TypeConversation CanonicalType = "conversation"
	TypeMCQ          CanonicalType = "mcq"
	TypeConceptMCQ   CanonicalType = "concept_mcq"
)

// Normalize maps a raw phase label onto the canonical vocabulary. Labels outside the known
// set pass through lower-cased; an empty label becomes "concept".
func Normalize(raw string) CanonicalType {
	t := strings.ToLower(strings.TrimSpace(raw))
	switch t {
	case "":
		return TypeConcept
	case "flashcards":
		return TypeFlashcard
	default:
		return CanonicalType(t)
	}
}

func (t CanonicalType) Known() bool {
	switch t {
	case TypeConcept, TypeMedia, TypeFlashcard, TypeConversation, TypeMCQ, TypeConceptMCQ:
		return true
	default:
		return false
	}
}

// IsCompound reports whether progress inside the phase is tracked by a LocalTracker.
func (t CanonicalType) IsCompound() bool {
	switch t {
	case TypeConversation, TypeMCQ, TypeConceptMCQ:
		return true
	default:
		return false
	}
}

func (t CanonicalType) TrackerType() TrackerType {
	switch t {
	case TypeConversation:
		return TrackerHYF
	case TypeMCQ, TypeConceptMCQ:
		return TrackerMCQ
	default:
		return ""
	}
}

// ContentKind is fixed by the canonical type: MCQ blocks carry an array of questions,
// every other phase an object.
func (t CanonicalType) ContentKind() ContentKind {
	switch t {
	case TypeMCQ, TypeConceptMCQ:
		return ArrayContent
	default:
		return ObjectContent
	}
}

func (t CanonicalType) String() string { return string(t) }

type TrackerType string

const (
	TrackerHYF TrackerType = "hyf"
	TrackerMCQ TrackerType = "mcq"
)
