package progression

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Phase is the read-only projection returned by get_phase_content.
type Phase struct {
	PhaseID   uuid.UUID      `gorm:"column:phase_id" json:"phase_id"`
	ChapterID uuid.UUID      `gorm:"column:chapter_id" json:"chapter_id"`
	Position  int            `gorm:"column:position" json:"position"`
	RawType   string         `gorm:"column:phase_type" json:"phase_type"`
	Content   datatypes.JSON `gorm:"column:content" json:"content"`

	// Display ordinals, only meaningful for concept phases.
	Current *int `gorm:"column:current" json:"current,omitempty"`
	Total   *int `gorm:"column:total" json:"total,omitempty"`
}

func (p *Phase) Type() CanonicalType {
	if p == nil {
		return TypeConcept
	}
	return Normalize(p.RawType)
}
