package progression

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LocalTracker is the durable micro cursor inside a compound phase.
type LocalTracker struct {
	StudentID    uuid.UUID      `gorm:"column:student_id" json:"student_id"`
	PhaseID      uuid.UUID      `gorm:"column:phase_id" json:"phase_id"`
	ChapterID    uuid.UUID      `gorm:"column:chapter_id" json:"chapter_id"`
	PhaseType    CanonicalType  `gorm:"column:phase_type" json:"phase_type"`
	TrackerType  TrackerType    `gorm:"column:tracker_type" json:"tracker_type"`
	CurrentIndex int            `gorm:"column:current_index" json:"current_index"`
	TotalItems   int            `gorm:"column:total_items" json:"total_items"`
	CachedMeta   datatypes.JSON `gorm:"column:meta" json:"meta,omitempty"`
	IsCompleted  bool           `gorm:"column:is_completed" json:"is_completed"`
}

// NewTracker builds the first tracker row for a compound phase, snapshotting its content.
func NewTracker(studentID uuid.UUID, phase *Phase) (*LocalTracker, error) {
	if phase == nil {
		return nil, fmt.Errorf("missing phase")
	}
	t := phase.Type()
	if !t.IsCompound() {
		return nil, fmt.Errorf("phase type %q is not tracked", t)
	}
	total, err := CountItems(t, NewContent(t, phase.Content))
	if err != nil {
		return nil, fmt.Errorf("count %s items: %w", t, err)
	}
	meta := make(datatypes.JSON, len(phase.Content))
	copy(meta, phase.Content)
	return &LocalTracker{
		StudentID:    studentID,
		PhaseID:      phase.PhaseID,
		ChapterID:    phase.ChapterID,
		PhaseType:    t,
		TrackerType:  t.TrackerType(),
		CurrentIndex: 0,
		TotalItems:   total,
		CachedMeta:   meta,
		IsCompleted:  false,
	}, nil
}

func (t *LocalTracker) HasCachedMeta() bool {
	return t != nil && !isEmptyJSON(t.CachedMeta)
}

// Progress is the sub-progress block reported for compound phases.
type Progress struct {
	CurrentIndex int  `json:"current_index"`
	TotalItems   int  `json:"total_items"`
	IsCompleted  bool `json:"is_completed"`
}

func (t *LocalTracker) Progress() *Progress {
	if t == nil {
		return nil
	}
	return &Progress{CurrentIndex: t.CurrentIndex, TotalItems: t.TotalItems, IsCompleted: t.IsCompleted}
}
