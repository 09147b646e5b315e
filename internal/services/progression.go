package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/yungbote/hummingbird-backend/internal/data/repos"
	types "github.com/yungbote/hummingbird-backend/internal/domain"
	"github.com/yungbote/hummingbird-backend/internal/domain/progression"
	"github.com/yungbote/hummingbird-backend/internal/platform/apierr"
	"github.com/yungbote/hummingbird-backend/internal/platform/dbctx"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
)

const ChapterCompletedMessage = "chapter completed"

var (
	ErrNoPhaseContent  = apierr.New(http.StatusNotFound, "no_phase_content", errors.New("no phase content"))
	ErrPointerNotFound = apierr.NotFound("chapter pointer")
	ErrPhaseNotFound   = apierr.NotFound("phase")
	ErrTrackerNotFound = apierr.NotFound("tracker")
)

type ChapterRequest struct {
	StudentID uuid.UUID
	ChapterID uuid.UUID
	IsCorrect *bool
}

// ChapterResult is either a phase payload (Type, Data, Messages and, for compound advances,
// Progress) or a terminal Message.
type ChapterResult struct {
	Type     string                     `json:"type,omitempty"`
	Data     map[string]json.RawMessage `json:"data,omitempty"`
	Messages []string                   `json:"messages,omitempty"`
	Progress *types.Progress            `json:"progress,omitempty"`
	Message  string                     `json:"message,omitempty"`
}

func (r *ChapterResult) Completed() bool {
	return r != nil && r.Message == ChapterCompletedMessage
}

type ProgressionService interface {
	// Start places the student on their current phase, creating the pointer on first use.
	// Repeated calls return the same payload and write nothing new.
	Start(dbc dbctx.Context, req ChapterRequest) (*ChapterResult, error)
	// Next advances either the tracker of the current compound phase or the chapter pointer.
	Next(dbc dbctx.Context, req ChapterRequest) (*ChapterResult, error)
}

type progressionService struct {
	log      *logger.Logger
	pointers repos.PointerRepo
	phases   repos.PhaseRepo
	trackers repos.TrackerRepo
}

func NewProgressionService(
	baseLog *logger.Logger,
	pointerRepo repos.PointerRepo,
	phaseRepo repos.PhaseRepo,
	trackerRepo repos.TrackerRepo,
) ProgressionService {
	return &progressionService{
		log:      baseLog.With("service", "ProgressionService"),
		pointers: pointerRepo,
		phases:   phaseRepo,
		trackers: trackerRepo,
	}
}

func (s *progressionService) Start(dbc dbctx.Context, req ChapterRequest) (*ChapterResult, error) {
	if err := validateChapterRequest(req); err != nil {
		return nil, err
	}
	ptr, err := s.pointers.Get(dbc, req.StudentID, req.ChapterID)
	if err != nil {
		return nil, storeFailed(err)
	}
	var position *int
	completed := false
	if ptr != nil {
		position = ptr.Position
		completed = ptr.IsCompleted
	}

	phase, err := s.phases.Get(dbc, req.ChapterID, position, completed, nil)
	if err != nil {
		return nil, storeFailed(err)
	}
	if phase == nil {
		if ptr != nil && ptr.IsCompleted {
			return chapterCompleted(), nil
		}
		return nil, ErrNoPhaseContent
	}

	tracker, err := s.ensureTracker(dbc, req.StudentID, phase)
	if err != nil {
		return nil, err
	}
	content := progression.ResolveContent(phase, tracker)

	if !ptr.At(phase.Position) {
		if err := s.pointers.Update(dbc, req.StudentID, req.ChapterID, phase.Position); err != nil {
			return nil, storeFailed(err)
		}
	}
	return s.compose(phase, content, "Starting")
}

func (s *progressionService) Next(dbc dbctx.Context, req ChapterRequest) (*ChapterResult, error) {
	if err := validateChapterRequest(req); err != nil {
		return nil, err
	}
	ptr, err := s.pointers.Get(dbc, req.StudentID, req.ChapterID)
	if err != nil {
		return nil, storeFailed(err)
	}
	if ptr == nil {
		return nil, ErrPointerNotFound
	}

	// The current phase is already done: either a compound phase was promoted on an earlier
	// call or a previous next stopped between completing and moving.
	if ptr.IsCompleted {
		return s.moveToSuccessor(dbc, req, ptr.Position)
	}

	phase, err := s.phases.Get(dbc, req.ChapterID, ptr.Position, false, nil)
	if err != nil {
		return nil, storeFailed(err)
	}
	if phase == nil {
		return nil, ErrPhaseNotFound
	}

	if phase.Type().IsCompound() {
		return s.advanceTracker(dbc, req, phase)
	}

	successor, err := s.phases.Get(dbc, req.ChapterID, &phase.Position, true, req.IsCorrect)
	if err != nil {
		return nil, storeFailed(err)
	}
	if err := s.pointers.Complete(dbc, req.StudentID, req.ChapterID, phase.Position, req.IsCorrect); err != nil {
		return nil, storeFailed(err)
	}
	if successor == nil {
		return chapterCompleted(), nil
	}
	return s.enter(dbc, req, successor)
}

func (s *progressionService) moveToSuccessor(dbc dbctx.Context, req ChapterRequest, position *int) (*ChapterResult, error) {
	successor, err := s.phases.Get(dbc, req.ChapterID, position, true, req.IsCorrect)
	if err != nil {
		return nil, storeFailed(err)
	}
	if successor == nil {
		return chapterCompleted(), nil
	}
	return s.enter(dbc, req, successor)
}

// enter moves the pointer onto phase and returns its payload. The tracker and payload are
// ready before the pointer moves, so a failure leaves the pointer on the completed phase and
// a retry enters the successor again at item 0.
func (s *progressionService) enter(dbc dbctx.Context, req ChapterRequest, phase *types.Phase) (*ChapterResult, error) {
	tracker, err := s.ensureTracker(dbc, req.StudentID, phase)
	if err != nil {
		return nil, err
	}
	out, err := s.compose(phase, progression.ResolveContent(phase, tracker), "Next")
	if err != nil {
		return nil, err
	}
	if err := s.pointers.Update(dbc, req.StudentID, req.ChapterID, phase.Position); err != nil {
		return nil, storeFailed(err)
	}
	return out, nil
}

func (s *progressionService) advanceTracker(dbc dbctx.Context, req ChapterRequest, phase *types.Phase) (*ChapterResult, error) {
	if _, err := s.ensureTracker(dbc, req.StudentID, phase); err != nil {
		return nil, err
	}
	stored, err := s.trackers.Advance(dbc, req.StudentID, phase.PhaseID)
	if err != nil {
		return nil, storeFailed(err)
	}
	if stored == nil {
		return nil, ErrTrackerNotFound
	}

	if stored.IsCompleted {
		if err := s.pointers.Complete(dbc, req.StudentID, req.ChapterID, phase.Position, req.IsCorrect); err != nil {
			return nil, storeFailed(err)
		}
		s.log.Info("Promoted compound phase", "phase_id", phase.PhaseID, "position", phase.Position, "total_items", stored.TotalItems)
	}

	out, err := s.compose(phase, progression.ResolveContent(phase, stored), "Next")
	if err != nil {
		return nil, err
	}
	out.Progress = stored.Progress()
	return out, nil
}

// ensureTracker returns the tracker of a compound phase, creating it on first sight. Simple
// phases have none.
func (s *progressionService) ensureTracker(dbc dbctx.Context, studentID uuid.UUID, phase *types.Phase) (*types.LocalTracker, error) {
	if !phase.Type().IsCompound() {
		return nil, nil
	}
	existing, err := s.trackers.Get(dbc, studentID, phase.PhaseID)
	if err != nil {
		return nil, storeFailed(err)
	}
	if existing != nil {
		return existing, nil
	}
	tracker, err := progression.NewTracker(studentID, phase)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "invalid_phase_content", err)
	}
	if err := s.trackers.Upsert(dbc, tracker, true); err != nil {
		return nil, storeFailed(err)
	}
	s.log.Debug("Initialized tracker", "phase_id", phase.PhaseID, "tracker_type", tracker.TrackerType, "total_items", tracker.TotalItems)
	return tracker, nil
}

func (s *progressionService) compose(phase *types.Phase, content types.Content, verb string) (*ChapterResult, error) {
	t := phase.Type()
	if !t.Known() {
		s.log.Warn("Unknown phase type, treating as simple", "phase_id", phase.PhaseID, "phase_type", phase.RawType)
	}
	data := map[string]json.RawMessage{}

	switch content.Kind {
	case progression.ArrayContent:
		if _, err := content.Items(); err != nil {
			return nil, apierr.New(http.StatusInternalServerError, "invalid_phase_content", err)
		}
		items := json.RawMessage(`[]`)
		if !content.Empty() {
			items = content.Raw
		}
		data["mcqs"] = items
	default:
		obj, err := content.Object()
		if err != nil {
			return nil, apierr.New(http.StatusInternalServerError, "invalid_phase_content", err)
		}
		for k, v := range obj {
			data[k] = v
		}
	}

	data["phase_id"] = mustJSON(phase.PhaseID.String())
	if t == progression.TypeConcept {
		if phase.Current != nil {
			data["current"] = mustJSON(*phase.Current)
		}
		if phase.Total != nil {
			data["total"] = mustJSON(*phase.Total)
		}
	}

	return &ChapterResult{
		Type:     t.String(),
		Data:     data,
		Messages: []string{verb + " " + t.String()},
	}, nil
}

func validateChapterRequest(req ChapterRequest) error {
	if req.StudentID == uuid.Nil {
		return apierr.BadRequest("invalid_request", "missing user_id")
	}
	if req.ChapterID == uuid.Nil {
		return apierr.BadRequest("invalid_request", "missing chapter_id")
	}
	return nil
}

func chapterCompleted() *ChapterResult {
	return &ChapterResult{Message: ChapterCompletedMessage}
}

func storeFailed(err error) error {
	return apierr.Upstream("store_failed", fmt.Errorf("store: %w", err))
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
