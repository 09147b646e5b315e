package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/hummingbird-backend/internal/data/repos"
	types "github.com/yungbote/hummingbird-backend/internal/domain"
	"github.com/yungbote/hummingbird-backend/internal/platform/dbctx"
	"github.com/yungbote/hummingbird-backend/internal/platform/openai"
)

var (
	errStoreDown = errors.New("connection refused")
	errTransient = errors.New("transient")
)

type pointerKey struct{ student, chapter uuid.UUID }

// fakePointers mirrors the stored procedures: forward-only moves, completion only at the
// current position.
type fakePointers struct {
	mu        sync.Mutex
	rows      map[pointerKey]types.ChapterPointer
	updates   int
	completes int
	getErr    error
}

func newFakePointers() *fakePointers {
	return &fakePointers{rows: map[pointerKey]types.ChapterPointer{}}
}

func (f *fakePointers) Get(_ dbctx.Context, studentID, chapterID uuid.UUID) (*types.ChapterPointer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	row, ok := f.rows[pointerKey{studentID, chapterID}]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (f *fakePointers) Update(_ dbctx.Context, studentID, chapterID uuid.UUID, position int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	k := pointerKey{studentID, chapterID}
	row, ok := f.rows[k]
	if ok && row.Position != nil && position <= *row.Position {
		return nil
	}
	p := position
	f.rows[k] = types.ChapterPointer{StudentID: studentID, ChapterID: chapterID, Position: &p}
	return nil
}

func (f *fakePointers) Complete(_ dbctx.Context, studentID, chapterID uuid.UUID, position int, _ *bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completes++
	k := pointerKey{studentID, chapterID}
	row, ok := f.rows[k]
	if !ok {
		p := position
		f.rows[k] = types.ChapterPointer{StudentID: studentID, ChapterID: chapterID, Position: &p, IsCompleted: true}
		return nil
	}
	if row.Position != nil && *row.Position == position {
		row.IsCompleted = true
		f.rows[k] = row
	}
	return nil
}

func (f *fakePointers) writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates + f.completes
}

type fakePhases struct {
	mu     sync.Mutex
	phases []*types.Phase
	// successorErr fails lookups made with isCompleted=true.
	successorErr error
	calls        int
}

func newFakePhases(chapterID uuid.UUID, specs ...phaseSpec) *fakePhases {
	f := &fakePhases{}
	for i, s := range specs {
		f.phases = append(f.phases, &types.Phase{
			PhaseID:   uuid.New(),
			ChapterID: chapterID,
			Position:  i + 1,
			RawType:   s.rawType,
			Content:   datatypes.JSON(s.content),
		})
	}
	return f
}

type phaseSpec struct {
	rawType string
	content string
}

func (f *fakePhases) at(position int) *types.Phase {
	for _, p := range f.phases {
		if p.Position == position {
			return p
		}
	}
	return nil
}

func (f *fakePhases) Get(_ dbctx.Context, chapterID uuid.UUID, position *int, isCompleted bool, _ *bool) (*types.Phase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if isCompleted && f.successorErr != nil {
		return nil, f.successorErr
	}
	sorted := append([]*types.Phase(nil), f.phases...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	var found *types.Phase
	switch {
	case position == nil:
		if len(sorted) > 0 {
			found = sorted[0]
		}
	case !isCompleted:
		for _, p := range sorted {
			if p.Position == *position {
				found = p
			}
		}
	default:
		for _, p := range sorted {
			if p.Position > *position {
				found = p
				break
			}
		}
	}
	if found == nil || found.ChapterID != chapterID {
		return nil, nil
	}
	cp := *found
	cp.Content = append(datatypes.JSON(nil), found.Content...)
	if types.CanonicalType("concept") == cp.Type() {
		current, total := 0, 0
		for _, p := range sorted {
			if p.Type() == cp.Type() {
				total++
				if p.Position <= cp.Position {
					current++
				}
			}
		}
		cp.Current, cp.Total = &current, &total
	}
	return &cp, nil
}

type trackerKey struct{ student, phase uuid.UUID }

type fakeTrackers struct {
	mu       sync.Mutex
	rows     map[trackerKey]types.LocalTracker
	upserts  int
	metaSet  int
	advances int
	// failUpserts makes the next n Upsert calls fail with errTransient.
	failUpserts int
}

func newFakeTrackers() *fakeTrackers {
	return &fakeTrackers{rows: map[trackerKey]types.LocalTracker{}}
}

func (f *fakeTrackers) Get(_ dbctx.Context, studentID, phaseID uuid.UUID) (*types.LocalTracker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[trackerKey{studentID, phaseID}]
	if !ok {
		return nil, nil
	}
	row.CachedMeta = append(datatypes.JSON(nil), row.CachedMeta...)
	return &row, nil
}

func (f *fakeTrackers) Upsert(_ dbctx.Context, t *types.LocalTracker, withMeta bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpserts > 0 {
		f.failUpserts--
		return errTransient
	}
	f.upserts++
	k := trackerKey{t.StudentID, t.PhaseID}
	row, ok := f.rows[k]
	if !ok {
		row = *t
		row.CachedMeta = nil
	} else {
		if t.CurrentIndex > row.CurrentIndex {
			row.CurrentIndex = t.CurrentIndex
		}
		row.TotalItems = t.TotalItems
		row.IsCompleted = row.IsCompleted || t.IsCompleted
	}
	if withMeta {
		f.metaSet++
		row.CachedMeta = append(datatypes.JSON(nil), t.CachedMeta...)
	}
	f.rows[k] = row
	return nil
}

// Advance follows advance_local_tracker_status.
func (f *fakeTrackers) Advance(_ dbctx.Context, studentID, phaseID uuid.UUID) (*types.LocalTracker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := trackerKey{studentID, phaseID}
	row, ok := f.rows[k]
	if !ok {
		return nil, nil
	}
	f.advances++
	if !row.IsCompleted {
		if row.CurrentIndex < row.TotalItems {
			row.CurrentIndex++
		}
		row.IsCompleted = row.CurrentIndex >= row.TotalItems
	}
	f.rows[k] = row
	row.CachedMeta = append(datatypes.JSON(nil), row.CachedMeta...)
	return &row, nil
}

type fakeLLM struct {
	mu     sync.Mutex
	calls  [][]openai.Message
	reply  string
	tokens *int
	err    error
}

func (f *fakeLLM) Chat(_ context.Context, messages []openai.Message) (*openai.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]openai.Message(nil), messages...))
	if f.err != nil {
		return nil, f.err
	}
	return &openai.Completion{Text: f.reply, TotalTokens: f.tokens, Model: "gpt-4o-mini"}, nil
}

func (f *fakeLLM) Model() string { return "gpt-4o-mini" }

type fakeConversationLogs struct {
	mu        sync.Mutex
	rows      []*types.ConversationLog
	createErr error
}

func (f *fakeConversationLogs) Create(_ dbctx.Context, row *types.ConversationLog) (*types.ConversationLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *row
	cp.ID = uuid.New()
	f.rows = append(f.rows, &cp)
	return &cp, nil
}

func (f *fakeConversationLogs) LatestByBlockID(_ dbctx.Context, blockID uuid.UUID) (*types.ConversationLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].BlockID == blockID {
			cp := *f.rows[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeConversationLogs) UpdateByBlockID(_ dbctx.Context, blockID uuid.UUID, turn repos.ConversationTurn) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.rows {
		if r.BlockID == blockID {
			r.Prompt = turn.Prompt
			r.Response = turn.Response
			r.Messages = turn.Messages
			r.TokensUsed = turn.TokensUsed
			n++
		}
	}
	return n, nil
}

type fakeDoubtLogs struct {
	mu   sync.Mutex
	rows []*types.DoubtLog
	err  error
}

func (f *fakeDoubtLogs) Create(_ dbctx.Context, row *types.DoubtLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, row)
	return nil
}

type fakeMcqAttempts struct {
	mu   sync.Mutex
	rows map[pointerKey]*types.McqAttempt
	err  error
}

func (f *fakeMcqAttempts) Upsert(_ dbctx.Context, row *types.McqAttempt) (*types.McqAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.rows == nil {
		f.rows = map[pointerKey]*types.McqAttempt{}
	}
	k := pointerKey{row.StudentID, row.McqID}
	if prev, ok := f.rows[k]; ok {
		row.ID = prev.ID
	} else {
		row.ID = uuid.New()
	}
	cp := *row
	f.rows[k] = &cp
	return &cp, nil
}
