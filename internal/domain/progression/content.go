package progression

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type ContentKind int

const (
	ObjectContent ContentKind = iota + 1
	ArrayContent
)

func (k ContentKind) String() string {
	switch k {
	case ObjectContent:
		return "object"
	case ArrayContent:
		return "array"
	default:
		return "unknown"
	}
}

// Content is a phase payload tagged with the shape its canonical type promises.
// Raw is kept verbatim so cached snapshots replay byte for byte.
type Content struct {
	Kind ContentKind
	Raw  json.RawMessage
}

func NewContent(t CanonicalType, raw []byte) Content {
	return Content{Kind: t.ContentKind(), Raw: json.RawMessage(raw)}
}

// Object decodes an object payload. Empty or null payloads decode to an empty map.
func (c Content) Object() (map[string]json.RawMessage, error) {
	if c.Kind != ObjectContent {
		return nil, fmt.Errorf("content is %s, not object", c.Kind)
	}
	out := map[string]json.RawMessage{}
	if isBlank(c.Raw) {
		return out, nil
	}
	if err := json.Unmarshal(c.Raw, &out); err != nil {
		return nil, fmt.Errorf("decode object content: %w", err)
	}
	if out == nil {
		out = map[string]json.RawMessage{}
	}
	return out, nil
}

// Items decodes an array payload. Empty or null payloads decode to an empty slice.
func (c Content) Items() ([]json.RawMessage, error) {
	if c.Kind != ArrayContent {
		return nil, fmt.Errorf("content is %s, not array", c.Kind)
	}
	out := []json.RawMessage{}
	if isBlank(c.Raw) {
		return out, nil
	}
	if err := json.Unmarshal(c.Raw, &out); err != nil {
		return nil, fmt.Errorf("decode array content: %w", err)
	}
	if out == nil {
		out = []json.RawMessage{}
	}
	return out, nil
}

// Empty is true for absent, null, "", {} and [] payloads.
func (c Content) Empty() bool { return isEmptyJSON(c.Raw) }

var hyfKeys = []string{"hyfs", "HYFs", "high_yield_facts"}

// CountItems returns the number of sub-items a compound phase iterates over: the HYF list
// length for conversations, the question count for MCQ blocks.
func CountItems(t CanonicalType, c Content) (int, error) {
	switch t.TrackerType() {
	case TrackerMCQ:
		items, err := c.Items()
		if err != nil {
			return 0, err
		}
		return len(items), nil
	case TrackerHYF:
		obj, err := c.Object()
		if err != nil {
			return 0, err
		}
		for _, key := range hyfKeys {
			raw, ok := obj[key]
			if !ok || isBlank(raw) {
				continue
			}
			var list []json.RawMessage
			if err := json.Unmarshal(raw, &list); err != nil {
				return 0, fmt.Errorf("decode %s: %w", key, err)
			}
			return len(list), nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("phase type %q has no sub-items", t)
	}
}

// ResolveContent picks the payload to show for phase: the tracker's cached snapshot for a
// compound phase that already has one, otherwise the content the phase store returned.
func ResolveContent(phase *Phase, tracker *LocalTracker) Content {
	if phase == nil {
		return Content{}
	}
	t := phase.Type()
	if t.IsCompound() && tracker != nil && tracker.PhaseID == phase.PhaseID && tracker.HasCachedMeta() {
		return NewContent(t, tracker.CachedMeta)
	}
	return NewContent(t, phase.Content)
}

func isBlank(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func isEmptyJSON(raw []byte) bool {
	if isBlank(raw) {
		return true
	}
	switch string(bytes.TrimSpace(raw)) {
	case `{}`, `[]`, `""`:
		return true
	default:
		return false
	}
}
