package models

import (
	"encoding/json"
	"fmt"
)

// Events and half-inning items travel as flat JSON objects tagged with a
// "kind" field, e.g. {"kind":"runner","start":"1B","end":"2B",...}.

type kindHeader struct {
	Kind string `json:"kind"`
}

func withKind(kind string, v interface{}) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}
	fields["kind"], _ = json.Marshal(kind)
	return json.Marshal(fields)
}

func peekKind(data []byte) (string, error) {
	var header kindHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return "", err
	}
	if header.Kind == "" {
		return "", fmt.Errorf("missing kind")
	}
	return header.Kind, nil
}

// MarshalEvent encodes an event with its kind tag
func MarshalEvent(ev Event) ([]byte, error) {
	ev, ok := EventValue(ev)
	if !ok {
		return nil, fmt.Errorf("nil event")
	}
	return withKind(ev.eventKind(), ev)
}

// UnmarshalEvent decodes a kind-tagged event
func UnmarshalEvent(data []byte) (Event, error) {
	kind, err := peekKind(data)
	if err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}
	switch kind {
	case kindPitch:
		var ev PitchEvent
		err = json.Unmarshal(data, &ev)
		return ev, err
	case kindRunner:
		var ev RunnerEvent
		err = json.Unmarshal(data, &ev)
		return ev, err
	case kindAction:
		var ev ActionEvent
		err = json.Unmarshal(data, &ev)
		return ev, err
	case kindPickoff:
		var ev PickoffEvent
		err = json.Unmarshal(data, &ev)
		return ev, err
	default:
		return nil, fmt.Errorf("unknown event kind: %s", kind)
	}
}

type plateAppearanceAlias PlateAppearance

type plateAppearanceJSON struct {
	*plateAppearanceAlias
	Events []json.RawMessage `json:"events"`
}

// MarshalJSON encodes the event list with kind tags
func (pa PlateAppearance) MarshalJSON() ([]byte, error) {
	alias := plateAppearanceAlias(pa)
	out := plateAppearanceJSON{
		plateAppearanceAlias: &alias,
		Events:               make([]json.RawMessage, 0, len(pa.Events)),
	}
	for i, ev := range pa.Events {
		raw, err := MarshalEvent(ev)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal event %d of at-bat %d: %w", i, pa.Num, err)
		}
		out.Events = append(out.Events, raw)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a plate appearance with kind-tagged events
func (pa *PlateAppearance) UnmarshalJSON(data []byte) error {
	in := plateAppearanceJSON{plateAppearanceAlias: (*plateAppearanceAlias)(pa)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	pa.Events = make([]Event, 0, len(in.Events))
	for i, raw := range in.Events {
		ev, err := UnmarshalEvent(raw)
		if err != nil {
			return fmt.Errorf("at-bat %d event %d: %w", pa.Num, i, err)
		}
		pa.Events = append(pa.Events, ev)
	}
	return nil
}

type halfInningJSON struct {
	Items []json.RawMessage `json:"items"`
}

// MarshalJSON encodes items as {"kind":"pa",...} or {"kind":"action",...}
func (h HalfInning) MarshalJSON() ([]byte, error) {
	out := halfInningJSON{Items: make([]json.RawMessage, 0, len(h.Items))}
	for i, item := range h.Items {
		if item == nil {
			return nil, fmt.Errorf("nil half-inning item %d", i)
		}
		if action, ok := item.(*ActionEvent); ok {
			if action == nil {
				return nil, fmt.Errorf("nil half-inning item %d", i)
			}
			item = *action
		}
		raw, err := withKind(item.itemKind(), item)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal half-inning item %d: %w", i, err)
		}
		out.Items = append(out.Items, raw)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes kind-tagged half-inning items
func (h *HalfInning) UnmarshalJSON(data []byte) error {
	var in halfInningJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	h.Items = make([]HalfInningItem, 0, len(in.Items))
	for i, raw := range in.Items {
		kind, err := peekKind(raw)
		if err != nil {
			return fmt.Errorf("half-inning item %d: %w", i, err)
		}
		switch kind {
		case itemPA:
			pa := &PlateAppearance{}
			if err := json.Unmarshal(raw, pa); err != nil {
				return fmt.Errorf("half-inning item %d: %w", i, err)
			}
			h.Items = append(h.Items, pa)
		case itemAction:
			var action ActionEvent
			if err := json.Unmarshal(raw, &action); err != nil {
				return fmt.Errorf("half-inning item %d: %w", i, err)
			}
			h.Items = append(h.Items, action)
		default:
			return fmt.Errorf("half-inning item %d: unknown kind: %s", i, kind)
		}
	}
	return nil
}
