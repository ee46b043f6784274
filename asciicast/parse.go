// Package asciicast parses the asciinema v2 recording format: a JSON header
// on the first line, one JSON event array per following line, with an
// optional librecode annotation tree embedded in the header. The package is
// pure; persistence happens elsewhere.
package asciicast

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

var (
	ErrEmptyRecording = errors.New("recording content is empty")
	ErrInvalidHeader  = errors.New("recording header is not valid JSON")
)

// Header is the allow-listed subset of the first-line JSON object. Fields
// outside this set are dropped during parsing.
type Header struct {
	Version       int               `json:"version"`
	Width         int               `json:"width"`
	Height        int               `json:"height"`
	Timestamp     int64             `json:"timestamp"`
	IdleTimeLimit float64           `json:"idle_time_limit"`
	Env           map[string]string `json:"env"`
	Annotations   *AnnotationSet    `json:"librecode_annotations,omitempty"`
}

// Marshal serializes the header back to its stored string form.
func (h *Header) Marshal() (string, error) {
	out, err := json.Marshal(h)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Event is one line of the recording body. The raw line is kept verbatim
// (compacted) so the body serializes back without loss; Time is the first
// element of the event array, in seconds.
type Event struct {
	Time float64
	raw  json.RawMessage
}

func (e Event) MarshalJSON() ([]byte, error) {
	return e.raw, nil
}

// MarshalBody serializes the event body as a single JSON array, the form it
// is stored in on the recording row.
func MarshalBody(events []Event) (string, error) {
	out, err := json.Marshal(events)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Duration returns the recording duration in milliseconds: the timestamp of
// the last successfully parsed event (seconds on the wire) times 1000, or 0
// for an empty body.
func Duration(events []Event) float64 {
	if len(events) == 0 {
		return 0
	}
	return events[len(events)-1].Time * 1000
}

// Parse splits recording content into header, event body and annotation
// forest. A malformed header aborts with ErrInvalidHeader; malformed event
// lines are logged and skipped, by design tolerating partially corrupt
// bodies as long as the header is intact.
func Parse(ctx context.Context, content string) (*Header, []Event, []Node, error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, nil, nil, ErrEmptyRecording
	}

	header := &Header{}
	if err := json.Unmarshal([]byte(lines[0]), header); err != nil {
		return nil, nil, nil, errors.Join(ErrInvalidHeader, err)
	}

	events := parseBody(ctx, lines[1:])

	forest, err := ExtractAnnotations(header)
	if err != nil {
		return nil, nil, nil, err
	}

	return header, events, forest, nil
}

func parseBody(ctx context.Context, lines []string) []Event {
	events := make([]Event, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		event, err := parseEvent(line)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Int("line", i+2).Err(err).Msg("skipping malformed event line")
			continue
		}
		events = append(events, event)
	}
	return events
}

func parseEvent(line string) (Event, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(line), &elems); err != nil {
		return Event{}, err
	}
	if len(elems) == 0 {
		return Event{}, errors.New("event array is empty")
	}
	var ts float64
	if err := json.Unmarshal(elems[0], &ts); err != nil {
		return Event{}, errors.Join(errors.New("event timestamp is not a number"), err)
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(line)); err != nil {
		return Event{}, err
	}
	return Event{Time: ts, raw: json.RawMessage(compact.Bytes())}, nil
}
