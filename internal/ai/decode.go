package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/lifesys/internal/board"
	"github.com/sandeepkv93/lifesys/internal/model"
)

// MaxSuggestions caps how many entries one response may contribute.
const MaxSuggestions = 4

var ErrMalformedResponse = errors.New("ai: malformed response")

// DecodeSuggestions parses model output as a JSON array and validates every
// element on its own. Elements with a missing or non-string field, blank
// text, or an unknown priority are dropped; the rest keep their order.
// Only a response that is not a JSON array at all is an error.
func DecodeSuggestions(raw string) ([]board.Suggestion, int, error) {
	raw = stripFences(raw)
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	out := make([]board.Suggestion, 0, MaxSuggestions)
	dropped := 0
	for _, elem := range elems {
		s, ok := decodeSuggestion(elem)
		if !ok || len(out) == MaxSuggestions {
			dropped++
			continue
		}
		out = append(out, s)
	}
	return out, dropped, nil
}

func decodeSuggestion(elem json.RawMessage) (board.Suggestion, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(elem, &fields); err != nil {
		return board.Suggestion{}, false
	}
	var text, priority string
	if err := json.Unmarshal(fields["text"], &text); err != nil {
		return board.Suggestion{}, false
	}
	if err := json.Unmarshal(fields["priority"], &priority); err != nil {
		return board.Suggestion{}, false
	}
	// Priority must match exactly; the schema constrains the enum.
	s := board.Suggestion{Text: strings.TrimSpace(text), Priority: model.Priority(priority)}
	if !s.Valid() {
		return board.Suggestion{}, false
	}
	return s, true
}

func stripFences(resp string) string {
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")
	return strings.TrimSpace(resp)
}
