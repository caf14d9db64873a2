package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// QuestionAnswer holds the labels a client selected for one question.
// Multi records the wire shape: true when the client sent an array,
// false when it sent a bare string.
type QuestionAnswer struct {
	QuestionID string
	Labels     []string
	Multi      bool
}

// AnswerList preserves the order in which the client supplied its
// question answers. Validation walks answers in this order, so decoding
// through a plain map would lose the ordering the error contract depends on.
type AnswerList []QuestionAnswer

// UnmarshalJSON decodes a JSON object of question id to answer, keeping the
// key order of the document. Answers are either a single string or an array
// of strings.
func (a *AnswerList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("question_answers must be a JSON object")
	}

	list := AnswerList{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("question_answers contains a non-string key")
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		value := bytes.TrimSpace(raw)
		switch {
		case len(value) > 0 && value[0] == '[':
			var labels []string
			if err := json.Unmarshal(value, &labels); err != nil {
				return fmt.Errorf("answer for %q must be an array of strings", key)
			}
			list = append(list, QuestionAnswer{QuestionID: key, Labels: labels, Multi: true})
		case len(value) > 0 && value[0] == '"':
			var label string
			if err := json.Unmarshal(value, &label); err != nil {
				return fmt.Errorf("answer for %q must be a string", key)
			}
			list = append(list, QuestionAnswer{QuestionID: key, Labels: []string{label}})
		default:
			return fmt.Errorf("answer for %q must be a string or an array of strings", key)
		}
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}

	*a = list
	return nil
}

// MarshalJSON re-encodes the answers as a JSON object in the preserved
// order, restoring the original wire shape for each answer.
func (a AnswerList) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ans := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(ans.QuestionID)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		if ans.Multi {
			labels := ans.Labels
			if labels == nil {
				labels = []string{}
			}
			value, err := json.Marshal(labels)
			if err != nil {
				return nil, err
			}
			buf.Write(value)
			continue
		}

		var label string
		if len(ans.Labels) > 0 {
			label = ans.Labels[0]
		}
		value, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
