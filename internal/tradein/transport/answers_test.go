package transport

import (
	"encoding/json"
	"testing"
)

func TestAnswerListPreservesOrder(t *testing.T) {
	payload := `{"screen_condition":"Cracked","accessories":["Charger","Box"],"battery_health":"Good"}`

	var answers AnswerList
	if err := json.Unmarshal([]byte(payload), &answers); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	wantOrder := []string{"screen_condition", "accessories", "battery_health"}
	if len(answers) != len(wantOrder) {
		t.Fatalf("len(answers) = %d, want %d", len(answers), len(wantOrder))
	}
	for i, want := range wantOrder {
		if answers[i].QuestionID != want {
			t.Errorf("answers[%d].QuestionID = %q, want %q", i, answers[i].QuestionID, want)
		}
	}

	if answers[0].Multi || len(answers[0].Labels) != 1 || answers[0].Labels[0] != "Cracked" {
		t.Errorf("single answer = %+v, want Cracked", answers[0])
	}
	if !answers[1].Multi || len(answers[1].Labels) != 2 {
		t.Errorf("multi answer = %+v, want two labels", answers[1])
	}
}

func TestAnswerListRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "top level array", payload: `["a"]`},
		{name: "numeric answer", payload: `{"q1": 5}`},
		{name: "object answer", payload: `{"q1": {"label": "x"}}`},
		{name: "mixed array", payload: `{"q1": ["a", 2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var answers AnswerList
			if err := json.Unmarshal([]byte(tt.payload), &answers); err == nil {
				t.Errorf("Unmarshal(%s) = nil error, want failure", tt.payload)
			}
		})
	}
}

func TestAnswerListRoundTrip(t *testing.T) {
	payload := `{"b_question":"Yes","a_question":["One"],"c_question":"No"}`

	var answers AnswerList
	if err := json.Unmarshal([]byte(payload), &answers); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	out, err := json.Marshal(answers)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != payload {
		t.Errorf("round trip = %s, want %s", out, payload)
	}
}

func TestAnswerListNull(t *testing.T) {
	var answers AnswerList
	if err := json.Unmarshal([]byte("null"), &answers); err != nil {
		t.Fatalf("Unmarshal(null) error = %v", err)
	}
	if answers != nil {
		t.Errorf("answers = %v, want nil", answers)
	}
}
