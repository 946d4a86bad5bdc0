package triage

import (
	"errors"
	"testing"

	"github.com/imaglide/eisenhower-triage/core/domain"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    domain.ClassificationResult
		wantErr bool
	}{
		{
			name: "plain json",
			raw:  `{"quadrant": "do", "confidence": 0.85, "reasoning": "server outage"}`,
			want: domain.ClassificationResult{Quadrant: domain.QuadrantDo, Confidence: 0.85, Reasoning: "server outage"},
		},
		{
			name: "json fenced",
			raw:  "```json\n{\"quadrant\": \"schedule\", \"confidence\": 0.7, \"reasoning\": \"plan later\"}\n```",
			want: domain.ClassificationResult{Quadrant: domain.QuadrantSchedule, Confidence: 0.7, Reasoning: "plan later"},
		},
		{
			name: "bare fence",
			raw:  "```\n{\"quadrant\": \"delete\", \"confidence\": 0.5, \"reasoning\": \"noise\"}\n```",
			want: domain.ClassificationResult{Quadrant: domain.QuadrantDelete, Confidence: 0.5, Reasoning: "noise"},
		},
		{
			name: "confidence as string",
			raw:  `{"quadrant": "delegate", "confidence": "0.6", "reasoning": "assign"}`,
			want: domain.ClassificationResult{Quadrant: domain.QuadrantDelegate, Confidence: 0.6, Reasoning: "assign"},
		},
		{
			name:    "not json",
			raw:     "This email looks urgent to me.",
			wantErr: true,
		},
		{
			name:    "missing reasoning",
			raw:     `{"quadrant": "do", "confidence": 0.85}`,
			wantErr: true,
		},
		{
			name:    "unknown quadrant",
			raw:     `{"quadrant": "defer", "confidence": 0.85, "reasoning": "later"}`,
			wantErr: true,
		},
		{
			name:    "priority label instead of quadrant",
			raw:     `{"quadrant": "urgent_important", "confidence": 0.85, "reasoning": "urgent"}`,
			wantErr: true,
		},
		{
			name:    "confidence above one",
			raw:     `{"quadrant": "do", "confidence": 1.5, "reasoning": "very sure"}`,
			wantErr: true,
		},
		{
			name:    "confidence negative",
			raw:     `{"quadrant": "do", "confidence": -0.5, "reasoning": "unsure"}`,
			wantErr: true,
		},
		{
			name:    "confidence not numeric",
			raw:     `{"quadrant": "do", "confidence": "high", "reasoning": "sure"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReply(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("error type = %T, want *ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseReply() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseReply() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
