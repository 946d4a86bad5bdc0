package triage

import (
	"math/rand"
	"testing"

	"github.com/imaglide/eisenhower-triage/core/domain"
)

func TestKeywordFallback(t *testing.T) {
	tests := []struct {
		name           string
		subject        string
		body           string
		wantQuadrant   domain.Quadrant
		wantConfidence float64
	}{
		{
			name:           "urgent and important",
			subject:        "Urgent: contract deadline",
			body:           "This is important, we must sign the essential paperwork asap.",
			wantQuadrant:   domain.QuadrantDo,
			wantConfidence: 0.75,
		},
		{
			name:           "important only",
			subject:        "Priority planning",
			body:           "This is an important and essential topic for next quarter.",
			wantQuadrant:   domain.QuadrantSchedule,
			wantConfidence: 0.65,
		},
		{
			name:           "urgent only",
			subject:        "Emergency maintenance",
			body:           "The fix must go out asap before the window closes.",
			wantQuadrant:   domain.QuadrantDelegate,
			wantConfidence: 0.60,
		},
		{
			name:           "neither",
			subject:        "Lunch options",
			body:           "Thinking about trying the new place around the corner.",
			wantQuadrant:   domain.QuadrantDelete,
			wantConfidence: 0.50,
		},
		{
			// "urgent" and "immediate" match the urgency list; none of the
			// importance words appear, so this is urgent-only.
			name:           "server down escalation",
			subject:        "URGENT: Server down",
			body:           "The production server is down and customers are affected. Please respond immediately.",
			wantQuadrant:   domain.QuadrantDelegate,
			wantConfidence: 0.60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KeywordFallback(tt.subject, tt.body)
			if got.Quadrant != tt.wantQuadrant {
				t.Errorf("Quadrant = %v, want %v", got.Quadrant, tt.wantQuadrant)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestContextualFallback(t *testing.T) {
	tests := []struct {
		name           string
		sender         string
		body           string
		wantQuadrant   domain.Quadrant
		wantConfidence float64
	}{
		{
			name:           "important sender with time constraint",
			sender:         "ceo@boss.com",
			body:           "Need the figures by end of day.",
			wantQuadrant:   domain.QuadrantDo,
			wantConfidence: 0.80,
		},
		{
			name:           "important sender only",
			sender:         "lead@management.com",
			body:           "Let's discuss the roadmap at some point.",
			wantQuadrant:   domain.QuadrantSchedule,
			wantConfidence: 0.70,
		},
		{
			name:           "time constraint only",
			sender:         "peer@example.org",
			body:           "Can you look at this tomorrow?",
			wantQuadrant:   domain.QuadrantDelegate,
			wantConfidence: 0.65,
		},
		{
			name:           "neither",
			sender:         "friend@example.org",
			body:           "Sharing some photos from the trip.",
			wantQuadrant:   domain.QuadrantDelete,
			wantConfidence: 0.55,
		},
		{
			name:           "sender without at sign",
			sender:         "mailer-daemon",
			body:           "Sharing some photos from the trip.",
			wantQuadrant:   domain.QuadrantDelete,
			wantConfidence: 0.55,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContextualFallback("Subject", tt.sender, tt.body)
			if got.Quadrant != tt.wantQuadrant {
				t.Errorf("Quadrant = %v, want %v", got.Quadrant, tt.wantQuadrant)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestSimilarityFallbackInvariants(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	valid := map[float64]domain.Quadrant{
		0.78: domain.QuadrantDo,
		0.72: domain.QuadrantSchedule,
		0.68: domain.QuadrantDelegate,
		0.62: domain.QuadrantDelete,
	}
	for i := 0; i < 200; i++ {
		got := SimilarityFallback(rnd)
		want, ok := valid[got.Confidence]
		if !ok {
			t.Fatalf("unexpected confidence %v", got.Confidence)
		}
		if got.Quadrant != want {
			t.Fatalf("confidence %v paired with quadrant %v, want %v", got.Confidence, got.Quadrant, want)
		}
	}
}

func TestOutcomesFallback(t *testing.T) {
	tests := []struct {
		name           string
		subject        string
		body           string
		wantQuadrant   domain.Quadrant
		wantConfidence float64
	}{
		{
			name:           "high impact wins",
			subject:        "Customer contract at risk",
			body:           "We could lose the deal and the revenue attached to it.",
			wantQuadrant:   domain.QuadrantDo,
			wantConfidence: 0.82,
		},
		{
			name:           "medium impact wins",
			subject:        "Project report",
			body:           "The review meeting covered the project status in detail.",
			wantQuadrant:   domain.QuadrantSchedule,
			wantConfidence: 0.68,
		},
		{
			name:           "low impact wins",
			subject:        "Monthly newsletter",
			body:           "This announcement contains general information only, plus a newsletter archive link.",
			wantQuadrant:   domain.QuadrantDelete,
			wantConfidence: 0.58,
		},
		{
			name:           "no keywords resolves low",
			subject:        "Hello",
			body:           "Just checking in to see how things are going lately.",
			wantQuadrant:   domain.QuadrantDelete,
			wantConfidence: 0.58,
		},
		{
			name:           "tied tiers resolve low",
			subject:        "Customer project",
			body:           "One customer, one project, nothing more to say here.",
			wantQuadrant:   domain.QuadrantDelete,
			wantConfidence: 0.58,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OutcomesFallback(tt.subject, tt.body)
			if got.Quadrant != tt.wantQuadrant {
				t.Errorf("Quadrant = %v, want %v", got.Quadrant, tt.wantQuadrant)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
		})
	}
}
