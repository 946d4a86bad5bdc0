package eml

import (
	"strings"
	"testing"
)

const sampleEml = `From: Alice Example <alice@example.com>
To: triage@example.com
Subject: Contract renewal
Content-Type: text/plain; charset="utf-8"

The contract expires at the end of the month. Please review the renewal terms.
`

func TestParse(t *testing.T) {
	msg, err := Parse(strings.NewReader(sampleEml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if msg.Subject != "Contract renewal" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if msg.Sender != "alice@example.com" {
		t.Errorf("Sender = %q", msg.Sender)
	}
	if !strings.Contains(msg.Body, "contract expires") {
		t.Errorf("Body = %q", msg.Body)
	}
}

func TestCleanSender(t *testing.T) {
	tests := []struct {
		name string
		from string
		want string
	}{
		{"bare address", "bob@example.com", "bob@example.com"},
		{"display name", "Bob Builder <bob@example.com>", "bob@example.com"},
		{"quoted display name", `"Builder, Bob" <bob@example.com>`, "bob@example.com"},
		{"address buried in text", "reply to bob@example.com please", "bob@example.com"},
		{"empty", "", ""},
		{"no address at all", "mailer daemon", "mailer daemon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanSender(tt.from); got != tt.want {
				t.Errorf("CleanSender(%q) = %q, want %q", tt.from, got, tt.want)
			}
		})
	}
}
