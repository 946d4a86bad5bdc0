// Package eml parses raw .eml messages into the (subject, sender, body)
// triple the triage pipeline consumes.
package eml

import (
	"fmt"
	"io"
	"net/mail"
	"os"
	"regexp"
	"strings"

	"github.com/jhillyerd/enmime"
)

// Message is the parsed shape handed to the triage pipeline.
type Message struct {
	Subject string
	Sender  string
	Body    string
}

var addressPattern = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.-]+`)

// Parse reads an RFC 5322 message, preferring the text part over HTML.
func Parse(r io.Reader) (*Message, error) {
	env, err := enmime.ReadEnvelope(r)
	if err != nil {
		return nil, fmt.Errorf("parse eml: %w", err)
	}

	body := strings.TrimSpace(env.Text)
	if body == "" {
		body = strings.TrimSpace(env.HTML)
	}

	return &Message{
		Subject: strings.TrimSpace(env.GetHeader("Subject")),
		Sender:  CleanSender(env.GetHeader("From")),
		Body:    body,
	}, nil
}

// ParseFile parses a .eml file from disk.
func ParseFile(path string) (*Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open eml %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// CleanSender reduces a From header to the bare address. Display names and
// angle brackets are dropped; an unparseable header falls back to a regex
// scan, then to the trimmed input.
func CleanSender(from string) string {
	from = strings.TrimSpace(from)
	if from == "" {
		return ""
	}
	if addr, err := mail.ParseAddress(from); err == nil {
		return addr.Address
	}
	if match := addressPattern.FindString(from); match != "" {
		return match
	}
	return from
}
