// Package moderation decides what to do with a chat message: banned words
// and unapproved links are removed, bursts of messages earn a mute.
// It makes no Discord calls; the event layer carries out the decision.
package moderation

import (
	"regexp"
	"strings"
	"time"
)

// Verdict is the outcome of the pipeline for one message
type Verdict int

const (
	VerdictClean Verdict = iota
	VerdictBannedWord
	VerdictLink
	VerdictSpam
)

// String returns the name used in logs and events
func (v Verdict) String() string {
	switch v {
	case VerdictBannedWord:
		return "banned_word"
	case VerdictLink:
		return "link"
	case VerdictSpam:
		return "spam"
	default:
		return "clean"
	}
}

// Removes reports whether the message must be deleted
func (v Verdict) Removes() bool {
	return v == VerdictBannedWord || v == VerdictLink
}

var linkPattern = regexp.MustCompile(`https?://|discord\.gg/`)

// Config holds the moderation rules
type Config struct {
	BannedWords   []string
	LinkWhitelist []string
	SpamLimit     int
	SpamInterval  time.Duration
}

// Decision is the verdict plus the detail that triggered it
type Decision struct {
	Verdict   Verdict
	Match     string
	SpamCount int
}

// Pipeline runs the checks in order; the first match wins
type Pipeline struct {
	bannedWords []string
	whitelist   []string
	spamLimit   int
	spam        *SpamTracker
}

const (
	DefaultSpamLimit    = 5
	DefaultSpamInterval = 8 * time.Second
)

// NewPipeline creates a Pipeline. Words and whitelist entries are matched
// case-insensitively.
func NewPipeline(cfg Config) *Pipeline {
	if cfg.SpamLimit <= 0 {
		cfg.SpamLimit = DefaultSpamLimit
	}
	if cfg.SpamInterval <= 0 {
		cfg.SpamInterval = DefaultSpamInterval
	}
	return &Pipeline{
		bannedWords: lowerAll(cfg.BannedWords),
		whitelist:   lowerAll(cfg.LinkWhitelist),
		spamLimit:   cfg.SpamLimit,
		spam:        NewSpamTracker(cfg.SpamInterval),
	}
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Evaluate classifies a message. Only messages that pass the word and link
// checks count towards spam.
func (p *Pipeline) Evaluate(userID, content string, now time.Time) Decision {
	msg := strings.ToLower(content)

	if word, ok := p.bannedWord(msg); ok {
		return Decision{Verdict: VerdictBannedWord, Match: word}
	}

	if link := linkPattern.FindString(msg); link != "" && !p.whitelisted(msg) {
		return Decision{Verdict: VerdictLink, Match: link}
	}

	count := p.spam.Hit(userID, now)
	if count >= p.spamLimit {
		return Decision{Verdict: VerdictSpam, SpamCount: count}
	}
	return Decision{Verdict: VerdictClean, SpamCount: count}
}

func (p *Pipeline) bannedWord(msg string) (string, bool) {
	for _, w := range p.bannedWords {
		if strings.Contains(msg, w) {
			return w, true
		}
	}
	return "", false
}

// whitelisted looks for an allowed domain anywhere in the message, not only
// inside the link itself.
func (p *Pipeline) whitelisted(msg string) bool {
	for _, k := range p.whitelist {
		if strings.Contains(msg, k) {
			return true
		}
	}
	return false
}

// SweepSpam drops idle spam entries
func (p *Pipeline) SweepSpam(now time.Time) int {
	return p.spam.Sweep(now)
}

// TrackedUsers returns how many users the spam tracker holds
func (p *Pipeline) TrackedUsers() int {
	return p.spam.Len()
}
