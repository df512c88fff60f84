// Package slots derives interview parameters from free-form user text.
// It is deliberately deterministic: a small vocabulary plus pattern
// matching, so session creation never depends on a second model call.
package slots

import (
	"fmt"
	"regexp"
	"strings"
)

// Slots are the parameters needed to start an interview.
type Slots struct {
	Role      string `json:"role"`
	Seniority string `json:"seniority"`
}

// MissingSlotsError lists exactly which slots could not be extracted.
type MissingSlotsError struct {
	Missing []string
}

func (e *MissingSlotsError) Error() string {
	return fmt.Sprintf("need: %s", strings.Join(e.Missing, ", "))
}

// seniorityCues maps phrasing variants to the canonical seniority level,
// checked in order so compound cues win over their substrings.
var seniorityCues = []struct {
	cue   string
	level string
}{
	{"entry level", "junior"},
	{"entry-level", "junior"},
	{"intern", "intern"},
	{"junior", "junior"},
	{"graduate", "junior"},
	{"mid-level", "mid"},
	{"mid level", "mid"},
	{"midlevel", "mid"},
	{"intermediate", "mid"},
	{"mid", "mid"},
	{"senior", "senior"},
	{"staff", "staff"},
	{"principal", "principal"},
	{"lead", "lead"},
}

// knownRoles are matched longest-first so "machine learning engineer" is
// not shadowed by "engineer".
var knownRoles = []string{
	"machine learning engineer",
	"site reliability engineer",
	"full stack developer",
	"full stack engineer",
	"full-stack developer",
	"full-stack engineer",
	"data scientist",
	"data engineer",
	"data analyst",
	"ml engineer",
	"backend engineer",
	"backend developer",
	"back-end engineer",
	"back-end developer",
	"frontend engineer",
	"frontend developer",
	"front-end engineer",
	"front-end developer",
	"devops engineer",
	"security engineer",
	"mobile developer",
	"ios developer",
	"android developer",
	"qa engineer",
	"software engineer",
	"software developer",
	"product manager",
	"engineering manager",
}

// rolePattern catches "<qualifier> engineer/developer/..." phrasings that
// the vocabulary misses.
var rolePattern = regexp.MustCompile(`\b([a-z]+(?:[ -][a-z]+){0,2}\s(?:engineer|developer|scientist|analyst|architect|designer|manager))\b`)

// leadingNoise words are stripped from the front of a pattern-extracted
// role so "a senior backend engineer" yields role "Backend Engineer".
var leadingNoise = map[string]bool{
	"intern": true, "junior": true, "graduate": true, "mid": true,
	"mid-level": true, "midlevel": true, "intermediate": true,
	"senior": true, "staff": true, "principal": true, "lead": true,
	"entry": true, "level": true, "entry-level": true,
	"a": true, "an": true, "the": true, "as": true, "for": true, "of": true,
}

// Extractor turns free text into interview slots.
type Extractor struct{}

func NewExtractor() *Extractor { return &Extractor{} }

// Extract returns the role and seniority found in text, or a
// MissingSlotsError naming every slot that could not be derived.
func (e *Extractor) Extract(text string) (Slots, error) {
	lower := strings.ToLower(text)

	out := Slots{
		Role:      extractRole(lower),
		Seniority: extractSeniority(lower),
	}

	var missing []string
	if out.Role == "" {
		missing = append(missing, "role")
	}
	if out.Seniority == "" {
		missing = append(missing, "seniority")
	}
	if len(missing) > 0 {
		return Slots{}, &MissingSlotsError{Missing: missing}
	}
	return out, nil
}

func extractSeniority(lower string) string {
	for _, c := range seniorityCues {
		if containsWord(lower, c.cue) {
			return c.level
		}
	}
	return ""
}

func extractRole(lower string) string {
	for _, role := range knownRoles {
		if strings.Contains(lower, role) {
			return titleCase(role)
		}
	}
	if m := rolePattern.FindStringSubmatch(lower); m != nil {
		return titleCase(stripLeadingNoise(m[1]))
	}
	return ""
}

func stripLeadingNoise(role string) string {
	words := strings.Fields(role)
	for len(words) > 1 && leadingNoise[words[0]] {
		words = words[1:]
	}
	return strings.Join(words, " ")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// containsWord reports whether cue appears in lower on word boundaries, so
// the "mid" cue does not fire inside "midnight".
func containsWord(lower, cue string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], cue)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(cue)
		beforeOK := start == 0 || !isWordChar(lower[start-1])
		afterOK := end == len(lower) || !isWordChar(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}
