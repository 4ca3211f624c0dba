package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/j-veylop/vault-dashboard-tui/internal/models"
)

// ResponseMarker precedes the response kind in data handler activity lines.
const ResponseMarker = "Responded to our data handlers with: Response { response: Response::"

// Kind says which pattern a line matched.
type Kind int

const (
	// KindNone means no pattern matched.
	KindNone Kind = iota
	// KindActivity is a data handler response.
	KindActivity
	// KindElders reports the number of elders in the section.
	KindElders
	// KindAdults reports the number of adults in the section.
	KindAdults
	// KindAgeBracket reports a change of the vault's own age bracket.
	KindAgeBracket
	// KindParseFailure means a pattern matched but its payload did not parse.
	KindParseFailure
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindActivity:
		return "activity"
	case KindElders:
		return "elders"
	case KindAdults:
		return "adults"
	case KindAgeBracket:
		return "age bracket"
	case KindParseFailure:
		return "parse failure"
	default:
		return "unknown"
	}
}

// ActivityKind routes an activity to a counter.
type ActivityKind int

const (
	// ActivityOther is counted but not charted.
	ActivityOther ActivityKind = iota
	// ActivityGet is a read.
	ActivityGet
	// ActivityPut is a mutation.
	ActivityPut
)

// ActivityKindOf classifies an activity label by its prefix.
func ActivityKindOf(label string) ActivityKind {
	switch {
	case strings.HasPrefix(label, "Get"):
		return ActivityGet
	case strings.HasPrefix(label, "Mut"):
		return ActivityPut
	default:
		return ActivityOther
	}
}

// Classification is what the classifier found in one line.
type Classification struct {
	Kind       Kind
	Activity   string
	Count      uint64
	AgeBracket models.AgeBracket
	Diagnostic string
}

type statePattern struct {
	kind     Kind
	prefixes []string
}

// statePatterns is checked in order after the activity marker.
var statePatterns = [...]statePattern{
	{kind: KindElders, prefixes: []string{"No. of Elders:"}},
	{kind: KindAdults, prefixes: []string{"No. of Adults:"}},
	{kind: KindAgeBracket, prefixes: []string{"Vault promoted to ", "Initializing new Vault as "}},
}

// Classifier recognises activity and vault state announcements.
type Classifier struct{}

// NewClassifier returns a classifier using the built-in pattern table.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify inspects text. The activity marker is tried first; a marker with
// no usable label does not stop the state patterns from being tried.
func (c *Classifier) Classify(text string) Classification {
	activity, found := classifyActivity(text)
	if found && activity.Kind == KindActivity {
		return activity
	}

	for _, p := range statePatterns {
		for _, prefix := range p.prefixes {
			if _, rest, ok := strings.Cut(text, prefix); ok {
				return classifyState(p.kind, prefix, rest)
			}
		}
	}

	if found {
		return activity
	}
	return Classification{Kind: KindNone}
}

func classifyActivity(text string) (Classification, bool) {
	_, rest, ok := strings.Cut(text, ResponseMarker)
	if !ok {
		return Classification{}, false
	}

	label, _, hasComma := strings.Cut(rest, ",")
	label = strings.TrimSpace(label)
	if !hasComma || label == "" {
		return Classification{
			Kind:       KindParseFailure,
			Diagnostic: "failed to parse activity from: " + text,
		}, true
	}

	return Classification{
		Kind:       KindActivity,
		Activity:   label,
		Diagnostic: "Activity: " + label,
	}, true
}

func classifyState(kind Kind, prefix, rest string) Classification {
	word := firstWord(rest)

	switch kind {
	case KindElders, KindAdults:
		n, err := strconv.ParseUint(word, 10, 64)
		if err != nil {
			return Classification{
				Kind:       KindParseFailure,
				Diagnostic: fmt.Sprintf("failed to parse count after %q: %q", prefix, word),
			}
		}
		label := "Elders"
		if kind == KindAdults {
			label = "Adults"
		}
		return Classification{
			Kind:       kind,
			Count:      n,
			Diagnostic: fmt.Sprintf("%s: %d", label, n),
		}

	case KindAgeBracket:
		if word == "" {
			return Classification{
				Kind:       KindParseFailure,
				Diagnostic: fmt.Sprintf("failed to parse age bracket after %q", prefix),
			}
		}
		bracket, known := models.ParseAgeBracket(word)
		if !known {
			return Classification{
				Kind:       KindAgeBracket,
				AgeBracket: models.AgeBracketUnknown,
				Diagnostic: fmt.Sprintf("unknown vault age bracket %q", word),
			}
		}
		return Classification{
			Kind:       KindAgeBracket,
			AgeBracket: bracket,
			Diagnostic: "Vault age bracket: " + bracket.String(),
		}
	}

	return Classification{Kind: KindNone}
}

// firstWord returns the first whitespace separated word of s without
// trailing punctuation.
func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimRight(fields[0], ".,;:!")
}
