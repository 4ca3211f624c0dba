package models

// AgeBracket is the lifecycle stage a vault reports for itself.
type AgeBracket int

const (
	// AgeBracketUnknown is used when the vault announced a stage we do not know.
	AgeBracketUnknown AgeBracket = iota
	// AgeBracketInfant is the stage of a freshly started vault.
	AgeBracketInfant
	// AgeBracketAdult is a vault that has been promoted to adult.
	AgeBracketAdult
	// AgeBracketElder is a vault taking part in section consensus.
	AgeBracketElder
)

// String returns the display name for an age bracket.
func (a AgeBracket) String() string {
	switch a {
	case AgeBracketInfant:
		return "Infant"
	case AgeBracketAdult:
		return "Adult"
	case AgeBracketElder:
		return "Elder"
	default:
		return "Unknown"
	}
}

// ParseAgeBracket maps a word from the log to an age bracket.
// The boolean is false when the word is not a known stage.
func ParseAgeBracket(word string) (AgeBracket, bool) {
	switch word {
	case "Infant":
		return AgeBracketInfant, true
	case "Adult":
		return AgeBracketAdult, true
	case "Elder":
		return AgeBracketElder, true
	default:
		return AgeBracketUnknown, false
	}
}
