package cipher

// Verdict classifies what the search learned about one cipher letter.
type Verdict int

const (
	// Unknown: no surviving decomposition proposed any plain letter.
	Unknown Verdict = iota
	// Certain: every surviving decomposition agrees on one plain letter.
	Certain
	// Ambiguous: surviving decompositions disagree.
	Ambiguous
)

// String returns the lowercase name used in logs and JSON output.
func (v Verdict) String() string {
	switch v {
	case Certain:
		return "certain"
	case Ambiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// Resolution is the outcome for a single cipher letter.
//
// Plain is set only for Certain verdicts. Proposals holds every plain
// letter some surviving mapping proposed, in alphabetical order: empty for
// Unknown, exactly one letter for Certain, two or more for Ambiguous. The
// zero Resolution is Unknown, so a fresh Table is all-Unknown.
type Resolution struct {
	Verdict   Verdict
	Plain     byte
	Proposals string
}

// Table is the complete per-letter result of a solve, indexed by cipher
// letter ('a' is index 0). Tables are built by the aggregator and read by
// the renderer; once returned they are never modified.
type Table [26]Resolution

// Lookup returns the resolution for cipher letter c ('a'..'z').
func (t Table) Lookup(c byte) Resolution {
	return t[c-'a']
}

// Counts returns how many letters resolved Certain, Ambiguous, and
// Unknown. The three always sum to 26.
func (t Table) Counts() (certain, ambiguous, unknown int) {
	for i := range t {
		switch t[i].Verdict {
		case Certain:
			certain++
		case Ambiguous:
			ambiguous++
		default:
			unknown++
		}
	}
	return certain, ambiguous, unknown
}
