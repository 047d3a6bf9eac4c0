package nlp

import (
	"strings"
	"unicode"
)

// pennToUniversal maps Penn Treebank tags to universal POS tags
var pennToUniversal = map[string]string{
	"NN": POSNoun, "NNS": POSNoun,
	"NNP": POSPropN, "NNPS": POSPropN,
	"VB": POSVerb, "VBD": POSVerb, "VBG": POSVerb, "VBN": POSVerb, "VBP": POSVerb, "VBZ": POSVerb,
	"MD":  POSAux,
	"JJ":  POSAdj, "JJR": POSAdj, "JJS": POSAdj,
	"RB": POSAdv, "RBR": POSAdv, "RBS": POSAdv, "WRB": POSAdv,
	"PRP": POSPron, "PRP$": POSPron, "WP": POSPron, "WP$": POSPron, "EX": POSPron,
	"IN": POSAdp,
	"DT": POSDet, "PDT": POSDet, "WDT": POSDet,
	"UH": POSIntj,
	"CC": POSCConj,
	"CD": POSNum,
	"TO": POSPart, "RP": POSPart, "POS": POSPart,
	"SYM": POSSym, "$": POSSym, "#": POSSym,
	".": POSPunct, ",": POSPunct, ":": POSPunct, "(": POSPunct, ")": POSPunct,
	"``": POSPunct, "''": POSPunct, "-LRB-": POSPunct, "-RRB-": POSPunct,
	"FW": POSOther, "LS": POSOther,
}

// subordinators introduce clauses that deepen a sentence's parse tree
var subordinators = map[string]bool{
	"after": true, "although": true, "because": true, "before": true,
	"if": true, "once": true, "since": true, "that": true, "though": true,
	"unless": true, "until": true, "whereas": true, "whether": true, "while": true,
}

// UniversalPOS converts a Penn Treebank tag. Unknown tags map to X.
func UniversalPOS(penn string) string {
	if tag, ok := pennToUniversal[penn]; ok {
		return tag
	}
	return POSOther
}

// tokenPOS maps a tagged token to a universal tag. Tokens without letters
// or digits are punctuation or symbols whatever the tagger said.
func tokenPOS(text, penn string) string {
	if text == "" || strings.IndexFunc(text, isWordRune) >= 0 {
		return UniversalPOS(penn)
	}
	for _, r := range text {
		if !unicode.IsSymbol(r) {
			return POSPunct
		}
	}
	return POSSym
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isAlpha reports whether s is non-empty and made only of letters
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// opensClause reports whether a tagged token starts a subordinate or
// relative clause
func opensClause(text, penn string) bool {
	switch penn {
	case "WDT", "WP", "WP$", "WRB":
		return true
	case "IN":
		return subordinators[strings.ToLower(text)]
	}
	return false
}
