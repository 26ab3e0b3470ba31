package extract

import "regexp"

type part int

const (
	partText part = iota
	partPrefix
	partSuffix
)

// rule rejects an OEIS candidate whose text, prefix (before "a(n) =") or
// suffix (after it) matches. Prefix and suffix are matched lowercased.
type rule struct {
	name    string
	part    part
	pattern *regexp.Regexp
}

var oeisRules = []rule{
	{"sequence_relation", partText, regexp.MustCompile(`(?i)A\d{6}\([^)]+\)\s*[-+*/^]\s*a\(n\)`)},
	{"domain_restriction", partPrefix, regexp.MustCompile(`\bfor\s+(?:all\s+)?n\s*(?:[<>]=?|!=)\s*-?\d+\s*[,;]?`)},
	{"modular_condition", partPrefix, regexp.MustCompile(`\bfor\s+n\s+mod\s+`)},
	{"table_column", partPrefix, regexp.MustCompile(`\bk\s*=\s*\d+\s*:`)},
	{"congruence_case", partPrefix, regexp.MustCompile(`\bfor\s+n\s*=\s*\d+\s*m(\s*\+\s*\d+)?\b`)},
	{"conditional_prefix", partPrefix, regexp.MustCompile(`\bfor\b[^,]{0,80}\bn\b[^,]{0,10},`)},
	{"if_prefix", partPrefix, regexp.MustCompile(`\bif\b`)},
	{"table_formula", partPrefix, regexp.MustCompile(`\b(diagonal|column|row)\b`)},
	{"trailing_restriction", partSuffix, regexp.MustCompile(`\bfor\s+n\s*[<>!=]`)},
	{"trailing_modular", partSuffix, regexp.MustCompile(`\bfor\s+n\s+mod\b`)},
	{"parity_case", partSuffix, regexp.MustCompile(`\bfor\s+n\s+(even|odd)\b`)},
}

var (
	lodaLineRe     = regexp.MustCompile(`(?i)^(A\d{6}):\s*a\(n\)\s*=\s*(.+)$`)
	initialTermsRe = regexp.MustCompile(`\ba\(\d+\)\s*=`)

	oeisHeaderRe  = regexp.MustCompile(`^(A\d{6}):\s*(.+)$`)
	oeisFormulaRe = regexp.MustCompile(`(?i)a\(n\)\s*=`)

	// OEIS expressions are limited to plain polynomial syntax to avoid misreading prose.
	oeisCharsetRe  = regexp.MustCompile(`^[0-9nN+\-*^()/\s]+$`)
	highExponentRe = regexp.MustCompile(`\^([1-9]\d+)`)
)

const (
	rejectNoFormula    = "no_formula"
	rejectInitialTerms = "initial_terms"
	rejectCharset      = "charset"
	rejectNoVariable   = "no_variable"
	rejectHighDegree   = "high_degree"
	rejectTrivial      = "trivial"
	rejectOtherwise    = "otherwise_branch"
)
