package check

import (
	"regexp"
	"strings"

	"github.com/pdiddy/snipcheck/internal/prose"
)

// Claim is a behavioural assertion made in prose about a snippet.
type Claim string

const (
	ClaimNone           Claim = ""
	ClaimSuccess        Claim = "success"
	ClaimCompileFailure Claim = "compile-failure"
	ClaimThrows         Claim = "throws"
)

// IsFailure reports whether the claim says the snippet does not work.
func (c Claim) IsFailure() bool {
	return c == ClaimCompileFailure || c == ClaimThrows
}

func (c Claim) describe() string {
	switch c {
	case ClaimSuccess:
		return "the snippet works"
	case ClaimCompileFailure:
		return "a compile failure"
	case ClaimThrows:
		return "a thrown exception"
	}
	return "nothing"
}

type claimRule struct {
	claim   Claim
	pattern *regexp.Regexp
}

// claimRules is evaluated in order, first match wins. Negated failures come
// first so that "compiles without errors" is not read as an error claim.
var claimRules = []claimRule{
	{ClaimSuccess, regexp.MustCompile(`(?i)\b(without|no|zero)\s+(any\s+)?(compiler\s+|compile\s+|compilation\s+|build\s+|runtime\s+)?(errors?|exceptions?|problems?|issues?)\b`)},
	{ClaimSuccess, regexp.MustCompile(`(?i)\b(does\s+not|doesn't|won't|will\s+not|never)\s+(throw|raise|fail|crash|error)`)},

	{ClaimCompileFailure, regexp.MustCompile(`(?i)\b(fails?|failed|failing)\s+to\s+(compile|build)\b`)},
	{ClaimCompileFailure, regexp.MustCompile(`(?i)\b(does\s+not|doesn't|won't|will\s+not|cannot|can't|can\s+not)\s+(compile|build)\b`)},
	{ClaimCompileFailure, regexp.MustCompile(`(?i)\b(compile|compiler|compilation|compile-time|build)\s+(error|errors|failure|fails)\b`)},
	{ClaimCompileFailure, regexp.MustCompile(`(?i)\b(compiler|build)\s+(complains|rejects|reports|flags|gives|emits)\b`)},

	{ClaimThrows, regexp.MustCompile(`(?i)\b(throws?|thrown|throwing|raises?|raised)\b`)},
	{ClaimThrows, regexp.MustCompile(`(?i)\b(runtime\s+error|exception\s+(is|will\s+be|gets)\s+thrown|crash(es|ed)?)\b`)},

	{ClaimSuccess, regexp.MustCompile(`(?i)\b(compiles|compiled\s+fine|builds|works|worked|runs|succeeds|is\s+(valid|legal|fine|allowed|correct))\b`)},

	{ClaimCompileFailure, regexp.MustCompile(`(?i)\b(fails|failed|is\s+(invalid|illegal|not\s+allowed))\b`)},
}

// detectClaim returns the first claim made by the plain prose text.
func detectClaim(plain string) Claim {
	for _, r := range claimRules {
		if r.pattern.MatchString(plain) {
			return r.claim
		}
	}
	return ClaimNone
}

// errorCodePattern matches compiler diagnostic codes such as CS0122 or E0382.
var errorCodePattern = regexp.MustCompile(`^[A-Z]{1,4}\d{2,5}$`)

// errorNamePattern matches a single exception or error type name, such as
// InvalidOperationException or System.ArgumentError.
var errorNamePattern = regexp.MustCompile(`^[A-Za-z_][\w.]*(Exception|Error)$`)

// diagnosticPattern matches a code span that quotes a diagnostic line, such
// as "error CS0122: ..." or "fatal error: ...".
var diagnosticPattern = regexp.MustCompile(`(?i)^(fatal\s+)?error\b`)

// looksLikeErrorText reports whether a literal quoted in prose is meant as
// error output. Double-quoted prose strings always are. Code spans only when
// they hold a diagnostic code, an error type name or a diagnostic line, so
// spans quoting source such as `new Vehicle()` are not compared.
func looksLikeErrorText(lit prose.Literal) bool {
	if lit.Kind == prose.LiteralQuoted {
		return true
	}
	t := strings.TrimSpace(lit.Text)
	return errorCodePattern.MatchString(t) ||
		errorNamePattern.MatchString(t) ||
		diagnosticPattern.MatchString(t)
}
