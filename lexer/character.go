package lexer

// ASCII character lookup tables for fast classification, grounded on
// opal-lang-opal/runtime/lexer/character.go's init()-populated table
// idiom.
var (
	isWhitespace [128]bool // space, tab only — newlines are not whitespace here
	isIdentStart [128]bool // letter or underscore
	isIdentPart  [128]bool // letter, digit, or underscore
	isDigit      [128]bool // 0-9
	isIndexDigit [128]bool // 0-9, used for path-index segments
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isWhitespace[i] = ch == ' ' || ch == '\t'
		isDigit[i] = ch >= '0' && ch <= '9'
		isIndexDigit[i] = isDigit[i]
		letter := ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
		isIdentStart[i] = letter
		isIdentPart[i] = letter || isDigit[i]
	}
}
