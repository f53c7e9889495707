package lexer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type TokenType int

func (t TokenType) String() string {
	s, ok := revertKeyWords[t]
	if !ok {
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
	return s
}

// IsKeyword reports whether t is a reserved word. Keywords are still valid column names inside
// an insert column list.
func (t TokenType) IsKeyword() bool {
	return t > keywordBegin && t < keywordEnd
}

const (
	// END is always the last token, positioned at the end of input.
	END TokenType = iota

	// literals
	IDENT // `name` or [name]
	WORD  // bare name
	INT
	FLOAT
	HEX
	CHARS // 'text' or "text"

	// symbols
	LEFTBRACKET
	RIGHTBRACKET
	COMMA
	SEMICOLON
	DOT
	QUESTION
	EQUAL
	NOTEQUAL
	GREAT
	GREATEQUAL
	LESS
	LESSEQUAL
	PLUS
	MINUS
	STAR
	DIVIDE
	MOD
	CONCAT // ||
	BITAND
	BITOR
	CARET

	keywordBegin
	INSERT
	INTO
	VALUES
	VALUE
	SELECT
	SET
	// mysql: INSERT INTO t PARTITION (p0, p1) ...
	PARTITION
	ON
	DUPLICATE
	KEY
	UPDATE
	IGNORE
	LOW_PRIORITY
	DELAYED
	HIGH_PRIORITY
	// oracle: INSERT ALL | INSERT FIRST
	ALL
	FIRST
	// sqlserver: INSERT TOP (n) ... OUTPUT ...
	OUTPUT
	TOP
	WITH
	RETURNING
	DEFAULT
	NULL
	TRUE
	FALSE
	AS
	FROM
	WHERE
	AND
	OR
	NOT
	DELETE
	keywordEnd
)

type LexicalError string

func (err LexicalError) Error() string {
	return string(err)
}

const (
	StringUnExpectedEndErr  = LexicalError("unexpected string end")
	IdentUnExpectedEndErr   = LexicalError("unexpected ident end")
	CommentUnExpectedEndErr = LexicalError("unexpected comment end")
	NumberFormatErr         = LexicalError("wrong number format")
	UnknownTokenErr         = LexicalError("unknown token")
)

// Token positions are byte offsets into the original input. StartPos is where the token's text
// begins (including any quote), EndPos is one past its last byte.
type Token struct {
	Tp       TokenType
	Literals string
	StartPos int
	EndPos   int
}

type Lexer struct {
	Tokens []Token
	Data   []byte
	// DoubleQuotedIdent makes "..." an identifier instead of a text, as in ansi sql.
	DoubleQuotedIdent bool
	pos               int
}

func NewLexer() *Lexer {
	return &Lexer{}
}

var keyWords = map[string]TokenType{}
var singleCharKeyWordMap = map[byte]TokenType{}
var revertKeyWords = map[TokenType]string{}

func init() {
	keyWords["INSERT"] = INSERT
	keyWords["INTO"] = INTO
	keyWords["VALUES"] = VALUES
	keyWords["VALUE"] = VALUE
	keyWords["SELECT"] = SELECT
	keyWords["SET"] = SET
	keyWords["PARTITION"] = PARTITION
	keyWords["ON"] = ON
	keyWords["DUPLICATE"] = DUPLICATE
	keyWords["KEY"] = KEY
	keyWords["UPDATE"] = UPDATE
	keyWords["IGNORE"] = IGNORE
	keyWords["LOW_PRIORITY"] = LOW_PRIORITY
	keyWords["DELAYED"] = DELAYED
	keyWords["HIGH_PRIORITY"] = HIGH_PRIORITY
	keyWords["ALL"] = ALL
	keyWords["FIRST"] = FIRST
	keyWords["OUTPUT"] = OUTPUT
	keyWords["TOP"] = TOP
	keyWords["WITH"] = WITH
	keyWords["RETURNING"] = RETURNING
	keyWords["DEFAULT"] = DEFAULT
	keyWords["NULL"] = NULL
	keyWords["TRUE"] = TRUE
	keyWords["FALSE"] = FALSE
	keyWords["AS"] = AS
	keyWords["FROM"] = FROM
	keyWords["WHERE"] = WHERE
	keyWords["AND"] = AND
	keyWords["OR"] = OR
	keyWords["NOT"] = NOT
	keyWords["DELETE"] = DELETE

	singleCharKeyWordMap['('] = LEFTBRACKET
	singleCharKeyWordMap[')'] = RIGHTBRACKET
	singleCharKeyWordMap[','] = COMMA
	singleCharKeyWordMap[';'] = SEMICOLON
	singleCharKeyWordMap['.'] = DOT
	singleCharKeyWordMap['?'] = QUESTION
	singleCharKeyWordMap['+'] = PLUS
	singleCharKeyWordMap['-'] = MINUS
	singleCharKeyWordMap['*'] = STAR
	singleCharKeyWordMap['/'] = DIVIDE
	singleCharKeyWordMap['%'] = MOD
	singleCharKeyWordMap['&'] = BITAND
	singleCharKeyWordMap['^'] = CARET

	for k, v := range keyWords {
		revertKeyWords[v] = k
	}
	revertKeyWords[END] = "END"
	revertKeyWords[IDENT] = "IDENT"
	revertKeyWords[WORD] = "WORD"
	revertKeyWords[INT] = "INT"
	revertKeyWords[FLOAT] = "FLOAT"
	revertKeyWords[HEX] = "HEX"
	revertKeyWords[CHARS] = "CHARS"
	revertKeyWords[LEFTBRACKET] = "LEFTBRACKET"
	revertKeyWords[RIGHTBRACKET] = "RIGHTBRACKET"
	revertKeyWords[COMMA] = "COMMA"
	revertKeyWords[SEMICOLON] = "SEMICOLON"
	revertKeyWords[DOT] = "DOT"
	revertKeyWords[QUESTION] = "QUESTION"
	revertKeyWords[EQUAL] = "EQUAL"
	revertKeyWords[NOTEQUAL] = "NOTEQUAL"
	revertKeyWords[GREAT] = "GREAT"
	revertKeyWords[GREATEQUAL] = "GREATEQUAL"
	revertKeyWords[LESS] = "LESS"
	revertKeyWords[LESSEQUAL] = "LESSEQUAL"
	revertKeyWords[PLUS] = "PLUS"
	revertKeyWords[MINUS] = "MINUS"
	revertKeyWords[STAR] = "STAR"
	revertKeyWords[DIVIDE] = "DIVIDE"
	revertKeyWords[MOD] = "MOD"
	revertKeyWords[CONCAT] = "CONCAT"
	revertKeyWords[BITAND] = "BITAND"
	revertKeyWords[BITOR] = "BITOR"
	revertKeyWords[CARET] = "CARET"
}

func (l *Lexer) Reset() {
	l.Data = nil
	l.Tokens = l.Tokens[:0]
	l.pos = 0
}

// Lex tokenizes data and appends a trailing END token. The input is not trimmed: token offsets
// must address the exact text a rewriter will splice into.
func (l *Lexer) Lex(data []byte) error {
	l.Data = data
	l.Tokens = l.Tokens[:0]
	l.pos = 0
	err := l.read()
	if err != nil {
		return errors.Wrapf(err, "lex at position %d", l.pos)
	}
	l.Tokens = append(l.Tokens, Token{Tp: END, StartPos: len(l.Data), EndPos: len(l.Data)})
	return nil
}

func (l *Lexer) read() (err error) {
	for l.pos < len(l.Data) {
		switch c := l.Data[l.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.readContinuousSpace()
		case c == '#' || (c == '-' && l.matchNext('-')):
			l.readLineComment()
		case c == '/' && l.matchNext('*'):
			err = l.readBlockComment()
		case c == '`':
			err = l.readIdent('`')
		case c == '[':
			err = l.readIdent(']')
		case c == '"' && l.DoubleQuotedIdent:
			err = l.readIdent('"')
		case c == '\'' || c == '"':
			err = l.readString(c)
		case c >= '0' && c <= '9':
			err = l.readNumberValue()
		case c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			l.readWord()
		default:
			err = l.readChars()
		}
		if err != nil {
			return
		}
	}
	return nil
}

func (l *Lexer) matchNext(b byte) bool {
	return l.pos+1 < len(l.Data) && l.Data[l.pos+1] == b
}

func (l *Lexer) appendToken(tp TokenType, startPos int) {
	l.Tokens = append(l.Tokens, Token{Tp: tp, Literals: string(l.Data[startPos:l.pos]), StartPos: startPos, EndPos: l.pos})
}

func (l *Lexer) readChars() error {
	startPos := l.pos
	b := l.Data[l.pos]
	l.pos++
	switch b {
	case '!':
		if l.pos >= len(l.Data) || l.Data[l.pos] != '=' {
			l.pos = startPos
			return UnknownTokenErr
		}
		l.pos++
		l.appendToken(NOTEQUAL, startPos)
	case '>':
		if l.pos < len(l.Data) && l.Data[l.pos] == '=' {
			l.pos++
			l.appendToken(GREATEQUAL, startPos)
		} else {
			l.appendToken(GREAT, startPos)
		}
	case '<':
		if l.pos < len(l.Data) && l.Data[l.pos] == '=' {
			l.pos++
			l.appendToken(LESSEQUAL, startPos)
		} else if l.pos < len(l.Data) && l.Data[l.pos] == '>' {
			l.pos++
			l.appendToken(NOTEQUAL, startPos)
		} else {
			l.appendToken(LESS, startPos)
		}
	case '=':
		// == is accepted as a comparison too.
		if l.pos < len(l.Data) && l.Data[l.pos] == '=' {
			l.pos++
		}
		l.appendToken(EQUAL, startPos)
	case '|':
		if l.pos < len(l.Data) && l.Data[l.pos] == '|' {
			l.pos++
			l.appendToken(CONCAT, startPos)
		} else {
			l.appendToken(BITOR, startPos)
		}
	default:
		tp, ok := singleCharKeyWordMap[b]
		if !ok {
			l.pos = startPos
			return UnknownTokenErr
		}
		l.appendToken(tp, startPos)
	}
	return nil
}

func (l *Lexer) readContinuousSpace() {
	for ; l.pos < len(l.Data); l.pos++ {
		c := l.Data[l.pos]
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			break
		}
	}
}

func (l *Lexer) readLineComment() {
	for ; l.pos < len(l.Data) && l.Data[l.pos] != '\n'; l.pos++ {
	}
}

func (l *Lexer) readBlockComment() error {
	end := bytes.Index(l.Data[l.pos+2:], []byte("*/"))
	if end < 0 {
		return CommentUnExpectedEndErr
	}
	l.pos += 2 + end + 2
	return nil
}

func (l *Lexer) readWord() {
	startPos := l.pos
	for ; l.pos < len(l.Data); l.pos++ {
		c := l.Data[l.pos]
		if c == '_' || c == '$' || (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			continue
		}
		break
	}
	keyWord, ok := keyWords[strings.ToUpper(string(l.Data[startPos:l.pos]))]
	if !ok {
		// Should be a word like TableName, ColumnName etc.
		l.appendToken(WORD, startPos)
		return
	}
	l.appendToken(keyWord, startPos)
}

// Read until the closing quote. The literal keeps the quotes, util.ExactlyValue strips them.
func (l *Lexer) readIdent(closing byte) error {
	startPos := l.pos
	l.pos++
	loc := bytes.IndexByte(l.Data[l.pos:], closing)
	if loc < 0 {
		l.pos = startPos
		return IdentUnExpectedEndErr
	}
	l.pos += loc + 1
	l.appendToken(IDENT, startPos)
	return nil
}

// readString reads a quoted text. A doubled quote or a backslash escapes the next character.
func (l *Lexer) readString(quote byte) error {
	startPos := l.pos
	l.pos++
	var buf bytes.Buffer
	for l.pos < len(l.Data) {
		c := l.Data[l.pos]
		switch {
		case c == '\\' && l.pos+1 < len(l.Data):
			buf.WriteByte(l.Data[l.pos+1])
			l.pos += 2
		case c == quote && l.matchNext(quote):
			buf.WriteByte(quote)
			l.pos += 2
		case c == quote:
			l.pos++
			l.Tokens = append(l.Tokens, Token{Tp: CHARS, Literals: buf.String(), StartPos: startPos, EndPos: l.pos})
			return nil
		default:
			buf.WriteByte(c)
			l.pos++
		}
	}
	l.pos = startPos
	return StringUnExpectedEndErr
}

func (l *Lexer) readNumberValue() error {
	startPos := l.pos
	if l.Data[l.pos] == '0' && l.pos+1 < len(l.Data) && (l.Data[l.pos+1] == 'x' || l.Data[l.pos+1] == 'X') {
		l.pos += 2
		for ; l.pos < len(l.Data) && isHexDigit(l.Data[l.pos]); l.pos++ {
		}
		if l.pos == startPos+2 {
			l.pos = startPos
			return NumberFormatErr
		}
		l.appendToken(HEX, startPos)
		return nil
	}
	isFloat := false
	for ; l.pos < len(l.Data); l.pos++ {
		c := l.Data[l.pos]
		if c >= '0' && c <= '9' {
			continue
		}
		if c == '.' && !isFloat {
			isFloat = true
			continue
		}
		if (c == 'e' || c == 'E') && l.pos+1 < len(l.Data) {
			next := l.Data[l.pos+1]
			if next >= '0' && next <= '9' {
				isFloat = true
				continue
			}
			if (next == '+' || next == '-') && l.pos+2 < len(l.Data) && l.Data[l.pos+2] >= '0' && l.Data[l.pos+2] <= '9' {
				isFloat = true
				l.pos++
				continue
			}
		}
		break
	}
	if isFloat {
		l.appendToken(FLOAT, startPos)
	} else {
		l.appendToken(INT, startPos)
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (l *Lexer) String() string {
	var buf bytes.Buffer
	for i, token := range l.Tokens {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString(fmt.Sprintf("{%s, %q, StartPos: %d, EndPos: %d}", token.Tp, token.Literals, token.StartPos, token.EndPos))
	}
	return buf.String()
}
