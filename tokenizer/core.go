package tokenizer

import (
	"strings"
	"sync"
	"unicode"

	"github.com/arlojansen/htmlcore/internal/constants"
)

// attrSetPool pools the per-tag "have we seen this attribute name" sets so a
// tokenizer processing many tags doesn't allocate a fresh map per tag.
var attrSetPool = sync.Pool{
	New: func() interface{} {
		return make(map[string]struct{}, 8)
	},
}

// acquireAttrSet gets a cleared set from the pool.
func acquireAttrSet() map[string]struct{} {
	m := attrSetPool.Get().(map[string]struct{})
	for k := range m {
		delete(m, k)
	}
	return m
}

// releaseAttrSet returns a set to the pool.
func releaseAttrSet(m map[string]struct{}) {
	if m != nil {
		attrSetPool.Put(m)
	}
}

// Tokenizer runs the WHATWG HTML5 tokenization state machine over a string,
// producing a stream of Tokens and collecting the parse errors it hits along
// the way. It holds no knowledge of tree construction; SetState/SetLastStartTag
// exist purely so a tree builder can steer it into RCDATA/RAWTEXT/script modes
// the moment it sees the matching start tag, exactly as the spec requires.
type Tokenizer struct {
	opts Options

	origInput string

	buf []rune
	pos int

	state    State
	textMode State

	reconsume bool
	ignoreLF  bool

	line   int
	column int

	// Current tag token being built.
	currentTagKind        TokenKind
	currentTagName        []rune
	currentTagAttrs       []Attr
	currentTagAttrIndex   map[string]struct{}
	currentTagSelfClosing bool

	currentAttrName           []rune
	currentAttrValue          []rune
	currentAttrValueHasAmp    bool
	currentComment            []rune
	commentEOF                bool
	currentDoctypeName        []rune
	currentDoctypePublic      *[]rune // nil = not set, empty slice = empty string
	currentDoctypeSystem      *[]rune
	currentDoctypeForceQuirks bool

	// For rawtext/rcdata/script end-tag matching.
	rawtextTagName  string
	originalTagName []rune
	tempBuffer      []rune

	lastStartTagName string

	textBuffer strings.Builder
	textHasAmp bool

	pendingTokens []Token
	errors        []ParseError

	allowCDATA bool

	// isASCIIOnly reports whether the original input held only bytes below 0x80.
	isASCIIOnly bool
}

// ParseError records one parse error the tokenizer hit, identified by the
// short error code used throughout the html5lib test suite ("eof-in-tag",
// "unexpected-null-character", ...) plus its source position.
type ParseError struct {
	Code    string
	Message string
	Line    int
	Column  int
}

// New creates a tokenizer for input using the default Options.
func New(input string) *Tokenizer {
	return NewWithOptions(input, defaultOptions())
}

// NewWithOptions creates a tokenizer for input with explicit Options.
func NewWithOptions(input string, opts Options) *Tokenizer {
	t := &Tokenizer{
		opts:     opts,
		state:    DataState,
		textMode: DataState,
		line:     1,
		column:   0,
	}
	t.origInput = input
	t.reset(input)
	return t
}

func (t *Tokenizer) reset(input string) {
	t.isASCIIOnly = true
	for i := 0; i < len(input); i++ {
		if input[i] >= 0x80 {
			t.isASCIIOnly = false
			break
		}
	}
	if input != "" && t.opts.DiscardBOM {
		r := []rune(input)
		if len(r) > 0 && r[0] == 0xFEFF {
			r = r[1:]
		}
		t.buf = r
	} else {
		t.buf = []rune(input)
	}

	t.pos = 0
	t.reconsume = false
	t.ignoreLF = false
	t.line = 1
	t.column = 0
	t.textMode = t.state

	t.currentTagKind = StartTag
	t.currentTagName = t.currentTagName[:0]
	t.currentTagAttrs = t.currentTagAttrs[:0]
	releaseAttrSet(t.currentTagAttrIndex)
	t.currentTagAttrIndex = acquireAttrSet()
	t.currentTagSelfClosing = false
	t.currentAttrName = t.currentAttrName[:0]
	t.currentAttrValue = t.currentAttrValue[:0]
	t.currentAttrValueHasAmp = false
	t.currentComment = t.currentComment[:0]
	t.currentDoctypeName = t.currentDoctypeName[:0]
	t.currentDoctypePublic = nil
	t.currentDoctypeSystem = nil
	t.currentDoctypeForceQuirks = false

	t.rawtextTagName = ""
	t.originalTagName = t.originalTagName[:0]
	t.tempBuffer = t.tempBuffer[:0]

	t.textBuffer.Reset()
	t.textHasAmp = false

	t.pendingTokens = nil
	t.errors = nil
}

// SetDiscardBOM controls whether a leading U+FEFF is discarded. For
// correctness this should be called before the first token is consumed.
func (t *Tokenizer) SetDiscardBOM(discard bool) {
	if t.opts.DiscardBOM == discard {
		return
	}
	t.opts.DiscardBOM = discard
	t.reset(t.origInput)
}

// SetXMLCoercion enables or disables XML coercion of text/comment output.
func (t *Tokenizer) SetXMLCoercion(enabled bool) {
	t.opts.XMLCoercion = enabled
}

// SetAllowCDATA toggles CDATA section parsing, which only applies in foreign
// (SVG/MathML) content.
func (t *Tokenizer) SetAllowCDATA(enabled bool) {
	t.allowCDATA = enabled
}

// SetState forces the tokenizer into state. The tree builder calls this right
// after a <title>/<textarea>/<script>/<style>/... start tag is emitted, since
// only the tree construction stage knows which elements demand RCDATA/RAWTEXT.
func (t *Tokenizer) SetState(state State) {
	t.state = state
	switch state {
	case DataState, RCDATAState, RAWTEXTState, ScriptDataState, PLAINTEXTState, CDATASectionState:
		t.textMode = state
	default:
	}
	if (state == RCDATAState || state == RAWTEXTState || state == ScriptDataState) && t.rawtextTagName == "" && t.lastStartTagName != "" {
		t.rawtextTagName = t.lastStartTagName
	}
}

// SetLastStartTag records name as the "appropriate end tag" for RCDATA,
// RAWTEXT, and script data end-tag matching.
func (t *Tokenizer) SetLastStartTag(name string) {
	t.lastStartTagName = name
	t.rawtextTagName = name
}

// Errors returns every parse error collected so far.
func (t *Tokenizer) Errors() []ParseError {
	return t.errors
}

// Next returns the next token, or a Token with Type == EOF once input is
// exhausted.
func (t *Tokenizer) Next() Token {
	if len(t.pendingTokens) > 0 {
		token := t.pendingTokens[0]
		t.pendingTokens = t.pendingTokens[1:]
		return token
	}

	for len(t.pendingTokens) == 0 {
		t.step()
	}
	token := t.pendingTokens[0]
	t.pendingTokens = t.pendingTokens[1:]
	return token
}

// stateHandler is one state function: it consumes characters off the input
// and leaves t.state set to wherever the machine goes next.
type stateHandler func(t *Tokenizer)

// stateDispatch maps every State value to its handler. States the spec
// defines but this tokenizer doesn't yet implement (the character-reference
// family, the comment-less-than-sign family) are left nil and fall back to
// Data, matching the pre-restructuring switch's default arm.
var stateDispatch = buildStateDispatch()

func buildStateDispatch() [int(NumericCharacterReferenceEndState) + 1]stateHandler {
	var d [int(NumericCharacterReferenceEndState) + 1]stateHandler

	d[DataState] = (*Tokenizer).stateData
	d[TagOpenState] = (*Tokenizer).stateTagOpen
	d[EndTagOpenState] = (*Tokenizer).stateEndTagOpen
	d[TagNameState] = (*Tokenizer).stateTagName
	d[BeforeAttributeNameState] = (*Tokenizer).stateBeforeAttributeName
	d[AttributeNameState] = (*Tokenizer).stateAttributeName
	d[AfterAttributeNameState] = (*Tokenizer).stateAfterAttributeName
	d[BeforeAttributeValueState] = (*Tokenizer).stateBeforeAttributeValue
	d[AttributeValueDoubleQuotedState] = (*Tokenizer).stateAttributeValueDoubleQuoted
	d[AttributeValueSingleQuotedState] = (*Tokenizer).stateAttributeValueSingleQuoted
	d[AttributeValueUnquotedState] = (*Tokenizer).stateAttributeValueUnquoted
	d[AfterAttributeValueQuotedState] = (*Tokenizer).stateAfterAttributeValueQuoted
	d[SelfClosingStartTagState] = (*Tokenizer).stateSelfClosingStartTag

	d[MarkupDeclarationOpenState] = (*Tokenizer).stateMarkupDeclarationOpen
	d[CommentStartState] = (*Tokenizer).stateCommentStart
	d[CommentStartDashState] = (*Tokenizer).stateCommentStartDash
	d[CommentState] = (*Tokenizer).stateComment
	d[CommentEndDashState] = (*Tokenizer).stateCommentEndDash
	d[CommentEndState] = (*Tokenizer).stateCommentEnd
	d[CommentEndBangState] = (*Tokenizer).stateCommentEndBang
	d[BogusCommentState] = (*Tokenizer).stateBogusComment

	d[DOCTYPEState] = (*Tokenizer).stateDoctype
	d[BeforeDOCTYPENameState] = (*Tokenizer).stateBeforeDoctypeName
	d[DOCTYPENameState] = (*Tokenizer).stateDoctypeName
	d[AfterDOCTYPENameState] = (*Tokenizer).stateAfterDoctypeName
	d[BogusDOCTYPEState] = (*Tokenizer).stateBogusDoctype
	d[AfterDOCTYPEPublicKeywordState] = (*Tokenizer).stateAfterDoctypePublicKeyword
	d[AfterDOCTYPESystemKeywordState] = (*Tokenizer).stateAfterDoctypeSystemKeyword
	d[BeforeDOCTYPEPublicIdentifierState] = (*Tokenizer).stateBeforeDoctypePublicIdentifier
	d[DOCTYPEPublicIdentifierDoubleQuotedState] = (*Tokenizer).stateDoctypePublicIdentifierDoubleQuoted
	d[DOCTYPEPublicIdentifierSingleQuotedState] = (*Tokenizer).stateDoctypePublicIdentifierSingleQuoted
	d[AfterDOCTYPEPublicIdentifierState] = (*Tokenizer).stateAfterDoctypePublicIdentifier
	d[BetweenDOCTYPEPublicAndSystemIdentifiersState] = (*Tokenizer).stateBetweenDoctypePublicAndSystemIdentifiers
	d[BeforeDOCTYPESystemIdentifierState] = (*Tokenizer).stateBeforeDoctypeSystemIdentifier
	d[DOCTYPESystemIdentifierDoubleQuotedState] = (*Tokenizer).stateDoctypeSystemIdentifierDoubleQuoted
	d[DOCTYPESystemIdentifierSingleQuotedState] = (*Tokenizer).stateDoctypeSystemIdentifierSingleQuoted
	d[AfterDOCTYPESystemIdentifierState] = (*Tokenizer).stateAfterDoctypeSystemIdentifier

	d[CDATASectionState] = (*Tokenizer).stateCDATASection
	d[CDATASectionBracketState] = (*Tokenizer).stateCDATASectionBracket
	d[CDATASectionEndState] = (*Tokenizer).stateCDATASectionEnd

	d[RCDATAState] = (*Tokenizer).stateRCDATA
	d[RCDATALessThanSignState] = (*Tokenizer).stateRCDATALessThanSign
	d[RCDATAEndTagOpenState] = (*Tokenizer).stateRCDATAEndTagOpen
	d[RCDATAEndTagNameState] = (*Tokenizer).stateRCDATAEndTagName
	d[RAWTEXTState] = (*Tokenizer).stateRAWTEXT
	d[ScriptDataState] = (*Tokenizer).stateRAWTEXT // script data behaves like rawtext with extra escape handling layered on top.
	d[RAWTEXTLessThanSignState] = (*Tokenizer).stateRAWTEXTLessThanSign
	d[RAWTEXTEndTagOpenState] = (*Tokenizer).stateRAWTEXTEndTagOpen
	d[RAWTEXTEndTagNameState] = (*Tokenizer).stateRAWTEXTEndTagName
	d[PLAINTEXTState] = (*Tokenizer).statePLAINTEXT

	d[ScriptDataEscapedState] = (*Tokenizer).stateScriptDataEscaped
	d[ScriptDataEscapedDashState] = (*Tokenizer).stateScriptDataEscapedDash
	d[ScriptDataEscapedDashDashState] = (*Tokenizer).stateScriptDataEscapedDashDash
	d[ScriptDataEscapedLessThanSignState] = (*Tokenizer).stateScriptDataEscapedLessThanSign
	d[ScriptDataEscapedEndTagOpenState] = (*Tokenizer).stateScriptDataEscapedEndTagOpen
	d[ScriptDataEscapedEndTagNameState] = (*Tokenizer).stateScriptDataEscapedEndTagName
	d[ScriptDataDoubleEscapeStartState] = (*Tokenizer).stateScriptDataDoubleEscapeStart
	d[ScriptDataDoubleEscapedState] = (*Tokenizer).stateScriptDataDoubleEscaped
	d[ScriptDataDoubleEscapedDashState] = (*Tokenizer).stateScriptDataDoubleEscapedDash
	d[ScriptDataDoubleEscapedDashDashState] = (*Tokenizer).stateScriptDataDoubleEscapedDashDash
	d[ScriptDataDoubleEscapedLessThanSignState] = (*Tokenizer).stateScriptDataDoubleEscapedLessThanSign
	d[ScriptDataDoubleEscapeEndState] = (*Tokenizer).stateScriptDataDoubleEscapeEnd

	return d
}

func (t *Tokenizer) step() {
	var handler stateHandler
	if int(t.state) >= 0 && int(t.state) < len(stateDispatch) {
		handler = stateDispatch[t.state]
	}
	if handler == nil {
		// Unimplemented states behave like Data for now.
		t.state = DataState
		handler = stateDispatch[DataState]
	}
	handler(t)
}

func (t *Tokenizer) getChar() (rune, bool) {
	if t.reconsume {
		t.reconsume = false
		if t.pos == 0 {
			return 0, false
		}
		t.pos--
	}

	for {
		if t.pos >= len(t.buf) {
			return 0, false
		}

		c := t.buf[t.pos]
		t.pos++

		if c == '\r' {
			t.ignoreLF = true
			t.advance('\n')
			return '\n', true
		}
		if c == '\n' {
			if t.ignoreLF {
				t.ignoreLF = false
				continue
			}
			t.advance('\n')
			return '\n', true
		}

		t.ignoreLF = false
		t.advance(c)
		return c, true
	}
}

func (t *Tokenizer) peek(offset int) (rune, bool) {
	i := t.pos + offset
	if t.reconsume {
		i--
	}
	if i < 0 || i >= len(t.buf) {
		return 0, false
	}
	return t.buf[i], true
}

func (t *Tokenizer) advance(c rune) {
	if c == '\n' {
		t.line++
		t.column = 0
		return
	}
	t.column++
}

func (t *Tokenizer) emit(tok Token) {
	t.pendingTokens = append(t.pendingTokens, tok)
}

func (t *Tokenizer) emitEOF() {
	t.flushText()
	t.emit(Token{Type: EOF})
}

func (t *Tokenizer) emitError(code string) {
	t.errors = append(t.errors, ParseError{
		Code:   code,
		Line:   t.line,
		Column: max(1, t.column),
	})
}

func (t *Tokenizer) reconsumeCurrent() {
	t.reconsume = true
}

func (t *Tokenizer) appendTextRune(r rune) {
	if r == '&' {
		t.textHasAmp = true
	}
	t.textBuffer.WriteRune(r)
}

func (t *Tokenizer) flushText() {
	if t.textBuffer.Len() == 0 {
		return
	}
	data := t.textBuffer.String()
	t.textBuffer.Reset()

	// Character references only get decoded in Data/RCDATA text (and their helper states).
	if (t.textMode == DataState || t.textMode == RCDATAState) && t.textHasAmp {
		data = decodeEntitiesInText(data, false)
	}
	t.textHasAmp = false

	if t.opts.XMLCoercion {
		data = coerceTextForXML(data)
	}

	t.emit(Token{Type: Character, Data: data})
}

func (t *Tokenizer) finishAttribute() {
	if len(t.currentAttrName) == 0 {
		return
	}
	name := constants.InternAttributeName(string(t.currentAttrName))
	t.currentAttrName = t.currentAttrName[:0]

	if _, exists := t.currentTagAttrIndex[name]; exists {
		t.emitError("duplicate-attribute")
		t.currentAttrValue = t.currentAttrValue[:0]
		t.currentAttrValueHasAmp = false
		return
	}

	value := ""
	if len(t.currentAttrValue) > 0 {
		value = string(t.currentAttrValue)
	}
	if t.currentAttrValueHasAmp {
		value = decodeEntitiesInText(value, true)
	}
	t.currentTagAttrs = append(t.currentTagAttrs, Attr{Name: name, Value: value})
	t.currentTagAttrIndex[name] = struct{}{}

	t.currentAttrValue = t.currentAttrValue[:0]
	t.currentAttrValueHasAmp = false
}

// emitCurrentTag finalizes and emits the tag under construction, switching
// the tokenizer into RCDATA/RAWTEXT/script-data/PLAINTEXT as a side effect
// for the fixed set of elements that demand it. Reports whether it made that
// switch, so the caller can skip its own "back to Data" transition.
func (t *Tokenizer) emitCurrentTag() bool {
	var switchedTextMode bool
	name := constants.InternTagName(string(t.currentTagName))
	attrs := append([]Attr(nil), t.currentTagAttrs...)
	tok := Token{
		Type:        t.currentTagKind,
		Name:        name,
		Attrs:       attrs,
		SelfClosing: t.currentTagSelfClosing,
	}

	if tok.Type == StartTag {
		t.lastStartTagName = name
		switch name {
		case "title", "textarea":
			t.state = RCDATAState
			t.textMode = RCDATAState
			t.rawtextTagName = name
			switchedTextMode = true
		case "script":
			t.state = ScriptDataState
			t.textMode = RAWTEXTState
			t.rawtextTagName = name
			switchedTextMode = true
		case "style", "xmp", "iframe", "noembed", "noframes":
			t.state = RAWTEXTState
			t.textMode = RAWTEXTState
			t.rawtextTagName = name
			switchedTextMode = true
		case "plaintext":
			t.state = PLAINTEXTState
			t.textMode = PLAINTEXTState
			t.rawtextTagName = name
			switchedTextMode = true
		}
	}

	t.currentTagName = t.currentTagName[:0]
	t.currentTagAttrs = t.currentTagAttrs[:0]
	releaseAttrSet(t.currentTagAttrIndex)
	t.currentTagAttrIndex = acquireAttrSet()
	t.currentAttrName = t.currentAttrName[:0]
	t.currentAttrValue = t.currentAttrValue[:0]
	t.currentAttrValueHasAmp = false
	t.currentTagSelfClosing = false
	t.currentTagKind = StartTag

	t.emit(tok)
	return switchedTextMode
}

func (t *Tokenizer) emitComment() {
	data := string(t.currentComment)
	t.currentComment = t.currentComment[:0]
	if t.opts.XMLCoercion {
		data = coerceCommentForXML(data)
	}
	t.emit(Token{Type: Comment, Data: data, CommentEOF: t.commentEOF})
	t.commentEOF = false
}

func (t *Tokenizer) emitDoctype() {
	name := string(t.currentDoctypeName)
	var publicID *string
	var systemID *string
	if t.currentDoctypePublic != nil {
		s := string(*t.currentDoctypePublic)
		publicID = &s
	}
	if t.currentDoctypeSystem != nil {
		s := string(*t.currentDoctypeSystem)
		systemID = &s
	}

	t.emit(Token{
		Type:        DOCTYPE,
		Name:        name,
		PublicID:    publicID,
		SystemID:    systemID,
		ForceQuirks: t.currentDoctypeForceQuirks,
	})
}

func (t *Tokenizer) consumeIf(lit string) bool {
	r := []rune(lit)
	if t.pos+len(r) > len(t.buf) {
		return false
	}
	for i := range r {
		if t.buf[t.pos+i] != r[i] {
			return false
		}
	}
	t.pos += len(r)
	t.column += len(r)
	return true
}

func (t *Tokenizer) consumeCaseInsensitive(lit string) bool {
	r := []rune(lit)
	if t.pos+len(r) > len(t.buf) {
		return false
	}
	for i := range r {
		a := t.buf[t.pos+i]
		b := r[i]
		if unicode.ToLower(a) != unicode.ToLower(b) {
			return false
		}
	}
	t.pos += len(r)
	t.column += len(r)
	return true
}
