package treebuilder

import (
	"github.com/arlojansen/htmlcore/dom"
	"github.com/arlojansen/htmlcore/tokenizer"
)

// TreeBuilder consumes the token stream produced by a tokenizer.Tokenizer and
// builds a dom.Document (or a fragment's child nodes) by running the WHATWG
// tree construction algorithm: a stack of open elements, a list of active
// formatting elements, and one handler per insertion mode.
type TreeBuilder struct {
	document *dom.Document

	openElements []*dom.Element

	mode         InsertionMode
	originalMode InsertionMode

	headElement *dom.Element

	activeFormatting []formattingEntry

	// Template insertion modes stack.
	templateModes []InsertionMode

	// Table parsing support.
	pendingTableText      []string
	tableTextOriginalMode *InsertionMode
	framesetOK            bool
	fosterParenting       bool

	fragmentContext *FragmentContext
	fragmentRoot    *dom.Element
	fragmentElement *dom.Element

	tokenizer *tokenizer.Tokenizer

	// forceHTMLMode is set by processForeignContent when it encounters a token
	// that should be reprocessed using normal HTML insertion mode rules rather
	// than foreign content rules. This prevents infinite loops when foreign
	// content contains tokens that trigger breakout to HTML mode.
	forceHTMLMode bool

	iframeSrcdoc bool
}

// New creates a new tree builder for full document parsing.
func New(tok *tokenizer.Tokenizer) *TreeBuilder {
	return &TreeBuilder{
		document:         dom.NewDocument(),
		mode:             Initial,
		originalMode:     Initial,
		openElements:     nil,
		activeFormatting: nil,
		templateModes:    nil,
		pendingTableText: nil,
		framesetOK:       true,
		fragmentRoot:     nil,
		fragmentContext:  nil,
		tokenizer:        tok,
	}
}

// NewFragment creates a new tree builder for fragment parsing.
func NewFragment(tok *tokenizer.Tokenizer, ctx *FragmentContext) *TreeBuilder {
	tb := &TreeBuilder{
		document:         dom.NewDocument(),
		mode:             Initial,
		originalMode:     Initial,
		openElements:     nil,
		activeFormatting: nil,
		templateModes:    nil,
		pendingTableText: nil,
		framesetOK:       false,
		fragmentContext:  ctx,
		tokenizer:        tok,
	}

	// Minimal fragment setup: create an <html> root and a context element.
	html := dom.NewElement("html")
	tb.document.AppendChild(html)
	tb.openElements = append(tb.openElements, html)
	tb.fragmentRoot = html

	if ctx != nil && ctx.TagName != "" {
		contextEl := dom.NewElement(ctx.TagName)
		switch ctx.Namespace {
		case "svg":
			contextEl = dom.NewElementNS(ctx.TagName, dom.NamespaceSVG)
		case "mathml":
			contextEl = dom.NewElementNS(ctx.TagName, dom.NamespaceMathML)
		}
		html.AppendChild(contextEl)
		tb.openElements = append(tb.openElements, contextEl)
		tb.fragmentElement = contextEl

		// Set the initial insertion mode based on the context element, per HTML5 fragment parsing.
		tag := contextEl.TagName
		if ctx.Namespace != "" && ctx.Namespace != "html" {
			tb.mode = InBody
		} else {
			switch tag {
			case "html":
				tb.mode = BeforeHead
			case "tbody", "thead", "tfoot":
				tb.mode = InTableBody
			case "tr":
				tb.mode = InRow
			case "td", "th":
				tb.mode = InCell
			case "caption":
				tb.mode = InCaption
			case "colgroup":
				tb.mode = InColumnGroup
			case "table":
				tb.mode = InTable
			case "select":
				tb.mode = InSelect
			default:
				tb.mode = InBody
			}
		}
		tb.originalMode = tb.mode

		// Adjust tokenizer state based on the fragment context element, per HTML5 fragment parsing.
		// This is necessary because the fragment setup does not emit the context start tag token.
		if ctx.Namespace == "" || ctx.Namespace == "html" {
			switch tag {
			case "title", "textarea":
				tb.tokenizer.SetLastStartTag(tag)
				tb.tokenizer.SetState(tokenizer.RCDATAState)
			case "style", "xmp", "iframe", "noembed", "noframes":
				tb.tokenizer.SetLastStartTag(tag)
				tb.tokenizer.SetState(tokenizer.RAWTEXTState)
			case "script":
				tb.tokenizer.SetLastStartTag(tag)
				tb.tokenizer.SetState(tokenizer.ScriptDataState)
			case "plaintext":
				tb.tokenizer.SetLastStartTag(tag)
				tb.tokenizer.SetState(tokenizer.PLAINTEXTState)
			}
		}
	}

	return tb
}

// SetIframeSrcdoc toggles iframe srcdoc parsing behavior (affects quirks mode decisions).
func (tb *TreeBuilder) SetIframeSrcdoc(enabled bool) {
	tb.iframeSrcdoc = enabled
}

// Document returns the constructed document. The <selectedcontent> mirror
// pass (see selectedcontent.go) runs here so every caller picks it up
// regardless of how many times Document is read.
func (tb *TreeBuilder) Document() *dom.Document {
	tb.populateSelectedContent(tb.document)
	return tb.document
}

// FragmentNodes returns the fragment's top-level element children.
func (tb *TreeBuilder) FragmentNodes() []*dom.Element {
	root := tb.fragmentElement
	if root == nil {
		root = tb.fragmentRoot
	}
	if root == nil {
		return nil
	}
	tb.populateSelectedContent(tb.document)
	var out []*dom.Element
	for _, child := range root.Children() {
		if el, ok := child.(*dom.Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// modeHandler processes one token under a given insertion mode and reports
// whether the same token must be reprocessed (the "reprocess the token"
// instruction that recurs throughout the tree construction algorithm).
type modeHandler func(tb *TreeBuilder, tok tokenizer.Token) bool

// modeDispatch maps every InsertionMode to its handler. Building this once as
// a package-level table turns mode lookup into an array index instead of a
// 20-plus-arm switch, and keeps "which mode runs which func" in one place
// rather than scattered across ProcessToken.
var modeDispatch = buildModeDispatch()

func buildModeDispatch() [int(AfterAfterFrameset) + 1]modeHandler {
	var table [int(AfterAfterFrameset) + 1]modeHandler
	table[Initial] = (*TreeBuilder).processInitial
	table[BeforeHTML] = (*TreeBuilder).processBeforeHTML
	table[BeforeHead] = (*TreeBuilder).processBeforeHead
	table[InHead] = (*TreeBuilder).processInHead
	table[InHeadNoscript] = (*TreeBuilder).processInHeadNoscript
	table[AfterHead] = (*TreeBuilder).processAfterHead
	table[Text] = (*TreeBuilder).processText
	table[InBody] = (*TreeBuilder).processInBody
	table[InTable] = (*TreeBuilder).processInTable
	table[InTableText] = (*TreeBuilder).processInTableText
	table[InCaption] = (*TreeBuilder).processInCaption
	table[InColumnGroup] = (*TreeBuilder).processInColumnGroup
	table[InTableBody] = (*TreeBuilder).processInTableBody
	table[InRow] = (*TreeBuilder).processInRow
	table[InCell] = (*TreeBuilder).processInCell
	table[InSelect] = (*TreeBuilder).processInSelect
	table[InSelectInTable] = (*TreeBuilder).processInSelectInTable
	table[InTemplate] = (*TreeBuilder).processInTemplate
	table[AfterBody] = (*TreeBuilder).processAfterBody
	table[InFrameset] = (*TreeBuilder).processInFrameset
	table[AfterFrameset] = (*TreeBuilder).processAfterFrameset
	table[AfterAfterBody] = (*TreeBuilder).processAfterAfterBody
	table[AfterAfterFrameset] = (*TreeBuilder).processAfterAfterFrameset
	return table
}

// dispatch looks up the handler for the builder's current mode, falling back
// to processInBody for any mode value outside the known range.
func (tb *TreeBuilder) dispatch() modeHandler {
	if int(tb.mode) >= 0 && int(tb.mode) < len(modeDispatch) && modeDispatch[tb.mode] != nil {
		return modeDispatch[tb.mode]
	}
	return (*TreeBuilder).processInBody
}

// ProcessToken feeds one token through the tree construction algorithm. A
// single token can be reprocessed several times: once under foreign-content
// rules that bail out to HTML rules, and any number of times across
// insertion-mode handlers that hand the token back via their bool return.
func (tb *TreeBuilder) ProcessToken(tok tokenizer.Token) {
	for {
		// forceHTMLMode skips the foreign-content check on the single pass
		// right after foreign content handed a token back for HTML rules;
		// otherwise that token would bounce straight back into foreign content.
		if !tb.forceHTMLMode && tb.shouldUseForeignContent(tok) {
			if !tb.processForeignContent(tok) {
				return
			}
			continue
		}
		tb.forceHTMLMode = false
		if !tb.dispatch()(tb, tok) {
			return
		}
	}
}

func (tb *TreeBuilder) currentNode() dom.Node {
	if len(tb.openElements) == 0 {
		return tb.document
	}
	return tb.openElements[len(tb.openElements)-1]
}

func (tb *TreeBuilder) currentElement() *dom.Element {
	if len(tb.openElements) == 0 {
		return nil
	}
	return tb.openElements[len(tb.openElements)-1]
}

func (tb *TreeBuilder) insertComment(data string) {
	tb.insertNode(dom.NewComment(data), nil)
}

func (tb *TreeBuilder) insertText(data string) {
	if data == "" {
		return
	}
	parent, before := tb.appropriateInsertionLocation()
	tb.insertNode(dom.NewText(data), &insertionLocation{parent: parent, before: before})
}

func (tb *TreeBuilder) insertElement(name string, attrs []tokenizer.Attr) *dom.Element {
	el := dom.NewElement(name)
	if el.TagName == "template" && el.Namespace == dom.NamespaceHTML && el.TemplateContent == nil {
		el.TemplateContent = dom.NewDocumentFragment()
	}
	for _, a := range attrs {
		if a.Namespace != "" {
			// HTML namespace attributes are handled later (foreign content).
			el.Attributes.SetNS(a.Namespace, a.Name, a.Value)
			continue
		}
		el.SetAttr(a.Name, a.Value)
	}
	tb.insertNode(el, nil)
	tb.openElements = append(tb.openElements, el)
	return el
}

func (tb *TreeBuilder) addMissingAttributes(el *dom.Element, attrs []tokenizer.Attr) {
	if el == nil {
		return
	}
	if len(tb.templateModes) > 0 {
		return
	}
	for _, a := range attrs {
		if a.Namespace != "" {
			if !el.Attributes.HasNS(a.Namespace, a.Name) {
				el.Attributes.SetNS(a.Namespace, a.Name, a.Value)
			}
			continue
		}
		if !el.HasAttr(a.Name) {
			el.SetAttr(a.Name, a.Value)
		}
	}
}

func (tb *TreeBuilder) popCurrent() *dom.Element {
	if len(tb.openElements) == 0 {
		return nil
	}
	el := tb.openElements[len(tb.openElements)-1]
	tb.openElements = tb.openElements[:len(tb.openElements)-1]
	return el
}

func (tb *TreeBuilder) popUntil(name string) {
	for len(tb.openElements) > 0 {
		el := tb.openElements[len(tb.openElements)-1]
		tb.openElements = tb.openElements[:len(tb.openElements)-1]
		if el.TagName == name {
			return
		}
	}
}

func (tb *TreeBuilder) elementInStack(name string) bool {
	for i := len(tb.openElements) - 1; i >= 0; i-- {
		if tb.openElements[i].TagName == name {
			return true
		}
	}
	return false
}

func isAllWhitespace(s string) bool {
	for _, r := range s {
		switch r {
		case '\t', '\n', '\f', '\r', ' ':
			continue
		default:
			return false
		}
	}
	return true
}

func ptrToString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

