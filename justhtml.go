// Package htmlcore implements the core of an HTML5 parser: the tokenizer
// state machine and the tree-construction algorithm described by the
// WHATWG HTML Living Standard.
//
// Given arbitrary, often malformed, HTML text, htmlcore produces the same
// canonical DOM a conforming browser would build, including the error
// recovery rules that make markup like "<b><p>X</b></p>" resolve into a
// well-formed tree.
//
// # Basic Usage
//
//	doc, err := htmlcore.Parse("<html><body><p>Hello!</p></body></html>")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Scope
//
// htmlcore covers tokenization, entity decoding, and tree construction
// (including the adoption agency algorithm, foster parenting, and
// foreign-content handling for SVG/MathML). It does not sniff character
// encodings, match CSS selectors, or serialize back to HTML — those are
// concerns for callers layered on top of the tree this package produces.
package htmlcore

import (
	"github.com/arlojansen/htmlcore/dom"
	htmlerrors "github.com/arlojansen/htmlcore/errors"
	"github.com/arlojansen/htmlcore/tokenizer"
	"github.com/arlojansen/htmlcore/treebuilder"
)

// Version is the current version of htmlcore.
const Version = "0.1.0-dev"

// Parse parses an HTML string and returns a Document.
//
// The parser handles malformed HTML according to the WHATWG HTML5
// specification, ensuring the same behavior as web browsers: parsing never
// fails outright, it always produces some tree.
func Parse(html string, opts ...Option) (*dom.Document, error) {
	cfg := newConfig(opts...)
	return parse(html, cfg)
}

// ParseFragment parses an HTML fragment as if it were the innerHTML of the
// given context element.
//
// The context tag matters: parsing "<td>" with context "tr" produces a
// different result than parsing it with context "div", because the tree
// constructor's insertion mode depends on the context element.
//
// Example:
//
//	nodes, err := htmlcore.ParseFragment("<td>Cell</td>", "tr")
func ParseFragment(html string, context string, opts ...Option) ([]*dom.Element, error) {
	cfg := newConfig(opts...)
	namespace := "html"
	if cfg.fragmentContext != nil && cfg.fragmentContext.Namespace != "" {
		namespace = cfg.fragmentContext.Namespace
	}
	cfg.fragmentContext = &treebuilder.FragmentContext{
		TagName:   context,
		Namespace: namespace,
	}
	return parseFragment(html, cfg)
}

// parse drives the tokenizer/tree-constructor loop to completion.
func parse(html string, cfg *config) (*dom.Document, error) {
	tok := tokenizer.New(html)
	if cfg.xmlCoercion {
		tok.SetXMLCoercion(true)
	}
	tb := treebuilder.New(tok)
	if cfg.iframeSrcdoc {
		tb.SetIframeSrcdoc(true)
	}

	for {
		tok.SetAllowCDATA(tb.AllowCDATA())
		tt := tok.Next()
		tb.ProcessToken(tt)
		if tt.Type == tokenizer.EOF {
			break
		}
	}

	if cfg.strict || cfg.collectErrors {
		parseErrs := convertTokenizerErrors(tok.Errors())
		if len(parseErrs) > 0 && cfg.strict {
			return tb.Document(), parseErrs[0]
		}
		if len(parseErrs) > 0 && cfg.collectErrors {
			return tb.Document(), htmlerrors.ParseErrors(parseErrs)
		}
	}

	return tb.Document(), nil
}

// parseFragment mirrors parse but targets a DocumentFragment seeded with a
// context element, per the html5lib fragment-parsing algorithm.
func parseFragment(html string, cfg *config) ([]*dom.Element, error) {
	tok := tokenizer.New(html)
	if cfg.xmlCoercion {
		tok.SetXMLCoercion(true)
	}
	tb := treebuilder.NewFragment(tok, cfg.fragmentContext)
	if cfg.iframeSrcdoc {
		tb.SetIframeSrcdoc(true)
	}

	for {
		tok.SetAllowCDATA(tb.AllowCDATA())
		tt := tok.Next()
		tb.ProcessToken(tt)
		if tt.Type == tokenizer.EOF {
			break
		}
	}

	if cfg.strict || cfg.collectErrors {
		parseErrs := convertTokenizerErrors(tok.Errors())
		if len(parseErrs) > 0 && cfg.strict {
			return tb.FragmentNodes(), parseErrs[0]
		}
		if len(parseErrs) > 0 && cfg.collectErrors {
			return tb.FragmentNodes(), htmlerrors.ParseErrors(parseErrs)
		}
	}

	return tb.FragmentNodes(), nil
}

func convertTokenizerErrors(errs []tokenizer.ParseError) []*htmlerrors.ParseError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]*htmlerrors.ParseError, 0, len(errs))
	for _, e := range errs {
		out = append(out, &htmlerrors.ParseError{
			Code:    e.Code,
			Message: htmlerrors.Message(e.Code),
			Line:    e.Line,
			Column:  e.Column,
		})
	}
	return out
}
