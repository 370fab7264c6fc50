// Package serialize renders a parsed DOM tree in the html5lib
// tree-construction test format, the serialization contract external
// validators use to check tree-construction output against the reference
// corpus.
//
// Format reference: https://github.com/html5lib/html5lib-tests
package serialize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arlojansen/htmlcore/dom"
)

// Document renders a full parsed document: a leading "| <!DOCTYPE ...>"
// line when present, followed by the tree lines for its children.
func Document(doc *dom.Document) string {
	var sb strings.Builder

	if doc.Doctype != nil {
		sb.WriteString("| <!DOCTYPE ")
		switch {
		case doc.Doctype.Name == "":
			sb.WriteString(">")
		case doc.Doctype.PublicID != "" || doc.Doctype.SystemID != "":
			sb.WriteString(doc.Doctype.Name)
			sb.WriteString(" \"")
			sb.WriteString(doc.Doctype.PublicID)
			sb.WriteString("\" \"")
			sb.WriteString(doc.Doctype.SystemID)
			sb.WriteString("\">")
		default:
			sb.WriteString(doc.Doctype.Name)
			sb.WriteString(">")
		}
		sb.WriteByte('\n')
	}

	sb.WriteString(Nodes(doc.Children()))

	return strings.TrimRight(sb.String(), "\n")
}

// Nodes renders a list of sibling nodes at depth 0, used for fragment
// results that have no enclosing document.
func Nodes(nodes []dom.Node) string {
	var sb strings.Builder
	for _, child := range nodes {
		serializeNode(&sb, child, 0)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func serializeNode(sb *strings.Builder, node dom.Node, depth int) {
	indent := strings.Repeat("  ", depth)

	switch n := node.(type) {
	case *dom.Element:
		sb.WriteString("| ")
		sb.WriteString(indent)
		sb.WriteString("<")
		sb.WriteString(tagName(n))
		sb.WriteString(">")
		sb.WriteByte('\n')

		attrs := n.Attributes.All()
		sort.Slice(attrs, func(i, j int) bool {
			return attributeName(attrs[i]) < attributeName(attrs[j])
		})
		for _, attr := range attrs {
			sb.WriteString("| ")
			sb.WriteString(indent)
			sb.WriteString("  ")
			sb.WriteString(attributeName(attr))
			sb.WriteString("=\"")
			sb.WriteString(attr.Value)
			sb.WriteString("\"")
			sb.WriteByte('\n')
		}

		if n.TemplateContent != nil {
			sb.WriteString("| ")
			sb.WriteString(strings.Repeat("  ", depth+1))
			sb.WriteString("content")
			sb.WriteByte('\n')
			for _, child := range n.TemplateContent.Children() {
				serializeNode(sb, child, depth+2)
			}
		}

		for _, child := range n.Children() {
			serializeNode(sb, child, depth+1)
		}

	case *dom.Text:
		sb.WriteString("| ")
		sb.WriteString(indent)
		sb.WriteString("\"")
		sb.WriteString(n.Data)
		sb.WriteString("\"")
		sb.WriteByte('\n')

	case *dom.Comment:
		sb.WriteString("| ")
		sb.WriteString(indent)
		sb.WriteString("<!-- ")
		sb.WriteString(n.Data)
		sb.WriteString(" -->")
		sb.WriteByte('\n')

	case *dom.DocumentType:
		// Represented via doc.Doctype at the document level; nothing to
		// print when encountered as a regular child (fragment contexts).
		return

	default:
		return
	}
}

// tagName prefixes foreign-namespace tag names per the test format, e.g.
// "svg foreignObject" or "math mi".
func tagName(el *dom.Element) string {
	switch el.Namespace {
	case "", dom.NamespaceHTML:
		return el.TagName
	case dom.NamespaceSVG:
		return "svg " + el.TagName
	case dom.NamespaceMathML:
		return "math " + el.TagName
	default:
		return fmt.Sprintf("%s %s", el.Namespace, el.TagName)
	}
}

// attributeName prefixes namespaced attribute names with a space instead
// of the usual colon, e.g. "xlink href" for xlink:href.
func attributeName(attr dom.Attribute) string {
	var designator string
	switch attr.Namespace {
	case "":
		designator = ""
	case "http://www.w3.org/1999/xlink":
		designator = "xlink "
	case "http://www.w3.org/XML/1998/namespace":
		designator = "xml "
	case "http://www.w3.org/2000/xmlns/":
		designator = "xmlns "
	default:
		designator = attr.Namespace + " "
	}

	if designator == "" {
		return attr.Name
	}

	local := attr.Name
	if idx := strings.IndexByte(local, ':'); idx >= 0 {
		local = local[idx+1:]
	}
	return designator + local
}
