/*
Package wbxml implements the WBXML (WAP Binary XML) codec used by the
SyncML 1.2 / OMA DM representation protocol.

Specification: https://www.w3.org/TR/wbxml.

Unlike general-purpose WBXML, SyncML 1.2 never uses attribute-bearing
elements (OMA-TS-SyncML_RepPro-V1_2), so this package does not implement
ATTRSTART/ATTRVALUE tokens, entities, processing instructions, or
extension tokens. It does implement LITERAL tags backed by a string table,
since a device may send DM-tree path segments the static code pages don't
carry tokens for.

Binary framing:

	start   = version publicid charset strtbl body
	strtbl  = length *byte
	body    = element
	element = stag [ *content END ]
	content = element | string | opaque
	stag    = TAG | ( LITERAL index )
	string  = ( STR_I termstr ) | ( STR_T index )
	opaque  = OPAQUE length *byte
*/
package wbxml

import "fmt"

// CodeSpace maps a tag to its code, organized in pages of overlapping
// code-to-tag assignments. The same CodeSpace is consulted by both the
// Encoder and the Decoder, so every token the encoder may emit is
// guaranteed decodable and vice versa.
type CodeSpace map[byte]CodePage

// Name returns the tag name encoded by (pageID, code).
func (space CodeSpace) Name(pageID byte, code byte) (string, error) {
	page, ok := space[pageID]
	if !ok {
		return "", fmt.Errorf("wbxml: unknown page %d", pageID)
	}
	name, ok := page[code]
	if !ok {
		return "", &UnknownTokenError{Page: pageID, Code: code}
	}
	return name, nil
}

// CodePage maps a token code to a tag name within one page.
type CodePage map[byte]string

// Token is one of StartElement, EndElement, CharData, or Opaque.
type Token interface{}

// StartElement is the start tag of a WBXML element.
type StartElement struct {
	Name    string
	Content bool
}

// EndElement is the end tag of a WBXML element.
type EndElement struct {
	Name string
}

// CharData is inline or string-table-referenced text content. Adjacent
// string tokens are aggregated into one CharData by the decoder.
type CharData []byte

// Opaque is a length-prefixed binary payload (global token 0xC3). The
// encoder used by this server never emits Opaque (every value is
// transmitted as text) but the decoder must tolerate it since some
// devices wrap nonces and binary NextNonce values in OPAQUE.
type Opaque []byte

// Header is the WBXML document header: version, public identifier,
// character set, and string table.
type Header struct {
	Version     uint8
	PublicID    uint32
	Charset     uint32
	StringTable []byte
}

// Element is a node in the decoded document tree: a tag name, optional
// text content, and an ordered list of children. This is the codec's
// intermediate representation, shared by the XML and WBXML paths.
type Element struct {
	Tag      string
	Text     string
	Children []*Element
}

// Child returns the first direct child with the given tag, or nil.
func (e *Element) Child(tag string) *Element {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ChildText returns the text of the first direct child with the given
// tag, or def if no such child exists.
func (e *Element) ChildText(tag, def string) string {
	if c := e.Child(tag); c != nil {
		return c.Text
	}
	return def
}

// AddChild appends a child element and returns it.
func (e *Element) AddChild(c *Element) *Element {
	e.Children = append(e.Children, c)
	return c
}

// AddText appends a child element carrying only text, and returns the
// parent for chaining.
func (e *Element) AddText(tag, text string) *Element {
	e.AddChild(&Element{Tag: tag, Text: text})
	return e
}

// Global WBXML tokens used by the SyncML 1.2 document type. Extension,
// entity, and processing-instruction tokens are not defined since this
// package never emits or expects them.
const (
	gloSwitchPage byte = 0x00
	gloEnd        byte = 0x01
	gloStrI       byte = 0x03
	gloLiteral    byte = 0x04
	gloLiteralC   byte = 0x44
	gloStrT       byte = 0x83
	gloOpaque     byte = 0xC3
)

const tagContentMask byte = 0x40
const tagCodeMask byte = 0x3F

// tag is a non-global tag token in a WBXML document.
type tag byte

// hasContent reports whether the tag token has the HAS_CONTENT flag set.
func (t tag) hasContent() bool {
	return byte(t)&tagContentMask == tagContentMask
}

// id returns the code identifying the tag within its code page.
func (t tag) id() byte {
	return byte(t) & tagCodeMask
}
