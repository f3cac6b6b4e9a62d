package wbxml

import (
	"bufio"
	"bytes"
	"io"
)

// byteWriter is the minimal writer the mb-uint32 and string routines need.
type byteWriter interface {
	io.Writer
	io.ByteWriter
}

func newByteWriter(w io.Writer) byteWriter {
	if bw, ok := w.(byteWriter); ok {
		return bw
	}
	return bufio.NewWriter(w)
}

// Encoder serializes an Element tree to WBXML, switching code pages and
// falling back to LITERAL + string table for tags no loaded page knows.
type Encoder struct {
	w    byteWriter
	tags CodeSpace

	page byte

	strTable       bytes.Buffer
	strTableOffset map[string]uint32
}

// NewEncoder returns an Encoder writing WBXML to w, resolving tags
// against the given CodeSpace.
func NewEncoder(w io.Writer, tags CodeSpace) *Encoder {
	return &Encoder{
		w:              newByteWriter(w),
		tags:           tags,
		strTableOffset: make(map[string]uint32),
	}
}

// flush drains any buffering added by newByteWriter for writers that
// don't natively implement io.ByteWriter.
func (e *Encoder) flush() error {
	if f, ok := e.w.(*bufio.Writer); ok {
		return f.Flush()
	}
	return nil
}

// Encode writes the WBXML header followed by the serialized element tree.
func Encode(w io.Writer, header Header, root *Element, tags CodeSpace) error {
	e := NewEncoder(w, tags)

	// Pre-scan to populate the string table with every tag unknown to
	// every loaded code page, so LITERAL offsets are stable regardless of
	// emission order.
	e.collectLiterals(root)

	if err := e.writeHeader(header); err != nil {
		return err
	}
	if err := e.encodeElement(root); err != nil {
		return err
	}
	return e.flush()
}

func (e *Encoder) collectLiterals(el *Element) {
	if _, _, ok := e.findToken(el.Tag); !ok {
		e.internLiteral(el.Tag)
	}
	for _, c := range el.Children {
		e.collectLiterals(c)
	}
}

func (e *Encoder) internLiteral(name string) uint32 {
	if offset, ok := e.strTableOffset[name]; ok {
		return offset
	}
	offset := uint32(e.strTable.Len())
	e.strTableOffset[name] = offset
	e.strTable.WriteString(name)
	e.strTable.WriteByte(0)
	return offset
}

func (e *Encoder) writeHeader(h Header) error {
	if err := e.w.WriteByte(h.Version); err != nil {
		return err
	}
	if err := EncodeMBUint32(e.w, h.PublicID); err != nil {
		return err
	}
	if err := EncodeMBUint32(e.w, h.Charset); err != nil {
		return err
	}

	table := e.strTable.Bytes()
	if err := EncodeMBUint32(e.w, uint32(len(table))); err != nil {
		return err
	}
	_, err := e.w.Write(table)
	return err
}

// findToken returns the (code, page) of tag in the first code page that
// carries it, searching pages in ascending order for determinism.
func (e *Encoder) findToken(tagName string) (code byte, page byte, ok bool) {
	var pages []byte
	for p := range e.tags {
		pages = append(pages, p)
	}
	for i := 0; i < len(pages); i++ {
		for j := i + 1; j < len(pages); j++ {
			if pages[j] < pages[i] {
				pages[i], pages[j] = pages[j], pages[i]
			}
		}
	}
	for _, p := range pages {
		for c, name := range e.tags[p] {
			if name == tagName {
				return c, p, true
			}
		}
	}
	return 0, 0, false
}

func (e *Encoder) switchPage(p byte) error {
	if p == e.page {
		return nil
	}
	e.page = p
	if err := e.w.WriteByte(gloSwitchPage); err != nil {
		return err
	}
	return e.w.WriteByte(p)
}

func (e *Encoder) encodeElement(el *Element) error {
	hasContent := el.Text != "" || len(el.Children) > 0

	code, page, ok := e.findToken(el.Tag)
	if ok {
		if err := e.switchPage(page); err != nil {
			return err
		}
		token := code
		if hasContent {
			token |= tagContentMask
		}
		if err := e.w.WriteByte(token); err != nil {
			return err
		}
	} else {
		if err := e.switchPage(PageSyncML); err != nil {
			return err
		}
		token := gloLiteral
		if hasContent {
			token = gloLiteralC
		}
		if err := e.w.WriteByte(token); err != nil {
			return err
		}
		if err := EncodeMBUint32(e.w, e.strTableOffset[el.Tag]); err != nil {
			return err
		}
	}

	if !hasContent {
		return nil
	}

	if el.Text != "" {
		if err := e.writeString(el.Text); err != nil {
			return err
		}
	}
	for _, c := range el.Children {
		if err := e.encodeElement(c); err != nil {
			return err
		}
	}
	return e.w.WriteByte(gloEnd)
}

// writeString always emits STR_I: this encoder never reuses the document
// string table for content text, only for LITERAL tag names, keeping the
// table small and the encoding logic simple.
func (e *Encoder) writeString(s string) error {
	if err := e.w.WriteByte(gloStrI); err != nil {
		return err
	}
	return writeNulString(e.w, []byte(s))
}
