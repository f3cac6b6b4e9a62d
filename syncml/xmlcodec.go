package syncml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/webos-oma/omadmserver/wbxml"
)

// decodeXML reads one SyncML document encoded as plain XML into the same
// Element tree the WBXML decoder produces, so both wire formats share
// one parser downstream.
func decodeXML(data []byte) (*wbxml.Element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var stack []*wbxml.Element
	var root *wbxml.Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("malformed XML: %v", err)}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &wbxml.Element{Tag: t.Name.Local}
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.Children = append(top.Children, el)
			} else {
				root = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, &ParseError{Reason: "unbalanced end element"}
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			text := strings.TrimSpace(string(t))
			if text != "" {
				top.Text += text
			}
		}
	}

	if root == nil {
		return nil, &ParseError{Reason: "empty XML document"}
	}
	return root, nil
}

// encodeXML serializes an Element tree as a SyncML XML document with an
// XML declaration.
func encodeXML(root *wbxml.Element) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := writeXMLElement(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeXMLElement(buf *bytes.Buffer, el *wbxml.Element) error {
	fmt.Fprintf(buf, "<%s>", el.Tag)
	if el.Text != "" {
		xml.EscapeText(buf, []byte(el.Text))
	}
	for _, c := range el.Children {
		if err := writeXMLElement(buf, c); err != nil {
			return err
		}
	}
	fmt.Fprintf(buf, "</%s>", el.Tag)
	return nil
}
