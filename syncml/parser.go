package syncml

import (
	"bytes"
	"strings"

	"github.com/webos-oma/omadmserver/wbxml"
)

// IsWBXML reports whether a request should be decoded as WBXML: the
// content-type names it, or (when transport strips the type) the first
// byte is a WBXML version byte. Callers choosing the response framing
// must consult the same predicate the parser does.
func IsWBXML(contentType string, body []byte) bool {
	if strings.HasSuffix(strings.ToLower(contentType), "wbxml") {
		return true
	}
	if len(body) > 0 && (body[0] == 0x02 || body[0] == 0x03) {
		return true
	}
	return false
}

// Parse lifts a raw SyncML request body into a Message, decoding via
// WBXML or XML depending on contentType and the leading byte.
func Parse(body []byte, contentType string) (*Message, error) {
	var root *wbxml.Element

	if IsWBXML(contentType, body) {
		_, el, err := wbxml.Decode(bytes.NewReader(body), wbxml.SyncMLCodeSpace)
		if err != nil {
			return nil, err
		}
		root = el
	} else {
		el, err := decodeXML(body)
		if err != nil {
			return nil, err
		}
		root = el
	}

	return elementToMessage(root)
}

func elementToMessage(root *wbxml.Element) (*Message, error) {
	hdrEl := root.Child("SyncHdr")
	bodyEl := root.Child("SyncBody")
	if hdrEl == nil || bodyEl == nil {
		return nil, &ParseError{Reason: "missing SyncHdr or SyncBody"}
	}

	msg := &Message{}
	msg.Header = parseHeader(hdrEl)

	for _, child := range bodyEl.Children {
		if child.Tag == "Final" {
			msg.IsFinal = true
			continue
		}
		msg.Commands = append(msg.Commands, parseCommand(child))
	}

	return msg, nil
}

func parseHeader(hdr *wbxml.Element) Header {
	h := Header{
		VerDTD:    hdr.ChildText("VerDTD", ""),
		VerProto:  hdr.ChildText("VerProto", ""),
		SessionID: hdr.ChildText("SessionID", ""),
		MsgID:     hdr.ChildText("MsgID", ""),
		RespURI:   hdr.ChildText("RespURI", ""),
	}
	if t := hdr.Child("Target"); t != nil {
		h.Target = t.ChildText("LocURI", "")
	}
	if s := hdr.Child("Source"); s != nil {
		h.Source = s.ChildText("LocURI", "")
	}
	if cred := hdr.Child("Cred"); cred != nil {
		c := &Cred{Data: cred.ChildText("Data", "")}
		if m := cred.Child("Meta"); m != nil {
			c.Type = m.ChildText("Type", "")
			c.Format = m.ChildText("Format", "")
		}
		h.Cred = c
	}
	if m := hdr.Child("Meta"); m != nil {
		h.Meta = parseMeta(m)
	}
	return h
}

func parseMeta(el *wbxml.Element) *Meta {
	meta := NewMeta()
	for _, c := range el.Children {
		meta.Set(c.Tag, c.Text)
	}
	return meta
}

func parseCommand(el *wbxml.Element) Command {
	cmd := Command{
		CmdID:     el.ChildText("CmdID", ""),
		MsgRef:    el.ChildText("MsgRef", ""),
		CmdRef:    el.ChildText("CmdRef", ""),
		Data:      el.ChildText("Data", ""),
		TargetRef: el.ChildText("TargetRef", ""),
		SourceRef: el.ChildText("SourceRef", ""),
	}

	if name, ok := commandNameFor(el.Tag); ok {
		cmd.Name = name
	} else {
		cmd.Unrecognized = el.Tag
	}

	if cmd.Name == CmdStatus {
		if c := el.Child("Cmd"); c != nil {
			cmd.StatusOf = CommandName(c.Text)
		}
	}

	if el.Child("NoResp") != nil {
		cmd.NoResp = true
	}

	if m := el.Child("Meta"); m != nil {
		cmd.Meta = parseMeta(m)
	}

	for _, item := range el.Children {
		if item.Tag != "Item" {
			continue
		}
		cmd.Items = append(cmd.Items, parseItem(item))
	}

	return cmd
}

func parseItem(el *wbxml.Element) Item {
	it := Item{Data: el.ChildText("Data", "")}
	if t := el.Child("Target"); t != nil {
		it.Target = t.ChildText("LocURI", "")
	}
	if s := el.Child("Source"); s != nil {
		it.Source = s.ChildText("LocURI", "")
	}
	if m := el.Child("Meta"); m != nil {
		it.Meta = parseMeta(m)
	}
	return it
}

var commandNamesByTag = map[string]CommandName{
	"Add": CmdAdd, "Alert": CmdAlert, "Atomic": CmdAtomic, "Copy": CmdCopy,
	"Delete": CmdDelete, "Exec": CmdExec, "Get": CmdGet, "Map": CmdMap,
	"Put": CmdPut, "Replace": CmdReplace, "Results": CmdResults,
	"Search": CmdSearch, "Sequence": CmdSequence, "Status": CmdStatus,
	"Sync": CmdSync,
}

func commandNameFor(tag string) (CommandName, bool) {
	name, ok := commandNamesByTag[tag]
	return name, ok
}
