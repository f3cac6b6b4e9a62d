package syncml

import (
	"bytes"

	"github.com/webos-oma/omadmserver/wbxml"
)

// messageToElement is the inverse of elementToMessage: it rebuilds the
// element tree a Message would have been parsed from, so the WBXML and
// XML codec paths share one rendering step.
func messageToElement(msg *Message) *wbxml.Element {
	root := &wbxml.Element{Tag: "SyncML"}

	hdr := root.AddChild(&wbxml.Element{Tag: "SyncHdr"})
	hdr.AddText("VerDTD", msg.Header.VerDTD)
	hdr.AddText("VerProto", msg.Header.VerProto)
	hdr.AddText("SessionID", msg.Header.SessionID)
	hdr.AddText("MsgID", msg.Header.MsgID)
	hdr.AddChild(locURIElement("Target", msg.Header.Target))
	hdr.AddChild(locURIElement("Source", msg.Header.Source))
	if msg.Header.RespURI != "" {
		hdr.AddText("RespURI", msg.Header.RespURI)
	}
	if msg.Header.Cred != nil {
		cred := hdr.AddChild(&wbxml.Element{Tag: "Cred"})
		metaEl := cred.AddChild(&wbxml.Element{Tag: "Meta"})
		metaEl.AddText("Type", msg.Header.Cred.Type)
		metaEl.AddText("Format", msg.Header.Cred.Format)
		cred.AddText("Data", msg.Header.Cred.Data)
	}
	if !msg.Header.Meta.Empty() {
		hdr.AddChild(metaElement(msg.Header.Meta))
	}

	body := root.AddChild(&wbxml.Element{Tag: "SyncBody"})
	for _, cmd := range msg.Commands {
		body.AddChild(commandToElement(cmd))
	}
	if msg.IsFinal {
		body.AddChild(&wbxml.Element{Tag: "Final"})
	}

	return root
}

func locURIElement(tag, uri string) *wbxml.Element {
	el := &wbxml.Element{Tag: tag}
	el.AddText("LocURI", uri)
	return el
}

func metaElement(m *Meta) *wbxml.Element {
	el := &wbxml.Element{Tag: "Meta"}
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		el.AddText(k, v)
	}
	return el
}

func commandToElement(cmd Command) *wbxml.Element {
	el := &wbxml.Element{Tag: cmd.Tag()}
	el.AddText("CmdID", cmd.CmdID)
	if cmd.NoResp {
		el.AddChild(&wbxml.Element{Tag: "NoResp"})
	}
	if cmd.MsgRef != "" {
		el.AddText("MsgRef", cmd.MsgRef)
	}
	if cmd.CmdRef != "" {
		el.AddText("CmdRef", cmd.CmdRef)
	}
	if cmd.Name == CmdStatus {
		el.AddText("Cmd", string(cmd.StatusOf))
	}
	if cmd.TargetRef != "" {
		el.AddText("TargetRef", cmd.TargetRef)
	}
	if cmd.SourceRef != "" {
		el.AddText("SourceRef", cmd.SourceRef)
	}
	if !cmd.Meta.Empty() {
		el.AddChild(metaElement(cmd.Meta))
	}
	if cmd.Data != "" {
		el.AddText("Data", cmd.Data)
	}
	for _, item := range cmd.Items {
		el.AddChild(itemToElement(item))
	}
	return el
}

func itemToElement(it Item) *wbxml.Element {
	el := &wbxml.Element{Tag: "Item"}
	if it.Target != "" {
		el.AddChild(locURIElement("Target", it.Target))
	}
	if it.Source != "" {
		el.AddChild(locURIElement("Source", it.Source))
	}
	if !it.Meta.Empty() {
		el.AddChild(metaElement(it.Meta))
	}
	if it.Data != "" {
		el.AddText("Data", it.Data)
	}
	return el
}

func encodeWBXML(root *wbxml.Element) ([]byte, error) {
	var buf bytes.Buffer
	header := wbxml.Header{
		Version:  wbxml.Version13,
		PublicID: wbxml.PublicIDSyncML12,
		Charset:  wbxml.CharsetUTF8,
	}
	if err := wbxml.Encode(&buf, header, root, wbxml.SyncMLCodeSpace); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
