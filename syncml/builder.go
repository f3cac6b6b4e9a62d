package syncml

import "strconv"

// Builder assembles the commands of one outgoing response. Its
// constructors leave CmdID unset: the caller accumulates commands into
// their final per-kind order (statuses, then server-originated commands)
// and calls AssignCmdIDs exactly once the full order is known, so IDs
// come out 1..n strictly ascending regardless of how many incoming
// commands were interleaved to produce them.
type Builder struct{}

// NewBuilder returns a Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Header returns a response SyncHdr populated with the fixed protocol
// version fields and the given routing fields.
func (b *Builder) Header(sessionID, msgID, target, source string) Header {
	return Header{
		VerDTD:    "1.2",
		VerProto:  "DM/1.2",
		SessionID: sessionID,
		MsgID:     msgID,
		Target:    target,
		Source:    source,
	}
}

// Status emits a Status command referring to cmdRef/of, carrying data as
// its status code.
func (b *Builder) Status(msgRef, cmdRef string, of CommandName, data string) Command {
	return Command{
		Name:     CmdStatus,
		MsgRef:   msgRef,
		CmdRef:   cmdRef,
		StatusOf: of,
		Data:     data,
	}
}

// Get emits a Get command requesting the given items.
func (b *Builder) Get(items ...Item) Command {
	return Command{Name: CmdGet, Items: items}
}

// Replace emits a Replace command setting the given items.
func (b *Builder) Replace(items ...Item) Command {
	return Command{Name: CmdReplace, Items: items}
}

// Exec emits an Exec command whose single item targets path.
func (b *Builder) Exec(path string) Command {
	return Command{Name: CmdExec, Items: []Item{{Target: path}}}
}

// Results emits a Results command referring to cmdRef, carrying items.
func (b *Builder) Results(cmdRef string, items ...Item) Command {
	return Command{Name: CmdResults, CmdRef: cmdRef, Items: items}
}

// Alert emits an Alert command with the given alert code as Data.
func (b *Builder) Alert(code string, items ...Item) Command {
	return Command{Name: CmdAlert, Data: code, Items: items}
}

// AssignCmdIDs sets CmdID on each command in commands to its 1-based
// position, in place, and returns commands for chaining. Call this once,
// after the full response order (statuses first, then server-originated
// commands) is assembled, never per-command mid-loop, or interleaved
// per-incoming-command ID consumption will desynchronize from final
// document order.
func AssignCmdIDs(commands []Command) []Command {
	for i := range commands {
		commands[i].CmdID = strconv.Itoa(i + 1)
	}
	return commands
}

// BuildMessage assembles a complete response Message from a header and
// the commands accumulated through the above constructors, in the order
// they should be emitted.
func BuildMessage(header Header, commands []Command, isFinal bool) *Message {
	return &Message{Header: header, Commands: commands, IsFinal: isFinal}
}

// Serialize renders msg to bytes, choosing WBXML or XML per asWBXML.
func Serialize(msg *Message, asWBXML bool) ([]byte, error) {
	root := messageToElement(msg)
	if asWBXML {
		return encodeWBXML(root)
	}
	return encodeXML(root)
}
