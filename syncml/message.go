// Package syncml implements the SyncML 1.2 representation protocol: the
// typed message model, the element-tree parser, and the response builder.
package syncml

// MetaKey is the closed set of Meta keys this server understands. Meta
// itself is keyed by raw tag name, so keys outside this set still
// round-trip; MetaKey just names the recognized ones for typed access.
type MetaKey int

const (
	MetaType MetaKey = iota
	MetaFormat
	MetaNextNonce
	MetaMaxMsgSize
	MetaMaxObjSize
	MetaSize
	MetaMark
	MetaAnchor
	MetaVersion
)

var metaKeyNames = map[MetaKey]string{
	MetaType:       "Type",
	MetaFormat:     "Format",
	MetaNextNonce:  "NextNonce",
	MetaMaxMsgSize: "MaxMsgSize",
	MetaMaxObjSize: "MaxObjSize",
	MetaSize:       "Size",
	MetaMark:       "Mark",
	MetaAnchor:     "Anchor",
	MetaVersion:    "Version",
}

// Meta is an ordered key→string map for a command or header's Meta
// element. Order is preserved so re-emission matches the source order.
type Meta struct {
	keys   []string
	values map[string]string
}

// NewMeta returns an empty Meta.
func NewMeta() *Meta {
	return &Meta{values: make(map[string]string)}
}

// Set assigns name=value, appending name to the key order the first time
// it's seen.
func (m *Meta) Set(name, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.values[name] = value
}

// Get returns the value for name and whether it was present.
func (m *Meta) Get(name string) (string, bool) {
	if m == nil || m.values == nil {
		return "", false
	}
	v, ok := m.values[name]
	return v, ok
}

// SetKey is a convenience wrapper over Set for a recognized MetaKey.
func (m *Meta) SetKey(key MetaKey, value string) {
	m.Set(metaKeyNames[key], value)
}

// GetKey is a convenience wrapper over Get for a recognized MetaKey.
func (m *Meta) GetKey(key MetaKey) (string, bool) {
	return m.Get(metaKeyNames[key])
}

// Keys returns the Meta's entries in insertion order.
func (m *Meta) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Empty reports whether the Meta carries no entries.
func (m *Meta) Empty() bool {
	return m == nil || len(m.keys) == 0
}

// Cred is the SyncML authentication credential carried in SyncHdr/Cred.
type Cred struct {
	Type   string // e.g. "syncml:auth-MAC"
	Format string // e.g. "b64"
	Data   string
}

// Header is the parsed SyncHdr element.
type Header struct {
	VerDTD    string
	VerProto  string
	SessionID string
	MsgID     string
	Target    string // LocURI
	Source    string // LocURI
	RespURI   string
	Cred      *Cred
	Meta      *Meta
}

// Item is a SyncML Item: target/source path, optional data, and its own
// Meta (used for e.g. Format/Type on a Results item).
type Item struct {
	Target string
	Source string
	Data   string
	Meta   *Meta
}

// CommandName identifies which SyncML command a Command carries; only
// the names the dispatcher acts on get full field support (Status). The
// rest round-trip through Items/Data and are statused without further
// interpretation; see Unrecognized for commands whose name is not one
// of these at all.
type CommandName string

const (
	CmdAlert    CommandName = "Alert"
	CmdGet      CommandName = "Get"
	CmdReplace  CommandName = "Replace"
	CmdResults  CommandName = "Results"
	CmdStatus   CommandName = "Status"
	CmdExec     CommandName = "Exec"
	CmdAdd      CommandName = "Add"
	CmdDelete   CommandName = "Delete"
	CmdPut      CommandName = "Put"
	CmdSync     CommandName = "Sync"
	CmdAtomic   CommandName = "Atomic"
	CmdSearch   CommandName = "Search"
	CmdCopy     CommandName = "Copy"
	CmdSequence CommandName = "Sequence"
	CmdMap      CommandName = "Map"
)

// Command is a tagged union over one incoming or outgoing SyncML command.
// Name is always populated; Unrecognized carries the original tag name
// when Name doesn't match any CommandName constant, so an unknown
// command can still be parsed, held, and statused without a parse
// failure.
type Command struct {
	Name         CommandName
	Unrecognized string // set when the wire tag matched no CommandName

	CmdID     string
	MsgRef    string
	CmdRef    string
	StatusOf  CommandName // for Status: the Cmd it refers to
	Data      string      // Status: the status code, as a string
	TargetRef string
	SourceRef string
	NoResp    bool
	Items     []Item
	Meta      *Meta
}

// Tag returns the wire tag name for the command: Unrecognized if set,
// else the CommandName.
func (c *Command) Tag() string {
	if c.Unrecognized != "" {
		return c.Unrecognized
	}
	return string(c.Name)
}

// Message is a full parsed or to-be-built SyncML document.
type Message struct {
	Header   Header
	Commands []Command
	IsFinal  bool
}
