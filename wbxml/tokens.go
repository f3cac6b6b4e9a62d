package wbxml

// Token tables for the SyncML 1.2 and DevInf WBXML code pages, following
// OMA-TS-SyncML_RepPro-V1_2 and OMA-TS-DM_Protocol-V1_2.
//
// PageSyncML (0x00) carries the SyncML representation protocol elements
// (SyncHdr, SyncBody, Alert, Get, Replace, Status, ...). PageMetInf (0x01)
// carries Meta-level elements (NextNonce, MaxMsgSize, Type, Format, ...).
// PageDevInf is not switched to on the hot path but is retained so that a
// response embedding a DevInf subtree can still be encoded and decoded.
const (
	PageSyncML byte = 0x00
	PageMetInf byte = 0x01
	PageDevInf byte = 0x02
)

// SyncMLTags is the forward code-to-tag mapping for code page 0x00.
var SyncMLTags = CodePage{
	0x05: "Add",
	0x06: "Alert",
	0x07: "Archive",
	0x08: "Atomic",
	0x09: "Chal",
	0x0A: "Cmd",
	0x0B: "CmdID",
	0x0C: "CmdRef",
	0x0D: "Copy",
	0x0E: "Cred",
	0x0F: "Data",
	0x10: "Delete",
	0x11: "Exec",
	0x12: "Final",
	0x13: "Get",
	0x14: "Item",
	0x15: "Lang",
	0x16: "LocName",
	0x17: "LocURI",
	0x18: "Map",
	0x19: "MapItem",
	0x1A: "Meta",
	0x1B: "MsgID",
	0x1C: "MsgRef",
	0x1D: "NoResp",
	0x1E: "NoResults",
	0x1F: "Put",
	0x20: "Replace",
	0x21: "RespURI",
	0x22: "Results",
	0x23: "Search",
	0x24: "Sequence",
	0x25: "SessionID",
	0x26: "SftDel",
	0x27: "Source",
	0x28: "SourceRef",
	0x29: "Status",
	0x2A: "Sync",
	0x2B: "SyncBody",
	0x2C: "SyncHdr",
	0x2D: "SyncML",
	0x2E: "Target",
	0x2F: "TargetRef",
	0x30: "Reserved",
	0x31: "VerDTD",
	0x32: "VerProto",
	0x33: "NumberOfChanges",
	0x34: "MoreData",
	0x35: "Field",
	0x36: "Filter",
	0x37: "Record",
	0x38: "FilterType",
	0x39: "SourceParent",
	0x3A: "TargetParent",
	0x3B: "Move",
	0x3C: "Correlator",
}

// MetInfTags is the forward code-to-tag mapping for code page 0x01.
var MetInfTags = CodePage{
	0x05: "Anchor",
	0x06: "EMI",
	0x07: "Format",
	0x08: "FreeID",
	0x09: "FreeMem",
	0x0A: "Last",
	0x0B: "Mark",
	0x0C: "MaxMsgSize",
	0x0D: "Mem",
	0x0E: "MetInf",
	0x0F: "Next",
	0x10: "NextNonce",
	0x11: "SharedMem",
	0x12: "Size",
	0x13: "Type",
	0x14: "Version",
	0x15: "MaxObjSize",
	0x16: "FieldLevel",
}

// DevInfTags is the forward code-to-tag mapping for the DevInf code page,
// unused on the hot path but retained for responses that embed DevInf
// subtrees.
var DevInfTags = CodePage{
	0x05: "CTCap",
	0x06: "CTType",
	0x07: "DataStore",
	0x08: "DataType",
	0x09: "DevID",
	0x0A: "DevInf",
	0x0B: "DevTyp",
	0x0C: "DisplayName",
	0x0D: "DSMem",
	0x0E: "Ext",
	0x0F: "FwV",
	0x10: "HwV",
	0x11: "Man",
	0x12: "MaxGUIDSize",
	0x13: "MaxID",
	0x14: "MaxMem",
	0x15: "Mod",
	0x16: "OEM",
	0x17: "ParamName",
	0x18: "PropName",
	0x19: "Rx",
	0x1A: "Rx-Pref",
	0x1B: "SharedMem",
	0x1C: "Size",
	0x1D: "SourceRef",
	0x1E: "SwV",
	0x1F: "SyncCap",
	0x20: "SyncType",
	0x21: "Tx",
	0x22: "Tx-Pref",
	0x23: "ValEnum",
	0x24: "VerCT",
	0x25: "VerDTD",
	0x26: "XNam",
	0x27: "XVal",
	0x28: "UTC",
	0x29: "SupportNumberOfChanges",
	0x2A: "SupportLargeObjs",
	0x2B: "Property",
	0x2C: "PropParam",
	0x2D: "MaxOccur",
	0x2E: "NoTruncate",
	0x2F: "Filter-Rx",
	0x30: "FilterCap",
	0x31: "FilterKeyword",
	0x32: "FieldLevel",
	0x33: "SupportHierarchicalSync",
}

// SyncMLCodeSpace is the CodeSpace consulted by both the encoder and the
// decoder, guaranteeing every token the encoder may emit is decodable and
// vice versa.
var SyncMLCodeSpace = CodeSpace{
	PageSyncML: SyncMLTags,
	PageMetInf: MetInfTags,
	PageDevInf: DevInfTags,
}

// PublicIDSyncML12 is the WBXML public identifier for
// "-//SYNCML//DTD SyncML 1.2//EN".
const PublicIDSyncML12 uint32 = 0x1201

// CharsetUTF8 is the MIBEnum value for UTF-8.
const CharsetUTF8 uint32 = 106

// WBXML version 1.3.
const Version13 uint8 = 0x03
