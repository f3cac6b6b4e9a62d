package syncml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRequest = `<?xml version="1.0" encoding="UTF-8"?>
<SyncML>
  <SyncHdr>
    <VerDTD>1.2</VerDTD>
    <VerProto>DM/1.2</VerProto>
    <SessionID>42</SessionID>
    <MsgID>1</MsgID>
    <Target><LocURI>SERVER-ID</LocURI></Target>
    <Source><LocURI>DEV-A</LocURI></Source>
    <Cred>
      <Meta><Type>syncml:auth-MAC</Type><Format>b64</Format></Meta>
      <Data>Zz09PQ==</Data>
    </Cred>
    <Meta><NextNonce>bm9uY2U=</NextNonce><MaxMsgSize>4096</MaxMsgSize></Meta>
  </SyncHdr>
  <SyncBody>
    <Alert>
      <CmdID>1</CmdID>
      <Data>1201</Data>
    </Alert>
    <Final/>
  </SyncBody>
</SyncML>`

func TestParseXMLRequest(t *testing.T) {
	msg, err := Parse([]byte(sampleRequest), "application/vnd.syncml.dm+xml")
	require.NoError(t, err)

	assert.Equal(t, "1.2", msg.Header.VerDTD)
	assert.Equal(t, "DM/1.2", msg.Header.VerProto)
	assert.Equal(t, "42", msg.Header.SessionID)
	assert.Equal(t, "1", msg.Header.MsgID)
	assert.Equal(t, "SERVER-ID", msg.Header.Target)
	assert.Equal(t, "DEV-A", msg.Header.Source)

	require.NotNil(t, msg.Header.Cred)
	assert.Equal(t, "syncml:auth-MAC", msg.Header.Cred.Type)
	assert.Equal(t, "b64", msg.Header.Cred.Format)
	assert.Equal(t, "Zz09PQ==", msg.Header.Cred.Data)

	nonce, ok := msg.Header.Meta.GetKey(MetaNextNonce)
	require.True(t, ok)
	assert.Equal(t, "bm9uY2U=", nonce)
	maxSize, ok := msg.Header.Meta.GetKey(MetaMaxMsgSize)
	require.True(t, ok)
	assert.Equal(t, "4096", maxSize)

	require.Len(t, msg.Commands, 1)
	assert.Equal(t, CmdAlert, msg.Commands[0].Name)
	assert.Equal(t, "1", msg.Commands[0].CmdID)
	assert.Equal(t, "1201", msg.Commands[0].Data)
	assert.True(t, msg.IsFinal)
}

func TestParseStatusCommand(t *testing.T) {
	doc := `<SyncML><SyncHdr><SessionID>1</SessionID><MsgID>2</MsgID></SyncHdr>
	<SyncBody>
	<Status><CmdID>1</CmdID><MsgRef>1</MsgRef><CmdRef>3</CmdRef><Cmd>Get</Cmd><TargetRef>./DevInfo/Mod</TargetRef><Data>200</Data></Status>
	<Results><CmdID>2</CmdID><CmdRef>3</CmdRef>
	<Item><Source><LocURI>./DevInfo/Mod</LocURI></Source><Data>Topaz</Data></Item>
	<Item><Source><LocURI>./Software/Build</LocURI></Source><Data>Nova-3.0.5-64</Data></Item>
	</Results>
	<Final/></SyncBody></SyncML>`

	msg, err := Parse([]byte(doc), "application/vnd.syncml.dm+xml")
	require.NoError(t, err)
	require.Len(t, msg.Commands, 2)

	status := msg.Commands[0]
	assert.Equal(t, CmdStatus, status.Name)
	assert.Equal(t, CommandName("Get"), status.StatusOf)
	assert.Equal(t, "3", status.CmdRef)
	assert.Equal(t, "./DevInfo/Mod", status.TargetRef)
	assert.Equal(t, "200", status.Data)

	results := msg.Commands[1]
	assert.Equal(t, CmdResults, results.Name)
	require.Len(t, results.Items, 2)
	assert.Equal(t, "./DevInfo/Mod", results.Items[0].Source)
	assert.Equal(t, "Topaz", results.Items[0].Data)
	assert.Equal(t, "Nova-3.0.5-64", results.Items[1].Data)
}

// Unknown body children must parse into statusable commands, not fail.
func TestParseUnrecognizedCommandTolerated(t *testing.T) {
	doc := `<SyncML><SyncHdr><SessionID>1</SessionID><MsgID>1</MsgID></SyncHdr>
	<SyncBody><Frobnicate><CmdID>1</CmdID></Frobnicate><Final/></SyncBody></SyncML>`

	msg, err := Parse([]byte(doc), "application/vnd.syncml.dm+xml")
	require.NoError(t, err)
	require.Len(t, msg.Commands, 1)
	assert.Equal(t, "Frobnicate", msg.Commands[0].Unrecognized)
	assert.Equal(t, "Frobnicate", msg.Commands[0].Tag())
	assert.Equal(t, "1", msg.Commands[0].CmdID)
}

func TestParseMissingSyncHdrFails(t *testing.T) {
	_, err := Parse([]byte(`<SyncML><SyncBody/></SyncML>`), "application/vnd.syncml.dm+xml")
	require.Error(t, err)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestParseMalformedXMLFails(t *testing.T) {
	_, err := Parse([]byte(`<SyncML><SyncHdr>`), "application/vnd.syncml.dm+xml")
	require.Error(t, err)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

// Format detection must route on the leading WBXML version byte even
// when transport supplies no usable content type.
func TestParseDetectsWBXMLByLeadingByte(t *testing.T) {
	msg := &Message{
		Header:  Header{VerDTD: "1.2", VerProto: "DM/1.2", SessionID: "7", MsgID: "1", Target: "DEV-A", Source: "SERVER-ID"},
		IsFinal: true,
	}
	body, err := Serialize(msg, true)
	require.NoError(t, err)
	require.NotEmpty(t, body)
	assert.Equal(t, byte(0x03), body[0])

	got, err := Parse(body, "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, "7", got.Header.SessionID)
	assert.True(t, got.IsFinal)
}

func TestMetaPreservesInsertionOrder(t *testing.T) {
	m := NewMeta()
	m.Set("Type", "syncml:auth-MAC")
	m.Set("Format", "b64")
	m.Set("NextNonce", "bm9uY2U=")
	m.Set("Type", "overwritten")

	assert.Equal(t, []string{"Type", "Format", "NextNonce"}, m.Keys())
	v, ok := m.Get("Type")
	require.True(t, ok)
	assert.Equal(t, "overwritten", v)
}
