package wbxml

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMBUint32RoundTrip(t *testing.T) {
	values := []uint32{0, 1, 127, 128, 129, 16383, 16384, 1<<21 - 1, 1 << 21, 1<<28 - 1}
	for _, v := range values {
		var buf bytes.Buffer
		require.NoError(t, EncodeMBUint32(&buf, v))

		got, err := DecodeMBUint32(&buf)
		require.NoError(t, err)
		assert.Equal(t, v, got, "round trip for %d", v)
	}
}

func TestMBUint32ZeroIsSingleByte(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeMBUint32(&buf, 0))
	assert.Equal(t, []byte{0x00}, buf.Bytes())
}

func TestMBUint32TooLong(t *testing.T) {
	// Five continuation bytes with no terminator.
	r := bytes.NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x80})
	_, err := DecodeMBUint32(r)
	require.Error(t, err)
	var frameErr *FrameError
	assert.ErrorAs(t, err, &frameErr)
}

// TestDecodeMinimalSyncML decodes "03 01 6A 00 2D": version 1.3, an
// unknown public ID, charset UTF-8, empty string table, one SyncML tag
// with no content.
func TestDecodeMinimalSyncML(t *testing.T) {
	doc := []byte{0x03, 0x01, 0x6A, 0x00, 0x2D}

	header, root, err := Decode(bytes.NewReader(doc), SyncMLCodeSpace)
	require.NoError(t, err)

	assert.Equal(t, uint8(0x03), header.Version)
	assert.Equal(t, uint32(0x01), header.PublicID)
	assert.Equal(t, uint32(106), header.Charset)

	require.NotNil(t, root)
	assert.Equal(t, "SyncML", root.Tag)
	assert.Empty(t, root.Children)
	assert.Empty(t, root.Text)
}

// TestDecodeSyncMLPublicID decodes "03 A4 01 6A 00 6D 01": the SyncML 1.2
// public identifier 0x1201 as the multi-byte value A4 01, then a SyncML
// tag with the content flag set, immediately closed by END.
func TestDecodeSyncMLPublicID(t *testing.T) {
	doc := []byte{0x03, 0xA4, 0x01, 0x6A, 0x00, 0x6D, 0x01}

	header, root, err := Decode(bytes.NewReader(doc), SyncMLCodeSpace)
	require.NoError(t, err)

	assert.Equal(t, PublicIDSyncML12, header.PublicID)
	assert.Equal(t, CharsetUTF8, header.Charset)
	assert.Equal(t, "SyncML", root.Tag)
	assert.Empty(t, root.Children)
}

func TestDecodeTruncatedHeader(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte{0x03, 0x01}), SyncMLCodeSpace)
	require.Error(t, err)
	var frameErr *FrameError
	assert.ErrorAs(t, err, &frameErr)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	root := &Element{Tag: "SyncML"}
	hdr := root.AddChild(&Element{Tag: "SyncHdr"})
	hdr.AddText("VerDTD", "1.2")
	hdr.AddText("VerProto", "DM/1.2")
	hdr.AddText("SessionID", "1")
	hdr.AddText("MsgID", "1")

	body := root.AddChild(&Element{Tag: "SyncBody"})
	status := body.AddChild(&Element{Tag: "Status"})
	status.AddText("CmdID", "1")
	status.AddText("MsgRef", "1")
	status.AddText("CmdRef", "0")
	status.AddText("Cmd", "SyncHdr")
	status.AddText("Data", "200")
	body.AddChild(&Element{Tag: "Final"})

	header := Header{Version: Version13, PublicID: PublicIDSyncML12, Charset: CharsetUTF8}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, header, root, SyncMLCodeSpace))

	gotHeader, gotRoot, err := Decode(bytes.NewReader(buf.Bytes()), SyncMLCodeSpace)
	require.NoError(t, err)

	assert.Equal(t, header.Version, gotHeader.Version)
	assert.Equal(t, header.PublicID, gotHeader.PublicID)
	assert.Equal(t, header.Charset, gotHeader.Charset)

	assert.Equal(t, "SyncML", gotRoot.Tag)
	require.Len(t, gotRoot.Children, 2)

	gotHdr := gotRoot.Child("SyncHdr")
	require.NotNil(t, gotHdr)
	assert.Equal(t, "1.2", gotHdr.ChildText("VerDTD", ""))
	assert.Equal(t, "DM/1.2", gotHdr.ChildText("VerProto", ""))
	assert.Equal(t, "1", gotHdr.ChildText("SessionID", ""))

	gotBody := gotRoot.Child("SyncBody")
	require.NotNil(t, gotBody)
	gotStatus := gotBody.Child("Status")
	require.NotNil(t, gotStatus)
	assert.Equal(t, "200", gotStatus.ChildText("Data", ""))
	assert.NotNil(t, gotBody.Child("Final"))
}

// TestEncodeLiteralUnknownTag exercises the LITERAL fallback for a tag
// with no entry in any loaded code page, such as a DM-tree path segment.
func TestEncodeLiteralUnknownTag(t *testing.T) {
	root := &Element{Tag: "SyncML"}
	hdr := root.AddChild(&Element{Tag: "SyncHdr"})
	hdr.AddText("VerDTD", "1.2")
	body := root.AddChild(&Element{Tag: "SyncBody"})
	body.AddChild(&Element{Tag: "./SettingsApp/Custom"})

	header := Header{Version: Version13, PublicID: PublicIDSyncML12, Charset: CharsetUTF8}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, header, root, SyncMLCodeSpace))

	_, gotRoot, err := Decode(bytes.NewReader(buf.Bytes()), SyncMLCodeSpace)
	require.NoError(t, err)

	gotBody := gotRoot.Child("SyncBody")
	require.NotNil(t, gotBody)
	assert.NotNil(t, gotBody.Child("./SettingsApp/Custom"))
}

// TestDecodeOpaqueAsText covers devices that wrap values in OPAQUE: a
// UTF-8 payload surfaces as plain text, a binary payload as Base64.
func TestDecodeOpaqueAsText(t *testing.T) {
	utf8Doc := []byte{0x03, 0x01, 0x6A, 0x00, 0x6D, 0xC3, 0x03, 'a', 'b', 'c', 0x01}
	_, root, err := Decode(bytes.NewReader(utf8Doc), SyncMLCodeSpace)
	require.NoError(t, err)
	assert.Equal(t, "abc", root.Text)

	binDoc := []byte{0x03, 0x01, 0x6A, 0x00, 0x6D, 0xC3, 0x02, 0x00, 0xFF, 0x01}
	_, root, err = Decode(bytes.NewReader(binDoc), SyncMLCodeSpace)
	require.NoError(t, err)
	assert.Equal(t, "AP8=", root.Text)
}

func TestElementHelpers(t *testing.T) {
	root := &Element{Tag: "Status"}
	root.AddText("CmdID", "1")
	root.AddText("Data", "200")

	assert.Equal(t, "1", root.ChildText("CmdID", ""))
	assert.Equal(t, "fallback", root.ChildText("Missing", "fallback"))
	assert.Nil(t, root.Child("Missing"))
}

func TestUnknownTokenError(t *testing.T) {
	// Code 0x7F doesn't exist on the SyncML page.
	doc := []byte{0x03, 0x01, 0x6A, 0x00, 0x7F}
	_, _, err := Decode(bytes.NewReader(doc), SyncMLCodeSpace)
	require.Error(t, err)
	var tokErr *UnknownTokenError
	assert.ErrorAs(t, err, &tokErr)
}
