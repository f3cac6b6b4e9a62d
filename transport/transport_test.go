package transport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webos-oma/omadmserver/auth"
	"github.com/webos-oma/omadmserver/catalog"
	"github.com/webos-oma/omadmserver/dispatch"
	"github.com/webos-oma/omadmserver/session"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	cat, err := catalog.New(dir)
	require.NoError(t, err)

	store := session.NewStore(time.Hour)
	d := dispatch.New(dispatch.Config{
		ServerID:  "SERVER-ID",
		ServerURL: "http://updates.example.com",
		Verifier:  auth.Verifier{DefaultUsername: "guest", DefaultPassword: "guest"},
	}, store, cat)

	return &Server{Dispatcher: d, Catalog: cat, Sessions: store, BaseURL: "http://updates.example.com"}, dir
}

func TestManagementEndpointRoundTrips(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.NewRouter()

	body := []byte(`<SyncML><SyncHdr><VerDTD>1.2</VerDTD><VerProto>DM/1.2</VerProto><SessionID>1</SessionID><MsgID>1</MsgID><Target><LocURI>SERVER-ID</LocURI></Target><Source><LocURI>DEV-A</LocURI></Source></SyncHdr><SyncBody><Alert><CmdID>1</CmdID><Data>1201</Data></Alert><Final/></SyncBody></SyncML>`)

	req := httptest.NewRequest(http.MethodPost, "/palmcsext/swupdateserver", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/vnd.syncml.dm+xml")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SyncHdr")
}

func TestPackageFileSupportsRangeRequests(t *testing.T) {
	srv, dir := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "update.ipk"), []byte("0123456789"), 0o644))
	router := srv.NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/packages/update.ipk", nil)
	req.Header.Set("Range", "bytes=2-5")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "2345", rec.Body.String())
}

func TestCheckEndpointReportsUpdateAvailability(t *testing.T) {
	srv, dir := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "update.ipk"), []byte("data"), 0o644))
	_, err := srv.Catalog.AddPackage(catalog.Package{
		Name: "update", Version: "1.0.0", Filename: "update.ipk", TargetBuild: "Nova-2.0.0-0",
	}, filepath.Join(dir, "update.ipk"))
	require.NoError(t, err)

	router := srv.NewRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/updates/check?build=Nova-1.0.0-0", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, true, out["updateAvailable"])
}

func TestScanEndpointRescansPackagesDir(t *testing.T) {
	srv, dir := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fresh.ipk"), []byte("bytes"), 0o644))

	router := srv.NewRouter()
	req := httptest.NewRequest(http.MethodPost, "/packages/scan", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	_, ok := srv.Catalog.Get("fresh")
	assert.True(t, ok)
}

func TestStatusEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.NewRouter()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
