// Package dispatch implements the per-message dispatch loop: it looks up
// or creates a session, verifies authentication, runs each incoming
// command through its handler, and assembles the response message.
package dispatch

import (
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/webos-oma/omadmserver/auth"
	"github.com/webos-oma/omadmserver/catalog"
	"github.com/webos-oma/omadmserver/internal/apperr"
	"github.com/webos-oma/omadmserver/internal/logging"
	"github.com/webos-oma/omadmserver/session"
	"github.com/webos-oma/omadmserver/syncml"
)

// AuthMode selects what a MAC mismatch does to the session. SoftAccept
// logs the mismatch and admits the device anyway, which is what legacy
// webOS devices in the field need; StrictReject answers 401 and parks
// the session in the error state.
type AuthMode int

const (
	SoftAccept AuthMode = iota
	StrictReject
)

// Config wires a Dispatcher to the server's identity and authentication
// policy.
type Config struct {
	ServerID    string
	ServerURL   string
	Verifier    auth.Verifier
	ServerCreds auth.Credentials
	AuthMode    AuthMode
}

// Dispatcher is the stateless handler shared by every request; all
// per-device state lives in the Store.
type Dispatcher struct {
	cfg     Config
	store   *session.Store
	catalog *catalog.Catalog
}

// New returns a Dispatcher over the given session store and catalog.
func New(cfg Config, store *session.Store, cat *catalog.Catalog) *Dispatcher {
	return &Dispatcher{cfg: cfg, store: store, catalog: cat}
}

// Request is one incoming SyncML exchange, transport-agnostic.
type Request struct {
	Body        []byte
	ContentType string
	HMACHeader  string
}

// Response is the outgoing half of the exchange.
type Response struct {
	Body        []byte
	ContentType string
	HMACHeader  string
}

const (
	contentTypeWBXML = "application/vnd.syncml.dm+wbxml"
	contentTypeXML   = "application/vnd.syncml.dm+xml"
)

// Handle parses req, runs the full dispatch cycle against the session it
// names, and renders the response. Framing and parse failures are
// returned as *apperr.Error (CodeFrame/CodeParse) for the transport to
// translate to HTTP 500; they fail the entire response rather than
// becoming in-body Status codes.
func (d *Dispatcher) Handle(req Request) (Response, error) {
	msg, err := syncml.Parse(req.Body, req.ContentType)
	if err != nil {
		return Response{}, apperr.Wrap(apperr.CodeParse, "parse SyncML request", err)
	}

	// Response framing must match how the request was actually decoded,
	// so consult the parser's own format detection rather than the
	// content-type alone.
	asWBXML := syncml.IsWBXML(req.ContentType, req.Body)

	var respMsg *syncml.Message
	d.store.WithSession(msg.Header.SessionID, msg.Header.Source, func(sess *session.Session) {
		respMsg = d.process(sess, msg, req.Body, req.HMACHeader)
	})

	body, err := syncml.Serialize(respMsg, asWBXML)
	if err != nil {
		return Response{}, apperr.Wrap(apperr.CodeFrame, "serialize SyncML response", err)
	}

	resp := Response{Body: body, ContentType: req.ContentType}
	if resp.ContentType == "" {
		if asWBXML {
			resp.ContentType = contentTypeWBXML
		} else {
			resp.ContentType = contentTypeXML
		}
	}

	if req.HMACHeader != "" && d.cfg.ServerCreds.Username != "" {
		// The response MAC is computed over the *client's* next-nonce,
		// i.e. the NextNonce the client published on this very request,
		// not the fresh server nonce this response itself publishes for
		// the device's next request.
		clientNextNonce, _ := msg.Header.Meta.GetKey(syncml.MetaNextNonce)
		nonceBytes, _ := base64.StdEncoding.DecodeString(clientNextNonce)
		mac := auth.ComputeResponseMAC(d.cfg.ServerCreds, nonceBytes, body)
		resp.HMACHeader = "algorithm=MD5, username=" + d.cfg.ServerCreds.Username + ", mac=" + mac
	}
	return resp, nil
}

// process runs one full cycle for sess and returns the response message,
// also rotating sess's server nonce for the device's next request.
func (d *Dispatcher) process(sess *session.Session, msg *syncml.Message, rawBody []byte, hmacHeader string) *syncml.Message {
	b := syncml.NewBuilder()
	logger := logging.Get().With().Str("session_id", sess.ID).Str("correlation_id", sess.CorrelationID).Logger()

	authStatus := d.authenticate(sess, msg, rawBody, hmacHeader, logger)
	if sess.Authenticated && sess.State == session.StateInit {
		sess.State = session.StateAuthenticated
	}

	// The client's NextNonce is what the response MAC will be computed
	// over; keep it on the session alongside the server nonce.
	if clientNextNonce, ok := msg.Header.Meta.GetKey(syncml.MetaNextNonce); ok {
		if decoded, err := base64.StdEncoding.DecodeString(clientNextNonce); err == nil {
			sess.ClientNonce = decoded
		}
	}

	var statuses []syncml.Command
	var serverCmds []syncml.Command

	statuses = append(statuses, b.Status(msg.Header.MsgID, "0", syncml.CommandName("SyncHdr"), authStatus))

	for _, cmd := range msg.Commands {
		s, extra := d.handleCommand(sess, msg, cmd, b, logger)
		statuses = append(statuses, s...)
		serverCmds = append(serverCmds, extra...)
	}

	if sess.State == session.StateAuthenticated || sess.State == session.StateManagement {
		if sess.DeviceInfo.CurrentBuild != "" {
			if pkg, ok := d.catalog.CheckUpdate(sess.DeviceInfo.CurrentBuild, sess.DeviceInfo.Model, ""); ok {
				sess.State = session.StateUpdateAvailable
				sess.SelectedPackage = &pkg
				serverCmds = append(serverCmds, d.replaceAndExecFor(pkg, b)...)
				logger.Info().Str("package", pkg.Name).Str("version", pkg.Version).Msg("update available")
			}
		}
	}

	commands := syncml.AssignCmdIDs(append(statuses, serverCmds...))

	nextNonce := generateNonce()
	sess.ServerNonce = nextNonce
	header := b.Header(sess.ID, sess.NextMsgID(), msg.Header.Source, d.cfg.ServerID)
	header.Meta = syncml.NewMeta()
	header.Meta.SetKey(syncml.MetaNextNonce, base64.StdEncoding.EncodeToString(nextNonce))

	return syncml.BuildMessage(header, commands, true)
}

// authenticate verifies the client's MAC (if any was presented) against
// the session's previous server nonce, then applies the configured
// AuthMode to decide whether a mismatch actually blocks the session. It
// returns the status code for the SyncHdr status element.
func (d *Dispatcher) authenticate(sess *session.Session, msg *syncml.Message, rawBody []byte, hmacHeader string, logger zerolog.Logger) string {
	mac, username, presented := extractMAC(msg, hmacHeader)
	if !presented {
		// No credential at all: tolerated.
		sess.Authenticated = true
		if username != "" {
			sess.Username = username
		}
		return StatusAuthAccepted
	}

	ok, err := d.cfg.Verifier.Verify(mac, username, sess.ServerNonce, rawBody)
	if ok {
		sess.Authenticated = true
		sess.Username = username
		return StatusAuthAccepted
	}

	logger.Warn().Err(err).Str("username", username).Msg("MAC mismatch")
	if d.cfg.AuthMode == StrictReject {
		sess.State = session.StateError
		return StatusCredentialsMissing
	}

	sess.Authenticated = true
	sess.Username = username
	return StatusAuthAccepted
}

// extractMAC pulls the client MAC and username from the x-syncml-hmac
// transport header, falling back to SyncHdr/Cred when the transport
// stripped the header.
func extractMAC(msg *syncml.Message, hmacHeader string) (mac, username string, presented bool) {
	if hmacHeader != "" {
		h := auth.ParseHMACHeader(hmacHeader)
		return h.MAC, h.Username, h.MAC != ""
	}
	if msg.Header.Cred != nil {
		return msg.Header.Cred.Data, "", msg.Header.Cred.Data != ""
	}
	return "", "", false
}

// handleCommand dispatches one incoming command, returning the Status
// command(s) it produces and any additional server-originated commands.
func (d *Dispatcher) handleCommand(sess *session.Session, msg *syncml.Message, cmd syncml.Command, b *syncml.Builder, logger zerolog.Logger) ([]syncml.Command, []syncml.Command) {
	switch {
	case cmd.Name == syncml.CmdAlert:
		status := []syncml.Command{b.Status(msg.Header.MsgID, cmd.CmdID, syncml.CmdAlert, StatusOK)}
		var extra []syncml.Command
		if cmd.Data == AlertClientInitiated {
			items := make([]syncml.Item, len(deviceInfoPaths))
			for i, p := range deviceInfoPaths {
				items[i] = syncml.Item{Target: p}
			}
			extra = append(extra, b.Get(items...))
		}
		return status, extra

	case cmd.Name == syncml.CmdResults:
		for _, item := range cmd.Items {
			path := item.Source
			if path == "" {
				path = item.Target
			}
			sess.UpdateDeviceInfo(path, item.Data)
		}
		if sess.State == session.StateAuthenticated {
			sess.State = session.StateManagement
		}
		return []syncml.Command{b.Status(msg.Header.MsgID, cmd.CmdID, syncml.CmdResults, StatusOK)}, nil

	case cmd.Name == syncml.CmdReplace:
		// Values land in DeviceInfo when they match a known path; the
		// rest is acknowledged but not modeled further.
		for _, item := range cmd.Items {
			path := item.Target
			if path == "" {
				path = item.Source
			}
			sess.UpdateDeviceInfo(path, item.Data)
		}
		return []syncml.Command{b.Status(msg.Header.MsgID, cmd.CmdID, syncml.CmdReplace, StatusOK)}, nil

	case cmd.Name == syncml.CmdGet:
		var results []syncml.Item
		for _, item := range cmd.Items {
			if value, found := d.resolveGetPath(sess, item.Target); found {
				results = append(results, syncml.Item{Source: item.Target, Data: value})
			}
		}
		status := StatusOK
		var extra []syncml.Command
		if len(results) > 0 {
			extra = append(extra, b.Results(cmd.CmdID, results...))
		} else if len(cmd.Items) > 0 {
			status = StatusNotFound
		}
		return []syncml.Command{b.Status(msg.Header.MsgID, cmd.CmdID, syncml.CmdGet, status)}, extra

	case cmd.Name == syncml.CmdStatus:
		sess.RecordResult(cmd.CmdRef, cmd.TargetRef, string(cmd.StatusOf), cmd.Data)
		return nil, nil

	default:
		name := cmd.Name
		if cmd.Unrecognized != "" {
			name = syncml.CommandName(cmd.Unrecognized)
		}
		return []syncml.Command{b.Status(msg.Header.MsgID, cmd.CmdID, name, StatusOK)}, nil
	}
}

// resolveGetPath satisfies a Get item from session state: build number
// and the currently selected package's download URL are the two paths a
// device asks for by convention.
func (d *Dispatcher) resolveGetPath(sess *session.Session, path string) (string, bool) {
	lower := strings.ToLower(path)
	switch {
	case strings.Contains(lower, "build"):
		if sess.DeviceInfo.CurrentBuild != "" {
			return sess.DeviceInfo.CurrentBuild, true
		}
		return "", false
	case strings.Contains(lower, "pkgurl"):
		if sess.SelectedPackage != nil {
			return d.catalog.PackageURL(*sess.SelectedPackage, d.cfg.ServerURL), true
		}
		return "", false
	default:
		return "", false
	}
}

// replaceAndExecFor emits the Replace/Exec pair that instructs the
// device to download and install pkg.
func (d *Dispatcher) replaceAndExecFor(pkg catalog.Package, b *syncml.Builder) []syncml.Command {
	items := []syncml.Item{
		{Target: "./Software/Package/PkgName", Data: pkg.Name},
		{Target: "./Software/Package/PkgVersion", Data: pkg.Version},
		{Target: "./Software/Package/PkgURL", Data: d.catalog.PackageURL(pkg, d.cfg.ServerURL)},
		{Target: "./Software/Package/PkgSize", Data: strconv.FormatInt(pkg.Size, 10)},
		{Target: "./Software/Package/PkgDesc", Data: pkg.Description},
	}
	if pkg.InstallNotifyURL != "" {
		items = append(items, syncml.Item{Target: "./Software/Package/PkgInstallNotify", Data: pkg.InstallNotifyURL})
	}
	return []syncml.Command{
		b.Replace(items...),
		b.Exec("./Software/Operations/DownloadAndInstall"),
	}
}

func generateNonce() []byte {
	nonce := make([]byte, 16)
	_, _ = rand.Read(nonce)
	return nonce
}
