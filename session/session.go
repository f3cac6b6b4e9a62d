// Package session implements the per-device OMA DM session store: state
// machine, device-info harvesting, and nonce bookkeeping.
package session

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/webos-oma/omadmserver/catalog"
)

// State is one node of the session state machine.
type State string

const (
	StateInit            State = "Init"
	StateAuthenticated   State = "Authenticated"
	StateManagement      State = "Management"
	StateUpdateAvailable State = "UpdateAvailable"
	StateDownloading     State = "Downloading"
	StateComplete        State = "Complete"
	StateError           State = "Error"
)

// DeviceInfo is harvested incrementally from Results items via
// UpdateDeviceInfo.
type DeviceInfo struct {
	DeviceID        string
	Manufacturer    string
	Model           string
	FirmwareVersion string
	SoftwareVersion string
	HardwareVersion string
	CurrentBuild    string
	DMVersion       string
	Language        string
}

// CommandResult records a device-reported Status for a command the
// server previously sent, keyed by CmdRef+"_"+TargetRef.
type CommandResult struct {
	Cmd    string
	Status string
	Target string
}

// Session is one device's OMA DM negotiation state.
type Session struct {
	ID             string
	CorrelationID  string // generated UUID, used only for log correlation
	DeviceID       string
	State          State
	msgIDCounter   int
	CreatedAt      time.Time
	LastActivity   time.Time
	DeviceInfo     DeviceInfo
	Authenticated  bool
	Username       string
	ClientNonce    []byte
	ServerNonce    []byte
	CommandResults map[string]CommandResult

	// SelectedPackage is the update chosen for this device once the
	// dispatcher transitions the session to UpdateAvailable; Get
	// requests for PkgURL are resolved against it.
	SelectedPackage *catalog.Package
}

func newSession(id string, serverNonce []byte) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		CorrelationID:  uuid.NewString(),
		State:          StateInit,
		CreatedAt:      now,
		LastActivity:   now,
		ServerNonce:    serverNonce,
		CommandResults: make(map[string]CommandResult),
	}
}

// NextMsgID bumps and returns the session's message-id counter as a
// string, touching LastActivity. Emitted message IDs are strictly
// ascending for the session's lifetime.
func (s *Session) NextMsgID() string {
	s.msgIDCounter++
	s.LastActivity = time.Now()
	return strconv.Itoa(s.msgIDCounter)
}

// Expired reports whether the session has been idle longer than timeout.
func (s *Session) Expired(timeout time.Duration) bool {
	return time.Since(s.LastActivity) > timeout
}

// RecordResult stores a device-reported status under cmdRef+"_"+targetRef.
func (s *Session) RecordResult(cmdRef, targetRef, cmd, status string) {
	key := cmdRef + "_" + targetRef
	s.CommandResults[key] = CommandResult{Cmd: cmd, Status: status, Target: targetRef}
}

// UpdateDeviceInfo matches path by case-insensitive substring on the
// final path segment, tolerating path variations across device vendors.
func (s *Session) UpdateDeviceInfo(path, value string) {
	lower := strings.ToLower(strings.TrimRight(path, "/"))
	if i := strings.LastIndex(lower, "/"); i >= 0 {
		lower = lower[i+1:]
	}

	switch {
	case strings.Contains(lower, "devid"):
		s.DeviceInfo.DeviceID = value
		if s.DeviceID == "" {
			s.DeviceID = value
		}
	case strings.Contains(lower, "man") && !strings.Contains(lower, "command"):
		s.DeviceInfo.Manufacturer = value
	case strings.Contains(lower, "mod"):
		s.DeviceInfo.Model = value
	case strings.Contains(lower, "fwv"), strings.Contains(lower, "fmv"):
		s.DeviceInfo.FirmwareVersion = value
	case strings.Contains(lower, "swv"):
		s.DeviceInfo.SoftwareVersion = value
	case strings.Contains(lower, "hwv"):
		s.DeviceInfo.HardwareVersion = value
	case strings.Contains(lower, "build"):
		s.DeviceInfo.CurrentBuild = value
	case strings.Contains(lower, "dmv"):
		s.DeviceInfo.DMVersion = value
	case strings.Contains(lower, "lang"):
		s.DeviceInfo.Language = value
	}
}
