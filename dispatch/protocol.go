package dispatch

// Alert codes recognized in the incoming Alert command's Data field.
const (
	AlertClientInitiated = "1201"
	AlertServerInitiated = "1200"
	AlertDisplay         = "1100"
	AlertConfirm         = "1101"
	AlertUserInput       = "1102"
)

// Status codes the server emits or recognizes from devices.
const (
	StatusOK                    = "200"
	StatusAcceptedForProcessing = "202"
	StatusAuthAccepted          = "212"
	StatusCredentialsMissing    = "401"
	StatusNotFound              = "404"
)

// deviceInfoPaths are requested by the Get command issued in response to
// a client-initiated Alert.
var deviceInfoPaths = []string{
	"./DevInfo/DevId",
	"./DevInfo/Man",
	"./DevInfo/Mod",
	"./DevInfo/FwV",
	"./DevInfo/SwV",
	"./DevInfo/HwV",
	"./Software/Build",
}
