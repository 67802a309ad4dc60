package ctdf

import "strings"

type TransportMode string

//goland:noinspection GoUnusedConst
const (
	TransportModeTrain         TransportMode = "Train"
	TransportModeBus           TransportMode = "Bus"
	TransportModeWalking       TransportMode = "Walking"
	TransportModeTube          TransportMode = "Tube"
	TransportModeDLR           TransportMode = "DLR"
	TransportModeOverground    TransportMode = "Overground"
	TransportModeElizabethLine TransportMode = "ElizabethLine"
	TransportModeTram          TransportMode = "Tram"
	TransportModeCableCar      TransportMode = "CableCar"
	TransportModeRiverBus      TransportMode = "RiverBus"
	TransportModeCoach         TransportMode = "Coach"
	TransportModeCycle         TransportMode = "Cycle"
	TransportModeUnknown       TransportMode = "UNKNOWN"
)

// ParseTransportMode maps the mode identifiers used by TfL and TransportAPI
func ParseTransportMode(mode string) TransportMode {
	switch strings.ToLower(mode) {
	case "national-rail", "train", "rail":
		return TransportModeTrain
	case "bus":
		return TransportModeBus
	case "walking", "foot", "walk":
		return TransportModeWalking
	case "tube", "underground":
		return TransportModeTube
	case "dlr":
		return TransportModeDLR
	case "overground":
		return TransportModeOverground
	case "elizabeth-line":
		return TransportModeElizabethLine
	case "tram":
		return TransportModeTram
	case "cable-car":
		return TransportModeCableCar
	case "river-bus":
		return TransportModeRiverBus
	case "coach":
		return TransportModeCoach
	case "cycle":
		return TransportModeCycle
	default:
		return TransportModeUnknown
	}
}

// IsMetro is true for the modes TfL publishes live arrival predictions for
func (m TransportMode) IsMetro() bool {
	switch m {
	case TransportModeTube, TransportModeDLR, TransportModeOverground, TransportModeElizabethLine, TransportModeTram, TransportModeBus:
		return true
	default:
		return false
	}
}
