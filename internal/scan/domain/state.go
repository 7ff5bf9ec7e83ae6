package domain

// ScanState is one stage of the fixed pipeline order. ERROR is reachable
// from any state; COMPLETE and ERROR are the only terminal states.
type ScanState string

const (
	StateIdle            ScanState = "IDLE"
	StatePreprocessing   ScanState = "PREPROCESSING"
	StateParsing         ScanState = "PARSING"
	StateEntityMatching  ScanState = "ENTITY_MATCHING"
	StateEnriching       ScanState = "ENRICHING"
	StateDeepScanning    ScanState = "DEEP_SCANNING"
	StateAssemblingIntel ScanState = "ASSEMBLING_INTEL"
	StateSaving          ScanState = "SAVING"
	StateLearningUpdate  ScanState = "LEARNING_UPDATE"
	StateComplete        ScanState = "COMPLETE"
	StateError           ScanState = "ERROR"
)

// StateOrder is the fixed forward order of the pipeline, ERROR excluded.
var StateOrder = []ScanState{
	StateIdle,
	StatePreprocessing,
	StateParsing,
	StateEntityMatching,
	StateEnriching,
	StateDeepScanning,
	StateAssemblingIntel,
	StateSaving,
	StateLearningUpdate,
	StateComplete,
}

var stateLabels = map[ScanState]string{
	StateIdle:            "Waiting to start",
	StatePreprocessing:   "Reading source",
	StateParsing:         "Extracting prospects",
	StateEntityMatching:  "Cleaning up records",
	StateEnriching:       "Matching known contacts",
	StateDeepScanning:    "Running deep analysis",
	StateAssemblingIntel: "Assembling intelligence",
	StateSaving:          "Saving results",
	StateLearningUpdate:  "Updating your profile",
	StateComplete:        "Done",
	StateError:           "Something went wrong",
}

// Label returns the static human-readable description for a state.
func (s ScanState) Label() string {
	if label, ok := stateLabels[s]; ok {
		return label
	}
	return string(s)
}

// Terminal reports whether the state ends a run.
func (s ScanState) Terminal() bool {
	return s == StateComplete || s == StateError
}

// Index returns the state's position in the fixed order, or -1 for ERROR
// and unknown states.
func (s ScanState) Index() int {
	for i, state := range StateOrder {
		if state == s {
			return i
		}
	}
	return -1
}

// Progress returns the deterministic completion percentage for a state:
// index / (len(order) - 1) * 100. ERROR reports 100.
func Progress(s ScanState) float64 {
	if s == StateError {
		return 100
	}
	idx := s.Index()
	if idx < 0 {
		return 0
	}
	return float64(idx) / float64(len(StateOrder)-1) * 100
}
