package app

// State is the orchestrator's position in the session state machine.
type State int

const (
	StateHome State = iota
	StateSelectingFile
	StateExtractingAudio
	StateTranscribing
	StateEditing
	StateBurningSubtitles
	StateExtractingOverlay
	StatePreviewing
	StateDone
)

var stateNames = map[State]string{
	StateHome:              "home",
	StateSelectingFile:     "selecting-file",
	StateExtractingAudio:   "extracting-audio",
	StateTranscribing:      "transcribing",
	StateEditing:           "editing",
	StateBurningSubtitles:  "burning-subtitles",
	StateExtractingOverlay: "extracting-overlay",
	StatePreviewing:        "previewing",
	StateDone:              "done",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Title is the heading a progress screen shows for this state.
func (s State) Title() string {
	switch s {
	case StateExtractingAudio:
		return "Extracting Audio"
	case StateTranscribing:
		return "Generating Subtitles"
	case StateBurningSubtitles:
		return "Burning Subtitles"
	case StateExtractingOverlay:
		return "Extracting Overlay"
	case StatePreviewing:
		return "Preview"
	default:
		return ""
	}
}

// Screen is the closed set of UI screen variants. Rendering is a
// collaborator's concern; the orchestrator only says which screen the
// current state belongs to.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenFilePicker
	ScreenProgress
	ScreenEditor
	ScreenDone
)

// Screen maps the current state to its screen variant.
func (a *App) Screen() Screen {
	switch a.State {
	case StateHome:
		return ScreenHome
	case StateSelectingFile:
		return ScreenFilePicker
	case StateEditing:
		return ScreenEditor
	case StateDone:
		return ScreenDone
	default:
		return ScreenProgress
	}
}
