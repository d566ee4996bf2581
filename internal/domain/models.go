package domain

// Event names written by the frontend into the signal file
const (
	// EventSystemSelected is emitted when the frontend focuses a system
	EventSystemSelected = "system-selected"
	// EventGameSelected is emitted when the frontend focuses a game
	EventGameSelected = "game-selected"
)

// SelectionEvent is one decoded signal-file record
type SelectionEvent struct {
	// Name is the frontend event name (e.g. "game-selected")
	Name string `qs:"event"`
	// Param1 carries the system name for both selection events
	Param1 string `qs:"param1"`
	// Param2 carries the game name for game selections
	Param2 string `qs:"param2,omitempty"`
}

// RequestKind tags the shape of a MarqueeRequest
type RequestKind int

const (
	// KindSystem asks for the marquee of a system
	KindSystem RequestKind = iota
	// KindGame asks for the marquee of a game within a system
	KindGame
	// KindCollection asks for the marquee of a collection
	KindCollection
)

func (k RequestKind) String() string {
	switch k {
	case KindSystem:
		return "system"
	case KindGame:
		return "game"
	case KindCollection:
		return "collection"
	default:
		return "unknown"
	}
}

// MarqueeRequest describes what should be shown on the marquee.
// Build it with SystemMarquee, GameMarquee or CollectionMarquee.
type MarqueeRequest struct {
	Kind       RequestKind
	System     string
	Game       string
	Collection string
}

// SystemMarquee builds a request for a system marquee
func SystemMarquee(system string) MarqueeRequest {
	return MarqueeRequest{Kind: KindSystem, System: system}
}

// GameMarquee builds a request for a game marquee
func GameMarquee(system, game string) MarqueeRequest {
	return MarqueeRequest{Kind: KindGame, System: system, Game: game}
}

// CollectionMarquee builds a request for a collection marquee
func CollectionMarquee(collection string) MarqueeRequest {
	return MarqueeRequest{Kind: KindCollection, Collection: collection}
}

// GameSelection is the (system, game) pair last selected in the frontend
type GameSelection struct {
	System string
	Game   string
}

// Key is a global hotkey recognized by the agent
type Key int

const (
	KeyF6 Key = iota + 6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// KeyGenerate builds a marquee for the current game
const KeyGenerate = KeyF7

// KeyExit stops the agent
const KeyExit = KeyF12

func (k Key) String() string {
	switch k {
	case KeyF6:
		return "F6"
	case KeyF7:
		return "F7"
	case KeyF8:
		return "F8"
	case KeyF9:
		return "F9"
	case KeyF10:
		return "F10"
	case KeyF11:
		return "F11"
	case KeyF12:
		return "F12"
	default:
		return "unknown"
	}
}

// ScreenResolution holds the display dimensions
type ScreenResolution struct {
	Width  int
	Height int
}
