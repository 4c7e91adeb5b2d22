package gallery

// Key names follow the DOM KeyboardEvent values the viewer listens for
// while open.
const (
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
	KeyEscape     = "Escape"
)

// KeyAction is the viewer's reaction to a key event.
type KeyAction int

const (
	// KeyIgnored means the key is not bound; the view is unchanged.
	KeyIgnored KeyAction = iota
	// KeyNavigated means the view moved to another item.
	KeyNavigated
	// KeyClosed means the viewer should close and detach its key binding.
	KeyClosed
)

// HandleKey applies a keyboard event to an open viewer. Right and left
// arrows cycle; escape closes. Anything else is ignored.
func HandleKey(v View, key string) (View, KeyAction) {
	switch key {
	case KeyArrowRight:
		return v.Next(), KeyNavigated
	case KeyArrowLeft:
		return v.Previous(), KeyNavigated
	case KeyEscape:
		return v, KeyClosed
	default:
		return v, KeyIgnored
	}
}
