package core

// Color is a foreground color for a screen cell. The platform layer maps
// each value to a terminal style when flushing the buffer.
type Color uint8

// The palette covers the five piece kinds plus the UI accents the HUD,
// cursor and hint highlighting use.
const (
	ColorDefault Color = iota
	ColorYellow        // amber pieces
	ColorGreen         // jade pieces
	ColorBlue          // cobalt pieces
	ColorMagenta       // rose pieces
	ColorWhite         // ivory pieces
	ColorCyan          // HUD line
	ColorGray          // help text
	ColorBrightYellow  // cursor, status messages
	ColorBrightCyan    // hint highlight
)
