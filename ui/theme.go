package ui

import "github.com/gdamore/tcell/v2"

// Palette. The navy-and-cyan scheme is a nod to the classic Midnight
// Commander look; message colors match the tags renderMessages emits.
var (
	ColorBg        = tcell.NewHexColor(0x000080) // navy canvas
	ColorFg        = tcell.NewHexColor(0xc0c0c0) // silver body text
	ColorBorder    = tcell.NewHexColor(0x00ffff) // cyan frames
	ColorTitle     = tcell.ColorWhite
	ColorHighlight = tcell.NewHexColor(0x00ffff)
	ColorActive    = tcell.ColorGreen            // active presence dot
	ColorIdle      = tcell.NewHexColor(0x808080) // idle presence dot, typing line
	ColorMine      = tcell.ColorWhite            // own messages
	ColorOther     = tcell.ColorYellow           // everyone else's
)
