package registry

import "github.com/vovakirdan/blockedit/internal/core"

func init() {
	for _, bt := range []BlockType{
		{ID: 0, Name: "Basic 1", Glyph: '█', Color: core.ColorGray},
		{ID: 1, Name: "Basic 2", Glyph: '█', Color: core.ColorWhite},
		{ID: 2, Name: "Basic 3", Glyph: '█', Color: core.ColorBrown},
		{ID: 3, Name: "Basic 4", Glyph: '█', Color: core.ColorOrange},
		{ID: 4, Name: "Brick", Glyph: '▓', Color: core.ColorRed},
		{ID: 5, Name: "Down", Glyph: '▼', Color: core.ColorBlue},
		{ID: 6, Name: "Up", Glyph: '▲', Color: core.ColorBlue},
		{ID: 7, Name: "Left", Glyph: '◀', Color: core.ColorBlue},
		{ID: 8, Name: "Right", Glyph: '▶', Color: core.ColorBlue},
		{ID: 9, Name: "Mine", Glyph: '✱', Color: core.ColorBrightRed},
		{ID: 10, Name: "Item", Glyph: '?', Color: core.ColorYellow},
		{ID: 11, Name: "Player 1", Glyph: '1', Color: core.ColorBrightGreen, Kind: KindStart},
		{ID: 12, Name: "Player 2", Glyph: '2', Color: core.ColorBrightGreen, Kind: KindStart},
		{ID: 13, Name: "Player 3", Glyph: '3', Color: core.ColorBrightGreen, Kind: KindStart},
		{ID: 14, Name: "Player 4", Glyph: '4', Color: core.ColorBrightGreen, Kind: KindStart},
		{ID: 15, Name: "Ice", Glyph: '░', Color: core.ColorBrightCyan},
		{ID: 16, Name: "Finish", Glyph: '⚑', Color: core.ColorBrightYellow},
		{ID: 17, Name: "Crumble", Glyph: '▒', Color: core.ColorBrown},
		{ID: 18, Name: "Vanish", Glyph: '▒', Color: core.ColorGray},
		{ID: 19, Name: "Move", Glyph: '◆', Color: core.ColorMagenta},
		{ID: 20, Name: "Water", Glyph: '≈', Color: core.ColorCyan},
		{ID: 21, Name: "Rotate Right", Glyph: '↻', Color: core.ColorBrightBlue},
		{ID: 22, Name: "Rotate Left", Glyph: '↺', Color: core.ColorBrightBlue},
		{ID: 23, Name: "Push", Glyph: '⇶', Color: core.ColorOrange},
		{ID: 24, Name: "Net", Glyph: '#', Color: core.ColorWhite},
		{ID: 25, Name: "Infinite Item", Glyph: '!', Color: core.ColorBrightYellow},
		{ID: 26, Name: "Happy", Glyph: '+', Color: core.ColorGreen},
		{ID: 27, Name: "Sad", Glyph: '-', Color: core.ColorRed},
		{ID: 28, Name: "Heart", Glyph: '♥', Color: core.ColorPink},
		{ID: 29, Name: "Time", Glyph: '⌛', Color: core.ColorBrightWhite},
		{ID: 30, Name: "Egg", Glyph: 'o', Color: core.ColorBrightWhite},
		{ID: 31, Name: "Custom Stats", Glyph: '%', Color: core.ColorBrightMagenta},
		{ID: 32, Name: "Teleport", Glyph: '◎', Color: core.ColorBrightMagenta, Kind: KindTeleport},
	} {
		Register(bt)
	}
}
