// Package export renders maps to image files.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/vovakirdan/blockedit/internal/core"
	"github.com/vovakirdan/blockedit/internal/mapfile"
	"github.com/vovakirdan/blockedit/internal/registry"
)

// DefaultCellSize is the side of one block in the exported image, in pixels.
const DefaultCellSize = 16

const (
	fontSize      = 12.0
	captionHeight = 24
	padding       = 8
)

// PNGOptions controls image export.
type PNGOptions struct {
	CellSize int
	// Grid draws thin lines between cells.
	Grid bool
	// Caption is drawn under the map. Empty uses the document name.
	Caption string
}

var (
	background = color.RGBA{0x1e, 0x1e, 0x1e, 0xff}
	emptyCell  = color.RGBA{0x2a, 0x2a, 0x2a, 0xff}
	gridLine   = color.RGBA{0x3a, 0x3a, 0x3a, 0xff}
	captionFg  = color.RGBA{0xdd, 0xdd, 0xdd, 0xff}
	unknownFg  = color.RGBA{0xff, 0x00, 0xff, 0xff}
)

// rgb approximates the terminal colors used by the editor.
var rgb = map[core.Color]color.RGBA{
	core.ColorDefault:       {0xcc, 0xcc, 0xcc, 0xff},
	core.ColorRed:           {0xcd, 0x00, 0x00, 0xff},
	core.ColorGreen:         {0x00, 0xcd, 0x00, 0xff},
	core.ColorYellow:        {0xcd, 0xcd, 0x00, 0xff},
	core.ColorBlue:          {0x00, 0x00, 0xee, 0xff},
	core.ColorMagenta:       {0xcd, 0x00, 0xcd, 0xff},
	core.ColorCyan:          {0x00, 0xcd, 0xcd, 0xff},
	core.ColorWhite:         {0xe5, 0xe5, 0xe5, 0xff},
	core.ColorBrightRed:     {0xff, 0x00, 0x00, 0xff},
	core.ColorBrightGreen:   {0x00, 0xff, 0x00, 0xff},
	core.ColorBrightYellow:  {0xff, 0xff, 0x00, 0xff},
	core.ColorBrightBlue:    {0x5c, 0x5c, 0xff, 0xff},
	core.ColorBrightMagenta: {0xff, 0x00, 0xff, 0xff},
	core.ColorBrightCyan:    {0x00, 0xff, 0xff, 0xff},
	core.ColorBrightWhite:   {0xff, 0xff, 0xff, 0xff},
	core.ColorOrange:        {0xff, 0x87, 0x00, 0xff},
	core.ColorGray:          {0x80, 0x80, 0x80, 0xff},
	core.ColorBrown:         {0x87, 0x5f, 0x00, 0xff},
	core.ColorPink:          {0xff, 0x87, 0xaf, 0xff},
}

// RGBA returns the image color for a terminal color.
func RGBA(c core.Color) color.RGBA {
	if v, ok := rgb[c]; ok {
		return v
	}
	return unknownFg
}

// optionColor decodes a teleport option string (decimal 0xRRGGBB).
func optionColor(options string) (color.RGBA, bool) {
	if options == "" {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(options, 10, 32)
	if err != nil || v > 0xffffff {
		return color.RGBA{}, false
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, true
}

// Render draws doc into a new drawing context.
func Render(doc mapfile.Document, palette *registry.Palette, opts PNGOptions) (*gg.Context, error) {
	if doc.Map == nil {
		return nil, errors.New("export: no map")
	}
	if palette == nil {
		palette = registry.NewPalette()
	}
	cell := opts.CellSize
	if cell <= 0 {
		cell = DefaultCellSize
	}
	caption := opts.Caption
	if caption == "" {
		caption = doc.Name
	}

	m := doc.Map
	width := m.W()*cell + 2*padding
	height := m.H()*cell + 2*padding + captionHeight

	dc := gg.NewContext(width, height)
	dc.SetColor(background)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("export: parse font: %w", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	size := float64(cell)
	m.Each(func(idx core.GridIndex, b core.Block) {
		x := float64(padding + idx.X*cell)
		y := float64(padding + idx.Y*cell)
		if b.IsEmpty() {
			dc.SetColor(emptyCell)
			dc.DrawRectangle(x, y, size, size)
			dc.Fill()
			return
		}
		drawBlock(dc, palette, b, x, y, size)
	})

	if opts.Grid {
		dc.SetColor(gridLine)
		dc.SetLineWidth(1)
		for gx := 0; gx <= m.W(); gx++ {
			x := float64(padding + gx*cell)
			dc.DrawLine(x, padding, x, float64(padding+m.H()*cell))
		}
		for gy := 0; gy <= m.H(); gy++ {
			y := float64(padding + gy*cell)
			dc.DrawLine(padding, y, float64(padding+m.W()*cell), y)
		}
		dc.Stroke()
	}

	if caption != "" {
		label := fmt.Sprintf("%s  %dx%d  %d blocks", caption, m.W(), m.H(), m.Count())
		dc.SetColor(captionFg)
		dc.DrawStringAnchored(label, padding, float64(height-captionHeight/2), 0, 0.35)
	}

	return dc, nil
}

func drawBlock(dc *gg.Context, palette *registry.Palette, b core.Block, x, y, size float64) {
	bt, ok := palette.Lookup(b.ID)
	if !ok {
		dc.SetColor(unknownFg)
		dc.DrawRectangle(x, y, size, size)
		dc.Stroke()
		return
	}

	dc.SetColor(RGBA(bt.Color))
	if bt.Kind == registry.KindTeleport {
		if c, ok := optionColor(b.Options); ok {
			dc.SetColor(c)
		}
		dc.DrawCircle(x+size/2, y+size/2, size/2-1)
		dc.Fill()
		return
	}
	dc.DrawRectangle(x, y, size, size)
	dc.Fill()

	if bt.Kind == registry.KindStart && size >= fontSize {
		dc.SetColor(background)
		dc.DrawStringAnchored(string(bt.Glyph), x+size/2, y+size/2, 0.5, 0.35)
	}
}

// WritePNG renders doc as a PNG to w.
func WritePNG(w io.Writer, doc mapfile.Document, palette *registry.Palette, opts PNGOptions) error {
	dc, err := Render(doc, palette, opts)
	if err != nil {
		return err
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("export: encode png: %w", err)
	}
	return nil
}

// SavePNG renders doc to a PNG file at path.
func SavePNG(path string, doc mapfile.Document, palette *registry.Palette, opts PNGOptions) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export: create directory %s: %w", dir, err)
		}
	}
	dc, err := Render(doc, palette, opts)
	if err != nil {
		return err
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	return nil
}
