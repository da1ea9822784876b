// Package statsimage renders a tournament scoreboard as a PNG: one row per
// AI with its name, games played, and win rate, used by cmd/tournament to
// leave a human-readable snapshot alongside a training run's dataset.
package statsimage

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// Row is one scoreboard line.
type Row struct {
	Name     string
	Games    int
	WinRate  float64
	AvgMoveMS float64
}

const (
	rowHeight  = 24
	leftMargin = 12
	imgWidth   = 420
	fontSize   = 14
)

// Render draws rows as a scoreboard and writes the resulting PNG to w.
func Render(w io.Writer, rows []Row) error {
	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("statsimage: parse font: %w", err)
	}

	height := rowHeight*(len(rows)+1) + rowHeight/2
	img := image.NewRGBA(image.Rect(0, 0, imgWidth, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(font)
	ctx.SetFontSize(fontSize)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.NewUniform(color.Black))

	y := rowHeight
	header := fmt.Sprintf("%-20s %8s %8s %10s", "AI", "games", "win%", "ms/move")
	if _, err := ctx.DrawString(header, freetype.Pt(leftMargin, y)); err != nil {
		return fmt.Errorf("statsimage: draw header: %w", err)
	}

	for _, r := range rows {
		y += rowHeight
		line := fmt.Sprintf("%-20s %8d %7.1f%% %9.1f", r.Name, r.Games, r.WinRate*100, r.AvgMoveMS)
		if _, err := ctx.DrawString(line, freetype.Pt(leftMargin, y)); err != nil {
			return fmt.Errorf("statsimage: draw row %q: %w", r.Name, err)
		}
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("statsimage: encode png: %w", err)
	}
	return nil
}
