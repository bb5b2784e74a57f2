// Package export writes recorded runs to image formats.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/storage"
	"github.com/san-kum/threebody/internal/viz"
)

type bounds struct {
	minX, minY, maxX, maxY float64
}

func frameBounds(runs [][]storage.Frame) (bounds, bool) {
	b := bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	found := false
	for _, frames := range runs {
		for _, f := range frames {
			for _, body := range f.Bodies {
				x, y := body.Pos.X(), body.Pos.Y()
				if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
					continue
				}
				b.minX = math.Min(b.minX, x)
				b.maxX = math.Max(b.maxX, x)
				b.minY = math.Min(b.minY, y)
				b.maxY = math.Max(b.maxY, y)
				found = true
			}
		}
	}
	return b, found
}

// TrajectorySVG draws every body's path of every run, one stroke colour
// per body, with a disc at each body's final position. Runs after the
// first use translucent colours. Both axes share one scale; world y grows
// downward like SVG's.
func TrajectorySVG(runs [][]storage.Frame, theme viz.Theme, width, height int) string {
	b, ok := frameBounds(runs)
	if !ok || width <= 0 || height <= 0 {
		return ""
	}

	// Add padding
	rangeX := math.Max(b.maxX-b.minX, 1)
	rangeY := math.Max(b.maxY-b.minY, 1)
	pad := 0.1 * math.Max(rangeX, rangeY)
	b.minX -= pad
	b.minY -= pad
	rangeX += 2 * pad
	rangeY += 2 * pad

	scale := math.Min(float64(width)/rangeX, float64(height)/rangeY)
	offX := (float64(width) - rangeX*scale) / 2
	offY := (float64(height) - rangeY*scale) / 2
	project := func(x, y float64) (float64, float64) {
		return offX + (x-b.minX)*scale, offY + (y-b.minY)*scale
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, theme.Background))

	for r := len(runs) - 1; r >= 0; r-- {
		frames := runs[r]
		if len(frames) == 0 {
			continue
		}
		th := theme
		if r > 0 {
			th = theme.Translucent()
		}

		for i := 0; i < physics.Count; i++ {
			if len(frames) < 2 {
				break
			}
			sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, th.Bodies[i]))
			for k, f := range frames {
				x, y := project(f.Bodies[i].Pos.X(), f.Bodies[i].Pos.Y())
				if k == 0 {
					sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
				} else {
					sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
				}
			}
			sb.WriteString("\"/>\n")
		}

		last := frames[len(frames)-1]
		for i, body := range last.Bodies {
			x, y := project(body.Pos.X(), body.Pos.Y())
			rad := math.Max(body.Radius()*scale, 2)
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, rad, th.Bodies[i]))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
