/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"gofloorplan/internal/geom"
	"gofloorplan/internal/plan"
)

// RenderImage rasterizes the plan at PxPerCm pixels per centimeter.
func RenderImage(d *plan.Data, opt Options) (*image.RGBA, error) {
	if d == nil {
		return nil, fmt.Errorf("plan is nil")
	}
	opt = opt.normalized()
	o := BuildOutline(d)
	v := newView(o, opt)

	pixW := int(math.Ceil(v.width))
	pixH := int(math.Ceil(v.height))
	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	fc := toRGBA(wallFill)
	sc := toRGBA(wallStroke)
	for _, pc := range o.Pieces {
		poly := make([]geom.Vec2, 0, len(pc.Poly))
		for _, p := range pc.Poly {
			x, y := v.at(p)
			poly = append(poly, geom.V(x, y))
		}
		fillPolygon(img, poly, fc)
		for i := range poly {
			strokeLine(img, poly[i], poly[(i+1)%len(poly)], sc)
		}
	}

	gc := toRGBA(gapStroke)
	for _, g := range o.Gaps {
		x1, y1 := v.at(g.A)
		x2, y2 := v.at(g.B)
		strokeLine(img, geom.V(x1, y1), geom.V(x2, y2), gc)
	}

	if opt.Dimensions {
		dr := &font.Drawer{Dst: img, Src: image.NewUniform(toRGBA(labelColor)), Face: basicfont.Face7x13}
		for _, l := range o.Labels {
			x, y := v.at(l.Pos)
			adv := dr.MeasureString(l.Text)
			dr.Dot = fixed.Point26_6{X: fixed.I(int(math.Round(x))) - adv/2, Y: fixed.I(int(math.Round(y)) - 3)}
			dr.DrawString(l.Text)
		}
	}
	return img, nil
}

// ExportPNG renders the plan and writes it to outPath.
func ExportPNG(d *plan.Data, outPath string, opt Options) error {
	img, err := RenderImage(d, opt)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure out dir: %w", err)
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

func toRGBA(c rgb) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// fillPolygon fills poly with the even-odd rule, sampling pixel centers.
func fillPolygon(img *image.RGBA, poly []geom.Vec2, col color.RGBA) {
	r, ok := geom.BoundsOf(poly...)
	if !ok {
		return
	}
	b := img.Bounds()
	y0 := max(b.Min.Y, int(math.Floor(r.Min.Y)))
	y1 := min(b.Max.Y-1, int(math.Ceil(r.Max.Y)))
	xs := make([]float64, 0, 8)
	for y := y0; y <= y1; y++ {
		cy := float64(y) + 0.5
		xs = xs[:0]
		for i := range poly {
			p, q := poly[i], poly[(i+1)%len(poly)]
			if (p.Y <= cy) == (q.Y <= cy) {
				continue
			}
			xs = append(xs, p.X+(cy-p.Y)*(q.X-p.X)/(q.Y-p.Y))
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			xa := max(b.Min.X, int(math.Ceil(xs[i]-0.5)))
			xb := min(b.Max.X-1, int(math.Floor(xs[i+1]-0.5)))
			for x := xa; x <= xb; x++ {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// strokeLine draws a 1px line by stepping along the longer axis.
func strokeLine(img *image.RGBA, a, b geom.Vec2, col color.RGBA) {
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		img.SetRGBA(int(a.X), int(a.Y), col)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		img.SetRGBA(int(math.Floor(a.X+dx*t)), int(math.Floor(a.Y+dy*t)), col)
	}
}
