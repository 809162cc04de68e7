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
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"gofloorplan/internal/plan"
)

// Drawing colors shared by the exporters.
var (
	wallFill   = rgb{70, 70, 70}
	wallStroke = rgb{0, 0, 0}
	gapStroke  = rgb{40, 110, 200}
	labelColor = rgb{120, 40, 40}
)

type rgb struct{ R, G, B uint8 }

// ExportPDF writes the plan as a single page PDF sized to the drawing. Units are points:
// PxPerCm points per plan centimeter.
func ExportPDF(d *plan.Data, outPath string, opt Options) error {
	if d == nil {
		return fmt.Errorf("plan is nil")
	}
	opt = opt.normalized()
	o := BuildOutline(d)
	v := newView(o, opt)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: v.width, Ht: v.height},
	})
	title := opt.Title
	if title == "" {
		title = "Floor plan"
	}
	pdf.SetTitle(title, true)
	pdf.SetCreator("gofloorplan", false)
	pdf.AddPage()

	setFillColor(pdf, wallFill)
	setDrawColor(pdf, wallStroke)
	pdf.SetLineWidth(0.5)
	for _, pc := range o.Pieces {
		pts := make([]gofpdf.PointType, 0, len(pc.Poly))
		for _, p := range pc.Poly {
			x, y := v.at(p)
			pts = append(pts, gofpdf.PointType{X: x, Y: y})
		}
		pdf.Polygon(pts, "FD")
	}

	setDrawColor(pdf, gapStroke)
	pdf.SetLineWidth(0.3)
	for _, g := range o.Gaps {
		x1, y1 := v.at(g.A)
		x2, y2 := v.at(g.B)
		pdf.Line(x1, y1, x2, y2)
	}

	if opt.Dimensions && len(o.Labels) > 0 {
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(int(labelColor.R), int(labelColor.G), int(labelColor.B))
		for _, l := range o.Labels {
			x, y := v.at(l.Pos)
			w := pdf.GetStringWidth(l.Text)
			pdf.Text(x-w/2, y-3, l.Text)
		}
	}

	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure out dir: %w", err)
		}
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setDrawColor(pdf *gofpdf.Fpdf, c rgb) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c rgb) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
