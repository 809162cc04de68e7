/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"gofloorplan/internal/plan"
)

// ExportSVG writes the plan as an SVG document to w. One user unit is one output pixel.
func ExportSVG(d *plan.Data, w io.Writer, opt Options) error {
	if d == nil {
		return fmt.Errorf("plan is nil")
	}
	opt = opt.normalized()
	o := BuildOutline(d)
	v := newView(o, opt)

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%gpx\" height=\"%gpx\" viewBox=\"0 0 %g %g\">\n", v.width, v.height, v.width, v.height)
	if opt.Title != "" {
		wf("  <title>%s</title>\n", escText(opt.Title))
	}
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"#ffffff\"/>\n", v.width, v.height)

	wf("  <g id=\"walls\" fill=\"%s\" stroke=\"%s\" stroke-width=\"0.5\">\n", svgColor(wallFill), svgColor(wallStroke))
	for _, pc := range o.Pieces {
		pts := make([]string, 0, len(pc.Poly))
		for _, p := range pc.Poly {
			x, y := v.at(p)
			pts = append(pts, fmt.Sprintf("%.3f,%.3f", x, y))
		}
		wf("    <polygon data-wall=\"%s\" points=\"%s\"/>\n", pc.WallID, strings.Join(pts, " "))
	}
	wf("  </g>\n")

	wf("  <g id=\"openings\" stroke=\"%s\" stroke-width=\"0.3\">\n", svgColor(gapStroke))
	for _, g := range o.Gaps {
		x1, y1 := v.at(g.A)
		x2, y2 := v.at(g.B)
		wf("    <line data-opening=\"%s\" data-kind=\"%s\" x1=\"%.3f\" y1=\"%.3f\" x2=\"%.3f\" y2=\"%.3f\"/>\n", g.OpeningID, escAttr(string(g.Kind)), x1, y1, x2, y2)
	}
	wf("  </g>\n")

	if opt.Dimensions && len(o.Labels) > 0 {
		wf("  <g id=\"dimensions\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"10\" text-anchor=\"middle\" fill=\"%s\">\n", svgColor(labelColor))
		for _, l := range o.Labels {
			x, y := v.at(l.Pos)
			wf("    <text x=\"%.3f\" y=\"%.3f\">%s</text>\n", x, y-3, escText(l.Text))
		}
		wf("  </g>\n")
	}
	wf("</svg>\n")

	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func svgColor(c rgb) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func escAttr(s string) string {
	r := strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", "<", "&lt;", "\n", " ", "\r", "")
	return r.Replace(s)
}

func escText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
