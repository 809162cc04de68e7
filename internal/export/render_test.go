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
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gofloorplan/internal/plan"
)

func TestExportSVG(t *testing.T) {
	d, w, door := samplePlan(t)
	var buf bytes.Buffer
	if err := ExportSVG(d, &buf, Options{PxPerCm: 1, MarginPx: 40, Dimensions: true, Title: "Flat <A>"}); err != nil {
		t.Fatalf("export svg: %v", err)
	}
	s := buf.String()
	if !strings.HasPrefix(s, "<?xml") || !strings.HasSuffix(s, "</svg>\n") {
		t.Fatalf("not an svg document:\n%s", s)
	}
	if n := strings.Count(s, "<polygon"); n != 2 {
		t.Fatalf("expected 2 wall pieces, got %d", n)
	}
	if !strings.Contains(s, `data-wall="`+w.ID.String()+`"`) {
		t.Fatalf("wall id missing")
	}
	if !strings.Contains(s, `data-opening="`+door.ID.String()+`" data-kind="door"`) {
		t.Fatalf("opening gap missing")
	}
	if !strings.Contains(s, ">4.00 m</text>") {
		t.Fatalf("dimension label missing")
	}
	if !strings.Contains(s, "<title>Flat &lt;A&gt;</title>") {
		t.Fatalf("title not escaped")
	}
	if !strings.Contains(s, `width="480px" height="100px"`) {
		t.Fatalf("unexpected canvas size")
	}

	buf.Reset()
	if err := ExportSVG(d, &buf, Options{PxPerCm: 1}); err != nil {
		t.Fatalf("export svg: %v", err)
	}
	if strings.Contains(buf.String(), "dimensions") {
		t.Fatalf("labels drawn although disabled")
	}
	if err := ExportSVG(nil, &buf, Options{}); err == nil {
		t.Fatalf("expected error for nil plan")
	}
}

func TestRenderImagePixels(t *testing.T) {
	d, _, _ := samplePlan(t)
	img, err := RenderImage(d, Options{PxPerCm: 1, MarginPx: 40})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 480 || b.Dy() != 100 {
		t.Fatalf("bounds = %v", b)
	}
	white := color.RGBA{255, 255, 255, 255}
	if got := img.RGBAAt(5, 5); got != white {
		t.Fatalf("margin pixel = %v", got)
	}
	// inside the solid piece left of the door
	if got := img.RGBAAt(90, 50); got != toRGBA(wallFill) {
		t.Fatalf("wall pixel = %v", got)
	}
	// on the door centerline
	if got := img.RGBAAt(190, 50); got != toRGBA(gapStroke) {
		t.Fatalf("gap pixel = %v", got)
	}
	// beside the door centerline the opening is empty
	if got := img.RGBAAt(190, 45); got != white {
		t.Fatalf("opening pixel = %v", got)
	}
}

func TestExportPNGWritesFile(t *testing.T) {
	d, _, _ := samplePlan(t)
	out := filepath.Join(t.TempDir(), "nested", "plan.png")
	if err := ExportPNG(d, out, Options{PxPerCm: 2, MarginPx: 10, Dimensions: true}); err != nil {
		t.Fatalf("export png: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 820 || b.Dy() != 60 {
		t.Fatalf("bounds = %v", b)
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	d, _, _ := samplePlan(t)
	out := filepath.Join(t.TempDir(), "plan.pdf")
	if err := ExportPDF(d, out, Options{PxPerCm: 1, MarginPx: 40, Dimensions: true, Title: "Test Plan"}); err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Fatalf("not a pdf")
	}

	empty := filepath.Join(t.TempDir(), "empty.pdf")
	if err := ExportPDF(plan.NewData(), empty, DefaultOptions()); err != nil {
		t.Fatalf("export empty pdf: %v", err)
	}
	if err := ExportPDF(nil, empty, DefaultOptions()); err == nil {
		t.Fatalf("expected error for nil plan")
	}
}
