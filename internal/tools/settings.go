/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tools

import "gofloorplan/internal/config"

// Settings are the editor parameters shared by all tools.
type Settings struct {
	SnapRadiusCm    float64
	GridCm          float64 // <= 0 disables grid rounding
	Ortho           bool
	WallThicknessCm float64
	WallHeightCm    float64
	DragThresholdPx float64
	HitToleranceCm  float64
	FencePaddingCm  float64
}

// DefaultSettings mirrors config.Defaults().Editor.
func DefaultSettings() Settings {
	return SettingsFromConfig(config.Defaults().Editor)
}

// SettingsFromConfig maps the editor config section onto tool settings.
func SettingsFromConfig(e config.EditorConfig) Settings {
	return Settings{
		SnapRadiusCm:    e.SnapRadiusCm,
		GridCm:          e.GridCm,
		Ortho:           e.Ortho,
		WallThicknessCm: e.WallThicknessCm,
		WallHeightCm:    e.WallHeightCm,
		DragThresholdPx: e.DragThresholdPx,
		HitToleranceCm:  e.HitToleranceCm,
		FencePaddingCm:  e.FencePaddingCm,
	}
}
