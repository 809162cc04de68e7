/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gofloorplan/internal/config"
	"gofloorplan/internal/crash"
	applog "gofloorplan/internal/log"
	"gofloorplan/internal/storage"
	"gofloorplan/internal/version"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "GoFloorplan")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  gofloorplan version|-v|--version               Show version")
	fmt.Fprintln(w, "  gofloorplan init <dir> <name>                  Create a new plan project at <dir>")
	fmt.Fprintln(w, "  gofloorplan open <dir>                         Open project at <dir> and print summary")
	fmt.Fprintln(w, "  gofloorplan validate <dir>                     Check plan.json against the schema")
	fmt.Fprintln(w, "  gofloorplan check <dir>                        Verify the snapshot index, rebuild if damaged")
	fmt.Fprintln(w, "  gofloorplan wall <dir> x1 y1 x2 y2 [x y ...]   Draw a chain of walls (cm)")
	fmt.Fprintln(w, "  gofloorplan trim <dir> <x> <y>                 Trim the wall under the point")
	fmt.Fprintln(w, "  gofloorplan fence <dir> x1 y1 x2 y2            Trim every wall crossed by the fence")
	fmt.Fprintln(w, "  gofloorplan arc <dir> x1 y1 x2 y2 x3 y3        Draw an arc wall from start through a point to end")
	fmt.Fprintln(w, "  gofloorplan opening <dir> <kind> x y [width]   Cut an opening centered on the point")
	fmt.Fprintln(w, "  gofloorplan place <dir> <product> x y [deg]    Place a product on the floor")
	fmt.Fprintln(w, "  gofloorplan run <dir> <product> x1 y1 x2 y2    Lay out a cabinet run along a wall")
	fmt.Fprintln(w, "  gofloorplan delete <dir> <x> <y>               Delete the opening or wall under the point")
	fmt.Fprintln(w, "  gofloorplan export <dir> <out.{pdf,svg,png}>   Export the plan drawing")
	fmt.Fprintln(w, "  gofloorplan batch <dir> <web|print>            Export with a preset into exports/")
	fmt.Fprintln(w, "  gofloorplan snapshot <dir>                     Store a manual snapshot")
	fmt.Fprintln(w, "  gofloorplan snapshots <dir>                    List stored snapshots")
	fmt.Fprintln(w, "  gofloorplan restore <dir>                      Restore the latest snapshot into plan.json")
	fmt.Fprintln(w, "  gofloorplan push <dir>                         Upload the plan to the shared archive")
	fmt.Fprintln(w, "  gofloorplan pull <dir> <name>                  Replace the plan with an archived one")
}

func main() {
	cfg, password, err := config.Load()
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")
	if err != nil {
		l.Warn("config not loaded, using defaults", slog.Any("err", err))
	}

	a := &app{cfg: cfg, password: password, out: os.Stdout, log: l}
	defer crash.RecoverCurrent(func() *storage.ProjectHandle { return a.ph })

	l.Debug("start", slog.Int("args", len(os.Args)))
	os.Exit(a.run(os.Args[1:]))
}

// app carries the loaded configuration and the project of the running command.
type app struct {
	cfg      config.AppConfig
	password string
	out      io.Writer
	log      *slog.Logger
	ph       *storage.ProjectHandle
}

// run executes one command and returns the process exit code.
func (a *app) run(args []string) int {
	if len(args) == 0 {
		usage(a.out)
		return 0
	}
	cmd, ok := commands[args[0]]
	if !ok {
		usage(a.out)
		return 2
	}
	if len(args)-1 < cmd.minArgs {
		fmt.Fprintf(a.out, "%s requires %s\n", args[0], cmd.argHelp)
		usage(a.out)
		return 2
	}
	if err := cmd.fn(a, args[1:]); err != nil {
		a.log.Error(args[0]+" failed", slog.Any("err", err))
		fmt.Fprintln(a.out, "Error:", err)
		return 1
	}
	return 0
}
