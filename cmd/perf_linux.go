/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

//go:build linux
// +build linux

package cmd

import (
	"fmt"

	perf "github.com/hodgesds/perf-utils"
)

// countedRun executes run under a hardware instruction counter and
// reports the count. When the counter cannot be opened, typically a
// perf_event_paranoid restriction, the run proceeds uncounted.
func countedRun(run func()) {
	ran := false
	pv, err := perf.CPUInstructions(func() error {
		ran = true
		run()
		return nil
	})
	if !ran {
		fmt.Printf("perf counters unavailable: %s\n", err.Error())
		run()
		return
	}
	if err != nil {
		fmt.Printf("perf counter read failed: %s\n", err.Error())
		return
	}
	fmt.Printf("CPU instructions = %d, counter enabled %dns, running %dns\n",
		pv.Value, pv.TimeEnabled, pv.TimeRunning)
}
