// main is the entry point for the kpidash CLI.
package main

import (
	"github.com/huangsam/kpidash/cmd"
	"github.com/huangsam/kpidash/internal/contract"
)

func main() {
	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
