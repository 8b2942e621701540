// Command studyengine records quiz attempts and schedules item reviews.
package main

import (
	"fmt"
	"os"

	"github.com/KUROROSUKE/english-learning/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
