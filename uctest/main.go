package main

import (
	"os"

	"github.com/choria-io/fisk"
	"github.com/choria-io/uctest"
	"github.com/choria-io/uctest/internal"
)

var version string

func main() {
	app := fisk.New("uctest", "Micro unit test demonstration").Action(runAction)
	app.Version(version)
	app.Author("R.I.Pienaar <rip@choria.io>")

	app.MustParseWithUsage(os.Args[1:])
}

func runAction(_ *fisk.ParseContext) error {
	runner := uctest.NewRunner(uctest.NewContext(uctest.DefaultOptions(), nil), internal.DemoSuite())
	runner.RunAll()

	// the outcome is reported, not signalled through the exit code
	return runner.Report().Summary(os.Stdout)
}
