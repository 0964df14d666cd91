package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/choria-io/fisk"
	"github.com/choria-io/uctest"
	"github.com/choria-io/uctest/internal"
	"github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"
)

var (
	input      string
	factsInput map[string]string
	factsFile  string
	sysFacts   bool
	envFacts   bool
	yamlOutput bool
	jsonOutput bool
	failExit   bool
	quiet      bool
	version    string
	query      string
	debug      bool

	ctx context.Context
)

func main() {
	factsInput = make(map[string]string)

	app := fisk.New("cmd", "Choria micro unit test runner")
	app.Version(version)
	app.Author("R.I.Pienaar <rip@choria.io>")

	run := app.Command("run", "Runs a YAML or JSON test plan").Action(runAction)
	run.Arg("input", "Input JSON or YAML test plan").Envar("UCTEST_PLAN").Required().ExistingFileVar(&input)
	run.Arg("fact", "Facts about the node").StringMapVar(&factsInput)
	run.Flag("facts", "JSON or YAML file containing facts").ExistingFileVar(&factsFile)
	run.Flag("system-facts", "Provide facts from the internal facts provider").Short('S').UnNegatableBoolVar(&sysFacts)
	run.Flag("env-facts", "Provide facts from the process environment").Short('E').UnNegatableBoolVar(&envFacts)
	run.Flag("yaml", "Output the report as YAML").UnNegatableBoolVar(&yamlOutput)
	run.Flag("json", "Output the report as JSON").UnNegatableBoolVar(&jsonOutput)
	run.Flag("query", "Performs a gjson query on the report").StringVar(&query)
	run.Flag("quiet", "Do not emit per assertion results").Short('q').UnNegatableBoolVar(&quiet)
	run.Flag("fail-exit", "Exit with status 1 when the run is not clean").UnNegatableBoolVar(&failExit)
	run.Flag("debug", "Enables debug output").UnNegatableBoolVar(&debug)

	demo := app.Command("demo", "Runs the built in demonstration test cases").Action(demoAction)
	demo.Flag("debug", "Enables debug output").UnNegatableBoolVar(&debug)

	facts := app.Command("facts", "Shows resolved facts").Action(showFactsAction)
	facts.Arg("fact", "Facts about the node").StringMapVar(&factsInput)
	facts.Flag("facts", "JSON or YAML file containing facts").ExistingFileVar(&factsFile)
	facts.Flag("system-facts", "Provide facts from the internal facts provider").Short('S').UnNegatableBoolVar(&sysFacts)
	facts.Flag("env-facts", "Provide facts from the process environment").Short('E').UnNegatableBoolVar(&envFacts)
	facts.Flag("query", "Performs a gjson query on the facts").StringVar(&query)

	app.PreAction(func(_ *fisk.ParseContext) error {
		ctx, _ = signal.NotifyContext(context.Background(), os.Interrupt)
		return nil
	})

	app.MustParseWithUsage(os.Args[1:])
}

func logger() uctest.Logger {
	if !debug {
		return nil
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func demoAction(_ *fisk.ParseContext) error {
	runner := uctest.NewRunner(uctest.NewContext(uctest.DefaultOptions(), logger()), internal.DemoSuite())
	runner.RunAll()

	return runner.Report().Summary(os.Stdout)
}

func runAction(_ *fisk.ParseContext) error {
	facts, err := resolveFacts()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	plan, err := uctest.ParsePlan(data)
	if err != nil {
		return err
	}

	opts := uctest.DefaultOptions()
	structured := yamlOutput || jsonOutput || query != ""
	if quiet || structured {
		// results go to the report, stdout carries only the rendered document
		opts.Sink = uctest.NopSink{}
	}

	runner := uctest.NewRunner(uctest.NewContext(opts, logger()), plan.Suite(facts))
	runner.RunAll()
	report := runner.Report()

	err = renderReport(report, structured)
	if err != nil {
		return err
	}

	if failExit && !report.Clean() {
		os.Exit(1)
	}

	return nil
}

func renderReport(report uctest.Report, structured bool) error {
	if !structured {
		return report.Summary(os.Stdout)
	}

	jout, err := report.JSON()
	if err != nil {
		return err
	}

	if query != "" {
		val := gjson.GetBytes(jout, query)
		fmt.Println(val.String())
		return nil
	}

	out := jout
	if yamlOutput {
		out, err = report.YAML()
		if err != nil {
			return err
		}
	}

	fmt.Println(strings.TrimSpace(string(out)))

	return nil
}

func showFactsAction(_ *fisk.ParseContext) error {
	facts, err := resolveFacts()
	if err != nil {
		return err
	}

	j, err := json.MarshalIndent(facts, "", "  ")
	if err != nil {
		return err
	}

	if query != "" {
		val := gjson.GetBytes(j, query)
		fmt.Println(val.String())
		return nil
	}

	fmt.Println(string(j))

	return nil
}

func resolveFacts() (map[string]any, error) {
	facts := make(map[string]any)

	if sysFacts {
		sf, err := internal.SystemFacts(ctx)
		if err != nil {
			return nil, err
		}
		for k, v := range sf {
			facts[k] = v
		}
	}

	if envFacts {
		for _, v := range os.Environ() {
			k, val, _ := strings.Cut(v, "=")
			facts[k] = val
		}
	}

	if factsFile != "" {
		fc, err := os.ReadFile(factsFile)
		if err != nil {
			return nil, err
		}

		if uctest.IsJson(fc) {
			err = json.Unmarshal(fc, &facts)
		} else {
			err = yaml.Unmarshal(fc, &facts)
		}
		if err != nil {
			return nil, err
		}
	}

	for k, v := range factsInput {
		facts[k] = v
	}

	return facts, nil
}
