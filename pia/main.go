// Command pia is the personal investment advisor CLI.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/advisor/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion runs first: when invoked by the shell's completion
	// machinery it prints candidates and exits.
	completion().Complete("pia")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	files := predict.Files("*")
	globals := map[string]complete.Predictor{
		"ledger-file":    files,
		"decisions-file": files,
		"settings-file":  files,
	}
	return &complete.Command{
		Flags: globals,
		Sub: map[string]*complete.Command{
			"analyze": {Flags: map[string]complete.Predictor{
				"best":   predict.Nothing,
				"record": predict.Nothing,
				"reason": predict.Nothing,
			}},
			"size": {Flags: map[string]complete.Predictor{
				"price": predict.Something,
				"value": predict.Something,
			}},
			"kelly": {Flags: map[string]complete.Predictor{
				"p": predict.Something,
				"b": predict.Something,
			}},
			"risk":        {},
			"correlation": {},
			"decisions": {Flags: map[string]complete.Predictor{
				"pending": predict.Nothing,
			}},
			"accept":  {},
			"reject":  {},
			"execute": {},
			"holding": {Flags: map[string]complete.Predictor{
				"refresh": predict.Nothing,
			}},
			"buy":      {},
			"sell":     {},
			"dividend": {},
			"deposit":  {},
			"withdraw": {},
			"assist":   {},
			"topic":    {},
		},
	}
}
