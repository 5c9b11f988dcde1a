package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"cssspec/check"
	"cssspec/misc"
	"cssspec/state"
)

const checkHelp = `%s
SOURCE:
    what to analyze, one or more of:
        stylesheet or HTML document: "[path_to_file]file.css"
        directory: "[path_to_directory]directory" - every matching file under directory, symbolic links are not followed
        zip archive: "[path_to_archive]archive.zip" - every matching file in archive
        path inside zip archive: "[path_to_archive]archive.zip[path_in_archive]" - file or every matching file under that path

    Matching files have one of analysis.extensions (.css, .html and .htm by
    default), archives inside archives are not opened. HTML documents
    contribute <style> elements and style attributes.

EXIT STATUS:
    0 - every selector is within threshold
    1 - selectors above threshold or regressions found, or input could not be analyzed
`

func newApp() *cli.Command {
	return &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "CSS selector specificity checker",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          setup,
		After:           teardown,
		OnUsageError:    onUsageError,
		ExitErrHandler:  logExitError,
		CommandNotFound: onUnknownCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log everything and produce report archive to help troubleshooting"},
		},
		Commands: []*cli.Command{
			{
				Name:               "check",
				Usage:              "Analyzes specificity of selectors in stylesheets and HTML documents",
				OnUsageError:       onUsageError,
				Action:             check.Run,
				Flags:              check.Flags(),
				ArgsUsage:          "SOURCE...",
				CustomHelpTemplate: fmt.Sprintf(checkHelp, cli.CommandHelpTemplate),
			},
			{
				Name:         "selector",
				Usage:        "Computes specificity of selectors given on command line",
				OnUsageError: onUsageError,
				Action:       check.Selector,
				Flags:        check.SelectorFlags(),
				ArgsUsage:    "SELECTOR...",
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError:       onUsageError,
				Action:             dumpConfig,
				ArgsUsage:          "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(dumpConfigHelp, cli.CommandHelpTemplate),
			},
		},
	}
}

func main() {
	// workers and input resolution stop on interrupt
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	err := newApp().Run(ctx, os.Args)
	stop()

	if err != nil {
		// log may be not ready yet (argument parsing) or already closed
		if !errLogged {
			fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
		}
		os.Exit(1)
	}
}
