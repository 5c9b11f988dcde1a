package check

import (
	"strings"

	cli "github.com/urfave/cli/v3"

	"cssspec/common"
	"cssspec/specificity"
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "threshold", Aliases: []string{"t"},
			Usage: "selectors with specificity above `SPEC` (inline,id,class,element) are reported as high"},
		&cli.StringFlag{Name: "format", Aliases: []string{"f"},
			Usage: "output `TYPE` (supported types: " + strings.Join(common.OutputFormatNames(), ", ") + ")"},
		&cli.StringFlag{Name: "split",
			Usage: "functional pseudo-class arguments splitting `MODE` (supported modes: " + strings.Join(specificity.SplitModeNames(), ", ") + ")"},
	}
}

// Flags returns flags of "check" command.
func Flags() []cli.Flag {
	return append(commonFlags(),
		&cli.StringFlag{Name: "extraction", Aliases: []string{"x"},
			Usage: "selector extraction `MODE` (supported modes: " + strings.Join(common.ExtractionModeNames(), ", ") + ")"},
		&cli.BoolFlag{Name: "only-high", Aliases: []string{"oh"}, Usage: "list only selectors exceeding threshold"},
		&cli.StringFlag{Name: "baseline", Aliases: []string{"b"}, Usage: "compare results with baseline database `FILE`"},
		&cli.BoolFlag{Name: "update-baseline", Usage: "store results of this run in baseline database"},
		&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "analyze up to `N` files in parallel (0 - one per CPU)"},
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write results for every file into `DIRECTORY` instead of STDOUT"},
	)
}

// SelectorFlags returns flags of "selector" command.
func SelectorFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.BoolFlag{Name: "explain", Aliases: []string{"e"}, Usage: "show which parts of selector contribute to its specificity"},
	)
}
