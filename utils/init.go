package utils

import (
	"flag"
)

// Ambient CLI/driver options, populated from flags at process start.
// Only the options exercised by the CLI layer live here. The two VSA
// tunables (signedness hack, mem_max) are deliberately not part of this
// struct - they live on fixpoint.Config instead.
type options struct {
	verbose    bool
	noColorize bool
	visualize  bool
	outputPath string
	logLevel   string
	task       string
}

var opts = &options{}

func init() {
	flag.BoolVar(&opts.verbose, "v", false, "verbose logging")
	flag.BoolVar(&opts.noColorize, "no-color", false, "disable colorized output")
	flag.BoolVar(&opts.visualize, "visualize", false, "render a graphviz visualization of the analyzed CFG")
	flag.StringVar(&opts.outputPath, "o", "", "output path for visualizations (defaults to stdout description)")
	flag.StringVar(&opts.logLevel, "log-level", "info", "logrus log level")
	flag.StringVar(&opts.task, "task", "const-prop", "built-in scenario to run the fixpoint driver against")
}

type optInterface struct{}

func Opts() optInterface {
	return optInterface{}
}

func (optInterface) Verbose() bool      { return opts.verbose }
func (optInterface) NoColorize() bool   { return opts.noColorize }
func (optInterface) Visualize() bool    { return opts.visualize }
func (optInterface) OutputPath() string { return opts.outputPath }
func (optInterface) LogLevel() string   { return opts.logLevel }
func (optInterface) Task() string       { return opts.task }

// ParseArgs parses the registered flags. main.go calls it before doing
// anything else.
func ParseArgs() {
	if !flag.Parsed() {
		flag.Parse()
	}
}
