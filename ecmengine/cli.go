// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ecmengine

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ecm-go/lenstra/bigint"
	"github.com/ecm-go/lenstra/log"
	"github.com/ecm-go/lenstra/release"
	"github.com/ecm-go/lenstra/util"
	"github.com/ecm-go/lenstra/util/interrupt"
	"github.com/urfave/cli"
)

// logCmdPrefix identifies this binary's log lines; log.Init requires
// exactly five characters.
const logCmdPrefix = "ecmfc"

// defaultHelpPrinter is urfave/cli's help printer, captured once before
// New wraps it, so repeated Engine construction never stacks wrappers.
var defaultHelpPrinter = cli.HelpPrinter

// Engine wires RunContext, the curve models, and the two drivers behind
// a single github.com/urfave/cli application, the way protoengine does
// for muteproto.
type Engine struct {
	app *cli.App

	// helpRequested is set by the cli.HelpPrinter hook New installs.
	// urfave/cli v1 intercepts -h/--help before Action ever runs and
	// always returns a nil error from app.Run, so Run checks this flag
	// afterward to turn a help request into exit code 1.
	helpRequested bool
}

// New returns a new ECM factorization engine.
func New() *Engine {
	var e Engine
	e.app = cli.NewApp()
	cli.HelpPrinter = func(w io.Writer, templ string, data interface{}) {
		e.helpRequested = true
		defaultHelpPrinter(w, templ, data)
	}
	e.app.Usage = "factor a composite number with Lenstra's elliptic curve method"
	e.app.Version = release.Number
	e.app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "composite-number, n",
			Usage: "composite number to factorize (required, must be >= 2)",
		},
		cli.BoolFlag{
			Name:  "weierstrass_model, w",
			Usage: "use the short Weierstrass curve model (default)",
		},
		cli.BoolFlag{
			Name:  "edwards_model, e",
			Usage: "use the twisted Edwards curve model",
		},
		cli.StringFlag{
			Name:  "bound, b",
			Usage: "per-curve scalar bound B (values <= 2 ignored, capped at floor(sqrt(N)))",
		},
		cli.BoolFlag{
			Name:  "timer, t",
			Usage: "emit wall-clock time on completion",
		},
		cli.BoolFlag{
			Name:  "parallel, p",
			Usage: "enable the parallel driver",
		},
		cli.StringFlag{
			Name:  "loglevel",
			Value: "info",
			Usage: "logging level {trace, debug, info, warn, error, critical}",
		},
		cli.StringFlag{
			Name:  "logdir",
			Usage: "directory to log output (disabled if empty)",
		},
		cli.BoolFlag{
			Name:  "logconsole",
			Usage: "enable logging to console",
		},
	}
	e.app.Action = func(c *cli.Context) error {
		return e.run(c)
	}
	return &e
}

// Run runs the engine with the given args (normally os.Args).
func (e *Engine) Run(args []string) error {
	e.app.Name = args[0]
	e.helpRequested = false
	err := e.app.Run(args)
	if err == nil && e.helpRequested {
		return cli.NewExitError("", 1)
	}
	return err
}

func (e *Engine) run(c *cli.Context) error {
	if logdir := c.String("logdir"); logdir != "" {
		if err := util.CreateDirs(logdir); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
	}
	if err := log.Init(c.String("loglevel"), logCmdPrefix, c.String("logdir"), c.Bool("logconsole")); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer log.Flush()

	if c.String("composite-number") == "" {
		return cli.NewExitError("option --composite-number is mandatory", 1)
	}
	if c.Bool("weierstrass_model") && c.Bool("edwards_model") {
		return cli.NewExitError("only one of --weierstrass_model and --edwards_model may be given", 2)
	}

	n, ok := bigint.FromString(c.String("composite-number"))
	if !ok {
		return cli.NewExitError(fmt.Sprintf("not a valid integer: %q", c.String("composite-number")), 1)
	}

	model := Weierstrass
	if c.Bool("edwards_model") {
		model = Edwards
	}

	userBound := bigint.Zero
	if c.IsSet("bound") {
		b, ok := bigint.FromString(c.String("bound"))
		if !ok {
			return cli.NewExitError(fmt.Sprintf("not a valid integer: %q", c.String("bound")), 1)
		}
		userBound = b
	}

	rc, err := NewRunContext(n, userBound, model, c.Bool("parallel"))
	if err != nil {
		return cli.NewExitError(err.Error(), 3)
	}

	out := c.App.Writer
	fmt.Fprintf(out, "Factorizing number: %s\n", rc.N)
	fmt.Fprintf(out, "Using model: %s\n", rc.Model)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	interrupt.AddInterruptHandler(cancel)

	start := time.Now()
	if rc.Parallel {
		err = e.runParallel(ctx, rc, out)
	} else {
		err = e.runSequential(ctx, rc, out)
	}
	if c.Bool("timer") {
		fmt.Fprintf(out, "time = %s s\n", time.Since(start))
	}
	return err
}

func (e *Engine) runSequential(ctx context.Context, rc RunContext, out io.Writer) error {
	d := NewSequentialDriver(rc)
	res, err := d.Factorize(ctx, rc.NewModel())
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Fprintf(out, "Factor = %s\n", res.Factor)
	fmt.Fprintf(out, "curves consumed: %d\n", res.CurvesTried)
	return nil
}

func (e *Engine) runParallel(ctx context.Context, rc RunContext, out io.Writer) error {
	d := NewParallelDriver(rc, 0, 0)
	res, err := d.Run(ctx, rc.NewModel)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Fprintf(out, "proc %d: factor = %s\n", res.Rank, res.Factor)
	fmt.Fprintf(out, "curves consumed: %d\n", res.CurvesGenerated)
	return nil
}
