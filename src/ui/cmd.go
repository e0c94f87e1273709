//go:build !js && !wasm
// +build !js,!wasm

package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"diskread/src/conf"
	"diskread/src/diskfile"
	"diskread/src/logx"
	"diskread/src/preview"
	clic "diskread/src/ui/cli"
	"diskread/src/ui/gclipboard"
	"diskread/src/ui/gdialog"

	"github.com/urfave/cli/v3"
)

const logfile string = "diskread.log"

func GetLogger(w io.Writer, c *cli.Command) *logx.Logx {
	l := logx.NewLogx(
		logx.GetLoggerLevelByString(c.String("level")),
		c.Bool("dev"),
		c.Bool("console"),
	)
	l.InitLogger(w)
	return l
}

// loadConfig reads the config file and lets flags override it.
func loadConfig(c *cli.Command) (*conf.Config, error) {
	cfg, err := conf.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("mode") {
		cfg.Mode = string(diskfile.ParseMode(c.String("mode")))
	}
	if c.IsSet("accept") {
		cfg.Accept = c.String("accept")
	}
	if c.IsSet("title") {
		cfg.Title = c.String("title")
	}
	if c.IsSet("grace") {
		cfg.GraceMS = int(c.Duration("grace") / time.Millisecond)
	}
	if c.IsSet("timeout") {
		cfg.DecodeTimeoutMS = int(c.Duration("timeout") / time.Millisecond)
	}
	if c.IsSet("order") {
		cfg.Order = diskfile.ParseOrder(c.String("order")).String()
	}
	if c.IsSet("parallel") {
		cfg.MaxParallel = int(c.Int("parallel"))
	}
	if c.IsSet("thumb-size") {
		cfg.Thumbnail = int(c.Int("thumb-size"))
	}
	return cfg, nil
}

func RunPick(ctx context.Context, c *cli.Command, many bool) error {
	format, err := clic.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("error load config: %w", err)
	}

	var logw io.Writer
	if !c.Bool("console") {
		file, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("error open logfile: %w", err)
		}
		defer file.Close()
		logw = file
	}
	logger := GetLogger(logw, c)
	defer logger.Sync() //nolint:errcheck

	picker := diskfile.NewPicker(
		gdialog.NewControl(logger.Named("gdialog")),
		append(cfg.PickerOptions(), diskfile.WithLogger(logger.Named("diskfile")))...,
	)
	mode := diskfile.ParseMode(cfg.Mode)

	var results []*diskfile.ReadResult
	if many {
		results, err = picker.PickMany(ctx, mode, cfg.Accept)
	} else {
		var r *diskfile.ReadResult
		r, err = picker.Pick(ctx, mode, cfg.Accept)
		if r != nil {
			results = []*diskfile.ReadResult{r}
		}
	}

	clic.EnableANSI()
	printer := clic.NewPrinter(os.Stdout, os.Stderr, format)

	var perr *diskfile.PartialError
	if err != nil {
		if !errors.As(err, &perr) || len(results) == 0 {
			logger.Errorf("pick: %v", err)
			return err
		}
		printer.Warn("%v", perr)
	}
	if results == nil {
		return printer.Print(nil)
	}

	entries := make([]clic.Entry, 0, len(results))
	for _, r := range results {
		e := clic.NewEntry(r)
		if c.Bool("thumb") && preview.Supported(r.Type) {
			th, err := preview.FromResult(r, cfg.Thumbnail)
			if err != nil {
				printer.Warn("thumbnail %s: %v", r.Filename, err)
			} else {
				e.AttachThumbnail(th)
			}
		}
		entries = append(entries, e)
	}

	if c.Bool("copy") {
		if err := gclipboard.CopyResult(gclipboard.WriteAll, results[0]); err != nil {
			printer.Warn("copy to clipboard: %v", err)
		}
	}
	return printer.Print(entries)
}

func pickFlags() []cli.Flag {
	mf := &cli.StringFlag{
		Name:    "mode",
		Aliases: []string{"m"},
		Usage:   "result type: blob or base64",
		Value:   string(diskfile.ModeBlob),
	}
	af := &cli.StringFlag{
		Name:    "accept",
		Aliases: []string{"a"},
		Usage:   "accept filter, e.g. .png,.jpg,image/*",
		Value:   diskfile.DefaultAccept,
	}
	tf := &cli.StringFlag{
		Name:  "title",
		Usage: "dialog title",
	}
	gf := &cli.DurationFlag{
		Name:  "grace",
		Usage: "wait after the dialog closes before treating it as cancelled",
		Value: diskfile.DefaultGrace,
	}
	of := &cli.DurationFlag{
		Name:  "timeout",
		Usage: "decode timeout, 0 disables",
		Value: diskfile.DefaultDecodeTimeout,
	}
	orf := &cli.StringFlag{
		Name:  "order",
		Usage: "pick-many result order: completion or selection",
		Value: diskfile.OrderCompletion.String(),
	}
	pf := &cli.IntFlag{
		Name:  "parallel",
		Usage: "max concurrent reads, 0 unbounded",
	}
	ff := &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "output: text, json or yaml",
		Value:   string(clic.FormatText),
	}
	cpf := &cli.BoolFlag{
		Name:  "copy",
		Usage: "copy the first result as a data URL to the clipboard",
	}
	thf := &cli.BoolFlag{
		Name:  "thumb",
		Usage: "attach thumbnails for images",
	}
	tsf := &cli.IntFlag{
		Name:  "thumb-size",
		Usage: "thumbnail edge in pixels",
	}
	cff := &cli.StringFlag{
		Name:  "config",
		Usage: "config file (.json, .yaml)",
		Value: conf.DefaultFile,
	}
	df := &cli.BoolFlag{
		Name:    "dev",
		Aliases: []string{"d"},
		Usage:   "dev encode log",
	}
	lf := &cli.StringFlag{
		Name:        "level",
		Aliases:     []string{"l"},
		Usage:       "level log",
		DefaultText: "info",
	}
	cf := &cli.BoolFlag{
		Name:    "console",
		Aliases: []string{"c"},
		Usage:   "console log",
	}
	return []cli.Flag{mf, af, tf, gf, of, orf, pf, ff, cpf, thf, tsf, cff, df, lf, cf}
}

// NewCommand builds the command tree. Flags live on the root and are
// inherited by the subcommands.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "diskread",
		Usage: "pick local files and read them into memory",
		Flags: pickFlags(),
		Commands: []*cli.Command{
			{
				Name:  "pick",
				Usage: "pick one file",
				Action: func(ctx context.Context, c *cli.Command) error {
					return RunPick(ctx, c, false)
				},
			},
			{
				Name:  "pick-many",
				Usage: "pick any number of files",
				Action: func(ctx context.Context, c *cli.Command) error {
					return RunPick(ctx, c, true)
				},
			},
			{
				Name:      "init-config",
				Usage:     "write the default config",
				ArgsUsage: "[file]",
				Action: func(ctx context.Context, c *cli.Command) error {
					file := c.Args().First()
					if file == "" {
						file = conf.DefaultFile
					}
					return conf.Default().Save(file)
				},
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return RunPick(ctx, c, false)
		},
	}
}

func RunDiskRead() error {
	return NewCommand().Run(context.Background(), os.Args)
}
