package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/five82/cattery/internal/app"
	"github.com/five82/cattery/internal/cataas"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	prefsPath := flag.String("prefs", "", "override prefs path (optional)")
	printURL := flag.Bool("print-url", false, "print the URL for the request flags and exit")

	var req cataas.Request
	var tags, kind, fit, position, filter string
	flag.StringVar(&req.Path.ID, "id", "", "cat id")
	flag.StringVar(&tags, "tag", "", "comma-separated tags")
	flag.BoolVar(&req.Path.GIF, "gif", false, "request a gif")
	flag.StringVar(&req.Path.Text, "says", "", "caption text")
	flag.StringVar(&kind, "type", "", "image type (xsmall, small, medium, square)")
	flag.IntVar(&req.Query.Width, "width", 0, "width in pixels")
	flag.IntVar(&req.Query.Height, "height", 0, "height in pixels")
	flag.StringVar(&fit, "fit", "", "resize fit")
	flag.StringVar(&position, "position", "", "crop position")
	flag.StringVar(&filter, "filter", "", "filter (mono, negate, custom)")
	flag.IntVar(&req.Query.FontSize, "font-size", 0, "caption font size")
	flag.StringVar(&req.Query.FontColor, "font-color", "", "caption font colour")
	flag.BoolVar(&req.Query.HTML, "html", false, "request the html card")
	flag.BoolVar(&req.Query.JSON, "json", false, "request the json record")
	flag.Parse()

	if *printURL {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				req.Path.Tags = append(req.Path.Tags, tag)
			}
		}
		req.Query.Type = cataas.Type(kind)
		req.Query.Fit = cataas.Fit(fit)
		req.Query.Position = cataas.Position(position)
		req.Query.Filter = cataas.Filter(filter)

		target, err := app.PrintURL(*configPath, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cattery: %v\n", err)
			return 1
		}
		fmt.Println(target)
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath, PrefsPath: *prefsPath}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "cattery: %v\n", err)
		return 1
	}
	return 0
}
