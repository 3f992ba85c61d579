package main

import (
	"bytes"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/tinyrange/lightgui/internal/app"
	"github.com/tinyrange/lightgui/internal/toolkit"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var flags app.Flags
	flags.Register(fs)

	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}

	ctx, err := app.Start(flags, os.Stderr)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer ctx.Terminate()

	if err := buildForm(ctx); err != nil {
		log.Fatalf("form: %v", err)
	}

	ctx.Run()
}

func buildForm(ctx *toolkit.Context) error {
	w, err := ctx.CreateWindow("lightgui demo", 360, 160, false)
	if err != nil {
		return err
	}

	if _, err := ctx.CreateLabel(w, "Name:", 20, 24, 60, 24); err != nil {
		return err
	}
	name, err := ctx.CreateTextField(w, "", 90, 20, 160, 28)
	if err != nil {
		return err
	}
	greet, err := ctx.CreateButton(w, "Greet", 260, 20, 80, 28)
	if err != nil {
		return err
	}
	result, err := ctx.CreateLabel(w, "", 20, 70, 320, 24)
	if err != nil {
		return err
	}
	ctx.SetWidgetTextColor(result, toolkit.Blue)

	ctx.SetWindowEventCallback(w, toolkit.SinkFunc(func(ev toolkit.Event) {
		switch ev.Kind {
		case toolkit.WidgetActivated:
			if ev.Activation.Widget != greet {
				return
			}
			buf := make([]byte, 128)
			n := ctx.GetWidgetText(name, buf)
			text := string(bytes.TrimSpace(buf[:max(n, 0)]))
			if text == "" {
				text = "stranger"
			}
			ctx.SetWidgetText(result, "Hello, "+text+"!")
			w.Invalidate()
		case toolkit.WindowResize:
			slog.Debug("resized", "width", ev.Resize.Width, "height", ev.Resize.Height)
		case toolkit.WindowClose:
			ctx.Quit()
		}
	}))

	ctx.ShowWindow(w)
	return nil
}
