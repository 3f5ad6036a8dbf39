package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wasmpipe/wasmpipe/channel"
	"github.com/wasmpipe/wasmpipe/engine"
	"github.com/wasmpipe/wasmpipe/frame"
	"github.com/wasmpipe/wasmpipe/host"
)

func main() {
	var (
		strArg      = flag.String("arg", "", "Request string (default: read stdin)")
		rows        = flag.Int("rows", 0, "Emit N data rows instead of echoing")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		debug       = flag.Bool("debug", false, "Log channel traffic")
	)
	flag.Parse()

	if *debug {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		host.SetLogger(logger)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -i requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*strArg, *rows); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run drives one request/response cycle over an in-process channel and
// prints the decoded output, showing the full handshake a host performs
// against a real guest.
func run(strArg string, rows int) error {
	ch := channel.New()
	stream := channel.NewStream(ch)
	eng := engine.New(stream, stream)

	if rows > 0 {
		if err := eng.Rows(rows); err != nil {
			return fmt.Errorf("emit rows: %w", err)
		}
	} else {
		request := []byte(strArg)
		if strArg == "" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			request = data
		}
		if len(request) > channel.Capacity {
			return fmt.Errorf("request of %d bytes exceeds buffer capacity %d", len(request), channel.Capacity)
		}

		copy(ch.Input().Data(), request)
		if err := ch.SignalInputReady(uint32(len(request))); err != nil {
			return fmt.Errorf("signal input: %w", err)
		}
		if err := eng.Echo(); err != nil {
			return fmt.Errorf("echo: %w", err)
		}
	}

	if !ch.HasOutput() {
		return fmt.Errorf("engine produced no output")
	}

	msgs, err := frame.Parse(ch.Output().Bytes())
	if err != nil {
		return fmt.Errorf("parse output: %w", err)
	}
	ch.AcknowledgeOutput()

	for _, msg := range msgs {
		fmt.Printf("%c %q\n", msg.Tag, msg.Payload)
	}

	ctl := ch.Control()
	fmt.Printf("\n%d message(s), %d bytes read, %d bytes written, operation %s\n",
		len(msgs), ctl.TotalRead(), ctl.TotalWritten(), ctl.Operation())
	return nil
}
