package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"bonsaichat-backend/internal/logging"
	"bonsaichat-backend/pkg/widget"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "chatwidget",
		Short: "A terminal client for the bonsai chat relay",
		Long: `chatwidget talks to a running chat relay server the same way the
embedded web widget does: it fetches a bootstrap nonce, then relays each line
you type. Use /open and /close to toggle the window and /quit to leave.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL, _ := cmd.Flags().GetString("server")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			logLevel, _ := cmd.Flags().GetString("log-level")

			logging.InitWithWriter(logLevel, false, cmd.ErrOrStderr())
			return runWidget(cmd.Context(), serverURL, timeout, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	rootCmd.Flags().StringP("server", "s", "http://localhost:8080", "Base URL of the chat relay server")
	rootCmd.Flags().Duration("timeout", widget.DefaultSendTimeout, "Client-side limit for each message")
	rootCmd.Flags().String("log-level", "warn", "Log level for diagnostics on stderr")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runWidget(ctx context.Context, serverURL string, timeout time.Duration, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	client := &http.Client{Timeout: timeout}

	bootCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	boot, err := widget.FetchBootstrap(bootCtx, client, serverURL)
	cancel()
	if err != nil {
		return errors.Wrap(err, "could not reach the chat server")
	}

	renderer := &terminalRenderer{out: out}
	w := widget.New(
		widget.NewHTTPTransport(client, boot.ChatURL, boot.Nonce),
		renderer,
		boot.WelcomeMessage,
		widget.WithSendTimeout(timeout),
		// The terminal keeps input focus on its own.
		widget.WithScheduler(func(time.Duration, func()) {}),
	)
	w.Open()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			w.Wait()
			return nil
		case "/open":
			w.Open()
			continue
		case "/close":
			w.Close()
			continue
		}

		if w.Visibility() == widget.Closed {
			renderer.hint("chat is closed, type /open first")
			continue
		}
		renderer.echo(line)
		if !w.Submit(line) {
			renderer.hint("still waiting for the previous reply")
		}
	}

	w.Wait()
	return errors.Wrap(scanner.Err(), "reading input")
}
