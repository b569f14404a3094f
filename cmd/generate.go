package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/gitcz/internal/commitmsg"
	"github.com/gitcz/internal/logging"
)

// GenerateCommand returns the command that writes a commit message for the
// current changes to stdout without starting a server
func GenerateCommand() *cli.Command {
	return &cli.Command{
		Name:   "generate",
		Usage:  "Print a commit message for the pending git changes",
		Action: runGenerate,
	}
}

func runGenerate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	gen, err := buildGenerator(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	inv := logging.StartInvocation(commitmsg.ToolName)
	frags, err := gen.Generate(inv.Logger.WithContext(ctx), commitmsg.ToolName, nil)
	if err != nil {
		inv.Done(0, 0, err)
		return err
	}

	out := c.App.Writer
	count := 0
	text, err := commitmsg.Collect(frags, func(f commitmsg.Fragment) error {
		count++
		_, err := fmt.Fprint(out, f.Text)
		return err
	})
	inv.Done(count, len(text), err)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	return nil
}
