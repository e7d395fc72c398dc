package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/jlong/planit/pkg/iojson"
)

type ConfigCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewConfigCmd creates a new config command
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config command to the application
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "config",
		Usage:     "Inspect planit configuration",
		UsageText: "planit config <command>",
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Validate the configuration file",
				UsageText: "planit config validate [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output field errors as JSON",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runValidate,
			},
		},
	})

	return app
}

func (cmd *ConfigCmd) runValidate(ctx context.Context, c *cli.Command) error {
	err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath)
	if err == nil {
		fmt.Fprintf(c.Root().Writer, "Configuration is valid (%s)\n", cmd.flags.ConfigPath)
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if cmd.jsonOutput && errors.As(err, &fieldErrs) {
		return iojson.WriteWith(c.Root().Writer, os.Stderr, fieldErrs)
	}

	return err
}
