package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/immedipaste/internal/config"
)

type configCmd struct {
	*root
	fs      *flag.FlagSet
	program string
	path    string
	stdout  io.Writer
}

func (c *configCmd) Program() string        { return c.program }
func (c *configCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r, fs: fs, program: r.subProgram("config"), stdout: os.Stdout}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.path, "path", "", "file to save to (defaults to the loaded file or the user config path)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		_, err := fmt.Fprint(c.stdout, c.config.String())
		return err
	case "save":
		return c.runSave()
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func (c *configCmd) runSave() error {
	path := c.path
	if path == "" {
		path = config.NewLoader(version, c.configPath).GetConfigPath()
	}
	if path == "" {
		path = config.UserConfigPath()
	}
	if err := config.Save(c.config, path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
	return nil
}
