// Package main provides the flowcanvas command line tool for inspecting
// workflow snapshots offline.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dukex/flowcanvas/pkg/catalog"
	"github.com/dukex/flowcanvas/pkg/graph"
	"github.com/dukex/flowcanvas/pkg/log"
	"github.com/dukex/flowcanvas/pkg/models"
	"github.com/dukex/flowcanvas/pkg/validation"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

var (
	ErrWorkflowHasProblems = errors.New("workflow has problems")
	ErrUnsupportedFormat   = errors.New("unsupported format")
	ErrMissingFile         = errors.New("a snapshot file is required")
)

// NewCommand builds the CLI. Output goes to out.
func NewCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:                  "flowcanvas",
		Usage:                 "Inspect and validate workflow snapshots",
		EnableShellCompletion: true,
		Writer:                out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			log.Setup(command.String("log-level"))

			return ctx, nil
		},
		Commands: []*cli.Command{
			catalogCommand(),
			validateCommand(),
			exportCommand(),
		},
	}
}

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"c"},
		Usage:   "List the node kinds a canvas can place",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text, json, yaml)",
				Value:   "text",
			},
		},
		Action: func(_ context.Context, command *cli.Command) error {
			templates := catalog.Templates()
			out := command.Root().Writer

			switch command.String("format") {
			case "text":
				return printCatalog(out, templates)
			case "json":
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")

				return encoder.Encode(templates)
			case "yaml":
				return yaml.NewEncoder(out).Encode(templates)
			default:
				return fmt.Errorf("%w: %s", ErrUnsupportedFormat, command.String("format"))
			}
		},
	}
}

func printCatalog(out io.Writer, templates []catalog.Template) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "CATEGORY\tSUBTYPE\tLABEL\tINPUTS\tOUTPUTS")

	for _, template := range templates {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			template.Category,
			template.Subtype,
			template.Label,
			portList(template.Inputs),
			portList(template.Outputs))
	}

	return w.Flush()
}

func portList(ports []models.Port) string {
	if len(ports) == 0 {
		return "-"
	}

	names := make([]string, 0, len(ports))
	for _, port := range ports {
		names = append(names, fmt.Sprintf("%s(%s)", port.ID, port.Kind))
	}

	return strings.Join(names, ",")
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"v"},
		Usage:     "Check a workflow snapshot and list its problems",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "allow-multiple-triggers",
				Usage: "Accept workflows with more than one trigger",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := log.WithModule("cli")
			out := command.Root().Writer

			snapshot, store, err := loadFile(command.Args().First())
			if err != nil {
				return err
			}

			policy := validation.DefaultPolicy()
			policy.AllowMultipleTriggers = command.Bool("allow-multiple-triggers")

			problems := validation.New(policy).Validate(store)
			logger.DebugContext(ctx, "Workflow validated", "workflow_id", snapshot.ID, "problems", len(problems))

			if len(problems) == 0 {
				fmt.Fprintf(out, "%s: ok\n", snapshot.Name)

				return nil
			}

			for _, problem := range problems {
				fmt.Fprintln(out, problem.String())
			}

			if validation.Blocking(problems) {
				return fmt.Errorf("%w: %d found", ErrWorkflowHasProblems, len(problems))
			}

			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Aliases:   []string{"e"},
		Usage:     "Re-encode a workflow snapshot",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (json, yaml)",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to this file instead of standard output",
			},
		},
		Action: func(_ context.Context, command *cli.Command) error {
			snapshot, _, err := loadFile(command.Args().First())
			if err != nil {
				return err
			}

			var data []byte

			switch command.String("format") {
			case "json":
				data, err = snapshot.EncodeJSON()
			case "yaml":
				data, err = snapshot.EncodeYAML()
			default:
				return fmt.Errorf("%w: %s", ErrUnsupportedFormat, command.String("format"))
			}

			if err != nil {
				return err
			}

			if path := command.String("output"); path != "" {
				return os.WriteFile(path, data, 0o600)
			}

			_, err = command.Root().Writer.Write(data)

			return err
		},
	}
}

// loadFile reads a JSON or YAML snapshot and rebuilds its graph. Snapshots
// that break the graph invariants are refused.
func loadFile(path string) (*models.Snapshot, *graph.Store, error) {
	if path == "" {
		return nil, nil, ErrMissingFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var document any
		if err := yaml.Unmarshal(data, &document); err != nil {
			return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		if data, err = json.Marshal(document); err != nil {
			return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	snapshot, err := models.DecodeSnapshot(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	store, err := graph.Load(snapshot)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	return snapshot, store, nil
}
