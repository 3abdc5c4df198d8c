package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kokistudios/ujv/internal/config"
	"github.com/kokistudios/ujv/internal/diagram"
	"github.com/kokistudios/ujv/internal/expand"
	"github.com/kokistudios/ujv/internal/journey"
	ujvmcp "github.com/kokistudios/ujv/internal/mcp"
	"github.com/kokistudios/ujv/internal/render"
	"github.com/kokistudios/ujv/internal/ui"
	"github.com/kokistudios/ujv/internal/validate"
)

// Set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var errValidationFailed = errors.New("validation failed")

// configPath is bound to the persistent --config flag.
var configPath string

func buildVersion() string {
	if commit == "none" {
		return version
	}
	return fmt.Sprintf("%s (%s, %s)", version, commit, date)
}

func main() {
	var noColor, verbose bool

	rootCmd := &cobra.Command{
		Use:   "ujv",
		Short: "ujv — User Journey Visualiser",
		Long:  "Compile user journey markdown (persona, events, capabilities) into a validated model and a flowchart page.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ui.Init(noColor, verbose)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Version = buildVersion()
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.FileName, "Path to the ujv config file")

	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "Core Commands:"},
		&cobra.Group{ID: "inspect", Title: "Inspection Commands:"},
		&cobra.Group{ID: "config", Title: "Configuration:"},
	)

	for _, c := range []*cobra.Command{validateCmd(), renderCmd()} {
		c.GroupID = "core"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{parseCmd(), diagramCmd(), expandCmd(), showCmd()} {
		c.GroupID = "inspect"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{initCmd(), configCmd()} {
		c.GroupID = "config"
		rootCmd.AddCommand(c)
	}
	rootCmd.AddCommand(completionCmd())
	rootCmd.AddCommand(mcpServeCmd())

	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError prints a command failure. Validation failures were already
// listed by runValidation.
func reportError(err error) {
	if errors.Is(err, errValidationFailed) {
		return
	}
	ui.Error(err.Error())
}

// stateLabel colours a capability state for terminal tables.
func stateLabel(st journey.State) string {
	switch st {
	case journey.StateInProduction:
		return ui.Green(string(st))
	case journey.StateInDevelopment, journey.StateReleaseCandidate:
		return ui.Yellow(string(st))
	case journey.StateNotStarted:
		return ui.Dim(string(st))
	default:
		return ui.Red(fmt.Sprintf("%q", string(st)))
	}
}

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

// loadJourney expands and parses the document at path.
func loadJourney(cfg config.Config, path string) (*journey.Journey, error) {
	text, err := expand.New(cfg).ExpandFile(path)
	if err != nil {
		return nil, err
	}
	return journey.Parse(text), nil
}

// runValidation validates path and reports the outcome. It returns
// errValidationFailed when any diagnostic was found.
func runValidation(cfg config.Config, path string) error {
	diags, err := validate.New(cfg).ValidateMainDocument(path)
	if err != nil {
		return err
	}
	if len(diags) > 0 {
		ui.Problems("Validation FAILED with the following issues:", validate.Strings(diags))
		return errValidationFailed
	}
	ui.Success(validate.SuccessMessage)
	return nil
}

func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:     "init [dir]",
		Short:   "Write a default ujv.yaml",
		Long:    "Create a ujv.yaml with the default capabilities and output directory names in dir (default: current directory).",
		Example: "  ujv init\n  ujv init docs --force",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			path, err := config.Init(dir, force)
			if err != nil {
				return err
			}
			ui.Success("Config written")
			ui.Detail("Path:", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "validate <journey.md>",
		Short:   "Check a journey and its capability fragments",
		Long:    "Validate section order, event field lines, capability references and every referenced capability fragment. Exits non-zero when issues are found.",
		Example: "  ujv validate journey.md",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ui.Info(fmt.Sprintf("Validating %s...", ui.Bold(args[0])))
			return runValidation(cfg, args[0])
		},
	}
}

func renderCmd() *cobra.Command {
	var (
		output string
		force  bool
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "render <journey.md>",
		Short: "Render a journey to an HTML flowchart page",
		Long:  "Expand capability references, parse the journey and write an HTML page with the flowchart. The page goes to <output_dir>/<name>.html unless -o is given.",
		Example: `  ujv render journey.md
  ujv render journey.md -o site/index.html --force
  ujv render journey.md --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			doc := args[0]
			if strict {
				if err := runValidation(cfg, doc); err != nil {
					return err
				}
			}

			j, err := loadJourney(cfg, doc)
			if err != nil {
				return err
			}
			d := diagram.Compile(j)

			r, err := render.New(cfg.Template)
			if err != nil {
				return err
			}

			if output == "" {
				output = cfg.OutputPath(doc)
			}
			if _, err := os.Stat(output); err == nil && !force {
				ok, err := ui.Confirm(fmt.Sprintf("%s exists. Overwrite?", output))
				if err != nil {
					return fmt.Errorf("cannot confirm overwrite (use --force): %w", err)
				}
				if !ok {
					ui.Warning("Render cancelled")
					return nil
				}
			}

			if err := r.WriteFile(output, j, d); err != nil {
				return err
			}
			ui.Logger.Info("Page written", "path", output, "events", len(j.Events), "capabilities", j.CapabilityCount())
			ui.Success(fmt.Sprintf("User journey visualisation written to %s", output))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output HTML file")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite the output file without asking")
	cmd.Flags().BoolVar(&strict, "strict", false, "Validate before rendering and stop on issues")
	return cmd
}

func parseCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "parse <journey.md>",
		Short:   "Print the parsed journey model",
		Example: "  ujv parse journey.md\n  ujv parse journey.md --format json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			j, err := loadJourney(cfg, args[0])
			if err != nil {
				return err
			}
			var data []byte
			switch format {
			case "yaml":
				data, err = yaml.Marshal(j)
			case "json":
				data, err = json.MarshalIndent(j, "", "  ")
				data = append(data, '\n')
			default:
				return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
			}
			if err != nil {
				return fmt.Errorf("failed to marshal journey: %w", err)
			}
			fmt.Print(string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or json")
	return cmd
}

func diagramCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagram <journey.md>",
		Short: "Print the mermaid flowchart source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			j, err := loadJourney(cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Println(diagram.Compile(j).String())
			return nil
		},
	}
}

func expandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expand <journey.md>",
		Short: "Print the journey with capability references inlined",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			text, err := expand.New(cfg).ExpandFile(args[0])
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <journey.md>",
		Short: "Render a journey summary in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			j, err := loadJourney(cfg, args[0])
			if err != nil {
				return err
			}
			ui.CommandBanner("show", filepath.Base(args[0]))
			ui.RenderMarkdown(j.Markdown())

			ui.SectionHeader("States")
			counts := j.StateCounts()
			var rows [][]string
			for _, st := range journey.States {
				rows = append(rows, []string{stateLabel(st), fmt.Sprintf("%d", counts[st])})
				delete(counts, st)
			}
			for st, n := range counts {
				rows = append(rows, []string{stateLabel(st), fmt.Sprintf("%d", n)})
			}
			ui.Table([]string{"STATE", "CAPABILITIES"}, rows)
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and edit ujv configuration",
	}
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configSetCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			source := configPath
			if _, err := os.Stat(configPath); err != nil {
				source = "defaults"
			}
			template := cfg.Template
			if template == "" {
				template = ui.Dim("(built-in)")
			}
			ui.SectionHeader("Configuration")
			ui.KeyValue("capabilities_dir:", cfg.CapabilitiesDir)
			ui.KeyValue("output_dir:      ", cfg.OutputDir)
			ui.KeyValue("template:        ", template)
			ui.Detail("Source:", ui.Dim(source))
			return nil
		},
	}
}

func configSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Set a ujv configuration value in the config file. Valid keys: capabilities_dir, output_dir, template.",
		Example: `  ujv config set capabilities_dir fragments
  ujv config set output_dir site`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Save(configPath); err != nil {
				return err
			}
			ui.Success(fmt.Sprintf("Set %s = %s", args[0], args[1]))
			return nil
		},
	}
}

func completionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish]",
		Short:     "Generate shell completion scripts",
		Long:      "Generate shell completion scripts for bash, zsh, or fish. Output the script to stdout for sourcing in your shell profile.",
		Example:   "  ujv completion bash > ~/.bashrc.d/ujv\n  ujv completion zsh > ~/.zfunc/_ujv",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			default:
				return fmt.Errorf("unsupported shell: %s (use bash, zsh, or fish)", args[0])
			}
		},
	}
}

func mcpServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "mcp-serve",
		Short:  "Run ujv as an MCP server",
		Long:   "Start ujv as a Model Context Protocol (MCP) server over stdio, exposing validate, parse and diagram tools.",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			server := ujvmcp.NewServer(cfg, version)
			return server.Run(context.Background())
		},
	}
}
