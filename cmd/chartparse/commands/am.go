package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/chartparse/am"
	"github.com/teranos/chartparse/display"
	"github.com/teranos/chartparse/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage chartparse configuration",
	Long: `am - Manage chartparse configuration ("I am")

Configuration sources (in order of precedence):
1. Environment variables (CHARTPARSE_* prefix)
2. Project config (./am.toml, searched upward)
3. User config (~/.chartparse/am.toml)
4. System config (/etc/chartparse/am.toml)
5. Default values

Examples:
  chartparse am show                    # Show current configuration
  chartparse am show --format yaml      # Show configuration in YAML format
  chartparse am where                   # Show where each setting comes from
  chartparse am validate                # Validate current configuration
  chartparse am set parser.budget_ms 500`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runAmShow,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where each setting is loaded from",
	RunE:  runAmWhere,
}

var amSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write a setting to the project or user am.toml",
	Long: `Write one setting using dot notation. The file is backed up first.

Without --user the project am.toml is updated, or created in the current
directory when none exists.`,
	Args: cobra.ExactArgs(2),
	RunE: runAmSet,
}

var (
	configFormat string
	amSetUser    bool
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amSetCmd.Flags().BoolVar(&amSetUser, "user", false, "Write to ~/.chartparse/am.toml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
	AmCmd.AddCommand(amSetCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	data, err := am.Marshal(cfg)
	if err != nil {
		return err
	}

	format := configFormat
	if display.ShouldOutputJSON(cmd) {
		format = "json"
	}

	switch format {
	case "toml":
		fmt.Fprintf(cmd.OutOrStdout(), "# chartparse configuration\n%s", data)
		return nil
	case "json", "yaml":
	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}

	var doc map[string]interface{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(err, "failed to decode configuration")
	}
	if format == "json" {
		return display.OutputJSON(doc)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config to YAML")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "# chartparse configuration\n%s", out)
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	pterm.Success.Println("Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	intro, err := am.GetConfigIntrospection()
	if err != nil {
		return errors.Wrap(err, "failed to get config introspection")
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(intro)
	}

	pterm.DefaultSection.Println("Configuration cascade (later overrides earlier)")
	pterm.Println("  1. [DEFAULT]     Built-in defaults")
	pterm.Println("  2. [SYSTEM]      /etc/chartparse/am.toml")
	pterm.Printfln("  3. [USER]        %s", filepath.Join(am.UserConfigDir(), am.ConfigFileName))
	pterm.Println("  4. [PROJECT]     ./am.toml (searches up directories)")
	pterm.Printfln("  5. [ENVIRONMENT] %s_* environment variables", am.EnvPrefix)
	pterm.Println()

	settings := append([]am.SettingInfo(nil), intro.Settings...)
	sort.SliceStable(settings, func(i, j int) bool { return settings[i].Key < settings[j].Key })

	data := pterm.TableData{{"Key", "Value", "Source", "From"}}
	for _, s := range settings {
		data = append(data, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	var counts []string
	for src, n := range am.GetConfigSummary() {
		counts = append(counts, fmt.Sprintf("%s=%d", src, n))
	}
	sort.Strings(counts)
	pterm.Info.Printfln("Settings by source: %s", strings.Join(counts, ", "))
	return nil
}

func runAmSet(cmd *cobra.Command, args []string) error {
	path, err := setTarget()
	if err != nil {
		return err
	}

	if err := am.SetValue(path, args[0], typedValue(args[1])); err != nil {
		return err
	}

	// Validate what the merged configuration looks like now
	am.Reset()
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "setting written but configuration no longer loads")
	}
	if err := cfg.Validate(); err != nil {
		return errors.WithHintf(errors.Wrap(err, "setting written but configuration is invalid"),
			"Backup kept next to %s", path)
	}

	pterm.Success.Printfln("%s = %s (%s)", args[0], args[1], path)
	return nil
}

func setTarget() (string, error) {
	if amSetUser {
		dir := am.UserConfigDir()
		if dir == "" {
			return "", errors.New("cannot determine home directory")
		}
		return filepath.Join(dir, am.ConfigFileName), nil
	}
	// a broken file still has to be found so it can be fixed
	_, _ = am.Load()
	if p := am.ProjectConfigPath(); p != "" {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "failed to get working directory")
	}
	return filepath.Join(wd, am.ConfigFileName), nil
}

// typedValue keeps integers and booleans typed in the written TOML.
func typedValue(s string) interface{} {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
