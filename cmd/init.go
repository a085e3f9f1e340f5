package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmurray2011/cwlogs/internal/cloudwatch"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize cwlogs configuration",
	Long: `Create a default configuration file at ~/.cwlogs.yaml.

Global flags given to init (--profile, --region, --role-arn, --mfa-serial,
--output) are written into the file.

Examples:
  # Create default config (won't overwrite existing)
  cwlogs init

  # Start from a profile and region
  cwlogs init -p prod -r us-east-1

  # Force overwrite existing config
  cwlogs init --force`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing config file")
}

// fileConfig is the layout of ~/.cwlogs.yaml.
type fileConfig struct {
	Profile       string `yaml:"profile,omitempty"`
	Region        string `yaml:"region"`
	RoleARN       string `yaml:"role_arn,omitempty"`
	MFASerial     string `yaml:"mfa_serial,omitempty"`
	Output        string `yaml:"output"`
	DisplayOffset string `yaml:"display_offset"`
	Verbose       bool   `yaml:"verbose"`
}

func runInit(cmd *cobra.Command, args []string) error {
	app := GetApp(cmd)

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configPath := filepath.Join(home, ".cwlogs.yaml")
	if cfgFile != "" {
		configPath = cfgFile
	}

	content, err := generateDefaultConfig(app.Config)
	if err != nil {
		return err
	}

	created, err := createFileIfNotExists(configPath, content, initForce)
	if err != nil {
		return err
	}
	if !created {
		app.Render.Warning("%s already exists (use --force to overwrite)", configPath)
		return nil
	}

	app.Render.Success("Created %s", configPath)
	app.Render.Info("Edit it to customize your settings.")
	return nil
}

// generateDefaultConfig renders the config file for cfg, filling unset
// values with the defaults.
func generateDefaultConfig(cfg Config) ([]byte, error) {
	fc := fileConfig{
		Profile:       cfg.Profile,
		Region:        cfg.Region,
		RoleARN:       cfg.RoleARN,
		MFASerial:     cfg.MFASerial,
		Output:        cfg.OutputFormat,
		DisplayOffset: cfg.DisplayOffset,
		Verbose:       cfg.Verbose,
	}
	if fc.Region == "" {
		fc.Region = cloudwatch.DefaultRegion
	}
	if fc.Output == "" {
		fc.Output = "text"
	}
	if fc.DisplayOffset == "" {
		fc.DisplayOffset = defaultDisplayOffset
	}

	body, err := yaml.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("failed to render config: %w", err)
	}

	header := `# cwlogs configuration
#
# Keys can be overridden with flags or CWLOGS_ environment variables.
#   profile, region        AWS credentials and region
#   role_arn, mfa_serial   role to assume (MFA code is read from stdin)
#   output                 groups/streams output: text, json, csv
#   display_offset         zone for time flags and prefixes, e.g. "+09:00"

`
	return append([]byte(header), body...), nil
}

// createFileIfNotExists writes content to path unless the file exists and
// force is false. It reports whether the file was written.
func createFileIfNotExists(path string, content []byte, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}

	// Create parent directory if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, content, 0600); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return true, nil
}
