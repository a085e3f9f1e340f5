package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/jmurray2011/cwlogs/internal/cloudwatch"
	"github.com/jmurray2011/cwlogs/internal/logging"
	"github.com/jmurray2011/cwlogs/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// defaultDisplayOffset is the zone time flags and prefixes use unless configured.
const defaultDisplayOffset = "+09:00"

var (
	profile      string
	region       string
	roleARN      string
	mfaSerial    string
	outputFormat string
	cfgFile      string
	verbose      bool
	noColor      bool
	quiet        bool

	// render is the global renderer for all output
	render *ui.Renderer
)

var rootCmd = &cobra.Command{
	Use:   "cwlogs",
	Short: "Read CloudWatch Logs from the command line",
	Long: `cwlogs fetches log events from AWS CloudWatch Logs and writes them to stdout.

A single stream is read in order with GetLogEvents. With --filter-pattern the
group (or a set of its streams) is searched with FilterLogEvents instead.
Every page is written before the next one is requested.

Configuration:
  Create ~/.cwlogs.yaml (or run 'cwlogs init'):

    profile: my-aws-profile
    region: ap-northeast-1
    # role_arn: arn:aws:iam::123456789012:role/log-reader
    # mfa_serial: arn:aws:iam::123456789012:mfa/me
    display_offset: "+09:00"
    output: text

  Every key can also be set with a CWLOGS_ environment variable,
  e.g. CWLOGS_REGION=us-east-1.

Examples:
  # Read one stream
  cwlogs get -g /app/api -s web-1

  # Search a group for errors in the last two hours
  cwlogs get -g /app/api -f ERROR --start-time 2h

  # Find the stream to read
  cwlogs streams /app/api`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. On failure it prints the error with its
// causes and exits with status 1.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		errorRenderer().ErrorChain(err)
		os.Exit(1)
	}
}

func errorRenderer() *ui.Renderer {
	if render != nil {
		return render
	}
	return ui.NewRendererWithOptions(ui.WithNoColor(noColor || os.Getenv("NO_COLOR") != ""))
}

// SetVersion sets the version string for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

func init() {
	cobra.OnInitialize(initConfig, initRenderer, initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.cwlogs.yaml)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "AWS profile")
	rootCmd.PersistentFlags().StringVarP(&region, "region", "r", "", "AWS region (default "+cloudwatch.DefaultRegion+")")
	rootCmd.PersistentFlags().StringVar(&roleARN, "role-arn", "", "IAM role to assume with the profile's credentials")
	rootCmd.PersistentFlags().StringVar(&mfaSerial, "mfa-serial", "", "MFA device for --role-arn; the code is read from stdin")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format for groups/streams: text, json, csv")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress status messages")

	// Bind flags to viper
	_ = viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	_ = viper.BindPFlag("region", rootCmd.PersistentFlags().Lookup("region"))
	_ = viper.BindPFlag("role_arn", rootCmd.PersistentFlags().Lookup("role-arn"))
	_ = viper.BindPFlag("mfa_serial", rootCmd.PersistentFlags().Lookup("mfa-serial"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initRenderer initializes the global renderer with current settings.
func initRenderer() {
	render = ui.NewRendererWithOptions(
		ui.WithNoColor(noColor || os.Getenv("NO_COLOR") != ""),
		ui.WithQuiet(quiet),
	)
}

// initLogging routes diagnostics to stderr, at debug level in verbose mode.
func initLogging() {
	logger := logging.Default()
	logger.SetOutput(os.Stderr)
	if IsVerbose() {
		logger.SetLevel(logging.LevelDebug)
	} else {
		logger.SetLevel(logging.LevelWarn)
	}
}

// IsVerbose returns true if verbose mode is enabled
func IsVerbose() bool {
	return verbose || viper.GetBool("verbose")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".cwlogs")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("CWLOGS")
	viper.AutomaticEnv()

	setDefaults()

	// Read config file (ignore if not found, warn on other errors)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file: %v\n", err)
		}
	}
}

func setDefaults() {
	viper.SetDefault("region", cloudwatch.DefaultRegion)
	viper.SetDefault("output", "text")
	viper.SetDefault("display_offset", defaultDisplayOffset)
}

// getProfile returns the AWS profile from flags or config.
func getProfile() string {
	if profile != "" {
		return profile
	}
	return viper.GetString("profile")
}

// getRegion returns the AWS region from flags or config.
func getRegion() string {
	if region != "" {
		return region
	}
	return viper.GetString("region")
}

// getOutputFormat returns the output format from flags or config.
func getOutputFormat() string {
	if outputFormat != "" {
		return outputFormat
	}
	return viper.GetString("output")
}
