package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/jmurray2011/cwlogs/internal/cloudwatch"
	"github.com/jmurray2011/cwlogs/internal/logs"
	"github.com/jmurray2011/cwlogs/internal/output"
	"github.com/jmurray2011/cwlogs/internal/ui"
	"github.com/jmurray2011/cwlogs/pkg/timeutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// appContextKey is the context key for the App instance.
type appContextKey struct{}

// Config holds the resolved global settings.
type Config struct {
	Profile       string
	Region        string
	RoleARN       string
	MFASerial     string
	OutputFormat  string
	DisplayOffset string
	Verbose       bool
	NoColor       bool
	Quiet         bool
}

// LogsClient is everything the commands call on CloudWatch Logs.
// *cloudwatchlogs.Client satisfies it.
type LogsClient interface {
	logs.LogsAPI
	cloudwatch.DescribeAPI
}

// ClientFactory builds a LogsClient for a set of credentials.
type ClientFactory func(ctx context.Context, creds cloudwatch.Credentials) (LogsClient, error)

// App holds the application dependencies that can be injected for testing.
type App struct {
	Config    Config
	Render    *ui.Renderer
	Stdout    io.Writer
	NewClient ClientFactory
}

func newCloudWatchClient(ctx context.Context, creds cloudwatch.Credentials) (LogsClient, error) {
	client, err := cloudwatch.NewLogsClient(ctx, creds)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// NewApp creates a new App with default configuration from flags and viper.
func NewApp() *App {
	cfg := Config{
		Profile:       getProfile(),
		Region:        getRegion(),
		RoleARN:       viper.GetString("role_arn"),
		MFASerial:     viper.GetString("mfa_serial"),
		OutputFormat:  getOutputFormat(),
		DisplayOffset: viper.GetString("display_offset"),
		Verbose:       IsVerbose(),
		NoColor:       noColor,
		Quiet:         quiet,
	}

	return NewAppWithConfig(cfg, render, newCloudWatchClient)
}

// NewAppWithConfig creates a new App with the given configuration.
// This is primarily used for testing.
func NewAppWithConfig(cfg Config, renderer *ui.Renderer, factory ClientFactory) *App {
	if renderer == nil {
		renderer = ui.NewRendererWithOptions(ui.WithNoColor(cfg.NoColor), ui.WithQuiet(cfg.Quiet))
	}
	if factory == nil {
		factory = newCloudWatchClient
	}
	return &App{
		Config:    cfg,
		Render:    renderer,
		Stdout:    os.Stdout,
		NewClient: factory,
	}
}

// GetApp retrieves the App from the command context.
// If no App is set, it creates a new default one.
func GetApp(cmd *cobra.Command) *App {
	if ctx := cmd.Context(); ctx != nil {
		if app, ok := ctx.Value(appContextKey{}).(*App); ok {
			return app
		}
	}
	return NewApp()
}

// SetApp stores the App in the context for a command.
func SetApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appContextKey{}, app)
}

// Debugf prints a debug message if verbose mode is enabled.
func (a *App) Debugf(format string, args ...interface{}) {
	if a.Config.Verbose {
		a.Render.Debug(format, args...)
	}
}

// GetProfile returns the profile from Config or viper.
func (a *App) GetProfile() string {
	if a.Config.Profile != "" {
		return a.Config.Profile
	}
	return viper.GetString("profile")
}

// GetRegion returns the region from Config or viper.
func (a *App) GetRegion() string {
	if a.Config.Region != "" {
		return a.Config.Region
	}
	return viper.GetString("region")
}

// GetOutputFormat returns the output format from Config or viper.
func (a *App) GetOutputFormat() string {
	if a.Config.OutputFormat != "" {
		return a.Config.OutputFormat
	}
	return viper.GetString("output")
}

// Credentials returns how the CloudWatch client should authenticate.
func (a *App) Credentials() cloudwatch.Credentials {
	return cloudwatch.Credentials{
		Profile:   a.GetProfile(),
		Region:    a.GetRegion(),
		RoleARN:   a.Config.RoleARN,
		MFASerial: a.Config.MFASerial,
	}
}

// Location returns the display zone for time flags and prefixes.
func (a *App) Location() (*time.Location, error) {
	if a.Config.DisplayOffset == "" {
		return output.DefaultDisplayZone, nil
	}
	return timeutil.ParseOffset(a.Config.DisplayOffset)
}
