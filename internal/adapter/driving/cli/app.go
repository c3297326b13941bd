package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/diillson/consumption-fraud-go/internal/domain/repository"
	"github.com/diillson/consumption-fraud-go/internal/shared/types"
	"github.com/diillson/consumption-fraud-go/pkg/version"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// Scorer executa uma pontuação completa a partir dos argumentos resolvidos.
type Scorer interface {
	RunScoring(ctx context.Context, args *types.CLIArgs) error
}

// ScorerFactory monta o Scorer depois que flags e arquivo de configuração foram
// resolvidos, já que classificador, perfil AWS e nível de log dependem deles.
type ScorerFactory func(ctx context.Context, args *types.CLIArgs) (Scorer, error)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd      *cobra.Command
	configRepo   repository.ConfigRepository
	factory      ScorerFactory
	version      string
	checkUpdates bool
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string, configRepo repository.ConfigRepository) *CLIApp {
	app := &CLIApp{
		version:      versionStr,
		configRepo:   configRepo,
		checkUpdates: true,
	}

	rootCmd := &cobra.Command{
		Use:           "fraud-verdict",
		Short:         "Score client consumption histories for fraud",
		Version:       version.FormatVersion(),
		RunE:          app.runCommand,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{printf "Consumption Fraud Verdict version: %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.StringSliceP("input", "i", nil, "Record sources: local .csv/.json/.jsonl/.yaml files, s3://bucket/key or sqlite:///path.db?table=name (repeatable)")
	flags.String("mode", types.ModeBatch, "Scoring mode: batch (one call, statistics across all clients) or isolated (one call per client)")
	flags.Int("concurrency", 4, "Concurrent classifier calls in isolated mode")
	flags.String("model-url", "", "Base URL of the TensorFlow Serving REST endpoint, e.g. http://localhost:8501")
	flags.String("model-name", "fraud_lstm", "Model name on the serving endpoint")
	flags.Int("model-timeout", 30, "Classifier request timeout in seconds")
	flags.Bool("probe-model", false, "Read the model input shape from the serving metadata before scoring")
	flags.StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	flags.StringSliceP("report-type", "y", []string{"csv"}, "Specify report types: csv, json, pdf")
	flags.StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	flags.String("upload", "", "Upload produced reports to s3://bucket/prefix")
	flags.String("audit-log-group", "", "CloudWatch Logs group that receives one event per verdict")
	flags.StringP("profile", "p", "", "AWS profile for S3, STS and CloudWatch Logs")
	flags.StringP("region", "r", "", "AWS region override")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

// SetScorerFactory define como o caso de uso é montado.
func (app *CLIApp) SetScorerFactory(factory ScorerFactory) {
	app.factory = factory
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs(cmd *cobra.Command) *types.CLIArgs {
	flags := cmd.Flags()
	args := &types.CLIArgs{}
	args.ConfigFile, _ = flags.GetString("config-file")
	args.Inputs, _ = flags.GetStringSlice("input")
	args.Mode, _ = flags.GetString("mode")
	args.Concurrency, _ = flags.GetInt("concurrency")
	args.ModelURL, _ = flags.GetString("model-url")
	args.ModelName, _ = flags.GetString("model-name")
	args.ModelTimeout, _ = flags.GetInt("model-timeout")
	args.ProbeModel, _ = flags.GetBool("probe-model")
	args.ReportName, _ = flags.GetString("report-name")
	args.ReportType, _ = flags.GetStringSlice("report-type")
	args.Dir, _ = flags.GetString("dir")
	args.Upload, _ = flags.GetString("upload")
	args.AuditLogGroup, _ = flags.GetString("audit-log-group")
	args.Profile, _ = flags.GetString("profile")
	args.Region, _ = flags.GetString("region")
	args.LogLevel, _ = flags.GetString("log-level")
	return args
}

// resolveArgs junta flags e arquivo de configuração e valida o resultado.
func (app *CLIApp) resolveArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	args := app.parseArgs(cmd)

	if args.ConfigFile != "" {
		cfg, err := app.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return nil, err
		}
		args.Merge(cfg, cmd.Flags().Changed)
	}

	if len(args.Inputs) == 0 {
		return nil, types.ErrNoSourcesGiven
	}
	if args.ModelURL == "" {
		return nil, types.ErrNoClassifierConfig
	}
	if args.Mode != types.ModeBatch && args.Mode != types.ModeIsolated {
		return nil, fmt.Errorf("invalid --mode %q: use %s or %s", args.Mode, types.ModeBatch, types.ModeIsolated)
	}
	if args.Concurrency < 1 {
		return nil, fmt.Errorf("--concurrency must be at least 1, got %d", args.Concurrency)
	}

	if args.Dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		args.Dir = cwd
	} else {
		absDir, err := filepath.Abs(args.Dir)
		if err != nil {
			return nil, err
		}
		args.Dir = absDir
	}

	return args, nil
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, _ []string) error {
	displayWelcomeBanner(app.version)

	if app.checkUpdates {
		go checkLatestVersion(cmd.Context(), app.version)
	}

	cliArgs, err := app.resolveArgs(cmd)
	if err != nil {
		return err
	}

	if app.factory == nil {
		return fmt.Errorf("no scorer configured")
	}
	scorer, err := app.factory(cmd.Context(), cliArgs)
	if err != nil {
		return err
	}

	return scorer.RunScoring(cmd.Context(), cliArgs)
}

// checkLatestVersion avisa quando há uma release mais nova.
func checkLatestVersion(ctx context.Context, currentVersion string) {
	client := &http.Client{Timeout: 3 * time.Second}
	if latest, ok := version.LatestRelease(ctx, client, version.ReleasesURL, currentVersion); ok {
		pterm.Warning.Println(fmt.Sprintf("A new version of Consumption Fraud Verdict is available: %s", latest))
		pterm.Info.Println("Please update using: go install github.com/diillson/consumption-fraud-go/cmd/fraud-verdict@latest")
	}
}
