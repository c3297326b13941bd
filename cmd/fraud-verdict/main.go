package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diillson/consumption-fraud-go/internal/adapter/driven/aws"
	"github.com/diillson/consumption-fraud-go/internal/adapter/driven/classifier"
	"github.com/diillson/consumption-fraud-go/internal/adapter/driven/config"
	"github.com/diillson/consumption-fraud-go/internal/adapter/driven/export"
	"github.com/diillson/consumption-fraud-go/internal/adapter/driven/records"
	"github.com/diillson/consumption-fraud-go/internal/adapter/driving/cli"
	"github.com/diillson/consumption-fraud-go/internal/application/usecase"
	"github.com/diillson/consumption-fraud-go/internal/shared/types"
	"github.com/diillson/consumption-fraud-go/pkg/console"
	"github.com/diillson/consumption-fraud-go/pkg/logging"
	"github.com/diillson/consumption-fraud-go/pkg/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewCLIApp(version.Version, config.NewConfigRepository())
	app.SetScorerFactory(buildScorer)

	if err := app.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// buildScorer monta os repositórios a partir dos argumentos resolvidos.
func buildScorer(ctx context.Context, args *types.CLIArgs) (cli.Scorer, error) {
	logger := logging.NewLogger(args.LogLevel)
	consoleImpl := console.NewConsole()

	awsRepo := aws.NewAWSRepository(args.Profile, args.Region)

	model := classifier.NewTFServingClassifier(args.ModelURL, args.ModelName, time.Duration(args.ModelTimeout)*time.Second)
	if args.ProbeModel {
		shape, err := model.Probe(ctx)
		if err != nil {
			return nil, err
		}
		logger.Debug("probed model", "model", model.Name(), "input_shape", shape.String())
	}

	return usecase.NewScoringUseCase(
		records.NewRecordRepository(awsRepo),
		model,
		export.NewExportRepository(),
		usecase.CloudServices{
			Storage:  awsRepo,
			Identity: awsRepo,
			Audit:    awsRepo,
		},
		consoleImpl,
		logger,
	), nil
}
