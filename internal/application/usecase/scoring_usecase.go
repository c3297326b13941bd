package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/diillson/consumption-fraud-go/internal/domain/entity"
	"github.com/diillson/consumption-fraud-go/internal/domain/repository"
	"github.com/diillson/consumption-fraud-go/internal/domain/service"
	"github.com/diillson/consumption-fraud-go/internal/shared/types"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// CloudServices agrupa os repositórios opcionais da nuvem. Campos nil desativam
// o recurso correspondente.
type CloudServices struct {
	Storage  repository.ObjectStorage
	Identity repository.IdentityRepository
	Audit    repository.AuditRepository
}

// ScoringUseCase carrega registros, pontua clientes e publica os resultados.
type ScoringUseCase struct {
	recordRepo repository.RecordRepository
	classifier repository.Classifier
	predictor  *service.Predictor
	exportRepo repository.ExportRepository
	cloud      CloudServices
	console    types.ConsoleInterface
	logger     *slog.Logger

	now      func() time.Time
	newRunID func() string
}

// NewScoringUseCase creates a new scoring use case.
func NewScoringUseCase(
	recordRepo repository.RecordRepository,
	classifier repository.Classifier,
	exportRepo repository.ExportRepository,
	cloud CloudServices,
	console types.ConsoleInterface,
	logger *slog.Logger,
) *ScoringUseCase {
	return &ScoringUseCase{
		recordRepo: recordRepo,
		classifier: classifier,
		predictor:  service.NewPredictor(classifier),
		exportRepo: exportRepo,
		cloud:      cloud,
		console:    console,
		logger:     logger,
		now:        time.Now,
		newRunID:   func() string { return uuid.NewString() },
	}
}

// RunScoring executa a pontuação completa: carga, predição, exibição, exportação,
// upload e trilha de auditoria.
func (uc *ScoringUseCase) RunScoring(ctx context.Context, args *types.CLIArgs) error {
	report, err := uc.Score(ctx, args)
	if err != nil {
		return err
	}

	uc.display(report)

	files := uc.exportReports(report, args)

	if args.Upload != "" && len(files) > 0 {
		if err := uc.uploadReports(ctx, args.Upload, files); err != nil {
			return err
		}
	}

	if args.AuditLogGroup != "" {
		if uc.cloud.Audit == nil {
			return fmt.Errorf("audit log group %s requested but no audit repository is configured", args.AuditLogGroup)
		}
		if err := uc.cloud.Audit.PublishVerdicts(ctx, args.AuditLogGroup, report); err != nil {
			return fmt.Errorf("publishing verdicts: %w", err)
		}
		uc.console.LogSuccess("Published %d verdicts to log group %s", len(report.Verdicts), args.AuditLogGroup)
	}

	return nil
}

// Score carrega todas as fontes e devolve o relatório da execução, sem efeitos externos
// além da leitura.
func (uc *ScoringUseCase) Score(ctx context.Context, args *types.CLIArgs) (entity.ScoringReport, error) {
	if len(args.Inputs) == 0 {
		return entity.ScoringReport{}, types.ErrNoSourcesGiven
	}

	mode := args.Mode
	if mode == "" {
		mode = types.ModeBatch
	}
	if mode != types.ModeBatch && mode != types.ModeIsolated {
		return entity.ScoringReport{}, fmt.Errorf("unknown mode %q: use %s or %s", mode, types.ModeBatch, types.ModeIsolated)
	}

	records, err := uc.loadAll(ctx, args.Inputs)
	if err != nil {
		return entity.ScoringReport{}, err
	}

	set, err := service.BuildSequences(records)
	if err != nil {
		return entity.ScoringReport{}, err
	}
	uc.logger.Debug("built sequences", "clients", set.Len(), "records", len(records), "mode", mode)

	var verdicts []entity.ClientVerdict
	switch mode {
	case types.ModeIsolated:
		verdicts, err = uc.scoreIsolated(ctx, set, args.Concurrency)
	default:
		status := uc.console.Status(fmt.Sprintf("Scoring %d clients with %s...", set.Len(), uc.classifier.Name()))
		verdicts, err = uc.predictor.PredictSet(ctx, set)
		status.Stop()
	}
	if err != nil {
		return entity.ScoringReport{}, err
	}

	report := entity.ScoringReport{
		RunID:        uc.newRunID(),
		AccountID:    uc.accountID(ctx),
		Sources:      args.Inputs,
		Mode:         mode,
		Model:        uc.classifier.Name(),
		GeneratedAt:  uc.now(),
		RecordCount:  len(records),
		Verdicts:     verdicts,
		ClassBalance: set.ClassBalance(),
	}
	for _, v := range verdicts {
		if v.Verdict == entity.VerdictFraudulent {
			report.Fraudulent++
		} else {
			report.Legitimate++
		}
	}
	return report, nil
}

func (uc *ScoringUseCase) loadAll(ctx context.Context, sources []string) ([]entity.RawRecord, error) {
	status := uc.console.Status("Loading records...")
	defer status.Stop()

	var all []entity.RawRecord
	for _, source := range sources {
		status.Update(fmt.Sprintf("Loading records from %s...", source))
		records, err := uc.recordRepo.LoadRecords(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("loading records from %s: %w", source, err)
		}
		uc.logger.Debug("loaded source", "source", source, "records", len(records))
		all = append(all, records...)
	}
	return all, nil
}

// scoreIsolated pontua cada cliente em uma chamada própria, com estatísticas de
// escala próprias. A ordem do resultado é a ordem do lote.
func (uc *ScoringUseCase) scoreIsolated(ctx context.Context, set *entity.SequenceSet, concurrency int) ([]entity.ClientVerdict, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	ids := set.ClientIDs()
	verdicts := make([]entity.ClientVerdict, len(ids))

	progress := uc.console.ProgressWithTotal(len(ids))
	defer progress.Stop()
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			result, err := uc.predictor.PredictSet(gctx, set.Subset(id))
			if err != nil {
				return fmt.Errorf("client %s: %w", id, err)
			}
			verdicts[i] = result[0]

			mu.Lock()
			progress.Increment()
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return verdicts, nil
}

// accountID é melhor esforço: sem credenciais o relatório sai sem conta.
func (uc *ScoringUseCase) accountID(ctx context.Context) string {
	if uc.cloud.Identity == nil {
		return ""
	}
	id, err := uc.cloud.Identity.GetAccountID(ctx)
	if err != nil {
		uc.console.LogWarning("Could not resolve AWS account ID: %s", err)
		return ""
	}
	return id
}

func (uc *ScoringUseCase) display(report entity.ScoringReport) {
	table := uc.console.CreateTable()
	table.AddColumn("Client ID")
	table.AddColumn("Records")
	table.AddColumn("Probability")
	table.AddColumn("Verdict")
	table.AddColumn("Label")

	scores := make([]types.ClientScore, 0, len(report.Verdicts))
	for _, v := range report.Verdicts {
		label := "-"
		if v.Label != nil {
			label = fmt.Sprint(*v.Label)
		}
		table.AddRow(string(v.ClientID), v.RecordCount, fmt.Sprintf("%.4f", v.Probability), v.Verdict.Sentence(), label)
		scores = append(scores, types.ClientScore{
			ClientID:    string(v.ClientID),
			Probability: v.Probability,
			Fraudulent:  v.Verdict == entity.VerdictFraudulent,
		})
	}

	uc.console.Print(table.Render())
	uc.console.DisplayProbabilityBars(scores)
	uc.console.DisplayClassBalance(report.ClassBalance)
	uc.console.LogInfo("Run %s: %d clients, %d fraudulent, %d legitimate", report.RunID, len(report.Verdicts), report.Fraudulent, report.Legitimate)
}

// exportReports devolve os caminhos gerados; falhas de um formato não impedem os demais.
func (uc *ScoringUseCase) exportReports(report entity.ScoringReport, args *types.CLIArgs) []string {
	if args.ReportName == "" || len(args.ReportType) == 0 {
		return nil
	}

	var files []string
	for _, reportType := range args.ReportType {
		var (
			file string
			err  error
		)
		switch reportType {
		case "csv":
			file, err = uc.exportRepo.ExportToCSV(report, args.ReportName, args.Dir)
		case "json":
			file, err = uc.exportRepo.ExportToJSON(report, args.ReportName, args.Dir)
		case "pdf":
			file, err = uc.exportRepo.ExportToPDF(report, args.ReportName, args.Dir)
		default:
			uc.console.LogWarning("Unknown report type '%s', skipping", reportType)
			continue
		}
		if err != nil {
			uc.console.LogError("Failed to export to %s: %s", reportType, err)
			continue
		}
		uc.console.LogSuccess("Successfully exported to %s: %s", reportType, file)
		files = append(files, file)
	}
	return files
}

func (uc *ScoringUseCase) uploadReports(ctx context.Context, target string, files []string) error {
	if uc.cloud.Storage == nil {
		return fmt.Errorf("upload to %s requested but no object storage is configured", target)
	}
	bucket, prefix, err := types.ParseS3URI(target)
	if err != nil {
		return err
	}

	for _, file := range files {
		body, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading report %s: %w", file, err)
		}
		key := path.Join(prefix, filepath.Base(file))
		if err := uc.cloud.Storage.PutObject(ctx, bucket, key, body); err != nil {
			return fmt.Errorf("uploading report %s: %w", file, err)
		}
		uc.logger.Debug("uploaded report", "bucket", bucket, "key", key, "bytes", len(body))
		uc.console.LogSuccess("Uploaded report to s3://%s/%s", bucket, key)
	}
	return nil
}
