package aws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cwlTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/diillson/consumption-fraud-go/internal/domain/entity"
	"github.com/diillson/consumption-fraud-go/internal/domain/repository"
)

// CloudWatch Logs aceita até 10.000 eventos por chamada; usamos lotes menores.
const maxEventsPerBatch = 1000

// AWSRepositoryImpl implementa ObjectStorage, IdentityRepository e AuditRepository
// com cache de config e de clientes.
type AWSRepositoryImpl struct {
	profile     string
	region      string
	cfg         *aws.Config
	clientCache map[string]interface{}
	mu          sync.Mutex
}

// NewAWSRepository cria uma nova implementação dos repositórios AWS.
// profile e region vazios usam a cadeia padrão do SDK.
func NewAWSRepository(profile, region string) *AWSRepositoryImpl {
	return &AWSRepositoryImpl{
		profile:     profile,
		region:      region,
		clientCache: make(map[string]interface{}),
	}
}

var (
	_ repository.ObjectStorage      = (*AWSRepositoryImpl)(nil)
	_ repository.IdentityRepository = (*AWSRepositoryImpl)(nil)
	_ repository.AuditRepository    = (*AWSRepositoryImpl)(nil)
)

func (r *AWSRepositoryImpl) getAWSConfig(ctx context.Context) (aws.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg != nil {
		return *r.cfg, nil
	}

	var opts []func(*config.LoadOptions) error
	if r.profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(r.profile))
	}
	if r.region != "" {
		opts = append(opts, config.WithRegion(r.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %q: %w", r.profile, err)
	}

	r.cfg = &cfg
	return cfg, nil
}

func (r *AWSRepositoryImpl) getServiceClient(ctx context.Context, service string) (interface{}, error) {
	r.mu.Lock()
	if client, ok := r.clientCache[service]; ok {
		r.mu.Unlock()
		return client, nil
	}
	r.mu.Unlock()

	cfg, err := r.getAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	var client interface{}
	switch service {
	case "sts":
		client = sts.NewFromConfig(cfg)
	case "s3":
		client = s3.NewFromConfig(cfg)
	case "logs":
		client = cloudwatchlogs.NewFromConfig(cfg)
	default:
		return nil, fmt.Errorf("unsupported service: %s", service)
	}

	r.mu.Lock()
	r.clientCache[service] = client
	r.mu.Unlock()

	return client, nil
}

// GetAccountID retorna o ID da conta AWS das credenciais em uso.
func (r *AWSRepositoryImpl) GetAccountID(ctx context.Context) (string, error) {
	client, err := r.getServiceClient(ctx, "sts")
	if err != nil {
		return "", err
	}
	stsClient := client.(*sts.Client)

	result, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("error getting account ID for profile %q: %w", r.profile, err)
	}
	return aws.ToString(result.Account), nil
}

// GetObject lê um objeto inteiro do S3.
func (r *AWSRepositoryImpl) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	client, err := r.getServiceClient(ctx, "s3")
	if err != nil {
		return nil, err
	}
	s3Client := client.(*s3.Client)

	out, err := s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("error getting s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading s3://%s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// PutObject grava um objeto no S3.
func (r *AWSRepositoryImpl) PutObject(ctx context.Context, bucket, key string, body []byte) error {
	client, err := r.getServiceClient(ctx, "s3")
	if err != nil {
		return err
	}
	s3Client := client.(*s3.Client)

	_, err = s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return fmt.Errorf("error putting s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

// PublishVerdicts escreve um evento JSON por veredito num stream nomeado pelo RunID.
func (r *AWSRepositoryImpl) PublishVerdicts(ctx context.Context, logGroup string, report entity.ScoringReport) error {
	client, err := r.getServiceClient(ctx, "logs")
	if err != nil {
		return err
	}
	logsClient := client.(*cloudwatchlogs.Client)

	stream := report.RunID
	_, err = logsClient.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  aws.String(logGroup),
		LogStreamName: aws.String(stream),
	})
	var exists *cwlTypes.ResourceAlreadyExistsException
	if err != nil && !errors.As(err, &exists) {
		return fmt.Errorf("error creating log stream %s in %s: %w", stream, logGroup, err)
	}

	events, err := verdictEvents(report)
	if err != nil {
		return err
	}

	for _, batch := range chunkEvents(events, maxEventsPerBatch) {
		_, err := logsClient.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
			LogGroupName:  aws.String(logGroup),
			LogStreamName: aws.String(stream),
			LogEvents:     batch,
		})
		if err != nil {
			return fmt.Errorf("error putting log events to %s/%s: %w", logGroup, stream, err)
		}
	}
	return nil
}

// auditEvent é o documento gravado para cada veredito.
type auditEvent struct {
	RunID       string          `json:"run_id"`
	AccountID   string          `json:"account_id,omitempty"`
	Model       string          `json:"model"`
	Mode        string          `json:"mode"`
	ClientID    entity.ClientID `json:"client_id"`
	Probability float64         `json:"probability"`
	Verdict     entity.Verdict  `json:"verdict"`
	RecordCount int             `json:"record_count"`
}

func verdictEvents(report entity.ScoringReport) ([]cwlTypes.InputLogEvent, error) {
	ts := report.GeneratedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	millis := ts.UnixMilli()

	events := make([]cwlTypes.InputLogEvent, 0, len(report.Verdicts))
	for _, v := range report.Verdicts {
		msg, err := json.Marshal(auditEvent{
			RunID:       report.RunID,
			AccountID:   report.AccountID,
			Model:       report.Model,
			Mode:        report.Mode,
			ClientID:    v.ClientID,
			Probability: v.Probability,
			Verdict:     v.Verdict,
			RecordCount: v.RecordCount,
		})
		if err != nil {
			return nil, fmt.Errorf("error encoding audit event for client %s: %w", v.ClientID, err)
		}
		events = append(events, cwlTypes.InputLogEvent{
			Message:   aws.String(string(msg)),
			Timestamp: aws.Int64(millis),
		})
	}
	return events, nil
}

func chunkEvents(events []cwlTypes.InputLogEvent, size int) [][]cwlTypes.InputLogEvent {
	var chunks [][]cwlTypes.InputLogEvent
	for start := 0; start < len(events); start += size {
		end := start + size
		if end > len(events) {
			end = len(events)
		}
		chunks = append(chunks, events[start:end])
	}
	return chunks
}
