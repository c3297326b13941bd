package records

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/diillson/consumption-fraud-go/internal/domain/entity"
	"github.com/diillson/consumption-fraud-go/internal/domain/repository"
	"github.com/diillson/consumption-fraud-go/internal/shared/types"
	"gopkg.in/yaml.v3"
)

const (
	s3Scheme     = "s3://"
	sqliteScheme = "sqlite://"
)

// RecordRepositoryImpl carrega registros de arquivos locais, do S3 ou de um banco SQLite.
type RecordRepositoryImpl struct {
	storage repository.ObjectStorage
}

// NewRecordRepository cria o repositório de registros. storage pode ser nil quando
// nenhuma fonte s3:// será usada.
func NewRecordRepository(storage repository.ObjectStorage) repository.RecordRepository {
	return &RecordRepositoryImpl{storage: storage}
}

// LoadRecords lê todos os registros de uma fonte. O formato é escolhido pela
// extensão do arquivo ou da chave do objeto.
func (r *RecordRepositoryImpl) LoadRecords(ctx context.Context, source string) ([]entity.RawRecord, error) {
	switch {
	case strings.HasPrefix(source, s3Scheme):
		return r.loadObject(ctx, source)
	case strings.HasPrefix(source, sqliteScheme):
		return loadSQLite(ctx, source)
	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("error reading records file: %w", err)
		}
		return decodeRecords(data, filepath.Ext(source))
	}
}

func (r *RecordRepositoryImpl) loadObject(ctx context.Context, source string) ([]entity.RawRecord, error) {
	if r.storage == nil {
		return nil, fmt.Errorf("no object storage configured for %s", source)
	}
	bucket, key, err := types.ParseS3URI(source)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, fmt.Errorf("s3 source needs an object key: %s", source)
	}

	data, err := r.storage.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	return decodeRecords(data, filepath.Ext(key))
}

func decodeRecords(data []byte, ext string) ([]entity.RawRecord, error) {
	switch strings.ToLower(ext) {
	case ".csv":
		return decodeCSV(data)
	case ".json":
		return decodeJSON(data)
	case ".jsonl", ".ndjson":
		return decodeJSONLines(data)
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported records format: %q", ext)
	}
}

// decodeCSV usa a primeira linha como cabeçalho. Valores ficam como string e são
// convertidos na validação do registro.
func decodeCSV(data []byte) ([]entity.RawRecord, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var out []entity.RawRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		record := make(entity.RawRecord, len(header))
		for i, name := range header {
			record[name] = row[i]
		}
		out = append(out, record)
	}
	return out, nil
}

func decodeJSON(data []byte) ([]entity.RawRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var out []entity.RawRecord
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("error parsing JSON records: %w", err)
	}
	if dec.More() {
		return nil, errors.New("error parsing JSON records: trailing data after array")
	}
	return out, nil
}

func decodeJSONLines(data []byte) ([]entity.RawRecord, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []entity.RawRecord
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(text))
		dec.UseNumber()
		var record entity.RawRecord
		if err := dec.Decode(&record); err != nil {
			return nil, fmt.Errorf("error parsing JSON line %d: %w", line, err)
		}
		out = append(out, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading JSON lines: %w", err)
	}
	return out, nil
}

func decodeYAML(data []byte) ([]entity.RawRecord, error) {
	var out []entity.RawRecord
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("error parsing YAML records: %w", err)
	}
	return out, nil
}
