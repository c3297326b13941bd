package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/diillson/consumption-fraud-go/internal/domain/entity"
	"github.com/diillson/consumption-fraud-go/internal/domain/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvRecords = `id,year-month,total_consumption,avg_monthly_consumption,consumption_std,consumption_change_rate,months_since_last_invoice,monthly_invoice_count,target
128411,2023-01,1994,1994,0,0,0,1,1
128411,2023-02,1994,1994,0,0,0,1,1
77,2023-01,120.5,120.5,0,0,1,2,
`

const jsonRecords = `[
  {"id": 128411, "year-month": "2023-01", "total_consumption": 1994, "avg_monthly_consumption": 1994,
   "consumption_std": 0, "consumption_change_rate": 0, "months_since_last_invoice": 0,
   "monthly_invoice_count": 1, "target": 1},
  {"id": "77", "year-month": "2023-01", "total_consumption": 120.5, "avg_monthly_consumption": 120.5,
   "consumption_std": 0, "consumption_change_rate": 0, "months_since_last_invoice": 1,
   "monthly_invoice_count": 2}
]`

const yamlRecords = `- id: 128411
  year-month: "2023-01"
  total_consumption: 1994
  avg_monthly_consumption: 1994
  consumption_std: 0
  consumption_change_rate: 0
  months_since_last_invoice: 0
  monthly_invoice_count: 1
  target: 1
- id: 77
  year-month: "2023-01"
  total_consumption: 120.5
  avg_monthly_consumption: 120.5
  consumption_std: 0
  consumption_change_rate: 0
  months_since_last_invoice: 1
  monthly_invoice_count: 2
`

type fakeStorage struct {
	objects map[string][]byte
	err     error
}

func (f *fakeStorage) GetObject(_ context.Context, bucket, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func (f *fakeStorage) PutObject(_ context.Context, bucket, key string, body []byte) error {
	f.objects[bucket+"/"+key] = body
	return nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func jsonLines(t *testing.T) string {
	t.Helper()
	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(jsonRecords), &records))
	var out []byte
	for _, r := range records {
		line, err := json.Marshal(r)
		require.NoError(t, err)
		out = append(out, line...)
		out = append(out, '\n', '\n')
	}
	return string(out)
}

func TestLoadRecords_LocalFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content func(t *testing.T) string
	}{
		{"csv", "clients.csv", func(*testing.T) string { return csvRecords }},
		{"json", "clients.json", func(*testing.T) string { return jsonRecords }},
		{"jsonl", "clients.jsonl", jsonLines},
		{"yaml", "clients.yaml", func(*testing.T) string { return yamlRecords }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewRecordRepository(nil)

			raw, err := repo.LoadRecords(context.Background(), writeFile(t, tt.file, tt.content(t)))
			require.NoError(t, err)
			require.NotEmpty(t, raw)

			set, err := service.BuildSequences(raw)
			require.NoError(t, err)
			assert.Equal(t, []entity.ClientID{"128411", "77"}, set.ClientIDs())
			assert.Equal(t, 1994.0, set.Sequence("128411")[0][0])
			assert.Equal(t, 120.5, set.Sequence("77")[0][0])
			require.NotNil(t, set.Label("128411"))
			assert.Equal(t, 1, *set.Label("128411"))
			assert.Nil(t, set.Label("77"))
		})
	}
}

func TestLoadRecords_CSVKeepsStrings(t *testing.T) {
	raw, err := NewRecordRepository(nil).LoadRecords(context.Background(), writeFile(t, "c.csv", csvRecords))

	require.NoError(t, err)
	require.Len(t, raw, 3)
	assert.Equal(t, "128411", raw[0]["id"])
	assert.Equal(t, "2023-02", raw[1]["year-month"])
	assert.Equal(t, "", raw[2]["target"])
}

func TestLoadRecords_Errors(t *testing.T) {
	repo := NewRecordRepository(nil)

	t.Run("missing file", func(t *testing.T) {
		_, err := repo.LoadRecords(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
		assert.ErrorContains(t, err, "error reading records file")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := repo.LoadRecords(context.Background(), writeFile(t, "clients.parquet", "PAR1"))
		assert.ErrorContains(t, err, `unsupported records format: ".parquet"`)
	})

	t.Run("ragged csv", func(t *testing.T) {
		_, err := repo.LoadRecords(context.Background(), writeFile(t, "bad.csv", "id,year-month\n1\n"))
		assert.ErrorContains(t, err, "error reading CSV")
	})

	t.Run("json object instead of array", func(t *testing.T) {
		_, err := repo.LoadRecords(context.Background(), writeFile(t, "bad.json", `{"id": 1}`))
		assert.ErrorContains(t, err, "error parsing JSON records")
	})

	t.Run("broken json line", func(t *testing.T) {
		_, err := repo.LoadRecords(context.Background(), writeFile(t, "bad.jsonl", "{\"id\": 1}\n{oops\n"))
		assert.ErrorContains(t, err, "error parsing JSON line 2")
	})

	t.Run("s3 without storage", func(t *testing.T) {
		_, err := repo.LoadRecords(context.Background(), "s3://records/clients.csv")
		assert.ErrorContains(t, err, "no object storage configured")
	})
}

func TestLoadRecords_S3(t *testing.T) {
	storage := &fakeStorage{objects: map[string][]byte{
		"records/2023/clients.csv": []byte(csvRecords),
	}}
	repo := NewRecordRepository(storage)

	t.Run("reads object by key extension", func(t *testing.T) {
		raw, err := repo.LoadRecords(context.Background(), "s3://records/2023/clients.csv")
		require.NoError(t, err)
		assert.Len(t, raw, 3)
	})

	t.Run("requires a key", func(t *testing.T) {
		_, err := repo.LoadRecords(context.Background(), "s3://records/")
		assert.ErrorContains(t, err, "needs an object key")
	})

	t.Run("propagates storage errors", func(t *testing.T) {
		_, err := repo.LoadRecords(context.Background(), "s3://records/missing.csv")
		assert.ErrorContains(t, err, "no such key")
	})
}

func TestParseSQLiteSource(t *testing.T) {
	tests := []struct {
		source string
		path   string
		table  string
		err    string
	}{
		{source: "sqlite:///var/data/clients.db?table=consumption", path: "/var/data/clients.db", table: "consumption"},
		{source: "sqlite://clients.db", path: "clients.db", table: "records"},
		{source: "sqlite://", err: "without database path"},
		{source: "sqlite:///x.db?table=1st", err: "invalid sqlite table name"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			path, table, err := parseSQLiteSource(tt.source)
			if tt.err != "" {
				assert.ErrorContains(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.path, path)
			assert.Equal(t, tt.table, table)
		})
	}
}

func TestLoadRecords_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE consumption (
		id INTEGER, "year-month" TEXT, total_consumption REAL, avg_monthly_consumption REAL,
		consumption_std REAL, consumption_change_rate REAL, months_since_last_invoice REAL,
		monthly_invoice_count REAL, target INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO consumption VALUES
		(128411, '2023-01', 1994, 1994, 0, 0, 0, 1, 1),
		(128411, '2023-02', 1994, 1994, 0, 0, 0, 1, 1),
		(77, '2023-01', 120.5, 120.5, 0, 0, 1, 2, NULL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	raw, err := NewRecordRepository(nil).LoadRecords(context.Background(), "sqlite://"+path+"?table=consumption")
	require.NoError(t, err)
	require.Len(t, raw, 3)

	set, err := service.BuildSequences(raw)
	require.NoError(t, err)
	assert.Equal(t, []entity.ClientID{"128411", "77"}, set.ClientIDs())
	assert.Len(t, set.Sequence("128411"), 2)
	assert.Nil(t, set.Label("77"))

	t.Run("missing table", func(t *testing.T) {
		_, err := NewRecordRepository(nil).LoadRecords(context.Background(), "sqlite://"+path+"?table=other")
		assert.ErrorContains(t, err, "error querying table other")
	})

	t.Run("missing database", func(t *testing.T) {
		_, err := NewRecordRepository(nil).LoadRecords(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "no.db"))
		assert.ErrorContains(t, err, "error accessing database")
	})
}

func TestLoadRecords_SQLiteKeepsInsertionOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ordered.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE consumption (
		id INTEGER, "year-month" TEXT, total_consumption REAL, avg_monthly_consumption REAL,
		consumption_std REAL, consumption_change_rate REAL, months_since_last_invoice REAL,
		monthly_invoice_count REAL, target INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE INDEX consumption_by_month ON consumption ("year-month" DESC, id,
		total_consumption, avg_monthly_consumption, consumption_std, consumption_change_rate,
		months_since_last_invoice, monthly_invoice_count, target)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO consumption (rowid, id, "year-month", total_consumption, avg_monthly_consumption,
		consumption_std, consumption_change_rate, months_since_last_invoice, monthly_invoice_count, target) VALUES
		(3, 9, '2023-03', 30, 0, 0, 0, 0, 1, 0),
		(1, 9, '2023-01', 10, 0, 0, 0, 0, 1, 0),
		(2, 9, '2023-02', 20, 0, 0, 0, 0, 1, 0)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	raw, err := NewRecordRepository(nil).LoadRecords(context.Background(), "sqlite://"+path+"?table=consumption")
	require.NoError(t, err)
	require.Len(t, raw, 3)

	var months []any
	for _, r := range raw {
		months = append(months, r["year-month"])
	}
	assert.Equal(t, []any{"2023-01", "2023-02", "2023-03"}, months)

	set, err := service.BuildSequences(raw)
	require.NoError(t, err)
	seq := set.Sequence("9")
	require.Len(t, seq, 3)
	assert.Equal(t, 10.0, seq[0][0])
	assert.Equal(t, 20.0, seq[1][0])
	assert.Equal(t, 30.0, seq[2][0])
}

func TestLoadRecords_SQLiteWithoutRowid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyed.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE consumption (
		id INTEGER, "year-month" TEXT, total_consumption REAL, avg_monthly_consumption REAL,
		consumption_std REAL, consumption_change_rate REAL, months_since_last_invoice REAL,
		monthly_invoice_count REAL, target INTEGER, PRIMARY KEY (id, "year-month")) WITHOUT ROWID`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO consumption VALUES
		(9, '2023-02', 20, 0, 0, 0, 0, 1, 0),
		(9, '2023-01', 10, 0, 0, 0, 0, 1, 0)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	raw, err := NewRecordRepository(nil).LoadRecords(context.Background(), "sqlite://"+path+"?table=consumption")
	require.NoError(t, err)
	require.Len(t, raw, 2)
	assert.Equal(t, "2023-01", raw[0]["year-month"])
	assert.Equal(t, "2023-02", raw[1]["year-month"])
}
