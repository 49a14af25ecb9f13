package simulator

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/chrisdamba/runwaysim/internal/cloudwriter"
	"github.com/chrisdamba/runwaysim/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
)

func runWithFormat(t *testing.T, format string) (*Result, string) {
	t.Helper()
	cfg := quietConfig()
	cfg.OutputFormat = format
	cfg.OutputPath = t.TempDir()
	cfg.OutputFolder = "exports"

	result, err := NewSimulator(cfg).Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, result.Flights)
	return result, filepath.Join(cfg.OutputPath, cfg.OutputFolder)
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	return lines
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	out := NewConsoleOutput(&buf)
	require.NoError(t, out.WriteMessage(models.TopicRunSummaries, []byte(`{"runId":"r"}`)))
	require.NoError(t, out.Close())
	assert.Equal(t, "[run_summaries] {\"runId\":\"r\"}\n", buf.String())
}

func TestJSONOutputPartitionsByRun(t *testing.T) {
	result, dir := runWithFormat(t, models.OutputFormatJSON)
	partition := "run=" + result.RunID

	flights := readLines(t, filepath.Join(dir, models.TopicFlightRecords, partition, "data.json"))
	assert.Len(t, flights, len(result.Flights))
	assert.Contains(t, flights[0], `"flightId":1`)

	runways := readLines(t, filepath.Join(dir, models.TopicRunwayStats, partition, "data.json"))
	assert.Len(t, runways, result.Config.Runways)

	summaries := readLines(t, filepath.Join(dir, models.TopicRunSummaries, partition, "data.json"))
	assert.Len(t, summaries, 1)
}

func TestCSVOutputWritesSortedHeader(t *testing.T) {
	result, dir := runWithFormat(t, models.OutputFormatCSV)

	f, err := os.Open(filepath.Join(dir, models.TopicRunwayStats, "run="+result.RunID, "data.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+result.Config.Runways)
	assert.Equal(t, []string{"flights", "runId", "runway", "totalServiceTime", "utilization"}, records[0])
	assert.Equal(t, result.RunID, records[1][1])
	assert.Equal(t, "1", records[1][2])
}

func TestFileOutputWritesOneFilePerTopic(t *testing.T) {
	result, dir := runWithFormat(t, models.OutputFormatFile)

	lines := readLines(t, filepath.Join(dir, models.TopicFlightRecords+".txt"))
	assert.Len(t, lines, len(result.Flights))
	assert.FileExists(t, filepath.Join(dir, models.TopicRunSummaries+".txt"))
}

func TestParquetOutputRoundTrip(t *testing.T) {
	result, dir := runWithFormat(t, models.OutputFormatParquet)

	fr, err := local.NewLocalFileReader(filepath.Join(dir, models.TopicFlightRecords, "run="+result.RunID, "data.parquet"))
	require.NoError(t, err)
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(FlightRecordEvent), 4)
	require.NoError(t, err)
	defer pr.ReadStop()

	n := int(pr.GetNumRows())
	require.Equal(t, len(result.Flights), n)

	rows := make([]FlightRecordEvent, n)
	require.NoError(t, pr.Read(&rows))
	assert.Equal(t, result.RunID, rows[0].RunID)
	assert.Equal(t, result.Flights[0].Callsign, rows[0].Callsign)
	assert.InDelta(t, result.Flights[n-1].CompletionTime, rows[n-1].CompletionTime, 1e-12)
}

type memoryObject struct {
	bytes.Buffer
	closed bool
}

func (m *memoryObject) Close() error {
	m.closed = true
	return nil
}

type memoryWriterFactory struct {
	objects map[string]*memoryObject
}

func (f *memoryWriterFactory) NewWriter(bucket, objectPath string) (cloudwriter.CloudWriter, error) {
	obj := &memoryObject{}
	f.objects[bucket+"/"+objectPath] = obj
	return obj, nil
}

func TestCloudObjectStore(t *testing.T) {
	factory := &memoryWriterFactory{objects: make(map[string]*memoryObject)}
	store := &objectStore{folder: "exports", cloudWriterFactory: factory, cloudBucketName: "flights"}

	out := NewJSONOutput(store)
	require.NoError(t, out.WriteMessage(models.TopicRunSummaries, []byte(`{"runId":"abc"}`)))
	require.NoError(t, out.WriteMessage(models.TopicRunSummaries, []byte(`{"runId":"abc"}`)))
	require.NoError(t, out.Close())

	obj, ok := factory.objects["flights/exports/run_summaries/run=abc/data.json"]
	require.True(t, ok)
	assert.True(t, obj.closed)
	assert.Equal(t, "{\"runId\":\"abc\"}\n{\"runId\":\"abc\"}\n", obj.String())
}

func TestCloudParquetFile(t *testing.T) {
	obj := &memoryObject{}
	pf := NewCloudParquetFile(obj)

	n, err := pf.Write([]byte("PAR1"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	pos, err := pf.Seek(0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos)

	_, err = pf.Read(make([]byte, 1))
	assert.Error(t, err)
	require.NoError(t, pf.Close())
	assert.True(t, obj.closed)
}

func TestMessagesNeedRunID(t *testing.T) {
	store := &objectStore{basePath: t.TempDir()}
	assert.Error(t, NewJSONOutput(store).WriteMessage(models.TopicRunSummaries, []byte(`{}`)))
	assert.Error(t, NewCSVOutput(store).WriteMessage(models.TopicRunSummaries, []byte(`not json`)))
	assert.Error(t, NewParquetOutput(store).WriteMessage("unknown", []byte(`{"runId":"x"}`)))
}

func TestGetSchema(t *testing.T) {
	for _, topic := range []string{models.TopicFlightRecords, models.TopicRunwayStats, models.TopicRunSummaries} {
		sh, err := GetSchema(topic)
		require.NoError(t, err, topic)
		assert.NotEmpty(t, sh.SchemaElements)
	}
	_, err := GetSchema("unknown")
	assert.Error(t, err)
}
