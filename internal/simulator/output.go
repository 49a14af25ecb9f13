package simulator

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"sort"

	"github.com/chrisdamba/runwaysim/internal/cloudwriter"
	"github.com/chrisdamba/runwaysim/internal/models"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

type OutputDestination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

type ConsoleOutput struct {
	w io.Writer
}

func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	if _, err := fmt.Fprintf(c.w, "[%s] %s\n", topic, msg); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error {
	return nil
}

// objectStore opens the files a sink writes, on local disk under
// basePath/folder or as objects under folder in a cloud bucket.
type objectStore struct {
	basePath           string
	folder             string
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

func newObjectStore(config *models.Config) (*objectStore, error) {
	o := &objectStore{
		basePath: config.OutputPath,
		folder:   config.OutputFolder,
	}

	if config.OutputDestination != "" && config.OutputDestination != models.OutputDestinationLocal {
		if config.OutputDestination != models.OutputDestinationS3 {
			return nil, fmt.Errorf("unsupported output destination: %s", config.OutputDestination)
		}
		if config.CloudStorage.BucketName == "" {
			return nil, fmt.Errorf("cloud storage bucket name is required for %s output", config.OutputDestination)
		}

		factory, err := cloudwriter.NewS3WriterFactory(config.CloudStorage.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}

		o.cloudWriterFactory = factory
		o.cloudBucketName = config.CloudStorage.BucketName
	} else if config.OutputPath == "" {
		return nil, fmt.Errorf("output path is required for local output")
	}

	return o, nil
}

func (o *objectStore) create(parts ...string) (io.WriteCloser, error) {
	if o.cloudWriterFactory != nil {
		objectPath := path.Join(append([]string{o.folder}, parts...)...)
		cloudWriter, err := o.cloudWriterFactory.NewWriter(o.cloudBucketName, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer for %s: %w", objectPath, err)
		}
		return cloudWriter, nil
	}

	filePath, err := o.localPath(parts...)
	if err != nil {
		return nil, err
	}
	file, err := os.Create(filePath)
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (o *objectStore) createParquet(parts ...string) (source.ParquetFile, error) {
	if o.cloudWriterFactory != nil {
		w, err := o.create(parts...)
		if err != nil {
			return nil, err
		}
		return NewCloudParquetFile(w), nil
	}

	filePath, err := o.localPath(parts...)
	if err != nil {
		return nil, err
	}
	fw, err := local.NewLocalFileWriter(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create local file writer: %w", err)
	}
	return fw, nil
}

func (o *objectStore) localPath(parts ...string) (string, error) {
	filePath := filepath.Join(append([]string{o.basePath, o.folder}, parts...)...)
	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return "", err
	}
	return filePath, nil
}

// partitionOf returns the run partition a message belongs to.
func partitionOf(msg []byte) (string, error) {
	var header struct {
		RunID string `json:"runId"`
	}
	if err := json.Unmarshal(msg, &header); err != nil {
		return "", err
	}
	if header.RunID == "" {
		return "", fmt.Errorf("message has no runId")
	}
	return "run=" + header.RunID, nil
}

// FileOutput appends raw messages to one <topic>.txt file per topic
type FileOutput struct {
	store *objectStore
	files map[string]io.WriteCloser
}

func NewFileOutput(store *objectStore) *FileOutput {
	return &FileOutput{
		store: store,
		files: make(map[string]io.WriteCloser),
	}
}

func (f *FileOutput) WriteMessage(topic string, msg []byte) error {
	file, ok := f.files[topic]
	if !ok {
		var err error
		file, err = f.store.create(topic + ".txt")
		if err != nil {
			return fmt.Errorf("failed to create file for topic %s: %w", topic, err)
		}
		f.files[topic] = file
	}

	if _, err := file.Write(msg); err != nil {
		return fmt.Errorf("failed to write message to topic %s: %w", topic, err)
	}
	if _, err := file.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write message to topic %s: %w", topic, err)
	}
	return nil
}

func (f *FileOutput) Close() error {
	return closeAll(f.files)
}

type csvFile struct {
	writer  *csv.Writer
	closer  io.Closer
	headers []string
}

type CSVOutput struct {
	store *objectStore
	files map[string]*csvFile
}

func NewCSVOutput(store *objectStore) *CSVOutput {
	return &CSVOutput{
		store: store,
		files: make(map[string]*csvFile),
	}
}

func (c *CSVOutput) WriteMessage(topic string, msg []byte) error {
	var event map[string]interface{}
	decoder := json.NewDecoder(bytes.NewReader(msg))
	decoder.UseNumber()
	if err := decoder.Decode(&event); err != nil {
		return err
	}

	partition, err := partitionOf(msg)
	if err != nil {
		return err
	}

	fileKey := path.Join(topic, partition)
	file, ok := c.files[fileKey]
	if !ok {
		w, err := c.store.create(topic, partition, "data.csv")
		if err != nil {
			return err
		}
		file = &csvFile{
			writer:  csv.NewWriter(w),
			closer:  w,
			headers: c.getHeaders(event),
		}
		c.files[fileKey] = file

		if err := file.writer.Write(file.headers); err != nil {
			return err
		}
	}

	row := make([]string, len(file.headers))
	for i, header := range file.headers {
		value, ok := event[header]
		if !ok || value == nil {
			row[i] = ""
		} else {
			row[i] = fmt.Sprintf("%v", value)
		}
	}

	if err := file.writer.Write(row); err != nil {
		return err
	}

	file.writer.Flush()
	return file.writer.Error()
}

func (c *CSVOutput) getHeaders(event map[string]interface{}) []string {
	var headers []string
	for key := range event {
		headers = append(headers, key)
	}
	sort.Strings(headers)
	return headers
}

func (c *CSVOutput) Close() error {
	var firstErr error
	for _, file := range c.files {
		file.writer.Flush()
		if err := file.writer.Error(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := file.closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// JSONOutput writes newline-delimited JSON, one data.json per topic and run
type JSONOutput struct {
	store *objectStore
	files map[string]io.WriteCloser
}

func NewJSONOutput(store *objectStore) *JSONOutput {
	return &JSONOutput{
		store: store,
		files: make(map[string]io.WriteCloser),
	}
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	partition, err := partitionOf(msg)
	if err != nil {
		return err
	}

	fileKey := path.Join(topic, partition)
	file, ok := j.files[fileKey]
	if !ok {
		file, err = j.store.create(topic, partition, "data.json")
		if err != nil {
			return err
		}
		j.files[fileKey] = file
	}

	if _, err := file.Write(msg); err != nil {
		return err
	}
	_, err = file.Write([]byte("\n"))
	return err
}

func (j *JSONOutput) Close() error {
	return closeAll(j.files)
}

type parquetFile struct {
	writer *writer.ParquetWriter
	file   source.ParquetFile
}

type ParquetOutput struct {
	store   *objectStore
	writers map[string]*parquetFile
}

func NewParquetOutput(store *objectStore) *ParquetOutput {
	return &ParquetOutput{
		store:   store,
		writers: make(map[string]*parquetFile),
	}
}

func (p *ParquetOutput) WriteMessage(topic string, msg []byte) error {
	row, err := newEventRow(topic)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(msg, row); err != nil {
		return err
	}

	partition, err := partitionOf(msg)
	if err != nil {
		return err
	}

	writerKey := path.Join(topic, partition)
	pf, ok := p.writers[writerKey]
	if !ok {
		pf, err = p.createNewWriter(row, topic, partition)
		if err != nil {
			return fmt.Errorf("failed to create new writer: %w", err)
		}
		p.writers[writerKey] = pf
	}

	// the writer marshals struct values, not pointers
	if err := pf.writer.Write(reflect.ValueOf(row).Elem().Interface()); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

func (p *ParquetOutput) createNewWriter(row interface{}, topic, partition string) (*parquetFile, error) {
	fw, err := p.store.createParquet(topic, partition, "data.parquet")
	if err != nil {
		return nil, err
	}

	pw, err := writer.NewParquetWriter(fw, row, 4)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}

	return &parquetFile{writer: pw, file: fw}, nil
}

func (p *ParquetOutput) Close() error {
	var firstErr error
	for _, pf := range p.writers {
		if err := pf.writer.WriteStop(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := pf.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// CloudParquetFile adapts a cloud writer to the write-only subset of
// source.ParquetFile that the Parquet writer needs.
type CloudParquetFile struct {
	cloudWriter io.WriteCloser
	offset      int64
}

func NewCloudParquetFile(cloudWriter io.WriteCloser) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cloudWriter}
}

// Open returns the same instance; the object is created by the first write.
func (c *CloudParquetFile) Open(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Create(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read(p []byte) (n int, err error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (n int, err error) {
	n, err = c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}

func closeAll(files map[string]io.WriteCloser) error {
	var firstErr error
	for _, file := range files {
		if err := file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
