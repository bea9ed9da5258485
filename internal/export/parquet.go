package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/E-Rombi/route-go/internal/cloudwriter"
	"github.com/E-Rombi/route-go/internal/models"
)

// StopRecord is the flattened parquet row: one record per stop per vehicle.
type StopRecord struct {
	RouteDate    string `parquet:"name=route_date, type=BYTE_ARRAY, convertedtype=UTF8"`
	VehicleID    int64  `parquet:"name=vehicle_id, type=INT64"`
	Seq          int32  `parquet:"name=seq, type=INT32"`
	NodeIndex    int32  `parquet:"name=node_index, type=INT32"`
	OrderID      int64  `parquet:"name=order_id, type=INT64"`
	CustomerID   int64  `parquet:"name=customer_id, type=INT64"`
	CustomerName string `parquet:"name=customer_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	MinTime      int32  `parquet:"name=min_time, type=INT32"`
	MaxTime      int32  `parquet:"name=max_time, type=INT32"`
	StopType     string `parquet:"name=stop_type, type=BYTE_ARRAY, convertedtype=UTF8"`
	DistanceM    int64  `parquet:"name=distance_m, type=INT64"`
}

// ParquetExport writes one parquet file per route date, locally or to cloud
// storage depending on configuration.
type ParquetExport struct {
	basePath           string
	folder             string
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

func NewParquetExport(cfg *models.Config) (*ParquetExport, error) {
	p := &ParquetExport{
		basePath: cfg.Export.OutputPath,
		folder:   cfg.Export.OutputFolder,
	}

	if cfg.Export.Destination != "local" && cfg.Export.Destination != "" {
		factory, err := cloudFactory(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}
		p.cloudWriterFactory = factory
		p.cloudBucketName = cfg.CloudStorage.BucketName
	}

	return p, nil
}

func (p *ParquetExport) WritePlan(routeDate time.Time, payload *models.SolutionPayload) error {
	fw, err := p.openFile(routeDate)
	if err != nil {
		return err
	}

	pw, err := writer.NewParquetWriter(fw, new(StopRecord), 4)
	if err != nil {
		fw.Close()
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	date := routeDate.Format("2006-01-02")
	for _, plan := range payload.Vehicles {
		for seq, stop := range plan.Route {
			rec := StopRecord{
				RouteDate:    date,
				VehicleID:    plan.VehicleDBID,
				Seq:          int32(seq),
				NodeIndex:    int32(stop.NodeIndex),
				OrderID:      stop.OrderID,
				CustomerID:   stop.CustomerID,
				CustomerName: stop.CustomerName,
				MinTime:      int32(stop.MinTime),
				MaxTime:      int32(stop.MaxTime),
				StopType:     stop.Type,
				DistanceM:    plan.TotalDistanceM,
			}
			if err := pw.Write(rec); err != nil {
				fw.Close()
				return fmt.Errorf("failed to write stop record: %w", err)
			}
		}
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return fw.Close()
}

func (p *ParquetExport) Close() error { return nil }

func (p *ParquetExport) openFile(routeDate time.Time) (source.ParquetFile, error) {
	name := filepath.Join(p.folder, routeDate.Format("2006-01-02"), "plan.parquet")
	if p.cloudWriterFactory != nil {
		cw, err := p.cloudWriterFactory.NewWriter(p.cloudBucketName, name)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		return newCloudParquetFile(cw), nil
	}

	filePath := filepath.Join(p.basePath, name)
	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return nil, err
	}
	return local.NewLocalFileWriter(filePath)
}

// cloudParquetFile adapts a CloudWriter to the write-only subset of
// source.ParquetFile that the parquet writer actually uses.
type cloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func newCloudParquetFile(cw cloudwriter.CloudWriter) *cloudParquetFile {
	return &cloudParquetFile{cloudWriter: cw}
}

func (c *cloudParquetFile) Open(name string) (source.ParquetFile, error)   { return c, nil }
func (c *cloudParquetFile) Create(name string) (source.ParquetFile, error) { return c, nil }

func (c *cloudParquetFile) Seek(offset int64, whence int) (int64, error) {
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

func (c *cloudParquetFile) Read(p []byte) (n int, err error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *cloudParquetFile) Write(p []byte) (n int, err error) {
	return c.cloudWriter.Write(p)
}

func (c *cloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}
