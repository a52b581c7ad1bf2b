package output

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"

	"commute/internal/cloudwriter"
	"commute/internal/logging"
	"commute/internal/models"
)

const (
	StackedFile = "commute_by_type.parquet"
	WideFile    = "commute_by_state.parquet"
)

type stackedRecord struct {
	State       string  `parquet:"name=state, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	CommuteType string  `parquet:"name=commute_type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Rate        float64 `parquet:"name=rate, type=DOUBLE"`
}

// Method columns are optional so a missing cell stays null
type wideRecord struct {
	State                string   `parquet:"name=state, type=BYTE_ARRAY, convertedtype=UTF8"`
	Code                 string   `parquet:"name=code, type=BYTE_ARRAY, convertedtype=UTF8"`
	DriveAlone           *float64 `parquet:"name=drive_alone, type=DOUBLE, repetitiontype=OPTIONAL"`
	Carpool              *float64 `parquet:"name=carpool, type=DOUBLE, repetitiontype=OPTIONAL"`
	Walk                 *float64 `parquet:"name=walk, type=DOUBLE, repetitiontype=OPTIONAL"`
	PublicTransportation *float64 `parquet:"name=public_transportation, type=DOUBLE, repetitiontype=OPTIONAL"`
	OtherMeans           *float64 `parquet:"name=other_means, type=DOUBLE, repetitiontype=OPTIONAL"`
	WorkAtHome           *float64 `parquet:"name=work_at_home, type=DOUBLE, repetitiontype=OPTIONAL"`
}

func toWideRecord(row models.CommuteByStateRow) wideRecord {
	rate := func(m models.CommuteMethod) *float64 {
		v, ok := row.Rate(string(m))
		if !ok {
			return nil
		}
		return &v
	}
	return wideRecord{
		State:                row.State,
		Code:                 row.Code,
		DriveAlone:           rate(models.MethodDriveAlone),
		Carpool:              rate(models.MethodCarpool),
		Walk:                 rate(models.MethodWalk),
		PublicTransportation: rate(models.MethodPublicTransportation),
		OtherMeans:           rate(models.MethodOtherMeans),
		WorkAtHome:           rate(models.MethodWorkAtHome),
	}
}

// ParquetOutput writes the loaded tables into a folder as Parquet files
type ParquetOutput struct {
	folder string
}

func NewParquetOutput(folder string) (*ParquetOutput, error) {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output folder: %w", err)
	}
	return &ParquetOutput{folder: folder}, nil
}

// WriteTables writes both tables and returns the file paths
func (p *ParquetOutput) WriteTables(tables *models.Tables) ([]string, error) {
	stackedPath := filepath.Join(p.folder, StackedFile)
	err := writeParquet(stackedPath, new(stackedRecord), len(tables.Stacked), func(i int) interface{} {
		row := tables.Stacked[i]
		return stackedRecord{State: row.State, CommuteType: row.CommuteType, Rate: row.Rate}
	})
	if err != nil {
		return nil, err
	}
	logging.Infof("Wrote %d rows to %s", len(tables.Stacked), stackedPath)

	widePath := filepath.Join(p.folder, WideFile)
	err = writeParquet(widePath, new(wideRecord), len(tables.Wide), func(i int) interface{} {
		return toWideRecord(tables.Wide[i])
	})
	if err != nil {
		return nil, err
	}
	logging.Infof("Wrote %d rows to %s", len(tables.Wide), widePath)

	return []string{stackedPath, widePath}, nil
}

func writeParquet(filePath string, schema interface{}, n int, record func(i int) interface{}) error {
	fw, err := local.NewLocalFileWriter(filePath)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, schema, 4)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := pw.Write(record(i)); err != nil {
			return fmt.Errorf("failed to write parquet record %d: %w", i, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// Upload copies the files to s3://bucket/prefix/<file name>
func Upload(factory cloudwriter.CloudWriterFactory, target string, files []string) error {
	bucket, prefix, err := cloudwriter.ParseS3URL(target)
	if err != nil {
		return err
	}
	for _, f := range files {
		key := path.Join(prefix, filepath.Base(f))
		if err := uploadFile(factory, bucket, key, f); err != nil {
			return err
		}
		logging.Infof("Uploaded %s to s3://%s/%s", f, bucket, key)
	}
	return nil
}

func uploadFile(factory cloudwriter.CloudWriterFactory, bucket, key, file string) error {
	in, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer in.Close()

	cw, err := factory.NewWriter(bucket, key)
	if err != nil {
		return err
	}
	if _, err := io.Copy(cw, in); err != nil {
		return fmt.Errorf("failed to buffer %s: %w", file, err)
	}
	return cw.Close()
}
