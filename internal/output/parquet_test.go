package output

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"commute/internal/cloudwriter"
	"commute/internal/models"
)

func sampleTables() *models.Tables {
	return &models.Tables{
		Stacked: []models.CommuteByTypeRow{
			{State: "Ohio", CommuteType: "Drive Alone", Rate: 82.6},
			{State: "Ohio", CommuteType: "Walk", Rate: 2.2},
		},
		Wide: []models.CommuteByStateRow{
			{State: "Ohio", Code: "OH", Rates: map[string]float64{"Drive Alone": 82.6, "Walk": 2.2}},
		},
	}
}

func TestWriteTables(t *testing.T) {
	out, err := NewParquetOutput(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	files, err := out.WriteTables(sampleTables())
	if err != nil {
		t.Fatalf("WriteTables: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %v", files)
	}

	fr, err := local.NewLocalFileReader(files[0])
	if err != nil {
		t.Fatal(err)
	}
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(stackedRecord), 1)
	if err != nil {
		t.Fatal(err)
	}
	defer pr.ReadStop()
	n := int(pr.GetNumRows())
	if n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}
	rows := make([]stackedRecord, n)
	if err := pr.Read(&rows); err != nil {
		t.Fatal(err)
	}
	if rows[1].CommuteType != "Walk" || rows[1].Rate != 2.2 {
		t.Fatalf("unexpected row: %+v", rows[1])
	}

	wr, err := local.NewLocalFileReader(files[1])
	if err != nil {
		t.Fatal(err)
	}
	defer wr.Close()
	pw, err := reader.NewParquetReader(wr, new(wideRecord), 1)
	if err != nil {
		t.Fatal(err)
	}
	defer pw.ReadStop()
	wide := make([]wideRecord, int(pw.GetNumRows()))
	if err := pw.Read(&wide); err != nil {
		t.Fatal(err)
	}
	if len(wide) != 1 || wide[0].Walk == nil || *wide[0].Walk != 2.2 || wide[0].Carpool != nil {
		t.Fatalf("unexpected wide rows: %+v", wide)
	}
}

func TestToWideRecord(t *testing.T) {
	rec := toWideRecord(sampleTables().Wide[0])
	if rec.Code != "OH" || rec.DriveAlone == nil || *rec.DriveAlone != 82.6 || *rec.Walk != 2.2 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Carpool != nil {
		t.Fatalf("missing carpool should stay null, got %v", *rec.Carpool)
	}
}

type recordingS3 struct {
	puts map[string][]byte
}

func (r *recordingS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return nil, io.EOF
}

func (r *recordingS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	r.puts[*in.Bucket+"/"+*in.Key] = b
	return &s3.PutObjectOutput{}, nil
}

func TestUpload(t *testing.T) {
	dir := t.TempDir()
	file := dir + "/a.parquet"
	if err := os.WriteFile(file, []byte("PAR1"), 0o644); err != nil {
		t.Fatal(err)
	}

	client := &recordingS3{puts: map[string][]byte{}}
	factory := cloudwriter.NewS3WriterFactory(context.Background(), cloudwriter.NewStaticS3ClientProvider(client))
	if err := Upload(factory, "s3://exports/commute/2026", []string{file}); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	got, ok := client.puts["exports/commute/2026/a.parquet"]
	if !ok || !bytes.Equal(got, []byte("PAR1")) {
		t.Fatalf("unexpected uploads: %v", client.puts)
	}

	if err := Upload(factory, "https://example.com", []string{file}); err == nil {
		t.Fatal("expected error for non-s3 target")
	}
}
