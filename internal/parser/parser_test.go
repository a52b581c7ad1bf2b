package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"commute/internal/cloudwriter"
	"commute/internal/models"
)

const stackedCSV = `State,Commute Type,Rate
Alabama,Drive Alone,85.7
Alabama,Carpool,8.5
California,Drive Alone,73.7
California,Carpool,10.1
California,Walk,2.7
`

const wideCSV = `State,Code,Drive Alone,Carpool,Walk,Public Transportation,Other Means,Work at Home,Region
Alabama,AL,85.7,8.5,1.1,0.4,1.1,3.2,South
California,CA,73.7,10.1,2.7,5.2,3.1,5.2,West
`

func TestParseStacked(t *testing.T) {
	rows, err := ParseStacked(strings.NewReader(stackedCSV))
	if err != nil {
		t.Fatalf("ParseStacked: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	want := models.CommuteByTypeRow{State: "California", CommuteType: "Walk", Rate: 2.7}
	if rows[4] != want {
		t.Fatalf("row 4 = %+v, want %+v", rows[4], want)
	}
}

func TestParseStackedTolerantHeaders(t *testing.T) {
	in := "\ufeff,state , COMMUTE TYPE,rate\n0,Ohio,Walk,2.2%\n\n1,Ohio,Carpool,\"1,0.5\"\n"
	rows, err := ParseStacked(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseStacked: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Rate != 2.2 || rows[1].Rate != 10.5 {
		t.Fatalf("unexpected rates: %+v", rows)
	}
}

func TestParseStackedErrors(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		stage string
	}{
		{"empty", "", "header"},
		{"missing column", "State,Rate\nOhio,1\n", "header"},
		{"bad rate", "State,Commute Type,Rate\nOhio,Walk,lots\n", "row"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseStacked(strings.NewReader(tc.in))
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("expected LoadError, got %v", err)
			}
			if le.Stage != tc.stage {
				t.Fatalf("stage = %s, want %s", le.Stage, tc.stage)
			}
		})
	}
}

func TestParseWide(t *testing.T) {
	rows, columns, err := ParseWide(strings.NewReader(wideCSV))
	if err != nil {
		t.Fatalf("ParseWide: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	wantCols := []string{"Drive Alone", "Carpool", "Walk", "Public Transportation", "Other Means", "Work at Home"}
	if strings.Join(columns, "|") != strings.Join(wantCols, "|") {
		t.Fatalf("columns = %v, want %v (text column must be skipped)", columns, wantCols)
	}
	if rows[1].Code != "CA" || rows[1].Rates["Carpool"] != 10.1 {
		t.Fatalf("unexpected row: %+v", rows[1])
	}
}

func TestParseWideCanonicalMethodNames(t *testing.T) {
	in := "state,code,drive alone\nOhio,oh,80\n"
	rows, columns, err := ParseWide(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseWide: %v", err)
	}
	if len(columns) != 1 || columns[0] != "Drive Alone" {
		t.Fatalf("columns = %v", columns)
	}
	if rows[0].Code != "OH" {
		t.Fatalf("code not upper-cased: %q", rows[0].Code)
	}
}

func TestParseWideInvalidCode(t *testing.T) {
	_, _, err := ParseWide(strings.NewReader("State,Code,Walk\nOhio,Ohio,2\n"))
	if err == nil {
		t.Fatal("expected error for invalid state code")
	}
}

func TestParseWideBlankMethodCell(t *testing.T) {
	in := wideCSV + "Puerto Rico,PR,80.1,,1.9,0.3,1.2,2.0,\n"
	rows, columns, err := ParseWide(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseWide: %v", err)
	}
	if len(columns) != 6 || columns[1] != "Carpool" {
		t.Fatalf("Carpool column dropped: %v", columns)
	}
	pr := rows[2]
	if _, ok := pr.Rate("Carpool"); ok {
		t.Fatalf("blank cell should be missing: %+v", pr.Rates)
	}
	if v, ok := pr.Rate("Walk"); !ok || v != 1.9 {
		t.Fatalf("walk = %v, %v", v, ok)
	}

	tables := &models.Tables{Stacked: []models.CommuteByTypeRow{{State: "Ohio"}}, Wide: rows, WideColumns: columns}
	if err := tables.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParseWideBadMethodCell(t *testing.T) {
	in := wideCSV + "Puerto Rico,PR,80.1,n/a,1.9,0.3,1.2,2.0,\n"
	_, _, err := ParseWide(strings.NewReader(in))
	var le *LoadError
	if !errors.As(err, &le) || le.Stage != "row" {
		t.Fatalf("expected row LoadError, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 4") || !strings.Contains(err.Error(), `"Carpool"`) {
		t.Fatalf("error should name the cell: %v", err)
	}
}

func TestParseStackedBlankRate(t *testing.T) {
	in := "State,Commute Type,Rate\nOhio,Walk,\nOhio,Carpool,7.9\n"
	rows, err := ParseStacked(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseStacked: %v", err)
	}
	if len(rows) != 1 || rows[0].CommuteType != "Carpool" {
		t.Fatalf("blank rate row should be skipped: %+v", rows)
	}
}

func TestSchemeOf(t *testing.T) {
	cases := map[string]string{
		"https://example.com/a.csv": "https",
		"HTTP://example.com/a.csv":  "http",
		"s3://bucket/key.csv":       "s3",
		"file:///tmp/a.csv":         "file",
		"/tmp/a.csv":                "file",
		"data/a.csv":                "file",
		`C:\data\a.csv`:             "file",
	}
	for in, want := range cases {
		if got := SchemeOf(in); got != want {
			t.Errorf("SchemeOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func testConfig() *models.Config {
	return &models.Config{FetchTimeout: 5 * time.Second}
}

func TestLoadTablesOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/stacked.csv":
			fmt.Fprint(w, stackedCSV)
		case "/wide.csv":
			fmt.Fprint(w, wideCSV)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	m := NewDefaultManager(testConfig(), cloudwriter.NewS3ClientProvider("us-east-1"))
	tables, err := LoadTables(context.Background(), m, srv.URL+"/stacked.csv", srv.URL+"/wide.csv")
	if err != nil {
		t.Fatalf("LoadTables: %v", err)
	}
	if len(tables.Stacked) != 5 || len(tables.Wide) != 2 {
		t.Fatalf("unexpected sizes: %d, %d", len(tables.Stacked), len(tables.Wide))
	}
	if err := tables.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	_, err = LoadTables(context.Background(), m, srv.URL+"/stacked.csv", srv.URL+"/missing.csv")
	var le *LoadError
	if !errors.As(err, &le) || le.Stage != "fetch" {
		t.Fatalf("expected fetch LoadError, got %v", err)
	}
}

func TestLoadTablesFromFiles(t *testing.T) {
	dir := t.TempDir()
	stackedPath := filepath.Join(dir, "stacked.csv")
	widePath := filepath.Join(dir, "wide.csv")
	if err := os.WriteFile(stackedPath, []byte(stackedCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(widePath, []byte(wideCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewDefaultManager(testConfig(), cloudwriter.NewS3ClientProvider("us-east-1"))
	tables, err := LoadTables(context.Background(), m, "file://"+stackedPath, widePath)
	if err != nil {
		t.Fatalf("LoadTables: %v", err)
	}
	if tables.StackedURL != "file://"+stackedPath || tables.WideURL != widePath {
		t.Fatalf("source locations not recorded: %+v", tables)
	}
}

func TestLoadTablesMalformedSourceCarriesLocation(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(bad, []byte("State,Rate\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := NewDefaultManager(testConfig(), cloudwriter.NewS3ClientProvider("us-east-1"))
	_, err := LoadTables(context.Background(), m, bad, bad)
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	if le.Source != bad || le.Stage != "header" {
		t.Fatalf("unexpected error fields: %+v", le)
	}
}

type fakeS3 struct {
	objects map[string]string
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, fmt.Errorf("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return &s3.PutObjectOutput{}, nil
}

func TestLoadTablesFromS3(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"data/commute/stacked.csv": stackedCSV,
		"data/commute/wide.csv":    wideCSV,
	}}
	m := NewDefaultManager(testConfig(), cloudwriter.NewStaticS3ClientProvider(client))
	tables, err := LoadTables(context.Background(), m, "s3://data/commute/stacked.csv", "s3://data/commute/wide.csv")
	if err != nil {
		t.Fatalf("LoadTables: %v", err)
	}
	if len(tables.Wide) != 2 {
		t.Fatalf("expected 2 wide rows, got %d", len(tables.Wide))
	}

	if _, err := LoadTables(context.Background(), m, "s3://data/none.csv", "s3://data/commute/wide.csv"); err == nil {
		t.Fatal("expected error for missing object")
	}
}
