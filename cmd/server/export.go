package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"commute/internal/cloudwriter"
	"commute/internal/logging"
	"commute/internal/output"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Load the tables and write them as Parquet files",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, s3Provider, tables, err := loadTables(ctx)
		if err != nil {
			logging.Errorf("%v", err)
			return err
		}

		out, err := output.NewParquetOutput(cfg.OutputFolder)
		if err != nil {
			return err
		}
		files, err := out.WriteTables(tables)
		if err != nil {
			return err
		}
		if cfg.UploadURL == "" {
			return nil
		}
		return output.Upload(cloudwriter.NewS3WriterFactory(ctx, s3Provider), cfg.UploadURL, files)
	},
}

func init() {
	exportCmd.Flags().String("out", "./export", "Folder the Parquet files are written to")
	exportCmd.Flags().String("upload", "", "Optional s3://bucket/prefix to upload the files to")
	cobra.CheckErr(viper.BindPFlag("output_folder", exportCmd.Flags().Lookup("out")))
	cobra.CheckErr(viper.BindPFlag("upload_url", exportCmd.Flags().Lookup("upload")))
}
