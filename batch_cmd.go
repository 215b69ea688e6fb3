package main

import (
	"fmt"

	"github.com/dgnsrekt/voicegen/internal/batch"
	"github.com/dgnsrekt/voicegen/internal/export"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	batchJob = batch.Job{Count: 10, Prefix: "track", Ext: export.FormatCSV.Ext()}

	batchCmd = &cobra.Command{
		Use:   "batch",
		Short: "Generate many pitch tracks at once",
		Long: paragraph(fmt.Sprintf("\n%s independent tracks concurrently, one file per track. "+
			"With --seed set, track i uses seed+i so the batch can be reproduced.", keyword("Generate"))),
		Example: paragraph("voicegen batch --count 100 --dir ./tracks\nvoicegen batch -c female --seed 1 --ext .json.zst --dir ./tracks"),
		Args:    cobra.NoArgs,
		RunE:    runBatch,
	}
)

func runBatch(cmd *cobra.Command, _ []string) error {
	cfg, err := trackConfig()
	if err != nil {
		return err
	}

	job := batchJob
	job.Config = cfg
	job.Dir = expandPath(job.Dir)

	results, err := batch.Run(cmd.Context(), job)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, r := range results {
		fmt.Fprintf(w, "%s %s\n", r.Path, faint(humanize.Bytes(uint64(r.Bytes)))) //nolint:gosec
	}
	fmt.Fprintf(w, "Wrote %s tracks (%s)\n",
		keyword(humanize.Comma(int64(len(results)))), humanize.Bytes(uint64(batch.TotalBytes(results)))) //nolint:gosec
	return nil
}

func init() {
	batchCmd.Flags().IntVar(&batchJob.Count, "count", batchJob.Count, "number of tracks")
	batchCmd.Flags().IntVar(&batchJob.Workers, "workers", 0, "concurrent workers (default: one per CPU)")
	batchCmd.Flags().StringVar(&batchJob.Dir, "dir", ".", "output directory")
	batchCmd.Flags().StringVar(&batchJob.Prefix, "prefix", batchJob.Prefix, "file name prefix")
	batchCmd.Flags().StringVar(&batchJob.Ext, "ext", batchJob.Ext, "file extension selecting the format, e.g. .csv or .json.zst")
}
