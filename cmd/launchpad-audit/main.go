package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	lpstate "launchpad/core/state"
	"launchpad/crypto"
	"launchpad/native/launchpad"
	"launchpad/storage"
)

// settlementRow is one investor position in the export.
type settlementRow struct {
	Symbol        string `parquet:"name=symbol, type=BYTE_ARRAY, convertedtype=UTF8"`
	Investor      string `parquet:"name=investor, type=BYTE_ARRAY, convertedtype=UTF8"`
	Invested      string `parquet:"name=invested_amount, type=BYTE_ARRAY, convertedtype=UTF8"`
	TokenAmount   string `parquet:"name=token_amount, type=BYTE_ARRAY, convertedtype=UTF8"`
	BatchIndex    int64  `parquet:"name=batch_index, type=INT64"`
	BatchExecuted bool   `parquet:"name=batch_executed, type=BOOLEAN"`
	Outcome       string `parquet:"name=outcome, type=BYTE_ARRAY, convertedtype=UTF8"`
}

func main() {
	dataDir := flag.String("data", "./launchpad-data", "Path to the node data directory")
	outPath := flag.String("out", "settlement-report.parquet", "Output parquet file")
	flag.Parse()

	db, err := storage.NewLevelDB(*dataDir)
	if err != nil {
		fatal(fmt.Errorf("open database: %w", err))
	}
	defer db.Close()

	manager := lpstate.NewManager(db)
	engine := launchpad.NewEngine()
	engine.SetState(manager)

	globalSize, err := engine.MaxBatchSize()
	if err != nil {
		fatal(fmt.Errorf("load batch size: %w", err))
	}

	symbols, err := manager.LaunchpadSymbols()
	if err != nil {
		fatal(fmt.Errorf("list projects: %w", err))
	}

	rows := make([]*settlementRow, 0)
	for _, symbol := range symbols {
		project, ok, err := manager.LaunchpadProjectGet(symbol)
		if err != nil {
			fatal(fmt.Errorf("load project %s: %w", symbol, err))
		}
		if !ok {
			continue
		}
		rows = append(rows, projectRows(project, globalSize)...)
	}

	if err := writeParquet(*outPath, rows); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s (%d rows)\n", *outPath, len(rows))
}

func projectRows(project *launchpad.Project, globalSize uint64) []*settlementRow {
	outcome := "open"
	switch {
	case project.Process.Succeed:
		outcome = "success"
	case project.Process.Failed:
		outcome = "failed"
	case !project.Process.Open:
		outcome = "pending"
	}

	batchSize := project.EffectiveBatchSize(globalSize)
	rows := make([]*settlementRow, 0, len(project.Investors))
	for i, inv := range project.Investors {
		index := uint64(i) / batchSize
		executed := false
		if index < uint64(len(project.Batches)) {
			executed = project.Batches[index]
		}
		tokenAmount := "0"
		if project.Token.Set {
			tokenAmount = launchpad.TokensFor(inv.Amount, project.Token.Multiplier).String()
		}
		rows = append(rows, &settlementRow{
			Symbol:        project.Symbol,
			Investor:      crypto.MustNewAddress(crypto.LaunchpadPrefix, inv.Investor[:]).String(),
			Invested:      inv.Amount.String(),
			TokenAmount:   tokenAmount,
			BatchIndex:    int64(index),
			BatchExecuted: executed,
			Outcome:       outcome,
		})
	}
	return rows
}

func writeParquet(path string, rows []*settlementRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet: %w", err)
	}
	fw := writerfile.NewWriterFile(file)
	pw, err := writer.NewParquetWriter(fw, new(settlementRow), 1)
	if err != nil {
		file.Close()
		return fmt.Errorf("parquet schema: %w", err)
	}
	pw.RowGroupSize = 128 * 1024 * 1024
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			pw.WriteStop()
			file.Close()
			return fmt.Errorf("parquet write: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		file.Close()
		return fmt.Errorf("parquet flush: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close parquet file: %w", err)
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
