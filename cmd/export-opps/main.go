package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/mverot/arbscan/internal/oplog"
)

// OpportunityRow is the parquet schema for exported opportunity records.
type OpportunityRow struct {
	Id        int64  `parquet:"name=id, type=INT64"`
	Timestamp string `parquet:"name=timestamp, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Message   string `parquet:"name=message, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// Dumps the sqlite opportunity store to a parquet file for offline
// analysis.
func main() {
	dbPath := flag.String("db", "data/arbscan.db", "path to opportunity store")
	outPath := flag.String("out", "opportunities.parquet", "output parquet file")
	flag.Parse()

	store, err := oplog.NewStore(*dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close()

	fw, err := local.NewLocalFileWriter(*outPath)
	if err != nil {
		log.Fatalf("create output file: %v", err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(OpportunityRow), 2)
	if err != nil {
		log.Fatalf("create parquet writer: %v", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	exported := 0
	err = store.AllOpportunities(func(r oplog.Record) error {
		row := OpportunityRow{
			Id:        r.ID,
			Timestamp: r.Timestamp,
			Message:   r.Message,
		}
		if err := pw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", r.ID, err)
		}
		exported++
		return nil
	})
	if err != nil {
		log.Fatalf("export: %v", err)
	}

	if err := pw.WriteStop(); err != nil {
		log.Fatalf("finalize parquet file: %v", err)
	}

	fmt.Printf("exported %d opportunity records to %s\n", exported, *outPath)
}
