// Command genmock generates deterministic synthetic snow, groundwater and AQI
// CSV fixtures shaped like the real datasets. The same seed always produces
// byte-identical files, so fixtures can be regenerated and diffed.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock -from 2000 -to 2020 -seed 42
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for the generated CSV files")
	from := flag.Int("from", 2000, "first water year")
	to := flag.Int("to", 2020, "last water year")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	cfg := genConfig{From: *from, To: *to, Seed: *seed}
	if err := cfg.validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	files := generate(cfg)
	for _, name := range []string{snowFile, groundwaterFile, aqiFile} {
		path := filepath.Join(*out, name)
		if err := writeCSV(path, files[name]); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		log.Printf("wrote %s: %d rows", path, len(files[name])-1)
	}
	return nil
}

// writeCSV writes records (header first) as a CSV file.
func writeCSV(path string, records [][]string) error {
	df := dataframe.LoadRecords(records, dataframe.DetectTypes(false), dataframe.HasHeader(true))
	if df.Err != nil {
		return df.Err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := df.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
