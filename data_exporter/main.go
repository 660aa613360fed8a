package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"log"
	"os"
	"strconv"
	"text/template"

	"github.com/alecthomas/kong"
	"github.com/xor-shift/rngkit/common"
)

func main() {
	var err error

	args := struct {
		Kind               string `name:"kind" short:"k" enum:"mt19937,xoshiro256ss" default:"xoshiro256ss" help:"Generator kind"`
		Seed               uint64 `name:"seed" short:"s" help:"Seed (32-bit for mt19937)"`
		State              string `name:"state" help:"Hex encoded state words, overrides the seed"`
		Cursor             int    `name:"cursor" help:"(mt19937 with --state only) index of the next state word"`
		Count              int    `name:"count" short:"n" default:"16" help:"Number of values to export"`
		Mode               string `name:"mode" short:"m" enum:"word,double,bounded,int,bytes,coarse" default:"word" help:"Derived output"`
		Bound              uint64 `name:"bound" short:"b" default:"100" help:"Exclusive upper bound for the bounded and int modes"`
		Out                string `name:"out" short:"o" default:"{{.Kind}}_{{.Seed}}_{{.Mode}}.{{.Format}}" help:"File to output to (templated), - for stdout"`
		Format             string `name:"format" short:"f" enum:"csv,json" default:"csv" help:"Data format"`
		ExportColumnTitles bool   `name:"export_column_titles" negatable:"" default:"true" help:"(applicable only to CSV outputs) whether to include column titles for CSV exports"`
	}{}

	_ = kong.Parse(&args)

	desc := common.Descriptor{
		Kind:   args.Kind,
		Seed:   args.Seed,
		State:  args.State,
		Cursor: args.Cursor,
	}

	gen, err := desc.Build()
	if err != nil {
		log.Fatalf("error while building the generator: %s", err)
	}

	rows, err := generate(gen, args.Mode, args.Bound, args.Count)
	if err != nil {
		log.Fatalf("error while generating: %s", err)
	}

	var outFileNameTemplate *template.Template
	if outFileNameTemplate, err = template.New("").Parse(args.Out); err != nil {
		log.Fatalf("error while creating the output filename template: %s", err)
	}

	outFileNameBuf := bytes.Buffer{}
	if err = outFileNameTemplate.Execute(&outFileNameBuf, args); err != nil {
		log.Fatalf("error while executing the output filename template: %s", err)
	}

	outFileName := outFileNameBuf.String()

	var out io.Writer = os.Stdout
	if outFileName != "-" {
		var outFile *os.File
		if outFile, err = os.Create(outFileName); err != nil {
			log.Fatalf("error while creating the output file \"%s\": %s", outFileName, err)
		}

		defer outFile.Close()
		out = outFile
	}

	switch args.Format {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		err = encoder.Encode(rows)
	default:
		err = writeCSV(out, rows, args.ExportColumnTitles)
	}

	if err != nil {
		log.Fatalf("error while writing \"%s\": %s", outFileName, err)
	}
}

func writeCSV(w io.Writer, rows []Row, columnTitles bool) error {
	csvWriter := csv.NewWriter(w)

	if columnTitles {
		_ = csvWriter.Write([]string{"Index", "Value"})
	}

	for _, row := range rows {
		_ = csvWriter.Write([]string{strconv.Itoa(row.Index), row.Value})
	}

	csvWriter.Flush()

	return csvWriter.Error()
}
