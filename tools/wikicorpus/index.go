package main

import (
	"compress/bzip2"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dustin/go-wikicorpus"
)

var indexCmd = &cobra.Command{
	Use:   "index <index.txt.bz2>",
	Short: "Print the entries of a multistream index",
	Long: `Print offset:pageid:title for every entry, with offsets corrected
for 32-bit wraparound. With --summary, print one offset and page count
per compressed stream instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().Bool("summary", false, "print offset and count per stream")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	summary, _ := cmd.Flags().GetBool("summary")

	r, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer r.Close()
	bz := bzip2.NewReader(r)

	if summary {
		isr, err := wikicorpus.NewIndexSummaryReader(bz)
		if err != nil {
			return err
		}
		for {
			offset, count, err := isr.Next()
			if count > 0 {
				fmt.Printf("%d\t%d\n", offset, count)
			}
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
		}
	}

	ir := wikicorpus.NewIndexReader(bz)
	for {
		e, err := ir.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println(e.String())
	}
}
