package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"billed/internal/amqp"
	"billed/internal/core"
)

var publishFile string

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Submit bills to the ingest queue",
	Long: `Publish the bills of a YAML file, one mapping or a list of them, as
bill submitted messages. billed-worker stores them.

Example:
  billsctl publish --file bill.yaml`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVarP(&publishFile, "file", "f", "", "YAML file holding the bills (- for stdin)")
	_ = publishCmd.MarkFlagRequired("file")
}

func runPublish(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if publishFile != "-" {
		f, err := os.Open(publishFile)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	toSend, err := decodeBills(r)
	if err != nil {
		return err
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	defer client.Close()

	for _, b := range toSend {
		if err := client.PublishBillSubmitted(cmd.Context(), b); err != nil {
			return fmt.Errorf("publish bill %q: %w", b.ID, err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "published %d bill(s)\n", len(toSend))
	return nil
}

// decodeBills reads either a single bill mapping or a sequence of bills.
// Ids may be left empty for the worker to assign; emails may not.
func decodeBills(r io.Reader) ([]core.Bill, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("no bills in input")
		}
		return nil, fmt.Errorf("decode bills: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	var out []core.Bill
	switch root.Kind {
	case yaml.MappingNode:
		var b core.Bill
		if err := root.Decode(&b); err != nil {
			return nil, fmt.Errorf("decode bill: %w", err)
		}
		out = []core.Bill{b}
	case yaml.SequenceNode:
		if err := root.Decode(&out); err != nil {
			return nil, fmt.Errorf("decode bills: %w", err)
		}
	default:
		return nil, fmt.Errorf("expected a bill or a list of bills")
	}

	for i, b := range out {
		if b.Email == "" {
			return nil, fmt.Errorf("bill %d: %w", i+1, core.ErrEmptyEmail)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no bills in input")
	}
	return out, nil
}
