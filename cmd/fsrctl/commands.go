package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"opsconsole/internal/catalog"
	"opsconsole/internal/report"
	"opsconsole/internal/service/export"
	"opsconsole/internal/storage"
)

// templateFlags выбирает шаблон: встроенный по типу или YAML-файл.
type templateFlags struct {
	equipmentType string
	templatePath  string
}

func (f *templateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.equipmentType, "type", "t", "", "equipment type from the bundled catalog")
	cmd.Flags().StringVar(&f.templatePath, "template", "", "path to a template YAML file")
}

func (f *templateFlags) resolve(record []byte) (storage.Template, error) {
	if f.templatePath != "" {
		data, err := os.ReadFile(f.templatePath)
		if err != nil {
			return storage.Template{}, err
		}
		return catalog.Parse(data)
	}

	equipmentType := f.equipmentType
	if equipmentType == "" && record != nil {
		equipmentType = report.PersistedType(record)
	}
	if equipmentType == "" {
		return storage.Template{}, errors.New("equipment type is unknown: pass --type or --template")
	}

	return catalog.Get(equipmentType)
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List bundled equipment templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := catalog.Load()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tTOGGLE GROUP\tSECTIONS\tNAME")
			for _, t := range templates {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", t.EquipmentType, report.ToggleGroupName(t), len(t.Sections), t.Name)
			}
			return tw.Flush()
		},
	}
}

func newMaterializeCmd() *cobra.Command {
	var tf templateFlags

	cmd := &cobra.Command{
		Use:   "materialize",
		Short: "Print the empty form of a template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := tf.resolve(nil)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report.Materialize(tmpl))
		},
	}
	tf.register(cmd)

	return cmd
}

func newReconcileCmd() *cobra.Command {
	var tf templateFlags

	cmd := &cobra.Command{
		Use:   "reconcile <record.json|->",
		Short: "Merge a stored record onto its template and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			tmpl, err := tf.resolve(record)
			if err != nil {
				return err
			}

			form, err := report.ReconcileJSON(tmpl, record)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), form)
		},
	}
	tf.register(cmd)

	return cmd
}

func newRecoverCmd() *cobra.Command {
	var fallback string

	cmd := &cobra.Command{
		Use:   "recover <json-value>",
		Short: "Show how a damaged stored value is read back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value any
			dec := json.NewDecoder(bytes.NewReader([]byte(args[0])))
			dec.UseNumber()
			if err := dec.Decode(&value); err != nil {
				return fmt.Errorf("value is not JSON: %w", err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), report.RecoverString(value, fallback))
			return err
		},
	}
	cmd.Flags().StringVar(&fallback, "fallback", "", "value returned for null")

	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		tf  templateFlags
		out string
	)

	cmd := &cobra.Command{
		Use:   "export <record.json|->",
		Short: "Write a stored record to an .xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			tmpl, err := tf.resolve(record)
			if err != nil {
				return err
			}

			form, err := report.ReconcileJSON(tmpl, record)
			if err != nil {
				return err
			}

			data, err := export.Render(form, tmpl)
			if err != nil {
				return err
			}

			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "written %s (%d bytes)\n", out, len(data))
			return nil
		},
	}
	tf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "report.xlsx", "output file")

	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
