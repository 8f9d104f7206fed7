package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/schooladmin/services/spreadsheet"
)

var errFormat = errors.New("unknown format")

// formatOf picks the format flag, or the extension of path.
func formatOf(format, path string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".xlsx":
		return "xlsx"
	}
	return "json"
}

func (cli *commandLine) exportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every collection to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			data, err := cli.school.Export(cmd.Context())
			if err != nil {
				return err
			}

			format = formatOf(format, out)
			if format == "xlsx" && out == "" {
				return errors.New("xlsx export needs --out")
			}
			w := cli.out
			if out != "" {
				f, ferr := os.Create(out)
				if ferr != nil {
					return ferr
				}
				defer func() {
					if cerr := f.Close(); err == nil {
						err = cerr
					}
				}()
				w = f
			}

			switch format {
			case "json", "yaml":
				err = encode(w, data, format)
			case "xlsx":
				err = spreadsheet.Export(data, cli.school.Collections(), w)
			default:
				return errors.Wrap(errFormat, format)
			}
			if err == nil && out != "" {
				fmt.Fprintf(cli.out, "exported %d collections to %s\n", len(data), out)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json, yaml or xlsx (default: from --out, else json)")
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}

func (cli *commandLine) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load records from a file",
	}
	cmd.AddCommand(cli.importBackupCmd(), cli.importStudentsCmd())
	return cmd
}

func (cli *commandLine) importBackupCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:         "backup FILE",
		Short:       "Overwrite the collections found in a json or yaml export",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{skipSeed: "y"},
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readFile(args[0])
			if err != nil {
				return err
			}
			if formatOf("", args[0]) == "yaml" {
				if raw, err = yamlToJSON(raw); err != nil {
					return err
				}
			}
			var data map[string]json.RawMessage
			if err = json.Unmarshal(raw, &data); err != nil {
				return errors.Wrapf(err, "reading %s", args[0])
			}

			if !yes {
				if err = cli.confirm(fmt.Sprintf("Overwrite %d collections?", len(data))); err != nil {
					return err
				}
			}
			if err = cli.school.Import(cmd.Context(), data); err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "imported %d collections\n", len(data))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (cli *commandLine) importStudentsCmd() *cobra.Command {
	var classID string
	cmd := &cobra.Command{
		Use:   "students FILE.xlsx",
		Short: "Add the students listed in a workbook to a class",
		Long: `Add the students listed in the first sheet of a workbook to a class.

The first row names the columns (name, email, phone, roll number, section, parent name,
parent phone, parent email, date of birth, ...). Without a name column, column A is read
as the roll number and column B as the name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := spreadsheet.ImportStudents(cmd.Context(), cli.school.Students, cli.school.Classes, f, classID, cli.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "imported %d students, skipped %d rows\n", res.Imported, res.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&classID, "class", "", "id of the class receiving the students")
	_ = cmd.MarkFlagRequired("class")
	return cmd
}

func readFile(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
