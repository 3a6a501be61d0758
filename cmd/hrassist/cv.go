package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skillsys/hrassist/pkg/hr"
	"github.com/skillsys/hrassist/pkg/presenter"
)

var cvCmd = &cobra.Command{
	Use:   "cv",
	Short: "Work with candidate CVs",
}

var cvParseCmd = withTracing(&cobra.Command{
	Use:   "parse [file]",
	Short: "Parse CV text into a structured JSON record",
	Long: `Parse CV text read from file, or from stdin when no file is given, into
a JSON record of personal data, education and skills. Skills are matched
against the reference lists in the HR database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		client, err := requireAnthropic(cfg)
		if err != nil {
			return err
		}

		conn, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		result, err := newCVParser(&client, hr.NewStore(conn), cfg).Parse(ctx, text)
		if err != nil {
			return err
		}
		return presenter.JSON(result)
	},
})

func readInput(cmd *cobra.Command, args []string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", errors.Wrap(err, "failed to open CV file")
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, "failed to read CV text")
	}
	return string(data), nil
}

func init() {
	cvCmd.AddCommand(cvParseCmd)
}
