package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/factform/packages/form"
	"github.com/abdul-hamid-achik/factform/packages/log"
	"github.com/abdul-hamid-achik/factform/packages/output"
)

var (
	fieldsFormFlag string
	fieldsJSONFlag bool
)

var fieldsCmd = &cobra.Command{
	Use:   "fields <page.html>",
	Short: "Print the fields a form would send",
	Long: `Print the name/value mapping collected from a form, without sending
anything. Without --form every form of the page is printed.

Examples:
  factform fields index.html
  factform fields index.html --form askForm --set question="what do cats eat"
  factform fields index.html --json`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: fieldsCommand,
}

func init() {
	fieldsCmd.Flags().StringVarP(&fieldsFormFlag, "form", "f", "", "Id of the form to print (default: all forms)")
	fieldsCmd.Flags().BoolVar(&fieldsJSONFlag, "json", false, "Print the mapping as JSON")
	fieldsCmd.Flags().StringArrayVar(&setFlags, "set", nil, "Set a control value before collecting (name=value, repeatable, needs --form)")
	fieldsCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("FACTFORM_NO_COLOR", false), "Disable colored output (env: FACTFORM_NO_COLOR)")
}

func fieldsCommand(cmd *cobra.Command, args []string) error {
	if len(setFlags) > 0 && fieldsFormFlag == "" {
		return usageError(fmt.Errorf("--set needs --form"))
	}

	doc, err := loadPage(args[0], fieldsFormFlag, log.NewNoopLogger())
	if err != nil {
		return err
	}
	if fieldsFormFlag != "" && !doc.HasForm(fieldsFormFlag) {
		return usageError(fmt.Errorf("%w: %s", form.ErrFormNotFound, fieldsFormFlag))
	}

	ids := doc.FormIDs()
	if fieldsFormFlag != "" {
		ids = []string{fieldsFormFlag}
	}

	if fieldsJSONFlag {
		all := make(map[string]form.Fields, len(ids))
		for _, id := range ids {
			all[id] = doc.Fields(id)
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(all)
	}

	formatter := output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithNoColor(noColorFlag),
	)
	for _, id := range ids {
		formatter.FormatFields(id, doc.Fields(id))
	}
	return nil
}
