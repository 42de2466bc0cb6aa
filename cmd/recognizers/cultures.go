package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCulturesCmd(v *viper.Viper) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "cultures",
		Short: "List the loaded cultures",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			p, err := loadProfile(v)
			if err != nil {
				return err
			}
			rec, err := newRecognizer(p)
			if err != nil {
				return err
			}
			return printCultures(cmd.OutOrStdout(), output, rec.Cultures())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format, text or json")
	return cmd
}
