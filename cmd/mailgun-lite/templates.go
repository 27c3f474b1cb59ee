package main

import (
	"github.com/spf13/cobra"

	"github.com/shineum/mailgun-lite/pkg/mailgun"
)

func newTemplatesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage stored templates on the sending domain",
	}

	cmd.AddCommand(newTemplatesCreateCmd(a))
	cmd.AddCommand(newTemplatesListCmd(a))
	cmd.AddCommand(newTemplatesDeleteCmd(a))

	return cmd
}

func newTemplatesCreateCmd(a *app) *cobra.Command {
	var tmpl mailgun.Template

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Store a new template",
		Args:  cobra.NoArgs,
		Example: `  mailgun-lite templates create --name welcome --description "Welcome email" \
    --template "Hello {{name}}" --engine handlebars`,
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, _ []string) error {
		client, err := a.client()
		if err != nil {
			return err
		}

		resp, err := client.CreateTemplate(cmd.Context(), tmpl)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	})

	flags := cmd.Flags()
	flags.StringVar(&tmpl.Name, "name", "", "template name (required)")
	flags.StringVar(&tmpl.Description, "description", "", "template description (required)")
	flags.StringVar(&tmpl.Template, "template", "", "initial version content")
	flags.StringVar(&tmpl.Tag, "tag", "", "initial version tag")
	flags.StringVar(&tmpl.Engine, "engine", "", "template engine, e.g. handlebars")
	flags.StringVar(&tmpl.Comment, "comment", "", "initial version comment")

	return cmd
}

func newTemplatesListCmd(a *app) *cobra.Command {
	var (
		name     string
		versions bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates, or show one with --name",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, _ []string) error {
		client, err := a.client()
		if err != nil {
			return err
		}

		resp, err := client.GetTemplates(cmd.Context(), name, versions)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	})

	cmd.Flags().StringVar(&name, "name", "", "fetch a single template by name")
	cmd.Flags().BoolVar(&versions, "versions", false, "include versions (only with --name)")

	return cmd
}

func newTemplatesDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a template and all its versions",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		client, err := a.client()
		if err != nil {
			return err
		}

		resp, err := client.DeleteTemplate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	})
	return cmd
}
