package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/freedom_case_2/replydraft/internal/models"
	"github.com/freedom_case_2/replydraft/internal/templates"
)

var (
	listCategory string
	importFile   string
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Inspect and import the template library",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates with their outcome statistics",
	Args:  cobra.NoArgs,
	RunE:  runTemplatesList,
}

var templatesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a YAML template library into the configured store",
	Long: `Imports every template of the library file, keeping historic usage and
success counts. Without DATABASE_URL the import only validates the file.`,
	Args: cobra.NoArgs,
	RunE: runTemplatesImport,
}

func init() {
	templatesListCmd.Flags().StringVar(&listCategory, "category", "", "Only list templates of this category")
	templatesImportCmd.Flags().StringVarP(&importFile, "file", "f", "", "Template library YAML file")
	_ = templatesImportCmd.MarkFlagRequired("file")

	templatesCmd.AddCommand(templatesListCmd, templatesImportCmd)
	rootCmd.AddCommand(templatesCmd)
}

func runTemplatesList(cmd *cobra.Command, _ []string) error {
	if listCategory != "" && !models.IsResponseType(listCategory) {
		return fmt.Errorf("unknown category %q", listCategory)
	}
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := a.Templates.List(cmd.Context(), listCategory)
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}
	return writeJSON(cmd.OutOrStdout(), list)
}

func runTemplatesImport(cmd *cobra.Command, _ []string) error {
	lib, err := templates.LoadLibrary(importFile)
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := templates.Import(cmd.Context(), a.Templates, lib)
	if err != nil {
		return fmt.Errorf("failed to import templates: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d templates from %s\n", n, importFile)
	return nil
}
