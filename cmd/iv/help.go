package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/amonks/interview/interview"
	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Help about any command",
	Args:  cobra.ArbitraryArgs,
	RunE:  runHelp,
}

var helpTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Show prompt templates and where to override them",
	Args:  cobra.NoArgs,
	RunE:  runHelpTemplates,
}

var helpDomainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List practice domains and their coding languages",
	Args:  cobra.NoArgs,
	RunE:  runHelpDomains,
}

func init() {
	rootCmd.SetHelpCommand(helpCmd)
	helpCmd.AddCommand(helpTemplatesCmd, helpDomainsCmd)
}

func runHelp(cmd *cobra.Command, args []string) error {
	root := cmd.Root()
	if len(args) == 0 {
		return root.Help()
	}

	target, _, err := root.Find(args)
	if err != nil || target == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Unknown help topic %q\n", strings.Join(args, " "))
		return root.Help()
	}

	return target.Help()
}

func runHelpTemplates(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dir, err := promptsDir(cfg)
	if err != nil {
		return err
	}

	var builder strings.Builder
	for _, name := range interview.TemplateNames() {
		fmt.Fprintf(&builder, "%s\n", name)
		fmt.Fprintf(&builder, "  Override: %s\n", filepath.Join(dir, name))
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), builder.String())
	return err
}

func runHelpDomains(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, domain := range interview.Domains() {
		if _, err := fmt.Fprintf(out, "%-18s %s\n", domain, interview.LanguageForDomain(domain)); err != nil {
			return err
		}
	}
	return nil
}
