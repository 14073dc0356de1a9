package cmd

import (
	"fmt"

	"aiprov/internal/features"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Manage which tracking capabilities are active",
}

var featuresListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every feature and whether it is enabled",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := repoRoot()
		if err != nil {
			return err
		}
		set, err := features.Load(root)
		if err != nil {
			return err
		}

		on := color.New(color.FgGreen).SprintFunc()
		off := color.New(color.Faint).SprintFunc()

		fmt.Printf("Profile: %s\n\n", set.Profile)
		for _, f := range features.All {
			info, _ := features.Lookup(f)
			mark := off("✗")
			if set.IsEnabled(f) {
				mark = on("✓")
			}
			fmt.Printf("%s %-18s [%s] %s\n", mark, f, info.Status, info.Description)
		}
		return nil
	},
}

var featuresEnableCmd = &cobra.Command{
	Use:   "enable <feature>",
	Short: "Enable a feature and its dependencies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := repoRoot()
		if err != nil {
			return err
		}
		set, err := features.Load(root)
		if err != nil {
			return err
		}
		if err := set.Enable(features.Feature(args[0])); err != nil {
			return err
		}
		if err := features.Save(root, set); err != nil {
			return err
		}
		fmt.Printf("%s enabled %s\n", color.GreenString("✓"), args[0])
		return nil
	},
}

var featuresDisableCmd = &cobra.Command{
	Use:   "disable <feature>",
	Short: "Disable a feature and everything depending on it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := repoRoot()
		if err != nil {
			return err
		}
		set, err := features.Load(root)
		if err != nil {
			return err
		}
		disabled, err := set.Disable(features.Feature(args[0]))
		if err != nil {
			return err
		}
		if err := features.Save(root, set); err != nil {
			return err
		}
		for _, f := range disabled {
			fmt.Printf("%s disabled %s\n", color.YellowString("-"), f)
		}
		return nil
	},
}

var featuresProfileCmd = &cobra.Command{
	Use:   "profile <name>",
	Short: "Switch to a feature profile",
	Long:  "Available profiles: minimal, standard, full, research.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := repoRoot()
		if err != nil {
			return err
		}
		set, err := features.FromProfile(args[0])
		if err != nil {
			return err
		}
		if err := features.Save(root, set); err != nil {
			return err
		}
		fmt.Printf("%s switched to %q (%d features)\n", color.GreenString("✓"), args[0], len(set.List()))
		return nil
	},
}

func init() {
	featuresCmd.AddCommand(featuresListCmd)
	featuresCmd.AddCommand(featuresEnableCmd)
	featuresCmd.AddCommand(featuresDisableCmd)
	featuresCmd.AddCommand(featuresProfileCmd)
	rootCmd.AddCommand(featuresCmd)
}
