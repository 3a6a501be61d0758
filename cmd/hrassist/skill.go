package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/skillsys/hrassist/pkg/presenter"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage the skill tree",
	Long:  `List, inspect, create and delete skills. Mutations are mirrored to the configured GitHub repository first.`,
}

var skillListCmd = withTracing(&cobra.Command{
	Use:   "list",
	Short: "List skills with their manifest metadata",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		svc, err := newSkillService(ctx, cfg)
		if err != nil {
			return err
		}

		list, err := svc.List(ctx)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return presenter.JSON(list)
		}
		if len(list) == 0 {
			presenter.Info("No skills found in " + svc.Root())
			return nil
		}

		rows := make([][]string, 0, len(list))
		for _, s := range list {
			rows = append(rows, []string{s.Name, s.DisplayName, strconv.FormatBool(s.UserInvocable), s.Description})
		}
		presenter.Table([]string{"NAME", "DISPLAY NAME", "INVOCABLE", "DESCRIPTION"}, rows)
		return nil
	},
})

var skillTreeCmd = withTracing(&cobra.Command{
	Use:   "tree <name>",
	Short: "Show the file tree of a skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := newSkillService(ctx, cfg)
		if err != nil {
			return err
		}

		files, err := svc.Tree(ctx, args[0])
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return presenter.JSON(map[string]any{"name": args[0], "files": files})
		}
		presenter.Tree(args[0], files)
		return nil
	},
})

var skillCreateCmd = withTracing(&cobra.Command{
	Use:   "create <name>",
	Short: "Create a skill with a default SKILL.md",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := newSkillService(ctx, cfg)
		if err != nil {
			return err
		}

		description, _ := cmd.Flags().GetString("description")
		if err := svc.Create(ctx, args[0], description); err != nil {
			return err
		}

		presenter.Success(fmt.Sprintf("Created skill %s", args[0]))
		return nil
	},
})

var skillDeleteCmd = withTracing(&cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a skill locally and from the mirror",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := newSkillService(ctx, cfg)
		if err != nil {
			return err
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			if !presenter.Confirm(fmt.Sprintf("Delete skill %s and all of its files?", args[0])) {
				presenter.Warning("Aborted")
				return nil
			}
		}

		if err := svc.Delete(ctx, args[0]); err != nil {
			return err
		}

		presenter.Success(fmt.Sprintf("Deleted skill %s", args[0]))
		return nil
	},
})

func init() {
	skillListCmd.Flags().Bool("json", false, "Print the list as JSON")
	skillTreeCmd.Flags().Bool("json", false, "Print the tree as JSON")
	skillCreateCmd.Flags().String("description", "", "Description written to the manifest")
	skillDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	skillCmd.AddCommand(skillListCmd, skillTreeCmd, skillCreateCmd, skillDeleteCmd)
}
