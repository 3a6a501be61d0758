package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/skillsys/hrassist/pkg/hr"
	"github.com/skillsys/hrassist/pkg/presenter"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Search the employee directory",
}

var candidatesFindCmd = withTracing(&cobra.Command{
	Use:   "find",
	Short: "Find employees by skill, or by position and department",
	Example: `  hrassist candidates find --skill Go --skill Kubernetes --min-exp 3
  hrassist candidates find --position engineer --department platform`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		conn, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		q, err := candidateQueryFromFlags(cmd)
		if err != nil {
			return err
		}

		result, err := hr.NewStore(conn).FindCandidates(ctx, q)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return presenter.JSON(result)
		}
		if len(result.Candidates) == 0 {
			message := result.Message
			if message == "" {
				message = "No candidates found"
			}
			presenter.Warning(message)
			return nil
		}
		presenter.Table([]string{"ID", "NAME", "POSITION", "DEPARTMENT", "SKILLS"}, candidateRows(result.Candidates))
		return nil
	},
})

var candidatesSkillsCmd = withTracing(&cobra.Command{
	Use:   "skills",
	Short: "List the technical skills held by at least one employee",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		conn, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		names, err := hr.NewStore(conn).ListSkillNames(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			presenter.Info(name)
		}
		return nil
	},
})

func candidateQueryFromFlags(cmd *cobra.Command) (hr.CandidateQuery, error) {
	flags := cmd.Flags()
	q := hr.CandidateQuery{}
	q.Skills, _ = flags.GetStringSlice("skill")
	q.Position, _ = flags.GetString("position")
	q.Department, _ = flags.GetString("department")
	q.Limit, _ = flags.GetInt("limit")

	if flags.Changed("min-exp") {
		minExp, _ := flags.GetFloat64("min-exp")
		if minExp < 0 {
			return q, fmt.Errorf("min-exp must not be negative, got %g", minExp)
		}
		q.MinExperience = &minExp
	}
	return q, nil
}

func candidateRows(candidates []hr.Candidate) [][]string {
	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		skills := make([]string, 0, len(c.Skills))
		for _, s := range c.Skills {
			skills = append(skills, fmt.Sprintf("%s (%gy)", s.Name, s.Years))
		}
		rows = append(rows, []string{
			c.EmployeeID,
			strings.TrimSpace(c.FirstName + " " + c.LastName),
			c.Position,
			c.Department,
			strings.Join(skills, ", "),
		})
	}
	return rows
}

func addCandidateFlags(flags *pflag.FlagSet) {
	flags.StringSlice("skill", nil, "Skill name; repeat or separate with commas")
	flags.Float64("min-exp", 0, "Minimum years of experience in a matching skill")
	flags.String("position", "", "Partial position name, used without --skill")
	flags.String("department", "", "Partial department name, used without --skill")
	flags.Int("limit", hr.DefaultLimit, "Maximum number of candidates")
	flags.Bool("json", false, "Print the result as JSON")
}

func init() {
	addCandidateFlags(candidatesFindCmd.Flags())
	candidatesCmd.AddCommand(candidatesFindCmd, candidatesSkillsCmd)
}
