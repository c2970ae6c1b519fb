package cli

import (
	"fmt"
	"text/tabwriter"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/export"

	"github.com/spf13/cobra"
)

func newGenerateCmd(open opener) *cobra.Command {
	var urls []string
	var format string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Fetch the given URLs, generate a quiz and store it",
		Example: "  quizctl generate --url https://en.wikipedia.org/wiki/Alan_Turing\n" +
			"  quizctl generate --url https://a --url https://b --format yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			svc, closeFn, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			resp, err := svc.GenerateQuiz(cmd.Context(), &dto.GenerateQuizRequest{URLs: urls})
			if err != nil {
				return err
			}
			return export.Write(cmd.OutOrStdout(), resp, f)
		},
	}
	cmd.Flags().StringSliceVarP(&urls, "url", "u", nil, "source URL (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newHistoryCmd(open opener) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored quizzes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			items, err := svc.ListHistory(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tTITLE")
			for _, it := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\n", it.ID, it.CreatedAt.Format("2006-01-02 15:04"), it.Title)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of quizzes to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of quizzes to skip")
	return cmd
}

func newShowCmd(open opener) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print one stored quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			svc, closeFn, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			resp, err := svc.GetQuiz(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return export.Write(cmd.OutOrStdout(), resp, f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	return cmd
}

func newExportCmd(open opener) *cobra.Command {
	var id, out, format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stored quiz (the latest one by default) to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := export.FormatFromPath(out)
			if format != "" {
				var err error
				if f, err = export.ParseFormat(format); err != nil {
					return err
				}
			}

			svc, closeFn, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			if id == "" {
				latest, err := svc.ListHistory(cmd.Context(), 1, 0)
				if err != nil {
					return err
				}
				if len(latest) == 0 {
					return domain.NewNotFoundError("No quizzes stored yet")
				}
				id = latest[0].ID
			}

			resp, err := svc.GetQuiz(cmd.Context(), id)
			if err != nil {
				return err
			}

			if out == "" {
				return export.Write(cmd.OutOrStdout(), resp, f)
			}
			if err := export.WriteFile(out, resp, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported quiz %s to %s\n", resp.ID, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "quiz id (defaults to the most recent quiz)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (stdout when empty)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json or yaml (defaults to the file extension)")
	return cmd
}
