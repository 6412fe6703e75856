package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/emandor/econoguide_service/internal/quiz"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Generate one quiz and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		svc, err := newService(cmd, cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
		defer cancel()

		qs, err := svc.GenerateQuestions(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(quiz.QuestionsResponse{Questions: qs})
	},
}
