package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/36node/store-cli/internal/api"
)

func newFormIDsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "form-ids",
		Aliases: []string{"form-id", "formid"},
		Short:   "Save mini-program form IDs",
	}
	cmd.AddCommand(newFormIDsCreateCmd())
	return cmd
}

func newFormIDsCreateCmd() *cobra.Command {
	var user, formID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Save a form ID for a user",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := validateID("user", user); err != nil {
				return err
			}
			if err := validateID("form ID", formID); err != nil {
				return err
			}
			body := api.CreateFormIDBody{User: user, FormID: formID}
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				return s.client.FormID().CreateFormID(ctx, api.Request{Body: body})
			}, func(f api.FormID) error {
				printAction(cmd, "Saved", "form ID", formID)
				return nil
			})
		}),
	}

	cmd.Flags().StringVar(&user, "user", "", "User ID (required)")
	cmd.Flags().StringVar(&formID, "form-id", "", "Form ID (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("form-id")
	return cmd
}
