package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/36node/store-cli/internal/api"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		Aliases: []string{"setting", "st"},
		Short:   "Manage user notification settings",
	}

	cmd.AddCommand(newSettingsGetCmd())
	cmd.AddCommand(newSettingsUpdateCmd())
	cmd.AddCommand(newSettingsDeleteCmd())

	return cmd
}

func newSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <user>",
		Aliases: []string{"g"},
		Short:   "Get a user's settings",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validateID("user", args[0]); err != nil {
				return err
			}
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				return s.client.Setting().GetSetting(ctx, pathReq(nil, string(api.FieldUser), args[0]))
			}, func(st api.Setting) error {
				return printDetail(cmd, "Settings "+orDash(st.User),
					"Birthday", st.Birthday,
					"Alarm", st.Alarm,
					"Alarm disabled", yesNo(st.DisableAlarm),
					"Openid", st.Openid,
					"App openid", st.AppOpenid,
				)
			})
		}),
	}
}

func newSettingsUpdateCmd() *cobra.Command {
	var (
		body         string
		birthday     string
		alarm        string
		disableAlarm bool
		openid       string
		appOpenid    string
	)

	cmd := &cobra.Command{
		Use:   "update <user>",
		Short: "Update a user's settings",
		Example: strings.TrimSpace(`
  store settings update u1 --alarm 08:30
  store settings update u1 --disable-alarm
  store settings update u1 --body @settings.json
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validateID("user", args[0]); err != nil {
				return err
			}
			raw, err := readBody(cmd, body)
			if err != nil {
				return err
			}
			fields := map[string]any{}
			for flag, f := range map[string]struct {
				key string
				v   any
			}{
				"birthday":      {"birthday", birthday},
				"alarm":         {"alarm", alarm},
				"disable-alarm": {"disableAlarm", disableAlarm},
				"openid":        {"openid", openid},
				"app-openid":    {"appOpenid", appOpenid},
			} {
				if flagOrAliasChanged(cmd, flag) {
					fields[f.key] = f.v
				}
			}
			payload, err := mergeBody(raw, fields)
			if err != nil {
				return err
			}
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				return s.client.Setting().UpdateSetting(ctx, pathReq(payload, string(api.FieldUser), args[0]))
			}, func(api.Setting) error {
				printAction(cmd, "Updated", "settings", args[0])
				return nil
			})
		}),
	}

	cmd.Flags().StringVar(&body, "body", "", "Settings JSON (inline, @file or @-)")
	cmd.Flags().StringVar(&birthday, "birthday", "", "Birthday (YYYY-MM-DD)")
	cmd.Flags().StringVar(&alarm, "alarm", "", "Daily alarm time")
	cmd.Flags().BoolVar(&disableAlarm, "disable-alarm", false, "Disable the alarm")
	cmd.Flags().StringVar(&openid, "openid", "", "Official account openid")
	cmd.Flags().StringVar(&appOpenid, "app-openid", "", "Mini-program openid")
	return cmd
}

func newSettingsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <user>",
		Aliases: []string{"rm"},
		Short:   "Delete a user's settings",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validateID("user", args[0]); err != nil {
				return err
			}
			return runDelete(cmd, "settings", args[0], func(ctx context.Context, s *session) (*api.Response, error) {
				return s.client.Setting().DeleteSetting(ctx, pathReq(nil, string(api.FieldUser), args[0]))
			})
		}),
	}
}
