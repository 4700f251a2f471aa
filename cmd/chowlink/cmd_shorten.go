package main

import (
	"fmt"

	"github.com/SergeiKhy/chowlink/internal/models"
	"github.com/spf13/cobra"
)

func newShortenCmd(a *app) *cobra.Command {
	var input models.LinkSubmission

	cmd := &cobra.Command{
		Use:   "shorten",
		Short: "Create a short link",
		Long: `Create a short link for --link under --slug.

A missing token is fetched first. If the backend rejects the stored token,
chowlink logs in again and retries once.`,
		Example: "  chowlink shorten --link https://example.com/page --slug ex1",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// Ошибка автологина не фатальна: отправка сама обработает 401
			_ = a.session.Run(ctx, a.notifier)

			result, err := a.submitter.Submit(ctx, input, a.notifier)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, a.cfg.API.DetailBaseURL+result.RedirectPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Link, "link", "", "full link, must include http or https")
	cmd.Flags().StringVar(&input.Slug, "slug", "", "slug of the short link")

	return cmd
}
