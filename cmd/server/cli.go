package main

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/dramahub/internal/model"
	"github.com/user/dramahub/internal/service"
)

// printJSON 缩进输出到 stdout
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func newEpisodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "episode <id>",
		Short: "按 ID 查询整部剧的剧集",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			res, err := a.svcs.Episodes.Resolve(cmd.Context(), args[0])
			if err != nil {
				if res != nil && errors.Is(err, service.ErrNotFound) {
					_ = printJSON(cmd.ErrOrStderr(), map[string]any{"sourceFailed": res.SourceFailed})
				}
				return err
			}
			return printJSON(cmd.OutOrStdout(), struct {
				model.EpisodeBundle
				SourceFailed *model.SourceFailed `json:"sourceFailed"`
			}{res.Bundle, res.SourceFailed})
		},
	}
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <关键词>",
		Short: "搜索短剧",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			resp, err := a.svcs.Search.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
}

func newHomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "输出首页分区",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			sections, err := a.svcs.Home.Aggregate(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"sections": sections})
		},
	}
}
