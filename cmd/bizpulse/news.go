package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Manage market headlines",
}

var newsIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Classify and store headlines from a CSV file",
	Long:  `Reads a headline CSV (headline, source, url, published_at), classifies each headline and stores those whose URL has not been seen before.`,
	RunE:  runNewsIngest,
}

var newsFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch, classify and store headlines from RSS or Atom feeds",
	Long:  `Reads each feed (defaults to market.feeds), throttled to market.feed_rate_per_second, and stores headlines whose link has not been seen before. A failing feed is logged and skipped.`,
	RunE:  runNewsFetch,
}

var (
	newsIngestFile string
	newsFetchFeeds []string
)

func init() {
	newsIngestCmd.Flags().StringVarP(&newsIngestFile, "file", "f", "", "Headline CSV to ingest (defaults to data.news_file)")
	newsFetchCmd.Flags().StringSliceVar(&newsFetchFeeds, "feed", nil, "Feed URL to fetch, repeatable (defaults to market.feeds)")
	newsCmd.AddCommand(newsIngestCmd, newsFetchCmd)
}

func runNewsIngest(cmd *cobra.Command, args []string) error {
	path := newsIngestFile
	if path == "" {
		path = config.Data.NewsFile
	}
	if path == "" {
		return fmt.Errorf("no headline file given: use --file or set data.news_file")
	}

	result, err := application.IngestNewsFile(cmd.Context(), path)
	if err != nil {
		logger.Error().Str("path", path).Err(err).Msg("News ingest failed")
		return err
	}
	return printJSON(result)
}

func runNewsFetch(cmd *cobra.Command, args []string) error {
	result, err := application.RefreshNews(cmd.Context(), newsFetchFeeds)
	if err != nil {
		logger.Error().Strs("feeds", newsFetchFeeds).Err(err).Msg("News fetch failed")
		return err
	}
	return printJSON(result)
}
