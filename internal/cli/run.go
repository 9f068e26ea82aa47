package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brandlens/brandlens/internal/models"
)

var runCmd = &cobra.Command{
	Use:   "run <brand-id>",
	Short: "Run a processing session for a brand now",
	Long: `Run one full processing session for a brand: every enabled tracked query is
sent to every configured answer engine, citations are extracted, and session
analytics are computed and stored.`,
	Args: cobra.ExactArgs(1),
	RunE: runSession,
}

func runSession(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	brand, err := brandStore.GetBrand(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get brand: %w", err)
	}

	fmt.Printf("%s🚀 Processing Session: %s%s\n", HeaderStyle, brand.Name, Reset)
	fmt.Printf("%s====================%s\n", DimStyle, Reset)
	fmt.Println()

	analytics, err := sessionService.Run(ctx, brand.ID)
	if err != nil {
		return fmt.Errorf("session failed: %w", err)
	}

	printSessionAnalytics(analytics)
	return nil
}

func printSessionAnalytics(analytics *models.SessionAnalytics) {
	fmt.Printf("%s📊 Session Results%s\n", HeaderStyle, Reset)
	fmt.Printf("%s=================%s\n", DimStyle, Reset)
	fmt.Println()
	fmt.Println(FormatLabelValue("Session:", analytics.SessionID))
	fmt.Printf("%sQueries:%s %s\n", LabelStyle, Reset, FormatCount(analytics.QueriesTotal))
	fmt.Printf("%sVisibility score:%s %s%.2f%%%s\n", LabelStyle, Reset, CountStyle, analytics.VisibilityScore, Reset)
	fmt.Printf("%sBrand mentions:%s %s\n", LabelStyle, Reset, FormatCount(analytics.Totals.BrandMentions))
	fmt.Printf("%sDomain citations:%s %s / %s total\n", LabelStyle, Reset, FormatCount(analytics.Totals.DomainCitations), FormatCount(analytics.Totals.Citations))
	fmt.Println()

	fmt.Printf("%sPer provider:%s\n", LabelStyle, Reset)
	for _, provider := range models.AllProviders {
		stats, ok := analytics.ProviderStats[provider]
		if !ok {
			continue
		}
		line := fmt.Sprintf("  %s: %d mentions, %d/%d domain citations",
			FormatValue(string(provider)), stats.BrandMentions, stats.DomainCitations, stats.Citations)
		if stats.AvgResponseTimeMs != nil {
			line += fmt.Sprintf(" %s(avg %.0f ms)%s", MetaStyle, *stats.AvgResponseTimeMs, Reset)
		}
		fmt.Println(line)
	}
	fmt.Println()

	top := analytics.Insights.TopPerformingProvider
	if top == models.TopProviderNone {
		fmt.Printf("%sTop provider:%s %snone%s\n", LabelStyle, Reset, DimStyle, Reset)
	} else {
		fmt.Printf("%sTop provider:%s %s\n", LabelStyle, Reset, FormatSuccess(top))
		if len(analytics.Insights.TopProviders) > 1 {
			fmt.Printf("  %stied: %s%s\n", MetaStyle, strings.Join(analytics.Insights.TopProviders, ", "), Reset)
		}
	}
}
