package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brandlens/brandlens/internal/models"
	"github.com/brandlens/brandlens/internal/shared"
)

var analyticsRecompute bool

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "View brand analytics",
	Long:  `View session and lifetime analytics for a brand.`,
}

var analyticsSessionsCmd = &cobra.Command{
	Use:   "sessions <brand-id>",
	Short: "List a brand's session analytics",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyticsSessions,
}

var analyticsLifetimeCmd = &cobra.Command{
	Use:   "lifetime <brand-id>",
	Short: "Show a brand's lifetime analytics",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyticsLifetime,
}

func init() {
	analyticsLifetimeCmd.Flags().BoolVar(&analyticsRecompute, "recompute", false, "Recompute from the full history instead of reading the latest snapshot")

	analyticsCmd.AddCommand(analyticsSessionsCmd)
	analyticsCmd.AddCommand(analyticsLifetimeCmd)
}

func runAnalyticsSessions(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sessions, err := sessionService.ListSessions(ctx, shared.SessionFilter{BrandID: args[0]})
	if err != nil {
		return fmt.Errorf("failed to list session analytics: %w", err)
	}

	fmt.Printf("%s📊 Session Analytics%s\n", HeaderStyle, Reset)
	fmt.Printf("%s===================%s\n", DimStyle, Reset)
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Printf("%sNo sessions found. Use 'brandlens run' to start one.%s\n", DimStyle, Reset)
		return nil
	}

	for i, session := range sessions {
		fmt.Printf("%s%d.%s %s %s(%s)%s\n", CountStyle, i+1, Reset,
			FormatValue(session.SessionDate.Format("2006-01-02 15:04")), MetaStyle, session.SessionID, Reset)
		fmt.Printf("   %sQueries: %d | Visibility: %.2f%% | Mentions: %d | Top: %s%s\n", DimStyle,
			session.QueriesTotal, session.VisibilityScore, session.Totals.BrandMentions,
			session.Insights.TopPerformingProvider, Reset)
	}

	return nil
}

func runAnalyticsLifetime(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var lifetime *models.LifetimeAnalytics
	var err error
	if analyticsRecompute {
		lifetime, err = lifetimeService.Recompute(ctx, args[0])
	} else {
		lifetime, err = lifetimeService.Latest(ctx, args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to load lifetime analytics: %w", err)
	}

	fmt.Printf("%s📈 Lifetime Analytics%s\n", HeaderStyle, Reset)
	fmt.Printf("%s====================%s\n", DimStyle, Reset)
	fmt.Println()
	fmt.Println(FormatLabelValue("Computed:", lifetime.ComputedAt.Format("2006-01-02 15:04:05")))
	fmt.Printf("%sQueries:%s %s across %s sessions\n", LabelStyle, Reset, FormatCount(lifetime.QueriesTotal), FormatCount(lifetime.SessionsTotal))
	if lifetime.FirstProcessedAt != nil && lifetime.LastProcessedAt != nil {
		fmt.Printf("%sPeriod:%s %s to %s\n", LabelStyle, Reset,
			lifetime.FirstProcessedAt.Format("2006-01-02"), lifetime.LastProcessedAt.Format("2006-01-02"))
	}
	fmt.Printf("%sVisibility score:%s %s%.2f%%%s\n", LabelStyle, Reset, CountStyle, lifetime.VisibilityScore, Reset)
	fmt.Printf("%sBrand mentions:%s %s\n", LabelStyle, Reset, FormatCount(lifetime.Totals.BrandMentions))
	fmt.Printf("%sDomain citations:%s %s / %s total\n", LabelStyle, Reset, FormatCount(lifetime.Totals.DomainCitations), FormatCount(lifetime.Totals.Citations))
	fmt.Printf("%sAll citations:%s %s\n", LabelStyle, Reset, FormatCount(len(lifetime.AllCitations)))
	fmt.Println()

	for _, provider := range models.AllProviders {
		stats, ok := lifetime.ProviderStats[provider]
		if !ok {
			continue
		}
		fmt.Printf("  %s: %d queries, %d mentions, %d/%d domain citations\n",
			FormatValue(string(provider)), stats.QueriesProcessed, stats.BrandMentions, stats.DomainCitations, stats.Citations)
	}
	fmt.Println()

	if lifetime.Insights.TopPerformingProvider == models.TopProviderNone {
		fmt.Printf("%sTop provider:%s %snone%s\n", LabelStyle, Reset, DimStyle, Reset)
	} else {
		fmt.Printf("%sTop provider:%s %s\n", LabelStyle, Reset, FormatSuccess(lifetime.Insights.TopPerformingProvider))
	}

	return nil
}
