package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/brandlens/brandlens/internal/models"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Manage tracked queries",
	Long:  `Manage the search queries tracked for a brand.`,
}

var queryAddCmd = &cobra.Command{
	Use:   "add <brand-id>",
	Short: "Add a tracked query to a brand",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueryAdd,
}

var queryListCmd = &cobra.Command{
	Use:   "list <brand-id>",
	Short: "List a brand's tracked queries",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueryList,
}

var queryRemoveCmd = &cobra.Command{
	Use:   "remove <query-id>",
	Short: "Remove a tracked query",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueryRemove,
}

func init() {
	queryCmd.AddCommand(queryAddCmd)
	queryCmd.AddCommand(queryListCmd)
	queryCmd.AddCommand(queryRemoveCmd)
}

func runQueryAdd(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)
	ctx := context.Background()

	brand, err := brandStore.GetBrand(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get brand: %w", err)
	}

	fmt.Printf("%s➕ Add Query for %s%s\n", HeaderStyle, brand.Name, Reset)
	fmt.Printf("%s=================%s\n", DimStyle, Reset)
	fmt.Println()

	text, err := promptRequired(reader, "Query text: ")
	if err != nil {
		return err
	}

	keyword, err := promptOptional(reader, "Keyword []: ", "")
	if err != nil {
		return err
	}

	category, err := promptOptional(reader, "Category []: ", "")
	if err != nil {
		return err
	}

	query := &models.TrackedQuery{
		ID:       uuid.NewString(),
		BrandID:  brand.ID,
		Text:     text,
		Keyword:  keyword,
		Category: category,
		Enabled:  true,
	}

	if err := brandStore.CreateQuery(ctx, query); err != nil {
		return fmt.Errorf("failed to create query: %w", err)
	}

	fmt.Println()
	fmt.Printf("%s✅ Query created%s\n", SuccessStyle, Reset)
	fmt.Println(FormatLabelValue("ID:", query.ID))
	fmt.Println(FormatLabelValue("Text:", query.Text))

	return nil
}

func runQueryList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	queries, err := brandStore.ListQueries(ctx, args[0], nil)
	if err != nil {
		return fmt.Errorf("failed to list queries: %w", err)
	}

	fmt.Printf("%s📋 Tracked Queries%s\n", HeaderStyle, Reset)
	fmt.Printf("%s=================%s\n", DimStyle, Reset)
	fmt.Println()

	if len(queries) == 0 {
		fmt.Printf("%sNo queries found. Use 'brandlens query add' to create one.%s\n", DimStyle, Reset)
		return nil
	}

	for i, query := range queries {
		status := FormatSuccess("enabled")
		if !query.Enabled {
			status = FormatError("disabled")
		}
		fmt.Printf("%s%d.%s %s (%s)\n", CountStyle, i+1, Reset, FormatValue(query.Text), status)
		fmt.Printf("   %sID: %s", DimStyle, query.ID)
		if query.Keyword != "" {
			fmt.Printf(" | Keyword: %s", query.Keyword)
		}
		if query.Category != "" {
			fmt.Printf(" | Category: %s", query.Category)
		}
		fmt.Printf("%s\n", Reset)
	}

	return nil
}

func runQueryRemove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := brandStore.DeleteQuery(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to delete query: %w", err)
	}

	fmt.Printf("%s✅ Query removed%s\n", SuccessStyle, Reset)
	return nil
}
