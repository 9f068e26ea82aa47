package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/brandlens/brandlens/internal/models"
)

var brandCmd = &cobra.Command{
	Use:   "brand",
	Short: "Manage tracked brands",
	Long:  `Manage tracked brands - add, list, show and remove brands and their competitor lists.`,
}

var brandAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new brand",
	RunE:  runBrandAdd,
}

var brandListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all brands",
	RunE:  runBrandList,
}

var brandShowCmd = &cobra.Command{
	Use:   "show <brand-id>",
	Short: "Show a brand's details",
	Args:  cobra.ExactArgs(1),
	RunE:  runBrandShow,
}

var brandRemoveCmd = &cobra.Command{
	Use:   "remove <brand-id>",
	Short: "Remove a brand and its tracked queries",
	Args:  cobra.ExactArgs(1),
	RunE:  runBrandRemove,
}

func init() {
	brandCmd.AddCommand(brandAddCmd)
	brandCmd.AddCommand(brandListCmd)
	brandCmd.AddCommand(brandShowCmd)
	brandCmd.AddCommand(brandRemoveCmd)
}

func runBrandAdd(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)
	ctx := context.Background()

	fmt.Printf("%s➕ Add Brand%s\n", HeaderStyle, Reset)
	fmt.Printf("%s===========%s\n", DimStyle, Reset)
	fmt.Println()

	name, err := promptRequired(reader, "Brand name: ")
	if err != nil {
		return err
	}

	domain, err := promptRequired(reader, "Brand domain (e.g. acme.com): ")
	if err != nil {
		return err
	}
	domain = strings.TrimPrefix(strings.TrimPrefix(domain, "https://"), "www.")

	var competitors []models.Competitor
	for {
		competitor, err := promptOptional(reader, "Competitor name (empty to finish): ", "")
		if err != nil {
			return err
		}
		if competitor == "" {
			break
		}

		aliasesStr, err := promptOptional(reader, "  Aliases (comma-separated) []: ", "")
		if err != nil {
			return err
		}
		var aliases []string
		for _, alias := range strings.Split(aliasesStr, ",") {
			if alias = strings.TrimSpace(alias); alias != "" {
				aliases = append(aliases, alias)
			}
		}

		competitors = append(competitors, models.Competitor{Name: competitor, Aliases: aliases})
	}

	cronExpr, err := promptOptional(reader, "Cron schedule (empty for manual runs only) []: ", "")
	if err != nil {
		return err
	}

	brand := &models.Brand{
		ID:          uuid.NewString(),
		Name:        name,
		Domain:      domain,
		Competitors: competitors,
		CronExpr:    cronExpr,
		Enabled:     true,
	}

	if err := brandStore.CreateBrand(ctx, brand); err != nil {
		return fmt.Errorf("failed to create brand: %w", err)
	}

	fmt.Println()
	fmt.Printf("%s✅ Brand created%s\n", SuccessStyle, Reset)
	fmt.Println(FormatLabelValue("ID:", brand.ID))
	fmt.Println(FormatLabelValue("Name:", brand.Name))
	fmt.Println(FormatLabelValue("Domain:", brand.Domain))
	fmt.Printf("%sCompetitors:%s %s\n", LabelStyle, Reset, FormatCount(len(brand.Competitors)))

	return nil
}

func runBrandList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	brands, err := brandStore.ListBrands(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list brands: %w", err)
	}

	fmt.Printf("%s📋 Brands%s\n", HeaderStyle, Reset)
	fmt.Printf("%s========%s\n", DimStyle, Reset)
	fmt.Println()

	if len(brands) == 0 {
		fmt.Printf("%sNo brands found. Use 'brandlens brand add' to create one.%s\n", DimStyle, Reset)
		return nil
	}

	for i, brand := range brands {
		status := FormatSuccess("enabled")
		if !brand.Enabled {
			status = FormatError("disabled")
		}
		fmt.Printf("%s%d.%s %s (%s)\n", CountStyle, i+1, Reset, FormatValue(brand.Name), status)
		fmt.Printf("   %sID: %s | Domain: %s | Competitors: %d%s\n", DimStyle, brand.ID, brand.Domain, len(brand.Competitors), Reset)
		if brand.CronExpr != "" {
			fmt.Printf("   %sSchedule: %s%s\n", MetaStyle, brand.CronExpr, Reset)
		}
	}

	return nil
}

func runBrandShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	brand, err := brandStore.GetBrand(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get brand: %w", err)
	}

	queries, err := brandStore.ListQueries(ctx, brand.ID, nil)
	if err != nil {
		return fmt.Errorf("failed to list queries: %w", err)
	}

	fmt.Printf("%s🔍 Brand Details%s\n", HeaderStyle, Reset)
	fmt.Printf("%s===============%s\n", DimStyle, Reset)
	fmt.Println()
	fmt.Println(FormatLabelValue("ID:", brand.ID))
	fmt.Println(FormatLabelValue("Name:", brand.Name))
	fmt.Println(FormatLabelValue("Domain:", brand.Domain))
	fmt.Println(FormatLabelValue("Schedule:", brand.CronExpr))
	fmt.Printf("%sEnabled:%s %v\n", LabelStyle, Reset, brand.Enabled)
	fmt.Printf("%sCreated:%s %s\n", LabelStyle, Reset, brand.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Println()

	fmt.Printf("%sCompetitors (%d):%s\n", LabelStyle, len(brand.Competitors), Reset)
	for _, competitor := range brand.Competitors {
		if len(competitor.Aliases) > 0 {
			fmt.Printf("  - %s %s(aliases: %s)%s\n", FormatValue(competitor.Name), MetaStyle, strings.Join(competitor.Aliases, ", "), Reset)
		} else {
			fmt.Printf("  - %s\n", FormatValue(competitor.Name))
		}
	}
	fmt.Println()

	fmt.Printf("%sTracked queries (%d):%s\n", LabelStyle, len(queries), Reset)
	for _, query := range queries {
		fmt.Printf("  - %s %s[%s]%s\n", FormatValue(query.Text), MetaStyle, query.ID, Reset)
	}

	return nil
}

func runBrandRemove(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)
	ctx := context.Background()

	brand, err := brandStore.GetBrand(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get brand: %w", err)
	}

	confirmed, err := promptYesNo(reader, fmt.Sprintf("Remove brand %q and all its tracked queries? (y/N): ", brand.Name))
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := brandStore.DeleteBrand(ctx, brand.ID); err != nil {
		return fmt.Errorf("failed to delete brand: %w", err)
	}

	fmt.Printf("%s✅ Brand %s removed%s\n", SuccessStyle, brand.Name, Reset)
	return nil
}
