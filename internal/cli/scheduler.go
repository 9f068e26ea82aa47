package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the scheduler",
	Long:  `Run the scheduler that processes brands on their cron schedules.`,
}

var schedulerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scheduler",
	RunE:  runSchedulerStart,
}

func init() {
	schedulerCmd.AddCommand(schedulerStartCmd)
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	fmt.Printf("%s🚀 Start Scheduler%s\n", HeaderStyle, Reset)
	fmt.Printf("%s================%s\n", DimStyle, Reset)
	fmt.Println()

	brands, err := brandStore.ListBrands(ctx, boolPtr(true))
	if err != nil {
		return fmt.Errorf("failed to list brands: %w", err)
	}

	scheduled := 0
	fmt.Printf("%sScheduled Brands:%s\n", LabelStyle, Reset)
	for _, brand := range brands {
		if brand.CronExpr == "" {
			continue
		}
		scheduled++
		fmt.Printf("  %s%d. %s%s\n", CountStyle, scheduled, Reset, FormatValue(brand.Name))
		fmt.Printf("     %sID: %s | Cron: %s%s\n", DimStyle, brand.ID, brand.CronExpr, Reset)
	}

	if scheduled == 0 {
		fmt.Printf("%s❌ No enabled brands with a cron schedule found%s\n", ErrorStyle, Reset)
		fmt.Printf("%s💡 Set a cron expression when adding a brand%s\n", InfoStyle, Reset)
		return nil
	}
	fmt.Println()

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	fmt.Printf("%s✅ Scheduler started%s\n", SuccessStyle, Reset)
	fmt.Printf("%s📅 Monitoring %s brand schedule(s)%s\n", InfoStyle, FormatCount(scheduled), Reset)
	fmt.Printf("%s📝 Press Ctrl+C to stop the scheduler%s\n", InfoStyle, Reset)
	fmt.Println()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c
	fmt.Printf("\n%s⏹️  Stopping scheduler...%s\n", InfoStyle, Reset)
	sched.Stop()
	fmt.Printf("%s✅ Scheduler stopped%s\n", SuccessStyle, Reset)

	return nil
}
