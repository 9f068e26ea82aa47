package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brandlens/brandlens/internal/api"
)

var (
	apiPort    string
	apiHost    string
	corsOrigin string
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the Brandlens REST API server",
	Long: `Start the Brandlens REST API server with:
- Brand CRUD and tracked-query CRUD
- Session runs (POST /api/v1/brands/:id/run)
- Session and lifetime analytics (read)
- Health check

The API runs on HTTP (no authentication required for now).`,
	RunE: runAPI,
}

func init() {
	apiCmd.Flags().StringVarP(&apiPort, "port", "p", "8989", "Port to run the API server on")
	apiCmd.Flags().StringVarP(&apiHost, "host", "H", "0.0.0.0", "Host to bind the API server to")
	apiCmd.Flags().StringVarP(&corsOrigin, "cors-origin", "c", "*", "CORS origin to allow")
}

func runAPI(cmd *cobra.Command, args []string) error {
	fmt.Printf("🚀 Starting Brandlens API Server\n")
	fmt.Printf("================================\n")
	fmt.Printf("Host: %s\n", apiHost)
	fmt.Printf("Port: %s\n", apiPort)
	fmt.Printf("URL: http://%s:%s/api/v1\n", apiHost, apiPort)
	fmt.Println()

	server := api.NewServer(brandStore, sessionService, lifetimeService, corsOrigin)

	fmt.Println("🌐 API Server is running!")
	fmt.Println()
	fmt.Println("📚 Available Endpoints:")
	fmt.Println("  Brands:")
	fmt.Println("    GET    /api/v1/brands                                   - List brands")
	fmt.Println("    GET    /api/v1/brands/:id                               - Get brand")
	fmt.Println("    POST   /api/v1/brands                                   - Create brand")
	fmt.Println("    PUT    /api/v1/brands/:id                               - Update brand")
	fmt.Println("    DELETE /api/v1/brands/:id                               - Delete brand")
	fmt.Println()
	fmt.Println("  Queries:")
	fmt.Println("    GET    /api/v1/brands/:id/queries                       - List queries")
	fmt.Println("    POST   /api/v1/brands/:id/queries                       - Create query")
	fmt.Println("    PUT    /api/v1/brands/:id/queries/:queryID              - Update query")
	fmt.Println("    DELETE /api/v1/brands/:id/queries/:queryID              - Delete query")
	fmt.Println()
	fmt.Println("  Sessions & Analytics:")
	fmt.Println("    POST   /api/v1/brands/:id/run                           - Run a session")
	fmt.Println("    GET    /api/v1/brands/:id/history                       - Retained query results")
	fmt.Println("    GET    /api/v1/brands/:id/analytics/sessions            - List sessions")
	fmt.Println("    GET    /api/v1/brands/:id/analytics/sessions/:sessionID - Get session")
	fmt.Println("    GET    /api/v1/brands/:id/analytics/lifetime            - Lifetime analytics")
	fmt.Println("    GET    /api/v1/health                                   - Health check")
	fmt.Println()
	fmt.Println("Press Ctrl+C to stop the server")

	address := fmt.Sprintf("%s:%s", apiHost, apiPort)
	return server.Run(address)
}
