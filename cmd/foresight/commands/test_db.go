package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/foresight/pkg/config"
	"github.com/wonny/foresight/pkg/database"
)

// testDBCmd represents the test-db command
var testDBCmd = &cobra.Command{
	Use:   "test-db",
	Short: "PostgreSQL 연결 테스트",
	Long: `데이터베이스 연결을 테스트합니다.

이 명령어는:
- config에서 DATABASE_URL 로드
- 데이터베이스 연결 생성
- Ping 테스트

Example:
  go run ./cmd/foresight test-db
  go run ./cmd/foresight test-db --env production`,
	RunE: runTestDB,
}

func init() {
	rootCmd.AddCommand(testDBCmd)
}

func runTestDB(cmd *cobra.Command, args []string) error {
	fmt.Println("=== foresight Database Connection Test ===")

	fmt.Println("Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("❌ Failed to load config: %w", err)
	}
	fmt.Printf("✅ Config loaded (ENV: %s)\n", cfg.Env)
	fmt.Printf("   Database URL: %s\n\n", maskPassword(cfg.Database.URL))

	fmt.Println("Connecting to database...")
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("❌ Failed to connect to database: %w", err)
	}
	defer db.Close()
	fmt.Println("✅ Database connection established")

	fmt.Println("Testing connection (Ping)...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("❌ Ping failed: %w", err)
	}
	fmt.Println("✅ Ping successful")

	return nil
}
