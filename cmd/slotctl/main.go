package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"slotlayout-go-server/bootstrap"
	"slotlayout-go-server/internal/schema"
	"slotlayout-go-server/repository"
	"slotlayout-go-server/usecase"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// slotctl 槽位配置运维工具
// 用法:
//   slotctl export --store 42 --page cart --mode published > cart.json
//   slotctl import --store 42 --page cart --file cart.json
//   slotctl seed --store 42
//   slotctl clear --force --truncate

func main() {
	root := &cobra.Command{
		Use:   "slotctl",
		Short: "槽位布局配置运维工具",
	}

	root.AddCommand(newExportCmd(), newImportCmd(), newSeedCmd(), newClearCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// connect 加载环境并建立依赖（CLI 不需要预览通知，notifier 传 nil）
func connect() (*gorm.DB, *schema.Registry, *usecase.ConfigurationUseCase) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ 未找到 .env 文件，使用系统环境变量")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("❌ DATABASE_URL 环境变量未设置")
	}

	db := bootstrap.NewDatabase(dsn)

	var (
		registry *schema.Registry
		err      error
	)
	if path := os.Getenv("SCHEMA_FILE"); path != "" {
		registry, err = schema.LoadFile(path)
	} else {
		registry, err = schema.NewRegistry()
	}
	if err != nil {
		log.Fatalf("❌ 页面 Schema 加载失败: %v", err)
	}

	repo := repository.NewConfigurationRepository(db)
	return db, registry, usecase.NewConfigurationUseCase(repo, registry, nil)
}

// newExportCmd 导出配置到标准输出
func newExportCmd() *cobra.Command {
	var store, page, mode string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "导出某店铺某页面的配置 JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, uc := connect()

			data, err := uc.ExportConfiguration(store, page, mode)
			if err != nil {
				return err
			}

			fmt.Println(string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&store, "store", "", "店铺 ID")
	cmd.Flags().StringVar(&page, "page", "", "页面类型（cart/category/product/checkout/login）")
	cmd.Flags().StringVar(&mode, "mode", usecase.ModePublished, "draft 或 published")
	_ = cmd.MarkFlagRequired("store")
	_ = cmd.MarkFlagRequired("page")
	return cmd
}

// newImportCmd 从文件导入配置为草稿
func newImportCmd() *cobra.Command {
	var store, page, file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "把配置 JSON 文件导入为草稿（自动校验 + 修复 + 旧版迁移）",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("读取文件失败: %w", err)
			}

			_, _, uc := connect()

			draft, report, err := uc.ImportToDraft(store, page, raw, "")
			if err != nil {
				return err
			}

			if !report.Valid {
				log.Printf("⚠️ 导入文件有 %d 处问题已被自动修复:", len(report.Errors))
				for _, e := range report.Errors {
					log.Printf("   - %s", e)
				}
			}
			log.Printf("✅ 已导入为草稿: %s（店铺 %s / 页面 %s）", draft.ID, store, page)
			return nil
		},
	}

	cmd.Flags().StringVar(&store, "store", "", "店铺 ID")
	cmd.Flags().StringVar(&page, "page", "", "页面类型")
	cmd.Flags().StringVar(&file, "file", "", "配置 JSON 文件路径")
	_ = cmd.MarkFlagRequired("store")
	_ = cmd.MarkFlagRequired("page")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// newSeedCmd 为店铺的全部页面类型补齐草稿
func newSeedCmd() *cobra.Command {
	var store string
	var pages []string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "按 Schema 默认值为店铺创建缺失的草稿",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, registry, uc := connect()

			targets := pages
			if len(targets) == 0 {
				targets = registry.PageTypes()
			}

			for _, pageType := range targets {
				draft, created, err := uc.EnsureDraftExists(store, pageType, "")
				if err != nil {
					log.Printf("❌ %s: %v", pageType, err)
					continue
				}
				if created {
					log.Printf("✅ 已创建草稿 %s（页面 %s）", draft.ID, pageType)
				} else {
					log.Printf("ℹ️ 草稿已存在（页面 %s），跳过", pageType)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&store, "store", "", "店铺 ID")
	cmd.Flags().StringSliceVar(&pages, "pages", nil, "限定页面类型，逗号分隔；留空表示全部")
	_ = cmd.MarkFlagRequired("store")
	return cmd
}

// newClearCmd 清空数据表（开发/测试环境用）
func newClearCmd() *cobra.Command {
	var force, truncate bool
	var tables string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "清空数据库表",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, _ := connect()

			targetTables := []string{"slot_configurations", "operators"}
			if tables != "" {
				targetTables = parseTableNames(tables)
			}

			// 确认提示
			if !force {
				fmt.Println("⚠️  警告：此操作将删除数据库中的所有数据！")
				fmt.Println("📊 受影响的表：")
				for _, t := range targetTables {
					fmt.Printf("   - %s\n", t)
				}

				fmt.Print("\n确认执行清库操作？(yes/no): ")
				reader := bufio.NewReader(os.Stdin)
				input, _ := reader.ReadString('\n')
				input = strings.TrimSpace(strings.ToLower(input))

				if input != "yes" && input != "y" {
					fmt.Println("❌ 操作已取消")
					return nil
				}
			}

			fmt.Println("\n🚀 开始清库...")

			for _, tableName := range targetTables {
				var err error
				if truncate {
					// TRUNCATE 更快，会重置自增ID
					// CASCADE 处理外键约束
					err = db.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", tableName)).Error
				} else {
					// DELETE 可以触发触发器，但较慢
					err = db.Exec(fmt.Sprintf("DELETE FROM %s", tableName)).Error
				}

				if err != nil {
					log.Printf("❌ 清空表 %s 失败: %v", tableName, err)
				} else {
					log.Printf("✅ 已清空表: %s", tableName)
				}
			}

			fmt.Println("\n🎉 清库操作完成！")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "跳过确认提示，强制执行清库")
	cmd.Flags().BoolVar(&truncate, "truncate", false, "使用 TRUNCATE（更快，会重置自增ID）")
	cmd.Flags().StringVar(&tables, "tables", "", "指定要清空的表，逗号分隔；留空表示清空所有表")
	return cmd
}

// parseTableNames 解析命令行指定的表名
func parseTableNames(input string) []string {
	parts := strings.Split(input, ",")
	var tables []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tables = append(tables, p)
		}
	}
	return tables
}
