package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tubeexpert/internal/app"
	"tubeexpert/pkg/config"
)

var exportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "List exported reports, packages and thumbnails",
	RunE:  runExports,
}

func init() {
	rootCmd.AddCommand(exportsCmd)
}

func runExports(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	service, err := app.BuildService(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = service.Close() }()

	names, err := service.Store().List(cmd.Context())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println(infoStyle.Render("No exports yet"))
		return nil
	}

	for _, name := range names {
		fmt.Println(name)
	}
	fmt.Printf("%d export(s)\n", len(names))
	return nil
}
