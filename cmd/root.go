package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/winerecon/internal/config"
	"github.com/sells-group/winerecon/internal/gate"
	"github.com/sells-group/winerecon/internal/pipeline"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "winerecon",
	Short: "Wine catalogue reconciliation pipeline",
	Long: "Reconciles the ERP inventory, web storefront and linkage extracts, computes revenue and price z-scores, " +
		"runs the quality gate and integrity audit, and writes the report set.",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close() //nolint:errcheck
		}

		res, err := pipeline.New(cfg, st).Run(ctx)
		var ge *gate.GateError
		if errors.As(err, &ge) {
			zap.L().Error("quality gate failed; run halted before reporting",
				zap.String("run_id", res.RunID),
				zap.String("reason", ge.Error()),
			)
			return err
		}
		if err != nil {
			return err
		}

		zap.L().Info("run complete",
			zap.String("run_id", res.RunID),
			zap.Bool("ready", res.Summary.Ready),
			zap.Strings("reports", res.Reports),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
