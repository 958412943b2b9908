package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wine-quality-service/internal/core/domain"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Run the training pipeline once",
	Long: `Runs data ingestion, validation, transformation, model training and
evaluation in order, then exits. Parameters default to the params file.

Example:
  server train
  server train --alpha 0.5 --l1-ratio 0.3`,
	RunE: runTrain,
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Re-score the persisted model on the test split",
	RunE:  runEvaluate,
}

var (
	trainAlpha   float64
	trainL1Ratio float64
)

func init() {
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(evaluateCmd)

	trainCmd.Flags().Float64Var(&trainAlpha, "alpha", 0, "regularization strength (default from params file)")
	trainCmd.Flags().Float64Var(&trainL1Ratio, "l1-ratio", 0, "L1/L2 mixing ratio (default from params file)")
}

func runTrain(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	params := a.pipeline.DefaultParams()
	if cmd.Flags().Changed("alpha") {
		params.Alpha = trainAlpha
	}
	if cmd.Flags().Changed("l1-ratio") {
		params.L1Ratio = trainL1Ratio
	}

	run, err := a.pipeline.Run(cmd.Context(), params)
	if err != nil {
		return err
	}
	printRun(cmd, run)
	return nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	run, err := a.pipeline.InitiateModelEvaluation(cmd.Context())
	if err != nil {
		return err
	}
	printRun(cmd, run)
	return nil
}

func printRun(cmd *cobra.Command, run *domain.TrainingRun) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run:      %s\n", run.ID)
	fmt.Fprintf(out, "status:   %s\n", run.Status)
	fmt.Fprintf(out, "alpha:    %g\n", run.Params.Alpha)
	fmt.Fprintf(out, "l1_ratio: %g\n", run.Params.L1Ratio)
	if run.Metrics != nil {
		fmt.Fprintf(out, "rmse:     %.4f\n", run.Metrics.RMSE)
		fmt.Fprintf(out, "mae:      %.4f\n", run.Metrics.MAE)
		fmt.Fprintf(out, "r2:       %.4f\n", run.Metrics.R2)
	}
	if run.TrackingRunID != "" {
		fmt.Fprintf(out, "mlflow:   %s\n", run.TrackingRunID)
	}
}
