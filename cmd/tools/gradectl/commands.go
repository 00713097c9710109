package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gradelens/gradelens/internal/grades"
	"github.com/gradelens/gradelens/internal/models"
	"github.com/gradelens/gradelens/internal/services"
)

func newStatsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Descriptive statistics of the grade values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, history, err := opts.prepare(cmd)
			if err != nil {
				return err
			}

			values := make([]*float64, len(history.Grades))
			for i, g := range history.Grades {
				values[i] = g.Value
			}
			summary, err := svc.Statistics(cmd.Context(), &models.ValuesRequest{Values: values})
			if err != nil {
				return describe(err)
			}

			return opts.output(cmd.OutOrStdout(), summary, func() {
				keyValues(cmd.OutOrStdout(), "Statistics",
					table.Row{"Count", summary.Count},
					table.Row{"Mean", num(summary.Mean)},
					table.Row{"Median", num(summary.Median)},
					table.Row{"Mode", fmt.Sprint(summary.Mode)},
					table.Row{"Min", num(summary.Min)},
					table.Row{"Max", num(summary.Max)},
					table.Row{"Std deviation", num(summary.StdDeviation)},
					table.Row{"IQR", num(summary.IQR)},
					table.Row{"Skewness", num(summary.Skewness)},
					table.Row{"Kurtosis", num(summary.Kurtosis)},
				)
			})
		},
	}
}

func newTrendCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "trend",
		Short: "Fit a linear trend through the time-ordered grades",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, history, err := opts.prepare(cmd)
			if err != nil {
				return err
			}

			gs, err := models.DecodeGrades(history.Grades, svc.Scale().PassingGrade, "grades")
			if err != nil {
				return describe(services.FromDecodeError(err))
			}
			series, err := seriesRequest(gs.SortedByTime().Series())
			if err != nil {
				return err
			}
			model, err := svc.Trend(cmd.Context(), series)
			if err != nil {
				return describe(err)
			}

			return opts.output(cmd.OutOrStdout(), model, func() {
				keyValues(cmd.OutOrStdout(), "Trend",
					table.Row{"Direction", model.Direction},
					table.Row{"Strength", model.Strength},
					table.Row{"Slope", fmt.Sprintf("%.4f", model.Slope)},
					table.Row{"Intercept", num(model.Intercept)},
					table.Row{"R²", fmt.Sprintf("%.4f", model.RSquared)},
				)
			})
		},
	}
}

func newPredictCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "predict",
		Short: "Predict the next grade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, history, err := opts.prepare(cmd)
			if err != nil {
				return err
			}

			resp, err := svc.PredictNext(cmd.Context(), history)
			if err != nil {
				return describe(err)
			}

			return opts.output(cmd.OutOrStdout(), resp, func() {
				tbl := newTable(cmd.OutOrStdout(), "Next grade")
				tbl.AppendHeader(table.Row{"Method", "Predicted", "Confidence", "Lower", "Upper"})
				p := resp.Prediction
				tbl.AppendRow(table.Row{p.Method, num(p.PredictedValue), num(p.Confidence), num(p.LowerBound), num(p.UpperBound)})
				if len(resp.Estimates) > 0 {
					tbl.AppendSeparator()
					for _, e := range resp.Estimates {
						tbl.AppendRow(table.Row{e.Method, num(e.PredictedValue), num(e.Confidence), num(e.LowerBound), num(e.UpperBound)})
					}
				}
				tbl.Render()
			})
		},
	}
}

func newAnalyzeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Full report: averages, subjects, trend and predictions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, history, err := opts.prepare(cmd)
			if err != nil {
				return err
			}

			report, err := svc.Analyze(cmd.Context(), history)
			if err != nil {
				return describe(err)
			}

			return opts.output(cmd.OutOrStdout(), report, func() {
				w := cmd.OutOrStdout()
				keyValues(w, "Overview",
					table.Row{"Grades", report.TotalGrades},
					table.Row{"Average", num(report.OverallAverage)},
					table.Row{"Weighted average", num(report.WeightedAverage)},
					table.Row{"GPA", num(report.GPA)},
					table.Row{"Pass rate", fmt.Sprintf("%.1f%%", report.PassRate)},
					table.Row{"Trend", fmt.Sprintf("%s (%s)", report.Trend.Direction, report.Trend.Strength)},
				)
				fmt.Fprintln(w)

				tbl := newTable(w, "Subjects")
				tbl.AppendHeader(table.Row{"Subject", "Grades", "Average", "Weighted", "Trend", "Predicted"})
				for i, s := range report.Subjects {
					predicted := ""
					if i < len(report.Predictions) {
						predicted = num(report.Predictions[i].PredictedValue)
					}
					tbl.AppendRow(table.Row{s.Subject, s.GradeCount, num(s.Average), num(s.WeightedAverage),
						fmt.Sprintf("%+.3f", s.Trend), predicted})
				}
				tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d subjects", len(report.Subjects))})
				tbl.Render()
			})
		},
	}
}

func newWhatIfCommand(opts *options) *cobra.Command {
	var (
		values []float64
		weight float64
	)

	cmd := &cobra.Command{
		Use:   "whatif",
		Short: "Show how hypothetical grades change the average",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(values) == 0 {
				return fmt.Errorf("at least one --grade is required")
			}
			svc, history, err := opts.prepare(cmd)
			if err != nil {
				return err
			}

			now := time.Now().UnixMilli()
			hypothetical := make([]models.GradeInput, len(values))
			for i := range values {
				hypothetical[i] = models.GradeInput{Value: &values[i], Weight: &weight, Timestamp: &now}
			}

			result, err := svc.WhatIf(cmd.Context(), &models.WhatIfRequest{
				Grades:       history.Grades,
				Hypothetical: hypothetical,
			})
			if err != nil {
				return describe(err)
			}

			return opts.output(cmd.OutOrStdout(), result, func() {
				w := cmd.OutOrStdout()
				keyValues(w, "What if",
					table.Row{"Current average", num(result.CurrentAverage)},
					table.Row{"New average", num(result.NewAverage)},
					table.Row{"Change", fmt.Sprintf("%+.2f (%+.1f%%)", result.Change, result.ChangePercent)},
				)
				fmt.Fprintln(w)

				tbl := newTable(w, "Grade needed next")
				tbl.AppendHeader(table.Row{"Target", "Needed", "Weight", "Achievable"})
				for _, g := range result.GradesNeededForTarget {
					tbl.AppendRow(table.Row{num(g.TargetAverage), num(g.GradeNeeded), num(g.Weight), g.Achievable})
				}
				tbl.Render()
			})
		},
	}

	cmd.Flags().Float64SliceVarP(&values, "grade", "g", nil, "hypothetical grade, repeatable")
	cmd.Flags().Float64VarP(&weight, "weight", "w", 1, "weight of each hypothetical grade")
	return cmd
}

func newNeededCommand(opts *options) *cobra.Command {
	var (
		target  float64
		weight  float64
		subject string
	)

	cmd := &cobra.Command{
		Use:   "needed",
		Short: "Grade needed on the next assessment to reach a target average",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, history, err := opts.prepare(cmd)
			if err != nil {
				return err
			}

			if subject != "" {
				needed, err := svc.Targets(cmd.Context(), &models.TargetsRequest{
					Grades:  history.Grades,
					Subject: subject,
					Weight:  &weight,
					Targets: []float64{target},
				})
				if err != nil {
					return describe(err)
				}
				return opts.output(cmd.OutOrStdout(), needed[0], func() {
					renderNeeded(cmd, subject, needed[0].GradeNeeded, needed[0].Achievable)
				})
			}

			gs, err := models.DecodeGrades(history.Grades, svc.Scale().PassingGrade, "grades")
			if err != nil {
				return describe(services.FromDecodeError(err))
			}
			average, total := grades.WeightedAverage(gs), gs.TotalWeight()
			resp, err := svc.GradeNeeded(cmd.Context(), &models.GradeNeededRequest{
				CurrentAverage: &average,
				CurrentWeight:  &total,
				TargetAverage:  &target,
				NewWeight:      &weight,
			})
			if err != nil {
				return describe(err)
			}

			return opts.output(cmd.OutOrStdout(), resp, func() {
				if resp.GradeNeeded == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "No grade reaches the target with a non-positive weight")
					return
				}
				renderNeeded(cmd, "all subjects", *resp.GradeNeeded, resp.Achievable)
			})
		},
	}

	cmd.Flags().Float64VarP(&target, "target", "t", 0, "target average")
	cmd.Flags().Float64VarP(&weight, "weight", "w", 1, "weight of the next assessment")
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "only count grades of this subject")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func renderNeeded(cmd *cobra.Command, scope string, needed float64, achievable bool) {
	keyValues(cmd.OutOrStdout(), "Grade needed",
		table.Row{"Scope", scope},
		table.Row{"Needed", num(needed)},
		table.Row{"Achievable", achievable},
	)
}

// prepare builds the service and reads the grade history
func (o *options) prepare(cmd *cobra.Command) (*services.AnalyticsService, *models.GradesRequest, error) {
	svc, err := o.service()
	if err != nil {
		return nil, nil, err
	}
	history, err := o.readGrades(cmd)
	if err != nil {
		return nil, nil, err
	}
	return svc, history, nil
}
