package forecast

import "github.com/gradelens/gradelens/internal/analytics"

// Evaluation is the walk-forward accuracy of the ensemble over a history
type Evaluation struct {
	Actual     []float64 `json:"actual"`
	Predicted  []float64 `json:"predicted"`
	MAPE       float64   `json:"mape"` // Mean Absolute Percentage Error
	MAE        float64   `json:"mae"`  // Mean Absolute Error
	RMSE       float64   `json:"rmse"` // Root Mean Squared Error
	DataPoints int       `json:"data_points"`
}

// Evaluate replays the time-sorted history, predicting each grade from the
// grades before it, starting from the second one.
func Evaluate(grades analytics.Grades) Evaluation {
	sorted := grades.SortedByTime()
	eval := Evaluation{
		Actual:     []float64{},
		Predicted:  []float64{},
		DataPoints: len(sorted),
	}
	if len(sorted) < 2 {
		return eval
	}

	for i := 1; i < len(sorted); i++ {
		p := PredictNext(sorted[:i])
		eval.Actual = append(eval.Actual, sorted[i].Value)
		eval.Predicted = append(eval.Predicted, p.PredictedValue)
	}

	eval.MAPE = CalculateMAPE(eval.Actual, eval.Predicted)
	eval.MAE = CalculateMAE(eval.Actual, eval.Predicted)
	eval.RMSE = CalculateRMSE(eval.Actual, eval.Predicted)
	return eval
}
