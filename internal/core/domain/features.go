package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// NumFeatures is the width of the model's input contract.
const NumFeatures = 11

// Feature pairs the dataset column with the form field that carries it.
type Feature struct {
	Column    string
	FormField string
}

// Features lists the model inputs in the order the model was trained on.
var Features = [NumFeatures]Feature{
	{Column: "fixed acidity", FormField: "fixed_acidity"},
	{Column: "volatile acidity", FormField: "volatile_acidity"},
	{Column: "citric acid", FormField: "citric_acid"},
	{Column: "residual sugar", FormField: "residual_sugar"},
	{Column: "chlorides", FormField: "chlorides"},
	{Column: "free sulfur dioxide", FormField: "free_sulfur_dioxide"},
	{Column: "total sulfur dioxide", FormField: "total_sulfur_dioxide"},
	{Column: "density", FormField: "density"},
	{Column: "pH", FormField: "pH"},
	{Column: "sulphates", FormField: "sulphates"},
	{Column: "alcohol", FormField: "alcohol"},
}

// FeatureColumns returns the dataset column names in model order.
func FeatureColumns() []string {
	cols := make([]string, 0, NumFeatures)
	for _, f := range Features {
		cols = append(cols, f.Column)
	}
	return cols
}

// FeatureVector is one wine sample in model order.
type FeatureVector [NumFeatures]float64

// Row returns the vector as a single model input row.
func (v FeatureVector) Row() []float64 {
	row := make([]float64, NumFeatures)
	copy(row, v[:])
	return row
}

// ParseFeatureVector builds a vector from form values looked up by field name.
// Any missing or non-numeric field fails the whole vector.
func ParseFeatureVector(lookup func(field string) (string, bool)) (FeatureVector, error) {
	var v FeatureVector
	for i, f := range Features {
		raw, ok := lookup(f.FormField)
		if !ok {
			return v, fmt.Errorf("%s: %w", f.FormField, ErrInvalidFeature)
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return v, fmt.Errorf("%s: %w", f.FormField, ErrInvalidFeature)
		}
		v[i] = val
	}
	return v, nil
}
