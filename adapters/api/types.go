package api

import (
	"fmt"

	"gotyche/domain/dataset"
	"gotyche/domain/encoding"
	"gotyche/internal/aggregate"
	"gotyche/internal/nist"
)

// ParamsRequest overrides the server defaults for one run. Unset fields keep
// the configured value.
type ParamsRequest struct {
	Method           string   `json:"method,omitempty"`
	Mode             string   `json:"mode,omitempty"`
	StartYear        *int     `json:"start_year,omitempty"`
	EndYear          *int     `json:"end_year,omitempty"`
	YearsPerBlock    *float64 `json:"years_per_block,omitempty"`
	StreamSize       *int     `json:"stream_size,omitempty"`
	ScaleBasisPoints *bool    `json:"scale_basis_points,omitempty"`
	FloatWidth       *int     `json:"float_width,omitempty"`

	Condition  *float64 `json:"condition,omitempty"`
	PassBar    *float64 `json:"pass_bar,omitempty"`
	BlockSize  *int     `json:"block_size,omitempty"`
	MatrixSize *int     `json:"matrix_size,omitempty"`
	RankMethod string   `json:"rank_method,omitempty"`
}

// AnalyzeRequest is the JSON body of POST /api/v1/analyze
type AnalyzeRequest struct {
	Name           string               `json:"name"`
	Columns        map[string][]float64 `json:"columns"`
	Index          []string             `json:"index,omitempty"`
	Params         ParamsRequest        `json:"params"`
	IncludeStreams bool                 `json:"include_streams"`
}

// SweepRequest is the JSON body of POST /api/v1/sweep
type SweepRequest struct {
	AnalyzeRequest
	YearsPerBlock []float64 `json:"years_per_block"`
	Fixtures      bool      `json:"fixtures"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Dataset builds the dataset carried in the request body
func (r AnalyzeRequest) Dataset() (*dataset.Dataset, error) {
	name := r.Name
	if name == "" {
		name = "request"
	}
	ds, err := dataset.FromColumns(name, r.Columns)
	if err != nil {
		return nil, err
	}
	if len(r.Index) > 0 {
		ds.SetIndex(r.Index)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Apply layers the overrides onto the defaults
func (p ParamsRequest) Apply(params encoding.Params, battery nist.Config, thresholds aggregate.Config) (encoding.Params, nist.Config, aggregate.Config, error) {
	if p.Method != "" {
		method, err := encoding.ParseMethod(p.Method)
		if err != nil {
			return params, battery, thresholds, err
		}
		params.Method = method
	}
	if p.Mode != "" {
		mode, err := encoding.ParsePartitionMode(p.Mode)
		if err != nil {
			return params, battery, thresholds, err
		}
		params.Mode = mode
	}
	setInt(&params.Span.Start, p.StartYear)
	setInt(&params.Span.End, p.EndYear)
	setFloat(&params.YearsPerBlock, p.YearsPerBlock)
	setInt(&params.StreamSize, p.StreamSize)
	setInt(&params.FloatWidth, p.FloatWidth)
	if p.ScaleBasisPoints != nil {
		params.ScaleBasisPoints = *p.ScaleBasisPoints
	}

	setFloat(&battery.Condition, p.Condition)
	setFloat(&thresholds.Condition, p.Condition)
	setFloat(&thresholds.PassBar, p.PassBar)
	setInt(&battery.BlockSize, p.BlockSize)
	setInt(&battery.MatrixSize, p.MatrixSize)
	if p.RankMethod != "" {
		method, err := nist.ParseRankMethod(p.RankMethod)
		if err != nil {
			return params, battery, thresholds, err
		}
		battery.RankMethod = method
	}

	if err := params.Validate(); err != nil {
		return params, battery, thresholds, fmt.Errorf("encoding parameters: %w", err)
	}
	return params, battery, thresholds, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
