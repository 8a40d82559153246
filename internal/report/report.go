// Package report renders conversion results as JSON, PDF and QR artifacts.
package report

import (
	"encoding/json"
	"os"
	"time"
)

// InputResult summarizes the conversion of one interchange.
type InputResult struct {
	Input        string `json:"input"`
	Version      string `json:"version,omitempty"`
	Size         int64  `json:"size"`
	Transactions int    `json:"transactions"`
	Malformed    int    `json:"malformed,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Summary aggregates the per-input results of a batch run.
type Summary struct {
	Inputs       int  `json:"inputs"`
	Transactions int  `json:"transactions"`
	Failures     int  `json:"failures"`
	Pass         bool `json:"pass"`
}

// ConversionReport is the persisted record of one batch conversion.
type ConversionReport struct {
	CreatedAt time.Time     `json:"createdAt"`
	Tool      string        `json:"tool"`
	Summary   Summary       `json:"summary"`
	Results   []InputResult `json:"results"`
}

// Build assembles a report from the per-input results, deriving the summary.
func Build(results []InputResult) ConversionReport {
	rep := ConversionReport{
		CreatedAt: time.Now().UTC(),
		Tool:      "edictl",
		Results:   results,
	}
	for _, r := range results {
		rep.Summary.Inputs++
		rep.Summary.Transactions += r.Transactions
		if r.Error != "" {
			rep.Summary.Failures++
		}
	}
	rep.Summary.Pass = rep.Summary.Failures == 0
	return rep
}

func SaveJSON(rep ConversionReport, out string) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(out, b, 0644)
}

func LoadJSON(path string) (ConversionReport, error) {
	var rep ConversionReport
	b, err := os.ReadFile(path)
	if err != nil {
		return rep, err
	}
	err = json.Unmarshal(b, &rep)
	return rep, err
}
