package pipeline

import (
	"time"

	"github.com/matzehuels/badgepress/pkg/batch"
	"github.com/matzehuels/badgepress/pkg/errors"
	"github.com/matzehuels/badgepress/pkg/roster"
)

// Report is the JSON form of a render run, returned by the server and kept
// in the report store.
type Report struct {
	BatchID    string `json:"batch_id"`
	RosterHash string `json:"roster_hash,omitempty"`
	batch.Counts
	Results   []RecordReport `json:"results"`
	CreatedAt time.Time      `json:"created_at"`
}

// RecordReport describes the outcome for one roster row.
type RecordReport struct {
	Line       int           `json:"line"`
	Status     batch.Status  `json:"status"`
	Record     roster.Record `json:"record"`
	OutputPath string        `json:"output_path,omitempty"`
	Code       errors.Code   `json:"code,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// NewReport builds the report for a result.
func NewReport(res *Result) Report {
	rep := Report{
		BatchID:    res.BatchID,
		RosterHash: res.RosterHash,
		Counts:     res.Summary,
		Results:    make([]RecordReport, 0, len(res.Results)),
		CreatedAt:  time.Now().UTC(),
	}
	for _, r := range res.Results {
		rep.Results = append(rep.Results, RecordReport{
			Line:       r.Line,
			Status:     r.Status,
			Record:     r.Record,
			OutputPath: r.OutputPath,
			Code:       errors.GetCode(r.Err),
			Error:      r.Reason(),
		})
	}
	return rep
}
