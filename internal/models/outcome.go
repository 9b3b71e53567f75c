package models

import "time"

// FileOutcome tags what happened to one input file
type FileOutcome string

const (
	OutcomeSuccess     FileOutcome = "success"
	OutcomeQuarantined FileOutcome = "quarantined"
	OutcomeFailed      FileOutcome = "failed"
	OutcomeSkipped     FileOutcome = "skipped"
)

// FileResult is the outcome of processing one input file
type FileResult struct {
	File    string
	Outcome FileOutcome
	Err     error
}

// UploadReport summarizes one upload run
type UploadReport struct {
	InputDir  string
	ErrorDir  string
	IndexName string
	Results   []FileResult
	StartTime time.Time
	EndTime   time.Time
}

// Add records a file result
func (r *UploadReport) Add(result FileResult) {
	r.Results = append(r.Results, result)
}

// Count returns how many files ended with outcome
func (r *UploadReport) Count(outcome FileOutcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// Outcome returns the recorded outcome for file
func (r *UploadReport) Outcome(file string) (FileOutcome, bool) {
	for _, res := range r.Results {
		if res.File == file {
			return res.Outcome, true
		}
	}
	return "", false
}

// DownloadReport summarizes one search run
type DownloadReport struct {
	SearchName   string
	IndexName    string
	OutputDir    string
	TotalHits    int64
	PagesFetched int
	WrittenFiles []string
	Truncated    bool
	StartTime    time.Time
	EndTime      time.Time
}
