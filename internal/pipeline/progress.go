package pipeline

// Progress checkpoints reserved outside the step band.
const (
	// ProgressSetup is published immediately after a job is claimed, before
	// input resolution.
	ProgressSetup = 5
	// ProgressDone is the terminal progress for both success and failure.
	ProgressDone = 100

	progressBandStart = 10
	progressBandEnd   = 95
)

// ProgressFor maps a step index within a pipeline of the given length onto
// the 10..95 band. Index 0 is the start of the first step and index == total
// the completion of the last. Empty pipelines report completion.
func ProgressFor(index, total int) int {
	if total <= 0 {
		return ProgressDone
	}
	if index < 0 {
		index = 0
	}
	if index > total {
		index = total
	}
	return progressBandStart + (progressBandEnd-progressBandStart)*index/total
}
