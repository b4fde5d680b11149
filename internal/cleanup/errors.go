package cleanup

import "fmt"

const partialFailureErrorTemplateConstant = "%s: %d deletions failed"

// PartialFailureError reports deletions that failed after the run continued past them.
type PartialFailureError struct {
	Operation   string
	FailedCount int
}

// Error describes how many deletions failed.
func (failureError PartialFailureError) Error() string {
	return fmt.Sprintf(partialFailureErrorTemplateConstant, failureError.Operation, failureError.FailedCount)
}
