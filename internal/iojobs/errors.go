package iojobs

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/ncpp/dscat/pkg/errcode"
)

// RequestError creates an error for a job request that fails validation.
func RequestError(err error) error {
	msg := "Invalid job request: %s"
	vars := []any{err.Error()}
	return &gn.Error{
		Code: errcode.JobRequestError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("invalid job request: %w", err),
	}
}

// SubmitError creates an error for a job the execution service did not
// accept.
func SubmitError(url string, err error) error {
	msg := `Cannot submit job to <em>%s</em>

<em>How to fix:</em>
  1. Check that the execution service is running
  2. Set its address with <em>DSCAT_EXECUTOR_URL</em>`

	vars := []any{url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.JobSubmitError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: submit to %s: %w", fn.Name(), url, err),
	}
}

// StatusError creates an error for a job status that cannot be read.
func StatusError(id string, err error) error {
	msg := "Cannot get status of job <em>%s</em>"
	vars := []any{id}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.JobStatusError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: status of %s: %w", fn.Name(), id, err),
	}
}

// FailedError creates an error for a job that finished with failure.
func FailedError(id, message string) error {
	msg := "Job <em>%s</em> failed: %s"
	vars := []any{id, message}
	return &gn.Error{
		Code: errcode.JobFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("job %s failed: %s", id, message),
	}
}

// TimeoutError creates an error for a job that did not finish in time,
// or whose wait was cancelled.
func TimeoutError(id string, err error) error {
	msg := `Stopped waiting for job <em>%s</em>

The job may still be running, check it later with <em>dscat submit --status %s</em>`
	vars := []any{id, id}
	return &gn.Error{
		Code: errcode.JobTimeoutError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("waiting for job %s: %w", id, err),
	}
}
