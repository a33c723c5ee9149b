package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"modernize/internal/logging"
	"modernize/internal/services"
)

const genericSubmissionMessage = "Unable to schedule job, the server response could not be read."

// Scheduled is the server's acknowledgement of a scheduled job.
type Scheduled struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Job     string `json:"job"`
}

// SubmissionError reports a rejected or unreadable scheduling response. The
// message is the server's own text when one was supplied.
type SubmissionError struct {
	Status  int
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("submission failed (status %d): %s", e.Status, e.Message)
	}
	return "submission failed: " + e.Message
}

func (e *SubmissionError) Unwrap() []error {
	if e.Err != nil {
		return []error{services.ErrSubmission, e.Err}
	}
	return []error{services.ErrSubmission}
}

// ScheduleJob posts the job description as the form field "data".
func (c *Client) ScheduleJob(ctx context.Context, job any) (Scheduled, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return Scheduled{}, &SubmissionError{Message: "encode job description", Err: err}
	}
	form := url.Values{}
	form.Set("data", string(data))

	req, err := c.newRequest(ctx, http.MethodPost, c.resolve(c.endpoints.ScheduleJob, nil), strings.NewReader(form.Encode()))
	if err != nil {
		return Scheduled{}, &SubmissionError{Message: "build request", Err: err}
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return Scheduled{}, &SubmissionError{Message: fmt.Sprintf("execute request (latency=%v)", latency), Err: err}
	}
	defer resp.Body.Close()

	logging.WithContext(ctx, c.logger).Debug("schedule job response",
		logging.Int("status", resp.StatusCode),
		logging.Duration("latency", latency),
	)

	var scheduled Scheduled
	decodeErr := json.NewDecoder(resp.Body).Decode(&scheduled)
	message := strings.TrimSpace(scheduled.Message)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr != nil || message == "" {
			message = genericSubmissionMessage
		}
		return Scheduled{}, &SubmissionError{Status: resp.StatusCode, Message: message, Err: decodeErr}
	}
	if decodeErr != nil {
		return Scheduled{}, &SubmissionError{Status: resp.StatusCode, Message: genericSubmissionMessage, Err: decodeErr}
	}
	if !scheduled.Success || strings.TrimSpace(scheduled.Job) == "" {
		if message == "" {
			message = genericSubmissionMessage
		}
		return Scheduled{}, &SubmissionError{Status: resp.StatusCode, Message: message}
	}
	scheduled.Message = message
	return scheduled, nil
}
