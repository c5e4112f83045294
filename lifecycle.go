package main

import "fmt"

// The project and task lifecycles are static transition tables. All status
// changes flow through the event functions below so the rules live in one
// place and can be checked without a database.

var projectTransitions = map[string][]string{
	ProjectOpen:       {ProjectRequested},
	ProjectRequested:  {ProjectAssigned},
	ProjectAssigned:   {ProjectInProgress},
	ProjectInProgress: {ProjectSubmitted},
	ProjectSubmitted:  {ProjectCompleted, ProjectRejected},
	ProjectRejected:   {ProjectSubmitted},
	ProjectCompleted:  {},
}

// taskEditTransitions covers only direct status edits through the task
// update operation. SUBMITTED and COMPLETED move solely via submission
// review.
var taskEditTransitions = map[string][]string{
	TaskCreated:    {TaskInProgress},
	TaskInProgress: {TaskSubmitted},
	TaskSubmitted:  {},
	TaskCompleted:  {},
}

func projectCanTransition(current, next string) bool {
	for _, s := range projectTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

func validateProjectTransition(current, next string) error {
	if !projectCanTransition(current, next) {
		return errBadRequest(fmt.Sprintf("Invalid transition from %s to %s", current, next))
	}
	return nil
}

func validateTaskEdit(current, next string) error {
	allowed := false
	for _, s := range taskEditTransitions[current] {
		if s == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return errBadRequest(fmt.Sprintf("Invalid status transition from %s to %s", current, next))
	}
	return nil
}

// onRequestCreated: a solver bids on a project. The first request moves the
// project OPEN → REQUESTED; further solvers may still bid while it stays
// REQUESTED. Anything later in the lifecycle refuses new requests.
func onRequestCreated(projectStatus string) (string, error) {
	switch projectStatus {
	case ProjectOpen, ProjectRequested:
		return ProjectRequested, nil
	}
	return "", errBadRequest("Project is not open for requests")
}

// onSolverAssigned: the buyer picks a solver. Valid only from REQUESTED.
func onSolverAssigned(projectStatus string) (string, error) {
	if projectStatus != ProjectRequested {
		return "", errBadRequest("Project must be in REQUESTED state to assign solver")
	}
	return ProjectAssigned, nil
}

// onTaskCreated: the solver decomposes work. Allowed while the project is
// anywhere between assignment and completion; always lands on IN_PROGRESS.
func onTaskCreated(projectStatus string) (string, error) {
	switch projectStatus {
	case ProjectAssigned, ProjectInProgress, ProjectSubmitted, ProjectRejected:
		return ProjectInProgress, nil
	}
	return "", errBadRequest("Project must be ASSIGNED, IN_PROGRESS, SUBMITTED, or REJECTED to add tasks")
}

// onSubmissionUploaded: the task takes a new deliverable only while CREATED
// or IN_PROGRESS, then moves to SUBMITTED.
func onSubmissionUploaded(taskStatus string) (string, error) {
	if taskStatus != TaskCreated && taskStatus != TaskInProgress {
		return "", errBadRequest("Task must be CREATED or IN_PROGRESS to submit")
	}
	return TaskSubmitted, nil
}

// projectStatusAfterSubmissions: once every task (and there is at least one)
// is SUBMITTED or COMPLETED, the project as a whole is SUBMITTED.
func projectStatusAfterSubmissions(current string, taskStatuses []string) string {
	if len(taskStatuses) == 0 {
		return current
	}
	for _, s := range taskStatuses {
		if s != TaskSubmitted && s != TaskCompleted {
			return current
		}
	}
	return ProjectSubmitted
}

// onSubmissionReviewed maps a review verdict to the owning task's next
// status.
func onSubmissionReviewed(accepted bool) string {
	if accepted {
		return TaskCompleted
	}
	return TaskInProgress
}

// projectStatusAfterReview applies the cross-entity propagation of a review:
// acceptance completes the project when every task is COMPLETED, rejection
// reopens a SUBMITTED project.
func projectStatusAfterReview(current string, accepted bool, taskStatuses []string) string {
	if accepted {
		for _, s := range taskStatuses {
			if s != TaskCompleted {
				return current
			}
		}
		return ProjectCompleted
	}
	if current == ProjectSubmitted {
		return ProjectInProgress
	}
	return current
}
