// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reporter

// ErrorReporter is given every error encountered during a single file's
// parse or during resolution. Returning nil tells the caller to keep going (collect the error
// and continue, per spec.md §7's "remaining files continue to parse"
// policy); returning a non-nil error aborts that file immediately with the
// returned error.
type ErrorReporter func(err ErrorWithPos) error

// Reporter is the pair of callbacks a Handler dispatches to.
type Reporter interface {
	HandleError(ErrorWithPos) error
	HandleWarning(ErrorWithPos)
}

// Handler accumulates errors reported during one run of a stage. It is
// not safe for concurrent use; parsing, resolution, and generation are
// single-threaded per spec.md §5. Generate gives each file's parse its own
// Handler and uses one more for the whole resolution run.
type Handler struct {
	reporter ErrorReporter
	errs     []ErrorWithPos
	warnings []ErrorWithPos
	aborted  error
}

// NewHandler returns a Handler. If reporter is nil, the default policy
// applies: the first error reported aborts processing.
func NewHandler(reporter ErrorReporter) *Handler {
	return &Handler{reporter: reporter}
}

// HandleError records err. If the configured ErrorReporter (or the
// default policy, when none was configured) says to abort, HandleError
// returns a non-nil error and all future calls return the same error
// without re-invoking the reporter.
func (h *Handler) HandleError(err ErrorWithPos) error {
	if h.aborted != nil {
		return h.aborted
	}
	h.errs = append(h.errs, err)
	var abortErr error
	if h.reporter != nil {
		abortErr = h.reporter(err)
	} else {
		abortErr = err
	}
	if abortErr != nil {
		h.aborted = abortErr
	}
	return abortErr
}

// HandleWarning records a non-fatal diagnostic; it never aborts.
func (h *Handler) HandleWarning(err ErrorWithPos) {
	h.warnings = append(h.warnings, err)
}

// Errors returns every error recorded so far, in report order.
func (h *Handler) Errors() []ErrorWithPos { return h.errs }

// Warnings returns every warning recorded so far, in report order.
func (h *Handler) Warnings() []ErrorWithPos { return h.warnings }

// Error returns ErrInvalidSource if any error was recorded but the
// reporter never asked to abort (so parsing ran to completion despite
// defects), or nil if no error was ever recorded.
func (h *Handler) Error() error {
	if h.aborted != nil {
		return h.aborted
	}
	if len(h.errs) > 0 {
		return ErrInvalidSource
	}
	return nil
}
