// Package testutil provides shared test helpers and robot log fixtures.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TabularHeader is the column header written by the robot's CSV logger.
const TabularHeader = "time_s,axis1,axis2,axis3,axis4,intake_action,outtake_action"

// TabularRow is one row of a CSV robot log.
type TabularRow struct {
	T                          float64
	Axis1, Axis2, Axis3, Axis4 float64
	Intake, Outtake            string
}

// TabularLog renders rows under TabularHeader with "\n" line endings.
func TabularLog(rows ...TabularRow) string {
	var b strings.Builder
	b.WriteString(TabularHeader)
	b.WriteByte('\n')
	for _, r := range rows {
		fmt.Fprintf(&b, "%g,%g,%g,%g,%g,%s,%s\n", r.T, r.Axis1, r.Axis2, r.Axis3, r.Axis4, r.Intake, r.Outtake)
	}
	return b.String()
}

// AxisBlock renders one complete set of AXIS1..AXIS4 event lines.
func AxisBlock(a1, a2, a3, a4 float64) string {
	return fmt.Sprintf("AXIS1 : %g\nAXIS2 : %g\nAXIS3 : %g\nAXIS4 : %g\n", a1, a2, a3, a4)
}

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// NewTestRequest creates a test HTTP request.
func NewTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}
