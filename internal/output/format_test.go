package output_test

import (
	"bytes"
	"testing"

	"taskcli/internal/output"
	"taskcli/internal/service"
	"taskcli/internal/testutil"
)

var sample = []service.Task{
	{ID: "1", Title: "buy milk"},
	{ID: "2", Title: "walk dog", Completed: true},
	{ID: "3", Title: "   "},
	{ID: "4", Title: "line one\nline two"},
}

func TestFormatTasks(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTasks(&buf, sample)
	testutil.Golden(t, "list", buf.Bytes())
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	output.Summary(&buf, sample)
	testutil.Golden(t, "summary", buf.Bytes())
}

func TestSummary_Singular(t *testing.T) {
	var buf bytes.Buffer
	output.Summary(&buf, sample[:1])
	if got := buf.String(); got != "1 task, 0 done\n" {
		t.Errorf("unexpected summary %q", got)
	}
}

func TestFormatTask_WideNumber(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTask(&buf, 12345, service.Task{Title: "x"})
	if got := buf.String(); got != "12345  [ ] x\n" {
		t.Errorf("unexpected line %q", got)
	}
}
