package aggregate

import (
	"errors"
	"testing"

	"kafkaview/internal/watermark"
)

// TestComputeLag_ScenarioS4 reproduces spec.md's end-to-end scenario S4:
// offsets cache has (c1, "g1", "t1") -> [100, 200]; the watermark fanout
// reports partition 0 as (10, 150) and partition 1 as an error; the lag
// view must report [("t1", 0, 10, 150, 100, "50"), ("t1", 1, -1, -1, 200, "-1")].
func TestComputeLag_ScenarioS4(t *testing.T) {
	offsets := []GroupOffsets{
		{Topic: "t1", Committed: []int64{100, 200}},
	}
	watermarks := map[watermark.TopicPartition]watermark.Result{
		{Topic: "t1", Partition: 0}: {Low: 10, High: 150},
		{Topic: "t1", Partition: 1}: {Err: errors.New("watermark query failed")},
	}

	rows := ComputeLag(offsets, watermarks)

	if len(rows) != 2 {
		t.Fatalf("ComputeLag() returned %d rows, want 2", len(rows))
	}
	want := []LagRow{
		{Topic: "t1", Partition: 0, Low: 10, High: 150, Offset: 100, LagDisplay: "50"},
		{Topic: "t1", Partition: 1, Low: -1, High: -1, Offset: 200, LagDisplay: "-1"},
	}
	for i, w := range want {
		if rows[i] != w {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], w)
		}
	}
}

func TestComputeLag_EmptyTopic(t *testing.T) {
	offsets := []GroupOffsets{{Topic: "t1", Committed: []int64{0}}}
	watermarks := map[watermark.TopicPartition]watermark.Result{
		{Topic: "t1", Partition: 0}: {Low: 0, High: 0},
	}

	rows := ComputeLag(offsets, watermarks)
	if rows[0].LagDisplay != "Empty topic" {
		t.Errorf("LagDisplay = %q, want %q", rows[0].LagDisplay, "Empty topic")
	}
}

func TestComputeLag_OutOfRetention(t *testing.T) {
	offsets := []GroupOffsets{{Topic: "t1", Committed: []int64{5}}}
	watermarks := map[watermark.TopicPartition]watermark.Result{
		{Topic: "t1", Partition: 0}: {Low: 50, High: 150},
	}

	rows := ComputeLag(offsets, watermarks)
	if rows[0].LagDisplay != "Out of retention" {
		t.Errorf("LagDisplay = %q, want %q", rows[0].LagDisplay, "Out of retention")
	}
}

func TestComputeLag_MissingWatermarkResult(t *testing.T) {
	offsets := []GroupOffsets{{Topic: "t1", Committed: []int64{10}}}
	rows := ComputeLag(offsets, map[watermark.TopicPartition]watermark.Result{})
	if rows[0].Low != -1 || rows[0].High != -1 || rows[0].LagDisplay != "-1" {
		t.Errorf("row = %+v, want Low/High/-1 sentinel", rows[0])
	}
}
