package aggregate

import (
	"strconv"

	"kafkaview/internal/cache"
	"kafkaview/internal/metadata"
	"kafkaview/internal/watermark"
)

// LagRow is one partition's entry in the offset-lag view: spec.md's
// end-to-end scenario S4 names these fields exactly.
type LagRow struct {
	Topic      metadata.TopicName
	Partition  int32
	Low        int64
	High       int64
	Offset     int64
	LagDisplay string
}

// GroupOffsets is one (topic) entry of a group's committed offsets, index
// = partition id, as stored in the offsets cache.
type GroupOffsets struct {
	Topic     metadata.TopicName
	Committed []int64
}

// ComputeLag pairs a consumer group's committed offsets with the
// watermarks fanned out for the same (topic, partition) pairs, and
// applies the caller-side interpretation spec.md §4.6 describes:
// high == 0 is an empty topic, offset-low < 0 is out of retention,
// otherwise the lag is high - offset. A partition with no corresponding
// watermark result (lookup failed or was never requested) reports -1 for
// low, high and lag, matching scenario S4.
func ComputeLag(offsets []GroupOffsets, watermarks map[watermark.TopicPartition]watermark.Result) []LagRow {
	rows := make([]LagRow, 0)
	for _, entry := range offsets {
		for partition, offset := range entry.Committed {
			tp := watermark.TopicPartition{Topic: entry.Topic, Partition: int32(partition)}
			res, ok := watermarks[tp]

			var low, high int64 = -1, -1
			if ok && res.Err == nil {
				low, high = res.Low, res.High
			}

			rows = append(rows, LagRow{
				Topic:      entry.Topic,
				Partition:  int32(partition),
				Low:        low,
				High:       high,
				Offset:     offset,
				LagDisplay: lagDisplay(low, high, offset),
			})
		}
	}
	return rows
}

func lagDisplay(low, high, offset int64) string {
	if low < 0 || high < 0 {
		return "-1"
	}
	if high == 0 {
		return "Empty topic"
	}
	if offset-low < 0 {
		return "Out of retention"
	}
	return strconv.FormatInt(high-offset, 10)
}
