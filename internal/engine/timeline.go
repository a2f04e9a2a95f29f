package engine

import (
	"fmt"
	"sort"
	"time"

	"statuswatch/internal/models"
)

const (
	// DefaultTimelinePoints controls how many buckets a timeline compresses to.
	DefaultTimelinePoints = 80

	bucketStateNone    = "none"
	bucketStateOK      = "ok"
	bucketStateIssue   = "issue"
	bucketStateUnknown = "unknown"
)

// TimelineBucket is one compressed slice of the status history.
type TimelineBucket struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	State  string    `json:"state"`
	Detail string    `json:"detail,omitempty"`
}

// BuildTimeline compresses a sample series into a fixed number of buckets
// over [start, end]. Buckets without samples report "none"; a bucket with
// any offline or degraded sample reports "issue" with the worst state and
// how many cycles hit it.
func BuildTimeline(samples []models.StatusSample, start, end time.Time, points int) []TimelineBucket {
	if points <= 0 {
		points = DefaultTimelinePoints
	}
	if !end.After(start) {
		end = start.Add(time.Minute)
	}

	ordered := make([]models.StatusSample, len(samples))
	copy(ordered, samples)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	bucketDuration := end.Sub(start) / time.Duration(points)
	if bucketDuration <= 0 {
		bucketDuration = time.Minute
	}

	output := make([]TimelineBucket, 0, points)
	cursor := 0
	for i := 0; i < points; i++ {
		bStart := start.Add(time.Duration(i) * bucketDuration)
		bEnd := bStart.Add(bucketDuration)
		if i == points-1 {
			bEnd = end
		}

		for cursor < len(ordered) && ordered[cursor].Timestamp.Before(bStart) {
			cursor++
		}

		total, online, unknown := 0, 0, 0
		worst := models.StatusOnline
		j := cursor
		for ; j < len(ordered) && ordered[j].Timestamp.Before(bEnd); j++ {
			s := ordered[j]
			total++
			switch s.Status {
			case models.StatusUnknown:
				unknown++
			case models.StatusOffline:
				worst = models.StatusOffline
			case models.StatusDegraded:
				if worst != models.StatusOffline {
					worst = models.StatusDegraded
				}
			default:
				online++
			}
		}
		cursor = j

		bad := total - online - unknown
		bucket := TimelineBucket{Start: bStart, End: bEnd}
		switch {
		case total == 0:
			bucket.State = bucketStateNone
		case bad > 0:
			bucket.State = bucketStateIssue
			bucket.Detail = fmt.Sprintf("%s in %d/%d cycles", worst, bad, total)
		case online > 0:
			bucket.State = bucketStateOK
		default:
			bucket.State = bucketStateUnknown
		}
		output = append(output, bucket)
	}
	return output
}
