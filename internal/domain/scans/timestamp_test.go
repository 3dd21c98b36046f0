package scans

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	want := time.Date(2025, 12, 4, 9, 46, 18, 0, time.UTC)
	cases := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", `"2025-12-04T09:46:18Z"`, want},
		{"offset", `"2025-12-04T16:46:18+07:00"`, want},
		{"fraction", `"2025-12-04T09:46:18.000000Z"`, want},
		{"no zone", `"2025-12-04T09:46:18"`, want},
		{"sql", `"2025-12-04 09:46:18"`, want},
		{"epoch seconds", `1764841578`, want},
		{"epoch millis", `1764841578000`, want},
		{"null", `null`, time.Time{}},
		{"empty", `""`, time.Time{}},
		{"garbage", `"next tuesday"`, time.Time{}},
		{"object", `{"at":1}`, time.Time{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tc.in), &ts))
			assert.True(t, tc.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}
}

func TestScan_DecodesOddCreatedAt(t *testing.T) {
	var s Scan
	err := json.Unmarshal([]byte(`{"id":"s1","status":"queued","createdAt":"04/12/2025 09:46"}`), &s)
	require.NoError(t, err)
	assert.Equal(t, ScanID("s1"), s.ID)
	assert.True(t, s.CreatedAt.IsZero())

	row := NewTrackedScan(nil, &s, time.Unix(100, 0))
	assert.Equal(t, time.Unix(100, 0), row.SubmittedAt)
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	b, err = json.Marshal(Timestamp{Time: time.Date(2025, 12, 4, 9, 46, 18, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2025-12-04T09:46:18Z"`, string(b))
}
