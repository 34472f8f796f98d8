package export

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/fsutil"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/kinematics"
)

var samplePoses = []kinematics.Pose{
	{T: 0, X: 72, Y: 72, Axis2: 50, Axis3: 50, LeftCmd: 50, RightCmd: 50},
	{T: 1, X: 102, Y: 72, Theta: 0.25, Axis2: 50, Axis3: 50, LeftCmd: 50, RightCmd: 50, Action: "INTAKE:IN, fast OUT:"},
}

func TestMarshalCSV(t *testing.T) {
	t.Parallel()

	data, err := MarshalCSV(samplePoses)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Columns, records[0])
	assert.Equal(t, []string{"0", "72", "72", "0", "50", "50", "0", "50", "50", "0", ""}, records[1])
	assert.Equal(t, "INTAKE:IN, fast OUT:", records[2][10])
	assert.Equal(t, "0.25", records[2][3])
}

func TestMarshalJSON(t *testing.T) {
	t.Parallel()

	data, err := MarshalJSON(samplePoses)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 2)
	for _, col := range Columns {
		assert.Contains(t, rows[0], col)
	}
	assert.Equal(t, 102.0, rows[1]["x"])

	empty, err := MarshalJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(empty))
}

func TestMarshalParquetRoundTrip(t *testing.T) {
	t.Parallel()

	data, err := MarshalParquet(samplePoses)
	require.NoError(t, err)
	require.True(t, len(data) > 8)
	assert.Equal(t, "PAR1", string(data[:4]))

	got, err := UnmarshalParquet(data)
	require.NoError(t, err)
	if diff := cmp.Diff(samplePoses, got); diff != "" {
		t.Errorf("parquet round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()

	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, Write(mfs, "/out/run/poses.json", samplePoses, FormatJSON))
	assert.True(t, mfs.Exists("/out/run"))

	data, err := mfs.ReadFile("/out/run/poses.json")
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	assert.Error(t, Write(mfs, "/out/poses.xml", samplePoses, Format("xml")))
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Format{"csv": FormatCSV, " JSON ": FormatJSON, "parquet": FormatParquet} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("html")
	assert.Error(t, err)
}

func TestFormatForPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatJSON, FormatForPath("poses.JSON"))
	assert.Equal(t, FormatParquet, FormatForPath("/tmp/run.parquet"))
	assert.Equal(t, FormatCSV, FormatForPath("poses.csv"))
	assert.Equal(t, FormatCSV, FormatForPath("poses"))
}
