package export

import (
	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/kinematics"
)

type poseParquetRow struct {
	T        float64 `parquet:"name=t, type=DOUBLE"`
	X        float64 `parquet:"name=x, type=DOUBLE"`
	Y        float64 `parquet:"name=y, type=DOUBLE"`
	Theta    float64 `parquet:"name=theta, type=DOUBLE"`
	LeftCmd  float64 `parquet:"name=left_cmd, type=DOUBLE"`
	RightCmd float64 `parquet:"name=right_cmd, type=DOUBLE"`
	Axis1    float64 `parquet:"name=axis1, type=DOUBLE"`
	Axis2    float64 `parquet:"name=axis2, type=DOUBLE"`
	Axis3    float64 `parquet:"name=axis3, type=DOUBLE"`
	Axis4    float64 `parquet:"name=axis4, type=DOUBLE"`
	Action   string  `parquet:"name=action, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
}

// MarshalParquet encodes poses as a SNAPPY-compressed Parquet file.
func MarshalParquet(poses []kinematics.Pose) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(poseParquetRow), 4)
	if err != nil {
		return nil, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, p := range poses {
		row := poseParquetRow{
			T:        p.T,
			X:        p.X,
			Y:        p.Y,
			Theta:    p.Theta,
			LeftCmd:  p.LeftCmd,
			RightCmd: p.RightCmd,
			Axis1:    p.Axis1,
			Axis2:    p.Axis2,
			Axis3:    p.Axis3,
			Axis4:    p.Axis4,
			Action:   p.Action,
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return nil, err
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}

// UnmarshalParquet decodes a file written by MarshalParquet.
func UnmarshalParquet(data []byte) ([]kinematics.Pose, error) {
	fr := parquetbuffer.NewBufferFileFromBytes(data)
	pr, err := reader.NewParquetReader(fr, new(poseParquetRow), 4)
	if err != nil {
		return nil, err
	}
	defer pr.ReadStop()

	rows := make([]poseParquetRow, int(pr.GetNumRows()))
	if err := pr.Read(&rows); err != nil {
		return nil, err
	}

	poses := make([]kinematics.Pose, len(rows))
	for i, r := range rows {
		poses[i] = kinematics.Pose{
			T:        r.T,
			X:        r.X,
			Y:        r.Y,
			Theta:    r.Theta,
			LeftCmd:  r.LeftCmd,
			RightCmd: r.RightCmd,
			Axis1:    r.Axis1,
			Axis2:    r.Axis2,
			Axis3:    r.Axis3,
			Axis4:    r.Axis4,
			Action:   r.Action,
		}
	}
	return poses, nil
}
