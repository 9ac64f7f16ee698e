// Package ibt decodes iRacing IBT telemetry captures into telemetry logs.
package ibt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/nishizumi-racing/lapcompare/pkg/model"
)

var (
	// ErrCorruptTelemetryFile marks a computed offset outside the buffer.
	ErrCorruptTelemetryFile = errors.New("corrupt telemetry file")
	// ErrUnsupportedFieldType marks an unrecognized scalar type code.
	ErrUnsupportedFieldType = errors.New("unsupported field type")
)

// fixed little-endian capture layout
const (
	tickRateOffset     = 8
	varCountOffset     = 24
	varTableOffset     = 28
	recordStrideOffset = 36
	rowCountOffset     = 140 // inside the 32-byte sub-header at 112
	dataStartOffset    = 144

	varDescriptorSize = 144
	varNameOffset     = 16
	varNameLength     = 32
)

type scalarType int32

const (
	typeInt8 scalarType = iota
	typeUint8
	typeInt32
	typeBitField
	typeFloat32
	typeFloat64
)

type varDescriptor struct {
	name   string
	typ    scalarType
	offset int
	count  int
}

// channelSetters maps the decoded channel names onto sample fields. Every
// other channel in the capture is ignored.
var channelSetters = map[string]func(*model.TelemetrySample, float64){
	"LapDistPct":         func(s *model.TelemetrySample, v float64) { s.LapFraction = v },
	"LapDist":            func(s *model.TelemetrySample, v float64) { s.LapDistance = v },
	"Throttle":           func(s *model.TelemetrySample, v float64) { s.Throttle = v },
	"Brake":              func(s *model.TelemetrySample, v float64) { s.Brake = v },
	"Speed":              func(s *model.TelemetrySample, v float64) { s.Speed = v },
	"SteeringWheelAngle": func(s *model.TelemetrySample, v float64) { s.SteeringAngle = v },
	"Gear":               func(s *model.TelemetrySample, v float64) { s.Gear = v },
	"SessionTime":        func(s *model.TelemetrySample, v float64) { s.SessionTime = v },
}

// DecodeFile reads and decodes a capture file.
func DecodeFile(path string) (*model.TelemetryLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tlog, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tlog.Source = path
	return tlog, nil
}

// Decode parses raw capture bytes into an ordered telemetry log. Decoding
// fails on the first offset that falls outside the buffer and on
// unrecognized scalar type codes; there is no partial result.
func Decode(data []byte) (*model.TelemetryLog, error) {
	if len(data) < dataStartOffset {
		return nil, fmt.Errorf("%w: header needs %d bytes, got %d",
			ErrCorruptTelemetryFile, dataStartOffset, len(data))
	}
	tickRate := readInt32(data, tickRateOffset)
	varCount := readInt32(data, varCountOffset)
	tableOffset := readInt32(data, varTableOffset)
	stride := readInt32(data, recordStrideOffset)
	rowCount := readInt32(data, rowCountOffset)
	if varCount < 0 || tableOffset < 0 || stride < 0 || rowCount < 0 {
		return nil, fmt.Errorf("%w: negative header field", ErrCorruptTelemetryFile)
	}
	if rowCount > 0 {
		if stride < 1 {
			return nil, fmt.Errorf("%w: %d rows with record stride %d",
				ErrCorruptTelemetryFile, rowCount, stride)
		}
		if rowCount > (len(data)-dataStartOffset)/stride {
			return nil, fmt.Errorf("%w: %d rows of %d bytes exceed buffer",
				ErrCorruptTelemetryFile, rowCount, stride)
		}
	}

	selected, err := readDescriptors(data, tableOffset, varCount)
	if err != nil {
		return nil, err
	}

	samples := make([]model.TelemetrySample, 0, rowCount)
	for r := 0; r < rowCount; r++ {
		rowBase := dataStartOffset + r*stride
		var sample model.TelemetrySample
		for _, d := range selected {
			v, err := decodeScalar(data, rowBase+d.offset, d.typ)
			if err != nil {
				return nil, fmt.Errorf("row %d, channel %s: %w", r, d.name, err)
			}
			channelSetters[d.name](&sample, v)
		}
		samples = append(samples, sample)
	}
	return &model.TelemetryLog{Samples: samples, TickRateHz: tickRate}, nil
}

// readDescriptors materializes the whitelisted entries of the variable
// table in table order.
func readDescriptors(data []byte, tableOffset, varCount int) ([]varDescriptor, error) {
	selected := make([]varDescriptor, 0, len(channelSetters))
	for i := 0; i < varCount; i++ {
		base := tableOffset + i*varDescriptorSize
		if base < 0 || base+varDescriptorSize > len(data) {
			return nil, fmt.Errorf("%w: descriptor %d at offset %d exceeds buffer",
				ErrCorruptTelemetryFile, i, base)
		}
		d := varDescriptor{
			typ:    scalarType(readInt32(data, base)),
			offset: readInt32(data, base+4),
			count:  readInt32(data, base+8),
			name:   decodeName(data[base+varNameOffset : base+varNameOffset+varNameLength]),
		}
		if d.count < 1 {
			continue
		}
		if _, ok := channelSetters[d.name]; !ok {
			continue
		}
		selected = append(selected, d)
	}
	return selected, nil
}

func decodeName(raw []byte) string {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw)
}

func scalarWidth(typ scalarType) (int, error) {
	switch typ {
	case typeInt8, typeUint8:
		return 1, nil
	case typeInt32, typeBitField, typeFloat32:
		return 4, nil
	case typeFloat64:
		return 8, nil
	default:
		return 0, fmt.Errorf("%w: type code %d", ErrUnsupportedFieldType, typ)
	}
}

func decodeScalar(data []byte, offset int, typ scalarType) (float64, error) {
	width, err := scalarWidth(typ)
	if err != nil {
		return 0, err
	}
	if offset < 0 || offset+width > len(data) {
		return 0, fmt.Errorf("%w: value at offset %d exceeds buffer",
			ErrCorruptTelemetryFile, offset)
	}
	switch typ {
	case typeInt8:
		return float64(int8(data[offset])), nil
	case typeUint8:
		return float64(data[offset]), nil
	case typeInt32, typeBitField:
		return float64(int32(binary.LittleEndian.Uint32(data[offset:]))), nil
	case typeFloat32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(data[offset:]))), nil
	default: // typeFloat64, scalarWidth already rejected unknown codes
		return math.Float64frombits(binary.LittleEndian.Uint64(data[offset:])), nil
	}
}

// readInt32 assumes the caller verified the offset.
func readInt32(data []byte, offset int) int {
	return int(int32(binary.LittleEndian.Uint32(data[offset:])))
}
