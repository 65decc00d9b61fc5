package pprofdecode

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrInvalidProfile is returned (wrapped) when data cannot be parsed as a
// pprof profile message.
var ErrInvalidProfile = errors.New("invalid profile")

// gzipMagic is the two leading bytes of a gzip stream. pprof profiles are
// conventionally gzip-compressed on the wire; this decoder accepts both
// compressed and raw protobuf input.
var gzipMagic = []byte{0x1f, 0x8b}

// field numbers on the top-level perftools.profiles.Profile message.
const (
	fieldSample      = 2
	fieldLocation    = 4
	fieldFunction    = 5
	fieldStringTable = 6
)

// field numbers on Profile.Sample.
const (
	sampleFieldLocationID = 1
	sampleFieldValue      = 2
)

// field numbers on Profile.Location.
const (
	locationFieldID   = 1
	locationFieldLine = 4
)

// field numbers on Profile.Location.Line.
const (
	lineFieldFunctionID = 1
)

// field numbers on Profile.Function.
const (
	functionFieldID   = 1
	functionFieldName = 2
)

// Decode parses pprof-formatted bytes into a Profile. It never panics:
// truncated or malformed input is reported as an error wrapping
// ErrInvalidProfile, and missing optional fields become their zero/empty
// counterparts.
func Decode(data []byte) (*Profile, error) {
	raw, err := maybeGunzip(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	prof := &Profile{}
	b := raw
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldStringTable && typ == protowire.BytesType:
			s, n, err := consumeString(b)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
			}
			prof.StringTable = append(prof.StringTable, s)
			b = b[n:]

		case num == fieldFunction && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, protowire.ParseError(n))
			}
			fn, err := decodeFunction(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
			}
			prof.Function = append(prof.Function, fn)
			b = b[n:]

		case num == fieldLocation && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, protowire.ParseError(n))
			}
			loc, err := decodeLocation(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
			}
			prof.Location = append(prof.Location, loc)
			b = b[n:]

		case num == fieldSample && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, protowire.ParseError(n))
			}
			s, err := decodeSample(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
			}
			prof.Sample = append(prof.Sample, s)
			b = b[n:]

		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}

	return prof, nil
}

func maybeGunzip(data []byte) ([]byte, error) {
	if len(data) < 2 || !bytes.Equal(data[:2], gzipMagic) {
		return data, nil
	}
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func consumeString(b []byte) (string, int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return "", 0, protowire.ParseError(n)
	}
	return string(v), n, nil
}

func decodeFunction(data []byte) (Function, error) {
	var fn Function
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return Function{}, protowire.ParseError(n)
		}
		data = data[n:]

		switch {
		case num == functionFieldID && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return Function{}, protowire.ParseError(n)
			}
			fn.ID = v
			data = data[n:]

		case num == functionFieldName && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return Function{}, protowire.ParseError(n)
			}
			fn.NameIndex = int64(v)
			data = data[n:]

		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return Function{}, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return fn, nil
}

func decodeLocation(data []byte) (Location, error) {
	var loc Location
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return Location{}, protowire.ParseError(n)
		}
		data = data[n:]

		switch {
		case num == locationFieldID && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return Location{}, protowire.ParseError(n)
			}
			loc.ID = v
			data = data[n:]

		case num == locationFieldLine && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return Location{}, protowire.ParseError(n)
			}
			line, err := decodeLine(v)
			if err != nil {
				return Location{}, err
			}
			loc.Line = append(loc.Line, line)
			data = data[n:]

		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return Location{}, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return loc, nil
}

func decodeLine(data []byte) (Line, error) {
	var line Line
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return Line{}, protowire.ParseError(n)
		}
		data = data[n:]

		switch {
		case num == lineFieldFunctionID && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return Line{}, protowire.ParseError(n)
			}
			line.FunctionID = v
			data = data[n:]

		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return Line{}, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return line, nil
}

func decodeSample(data []byte) (Sample, error) {
	var s Sample
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return Sample{}, protowire.ParseError(n)
		}
		data = data[n:]

		switch {
		case num == sampleFieldLocationID && typ == protowire.BytesType:
			// Packed repeated uint64: a length-delimited run of varints.
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return Sample{}, protowire.ParseError(n)
			}
			ids, err := consumePackedVarints(v)
			if err != nil {
				return Sample{}, err
			}
			s.LocationID = append(s.LocationID, ids...)
			data = data[n:]

		case num == sampleFieldLocationID && typ == protowire.VarintType:
			// Unpacked encoding: one varint per occurrence.
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return Sample{}, protowire.ParseError(n)
			}
			s.LocationID = append(s.LocationID, v)
			data = data[n:]

		case num == sampleFieldValue && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return Sample{}, protowire.ParseError(n)
			}
			vals, err := consumePackedVarints(v)
			if err != nil {
				return Sample{}, err
			}
			for _, raw := range vals {
				s.Value = append(s.Value, int64(raw))
			}
			data = data[n:]

		case num == sampleFieldValue && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return Sample{}, protowire.ParseError(n)
			}
			s.Value = append(s.Value, int64(v))
			data = data[n:]

		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return Sample{}, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return s, nil
}

func consumePackedVarints(data []byte) ([]uint64, error) {
	var out []uint64
	for len(data) > 0 {
		v, n := protowire.ConsumeVarint(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		out = append(out, v)
		data = data[n:]
	}
	return out, nil
}
