// Package myservicev1 defines the wire messages and gRPC service stub for
// myservice.MyService: a single unary call carrying raw profile bytes in and
// an assigned identifier out.
package myservicev1

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// field numbers on Request and Response. Both messages carry a single bytes
// field, so no submessage or repeated-field handling is needed.
const dataFieldNumber = 1

// Request carries the submitted pprof-formatted profile bytes.
type Request struct {
	Data []byte
}

// Marshal encodes the request to protobuf wire bytes.
func (r *Request) Marshal() ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, dataFieldNumber, protowire.BytesType)
	b = protowire.AppendBytes(b, r.Data)
	return b, nil
}

// Unmarshal decodes protobuf wire bytes into the request.
func (r *Request) Unmarshal(data []byte) error {
	v, err := unmarshalSingleBytesField(data)
	if err != nil {
		return fmt.Errorf("unmarshal Request: %w", err)
	}
	r.Data = v
	return nil
}

// Response carries the assigned profile identifier, UTF-8 encoded.
type Response struct {
	Result []byte
}

// Marshal encodes the response to protobuf wire bytes.
func (r *Response) Marshal() ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, dataFieldNumber, protowire.BytesType)
	b = protowire.AppendBytes(b, r.Result)
	return b, nil
}

// Unmarshal decodes protobuf wire bytes into the response.
func (r *Response) Unmarshal(data []byte) error {
	v, err := unmarshalSingleBytesField(data)
	if err != nil {
		return fmt.Errorf("unmarshal Response: %w", err)
	}
	r.Result = v
	return nil
}

// unmarshalSingleBytesField reads field 1 (bytes) from data, skipping any
// unrecognised field so future schema additions don't break decoding.
func unmarshalSingleBytesField(data []byte) ([]byte, error) {
	var out []byte
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]

		if num == dataFieldNumber && typ == protowire.BytesType {
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			out = append([]byte(nil), v...)
			data = data[n:]
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
	}
	return out, nil
}
