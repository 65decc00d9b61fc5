package myservicev1

import (
	"fmt"

	"google.golang.org/grpc/encoding"
)

// wireMessage is satisfied by Request and Response: the only two messages
// this service exchanges.
type wireMessage interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

// codecName matches grpc-go's built-in "proto" codec name. Registering under
// this name makes it the default for any ClientConn/Server that doesn't
// explicitly pick another, which is what this module's single service needs
// since it carries no other codec-dependent traffic.
const codecName = "proto"

// codec implements google.golang.org/grpc/encoding.Codec for Request and
// Response without generated protobuf reflection machinery.
type codec struct{}

func (codec) Marshal(v interface{}) ([]byte, error) {
	m, ok := v.(wireMessage)
	if !ok {
		return nil, fmt.Errorf("myservicev1: cannot marshal value of type %T", v)
	}
	return m.Marshal()
}

func (codec) Unmarshal(data []byte, v interface{}) error {
	m, ok := v.(wireMessage)
	if !ok {
		return fmt.Errorf("myservicev1: cannot unmarshal into value of type %T", v)
	}
	return m.Unmarshal(data)
}

func (codec) Name() string {
	return codecName
}

func init() {
	encoding.RegisterCodec(codec{})
}
