package myservicev1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_MarshalUnmarshalRoundTrip(t *testing.T) {
	req := &Request{Data: []byte{0x1f, 0x8b, 0x01, 0x02, 0x03}}

	b, err := req.Marshal()
	require.NoError(t, err)

	var decoded Request
	require.NoError(t, decoded.Unmarshal(b))
	assert.Equal(t, req.Data, decoded.Data)
}

func TestResponse_MarshalUnmarshalRoundTrip(t *testing.T) {
	resp := &Response{Result: []byte("a1b2c3d4-e5f6-7890-abcd-ef0123456789")}

	b, err := resp.Marshal()
	require.NoError(t, err)

	var decoded Response
	require.NoError(t, decoded.Unmarshal(b))
	assert.Equal(t, resp.Result, decoded.Result)
}

func TestRequest_EmptyData(t *testing.T) {
	req := &Request{}

	b, err := req.Marshal()
	require.NoError(t, err)

	var decoded Request
	require.NoError(t, decoded.Unmarshal(b))
	assert.Empty(t, decoded.Data)
}

func TestCodec_MarshalUnmarshalViaInterface(t *testing.T) {
	c := codec{}

	b, err := c.Marshal(&Request{Data: []byte("hello")})
	require.NoError(t, err)

	out := &Request{}
	require.NoError(t, c.Unmarshal(b, out))
	assert.Equal(t, []byte("hello"), out.Data)

	assert.Equal(t, "proto", c.Name())
}

func TestCodec_RejectsUnknownType(t *testing.T) {
	c := codec{}

	_, err := c.Marshal("not a wire message")
	assert.Error(t, err)

	err = c.Unmarshal([]byte{}, "not a wire message")
	assert.Error(t, err)
}
