package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestLookup(t *testing.T) {
	assert.NotNil(t, Lookup("proto"))
	assert.NotNil(t, Lookup("json"))
	assert.Nil(t, Lookup("gob"))
}

func TestJSONRoundTrip(t *testing.T) {
	c := Lookup("json")

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	in := payload{Name: "gwire", Count: 3}

	data, err := c.Marshal(in)
	require.NoError(t, err)

	var out payload
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestProtoRoundTrip(t *testing.T) {
	c := Lookup("proto")

	data, err := c.Marshal(wrapperspb.String("hello"))
	require.NoError(t, err)

	out := &wrapperspb.StringValue{}
	require.NoError(t, c.Unmarshal(data, out))
	assert.Equal(t, "hello", out.GetValue())
}

func TestProtoRejectsNonMessage(t *testing.T) {
	c := Lookup("proto")

	_, err := c.Marshal("not a message")
	assert.Error(t, err)
	assert.Error(t, c.Unmarshal(nil, &struct{}{}))
}
