// Package codec provides payload serialization above the framing layer.
// Frames carry opaque bytes; a Codec decides what those bytes mean.
package codec

type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	// Name identifies the codec, e.g. in a content-type header.
	Name() string
}

var registry = make(map[string]Codec)

// Register makes a codec available by name. Not safe to call concurrently
// with Lookup; call from init or before serving.
func Register(c Codec) {
	registry[c.Name()] = c
}

// Lookup returns the codec registered under name, or nil.
func Lookup(name string) Codec {
	return registry[name]
}

func init() {
	Register(protoCodec{})
	Register(jsonCodec{})
}
