package xoptrace

// NewTraceID returns a random, non-zero 128-bit trace id.
func NewTraceID() HexBytes16 {
	var x HexBytes16
	randomBytesNotAllZero(x.b[:])
	return x
}

// NewSpanID returns a random, non-zero 64-bit span id.
func NewSpanID() HexBytes8 {
	var x HexBytes8
	randomBytesNotAllZero(x.b[:])
	return x
}
