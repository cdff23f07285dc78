package scramble

import "strconv"

// Request is one action/message pair read from a request script.
// The message may be empty and may contain spaces or digits; its byte
// length travels on the wire, so no escaping is needed.
type Request struct {
	Action  Action
	Message []byte
}

// AppendRequest appends the wire form of a request to dst and returns
// the extended slice. A request frame is "<action> <length> <message>"
// where length is the decimal byte length of the message alone. Frames
// carry no terminator; consecutive frames abut on the wire.
func AppendRequest(dst []byte, action Action, message []byte) []byte {
	dst = append(dst, action...)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(len(message)), 10)
	dst = append(dst, ' ')
	dst = append(dst, message...)
	return dst
}

// EncodeRequest returns the wire form of a single request.
func EncodeRequest(action Action, message []byte) []byte {
	return AppendRequest(make([]byte, 0, len(action)+len(message)+8), action, message)
}

// AppendResponse appends the wire form of a response to dst and
// returns the extended slice. A response frame is "<length> <message>"
// with the same length semantics as a request and no action field.
func AppendResponse(dst []byte, message []byte) []byte {
	dst = strconv.AppendInt(dst, int64(len(message)), 10)
	dst = append(dst, ' ')
	dst = append(dst, message...)
	return dst
}

// EncodeResponse returns the wire form of a single response.
func EncodeResponse(message []byte) []byte {
	return AppendResponse(make([]byte, 0, len(message)+8), message)
}
