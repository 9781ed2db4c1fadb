package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

const (
	errorBlockStart = "----- HTTP_REQUEST_ERROR_START -----"
	errorBlockEnd   = "----- HTTP_REQUEST_ERROR_END -----"
)

// LogError writes err to stderr as a delimited block:
//
//	----- HTTP_REQUEST_ERROR_START -----
//	<message and stack trace>
//	{statusCode: 400, data: {"success":false}}
//	----- HTTP_REQUEST_ERROR_END -----
//
// The status line is written only when a response was received.
func LogError(err error) {
	FprintError(os.Stderr, err)
}

// FprintError writes the LogError block to w.
func FprintError(w io.Writer, err error) {
	fmt.Fprintln(w, errorBlockStart)
	if e, ok := AsError(err); ok {
		fmt.Fprintln(w, e.Trace())
		if e.HasResponse() {
			fmt.Fprintf(w, "{statusCode: %d, data: %s}\n", e.StatusCode(), formatData(e.Data()))
		}
	} else if err != nil {
		fmt.Fprintf(w, "%+v\n", err)
	}
	fmt.Fprintln(w, errorBlockEnd)
}

func formatData(data any) string {
	if s, ok := data.(string); ok {
		return s
	}
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(b)
}
