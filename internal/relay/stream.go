package relay

import (
	"bufio"
	"bytes"
	"io"
	"net/http"
)

// processingComment is OpenRouter's keep-alive SSE comment. Some clients
// choke on it, so it is dropped during relay.
var processingComment = []byte(": OPENROUTER PROCESSING")

// relayStream copies an SSE body to the client line by line, preserving
// order and flushing each line as it arrives. Returns when the upstream
// stream ends or the client write fails.
func relayStream(w http.ResponseWriter, body io.Reader) error {
	flusher, _ := w.(http.Flusher)

	scanner := bufio.NewScanner(body)
	// Set a larger buffer for potentially large chunks
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, 256*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if bytes.Contains(line, processingComment) {
			continue
		}

		chunk := append(line, '\n')
		if _, err := w.Write(chunk); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	return scanner.Err()
}
