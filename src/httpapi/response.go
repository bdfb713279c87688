package httpapi

import (
	"encoding/json"
	"iter"
	"net/http"

	"github.com/newrelic/infra-integrations-sdk/v3/log"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"Error"`
	Details string `json:"Details"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("Failed to write response: %s", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	writeJSON(w, status, ErrorResponse{Error: message, Details: err.Error()})
}

// streamJSONArray writes seq as a JSON array, flushing after every element.
// The status line is only committed with the first element or the end of seq,
// so an error raised before that leaves w untouched and started false.
func streamJSONArray[T any](w http.ResponseWriter, seq iter.Seq2[T, error]) (count int, started bool, err error) {
	rc := http.NewResponseController(w)

	begin := func() {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		started = true
	}

	for item, seqErr := range seq {
		if seqErr != nil {
			return count, started, seqErr
		}

		b, marshalErr := json.Marshal(item)
		if marshalErr != nil {
			return count, started, marshalErr
		}

		sep := []byte(",")
		if !started {
			begin()
			sep = []byte("[")
		}
		if _, err := w.Write(append(sep, b...)); err != nil {
			return count, started, err
		}
		_ = rc.Flush()
		count++
	}

	if !started {
		begin()
		if _, err := w.Write([]byte("[")); err != nil {
			return count, started, err
		}
	}
	_, err = w.Write([]byte("]\n"))
	return count, started, err
}
