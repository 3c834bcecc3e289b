package rabbitmq

import (
	"testing"

	"askdata/internal/analysis"
)

func TestJobCodec(t *testing.T) {
	payload, err := EncodeJob(analysis.Job{DatasetID: 42})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(payload) != `{"datasetId":42}` {
		t.Errorf("unexpected payload %s", payload)
	}
	job, err := DecodeJob(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if job.DatasetID != 42 {
		t.Errorf("unexpected job %+v", job)
	}
}

func TestDecodeJob_Rejects(t *testing.T) {
	for _, body := range []string{"", "not json", `{}`, `{"datasetId":0}`} {
		if _, err := DecodeJob([]byte(body)); err == nil {
			t.Errorf("expected error for %q", body)
		}
	}
}
