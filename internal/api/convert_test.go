package api

import (
	"encoding/json"
	"strings"
	"testing"

	"assetbridge/internal/pathresolve"
	"assetbridge/internal/transfer"
)

func TestFromReport(t *testing.T) {
	report := transfer.Report{
		SucceededCount: 1,
		FailedCount:    1,
		Outcomes: []transfer.Outcome{
			{
				Path:        pathresolve.ResolvedPath{Raw: "/in/%41.png", Canonical: "/in/A.png", Exists: true},
				Status:      transfer.StatusCopied,
				Destination: "/out/A.png",
			},
			{
				Path:   pathresolve.ResolvedPath{Raw: "/in/gone.png", Canonical: "/in/gone.png"},
				Status: transfer.StatusFailed,
				Reason: pathresolve.ReasonFileMissing,
			},
		},
	}

	payload := FromReport(report)
	if payload.SucceededCount != 1 || payload.FailedCount != 1 || len(payload.Outcomes) != 2 {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.Outcomes[0].Path != "/in/%41.png" || payload.Outcomes[0].ResolvedPath != "/in/A.png" {
		t.Fatalf("unexpected first outcome %+v", payload.Outcomes[0])
	}
	if payload.Outcomes[1].ResolvedPath != "" {
		t.Fatal("missing files must not report a resolved path")
	}

	data, err := json.Marshal(BridgeResponse{Success: true, RequestID: "r1", Report: &payload})
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)
	for _, want := range []string{`"succeededCount":1`, `"status":"Copied"`, `"destinationPath":"/out/A.png"`, `"requestId":"r1"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in %s", want, body)
		}
	}
	if strings.Contains(body, `"error"`) {
		t.Fatalf("error should be omitted on success: %s", body)
	}
}

func TestFromReportEmptyOutcomesEncodeAsArray(t *testing.T) {
	data, err := json.Marshal(FromReport(transfer.Report{}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"outcomes":[]`) {
		t.Fatalf("expected empty array, got %s", data)
	}
}
